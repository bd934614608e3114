package repository

import (
	"context"
	"fmt"

	"ebay-manager/internal/config"
	"ebay-manager/internal/domain/repository"
	"ebay-manager/internal/infrastructure/redis"
)

const stateKeyPrefix = "ebay:oauth_state:"

type stateRepository struct {
	redis  *redis.RedisClient
	config *config.Config
}

// NewStateRepository stores pending login states in Redis. The TTL bounds
// how long a login attempt can sit between redirect and callback.
func NewStateRepository(redisClient *redis.RedisClient, cfg *config.Config) repository.StateRepository {
	return &stateRepository{
		redis:  redisClient,
		config: cfg,
	}
}

func (r *stateRepository) Save(ctx context.Context, state string) error {
	key := stateKeyPrefix + state

	if err := r.redis.Set(ctx, key, "1", r.config.OAuth.StateTTL()); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}

	return nil
}

func (r *stateRepository) Consume(ctx context.Context, state string) (bool, error) {
	key := stateKeyPrefix + state

	_, err := r.redis.GetDel(ctx, key)
	if redis.IsNil(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume oauth state: %w", err)
	}

	return true, nil
}
