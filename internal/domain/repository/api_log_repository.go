package repository

import (
	"context"

	"ebay-manager/internal/domain/entity"
)

type APILogRepository interface {
	// Save records one outbound marketplace API call.
	Save(ctx context.Context, log *entity.APILog) error

	// FindRecent returns the newest entries, newest first.
	FindRecent(ctx context.Context, limit int) ([]entity.APILog, error)
}
