package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"ebay-manager/internal/domain/entity"
	"ebay-manager/internal/domain/repository"
	"ebay-manager/internal/infrastructure/ebay"
)

type AuthUsecase interface {
	// InitiateLogin issues a fresh state and the authorization URL the
	// seller should be redirected to.
	InitiateLogin(ctx context.Context) (*entity.LoginSession, error)

	// HandleCallback completes the authorization-code flow: exchange the
	// code, fetch the identity, and persist both. Returns the linked eBay
	// user id. Nothing is persisted unless every step succeeds.
	HandleCallback(ctx context.Context, code, state string) (string, error)

	// GetValidToken returns a usable token set, refreshing first when the
	// stored one is inside the expiry buffer.
	GetValidToken(ctx context.Context, userID string) (*entity.TokenSet, error)

	// GetLinkedUser returns the cached identity of a linked account.
	GetLinkedUser(ctx context.Context, userID string) (*entity.EbayUser, error)

	// Logout revokes both tokens best-effort and deletes the token set.
	// Calling it for an already unlinked user is a no-op.
	Logout(ctx context.Context, userID string) error

	// PurgeAccount removes both the token set and the identity record, for
	// marketplace account-deletion notifications.
	PurgeAccount(ctx context.Context, userID string) error

	// CleanupExpiredTokens sweeps token rows past the refresh buffer.
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

type authUsecase struct {
	client ebay.Client
	tokens repository.TokenRepository
	states repository.StateRepository
	logger *zap.Logger

	// Collapses concurrent refreshes for the same user into one upstream
	// round trip.
	refreshGroup singleflight.Group
}

func NewAuthUsecase(client ebay.Client, tokens repository.TokenRepository, states repository.StateRepository, logger *zap.Logger) AuthUsecase {
	return &authUsecase{
		client: client,
		tokens: tokens,
		states: states,
		logger: logger,
	}
}

func (u *authUsecase) InitiateLogin(ctx context.Context) (*entity.LoginSession, error) {
	state, err := newState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate oauth state: %w", err)
	}

	if err := u.states.Save(ctx, state); err != nil {
		return nil, err
	}

	session := &entity.LoginSession{
		AuthURL: u.client.BuildAuthURL(state),
		State:   state,
	}

	u.logger.Info("Login initiated", zap.String("state", state))

	return session, nil
}

func (u *authUsecase) HandleCallback(ctx context.Context, code, state string) (string, error) {
	if code == "" {
		return "", ErrMissingAuthCode
	}

	// The state is single-use; an unknown or reused value is rejected.
	if state != "" {
		ok, err := u.states.Consume(ctx, state)
		if err != nil {
			return "", err
		}
		if !ok {
			u.logger.Warn("Rejected callback with unknown state", zap.String("state", state))
			return "", ErrStateMismatch
		}
	}

	tokens, err := u.client.ExchangeCode(ctx, code)
	if err != nil {
		u.logger.Error("Code exchange failed", zap.Error(err))
		return "", err
	}

	user, err := u.client.GetUserInfo(ctx, tokens.AccessToken)
	if err != nil {
		// Nothing has been persisted yet; the caller gets a clear error
		// instead of an orphaned token row.
		u.logger.Error("Identity fetch failed after exchange", zap.Error(err))
		return "", err
	}

	tokens.UserID = user.EbayUserID

	if err := u.tokens.SaveLogin(ctx, user, tokens); err != nil {
		u.logger.Error("Failed to persist login", zap.Error(err))
		return "", err
	}

	u.logger.Info("OAuth flow completed",
		zap.String("user_id", user.EbayUserID),
		zap.String("username", user.Username),
	)

	return user.EbayUserID, nil
}

func (u *authUsecase) GetValidToken(ctx context.Context, userID string) (*entity.TokenSet, error) {
	stored, err := u.tokens.FindTokens(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrNotLinked
	}

	if !ebay.IsExpired(stored.ExpiresAt) {
		return stored, nil
	}

	u.logger.Info("Token expired, refreshing", zap.String("user_id", userID))

	refreshed, err, _ := u.refreshGroup.Do(userID, func() (interface{}, error) {
		tokens, err := u.client.RefreshToken(ctx, stored.RefreshToken)
		if err != nil {
			return nil, err
		}

		tokens.UserID = userID
		if err := u.tokens.SaveTokens(ctx, userID, tokens); err != nil {
			return nil, err
		}

		return tokens, nil
	})
	if err != nil {
		// The stale record stays put: a transient upstream failure must not
		// force a full re-link.
		u.logger.Error("Token refresh failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrReauthRequired, err)
	}

	return refreshed.(*entity.TokenSet), nil
}

func (u *authUsecase) GetLinkedUser(ctx context.Context, userID string) (*entity.EbayUser, error) {
	user, err := u.tokens.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotLinked
	}

	return user, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID string) error {
	stored, err := u.tokens.FindTokens(ctx, userID)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	// Revocation is best-effort; logout still succeeds locally.
	u.client.RevokeToken(ctx, stored.AccessToken, ebay.AccessTokenHint)
	u.client.RevokeToken(ctx, stored.RefreshToken, ebay.RefreshTokenHint)

	if err := u.tokens.DeleteTokens(ctx, userID); err != nil {
		return err
	}

	u.logger.Info("User logged out", zap.String("user_id", userID))

	return nil
}

func (u *authUsecase) PurgeAccount(ctx context.Context, userID string) error {
	if err := u.tokens.DeleteTokens(ctx, userID); err != nil {
		return err
	}
	if err := u.tokens.DeleteUser(ctx, userID); err != nil {
		return err
	}

	u.logger.Info("Purged account data", zap.String("user_id", userID))

	return nil
}

func (u *authUsecase) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	deleted, err := u.tokens.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		u.logger.Info("Cleaned up expired tokens", zap.Int64("deleted", deleted))
	}

	return deleted, nil
}

func newState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
