package repository

import (
	"context"

	"ebay-manager/internal/domain/entity"
)

type TokenRepository interface {
	// SaveTokens upserts the token set for a user. Last write wins.
	SaveTokens(ctx context.Context, userID string, tokens *entity.TokenSet) error

	// FindTokens returns the stored token set, or nil when the user has
	// never linked (or has logged out).
	FindTokens(ctx context.Context, userID string) (*entity.TokenSet, error)

	// DeleteTokens removes the token set. Deleting an absent key is a no-op.
	DeleteTokens(ctx context.Context, userID string) error

	// SaveUser upserts the linked account identity.
	SaveUser(ctx context.Context, user *entity.EbayUser) error

	// FindUser returns the linked account, or nil when unknown.
	FindUser(ctx context.Context, ebayUserID string) (*entity.EbayUser, error)

	// DeleteUser removes the linked account record. Normal logout keeps the
	// identity row; this serves marketplace account-deletion notifications.
	DeleteUser(ctx context.Context, ebayUserID string) error

	// SaveLogin persists the identity and token rows in one transaction so a
	// reader can never observe a token without its account.
	SaveLogin(ctx context.Context, user *entity.EbayUser, tokens *entity.TokenSet) error

	// DeleteExpired removes token rows whose expiry passed the refresh
	// buffer. Advisory cleanup; expiry is checked on every read regardless.
	DeleteExpired(ctx context.Context) (int64, error)
}
