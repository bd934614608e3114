package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ebay-manager/internal/domain/entity"
	"ebay-manager/internal/domain/repository"
	"ebay-manager/internal/infrastructure/database"
	"ebay-manager/internal/infrastructure/ebay"
)

type tokenRepository struct {
	db *database.Database
}

func NewTokenRepository(db *database.Database) repository.TokenRepository {
	return &tokenRepository{
		db: db,
	}
}

func (r *tokenRepository) SaveTokens(ctx context.Context, userID string, tokens *entity.TokenSet) error {
	// Upsert: the whole row is replaced so readers never see a mix of two
	// writes.
	query := `
		INSERT INTO ebay_tokens (user_id, access_token, refresh_token, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT(user_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		userID,
		tokens.AccessToken,
		tokens.RefreshToken,
		tokens.ExpiresAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}

	return nil
}

func (r *tokenRepository) FindTokens(ctx context.Context, userID string) (*entity.TokenSet, error) {
	query := `
		SELECT id, user_id, access_token, refresh_token, expires_at, created_at, updated_at
		FROM ebay_tokens
		WHERE user_id = $1
	`

	var tokens entity.TokenSet

	err := r.db.DB.QueryRowContext(ctx, query, userID).Scan(
		&tokens.ID,
		&tokens.UserID,
		&tokens.AccessToken,
		&tokens.RefreshToken,
		&tokens.ExpiresAt,
		&tokens.CreatedAt,
		&tokens.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Not found, return nil without error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tokens by user id: %w", err)
	}

	return &tokens, nil
}

func (r *tokenRepository) DeleteTokens(ctx context.Context, userID string) error {
	query := `DELETE FROM ebay_tokens WHERE user_id = $1`

	if _, err := r.db.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}

	return nil
}

func (r *tokenRepository) SaveUser(ctx context.Context, user *entity.EbayUser) error {
	query := `
		INSERT INTO ebay_users (ebay_user_id, username, email, account_type, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT(ebay_user_id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			account_type = EXCLUDED.account_type,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		user.EbayUserID,
		user.Username,
		user.Email,
		user.AccountType,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

func (r *tokenRepository) FindUser(ctx context.Context, ebayUserID string) (*entity.EbayUser, error) {
	query := `
		SELECT id, ebay_user_id, username, email, account_type, created_at, updated_at
		FROM ebay_users
		WHERE ebay_user_id = $1
	`

	var user entity.EbayUser

	err := r.db.DB.QueryRowContext(ctx, query, ebayUserID).Scan(
		&user.ID,
		&user.EbayUserID,
		&user.Username,
		&user.Email,
		&user.AccountType,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ebay user id: %w", err)
	}

	return &user, nil
}

func (r *tokenRepository) DeleteUser(ctx context.Context, ebayUserID string) error {
	query := `DELETE FROM ebay_users WHERE ebay_user_id = $1`

	if _, err := r.db.DB.ExecContext(ctx, query, ebayUserID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (r *tokenRepository) SaveLogin(ctx context.Context, user *entity.EbayUser, tokens *entity.TokenSet) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	// Identity row first, token row second. A reader can then always
	// distinguish "never linked" from "fully linked".
	userQuery := `
		INSERT INTO ebay_users (ebay_user_id, username, email, account_type, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT(ebay_user_id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			account_type = EXCLUDED.account_type,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := tx.ExecContext(ctx, userQuery,
		user.EbayUserID,
		user.Username,
		user.Email,
		user.AccountType,
		now,
	); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	tokenQuery := `
		INSERT INTO ebay_tokens (user_id, access_token, refresh_token, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT(user_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := tx.ExecContext(ctx, tokenQuery,
		user.EbayUserID,
		tokens.AccessToken,
		tokens.RefreshToken,
		tokens.ExpiresAt,
		now,
	); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit login: %w", err)
	}

	return nil
}

func (r *tokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	// Rows past the refresh buffer were never refreshed; expiry is also
	// checked on every read, so this is housekeeping only.
	cutoff := time.Now().Add(-ebay.RefreshBuffer)

	query := `DELETE FROM ebay_tokens WHERE expires_at < $1`

	result, err := r.db.DB.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted tokens: %w", err)
	}

	return deleted, nil
}
