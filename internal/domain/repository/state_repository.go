package repository

import "context"

// StateRepository holds pending login states so the OAuth callback can be
// checked against the value handed out at login time.
type StateRepository interface {
	// Save records a freshly issued state for one login attempt.
	Save(ctx context.Context, state string) error

	// Consume validates and removes a state. Returns false for states that
	// were never issued, already used, or expired.
	Consume(ctx context.Context, state string) (bool, error)
}
