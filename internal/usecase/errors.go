package usecase

import "errors"

// Failure taxonomy surfaced to the route layer. Handlers map these to HTTP
// statuses without knowing marketplace-specific error shapes.
var (
	// ErrMissingAuthCode means the callback arrived without a code.
	ErrMissingAuthCode = errors.New("authorization code is required")

	// ErrStateMismatch means the callback's state was never issued, already
	// used, or expired.
	ErrStateMismatch = errors.New("oauth state mismatch")

	// ErrNotLinked means no token set is stored for the user.
	ErrNotLinked = errors.New("no linked ebay account")

	// ErrReauthRequired means a refresh failed and the seller must restart
	// the login flow. The stale token set is retained.
	ErrReauthRequired = errors.New("token refresh failed, re-authorization required")
)
