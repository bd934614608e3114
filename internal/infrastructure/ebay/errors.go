package ebay

import "fmt"

// ExchangeError is returned when the authorization-code exchange fails.
type ExchangeError struct {
	StatusCode  int
	Description string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("oauth token exchange failed: %s", e.Description)
}

// RefreshError is returned when a refresh-token grant fails. Callers treat
// it differently from ExchangeError: a failed refresh means re-authorization,
// not a broken login attempt.
type RefreshError struct {
	StatusCode  int
	Description string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %s", e.Description)
}

// IdentityError is returned when the identity endpoint rejects or garbles a
// user lookup.
type IdentityError struct {
	StatusCode  int
	Description string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("failed to fetch user info: %s", e.Description)
}
