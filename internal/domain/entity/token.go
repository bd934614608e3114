package entity

import "time"

// TokenSet is one linked account's credential pair. At most one row exists
// per eBay user id; a refresh replaces the row wholesale.
type TokenSet struct {
	ID           int64     `json:"id" db:"id"`
	UserID       string    `json:"userId" db:"user_id"`
	AccessToken  string    `json:"accessToken" db:"access_token"`
	RefreshToken string    `json:"refreshToken" db:"refresh_token"`
	ExpiresAt    time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// EbayUser is the locally cached identity of a linked eBay account. It may
// outlive a revoked TokenSet so the dashboard can still show who was linked.
type EbayUser struct {
	ID          int64     `json:"id" db:"id"`
	EbayUserID  string    `json:"ebayUserId" db:"ebay_user_id"`
	Username    string    `json:"username" db:"username"`
	Email       string    `json:"email,omitempty" db:"email"`
	AccountType string    `json:"accountType" db:"account_type"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// LoginSession is returned when a login flow is initiated. The state value
// is held server-side until the callback echoes it back.
type LoginSession struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
}
