package entity

import "time"

// APILog records one outbound marketplace API call.
type APILog struct {
	ID         int64     `json:"id" db:"id"`
	Endpoint   string    `json:"endpoint" db:"endpoint"`
	Method     string    `json:"method" db:"method"`
	StatusCode int       `json:"status_code" db:"status_code"`
	Duration   int64     `json:"duration_ms" db:"duration_ms"`
	UserID     string    `json:"user_id,omitempty" db:"user_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
