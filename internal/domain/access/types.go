package access

import "time"

// Subscription rows are written by the payment processor's webhook
// handling, which lives outside this service. This package only reads
// them.
type Subscription struct {
	UserID    int64     `json:"user_id"`
	Plan      string    `json:"plan"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Unlock is a one-time purchased grant for a single review.
type Unlock struct {
	UserID    int64     `json:"user_id"`
	ReviewID  int64     `json:"review_id"`
	CreatedAt time.Time `json:"created_at"`
}
