package reviews

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrCustomerAssigned  = errors.New("review is already assigned to a customer")
	QueryTimeoutDuration = time.Second * 5
)

// Review is written by a business about a customer. CustomerID stays nil
// until a registered customer claims the review; the recorded contact
// fields are what the business knew about the customer at write time and
// are used for profile matching.
type Review struct {
	ID          int64   `json:"id"`
	BusinessID  int64   `json:"business_id"`
	CustomerID  *int64  `json:"customer_id,omitempty"`
	Rating      int     `json:"rating"` // 1-5
	Content     string  `json:"content"`
	IsAnonymous bool    `json:"is_anonymous"`
	ClaimCode   string  `json:"-"` // Sensitive: shared out-of-band with the customer

	CustomerName    *string `json:"customer_name,omitempty"`
	CustomerPhone   *string `json:"customer_phone,omitempty"`
	CustomerAddress *string `json:"customer_address,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields
	BusinessName string `json:"business_name,omitempty"`
}

// ReputationStats aggregates the reviews recorded about one customer.
type ReputationStats struct {
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
}
