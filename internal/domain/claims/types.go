package claims

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	QueryTimeoutDuration = time.Second * 5
)

// AssociationType records how a customer became linked to a review.
type AssociationType string

const (
	AssociationResponded AssociationType = "responded"
	AssociationPurchased AssociationType = "purchased"
)

// Claim durably links a customer account to a review it has claimed or
// unlocked. Claims are never deleted by normal operation.
type Claim struct {
	CustomerID      int64           `json:"customer_id"`
	ReviewID        int64           `json:"review_id"`
	AssociationType AssociationType `json:"association_type"`
	CreatedAt       time.Time       `json:"created_at"`
}
