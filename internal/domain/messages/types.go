package messages

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	QueryTimeoutDuration = time.Second * 5
)

// AuthorType indicates which side of the review posted a message.
type AuthorType string

const (
	AuthorBusiness AuthorType = "business"
	AuthorCustomer AuthorType = "customer"
)

// Message is one post in the reply thread attached to a review. Threads
// are totally ordered by (created_at, id).
type Message struct {
	ID         int64      `json:"id"`
	ReviewID   int64      `json:"review_id"`
	AuthorID   int64      `json:"author_id"`
	AuthorType AuthorType `json:"author_type"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
