package users

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound             = errors.New("resource not found")
	ErrDuplicateEmail       = errors.New("an account with that email already exists")
	ErrDuplicatePhoneNumber = errors.New("an account with that phone number already exists")
	QueryTimeoutDuration    = time.Second * 5
)

// AccountType separates the two sides of the marketplace. Businesses write
// reviews; customers claim and respond to them.
type AccountType string

const (
	AccountBusiness AccountType = "business"
	AccountCustomer AccountType = "customer"
)

type User struct {
	ID           int64       `json:"id"`
	AccountType  AccountType `json:"account_type"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Address      *string     `json:"address,omitempty"`
	BusinessName *string     `json:"business_name,omitempty"`
	Password     password    `json:"-"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Password struct to store plain text and hash
type password struct {
	text *string `json:"-"` // Hide plaintext password
	hash []byte  `json:"-"` // Hide hashed password
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.text = &text
	p.hash = hash

	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

// Hash exposes the stored bcrypt hash for persistence.
func (p *password) Hash() []byte {
	return p.hash
}

// SetHash restores a password value from its stored hash.
func (p *password) SetHash(hash []byte) {
	p.hash = hash
}
