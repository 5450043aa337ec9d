package duplicates

import "time"

var QueryTimeoutDuration = time.Second * 5

// Profile is the registration input checked against existing accounts.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Candidate is an existing account pulled from storage for comparison.
type Candidate struct {
	UserID  int64
	Name    string
	Email   string
	Phone   string
	Address string
}

// Match names one existing account that resembles the registration input
// and which fields triggered it.
type Match struct {
	UserID        int64    `json:"user_id"`
	MatchedFields []string `json:"matched_fields"`
	ExactContact  bool     `json:"exact_contact"` // email or phone matched exactly
}

// Report is returned alongside registration so the caller can warn or
// block. Likely is set when any match has an exact contact field or two
// or more fuzzy fields.
type Report struct {
	Matches []Match `json:"matches"`
	Likely  bool    `json:"likely_duplicate"`
}
