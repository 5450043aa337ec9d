package conversation

import "welp/internal/domain/users"

// Actor is the requesting user as seen by the engine: an explicit
// parameter on every call, never ambient state.
type Actor struct {
	ID   int64
	Type users.AccountType
}

// AccessPredicates are the externally computed booleans the engine treats
// as opaque inputs. The caller resolves them against subscription, unlock
// and claim storage before asking for a decision.
type AccessPredicates struct {
	IsSubscribed     bool
	IsReviewUnlocked bool
	IsReviewAuthor   bool
	HasClaimed       bool
}

// Profile carries the customer contact fields compared against a review's
// recorded contact details. Nil fields are absent and never count toward
// a match.
type Profile struct {
	Name    *string
	Phone   *string
	Address *string
}

// TurnState answers "may I post next, and is it my turn" for one
// participant of a review conversation.
type TurnState struct {
	CanRespond bool `json:"can_respond"`
	IsMyTurn   bool `json:"is_my_turn"`
}
