package conversation

import "errors"

var (
	// ErrNotAuthor is returned when an edit or delete is attempted by
	// someone other than the message author.
	ErrNotAuthor = errors.New("only the author may modify this message")

	// ErrTurnViolation is returned when a message is posted out of turn,
	// including opening a conversation that already has messages.
	ErrTurnViolation = errors.New("it is not your turn to respond")

	// ErrAlreadyClaimed is returned when a review is already held by a
	// different customer.
	ErrAlreadyClaimed = errors.New("review is already claimed by another customer")

	// ErrNotAParticipant is returned when the requester is neither the
	// reviewing business nor the reviewed customer.
	ErrNotAParticipant = errors.New("you are not a participant in this conversation")
)
