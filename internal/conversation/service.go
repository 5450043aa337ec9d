package conversation

import (
	"context"
	"errors"

	"welp/internal/domain/claims"
	"welp/internal/domain/messages"
	"welp/internal/domain/reviews"
	"welp/internal/domain/users"
)

// The service depends on narrow slices of the domain stores so tests can
// swap them out. The repositories in internal/domain satisfy these.

type ReviewStore interface {
	GetByID(context.Context, int64) (*reviews.Review, error)
	AssignCustomer(ctx context.Context, reviewID, customerID int64) error
}

type MessageStore interface {
	Create(context.Context, *messages.Message) error
	GetByID(context.Context, int64) (*messages.Message, error)
	ListByReview(ctx context.Context, reviewID int64) ([]messages.Message, error)
	UpdateContent(ctx context.Context, messageID, authorID int64, content string) error
	Delete(ctx context.Context, messageID, authorID int64) error
}

type ClaimStore interface {
	Create(context.Context, *claims.Claim) error
	Exists(ctx context.Context, customerID, reviewID int64) (bool, error)
}

type AccessStore interface {
	IsSubscribed(ctx context.Context, userID int64) (bool, error)
	IsReviewUnlocked(ctx context.Context, userID, reviewID int64) (bool, error)
}

// Service wraps the pure engine with the commands that mutate
// conversation state. Storage failures pass through unmodified; retry
// policy belongs to the caller.
type Service struct {
	reviews  ReviewStore
	messages MessageStore
	claims   ClaimStore
	access   AccessStore
}

func NewService(reviewStore ReviewStore, messageStore MessageStore, claimStore ClaimStore, accessStore AccessStore) *Service {
	return &Service{
		reviews:  reviewStore,
		messages: messageStore,
		claims:   claimStore,
		access:   accessStore,
	}
}

// PredicatesFor resolves the access predicates for one requester against
// subscription, unlock and claim storage.
func (s *Service) PredicatesFor(ctx context.Context, review *reviews.Review, requester Actor) (AccessPredicates, error) {
	var preds AccessPredicates

	preds.IsReviewAuthor = requester.Type == users.AccountBusiness && requester.ID == review.BusinessID

	subscribed, err := s.access.IsSubscribed(ctx, requester.ID)
	if err != nil {
		return preds, err
	}
	preds.IsSubscribed = subscribed

	unlocked, err := s.access.IsReviewUnlocked(ctx, requester.ID, review.ID)
	if err != nil {
		return preds, err
	}
	preds.IsReviewUnlocked = unlocked

	if requester.Type == users.AccountCustomer {
		claimed, err := s.claims.Exists(ctx, requester.ID, review.ID)
		if err != nil {
			return preds, err
		}
		preds.HasClaimed = claimed
	}

	return preds, nil
}

// StartConversation posts the opening message. Only the reviewed customer
// may open; a business cannot message pre-emptively.
func (s *Service) StartConversation(ctx context.Context, reviewID int64, author Actor, content string) (*messages.Message, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if !isParticipant(review, author) {
		return nil, ErrNotAParticipant
	}
	if author.Type != users.AccountCustomer {
		return nil, ErrTurnViolation
	}

	thread, err := s.messages.ListByReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if len(thread) > 0 {
		return nil, ErrTurnViolation
	}

	return s.post(ctx, reviewID, author, content)
}

// AddMessage appends to an existing thread when the turn rules allow it.
func (s *Service) AddMessage(ctx context.Context, reviewID int64, author Actor, content string) (*messages.Message, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if !isParticipant(review, author) {
		return nil, ErrNotAParticipant
	}

	thread, err := s.messages.ListByReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if state := ComputeTurnState(thread, review, author); !state.CanRespond {
		return nil, ErrTurnViolation
	}

	return s.post(ctx, reviewID, author, content)
}

func (s *Service) post(ctx context.Context, reviewID int64, author Actor, content string) (*messages.Message, error) {
	authorType := messages.AuthorCustomer
	if author.Type == users.AccountBusiness {
		authorType = messages.AuthorBusiness
	}

	message := &messages.Message{
		ReviewID:   reviewID,
		AuthorID:   author.ID,
		AuthorType: authorType,
		Content:    content,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *Service) EditMessage(ctx context.Context, messageID int64, requester Actor, content string) (*messages.Message, error) {
	message, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.AuthorID != requester.ID {
		return nil, ErrNotAuthor
	}

	if err := s.messages.UpdateContent(ctx, messageID, requester.ID, content); err != nil {
		return nil, err
	}
	message.Content = content
	return message, nil
}

func (s *Service) DeleteMessage(ctx context.Context, messageID int64, requester Actor) error {
	message, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.AuthorID != requester.ID {
		return ErrNotAuthor
	}

	return s.messages.Delete(ctx, messageID, requester.ID)
}

// ClaimReview permanently associates a customer with a review. The first
// claim wins via the store's set-if-null update; re-claiming by the same
// customer is a no-op, and a claim on a review held by someone else fails.
func (s *Service) ClaimReview(ctx context.Context, reviewID int64, customer Actor) (*claims.Claim, error) {
	if customer.Type != users.AccountCustomer {
		return nil, ErrNotAParticipant
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	switch {
	case review.CustomerID == nil:
		err := s.reviews.AssignCustomer(ctx, reviewID, customer.ID)
		if errors.Is(err, reviews.ErrCustomerAssigned) {
			// Lost the race; see who holds it now.
			review, err = s.reviews.GetByID(ctx, reviewID)
			if err != nil {
				return nil, err
			}
			if review.CustomerID == nil || *review.CustomerID != customer.ID {
				return nil, ErrAlreadyClaimed
			}
		} else if err != nil {
			return nil, err
		}
	case *review.CustomerID != customer.ID:
		return nil, ErrAlreadyClaimed
	}

	claim := &claims.Claim{
		CustomerID:      customer.ID,
		ReviewID:        reviewID,
		AssociationType: claims.AssociationResponded,
	}
	if err := s.claims.Create(ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}
