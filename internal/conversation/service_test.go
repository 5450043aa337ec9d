package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"welp/internal/domain/claims"
	"welp/internal/domain/messages"
	"welp/internal/domain/reviews"
	"welp/internal/domain/users"
)

// --- Mock stores ---

type mockReviewStore struct {
	mock.Mock
}

func (m *mockReviewStore) GetByID(ctx context.Context, id int64) (*reviews.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reviews.Review), args.Error(1)
}

func (m *mockReviewStore) AssignCustomer(ctx context.Context, reviewID, customerID int64) error {
	args := m.Called(ctx, reviewID, customerID)
	return args.Error(0)
}

type mockMessageStore struct {
	mock.Mock
}

func (m *mockMessageStore) Create(ctx context.Context, msg *messages.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockMessageStore) GetByID(ctx context.Context, id int64) (*messages.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messages.Message), args.Error(1)
}

func (m *mockMessageStore) ListByReview(ctx context.Context, reviewID int64) ([]messages.Message, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]messages.Message), args.Error(1)
}

func (m *mockMessageStore) UpdateContent(ctx context.Context, messageID, authorID int64, content string) error {
	args := m.Called(ctx, messageID, authorID, content)
	return args.Error(0)
}

func (m *mockMessageStore) Delete(ctx context.Context, messageID, authorID int64) error {
	args := m.Called(ctx, messageID, authorID)
	return args.Error(0)
}

type mockClaimStore struct {
	mock.Mock
}

func (m *mockClaimStore) Create(ctx context.Context, claim *claims.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *mockClaimStore) Exists(ctx context.Context, customerID, reviewID int64) (bool, error) {
	args := m.Called(ctx, customerID, reviewID)
	return args.Bool(0), args.Error(1)
}

type mockAccessStore struct {
	mock.Mock
}

func (m *mockAccessStore) IsSubscribed(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAccessStore) IsReviewUnlocked(ctx context.Context, userID, reviewID int64) (bool, error) {
	args := m.Called(ctx, userID, reviewID)
	return args.Bool(0), args.Error(1)
}

func newTestService() (*Service, *mockReviewStore, *mockMessageStore, *mockClaimStore, *mockAccessStore) {
	reviewStore := new(mockReviewStore)
	messageStore := new(mockMessageStore)
	claimStore := new(mockClaimStore)
	accessStore := new(mockAccessStore)
	return NewService(reviewStore, messageStore, claimStore, accessStore), reviewStore, messageStore, claimStore, accessStore
}

// --- StartConversation ---

func TestStartConversation_CustomerOpens(t *testing.T) {
	svc, reviewStore, messageStore, _, _ := newTestService()
	review := claimedReview()

	reviewStore.On("GetByID", mock.Anything, review.ID).Return(review, nil)
	messageStore.On("ListByReview", mock.Anything, review.ID).Return([]messages.Message{}, nil)
	messageStore.On("Create", mock.Anything, mock.AnythingOfType("*messages.Message")).Return(nil)

	msg, err := svc.StartConversation(context.Background(), review.ID, customer(), "that review is inaccurate")
	require.NoError(t, err)
	assert.Equal(t, customerID, msg.AuthorID)
	assert.Equal(t, messages.AuthorCustomer, msg.AuthorType)
	messageStore.AssertExpectations(t)
}

func TestStartConversation_BusinessCannotOpen(t *testing.T) {
	svc, reviewStore, _, _, _ := newTestService()
	review := claimedReview()

	reviewStore.On("GetByID", mock.Anything, review.ID).Return(review, nil)

	_, err := svc.StartConversation(context.Background(), review.ID, business(), "hello?")
	assert.ErrorIs(t, err, ErrTurnViolation)
}

func TestStartConversation_ExistingThreadRejected(t *testing.T) {
	svc, reviewStore, messageStore, _, _ := newTestService()
	review := claimedReview()

	reviewStore.On("GetByID", mock.Anything, review.ID).Return(review, nil)
	messageStore.On("ListByReview", mock.Anything, review.ID).Return([]messages.Message{
		msg(customerID, time.Now()),
	}, nil)

	_, err := svc.StartConversation(context.Background(), review.ID, customer(), "again")
	assert.ErrorIs(t, err, ErrTurnViolation)
}

func TestStartConversation_StrangerRejected(t *testing.T) {
	svc, reviewStore, _, _, _ := newTestService()
	review := claimedReview()

	reviewStore.On("GetByID", mock.Anything, review.ID).Return(review, nil)

	_, err := svc.StartConversation(context.Background(), review.ID, Actor{ID: strangerID, Type: users.AccountCustomer}, "hi")
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

// --- AddMessage ---

func TestAddMessage_FollowsTurnOrder(t *testing.T) {
	svc, reviewStore, messageStore, _, _ := newTestService()
	review := claimedReview()
	thread := []messages.Message{msg(customerID, time.Now())}

	reviewStore.On("GetByID", mock.Anything, review.ID).Return(review, nil)
	messageStore.On("ListByReview", mock.Anything, review.ID).Return(thread, nil)
	messageStore.On("Create", mock.Anything, mock.AnythingOfType("*messages.Message")).Return(nil)

	// Business replies to the customer's opener.
	reply, err := svc.AddMessage(context.Background(), review.ID, business(), "we disagree")
	require.NoError(t, err)
	assert.Equal(t, messages.AuthorBusiness, reply.AuthorType)

	// The customer cannot post twice in a row through the command path.
	_, err = svc.AddMessage(context.Background(), review.ID, customer(), "me again")
	assert.ErrorIs(t, err, ErrTurnViolation)
}

func TestAddMessage_StoreFailurePassesThrough(t *testing.T) {
	svc, reviewStore, _, _, _ := newTestService()
	storeErr := errors.New("connection refused")

	reviewStore.On("GetByID", mock.Anything, int64(1)).Return(nil, storeErr)

	_, err := svc.AddMessage(context.Background(), 1, customer(), "hi")
	assert.ErrorIs(t, err, storeErr)
}

// --- Edit / Delete ---

func TestEditMessage_AuthorOnly(t *testing.T) {
	svc, _, messageStore, _, _ := newTestService()
	existing := &messages.Message{ID: 5, ReviewID: 1, AuthorID: customerID, Content: "old"}

	messageStore.On("GetByID", mock.Anything, int64(5)).Return(existing, nil)
	messageStore.On("UpdateContent", mock.Anything, int64(5), customerID, "new").Return(nil)

	updated, err := svc.EditMessage(context.Background(), 5, customer(), "new")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Content)

	_, err = svc.EditMessage(context.Background(), 5, business(), "sneaky")
	assert.ErrorIs(t, err, ErrNotAuthor)
}

func TestDeleteMessage_NonAuthorRejected(t *testing.T) {
	svc, _, messageStore, _, _ := newTestService()
	existing := &messages.Message{ID: 5, ReviewID: 1, AuthorID: businessID}

	messageStore.On("GetByID", mock.Anything, int64(5)).Return(existing, nil)

	err := svc.DeleteMessage(context.Background(), 5, customer())
	assert.ErrorIs(t, err, ErrNotAuthor)
}

// --- ClaimReview ---

func TestClaimReview_FirstClaimAssigns(t *testing.T) {
	svc, reviewStore, _, claimStore, _ := newTestService()
	review := claimedReview()
	review.CustomerID = nil

	reviewStore.On("GetByID", mock.Anything, review.ID).Return(review, nil)
	reviewStore.On("AssignCustomer", mock.Anything, review.ID, customerID).Return(nil)
	claimStore.On("Create", mock.Anything, mock.AnythingOfType("*claims.Claim")).Return(nil)

	claim, err := svc.ClaimReview(context.Background(), review.ID, customer())
	require.NoError(t, err)
	assert.Equal(t, claims.AssociationResponded, claim.AssociationType)
	reviewStore.AssertExpectations(t)
}

func TestClaimReview_ReclaimIsIdempotent(t *testing.T) {
	svc, reviewStore, _, claimStore, _ := newTestService()
	review := claimedReview() // already held by customerID

	reviewStore.On("GetByID", mock.Anything, review.ID).Return(review, nil)
	claimStore.On("Create", mock.Anything, mock.AnythingOfType("*claims.Claim")).Return(nil)

	for i := 0; i < 2; i++ {
		_, err := svc.ClaimReview(context.Background(), review.ID, customer())
		require.NoError(t, err)
	}
	// AssignCustomer is never called for an already-held review.
	reviewStore.AssertNotCalled(t, "AssignCustomer", mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimReview_DifferentCustomerRejected(t *testing.T) {
	svc, reviewStore, _, _, _ := newTestService()
	review := claimedReview()

	reviewStore.On("GetByID", mock.Anything, review.ID).Return(review, nil)

	_, err := svc.ClaimReview(context.Background(), review.ID, Actor{ID: strangerID, Type: users.AccountCustomer})
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
}

func TestClaimReview_LostRaceRejected(t *testing.T) {
	svc, reviewStore, _, _, _ := newTestService()
	unclaimed := claimedReview()
	unclaimed.CustomerID = nil
	winner := strangerID
	taken := claimedReview()
	taken.CustomerID = &winner

	reviewStore.On("GetByID", mock.Anything, unclaimed.ID).Return(unclaimed, nil).Once()
	reviewStore.On("AssignCustomer", mock.Anything, unclaimed.ID, customerID).Return(reviews.ErrCustomerAssigned)
	reviewStore.On("GetByID", mock.Anything, unclaimed.ID).Return(taken, nil).Once()

	_, err := svc.ClaimReview(context.Background(), unclaimed.ID, customer())
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
}

func TestClaimReview_BusinessCannotClaim(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.ClaimReview(context.Background(), 1, business())
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

// --- PredicatesFor ---

func TestPredicatesFor_ResolvesAllInputs(t *testing.T) {
	svc, _, _, claimStore, accessStore := newTestService()
	review := claimedReview()

	accessStore.On("IsSubscribed", mock.Anything, customerID).Return(true, nil)
	accessStore.On("IsReviewUnlocked", mock.Anything, customerID, review.ID).Return(false, nil)
	claimStore.On("Exists", mock.Anything, customerID, review.ID).Return(true, nil)

	preds, err := svc.PredicatesFor(context.Background(), review, customer())
	require.NoError(t, err)
	assert.True(t, preds.IsSubscribed)
	assert.False(t, preds.IsReviewUnlocked)
	assert.True(t, preds.HasClaimed)
	assert.False(t, preds.IsReviewAuthor)
}

func TestPredicatesFor_AuthorFlag(t *testing.T) {
	svc, _, _, _, accessStore := newTestService()
	review := claimedReview()

	accessStore.On("IsSubscribed", mock.Anything, businessID).Return(false, nil)
	accessStore.On("IsReviewUnlocked", mock.Anything, businessID, review.ID).Return(false, nil)

	preds, err := svc.PredicatesFor(context.Background(), review, business())
	require.NoError(t, err)
	assert.True(t, preds.IsReviewAuthor)
	assert.False(t, preds.HasClaimed)
}
