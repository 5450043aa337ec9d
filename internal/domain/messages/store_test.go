package messages

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewRepository(mock)
	return repo, mock
}

func messageColumns() []string {
	return []string{"id", "review_id", "author_id", "author_type", "content", "created_at", "updated_at"}
}

func sampleMessage() *Message {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &Message{
		ID:         7,
		ReviewID:   3,
		AuthorID:   20,
		AuthorType: AuthorCustomer,
		Content:    "That is not what happened.",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	now := time.Now()

	mock.ExpectQuery("INSERT INTO conversation_messages").
		WithArgs(int64(3), int64(20), AuthorCustomer, "hello").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	message := &Message{ReviewID: 3, AuthorID: 20, AuthorType: AuthorCustomer, Content: "hello"}
	err := repo.Create(context.Background(), message)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), message.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	m := sampleMessage()

	mock.ExpectQuery("SELECT id, review_id, author_id, author_type, content, created_at, updated_at").
		WithArgs(m.ID).
		WillReturnRows(pgxmock.NewRows(messageColumns()).
			AddRow(m.ID, m.ReviewID, m.AuthorID, m.AuthorType, m.Content, m.CreatedAt, m.UpdatedAt))

	got, err := repo.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Content, got.Content)
	assert.Equal(t, m.AuthorType, got.AuthorType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, review_id, author_id, author_type, content, created_at, updated_at").
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(messageColumns()))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByReview_TurnOrder(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	now := time.Now()

	mock.ExpectQuery("ORDER BY created_at ASC, id ASC").
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(messageColumns()).
			AddRow(int64(1), int64(3), int64(20), AuthorCustomer, "first", now, now).
			AddRow(int64(2), int64(3), int64(10), AuthorBusiness, "second", now.Add(time.Minute), now.Add(time.Minute)))

	thread, err := repo.ListByReview(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, int64(1), thread[0].ID)
	assert.Equal(t, AuthorBusiness, thread[1].AuthorType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateContent_AuthorScoped(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE conversation_messages").
		WithArgs(int64(7), int64(999), "edited").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateContent(context.Background(), 7, 999, "edited")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM conversation_messages").
		WithArgs(int64(7), int64(20)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), 7, 20)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete_StoreErrorPassesThrough(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	boom := errors.New("connection reset")

	mock.ExpectExec("DELETE FROM conversation_messages").
		WithArgs(int64(7), int64(20)).
		WillReturnError(boom)

	err := repo.Delete(context.Background(), 7, 20)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
