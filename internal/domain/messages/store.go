package messages

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Store interface {
	Create(context.Context, *Message) error
	GetByID(context.Context, int64) (*Message, error)
	ListByReview(ctx context.Context, reviewID int64) ([]Message, error)
	UpdateContent(ctx context.Context, messageID, authorID int64, content string) error
	Delete(ctx context.Context, messageID, authorID int64) error
}

// DB is the slice of pgxpool.Pool the repository uses. Tests substitute
// a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db DB
}

func NewRepository(db DB) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, message *Message) error {
	query := `
        INSERT INTO conversation_messages (review_id, author_id, author_type, content)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query,
		message.ReviewID,
		message.AuthorID,
		message.AuthorType,
		message.Content,
	).Scan(&message.ID, &message.CreatedAt, &message.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, messageID int64) (*Message, error) {
	query := `
        SELECT id, review_id, author_id, author_type, content, created_at, updated_at
        FROM conversation_messages
        WHERE id = $1
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	message := &Message{}
	err := r.db.QueryRow(ctx, query, messageID).Scan(
		&message.ID,
		&message.ReviewID,
		&message.AuthorID,
		&message.AuthorType,
		&message.Content,
		&message.CreatedAt,
		&message.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return message, nil
}

// ListByReview returns the full thread in turn order. The id tie-break
// keeps messages with identical timestamps in insertion order.
func (r *Repository) ListByReview(ctx context.Context, reviewID int64) ([]Message, error) {
	query := `
        SELECT id, review_id, author_id, author_type, content, created_at, updated_at
        FROM conversation_messages
        WHERE review_id = $1
        ORDER BY created_at ASC, id ASC
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var thread []Message
	for rows.Next() {
		var message Message
		err := rows.Scan(
			&message.ID,
			&message.ReviewID,
			&message.AuthorID,
			&message.AuthorType,
			&message.Content,
			&message.CreatedAt,
			&message.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		thread = append(thread, message)
	}
	return thread, rows.Err()
}

// UpdateContent edits a message body. Ordering is untouched: created_at
// never changes on edit.
func (r *Repository) UpdateContent(ctx context.Context, messageID, authorID int64, content string) error {
	query := `
        UPDATE conversation_messages
        SET content = $3, updated_at = NOW()
        WHERE id = $1 AND author_id = $2
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query, messageID, authorID, content)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, messageID, authorID int64) error {
	query := `
        DELETE FROM conversation_messages
        WHERE id = $1 AND author_id = $2
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query, messageID, authorID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
