package access

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var QueryTimeoutDuration = time.Second * 5

// Store answers the two access predicates the conversation engine treats
// as opaque inputs: subscription status and per-review unlocks.
type Store interface {
	IsSubscribed(ctx context.Context, userID int64) (bool, error)
	IsReviewUnlocked(ctx context.Context, userID, reviewID int64) (bool, error)
	CreateUnlock(ctx context.Context, userID, reviewID int64) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) IsSubscribed(ctx context.Context, userID int64) (bool, error) {
	var subscribed bool
	query := `
        SELECT EXISTS (
          SELECT 1 FROM subscriptions
          WHERE user_id = $1 AND expires_at > NOW()
        )
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query, userID).Scan(&subscribed)
	return subscribed, err
}

func (r *Repository) IsReviewUnlocked(ctx context.Context, userID, reviewID int64) (bool, error) {
	var unlocked bool
	query := `
        SELECT EXISTS (
          SELECT 1 FROM review_unlocks
          WHERE user_id = $1 AND review_id = $2
        )
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query, userID, reviewID).Scan(&unlocked)
	return unlocked, err
}

func (r *Repository) CreateUnlock(ctx context.Context, userID, reviewID int64) error {
	query := `
        INSERT INTO review_unlocks (user_id, review_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, query, userID, reviewID)
	return err
}
