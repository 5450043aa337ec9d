package claims

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Store interface {
	Create(context.Context, *Claim) error
	Exists(ctx context.Context, customerID, reviewID int64) (bool, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Claim, error)
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

// Create is idempotent: re-claiming the same (customer, review, type) is a
// no-op.
func (r *Repository) Create(ctx context.Context, claim *Claim) error {
	query := `
        INSERT INTO claim_associations (customer_id, review_id, association_type)
        VALUES ($1, $2, $3)
        ON CONFLICT DO NOTHING
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, query, claim.CustomerID, claim.ReviewID, claim.AssociationType)
	return err
}

func (r *Repository) Exists(ctx context.Context, customerID, reviewID int64) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS (
          SELECT 1 FROM claim_associations
          WHERE customer_id = $1 AND review_id = $2
        )
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query, customerID, reviewID).Scan(&exists)
	return exists, err
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]Claim, error) {
	query := `
        SELECT customer_id, review_id, association_type, created_at
        FROM claim_associations
        WHERE customer_id = $1
        ORDER BY created_at DESC
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Claim
	for rows.Next() {
		var claim Claim
		if err := rows.Scan(&claim.CustomerID, &claim.ReviewID, &claim.AssociationType, &claim.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, claim)
	}
	return result, rows.Err()
}
