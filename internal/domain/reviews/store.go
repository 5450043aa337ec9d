package reviews

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Create(context.Context, *Review) error
	GetByID(context.Context, int64) (*Review, error)
	GetByClaimCode(context.Context, string) (*Review, error)
	ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]Review, int, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]Review, int, error)
	Update(ctx context.Context, reviewID, businessID int64, rating int, content string) error
	Delete(ctx context.Context, reviewID, businessID int64) error
	AssignCustomer(ctx context.Context, reviewID, customerID int64) error
	GetReputationStats(ctx context.Context, customerID int64) (*ReputationStats, error)
	SetClaimCode(ctx context.Context, reviewID int64, code string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, review *Review) error {
	query := `
        INSERT INTO reviews (business_id, rating, content, is_anonymous, customer_name, customer_phone, customer_address)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query,
		review.BusinessID,
		review.Rating,
		review.Content,
		review.IsAnonymous,
		review.CustomerName,
		review.CustomerPhone,
		review.CustomerAddress,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
}

const reviewColumns = `
        r.id, r.business_id, r.customer_id, r.rating, r.content, r.is_anonymous,
        r.claim_code, r.customer_name, r.customer_phone, r.customer_address,
        r.created_at, r.updated_at, COALESCE(u.business_name, u.name)
`

func scanReview(row pgx.Row) (*Review, error) {
	var review Review
	var customerID pgtype.Int8
	var claimCode, name, phone, address pgtype.Text
	err := row.Scan(
		&review.ID,
		&review.BusinessID,
		&customerID,
		&review.Rating,
		&review.Content,
		&review.IsAnonymous,
		&claimCode,
		&name,
		&phone,
		&address,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.BusinessName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if customerID.Valid {
		review.CustomerID = &customerID.Int64
	}
	if claimCode.Valid {
		review.ClaimCode = claimCode.String
	}
	if name.Valid {
		review.CustomerName = &name.String
	}
	if phone.Valid {
		review.CustomerPhone = &phone.String
	}
	if address.Valid {
		review.CustomerAddress = &address.String
	}
	return &review, nil
}

func (r *Repository) GetByID(ctx context.Context, reviewID int64) (*Review, error) {
	query := `
        SELECT ` + reviewColumns + `
        FROM reviews r
        JOIN users u ON u.id = r.business_id
        WHERE r.id = $1
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanReview(r.db.QueryRow(ctx, query, reviewID))
}

func (r *Repository) GetByClaimCode(ctx context.Context, code string) (*Review, error) {
	query := `
        SELECT ` + reviewColumns + `
        FROM reviews r
        JOIN users u ON u.id = r.business_id
        WHERE r.claim_code = $1
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanReview(r.db.QueryRow(ctx, query, code))
}

func (r *Repository) list(ctx context.Context, where string, subjectID int64, limit, offset int) ([]Review, int, error) {
	query := `
        SELECT ` + reviewColumns + `, COUNT(*) OVER()
        FROM reviews r
        JOIN users u ON u.id = r.business_id
        WHERE ` + where + `
        ORDER BY r.created_at DESC, r.id DESC
        LIMIT $2 OFFSET $3
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, subjectID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []Review
	var total int
	for rows.Next() {
		var review Review
		var customerID pgtype.Int8
		var claimCode, name, phone, address pgtype.Text
		err := rows.Scan(
			&review.ID,
			&review.BusinessID,
			&customerID,
			&review.Rating,
			&review.Content,
			&review.IsAnonymous,
			&claimCode,
			&name,
			&phone,
			&address,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.BusinessName,
			&total,
		)
		if err != nil {
			return nil, 0, err
		}
		if customerID.Valid {
			review.CustomerID = &customerID.Int64
		}
		if claimCode.Valid {
			review.ClaimCode = claimCode.String
		}
		if name.Valid {
			review.CustomerName = &name.String
		}
		if phone.Valid {
			review.CustomerPhone = &phone.String
		}
		if address.Valid {
			review.CustomerAddress = &address.String
		}
		reviews = append(reviews, review)
	}
	return reviews, total, rows.Err()
}

func (r *Repository) ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]Review, int, error) {
	return r.list(ctx, `r.business_id = $1`, businessID, limit, offset)
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]Review, int, error) {
	return r.list(ctx, `r.customer_id = $1`, customerID, limit, offset)
}

func (r *Repository) Update(ctx context.Context, reviewID, businessID int64, rating int, content string) error {
	query := `
        UPDATE reviews
        SET rating = $3, content = $4, updated_at = NOW()
        WHERE id = $1 AND business_id = $2
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query, reviewID, businessID, rating, content)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, reviewID, businessID int64) error {
	query := `
        DELETE FROM reviews
        WHERE id = $1 AND business_id = $2
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query, reviewID, businessID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignCustomer is a set-if-null compare-and-set: the claim succeeds only
// if no customer holds the review yet. Racing claimers lose here, not in
// application code.
func (r *Repository) AssignCustomer(ctx context.Context, reviewID, customerID int64) error {
	query := `
        UPDATE reviews
        SET customer_id = $2, updated_at = NOW()
        WHERE id = $1 AND customer_id IS NULL
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query, reviewID, customerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCustomerAssigned
	}
	return nil
}

func (r *Repository) GetReputationStats(ctx context.Context, customerID int64) (*ReputationStats, error) {
	query := `
        SELECT
            COUNT(id) as total_reviews,
            COALESCE(AVG(rating), 0) as average_rating
        FROM reviews
        WHERE customer_id = $1
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	stats := &ReputationStats{}
	err := r.db.QueryRow(ctx, query, customerID).Scan(&stats.TotalReviews, &stats.AverageRating)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *Repository) SetClaimCode(ctx context.Context, reviewID int64, code string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `UPDATE reviews SET claim_code = $2 WHERE id = $1`, reviewID, code)
	return err
}
