package duplicates

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	CheckProfile(ctx context.Context, input Profile) (Report, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// CheckProfile pulls loosely matching accounts with one query, then lets
// the in-process matcher decide. The SQL filter only has to be a
// superset of what Compare accepts.
func (r *Repository) CheckProfile(ctx context.Context, input Profile) (Report, error) {
	query := `
        SELECT id, name, email, phone, COALESCE(address, '')
        FROM users
        WHERE LOWER(email) = LOWER($1)
           OR regexp_replace(phone, '\D', '', 'g') = $2
           OR name ILIKE '%' || $3 || '%'
           OR $3 ILIKE '%' || name || '%'
        LIMIT 50
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, input.Email, normalizePhone(input.Phone), input.Name)
	if err != nil {
		return Report{}, err
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address); err != nil {
			return Report{}, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return Report{}, err
	}

	return BuildReport(input, candidates), nil
}
