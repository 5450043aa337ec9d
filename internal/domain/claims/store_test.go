package claims

import (
	"context"
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

func TestRepository_Create_Idempotent(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	// The conflict path reports zero rows; Create still succeeds.
	mock.ExpectExec("INSERT INTO claim_associations").
		WithArgs(int64(20), int64(3), AssociationResponded).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	claim := &Claim{CustomerID: 20, ReviewID: 3, AssociationType: AssociationResponded}
	err := repo.Create(context.Background(), claim)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Exists(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(20), int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), 20, 3)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByCustomer(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	now := time.Now()

	mock.ExpectQuery("FROM claim_associations").
		WithArgs(int64(20)).
		WillReturnRows(pgxmock.NewRows([]string{"customer_id", "review_id", "association_type", "created_at"}).
			AddRow(int64(20), int64(3), AssociationResponded, now).
			AddRow(int64(20), int64(9), AssociationPurchased, now.Add(-time.Hour)))

	list, err := repo.ListByCustomer(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, AssociationResponded, list[0].AssociationType)
	assert.Equal(t, int64(9), list[1].ReviewID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByCustomer_Empty(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	mock.ExpectQuery("FROM claim_associations").
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"customer_id", "review_id", "association_type", "created_at"}))

	list, err := repo.ListByCustomer(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
