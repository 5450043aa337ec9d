package pushtokens

import (
	"context"
	"encoding/json"
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

func TestRepository_AddOrUpdatePushToken(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	info := json.RawMessage(`{"os":"ios"}`)

	mock.ExpectExec("INSERT INTO user_push_tokens").
		WithArgs(int64(20), "ExponentPushToken[abc]", info).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.AddOrUpdatePushToken(context.Background(), 20, "ExponentPushToken[abc]", info)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RemoveTokensByTokenList(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	tokens := []string{"ExponentPushToken[a]", "ExponentPushToken[b]"}

	mock.ExpectExec("DELETE FROM user_push_tokens").
		WithArgs(tokens).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	err := repo.RemoveTokensByTokenList(context.Background(), tokens)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RemoveTokensByTokenList_EmptySliceIsNoop(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	err := repo.RemoveTokensByTokenList(context.Background(), nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetTokensByUserIDs(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT user_id, expo_push_token FROM user_push_tokens").
		WithArgs([]int64{20, 21}).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "expo_push_token"}).
			AddRow(int64(20), "ExponentPushToken[a]").
			AddRow(int64(20), "ExponentPushToken[b]").
			AddRow(int64(21), "ExponentPushToken[c]"))

	result, err := repo.GetTokensByUserIDs(context.Background(), []int64{20, 21})
	require.NoError(t, err)
	assert.Len(t, result[20], 2)
	assert.Equal(t, []string{"ExponentPushToken[c]"}, result[21])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PruneStaleTokens(t *testing.T) {
	repo, mock := newTestRepository(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM user_push_tokens").
		WithArgs((70 * 24 * time.Hour).String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 5))

	err := repo.PruneStaleTokens(context.Background(), 70*24*time.Hour)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
