package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-research/equity-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetCachedReport_Miss(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT payload FROM report_cache`).
		WithArgs("forward_pe", "AAPL").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetCachedReport(context.Background(), "forward_pe", "AAPL")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCachedReport_Hit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT payload FROM report_cache`).
		WithArgs("forward_pe", "AAPL").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow([]byte(`{"symbol":"AAPL"}`)))

	payload, err := s.GetCachedReport(context.Background(), "forward_pe", "AAPL")
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"AAPL"}`, string(payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CacheReport_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs(pgxmock.AnyArg(), "news_sentiment", "AAPL", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.CacheReport(context.Background(), "news_sentiment", "AAPL", []byte(`{}`), 24*time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetJob_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, symbol, status, steps, error, created_at, updated_at, completed_at FROM jobs`).
		WithArgs("nonexistent-job").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetJob(context.Background(), "nonexistent-job")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateJobStatus_RejectsBackwardTransition(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM jobs`).
		WithArgs("job-1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(string(model.JobStatusCompleted)))
	mock.ExpectRollback()

	err := s.UpdateJobStatus(context.Background(), "job-1", model.JobStatusRunning, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transition")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AppendJobStep_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE jobs SET steps`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "missing-job").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.AppendJobStep(context.Background(), "missing-job", model.JobStep{Name: "forward_pe"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
