package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-research/equity-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// --- Report Cache ---

func TestSQLite_ReportCache_SetAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	err := st.CacheReport(ctx, "historical_earnings", "AAPL", []byte(`{"symbol":"AAPL"}`), 24*time.Hour)
	require.NoError(t, err)

	payload, err := st.GetCachedReport(ctx, "historical_earnings", "AAPL")
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"AAPL"}`, string(payload))
}

func TestSQLite_ReportCache_Miss(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetCachedReport(context.Background(), "historical_earnings", "MSFT")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSQLite_ReportCache_Expired(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	// Set with already-expired TTL (-1 hour in the past).
	err := st.CacheReport(ctx, "forward_pe", "AAPL", []byte(`{"symbol":"AAPL"}`), -1*time.Hour)
	require.NoError(t, err)

	_, err = st.GetCachedReport(ctx, "forward_pe", "AAPL")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSQLite_ReportCache_KeyedByTypeAndSymbol(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.CacheReport(ctx, "forward_pe", "AAPL", []byte(`{"v":1}`), time.Hour))
	require.NoError(t, st.CacheReport(ctx, "forward_pe", "MSFT", []byte(`{"v":2}`), time.Hour))
	require.NoError(t, st.CacheReport(ctx, "news_sentiment", "AAPL", []byte(`{"v":3}`), time.Hour))

	payload, err := st.GetCachedReport(ctx, "forward_pe", "AAPL")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(payload))

	payload, err = st.GetCachedReport(ctx, "news_sentiment", "AAPL")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":3}`, string(payload))
}

func TestSQLite_ReportCache_Overwrite(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.CacheReport(ctx, "trade_ideas", "AAPL", []byte(`{"v":"old"}`), time.Hour))
	require.NoError(t, st.CacheReport(ctx, "trade_ideas", "AAPL", []byte(`{"v":"new"}`), time.Hour))

	payload, err := st.GetCachedReport(ctx, "trade_ideas", "AAPL")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"new"}`, string(payload))
}

func TestSQLite_DeleteExpiredReports(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.CacheReport(ctx, "forward_pe", "AAPL", []byte(`{}`), -time.Hour))
	require.NoError(t, st.CacheReport(ctx, "forward_pe", "MSFT", []byte(`{}`), time.Hour))

	n, err := st.DeleteExpiredReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = st.GetCachedReport(ctx, "forward_pe", "MSFT")
	assert.NoError(t, err)
}

// --- Jobs ---

func TestSQLite_Jobs_CreateAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	job, err := st.CreateJob(ctx, "AAPL")
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, model.JobStatusPending, job.Status)

	got, err := st.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Empty(t, got.Steps)
	assert.Nil(t, got.CompletedAt)
}

func TestSQLite_Jobs_GetMissing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetJob(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_Jobs_StatusLifecycle(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	job, err := st.CreateJob(ctx, "AAPL")
	require.NoError(t, err)

	require.NoError(t, st.UpdateJobStatus(ctx, job.ID, model.JobStatusRunning, ""))
	require.NoError(t, st.UpdateJobStatus(ctx, job.ID, model.JobStatusCompleted, ""))

	got, err := st.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestSQLite_Jobs_NoBackwardTransition(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	job, err := st.CreateJob(ctx, "AAPL")
	require.NoError(t, err)

	require.NoError(t, st.UpdateJobStatus(ctx, job.ID, model.JobStatusRunning, ""))
	require.NoError(t, st.UpdateJobStatus(ctx, job.ID, model.JobStatusFailed, "stage blew up"))

	// Terminal statuses cannot be overwritten.
	err = st.UpdateJobStatus(ctx, job.ID, model.JobStatusRunning, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transition")

	err = st.UpdateJobStatus(ctx, job.ID, model.JobStatusCompleted, "")
	require.Error(t, err)

	got, err := st.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, got.Status)
	assert.Equal(t, "stage blew up", got.Error)
}

func TestSQLite_Jobs_AppendSteps(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	job, err := st.CreateJob(ctx, "AAPL")
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, st.AppendJobStep(ctx, job.ID, model.JobStep{Name: "company_overview", CompletedAt: now}))
	require.NoError(t, st.AppendJobStep(ctx, job.ID, model.JobStep{Name: "historical_earnings", CompletedAt: now, FromCache: true}))

	got, err := st.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, "company_overview", got.Steps[0].Name)
	assert.True(t, got.Steps[1].FromCache)
}

func TestSQLite_Jobs_List(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateJob(ctx, "AAPL")
	require.NoError(t, err)
	_, err = st.CreateJob(ctx, "MSFT")
	require.NoError(t, err)
	require.NoError(t, st.UpdateJobStatus(ctx, a.ID, model.JobStatusRunning, ""))

	jobs, err := st.ListJobs(ctx, JobFilter{Symbol: "AAPL"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, a.ID, jobs[0].ID)

	jobs, err = st.ListJobs(ctx, JobFilter{Status: model.JobStatusRunning})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	jobs, err = st.ListJobs(ctx, JobFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
