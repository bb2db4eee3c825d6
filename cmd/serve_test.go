package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halcyon-research/equity-cli/internal/config"
	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/internal/research"
	"github.com/halcyon-research/equity-cli/internal/store"
)

func testEnv(t *testing.T) *pipelineEnv {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "serve.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	c := &config.Config{
		Research: config.ResearchConfig{CacheTTLHours: 24},
	}
	return &pipelineEnv{
		Pipeline: research.New(c, st, nil, nil),
		Store:    st,
	}
}

func TestServeHealth(t *testing.T) {
	router := newRouter(context.Background(), testEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeResearchRejectsBadBody(t *testing.T) {
	router := newRouter(context.Background(), testEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research", strings.NewReader("not json")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeResearchRequiresSymbol(t *testing.T) {
	router := newRouter(context.Background(), testEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/research", strings.NewReader(`{"symbol":"  "}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeJobsListAndGet(t *testing.T) {
	env := testEnv(t)
	router := newRouter(context.Background(), env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var empty []model.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	require.Empty(t, empty)

	job, err := env.Store.CreateJob(context.Background(), "AAPL")
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "AAPL", got.Symbol)
	require.Equal(t, model.JobStatusPending, got.Status)
}

func TestServeJobNotFound(t *testing.T) {
	router := newRouter(context.Background(), testEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/no-such-job", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
