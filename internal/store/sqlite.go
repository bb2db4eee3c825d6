package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/halcyon-research/equity-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS report_cache (
	id          TEXT PRIMARY KEY,
	report_type TEXT NOT NULL,
	symbol      TEXT NOT NULL,
	payload     TEXT NOT NULL,
	cached_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at  DATETIME NOT NULL,
	UNIQUE (report_type, symbol)
);

CREATE TABLE IF NOT EXISTS jobs (
	id           TEXT PRIMARY KEY,
	symbol       TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	steps        TEXT NOT NULL DEFAULT '[]',
	error        TEXT,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_report_cache_lookup ON report_cache(report_type, symbol);
CREATE INDEX IF NOT EXISTS idx_report_cache_expires_at ON report_cache(expires_at);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_symbol ON jobs(symbol);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetCachedReport(ctx context.Context, reportType, symbol string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM report_cache
		 WHERE report_type = ? AND symbol = ? AND expires_at > datetime('now')`,
		reportType, symbol,
	)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get cached report %s/%s", reportType, symbol)
	}
	return []byte(payload), nil
}

func (s *SQLiteStore) CacheReport(ctx context.Context, reportType, symbol string, payload []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO report_cache (id, report_type, symbol, payload, cached_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (report_type, symbol) DO UPDATE SET
		   payload = excluded.payload, cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
		uuid.New().String(), reportType, symbol, string(payload), now, now.Add(ttl),
	)
	return eris.Wrapf(err, "sqlite: cache report %s/%s", reportType, symbol)
}

func (s *SQLiteStore) DeleteExpiredReports(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM report_cache WHERE expires_at <= datetime('now')`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired reports")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

func (s *SQLiteStore) CreateJob(ctx context.Context, symbol string) (*model.Job, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, symbol, status, steps, created_at, updated_at) VALUES (?, ?, ?, '[]', ?, ?)`,
		id, symbol, string(model.JobStatusPending), now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert job for %s", symbol)
	}

	return &model.Job{
		ID:        id,
		Symbol:    symbol,
		Status:    model.JobStatusPending,
		Steps:     []model.JobStep{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus, errMsg string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	var current model.JobStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = ?`, jobID).Scan(&current)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return eris.Wrapf(err, "sqlite: get job status %s", jobID)
	}
	if !current.CanTransition(status) {
		return eris.Errorf("sqlite: job %s: invalid transition %s -> %s", jobID, current, status)
	}

	now := time.Now().UTC()
	var completedAt any
	if status.Terminal() {
		completedAt = now
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, updated_at = ?, completed_at = ? WHERE id = ?`,
		string(status), nullString(errMsg), now, completedAt, jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update job status %s", jobID)
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) AppendJobStep(ctx context.Context, jobID string, step model.JobStep) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	var stepsJSON string
	err = tx.QueryRowContext(ctx, `SELECT steps FROM jobs WHERE id = ?`, jobID).Scan(&stepsJSON)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return eris.Wrapf(err, "sqlite: get job steps %s", jobID)
	}

	var steps []model.JobStep
	if err := json.Unmarshal([]byte(stepsJSON), &steps); err != nil {
		return eris.Wrapf(err, "sqlite: unmarshal job steps %s", jobID)
	}
	steps = append(steps, step)
	updated, err := json.Marshal(steps)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal job steps")
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE jobs SET steps = ?, updated_at = ? WHERE id = ?`,
		string(updated), time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: append job step %s", jobID)
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, symbol, status, steps, error, created_at, updated_at, completed_at FROM jobs WHERE id = ?`,
		jobID,
	)
	return scanJob(row)
}

func (s *SQLiteStore) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	query := `SELECT id, symbol, status, steps, error, created_at, updated_at, completed_at FROM jobs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, filter.Symbol)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list jobs")
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, eris.Wrap(rows.Err(), "sqlite: list jobs iterate")
}

// helpers

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type scannable interface {
	Scan(dest ...any) error
}

func scanJob(row scannable) (*model.Job, error) {
	var j model.Job
	var stepsJSON string
	var errMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(&j.ID, &j.Symbol, &j.Status, &stepsJSON, &errMsg, &j.CreatedAt, &j.UpdatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan job")
	}

	if err := json.Unmarshal([]byte(stepsJSON), &j.Steps); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal job steps")
	}
	if errMsg.Valid {
		j.Error = errMsg.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		j.CompletedAt = &t
	}
	return &j, nil
}
