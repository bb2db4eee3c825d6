package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/halcyon-research/equity-cli/internal/db"
	"github.com/halcyon-research/equity-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_cached_report": `SELECT payload FROM report_cache WHERE report_type = $1 AND symbol = $2 AND expires_at > now()`,
	"cache_report": `INSERT INTO report_cache (id, report_type, symbol, payload, cached_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (report_type, symbol) DO UPDATE SET
		  payload = excluded.payload, cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
	"insert_job": `INSERT INTO jobs (id, symbol, status, steps, created_at, updated_at) VALUES ($1, $2, $3, '[]', $4, $5)`,
	"get_job":    `SELECT id, symbol, status, steps, error, created_at, updated_at, completed_at FROM jobs WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS report_cache (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	report_type TEXT NOT NULL,
	symbol      TEXT NOT NULL,
	payload     JSONB NOT NULL,
	cached_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at  TIMESTAMPTZ NOT NULL,
	UNIQUE (report_type, symbol)
);

CREATE TABLE IF NOT EXISTS jobs (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	symbol       TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	steps        JSONB NOT NULL DEFAULT '[]',
	error        TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_report_cache_lookup ON report_cache(report_type, symbol);
CREATE INDEX IF NOT EXISTS idx_report_cache_expires_at ON report_cache(expires_at);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_symbol ON jobs(symbol);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetCachedReport(ctx context.Context, reportType, symbol string) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM report_cache WHERE report_type = $1 AND symbol = $2 AND expires_at > now()`,
		reportType, symbol,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get cached report %s/%s", reportType, symbol)
	}
	return payload, nil
}

func (s *PostgresStore) CacheReport(ctx context.Context, reportType, symbol string, payload []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO report_cache (id, report_type, symbol, payload, cached_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (report_type, symbol) DO UPDATE SET
		   payload = excluded.payload, cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
		uuid.New().String(), reportType, symbol, payload, now, now.Add(ttl),
	)
	return eris.Wrapf(err, "postgres: cache report %s/%s", reportType, symbol)
}

func (s *PostgresStore) DeleteExpiredReports(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM report_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired reports")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, symbol string) (*model.Job, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, symbol, status, steps, created_at, updated_at) VALUES ($1, $2, $3, '[]', $4, $5)`,
		id, symbol, string(model.JobStatusPending), now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert job for %s", symbol)
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

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus, errMsg string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx)

	var current model.JobStatus
	err = tx.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1 FOR UPDATE`, jobID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return eris.Wrapf(err, "postgres: get job status %s", jobID)
	}
	if !current.CanTransition(status) {
		return eris.Errorf("postgres: job %s: invalid transition %s -> %s", jobID, current, status)
	}

	now := time.Now().UTC()
	var completedAt *time.Time
	if status.Terminal() {
		completedAt = &now
	}
	_, err = tx.Exec(ctx,
		`UPDATE jobs SET status = $1, error = $2, updated_at = $3, completed_at = $4 WHERE id = $5`,
		string(status), nullString(errMsg), now, completedAt, jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update job status %s", jobID)
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}

func (s *PostgresStore) AppendJobStep(ctx context.Context, jobID string, step model.JobStep) error {
	stepJSON, err := json.Marshal(step)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal job step")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET steps = steps || $1::jsonb, updated_at = $2 WHERE id = $3`,
		stepJSON, time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: append job step %s", jobID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, symbol, status, steps, error, created_at, updated_at, completed_at FROM jobs WHERE id = $1`,
		jobID,
	)
	return scanPgJob(row)
}

func (s *PostgresStore) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	query := `SELECT id, symbol, status, steps, error, created_at, updated_at, completed_at FROM jobs WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	if filter.Symbol != "" {
		query += ` AND symbol = ` + arg(filter.Symbol)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + arg(limit)
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list jobs")
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanPgJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, eris.Wrap(rows.Err(), "postgres: list jobs iterate")
}

func scanPgJob(row pgx.Row) (*model.Job, error) {
	var j model.Job
	var stepsJSON []byte
	var errMsg *string
	var completedAt *time.Time

	err := row.Scan(&j.ID, &j.Symbol, &j.Status, &stepsJSON, &errMsg, &j.CreatedAt, &j.UpdatedAt, &completedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan job")
	}

	if err := json.Unmarshal(stepsJSON, &j.Steps); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal job steps")
	}
	if errMsg != nil {
		j.Error = *errMsg
	}
	j.CompletedAt = completedAt
	return &j, nil
}
