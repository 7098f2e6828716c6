package store

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, extracted so tests can
// substitute a mock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, primarily for tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS audit_runs (
	id         TEXT PRIMARY KEY,
	client     TEXT NOT NULL,
	domain     TEXT NOT NULL,
	run_date   TEXT NOT NULL,
	status     TEXT NOT NULL,
	audit      JSONB,
	scores     JSONB,
	manifest   JSONB,
	error      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_audit_runs_client ON audit_runs(client);
CREATE INDEX IF NOT EXISTS idx_audit_runs_domain ON audit_runs(domain);
CREATE INDEX IF NOT EXISTS idx_audit_runs_created_at ON audit_runs(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run *model.Run) error {
	auditJSON, scoresJSON, manifestJSON, err := marshalDocuments(run)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO audit_runs (id, client, domain, run_date, status, audit, scores, manifest, error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   status = EXCLUDED.status, audit = EXCLUDED.audit,
		   scores = EXCLUDED.scores, manifest = EXCLUDED.manifest,
		   error = EXCLUDED.error`,
		run.ID, run.Client, run.Domain, run.RunDate, string(run.Status),
		nullable(auditJSON), nullable(scoresJSON), nullable(manifestJSON),
		run.Error, run.CreatedAt,
	)
	return eris.Wrap(err, "postgres: save run")
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, client, domain, run_date, status,
		        COALESCE(audit::text, ''), COALESCE(scores::text, ''),
		        COALESCE(manifest::text, ''), COALESCE(error, ''), created_at
		 FROM audit_runs WHERE id = $1`, runID)

	run, err := scanPostgresRun(row)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, client, domain, run_date, status,
		COALESCE(audit::text, ''), COALESCE(scores::text, ''),
		COALESCE(manifest::text, ''), COALESCE(error, ''), created_at
		FROM audit_runs WHERE 1=1`
	var args []any
	if filter.Client != "" {
		args = append(args, filter.Client)
		query += ` AND client = $` + strconv.Itoa(len(args))
	}
	if filter.Domain != "" {
		args = append(args, filter.Domain)
		query += ` AND domain = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanPostgresRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func scanPostgresRun(r rowScanner) (*model.Run, error) {
	var run model.Run
	var status, auditJSON, scoresJSON, manifestJSON string
	if err := r.Scan(&run.ID, &run.Client, &run.Domain, &run.RunDate, &status,
		&auditJSON, &scoresJSON, &manifestJSON, &run.Error, &run.CreatedAt); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	if err := unmarshalDocuments(&run, auditJSON, scoresJSON, manifestJSON); err != nil {
		return nil, err
	}
	return &run, nil
}

// nullable maps an empty JSON string to NULL so empty documents do not
// round-trip as empty strings in JSONB columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
