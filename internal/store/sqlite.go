package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
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
CREATE TABLE IF NOT EXISTS audit_runs (
	id         TEXT PRIMARY KEY,
	client     TEXT NOT NULL,
	domain     TEXT NOT NULL,
	run_date   TEXT NOT NULL,
	status     TEXT NOT NULL,
	audit      TEXT,
	scores     TEXT,
	manifest   TEXT,
	error      TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_audit_runs_client ON audit_runs(client);
CREATE INDEX IF NOT EXISTS idx_audit_runs_domain ON audit_runs(domain);
CREATE INDEX IF NOT EXISTS idx_audit_runs_created_at ON audit_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.Run) error {
	auditJSON, scoresJSON, manifestJSON, err := marshalDocuments(run)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_runs (id, client, domain, run_date, status, audit, scores, manifest, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status = excluded.status, audit = excluded.audit,
		   scores = excluded.scores, manifest = excluded.manifest,
		   error = excluded.error`,
		run.ID, run.Client, run.Domain, run.RunDate, string(run.Status),
		auditJSON, scoresJSON, manifestJSON, run.Error, run.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: save run")
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, client, domain, run_date, status, audit, scores, manifest, error, created_at
		 FROM audit_runs WHERE id = ?`, runID)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, client, domain, run_date, status, audit, scores, manifest, error, created_at
		FROM audit_runs WHERE 1=1`
	var args []any
	if filter.Client != "" {
		query += ` AND client = ?`
		args = append(args, filter.Client)
	}
	if filter.Domain != "" {
		query += ` AND domain = ?`
		args = append(args, filter.Domain)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (*model.Run, error) {
	var run model.Run
	var status string
	var auditJSON, scoresJSON, manifestJSON, errMsg sql.NullString
	if err := r.Scan(&run.ID, &run.Client, &run.Domain, &run.RunDate, &status,
		&auditJSON, &scoresJSON, &manifestJSON, &errMsg, &run.CreatedAt); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	run.Error = errMsg.String
	if err := unmarshalDocuments(&run, auditJSON.String, scoresJSON.String, manifestJSON.String); err != nil {
		return nil, err
	}
	return &run, nil
}

func marshalDocuments(run *model.Run) (auditJSON, scoresJSON, manifestJSON string, err error) {
	if run.Audit != nil {
		b, err := json.Marshal(run.Audit)
		if err != nil {
			return "", "", "", eris.Wrap(err, "store: marshal audit")
		}
		auditJSON = string(b)
	}
	if run.Scores != nil {
		b, err := json.Marshal(run.Scores)
		if err != nil {
			return "", "", "", eris.Wrap(err, "store: marshal scores")
		}
		scoresJSON = string(b)
	}
	if run.Manifest != nil {
		b, err := json.Marshal(run.Manifest)
		if err != nil {
			return "", "", "", eris.Wrap(err, "store: marshal manifest")
		}
		manifestJSON = string(b)
	}
	return auditJSON, scoresJSON, manifestJSON, nil
}

func unmarshalDocuments(run *model.Run, auditJSON, scoresJSON, manifestJSON string) error {
	if auditJSON != "" {
		if err := json.Unmarshal([]byte(auditJSON), &run.Audit); err != nil {
			return eris.Wrap(err, "store: unmarshal audit")
		}
	}
	if scoresJSON != "" {
		if err := json.Unmarshal([]byte(scoresJSON), &run.Scores); err != nil {
			return eris.Wrap(err, "store: unmarshal scores")
		}
	}
	if manifestJSON != "" {
		if err := json.Unmarshal([]byte(manifestJSON), &run.Manifest); err != nil {
			return eris.Wrap(err, "store: unmarshal manifest")
		}
	}
	return nil
}
