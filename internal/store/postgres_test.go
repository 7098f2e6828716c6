package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS audit_runs`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	run := sampleRun("run-1", "Acme Plumbing")

	auditJSON, scoresJSON, manifestJSON, err := marshalDocuments(run)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO audit_runs`).
		WithArgs(run.ID, run.Client, run.Domain, run.RunDate, string(run.Status),
			auditJSON, scoresJSON, manifestJSON, run.Error, run.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveRun(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRun_NullDocuments(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	run := &model.Run{
		ID:        "bare",
		Client:    "Acme Plumbing",
		Domain:    "acme.test",
		RunDate:   "2026-08-01",
		Status:    model.RunStatusFailed,
		Error:     "download failed",
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO audit_runs`).
		WithArgs(run.ID, run.Client, run.Domain, run.RunDate, string(run.Status),
			nil, nil, nil, run.Error, run.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveRun(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	run := sampleRun("run-1", "Acme Plumbing")
	auditJSON, scoresJSON, manifestJSON, err := marshalDocuments(run)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"id", "client", "domain", "run_date", "status",
		"audit", "scores", "manifest", "error", "created_at",
	}).AddRow(run.ID, run.Client, run.Domain, run.RunDate, string(run.Status),
		auditJSON, scoresJSON, manifestJSON, "", run.CreatedAt)

	mock.ExpectQuery(`(?s)SELECT .+ FROM audit_runs WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnRows(rows)

	got, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Client, got.Client)
	require.NotNil(t, got.Audit)
	require.NotNil(t, got.Audit.Onsite.Keywords.Top10)
	assert.Equal(t, 7, *got.Audit.Onsite.Keywords.Top10)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM audit_runs WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "ghost")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	run := sampleRun("run-1", "Acme Plumbing")
	auditJSON, scoresJSON, manifestJSON, err := marshalDocuments(run)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"id", "client", "domain", "run_date", "status",
		"audit", "scores", "manifest", "error", "created_at",
	}).AddRow(run.ID, run.Client, run.Domain, run.RunDate, string(run.Status),
		auditJSON, scoresJSON, manifestJSON, "", run.CreatedAt)

	mock.ExpectQuery(`(?s)SELECT .+ FROM audit_runs WHERE 1=1 AND client = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("Acme Plumbing", 10).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), RunFilter{Client: "Acme Plumbing", Limit: 10})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
