package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleRun(id, client string) *model.Run {
	audit := model.NewAudit(model.Meta{Client: client, Domain: "acme.test", RunDate: "2026-08-01"})
	top10 := 7
	audit.Onsite.Keywords.Top10 = &top10

	manifest := model.NewManifest()
	manifest.Present("ahrefs_keywords.csv", 512)
	manifest.Missing("brightlocal_ranks.csv")

	return &model.Run{
		ID:      id,
		Client:  client,
		Domain:  "acme.test",
		RunDate: "2026-08-01",
		Status:  model.RunStatusComplete,
		Audit:   audit,
		Scores: &model.Scores{
			Onsite: model.Composite{Score: 62.5, Coverage: 0.55, WeightUsed: 55, WeightTotal: 100},
			Local:  model.Composite{Score: 41.0, Coverage: 0.65, WeightUsed: 65, WeightTotal: 100},
		},
		Manifest:  manifest,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run := sampleRun("run-1", "Acme Plumbing")
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Audit)
	require.NotNil(t, got.Audit.Onsite.Keywords.Top10)
	assert.Equal(t, 7, *got.Audit.Onsite.Keywords.Top10)
	require.NotNil(t, got.Scores)
	assert.Equal(t, 62.5, got.Scores.Onsite.Score)
	require.NotNil(t, got.Manifest["brightlocal_ranks.csv"])
	assert.Equal(t, model.StatusMissing, got.Manifest["brightlocal_ranks.csv"].Status)
}

func TestSQLiteStore_SaveRunUpsert(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run := sampleRun("run-1", "Acme Plumbing")
	require.NoError(t, s.SaveRun(ctx, run))

	run.Status = model.RunStatusFailed
	run.Error = "scoring aborted"
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "scoring aborted", got.Error)

	runs, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteStore_GetRunNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetRun(context.Background(), "ghost")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLiteStore_ListRunsFilters(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, sampleRun("run-1", "Acme Plumbing")))
	require.NoError(t, s.SaveRun(ctx, sampleRun("run-2", "Acme Plumbing")))
	other := sampleRun("run-3", "Borealis Roofing")
	other.Domain = "borealis.test"
	require.NoError(t, s.SaveRun(ctx, other))

	runs, err := s.ListRuns(ctx, RunFilter{Client: "Acme Plumbing"})
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = s.ListRuns(ctx, RunFilter{Domain: "borealis.test"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-3", runs[0].ID)

	runs, err = s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	runs, err = s.ListRuns(ctx, RunFilter{Client: "Nobody"})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSQLiteStore_RunWithoutDocuments(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run := &model.Run{
		ID:        "bare",
		Client:    "Acme Plumbing",
		Domain:    "acme.test",
		RunDate:   "2026-08-01",
		Status:    model.RunStatusFailed,
		Error:     "download failed",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "bare")
	require.NoError(t, err)
	assert.Nil(t, got.Audit)
	assert.Nil(t, got.Scores)
	assert.Nil(t, got.Manifest)
	assert.Equal(t, "download failed", got.Error)
}
