package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
)

func sampleRun() *model.Run {
	audit := model.NewAudit(model.Meta{Client: "Acme Plumbing", Domain: "acme.test", RunDate: "2026-08-01"})
	top10 := 7
	audit.Onsite.Keywords.Top10 = &top10

	manifest := model.NewManifest()
	manifest.Present("ahrefs_keywords.csv", 512)
	manifest.SetRows("ahrefs_keywords.csv", 12)
	manifest.Missing("brightlocal_ranks.csv")

	siteHealth := 0.75
	return &model.Run{
		ID:      "run-1",
		Client:  "Acme Plumbing",
		Domain:  "acme.test",
		RunDate: "2026-08-01",
		Status:  model.RunStatusComplete,
		Audit:   audit,
		Scores: &model.Scores{
			Onsite: model.Composite{
				Score: 62.5, Coverage: 0.55, WeightUsed: 55, WeightTotal: 100,
				Raw: map[string]*float64{"site_health": &siteHealth, "gsc_clicks": nil},
			},
			Local: model.Composite{Score: 41.0, Coverage: 0.65, WeightUsed: 65, WeightTotal: 100},
		},
		Manifest:  manifest,
		CreatedAt: time.Now().UTC(),
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.xlsx")
	require.NoError(t, WriteXLSX(sampleRun(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	require.Contains(t, f.Sheet, "Scores")
	require.Contains(t, f.Sheet, "Audit")
	require.Contains(t, f.Sheet, "Manifest")

	scores := f.Sheet["Scores"]
	assert.Equal(t, "client", scores.Rows[0].Cells[0].String())
	assert.Equal(t, "Acme Plumbing", scores.Rows[0].Cells[1].String())

	// The composite rows carry score and coverage.
	var sawOnsite bool
	for _, row := range scores.Rows {
		if len(row.Cells) > 1 && row.Cells[0].String() == "onsite" {
			sawOnsite = true
			v, err := row.Cells[1].Float()
			require.NoError(t, err)
			assert.Equal(t, 62.5, v)
		}
	}
	assert.True(t, sawOnsite)

	// Raw components list excluded metrics by name.
	var sawExcluded bool
	for _, row := range scores.Rows {
		if len(row.Cells) > 1 && row.Cells[0].String() == "gsc_clicks" {
			sawExcluded = true
			assert.Equal(t, "excluded", row.Cells[1].String())
		}
	}
	assert.True(t, sawExcluded)

	// The audit sheet flattens the document into dotted paths.
	var sawTop10 bool
	for _, row := range f.Sheet["Audit"].Rows {
		if len(row.Cells) > 1 && row.Cells[0].String() == "onsite.keywords.top10" {
			sawTop10 = true
			assert.Equal(t, "7", row.Cells[1].String())
		}
	}
	assert.True(t, sawTop10)

	// Manifest rows are sorted by filename with status and counts.
	manifest := f.Sheet["Manifest"]
	require.GreaterOrEqual(t, len(manifest.Rows), 3)
	assert.Equal(t, "ahrefs_keywords.csv", manifest.Rows[1].Cells[0].String())
	assert.Equal(t, "present", manifest.Rows[1].Cells[1].String())
	assert.Equal(t, "brightlocal_ranks.csv", manifest.Rows[2].Cells[0].String())
	assert.Equal(t, "missing", manifest.Rows[2].Cells[1].String())
}

func TestWriteXLSX_BareRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.xlsx")
	run := &model.Run{
		ID:     "bare",
		Client: "Acme Plumbing",
		Domain: "acme.test",
		Status: model.RunStatusFailed,
		Error:  "download failed",
	}

	require.NoError(t, WriteXLSX(run, path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	assert.Contains(t, f.Sheet, "Scores")
	assert.Contains(t, f.Sheet, "Audit")
	assert.Contains(t, f.Sheet, "Manifest")
}
