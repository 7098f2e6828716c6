package dataset

import (
	"math"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

const sfInternalFile = "sf_internal_all.csv"

// ScreamingFrogInternal reads the full internal-crawl export: HTTP status
// codes feed the 4xx/5xx counters and the row count doubles as a page count
// when nothing earlier has observed one.
type ScreamingFrogInternal struct{}

func (d *ScreamingFrogInternal) Name() string    { return "sf_internal" }
func (d *ScreamingFrogInternal) Files() []string { return []string{sfInternalFile} }

func (d *ScreamingFrogInternal) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	rows, ok := readTable(ar, man, sfInternalFile)
	if !ok {
		return
	}
	if len(rows) == 0 {
		man.SetStatus(sfInternalFile, model.StatusPartial)
		return
	}

	audit.Provenance.ScreamingFrog = true
	man.SetRows(sfInternalFile, len(rows))

	if scCol, found := tabular.Resolve(rows[0], "status code", "status"); found {
		for _, row := range rows {
			code := tabular.ToNumber(row[scCol])
			if math.IsNaN(code) {
				continue
			}
			switch {
			case code >= 500:
				audit.Onsite.Errors.Add(model.Issue5xx, 1)
			case code >= 400:
				audit.Onsite.Errors.Add(model.Issue4xx, 1)
			}
		}
	}

	audit.Onsite.Content.ObservePagesTotal(len(rows))
}
