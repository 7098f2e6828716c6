package dataset

import (
	"go.uber.org/zap"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

const ahrefsTopPagesFile = "ahrefs_top_pages.csv"

// AhrefsTopPages derives a page count from the top-pages export: distinct
// URLs when a URL column resolves, row count otherwise. PagesTotal is
// first-writer-wins, so a count observed earlier is never overwritten.
type AhrefsTopPages struct{}

func (d *AhrefsTopPages) Name() string    { return "ahrefs_top_pages" }
func (d *AhrefsTopPages) Files() []string { return []string{ahrefsTopPagesFile} }

func (d *AhrefsTopPages) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	rows, ok := readTable(ar, man, ahrefsTopPagesFile)
	if !ok {
		return
	}
	if len(rows) == 0 {
		man.SetStatus(ahrefsTopPagesFile, model.StatusPartial)
		return
	}

	urlCol, found := tabular.Resolve(rows[0], "current url", "url", "page url", "address")
	zap.L().Info("ahrefs top pages: url column",
		zap.String("column", urlCol),
		zap.Bool("found", found),
	)

	pages := len(rows)
	if found {
		distinct := make(map[string]struct{}, len(rows))
		for _, row := range rows {
			distinct[row[urlCol]] = struct{}{}
		}
		pages = len(distinct)
	}
	audit.Onsite.Content.ObservePagesTotal(pages)

	audit.Provenance.Ahrefs = true
	man.SetRows(ahrefsTopPagesFile, len(rows))
}
