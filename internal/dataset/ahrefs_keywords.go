package dataset

import (
	"math"

	"go.uber.org/zap"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

const ahrefsKeywordsFile = "ahrefs_keywords.csv"

// AhrefsKeywords buckets tracked keywords into top-3/top-10/top-100 counts
// from the keyword-position export.
type AhrefsKeywords struct{}

func (d *AhrefsKeywords) Name() string    { return "ahrefs_keywords" }
func (d *AhrefsKeywords) Files() []string { return []string{ahrefsKeywordsFile} }

func (d *AhrefsKeywords) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	rows, ok := readTable(ar, man, ahrefsKeywordsFile)
	if !ok {
		return
	}
	if len(rows) == 0 {
		man.SetStatus(ahrefsKeywordsFile, model.StatusPartial)
		return
	}

	// The export carries both "current position" and "previous position";
	// current takes priority.
	posCol, found := tabular.Resolve(rows[0], "current position", "previous position")
	zap.L().Info("ahrefs keywords: position column",
		zap.String("column", posCol),
		zap.Bool("found", found),
	)
	if found {
		top3, top10, top100 := 0, 0, 0
		for _, row := range rows {
			pos := tabular.ToNumber(row[posCol])
			if math.IsNaN(pos) || pos <= 0 {
				continue
			}
			if pos <= 3 {
				top3++
			}
			if pos <= 10 {
				top10++
			}
			if pos <= 100 {
				top100++
			}
		}
		audit.Onsite.Keywords.Top3 = &top3
		audit.Onsite.Keywords.Top10 = &top10
		audit.Onsite.Keywords.Top100 = &top100
	} else {
		zap.L().Warn("ahrefs keywords: no usable position column found")
	}

	audit.Provenance.Ahrefs = true
	man.SetRows(ahrefsKeywordsFile, len(rows))
}
