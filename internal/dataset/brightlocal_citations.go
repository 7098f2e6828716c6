package dataset

import (
	"go.uber.org/zap"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

const brightlocalCitationsFile = "brightlocal_citations.csv"

// BrightLocalCitations averages the citation-consistency column and
// normalizes it onto a 0-1 scale; exports report both "92" and "0.92" for
// the same concept.
type BrightLocalCitations struct{}

func (d *BrightLocalCitations) Name() string    { return "brightlocal_citations" }
func (d *BrightLocalCitations) Files() []string { return []string{brightlocalCitationsFile} }

func (d *BrightLocalCitations) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	rows, ok := readTable(ar, man, brightlocalCitationsFile)
	if !ok {
		return
	}
	if len(rows) == 0 {
		man.SetStatus(brightlocalCitationsFile, model.StatusPartial)
		return
	}

	audit.Provenance.BrightLocal = true
	man.SetRows(brightlocalCitationsFile, len(rows))

	cCol, found := tabular.Resolve(rows[0],
		"consistency", "nap consistency", "consistency %", "consistency%",
		"accuracy", "accuracy %", "score", "citation score", "overall score")
	zap.L().Info("brightlocal citations: consistency column",
		zap.String("column", cCol),
		zap.Bool("found", found),
	)
	if !found {
		return
	}

	if nums := columnNumbers(rows, cCol); len(nums) > 0 {
		consistency := tabular.NormalizePercent(mean(nums))
		audit.Local.Citations.Consistency = &consistency
	}
}
