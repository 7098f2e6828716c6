package dataset

import (
	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

const ahrefsBacklinksFile = "ahrefs_backlinks.csv"

// AhrefsBacklinks reads the referring-domains export: one row per referring
// domain, with an optional domain-rating column averaged across rows.
type AhrefsBacklinks struct{}

func (d *AhrefsBacklinks) Name() string    { return "ahrefs_backlinks" }
func (d *AhrefsBacklinks) Files() []string { return []string{ahrefsBacklinksFile} }

func (d *AhrefsBacklinks) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	rows, ok := readTable(ar, man, ahrefsBacklinksFile)
	if !ok {
		return
	}
	if len(rows) == 0 {
		man.SetStatus(ahrefsBacklinksFile, model.StatusPartial)
		return
	}

	refDomains := len(rows)
	audit.Backlinks.RefDomains = &refDomains

	if drCol, found := tabular.Resolve(rows[0], "dr", "domain rating"); found {
		if nums := columnNumbers(rows, drCol); len(nums) > 0 {
			avg := mean(nums)
			audit.Backlinks.DR = &avg
		}
	}

	audit.Provenance.Ahrefs = true
	man.SetRows(ahrefsBacklinksFile, len(rows))
}
