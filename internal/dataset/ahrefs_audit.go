package dataset

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

const ahrefsSiteAuditFile = "ahrefs_site_audit.zip"

// AhrefsSiteAudit opens the nested site-audit archive and sums row counts of
// the issue-specific CSVs into the per-category error counters. Counts are
// accumulated, not assigned: the flat internal-crawl export contributes to
// the same 4xx/5xx counters.
type AhrefsSiteAudit struct {
	issueFiles map[string][]string
}

// NewAhrefsSiteAudit builds the extractor with the category-to-filenames
// table from cfg.
func NewAhrefsSiteAudit(cfg Config) *AhrefsSiteAudit {
	return &AhrefsSiteAudit{issueFiles: cfg.IssueFiles}
}

func (d *AhrefsSiteAudit) Name() string    { return "ahrefs_site_audit" }
func (d *AhrefsSiteAudit) Files() []string { return []string{ahrefsSiteAuditFile} }

func (d *AhrefsSiteAudit) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	if !ar.Has(ahrefsSiteAuditFile) {
		man.Missing(ahrefsSiteAuditFile)
		return
	}

	inner, err := ar.OpenNested(ahrefsSiteAuditFile)
	if err != nil {
		// A corrupt nested archive downgrades this one entry; the run
		// continues with the counters at their current values.
		man.Record(ahrefsSiteAuditFile, model.StatusPartial)
		man.SetNote(ahrefsSiteAuditFile, eris.ToString(err, false))
		zap.L().Warn("ahrefs site audit: nested archive unreadable", zap.Error(err))
		return
	}

	for category, files := range d.issueFiles {
		count := 0
		for _, name := range files {
			data, err := inner.Lookup(name)
			if err != nil {
				continue
			}
			count += len(tabular.ParseTable(data))
		}
		audit.Onsite.Errors.Add(category, count)
	}

	audit.Provenance.Ahrefs = true
	man.Record(ahrefsSiteAuditFile, model.StatusFull)
}
