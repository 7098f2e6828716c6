package dataset

import (
	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

// LoginRequired records the presence of exports that normally ship as
// access-denied stubs. A stub or empty table is a placeholder; a real table
// is full. Nothing is extracted either way.
type LoginRequired struct {
	files []string
}

// NewLoginRequired builds the extractor with the placeholder file list from
// cfg.
func NewLoginRequired(cfg Config) *LoginRequired {
	return &LoginRequired{files: cfg.PlaceholderFiles}
}

func (d *LoginRequired) Name() string    { return "login_required" }
func (d *LoginRequired) Files() []string { return d.files }

func (d *LoginRequired) Extract(ar *archive.Archive, man model.Manifest, _ *model.NormalizedAudit) {
	for _, name := range d.files {
		rows, ok := readTable(ar, man, name)
		if !ok {
			continue
		}
		if len(rows) > 0 && !isPlaceholder(rows) {
			man.SetStatus(name, model.StatusFull)
			man.SetRows(name, len(rows))
			continue
		}
		man.SetStatus(name, model.StatusPlaceholder)
		man.SetNote(name, "access_required_or_empty")
	}
}

// AnalyticsPresence flips the GSC/GA4 provenance tri-states to "present"
// when any of their exports holds real rows. The files themselves were
// already recorded by LoginRequired; this extractor only reads.
type AnalyticsPresence struct {
	gscFiles []string
	ga4Files []string
}

// NewAnalyticsPresence builds the extractor with the GSC/GA4 file lists
// from cfg.
func NewAnalyticsPresence(cfg Config) *AnalyticsPresence {
	return &AnalyticsPresence{gscFiles: cfg.GSCFiles, ga4Files: cfg.GA4Files}
}

func (d *AnalyticsPresence) Name() string { return "analytics_presence" }

func (d *AnalyticsPresence) Files() []string {
	return append(append([]string{}, d.gscFiles...), d.ga4Files...)
}

func (d *AnalyticsPresence) Extract(ar *archive.Archive, _ model.Manifest, audit *model.NormalizedAudit) {
	if anyRealTable(ar, d.gscFiles) {
		audit.Provenance.GSC = model.PresencePresent
	}
	if anyRealTable(ar, d.ga4Files) {
		audit.Provenance.GA4 = model.PresencePresent
	}
}

func anyRealTable(ar *archive.Archive, names []string) bool {
	for _, name := range names {
		data, err := ar.Lookup(name)
		if err != nil {
			continue
		}
		rows := tabular.ParseTable(data)
		if len(rows) > 0 && !isPlaceholder(rows) {
			return true
		}
	}
	return false
}
