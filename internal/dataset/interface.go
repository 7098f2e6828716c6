// Package dataset holds one extractor per third-party export file. Each
// extractor looks up its entries in the archive, records the outcome in the
// manifest, and narrows the audit document's defaults to observed values.
// Missing files, missing columns, placeholder stubs, and empty tables are
// all represented as data, never as errors.
package dataset

import (
	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
)

// Extractor is the contract every export source implements. Extract never
// fails; every degradation is recorded in the manifest or left as the
// document's pre-populated default. Each extractor writes only the fields it
// owns, so the fixed registry ordering is the only ordering dependency.
type Extractor interface {
	// Name returns the unique identifier for this source (e.g. "ahrefs_keywords").
	Name() string

	// Files returns the archive entries this extractor reads.
	Files() []string

	// Extract pulls this source's metrics into the audit document and
	// records per-file outcomes in the manifest.
	Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit)
}

// CWVThresholds are the pass/fail limits for one sampled page, in the same
// units the performance reports use (milliseconds for LCP and INP).
type CWVThresholds struct {
	LCPMillis float64
	CLS       float64
	INPMillis float64
}

// Config carries the fixed filename lists and thresholds the extractors
// depend on, made explicit so tests can override them per case.
type Config struct {
	// IssueFiles maps each issue category to the nested site-audit CSVs
	// that count toward it. A single issue type is named differently
	// across exporter versions, so categories list several candidates and
	// their row counts are summed.
	IssueFiles map[string][]string

	// LighthouseReports are the fixed-named performance reports, one per
	// sampled URL.
	LighthouseReports []string

	// PlaceholderFiles are exports that require a login and usually ship
	// as access-denied stubs; their presence is recorded but nothing is
	// extracted from them.
	PlaceholderFiles []string

	// GSCFiles and GA4Files flip the corresponding provenance tri-state
	// to "present" when any of them holds real rows.
	GSCFiles []string
	GA4Files []string

	CWV CWVThresholds
}

// DefaultConfig returns the filename lists and thresholds for the current
// export bundle layout.
func DefaultConfig() Config {
	return Config{
		IssueFiles: map[string][]string{
			model.Issue4xx:             {"Error-4XX_page.csv", "Error-404_page.csv"},
			model.Issue5xx:             {"Error-5XX_page.csv"},
			model.IssueRedirectChains:  {"Error-Redirect_chain.csv", "Warning-3XX_redirect.csv"},
			model.IssueCanonical:       {"Error-indexable-Canonical_chain.csv", "Warning-Canonical_to_redirected_URL.csv"},
			model.IssueDuplicateTitles: {"Warning-indexable-Title_tag_duplicate.csv"},
			model.IssueThin:            {"Warning-indexable-Content_thin.csv"},
			model.IssueOrphanPages:     {"Error-indexable-Orphan_page.csv"},
		},
		LighthouseReports: []string{
			"lighthouse_home.json",
			"lighthouse_service.json",
			"lighthouse_city.json",
		},
		PlaceholderFiles: []string{
			"surfer_page_queue.csv",
			"gsc_queries_28d.csv",
			"gsc_pages_28d.csv",
			"ga4_pages.csv",
			"ga4_conversions.csv",
			"ga4_channels.csv",
			"leadsnap_leads.csv",
			"leadsnap_calls.csv",
			"leadsnap_reviews.csv",
		},
		GSCFiles: []string{"gsc_queries_28d.csv", "gsc_pages_28d.csv"},
		GA4Files: []string{"ga4_pages.csv", "ga4_conversions.csv", "ga4_channels.csv"},
		CWV: CWVThresholds{
			LCPMillis: 2500,
			CLS:       0.10,
			INPMillis: 200,
		},
	}
}
