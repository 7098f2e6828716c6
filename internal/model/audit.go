// Package model defines the canonical audit document, the per-file ingestion
// manifest, and the composite score records shared across the pipeline.
package model

import "encoding/json"

// Meta identifies the client engagement a run belongs to. The values are
// opaque strings supplied by the caller and are never interpreted.
type Meta struct {
	Client  string `json:"client"`
	Domain  string `json:"domain"`
	RunDate string `json:"run_date"`
}

// Metric is a numeric aggregate that may be unobserved. It marshals as a
// JSON number when set and as the string "missing" otherwise, so the
// document shape is stable regardless of input completeness.
type Metric struct {
	Value float64
	Valid bool
}

// SomeMetric returns an observed Metric.
func SomeMetric(v float64) Metric { return Metric{Value: v, Valid: true} }

const missingSentinel = `"missing"`

// MarshalJSON emits the numeric value, or "missing" when unobserved.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte(missingSentinel), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts either a number or the "missing" sentinel.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == missingSentinel || string(data) == "null" {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Metric{Value: v, Valid: true}
	return nil
}

// ErrorCounts tracks crawl issues per category. Counters start at zero and
// are only ever incremented; both the flat internal-crawl export and the
// nested site-audit export may contribute to the same counter.
type ErrorCounts struct {
	HTTP4xx         int `json:"4xx"`
	HTTP5xx         int `json:"5xx"`
	RedirectChains  int `json:"redirect_chains"`
	Canonical       int `json:"canonical"`
	Thin            int `json:"thin"`
	DuplicateTitles int `json:"duplicate_titles"`
	OrphanPages     int `json:"orphan_pages"`
}

// Issue category names accepted by ErrorCounts.Add.
const (
	Issue4xx             = "4xx"
	Issue5xx             = "5xx"
	IssueRedirectChains  = "redirect_chains"
	IssueCanonical       = "canonical"
	IssueThin            = "thin"
	IssueDuplicateTitles = "duplicate_titles"
	IssueOrphanPages     = "orphan_pages"
)

// Add increments the named category. Unknown categories are ignored.
func (e *ErrorCounts) Add(category string, n int) {
	switch category {
	case Issue4xx:
		e.HTTP4xx += n
	case Issue5xx:
		e.HTTP5xx += n
	case IssueRedirectChains:
		e.RedirectChains += n
	case IssueCanonical:
		e.Canonical += n
	case IssueThin:
		e.Thin += n
	case IssueDuplicateTitles:
		e.DuplicateTitles += n
	case IssueOrphanPages:
		e.OrphanPages += n
	}
}

// Total returns the sum of all issue counters.
func (e ErrorCounts) Total() int {
	return e.HTTP4xx + e.HTTP5xx + e.RedirectChains + e.Canonical +
		e.Thin + e.DuplicateTitles + e.OrphanPages
}

// MetaTags counts on-page metadata problems.
type MetaTags struct {
	MissingTitle       int `json:"missing_title"`
	MissingDescription int `json:"missing_description"`
	WeakTitle          int `json:"weak_title"`
}

// SchemaFlags records which structured-data types were detected anywhere on
// the site. Detection is a substring heuristic, not a count.
type SchemaFlags struct {
	Organization  bool `json:"organization"`
	LocalBusiness bool `json:"localbusiness"`
	Service       bool `json:"service"`
	FAQ           bool `json:"faq"`
	Review        bool `json:"review"`
}

// CWV holds Core Web Vitals p75 aggregates across the sampled pages.
type CWV struct {
	LCPp75   Metric `json:"lcp_p75"`
	CLSp75   Metric `json:"cls_p75"`
	INPp75   Metric `json:"inp_p75"`
	PassRate Metric `json:"pass_rate"`
}

// Content holds page-inventory counts. PagesTotal is written at most once:
// the first extractor to observe a page count wins.
type Content struct {
	PagesTotal      *int `json:"pages_total"`
	ServicePages    *int `json:"service_pages"`
	LocationPages   *int `json:"location_pages"`
	BlogPosts       *int `json:"blog_posts"`
	ContentGapTerms *int `json:"content_gap_terms"`
}

// ObservePagesTotal applies the first-writer-wins rule for PagesTotal.
func (c *Content) ObservePagesTotal(n int) {
	if c.PagesTotal == nil {
		c.PagesTotal = &n
	}
}

// Keywords holds organic ranking bucket counts.
type Keywords struct {
	Top3   *int `json:"top3"`
	Top10  *int `json:"top10"`
	Top100 *int `json:"top100"`
}

// Onsite groups the site-quality sections of the audit.
type Onsite struct {
	SiteHealth *float64    `json:"site_health"`
	Errors     ErrorCounts `json:"errors"`
	Meta       MetaTags    `json:"meta"`
	Schema     SchemaFlags `json:"schema"`
	CWV        CWV         `json:"cwv"`
	Content    Content     `json:"content"`
	Keywords   Keywords    `json:"keywords"`
}

// LocalRank holds local pack / map ranking aggregates.
type LocalRank struct {
	AvgPos          *float64 `json:"avg_pos"`
	PctTop3         *float64 `json:"pct_top3"`
	KeywordsTracked *int     `json:"keywords_tracked"`
}

// Citations holds NAP citation health.
type Citations struct {
	Consistency  *float64 `json:"consistency"`
	Dupes        *int     `json:"dupes"`
	TopDirsOK    *int     `json:"top_dirs_ok"`
	TopDirsTotal *int     `json:"top_dirs_total"`
}

// Reviews holds review aggregates across public listings.
type Reviews struct {
	AvgRating    *float64 `json:"avg_rating"`
	CountTotal   *float64 `json:"count_total"`
	Count90d     *float64 `json:"count_90d"`
	ResponseRate *float64 `json:"response_rate"`
}

// GBP holds Google Business Profile facts. The three insights fields stay at
// their "missing" default until an API-backed insights source exists.
type GBP struct {
	PrimaryCategory       *string  `json:"primary_category"`
	SecondaryCategories   []string `json:"secondary_categories"`
	PhotosTotal           *float64 `json:"photos_total"`
	InsightsCalls         string   `json:"insights_calls"`
	InsightsDirections    string   `json:"insights_directions"`
	InsightsWebsiteClicks string   `json:"insights_website_clicks"`
}

// Local groups the local-search sections of the audit.
type Local struct {
	Rank      LocalRank `json:"rank"`
	Citations Citations `json:"citations"`
	Reviews   Reviews   `json:"reviews"`
	GBP       GBP       `json:"gbp"`
}

// Backlinks holds link-profile aggregates.
type Backlinks struct {
	RefDomains     *int     `json:"ref_domains"`
	New90d         *int     `json:"new_90d"`
	Lost90d        *int     `json:"lost_90d"`
	DR             *float64 `json:"dr"`
	AnchorBrandPct *float64 `json:"anchor_brand_pct"`
}

// Tri-state presence values for sources we can only observe indirectly.
const (
	PresenceMissing = "missing"
	PresencePresent = "present"
)

// Provenance records which tools contributed usable rows to this document.
type Provenance struct {
	Ahrefs        bool   `json:"ahrefs"`
	ScreamingFrog bool   `json:"screamingfrog"`
	Lighthouse    bool   `json:"lighthouse"`
	BrightLocal   bool   `json:"brightlocal"`
	GBPPublic     bool   `json:"gbp_public"`
	GSC           string `json:"gsc"`
	GA4           string `json:"ga4"`
	LeadSnap      string `json:"leadsnap"`
}

// NormalizedAudit is the canonical metrics document. Its full key structure
// is fixed at construction; extractors only narrow defaults to observed
// values and never add or remove keys, so consumers can traverse it without
// existence checks.
type NormalizedAudit struct {
	Meta       Meta       `json:"meta"`
	Onsite     Onsite     `json:"onsite"`
	Local      Local      `json:"local"`
	Backlinks  Backlinks  `json:"backlinks"`
	Provenance Provenance `json:"provenance"`
}

// NewAudit returns a fully defaulted document: counters zero, flags false,
// nullable fields nil, sentinel fields "missing", lists empty.
func NewAudit(meta Meta) *NormalizedAudit {
	return &NormalizedAudit{
		Meta: meta,
		Local: Local{
			GBP: GBP{
				SecondaryCategories:   []string{},
				InsightsCalls:         PresenceMissing,
				InsightsDirections:    PresenceMissing,
				InsightsWebsiteClicks: PresenceMissing,
			},
		},
		Provenance: Provenance{
			GSC:      PresenceMissing,
			GA4:      PresenceMissing,
			LeadSnap: PresenceMissing,
		},
	}
}
