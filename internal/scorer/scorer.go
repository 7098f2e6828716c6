package scorer

import (
	"math"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/config"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
)

// component is one weighted metric feeding a composite index. Unavailable
// components are excluded from the aggregate but still appear, as null, in
// the output's raw map.
type component struct {
	name      string
	weight    float64
	available bool
	raw       float64
}

// Compute derives both composite indices from a finished document. It is
// read-only with respect to the document, never fails, and always returns a
// complete Scores record: missing inputs reduce coverage instead of
// erroring.
func Compute(audit *model.NormalizedAudit, cfg config.ScorerConfig) *model.Scores {
	return &model.Scores{
		Onsite: aggregate(onsiteComponents(audit, cfg)),
		Local:  aggregate(localComponents(audit, cfg)),
	}
}

func onsiteComponents(audit *model.NormalizedAudit, cfg config.ScorerConfig) []component {
	comps := []component{
		// Search-traffic clicks and valid-index ratio await data sources
		// (GSC API, index coverage) no extractor provides yet.
		{name: "gsc_clicks", weight: cfg.GSCClicksWeight},
		{name: "indexed_valid", weight: cfg.IndexedValidWeight},
	}

	kw := audit.Onsite.Keywords
	kwComp := component{name: "kw_top10", weight: cfg.KeywordTop10Weight}
	if kw.Top10 != nil {
		top100 := 1.0
		if kw.Top100 != nil && *kw.Top100 > 1 {
			top100 = float64(*kw.Top100)
		}
		kwComp.available = true
		kwComp.raw = math.Min(float64(*kw.Top10)/top100, 1)
	}
	comps = append(comps, kwComp)

	// Error density against the configured floor; page count falls back to
	// the configured default when unknown. Available only once some crawl
	// actually contributed, so an untouched document is excluded instead of
	// scoring a perfect zero-error site.
	healthComp := component{name: "site_health", weight: cfg.SiteHealthWeight}
	crawled := audit.Provenance.ScreamingFrog ||
		audit.Onsite.Content.PagesTotal != nil ||
		audit.Onsite.Errors.Total() > 0
	if crawled {
		pages := float64(cfg.DefaultPagesTotal)
		if pt := audit.Onsite.Content.PagesTotal; pt != nil && *pt > 0 {
			pages = float64(*pt)
		}
		epp := float64(audit.Onsite.Errors.Total()) / pages
		healthComp.available = true
		healthComp.raw = clamp01(1 - epp/cfg.BadErrorsPerPage)
	}
	comps = append(comps, healthComp)

	cwvComp := component{name: "cwv_pass", weight: cfg.CWVPassWeight}
	if audit.Onsite.CWV.PassRate.Valid {
		cwvComp.available = true
		cwvComp.raw = audit.Onsite.CWV.PassRate.Value
	}
	comps = append(comps, cwvComp)

	return comps
}

func localComponents(audit *model.NormalizedAudit, cfg config.ScorerConfig) []component {
	// Average rank and top-3 share deliberately default to worst case while
	// staying available: a client with no tracked local ranks scores 0 on
	// them instead of being excluded. Every other metric excludes on
	// missing.
	avgPos := cfg.WorstCaseAvgPos
	if audit.Local.Rank.AvgPos != nil {
		avgPos = *audit.Local.Rank.AvgPos
	}
	pctTop3 := 0.0
	if audit.Local.Rank.PctTop3 != nil {
		pctTop3 = *audit.Local.Rank.PctTop3
	}

	comps := []component{
		{
			name:      "avg_local_rank",
			weight:    cfg.AvgLocalRankWeight,
			available: true,
			raw:       clamp01(1 - (avgPos-1)/19),
		},
		{
			name:      "pct_top3",
			weight:    cfg.PctTop3Weight,
			available: true,
			raw:       pctTop3,
		},
	}

	citComp := component{name: "citations", weight: cfg.CitationsWeight}
	if audit.Local.Citations.Consistency != nil {
		citComp.available = true
		citComp.raw = *audit.Local.Citations.Consistency
	}
	comps = append(comps, citComp)

	// Rating 3.5 scores 0, rating 5.0 scores 1.
	revComp := component{name: "reviews", weight: cfg.ReviewsWeight}
	if audit.Local.Reviews.AvgRating != nil {
		revComp.available = true
		revComp.raw = clamp01((*audit.Local.Reviews.AvgRating - 3.5) / 1.5)
	}
	comps = append(comps, revComp)

	// GBP engagement actions need the Insights API, which no extractor
	// provides yet.
	comps = append(comps, component{name: "gbp_actions", weight: cfg.GBPActionsWeight})

	return comps
}

// aggregate folds components into a Composite: a weighted average over the
// available metrics scaled to 0-100, coverage as the usable share of total
// weight, and the full raw map with excluded metrics as null.
func aggregate(comps []component) model.Composite {
	raw := make(map[string]*float64, len(comps))
	var total, used, acc float64
	for _, c := range comps {
		total += c.weight
		if !c.available {
			raw[c.name] = nil
			continue
		}
		v := c.raw
		raw[c.name] = &v
		used += c.weight
		acc += c.weight * v
	}

	score := 0.0
	if used > 0 {
		score = math.Round(acc/used*1000) / 10
	}
	coverage := 0.0
	if total > 0 {
		coverage = math.Round(used/total*100) / 100
	}

	return model.Composite{
		Score:       score,
		Coverage:    coverage,
		WeightUsed:  used,
		WeightTotal: total,
		Raw:         raw,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
