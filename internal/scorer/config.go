// Package scorer computes the on-site and local composite indices from a
// finished audit document.
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/config"
)

// DefaultScorerConfig returns the production weight tables. Each index's
// weights sum to 100.
func DefaultScorerConfig() config.ScorerConfig {
	return config.ScorerConfig{
		// On-site index weights.
		GSCClicksWeight:    30,
		KeywordTop10Weight: 20,
		SiteHealthWeight:   20,
		CWVPassWeight:      15,
		IndexedValidWeight: 15,

		// Local index weights.
		AvgLocalRankWeight: 40,
		PctTop3Weight:      25,
		CitationsWeight:    15,
		ReviewsWeight:      10,
		GBPActionsWeight:   10,

		// Site health treats this error density (errors per page) as the
		// floor: score 0 at and beyond it, score 1 at zero errors.
		BadErrorsPerPage: 0.5,

		// Page count assumed when no extractor observed one.
		DefaultPagesTotal: 100,

		// Local rank assumed when untracked. Position 20 scores 0, so a
		// client with no rank data is penalized rather than excluded.
		WorstCaseAvgPos: 20,
	}
}

// OnsiteWeightSum returns the sum of the on-site index weights.
func OnsiteWeightSum(c config.ScorerConfig) float64 {
	return c.GSCClicksWeight + c.KeywordTop10Weight + c.SiteHealthWeight +
		c.CWVPassWeight + c.IndexedValidWeight
}

// LocalWeightSum returns the sum of the local index weights.
func LocalWeightSum(c config.ScorerConfig) float64 {
	return c.AvgLocalRankWeight + c.PctTop3Weight + c.CitationsWeight +
		c.ReviewsWeight + c.GBPActionsWeight
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	weights := map[string]float64{
		"gsc_clicks_weight":     c.GSCClicksWeight,
		"keyword_top10_weight":  c.KeywordTop10Weight,
		"site_health_weight":    c.SiteHealthWeight,
		"cwv_pass_weight":       c.CWVPassWeight,
		"indexed_valid_weight":  c.IndexedValidWeight,
		"avg_local_rank_weight": c.AvgLocalRankWeight,
		"pct_top3_weight":       c.PctTop3Weight,
		"citations_weight":      c.CitationsWeight,
		"reviews_weight":        c.ReviewsWeight,
		"gbp_actions_weight":    c.GBPActionsWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	// Each index's weights should sum to 100 (allow floating-point slack).
	if sum := OnsiteWeightSum(c); math.Abs(sum-100) > 1 {
		errs = append(errs, fmt.Sprintf("onsite weights should sum to 100, got %.1f", sum))
	}
	if sum := LocalWeightSum(c); math.Abs(sum-100) > 1 {
		errs = append(errs, fmt.Sprintf("local weights should sum to 100, got %.1f", sum))
	}

	if c.BadErrorsPerPage <= 0 {
		errs = append(errs, "bad_errors_per_page must be > 0")
	}
	if c.DefaultPagesTotal <= 0 {
		errs = append(errs, "default_pages_total must be > 0")
	}
	if c.WorstCaseAvgPos <= 1 {
		errs = append(errs, "worst_case_avg_pos must be > 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
