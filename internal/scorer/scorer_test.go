package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestCompute_EmptyDocument(t *testing.T) {
	audit := model.NewAudit(model.Meta{Client: "c", Domain: "d", RunDate: "2026-08-01"})

	scores := Compute(audit, DefaultScorerConfig())

	// No on-site metric is available on an untouched document; in
	// particular site_health stays excluded rather than scoring a perfect
	// zero-error site that was never crawled.
	onsite := scores.Onsite
	assert.Equal(t, 0.0, onsite.Score)
	assert.Equal(t, 0.0, onsite.Coverage)
	assert.Equal(t, 0.0, onsite.WeightUsed)
	assert.Equal(t, 100.0, onsite.WeightTotal)
	assert.Nil(t, onsite.Raw["gsc_clicks"])
	assert.Nil(t, onsite.Raw["kw_top10"])
	assert.Nil(t, onsite.Raw["cwv_pass"])
	assert.Nil(t, onsite.Raw["site_health"])

	// Locally the two rank metrics default to worst case but stay in: both
	// contribute zero, so the score is 0 with 65% coverage.
	local := scores.Local
	assert.Equal(t, 0.0, local.Score)
	assert.Equal(t, 0.65, local.Coverage)
	assert.Equal(t, 65.0, local.WeightUsed)
	require.NotNil(t, local.Raw["avg_local_rank"])
	assert.Equal(t, 0.0, *local.Raw["avg_local_rank"])
	require.NotNil(t, local.Raw["pct_top3"])
	assert.Equal(t, 0.0, *local.Raw["pct_top3"])
	assert.Nil(t, local.Raw["citations"])
	assert.Nil(t, local.Raw["reviews"])
	assert.Nil(t, local.Raw["gbp_actions"])
}

func TestCompute_OnsitePartial(t *testing.T) {
	audit := model.NewAudit(model.Meta{})
	audit.Onsite.Keywords.Top10 = intPtr(30)
	audit.Onsite.Keywords.Top100 = intPtr(120)
	audit.Onsite.Content.PagesTotal = intPtr(200)
	audit.Onsite.Errors.Add(model.Issue4xx, 25)
	audit.Onsite.CWV.PassRate = model.SomeMetric(0.5)

	scores := Compute(audit, DefaultScorerConfig())

	onsite := scores.Onsite
	// kw_top10 = 30/120 = 0.25; site_health = 1 - (25/200)/0.5 = 0.75;
	// cwv_pass = 0.5. Weighted: (20*0.25 + 20*0.75 + 15*0.5) / 55.
	require.NotNil(t, onsite.Raw["kw_top10"])
	assert.Equal(t, 0.25, *onsite.Raw["kw_top10"])
	require.NotNil(t, onsite.Raw["site_health"])
	assert.Equal(t, 0.75, *onsite.Raw["site_health"])
	assert.Equal(t, 55.0, onsite.WeightUsed)
	assert.Equal(t, 0.55, onsite.Coverage)
	assert.Equal(t, 50.0, onsite.Score)
}

func TestCompute_KeywordDenominatorFloor(t *testing.T) {
	audit := model.NewAudit(model.Meta{})
	audit.Onsite.Keywords.Top10 = intPtr(5)
	audit.Onsite.Keywords.Top100 = intPtr(1)

	scores := Compute(audit, DefaultScorerConfig())

	// A degenerate denominator clamps the ratio at 1.
	require.NotNil(t, scores.Onsite.Raw["kw_top10"])
	assert.Equal(t, 1.0, *scores.Onsite.Raw["kw_top10"])
}

func TestCompute_SiteHealthFloor(t *testing.T) {
	audit := model.NewAudit(model.Meta{})
	audit.Onsite.Content.PagesTotal = intPtr(10)
	audit.Onsite.Errors.Add(model.Issue5xx, 50)

	scores := Compute(audit, DefaultScorerConfig())

	// Five errors per page is far past the floor; clamps to 0.
	require.NotNil(t, scores.Onsite.Raw["site_health"])
	assert.Equal(t, 0.0, *scores.Onsite.Raw["site_health"])
}

func TestCompute_SiteHealthCleanCrawl(t *testing.T) {
	audit := model.NewAudit(model.Meta{})
	audit.Provenance.ScreamingFrog = true

	scores := Compute(audit, DefaultScorerConfig())

	// A crawl that reported no issues scores perfect health over the
	// default page count.
	require.NotNil(t, scores.Onsite.Raw["site_health"])
	assert.Equal(t, 1.0, *scores.Onsite.Raw["site_health"])
	assert.Equal(t, 100.0, scores.Onsite.Score)
	assert.Equal(t, 0.2, scores.Onsite.Coverage)
}

func TestCompute_LocalFull(t *testing.T) {
	audit := model.NewAudit(model.Meta{})
	audit.Local.Rank.AvgPos = floatPtr(1)
	audit.Local.Rank.PctTop3 = floatPtr(0.8)
	audit.Local.Citations.Consistency = floatPtr(0.9)
	audit.Local.Reviews.AvgRating = floatPtr(5)

	scores := Compute(audit, DefaultScorerConfig())

	local := scores.Local
	// avg_local_rank = 1 at position 1; reviews = 1 at rating 5.
	// (40*1 + 25*0.8 + 15*0.9 + 10*1) / 90 = 83.5 / 90.
	assert.Equal(t, 90.0, local.WeightUsed)
	assert.Equal(t, 0.9, local.Coverage)
	assert.Equal(t, 92.8, local.Score)
	assert.Nil(t, local.Raw["gbp_actions"])
}

func TestCompute_ReviewScale(t *testing.T) {
	cases := []struct {
		rating float64
		want   float64
	}{
		{3.5, 0},
		{4.25, 0.5},
		{5.0, 1},
		{2.0, 0},
	}
	for _, tc := range cases {
		audit := model.NewAudit(model.Meta{})
		audit.Local.Reviews.AvgRating = floatPtr(tc.rating)

		scores := Compute(audit, DefaultScorerConfig())
		require.NotNil(t, scores.Local.Raw["reviews"])
		assert.Equal(t, tc.want, *scores.Local.Raw["reviews"], "rating %.2f", tc.rating)
	}
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultScorerConfig()))

	bad := DefaultScorerConfig()
	bad.GSCClicksWeight = -1
	err := ValidateConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gsc_clicks_weight")

	bad = DefaultScorerConfig()
	bad.SiteHealthWeight = 50
	err = ValidateConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "onsite weights")

	bad = DefaultScorerConfig()
	bad.BadErrorsPerPage = 0
	assert.Error(t, ValidateConfig(bad))

	bad = DefaultScorerConfig()
	bad.WorstCaseAvgPos = 1
	assert.Error(t, ValidateConfig(bad))
}

func TestWeightSums(t *testing.T) {
	cfg := DefaultScorerConfig()
	assert.Equal(t, 100.0, OnsiteWeightSum(cfg))
	assert.Equal(t, 100.0, LocalWeightSum(cfg))
}
