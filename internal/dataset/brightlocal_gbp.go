package dataset

import (
	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

const brightlocalGBPFile = "brightlocal_gbp_insights.csv"

// BrightLocalGBPInsights reads the public-listing snapshot. Only publicly
// visible metrics (review count, star rating, photo count) are available;
// true Insights require an API connection, so the entry is always partial.
type BrightLocalGBPInsights struct{}

func (d *BrightLocalGBPInsights) Name() string    { return "brightlocal_gbp_insights" }
func (d *BrightLocalGBPInsights) Files() []string { return []string{brightlocalGBPFile} }

func (d *BrightLocalGBPInsights) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	rows, ok := readTable(ar, man, brightlocalGBPFile)
	if !ok {
		return
	}
	if len(rows) == 0 {
		man.SetStatus(brightlocalGBPFile, model.StatusPartial)
		return
	}

	if col, found := tabular.Resolve(rows[0], "review count", "reviews", "reviews_total"); found {
		audit.Local.Reviews.CountTotal = columnMax(rows, col)
	}
	if col, found := tabular.Resolve(rows[0], "star rating", "rating", "reviews_average_rating"); found {
		audit.Local.Reviews.AvgRating = columnMax(rows, col)
	}
	if col, found := tabular.Resolve(rows[0], "photos", "photos_total"); found {
		audit.Local.GBP.PhotosTotal = columnMax(rows, col)
	}

	audit.Provenance.BrightLocal = true
	man.SetStatus(brightlocalGBPFile, model.StatusPartial)
	man.SetRows(brightlocalGBPFile, len(rows))
	man.SetNote(brightlocalGBPFile, "public listing only; true Insights missing")
}
