package dataset

import (
	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

const brightlocalReviewsFile = "brightlocal_reviews.csv"

// BrightLocalReviews reads the review export, which frequently ships as a
// login-required stub. A stub is recorded as placeholder, distinct from a
// genuinely empty table, and contributes nothing.
type BrightLocalReviews struct{}

func (d *BrightLocalReviews) Name() string    { return "brightlocal_reviews" }
func (d *BrightLocalReviews) Files() []string { return []string{brightlocalReviewsFile} }

func (d *BrightLocalReviews) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	rows, ok := readTable(ar, man, brightlocalReviewsFile)
	if !ok {
		return
	}
	if len(rows) == 0 || isPlaceholder(rows) {
		man.SetStatus(brightlocalReviewsFile, model.StatusPlaceholder)
		man.SetNote(brightlocalReviewsFile, "login_required")
		return
	}

	audit.Provenance.BrightLocal = true
	man.SetRows(brightlocalReviewsFile, len(rows))

	if col, found := tabular.Resolve(rows[0], "star rating", "rating", "average rating"); found {
		if v := columnMax(rows, col); v != nil {
			audit.Local.Reviews.AvgRating = v
		}
	}
	if col, found := tabular.Resolve(rows[0], "review count", "reviews", "total reviews"); found {
		if v := columnMax(rows, col); v != nil {
			audit.Local.Reviews.CountTotal = v
		}
	}
}
