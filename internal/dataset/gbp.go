package dataset

import (
	"math"
	"strings"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

const (
	gbpCategoriesFile = "gbp_categories.csv"
	gbpPhotosFile     = "gbp_photos.csv"
)

// GBPCategories partitions the public category export by category_type:
// the first primary row's name becomes the primary category, all secondary
// rows' names become the ordered secondary list.
type GBPCategories struct{}

func (d *GBPCategories) Name() string    { return "gbp_categories" }
func (d *GBPCategories) Files() []string { return []string{gbpCategoriesFile} }

func (d *GBPCategories) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	rows, ok := readTable(ar, man, gbpCategoriesFile)
	if !ok {
		return
	}

	secondary := []string{}
	for _, row := range rows {
		name := row["category_name"]
		if name == "" {
			continue
		}
		switch strings.ToLower(row["category_type"]) {
		case "primary":
			if audit.Local.GBP.PrimaryCategory == nil {
				primary := name
				audit.Local.GBP.PrimaryCategory = &primary
			}
		case "secondary":
			secondary = append(secondary, name)
		}
	}
	audit.Local.GBP.SecondaryCategories = secondary

	audit.Provenance.GBPPublic = true
	man.SetRows(gbpCategoriesFile, len(rows))
}

// GBPPhotos reads the photo inventory; the total comes from the row whose
// photo_type is "total".
type GBPPhotos struct{}

func (d *GBPPhotos) Name() string    { return "gbp_photos" }
func (d *GBPPhotos) Files() []string { return []string{gbpPhotosFile} }

func (d *GBPPhotos) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	rows, ok := readTable(ar, man, gbpPhotosFile)
	if !ok {
		return
	}

	for _, row := range rows {
		if strings.ToLower(row["photo_type"]) != "total" {
			continue
		}
		if v := tabular.ToNumber(row["count"]); !math.IsNaN(v) {
			audit.Local.GBP.PhotosTotal = &v
		}
		break
	}

	audit.Provenance.GBPPublic = true
	man.SetRows(gbpPhotosFile, len(rows))
}
