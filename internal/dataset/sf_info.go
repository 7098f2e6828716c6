package dataset

import (
	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
)

const (
	sfDuplicatesFile = "sf_duplicates.csv"
	sfImagesFile     = "sf_images.csv"
)

// ScreamingFrogInfo records row counts for the informational crawl exports
// (duplicate content, images). No metric fields derive from them yet; the
// manifest entry is the deliverable.
type ScreamingFrogInfo struct{}

func (d *ScreamingFrogInfo) Name() string    { return "sf_info" }
func (d *ScreamingFrogInfo) Files() []string { return []string{sfDuplicatesFile, sfImagesFile} }

func (d *ScreamingFrogInfo) Extract(ar *archive.Archive, man model.Manifest, _ *model.NormalizedAudit) {
	for _, name := range d.Files() {
		rows, ok := readTable(ar, man, name)
		if !ok {
			continue
		}
		man.SetRows(name, len(rows))
	}
}
