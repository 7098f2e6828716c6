package dataset

import (
	"strings"

	"go.uber.org/zap"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

const sfStructuredFile = "sf_structured_data.csv"

// ScreamingFrogStructuredData flags which schema.org types appear anywhere
// on the site. Each flag is a substring test over the lower-cased
// element/type column — a presence heuristic, not a count.
type ScreamingFrogStructuredData struct{}

func (d *ScreamingFrogStructuredData) Name() string    { return "sf_structured_data" }
func (d *ScreamingFrogStructuredData) Files() []string { return []string{sfStructuredFile} }

func (d *ScreamingFrogStructuredData) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	rows, ok := readTable(ar, man, sfStructuredFile)
	if !ok {
		return
	}
	if len(rows) == 0 {
		return
	}

	elCol, found := tabular.Resolve(rows[0],
		"element", "type", "schema type", "schema_type", "schema")
	zap.L().Info("sf structured data: element column",
		zap.String("column", elCol),
		zap.Bool("found", found),
	)
	if !found {
		man.SetStatus(sfStructuredFile, model.StatusPartial)
		return
	}

	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, strings.ToLower(row[elCol]))
	}
	has := func(sub string) bool {
		for _, v := range values {
			if strings.Contains(v, sub) {
				return true
			}
		}
		return false
	}

	audit.Onsite.Schema.Organization = has("organization")
	audit.Onsite.Schema.LocalBusiness = has("localbusiness")
	audit.Onsite.Schema.Service = has("service")
	audit.Onsite.Schema.FAQ = has("faq")
	audit.Onsite.Schema.Review = has("review")

	audit.Provenance.ScreamingFrog = true
	man.SetRows(sfStructuredFile, len(rows))
}
