package dataset

import (
	"math"

	"go.uber.org/zap"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

const brightlocalRanksFile = "brightlocal_ranks.csv"

// BrightLocalRanks aggregates tracked local keyword positions into an
// average position, a top-3 share, and a tracked-keyword count.
type BrightLocalRanks struct{}

func (d *BrightLocalRanks) Name() string    { return "brightlocal_ranks" }
func (d *BrightLocalRanks) Files() []string { return []string{brightlocalRanksFile} }

func (d *BrightLocalRanks) Extract(ar *archive.Archive, man model.Manifest, audit *model.NormalizedAudit) {
	rows, ok := readTable(ar, man, brightlocalRanksFile)
	if !ok {
		return
	}
	if len(rows) == 0 {
		man.SetStatus(brightlocalRanksFile, model.StatusPartial)
		return
	}

	audit.Provenance.BrightLocal = true
	man.SetRows(brightlocalRanksFile, len(rows))

	posCol, found := tabular.Resolve(rows[0], "position", "rank", "serp position", "pos")
	zap.L().Info("brightlocal ranks: position column",
		zap.String("column", posCol),
		zap.Bool("found", found),
	)
	if !found {
		return
	}

	var positions []float64
	for _, row := range rows {
		if v := tabular.ToNumber(row[posCol]); !math.IsNaN(v) && v > 0 {
			positions = append(positions, v)
		}
	}
	if len(positions) == 0 {
		tracked := len(rows)
		audit.Local.Rank.KeywordsTracked = &tracked
		return
	}

	avg := math.Round(mean(positions)*10) / 10
	top3 := 0
	for _, p := range positions {
		if p <= 3 {
			top3++
		}
	}
	pctTop3 := float64(top3) / float64(len(positions))
	tracked := len(positions)

	audit.Local.Rank.AvgPos = &avg
	audit.Local.Rank.PctTop3 = &pctTop3
	audit.Local.Rank.KeywordsTracked = &tracked
}
