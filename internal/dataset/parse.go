package dataset

import (
	"math"
	"sort"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/tabular"
)

// readTable looks up an entry and parses it, recording the lookup outcome.
// ok is false when the entry is absent; an empty table comes back as
// (nil-or-empty rows, true) with the entry left at "present" for the caller
// to downgrade.
func readTable(ar *archive.Archive, man model.Manifest, name string) ([]tabular.Row, bool) {
	data, err := ar.Lookup(name)
	if err != nil {
		man.Missing(name)
		return nil, false
	}
	man.Present(name, len(data))
	return tabular.ParseTable(data), true
}

// isPlaceholder reports whether rows are an access-denied stub: a single
// signalling row carrying status and message fields instead of real data.
func isPlaceholder(rows []tabular.Row) bool {
	if len(rows) == 0 {
		return false
	}
	statusCol, ok := tabular.Resolve(rows[0], "status")
	if !ok || rows[0][statusCol] == "" {
		return false
	}
	messageCol, ok := tabular.Resolve(rows[0], "message")
	return ok && rows[0][messageCol] != ""
}

// columnNumbers coerces one column across all rows, dropping NaN results.
func columnNumbers(rows []tabular.Row, col string) []float64 {
	var out []float64
	for _, row := range rows {
		if v := tabular.ToNumber(row[col]); !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// columnMax returns the largest numeric value in a column, or nil when the
// column holds no parseable numbers.
func columnMax(rows []tabular.Row, col string) *float64 {
	nums := columnNumbers(rows, col)
	if len(nums) == 0 {
		return nil
	}
	max := nums[0]
	for _, v := range nums[1:] {
		if v > max {
			max = v
		}
	}
	return &max
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// p75 is the 75th percentile by rank index: sort ascending and pick
// floor(0.75*(n-1)). No interpolation.
func p75(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return sorted[int(math.Floor(0.75*float64(len(sorted)-1)))]
}
