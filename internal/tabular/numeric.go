package tabular

import (
	"math"
	"strconv"
	"strings"
)

// ToNumber coerces a messy textual value (currency symbols, percent signs,
// thousands separators) into a float. Characters other than digits, the
// decimal point, and the minus sign are stripped before parsing. Unparseable
// or non-finite results yield NaN, which callers must filter out before
// averaging or summing.
func ToNumber(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// NormalizePercent maps values reported as "92" and "0.92" onto the same
// 0-1 scale: magnitudes above 1 are divided by 100. Sources disagree on
// which convention they use, so this is applied per metric, not globally.
func NormalizePercent(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}
