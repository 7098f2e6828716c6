package tabular

import "strings"

// Resolve finds the first candidate header present in the row, matching
// case-insensitively. Candidates are tried strictly in the given order, so
// callers can prefer a "current" column over a "previous" one. It returns
// the row's actual field name, or ok=false when nothing matches; a miss
// means "metric unavailable", never an error.
func Resolve(sample Row, candidates ...string) (string, bool) {
	lower := make(map[string]string, len(sample))
	for name := range sample {
		lower[strings.ToLower(strings.TrimSpace(name))] = name
	}
	for _, want := range candidates {
		if actual, ok := lower[strings.ToLower(want)]; ok {
			return actual, true
		}
	}
	return "", false
}
