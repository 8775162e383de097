package dataset

import (
	"strconv"
	"strings"
)

// Score sentinels published by the source for candidates without a phase-1
// total. Matching is exact and case-sensitive: "#n/a" is not a sentinel,
// it simply fails to parse and resolves to unscored anyway.
const (
	sentinelDashes = "---"
	sentinelNA     = "#N/A"
)

// IsScoreSentinel reports whether raw is one of the explicit "not scored"
// markers, including the empty cell.
func IsScoreSentinel(raw string) bool {
	switch raw {
	case "", sentinelDashes, sentinelNA:
		return true
	}
	return false
}

// ParseScore converts the text representation of a score into a comparable
// number. The source uses a decimal comma ("8,5"). The second return value
// is false for sentinels and for anything that does not parse; callers must
// treat that as "unscored", which sorts strictly below every real score.
// ParseScore never fails to the caller.
func ParseScore(raw string) (float64, bool) {
	if IsScoreSentinel(raw) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
