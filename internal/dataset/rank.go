package dataset

import "sort"

// Rank assigns 1-based competitive ranks in place. The collection is
// sorted into a copy by parsed score descending; the sort is stable, so
// candidates tied on score keep their original relative order and the
// earlier row receives the lower rank number. Each candidate's rank is its
// position in that sorted copy, looked up by ordinal rather than by value
// equality so duplicate rows rank independently. Unscored candidates still
// occupy a position in the sorted copy but their rank stays absent.
//
// The input order is never changed: display order is the query engine's
// concern.
func Rank(candidates []Candidate) {
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		va, oka := ParseScore(candidates[order[a]].TotalRaw)
		vb, okb := ParseScore(candidates[order[b]].TotalRaw)
		if oka != okb {
			// Scored always precedes unscored.
			return oka
		}
		return va > vb
	})

	for pos, idx := range order {
		if _, ok := ParseScore(candidates[idx].TotalRaw); ok {
			candidates[idx].Rank = pos + 1
		} else {
			candidates[idx].Rank = 0
		}
	}
}
