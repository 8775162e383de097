// Package stats computes attendance and pass/fail aggregates over the full
// candidate collection. Statistics are always derived from the complete
// dataset, independent of any active table filters, and every function here
// is pure and recomputed per call.
package stats

import (
	"math"
	"sort"

	"opotracker/internal/dataset"
)

// Summary holds the global counters plus their display percentages.
// PresentationRate and PassRate carry one decimal place.
type Summary struct {
	Convoked         int     `json:"convoked"`
	Presented        int     `json:"presented"`
	NotPresented     int     `json:"not_presented"`
	Approved         int     `json:"approved"`
	Failed           int     `json:"failed"`
	PresentationRate float64 `json:"presentation_rate"`
	PassRate         float64 `json:"pass_rate"`
}

// Group holds the counters for one categorical value (a site or a day).
// PassRate is rounded to an integer percentage for group displays.
type Group struct {
	Label        string `json:"label"`
	Convoked     int    `json:"convoked"`
	Presented    int    `json:"presented"`
	NotPresented int    `json:"not_presented"`
	Approved     int    `json:"approved"`
	Failed       int    `json:"failed"`
	PassRate     int    `json:"pass_rate"`
}

// Presented reports attendance. A candidate counts as presented when the
// phase-1 total is not a sentinel, or when the provisional status records a
// pass or fail even without a captured score: some sites register
// attendance through the status column alone.
func Presented(c dataset.Candidate) bool {
	if !dataset.IsScoreSentinel(c.TotalRaw) {
		return true
	}
	return c.Provisional.Kind != dataset.ProvisionalUnknown
}

// Approved reports a provisional pass.
func Approved(c dataset.Candidate) bool {
	return c.Provisional.Kind == dataset.ProvisionalPass
}

// Summarize computes the global counters over the full collection.
func Summarize(candidates []dataset.Candidate) Summary {
	s := Summary{Convoked: len(candidates)}
	for _, c := range candidates {
		if Presented(c) {
			s.Presented++
		}
		if Approved(c) {
			s.Approved++
		}
	}
	s.NotPresented = s.Convoked - s.Presented
	s.Failed = s.Presented - s.Approved
	s.PresentationRate = rate1(s.Presented, s.Convoked)
	s.PassRate = rate1(s.Approved, s.Presented)
	return s
}

// BySite partitions the collection by exam site, skipping candidates with
// no site recorded. Groups come ordered by convoked count descending; on a
// tie the label orders alphabetically so output is deterministic.
func BySite(candidates []dataset.Candidate) []Group {
	groups := groupBy(candidates, func(c dataset.Candidate) string { return c.ExamSite })
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Convoked != groups[j].Convoked {
			return groups[i].Convoked > groups[j].Convoked
		}
		return groups[i].Label < groups[j].Label
	})
	return groups
}

// ByDay partitions the collection by exam day, ordered by day label.
func ByDay(candidates []dataset.Candidate) []Group {
	groups := groupBy(candidates, func(c dataset.Candidate) string { return c.ExamDay })
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Label < groups[j].Label
	})
	return groups
}

func groupBy(candidates []dataset.Candidate, key func(dataset.Candidate) string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, c := range candidates {
		label := key(c)
		if label == "" {
			continue
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Convoked++
		if Presented(c) {
			groups[i].Presented++
		}
		if Approved(c) {
			groups[i].Approved++
		}
	}
	for i := range groups {
		groups[i].NotPresented = groups[i].Convoked - groups[i].Presented
		groups[i].Failed = groups[i].Presented - groups[i].Approved
		groups[i].PassRate = rate0(groups[i].Approved, groups[i].Presented)
	}
	return groups
}

// rate1 returns part/whole as a percentage rounded to one decimal place,
// zero when the denominator is zero.
func rate1(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}

// rate0 returns part/whole as an integer percentage, zero when the
// denominator is zero.
func rate0(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
