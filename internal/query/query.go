// Package query implements the filtered, ordered view over the candidate
// collection: text search with diacritic folding, categorical filters and a
// single active sort key. Apply is pure; the input slice is never mutated.
package query

import (
	"sort"
	"strings"

	"opotracker/internal/dataset"
)

// All is the sentinel filter value meaning "no filter".
const All = "ALL"

// Direction selects the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortKey names the field the view is ordered by.
type SortKey string

const (
	SortByRank        SortKey = "rank"
	SortByIdentifier  SortKey = "identifier"
	SortByName        SortKey = "name"
	SortByAdmission   SortKey = "admission"
	SortByDay         SortKey = "day"
	SortBySite        SortKey = "site"
	SortByRoom        SortKey = "room"
	SortByGeneral     SortKey = "general_knowledge"
	SortByLanguage    SortKey = "language"
	SortByAptitude    SortKey = "aptitude"
	SortByPersonality SortKey = "personality"
	SortByTotal       SortKey = "total"
)

// State captures the full query configuration. It is an immutable value:
// handlers build a fresh one per request and pass it in, nothing mutates
// shared state.
type State struct {
	Search  string
	Site    string
	Status  string
	SortKey SortKey
	SortDir Direction
}

// DefaultState returns the view configuration before any user input: no
// search, no filters, ordered by rank ascending.
func DefaultState() State {
	return State{
		Site:    All,
		Status:  All,
		SortKey: SortByRank,
		SortDir: Ascending,
	}
}

// Apply filters and orders the collection according to state. The result is
// a new slice; same inputs always produce the same output order and
// membership.
func Apply(candidates []dataset.Candidate, state State) []dataset.Candidate {
	needle := Fold(state.Search)

	out := make([]dataset.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if needle != "" && !strings.Contains(Fold(c.FullName), needle) {
			continue
		}
		if state.Site != All && state.Site != "" && c.ExamSite != state.Site {
			continue
		}
		if state.Status != All && state.Status != "" && c.Provisional.Raw != state.Status {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return compare(out[i], out[j], state) < 0
	})

	return out
}

// compare orders two candidates under the active sort key. A candidate
// without a rank sorts after every ranked one regardless of direction;
// the direction flip applies to value comparisons only. Equal keys report
// zero so the stable sort preserves the incoming order.
func compare(a, b dataset.Candidate, state State) int {
	if state.SortKey == SortByRank {
		switch {
		case !a.Ranked() && !b.Ranked():
			return 0
		case !a.Ranked():
			return 1
		case !b.Ranked():
			return -1
		}
		return directed(a.Rank-b.Rank, state.SortDir)
	}
	return directed(strings.Compare(keyValue(a, state.SortKey), keyValue(b, state.SortKey)), state.SortDir)
}

func directed(cmp int, dir Direction) int {
	if dir == Descending {
		return -cmp
	}
	return cmp
}

// keyValue extracts the string value of a sort key. Every non-rank field is
// string-typed in the source, so natural ordering is lexicographic.
func keyValue(c dataset.Candidate, key SortKey) string {
	switch key {
	case SortByIdentifier:
		return c.Identifier
	case SortByName:
		return c.FullName
	case SortByAdmission:
		return c.AdmissionStatus
	case SortByDay:
		return c.ExamDay
	case SortBySite:
		return c.ExamSite
	case SortByRoom:
		return c.ExamRoom
	case SortByGeneral:
		return c.Scores.General
	case SortByLanguage:
		return c.Scores.Language
	case SortByAptitude:
		return c.Scores.Aptitude
	case SortByPersonality:
		return c.Scores.Personality
	case SortByTotal:
		return c.TotalRaw
	default:
		return ""
	}
}

// DistinctSites returns the alphabetically sorted set of non-empty exam
// sites, prefixed with the all-sentinel.
func DistinctSites(candidates []dataset.Candidate) []string {
	return distinct(candidates, func(c dataset.Candidate) string { return c.ExamSite })
}

// DistinctStatuses returns the alphabetically sorted set of non-empty
// provisional status labels, prefixed with the all-sentinel.
func DistinctStatuses(candidates []dataset.Candidate) []string {
	return distinct(candidates, func(c dataset.Candidate) string { return c.Provisional.Raw })
}

func distinct(candidates []dataset.Candidate, value func(dataset.Candidate) string) []string {
	seen := make(map[string]struct{})
	for _, c := range candidates {
		if v := value(c); v != "" {
			seen[v] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen)+1)
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)

	return append([]string{All}, values...)
}
