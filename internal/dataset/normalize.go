package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// StatusLabels carries the locale-specific literals used by the source for
// the provisional pass/fail column. They come from configuration so a
// dataset in another locale only needs different settings, not a rebuild.
type StatusLabels struct {
	Pass string
	Fail string
}

// DefaultStatusLabels returns the literals used by the origin dataset.
func DefaultStatusLabels() StatusLabels {
	return StatusLabels{Pass: "APTO/A", Fail: "NO APTO/A"}
}

// Classify maps a raw provisional cell onto the closed kind set. Comparison
// is trimmed and case-insensitive per the source's own conventions.
func (l StatusLabels) Classify(raw string) ProvisionalKind {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(trimmed, l.Pass):
		return ProvisionalPass
	case strings.EqualFold(trimmed, l.Fail):
		return ProvisionalFail
	default:
		return ProvisionalUnknown
	}
}

// Row is one raw CSV row keyed by source column label. Missing keys read as
// the empty string.
type Row map[string]string

// Normalizer converts raw rows into Candidate records. It performs shape
// coercion only; score semantics are ParseScore's job.
type Normalizer struct {
	labels StatusLabels
}

// NewNormalizer creates a normalizer using the given status labels.
func NewNormalizer(labels StatusLabels) *Normalizer {
	if labels.Pass == "" && labels.Fail == "" {
		labels = DefaultStatusLabels()
	}
	return &Normalizer{labels: labels}
}

// Normalize converts one raw row into a Candidate tagged with its source
// position. It never fails: absent or malformed fields resolve to safe
// defaults.
func (n *Normalizer) Normalize(ordinal int, row Row) Candidate {
	provisionalRaw := row[ColProvisional]
	return Candidate{
		Ordinal:         ordinal,
		Identifier:      row[ColIdentifier],
		FullName:        row[ColFullName],
		AdmissionStatus: row[ColAdmission],
		ExamDay:         row[ColExamDay],
		ExamSite:        row[ColExamSite],
		ExamRoom:        row[ColExamRoom],
		Scores: ScoreFields{
			General:     row[ColGeneral],
			Language:    row[ColLanguage],
			Aptitude:    row[ColAptitude],
			Personality: row[ColPersonality],
		},
		TotalRaw: row[ColTotalPhase1],
		Provisional: Provisional{
			Kind: n.labels.Classify(provisionalRaw),
			Raw:  provisionalRaw,
		},
	}
}

// Parse reads the full CSV document, normalizes every data row and assigns
// competitive ranks. The first row must be the header; empty lines are
// ignored. This is the single fallible step of the pipeline: anything the
// csv reader rejects surfaces as a load error, while field-level
// malformation inside a well-formed row is absorbed.
func (n *Normalizer) Parse(r io.Reader) ([]Candidate, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns := make(map[int]string, len(header))
	for i, label := range header {
		columns[i] = strings.TrimSpace(label)
	}

	var candidates []Candidate
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read data row %d: %w", len(candidates)+2, err)
		}

		row := make(Row, len(record))
		for i, value := range record {
			if label, ok := columns[i]; ok && label != "" {
				row[label] = value
			}
		}
		candidates = append(candidates, n.Normalize(len(candidates), row))
	}

	Rank(candidates)
	return candidates, nil
}
