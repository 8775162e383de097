package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"opotracker/internal/dataset"
)

// CSVOptions configures CSV output.
type CSVOptions struct {
	// BOMPrefix prepends a UTF-8 BOM so Excel detects the encoding.
	BOMPrefix bool
}

// WriteCSV serializes the view to w using the in-memory column set: the
// same header labels and field values the parser consumes, comma-delimited
// with standard quoting. A view exported and parsed again yields the same
// records.
func WriteCSV(w io.Writer, candidates []dataset.Candidate, options CSVOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(dataset.Header()); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	for i, c := range candidates {
		if err := cw.Write(c.Record()); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
