package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"opotracker/internal/dataset"
)

const sheetName = "Candidatos"

// WriteXLSX serializes the view as a single-sheet workbook with the same
// column set as the CSV export. Cells stay string-typed: score columns keep
// their raw source text, sentinels included.
func WriteXLSX(w io.Writer, candidates []dataset.Candidate) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := dataset.Header()
	row := make([]interface{}, len(header))
	for i, label := range header {
		row[i] = label
	}
	if err := f.SetSheetRow(sheetName, "A1", &row); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, c := range candidates {
		record := c.Record()
		for j, value := range record {
			row[j] = value
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("resolve cell for record %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
