package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXWriter implements ReportWriter by writing an .xlsx workbook to disk,
// one sheet per table.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates an XLSXWriter that writes to the given file path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

func (w *XLSXWriter) Write(_ context.Context, _ string, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		if i == 0 {
			// Rename the default sheet instead of leaving it empty.
			if err := f.SetSheetName("Sheet1", table.Name); err != nil {
				return fmt.Errorf("renaming sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(table.Name); err != nil {
				return fmt.Errorf("creating sheet %s: %w", table.Name, err)
			}
		}
		if err := writeSheet(f, table); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, table Table) error {
	header := make([]any, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(table.Name, "A1", &header); err != nil {
		return fmt.Errorf("writing header of %s: %w", table.Name, err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	end, err := excelize.CoordinatesToCellName(len(table.Header), 1)
	if err != nil {
		return fmt.Errorf("computing header range: %w", err)
	}
	if err := f.SetCellStyle(table.Name, "A1", end, style); err != nil {
		return fmt.Errorf("styling header of %s: %w", table.Name, err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("computing row coordinate: %w", err)
		}
		if err := f.SetSheetRow(table.Name, cell, &row); err != nil {
			return fmt.Errorf("writing row %d of %s: %w", i+2, table.Name, err)
		}
	}
	return nil
}
