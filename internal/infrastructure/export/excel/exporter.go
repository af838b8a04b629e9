// Package excel renders a batch report as an .xlsx workbook.
package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
)

const sheetName = "Compliance Report"

// Write streams the workbook: a checklist block, then one row per flattened
// issue.
func Write(w io.Writer, report domain.Report) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	checklist := [][]any{
		{"Process", report.Process},
		{"Documents Uploaded", report.DocumentsUploaded},
		{"Required Documents", report.RequiredDocuments},
		{"Missing Document", report.MissingDocument},
	}
	for i, row := range checklist {
		if err := setRow(f, i+1, row); err != nil {
			return err
		}
	}

	header := []any{"Document", "Section", "Issue", "Severity", "Suggestion"}
	headerRow := len(checklist) + 2
	if err := setRow(f, headerRow, header); err != nil {
		return err
	}
	for i, issue := range report.IssuesFound {
		row := []any{issue.Document, issue.Section, issue.Issue, issue.Severity, issue.Suggestion}
		if err := setRow(f, headerRow+1+i, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name for %d/%d: %w", col+1, row, err)
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
