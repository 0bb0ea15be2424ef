// Package xlsx renders reports as Excel workbooks.
package xlsx

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"courtly/internal/app/dto"
)

const (
	ContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	monthlySheet = "Monthly"
)

var monthlyHeaders = []string{"Year", "Month", "Name", "Count"}

// MonthlyReport writes one row per month under a bold header row.
func MonthlyReport(report dto.MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), monthlySheet); err != nil {
		return nil, err
	}
	for i, h := range monthlyHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(monthlySheet, cell, h); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(monthlySheet, 1, 1, bold); err != nil {
		return nil, err
	}

	total := 0
	for i, m := range report.Months {
		row := i + 2
		values := []any{m.Year, m.Month, time.Month(m.Month).String(), m.Count}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(monthlySheet, cell, v); err != nil {
				return nil, err
			}
		}
		total += m.Count
	}
	totalRow := len(report.Months) + 2
	if err := f.SetCellValue(monthlySheet, fmt.Sprintf("C%d", totalRow), "Total"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(monthlySheet, fmt.Sprintf("D%d", totalRow), total); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename names the export after its collection.
func Filename(collection string) string {
	return fmt.Sprintf("monthly-%s.xlsx", collection)
}
