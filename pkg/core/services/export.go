package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrNoMonthData reports an export request for a month with no attendance
// tab.
var ErrNoMonthData = fmt.Errorf("no attendance data for the requested month")

// ExportMonth renders a month's attendance grid as a styled xlsx workbook
// for sending as a Telegram document.
func ExportMonth(ctx context.Context, att AttendanceStore, month time.Time) (*bytes.Buffer, string, error) {
	grid, err := att.ReadMonthGrid(ctx, month)
	if err != nil {
		return nil, "", err
	}
	if len(grid) == 0 {
		return nil, "", ErrNoMonthData
	}

	tab := month.Format("01_2006")

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	for r, row := range grid {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, "", fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4372C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	lastCol, err := excelize.CoordinatesToCellName(maxRowLen(grid), 1)
	if err != nil {
		return nil, "", fmt.Errorf("failed to address header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return nil, "", fmt.Errorf("failed to style header: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return nil, "", fmt.Errorf("failed to set name column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	return buf, fmt.Sprintf("attendance_%s.xlsx", tab), nil
}

func maxRowLen(grid [][]string) int {
	max := 1
	for _, row := range grid {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}
