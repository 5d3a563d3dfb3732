package sheetsclient

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/sheets/v4"
)

// MonthTab returns the attendance tab title for a month, e.g. "07_2025".
func MonthTab(t time.Time) string {
	return t.Format("01_2006")
}

// columnName converts a 0-based column index to A1 letters.
func columnName(index int) string {
	name := ""
	for index >= 0 {
		name = string(rune('A'+index%26)) + name
		index = index/26 - 1
	}
	return name
}

// daysInMonth returns the day count of the month containing t.
func daysInMonth(t time.Time) int {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

// EnsureMonthTab creates the attendance tab for the given month if it does
// not exist: a header row of "Name" plus one DD/MM column per day, styled,
// with one row per registered worker. Reports whether a tab was created.
func (c *Client) EnsureMonthTab(ctx context.Context, month time.Time) (bool, error) {
	tab := MonthTab(month)

	id, err := c.sheetID(ctx, tab)
	if err != nil {
		return false, err
	}
	if id >= 0 {
		return false, nil
	}

	id, err = c.addSheet(ctx, tab)
	if err != nil {
		return false, err
	}

	days := daysInMonth(month)
	header := make([]interface{}, 0, days+1)
	header = append(header, "Name")
	for day := 1; day <= days; day++ {
		header = append(header, fmt.Sprintf("%02d/%02d", day, int(month.Month())))
	}

	rows := [][]interface{}{header}
	workers, err := c.ListWorkers(ctx)
	if err != nil {
		return false, err
	}
	for _, w := range workers {
		rows = append(rows, []interface{}{w.Name})
	}

	if err := c.updateValues(ctx, fmt.Sprintf("%s!A1", tab), rows); err != nil {
		return false, err
	}

	if err := c.styleMonthTab(ctx, id, days, len(rows)); err != nil {
		return false, err
	}

	return true, nil
}

// styleMonthTab applies the month tab look: dark blue header, light blue
// name column, light green day grid, frozen header row and name column.
func (c *Client) styleMonthTab(ctx context.Context, sheetID int64, days, rowCount int) error {
	headerFormat := &sheets.CellFormat{
		BackgroundColor:     &sheets.Color{Red: 0.26, Green: 0.45, Blue: 0.77},
		TextFormat:          &sheets.TextFormat{Bold: true, ForegroundColor: &sheets.Color{Red: 1, Green: 1, Blue: 1}},
		HorizontalAlignment: "CENTER",
	}
	nameFormat := &sheets.CellFormat{
		BackgroundColor: &sheets.Color{Red: 0.85, Green: 0.91, Blue: 0.98},
		TextFormat:      &sheets.TextFormat{Bold: true},
	}
	gridFormat := &sheets.CellFormat{
		BackgroundColor:     &sheets.Color{Red: 0.89, Green: 0.96, Blue: 0.89},
		HorizontalAlignment: "CENTER",
	}

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(days + 1),
				},
				Cell:   &sheets.CellData{UserEnteredFormat: headerFormat},
				Fields: "userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    1,
					EndRowIndex:      int64(rowCount),
					StartColumnIndex: 0,
					EndColumnIndex:   1,
				},
				Cell:   &sheets.CellData{UserEnteredFormat: nameFormat},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    1,
					EndRowIndex:      int64(rowCount),
					StartColumnIndex: 1,
					EndColumnIndex:   int64(days + 1),
				},
				Cell:   &sheets.CellData{UserEnteredFormat: gridFormat},
				Fields: "userEnteredFormat(backgroundColor,horizontalAlignment)",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount:    1,
						FrozenColumnCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount,gridProperties.frozenColumnCount",
			},
		},
	}

	if _, err := c.batchUpdate(ctx, requests); err != nil {
		return fmt.Errorf("failed to style month tab: %w", err)
	}
	return nil
}

// findWorkerRow returns the 1-based sheet row holding the worker's name, or
// -1 when absent.
func (c *Client) findWorkerRow(ctx context.Context, tab, workerName string) (int, error) {
	values, err := c.getValues(ctx, fmt.Sprintf("%s!A:A", tab))
	if err != nil {
		return -1, err
	}

	for i, row := range values {
		if cellString(row, 0) == workerName {
			return i + 1, nil
		}
	}
	return -1, nil
}

// addWorkerRow appends a worker's name row to a month tab and returns its
// 1-based row number. Late registrations land below the styled block.
func (c *Client) addWorkerRow(ctx context.Context, tab, workerName string) (int, error) {
	if err := c.appendRows(ctx, fmt.Sprintf("%s!A:A", tab), [][]interface{}{{workerName}}); err != nil {
		return -1, err
	}
	return c.findWorkerRow(ctx, tab, workerName)
}

// ReadAttendanceCell returns the raw attendance value for a worker on the
// given date. A missing tab, row or cell reads as empty; reads never create
// anything.
func (c *Client) ReadAttendanceCell(ctx context.Context, workerName string, date time.Time) (string, error) {
	tab := MonthTab(date)

	id, err := c.sheetID(ctx, tab)
	if err != nil {
		return "", err
	}
	if id < 0 {
		return "", nil
	}

	row, err := c.findWorkerRow(ctx, tab, workerName)
	if err != nil {
		return "", err
	}
	if row < 0 {
		return "", nil
	}

	// Day N lives in column N+1 (column A holds names).
	cell := fmt.Sprintf("%s!%s%d", tab, columnName(date.Day()), row)
	values, err := c.getValues(ctx, cell)
	if err != nil {
		return "", err
	}
	if len(values) == 0 || len(values[0]) == 0 {
		return "", nil
	}
	return cellString(values[0], 0), nil
}

// WriteAttendanceCell writes the raw attendance value for a worker on the
// given date, creating the month tab and the worker row as needed. The
// find-row-then-write sequence is not atomic; the Sheets API has no
// compare-and-swap, so two writers for the same worker can race.
func (c *Client) WriteAttendanceCell(ctx context.Context, workerName string, date time.Time, value string) error {
	tab := MonthTab(date)

	if _, err := c.EnsureMonthTab(ctx, date); err != nil {
		return err
	}

	row, err := c.findWorkerRow(ctx, tab, workerName)
	if err != nil {
		return err
	}
	if row < 0 {
		row, err = c.addWorkerRow(ctx, tab, workerName)
		if err != nil {
			return err
		}
		if row < 0 {
			return fmt.Errorf("failed to locate row for %s in %s after append", workerName, tab)
		}
	}

	cell := fmt.Sprintf("%s!%s%d", tab, columnName(date.Day()), row)
	return c.updateValues(ctx, cell, [][]interface{}{{value}})
}

// ReadMonthGrid returns the full contents of a month tab as strings, or nil
// when the tab does not exist.
func (c *Client) ReadMonthGrid(ctx context.Context, month time.Time) ([][]string, error) {
	tab := MonthTab(month)

	id, err := c.sheetID(ctx, tab)
	if err != nil {
		return nil, err
	}
	if id < 0 {
		return nil, nil
	}

	values, err := c.getValues(ctx, fmt.Sprintf("%s!A1:AZ", tab))
	if err != nil {
		return nil, err
	}

	grid := make([][]string, len(values))
	for i, row := range values {
		grid[i] = make([]string, len(row))
		for j := range row {
			grid[i][j] = cellString(row, j)
		}
	}
	return grid, nil
}
