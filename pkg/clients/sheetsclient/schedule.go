package sheetsclient

import (
	"context"
	"fmt"
	"strings"
)

// ReadScheduleTab returns a schedule tab as strings. Row layout is one
// worker per row, name in column A, Monday..Sunday in columns B..H.
func (c *Client) ReadScheduleTab(ctx context.Context, tab string) ([][]string, error) {
	values, err := c.getValues(ctx, fmt.Sprintf("%s!A:H", tab))
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule tab %s: %w", tab, err)
	}

	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j := range row {
			rows[i][j] = cellString(row, j)
		}
	}
	return rows, nil
}

// WorkerWeek returns the seven Monday-first schedule values for a worker on
// a tab. Missing trailing cells read as empty, which downstream treats as
// rest days. The bool reports whether the worker has a row at all.
func (c *Client) WorkerWeek(ctx context.Context, tab, workerName string) ([7]string, bool, error) {
	var week [7]string

	rows, err := c.ReadScheduleTab(ctx, tab)
	if err != nil {
		return week, false, err
	}

	for _, row := range rows {
		if len(row) == 0 || !strings.EqualFold(strings.TrimSpace(row[0]), workerName) {
			continue
		}
		for day := 0; day < 7; day++ {
			if day+1 < len(row) {
				week[day] = row[day+1]
			}
		}
		return week, true, nil
	}
	return week, false, nil
}
