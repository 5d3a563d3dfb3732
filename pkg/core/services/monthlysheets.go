package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// MonthResult records whether one month's attendance tab had to be created.
type MonthResult struct {
	Tab     string
	Created bool
}

// EnsureUpcomingMonths makes sure attendance tabs exist for the current
// month and the next two. Idempotent: months that already have a tab are
// reported but untouched.
func EnsureUpcomingMonths(ctx context.Context, att AttendanceStore, logger *zap.Logger, now time.Time) ([]MonthResult, error) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	results := make([]MonthResult, 0, 3)
	for i := 0; i < 3; i++ {
		month := firstOfMonth.AddDate(0, i, 0)

		created, err := att.EnsureMonthTab(ctx, month)
		if err != nil {
			return results, fmt.Errorf("failed to ensure tab for %s: %w", month.Format("01_2006"), err)
		}

		results = append(results, MonthResult{Tab: month.Format("01_2006"), Created: created})
	}

	logger.Info("Monthly attendance tabs ensured", zap.Int("months", len(results)))
	return results, nil
}
