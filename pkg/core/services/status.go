package services

import (
	"context"
	"fmt"
	"time"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/attendance"
)

// CurrentStatus derives a worker's attendance state for the given day from
// the sheet. The sheet is authoritative: state is never cached in memory.
func CurrentStatus(ctx context.Context, att AttendanceStore, workerName string, day time.Time) (attendance.Status, error) {
	raw, err := att.ReadAttendanceCell(ctx, workerName, day)
	if err != nil {
		return attendance.Status{}, fmt.Errorf("failed to read attendance cell: %w", err)
	}
	return attendance.Parse(raw), nil
}
