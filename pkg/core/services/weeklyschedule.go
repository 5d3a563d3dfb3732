package services

import (
	"context"
	"fmt"
	"time"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/schedule"
)

// WeekView is a worker's schedule for one rotation week.
type WeekView struct {
	Tab   string
	Found bool
	Days  [7]string
}

// WorkerSchedule is the worker-facing view of the current and next rotation
// weeks.
type WorkerSchedule struct {
	Current WeekView
	Next    WeekView
}

// ViewWorkerSchedule reads a worker's current and next week from the
// rotating tabs. The current week must load; the next week is best effort
// since operators often have not filled it in yet.
func ViewWorkerSchedule(ctx context.Context, sched ScheduleStore, workerName string, now time.Time) (*WorkerSchedule, error) {
	currentTab := schedule.ActiveSheet(now)

	currentDays, found, err := sched.WorkerWeek(ctx, currentTab, workerName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", currentTab, err)
	}

	view := &WorkerSchedule{
		Current: WeekView{Tab: currentTab, Found: found, Days: currentDays},
	}

	nextTab := schedule.NextSheet(currentTab)
	nextDays, nextFound, err := sched.WorkerWeek(ctx, nextTab, workerName)
	if err != nil {
		view.Next = WeekView{Tab: nextTab}
		return view, nil
	}
	view.Next = WeekView{Tab: nextTab, Found: nextFound, Days: nextDays}

	return view, nil
}
