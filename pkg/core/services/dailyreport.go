package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/attendance"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/schedule"
)

// ReportEntry is one scheduled worker's line in the daily report.
type ReportEntry struct {
	Name       string
	ShiftValue string
	TimeIn     string
	TimeOut    string
	CellRaw    string
}

// DailyReport buckets today's scheduled workers by punctuality. Workers not
// scheduled today never appear, and workers with cells outside the known
// grammar are surfaced rather than silently dropped.
type DailyReport struct {
	Date    time.Time
	Tab     string
	OnTime  []ReportEntry
	Late    []ReportEntry
	Absent  []ReportEntry
	Unknown []ReportEntry
}

// Expected returns how many workers were scheduled today.
func (r *DailyReport) Expected() int {
	return len(r.OnTime) + len(r.Late) + len(r.Absent) + len(r.Unknown)
}

// BuildDailyReport assembles the admin's attendance report for the day of
// now. The schedule column is located by today's literal DD/MM date in the
// tab's header row; a tab without that header is a configuration error and
// aborts the report.
func BuildDailyReport(
	ctx context.Context,
	sched ScheduleStore,
	att AttendanceStore,
	logger *zap.Logger,
	now time.Time,
	grace time.Duration,
) (*DailyReport, error) {
	tab := schedule.ActiveSheet(now)

	rows, err := sched.ReadScheduleTab(ctx, tab)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("schedule tab %s is empty", tab)
	}

	dayHeader := now.Format("02/01")
	dayCol := -1
	for i, cell := range rows[0] {
		if cell == dayHeader {
			dayCol = i
			break
		}
	}
	if dayCol < 0 {
		return nil, fmt.Errorf("schedule tab %s has no column for %s", tab, dayHeader)
	}

	report := &DailyReport{Date: now, Tab: tab}
	graceMinutes := int(grace.Minutes())

	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		name := row[0]

		var shiftValue string
		if dayCol < len(row) {
			shiftValue = row[dayCol]
		}
		if !schedule.IsWorkValue(shiftValue) {
			continue
		}

		raw, err := att.ReadAttendanceCell(ctx, name, now)
		if err != nil {
			return nil, fmt.Errorf("failed to read attendance for %s: %w", name, err)
		}

		status := attendance.Parse(raw)
		entry := ReportEntry{
			Name:       name,
			ShiftValue: shiftValue,
			TimeIn:     status.TimeIn,
			TimeOut:    status.TimeOut,
			CellRaw:    raw,
		}

		switch status.State {
		case attendance.NotCheckedIn:
			report.Absent = append(report.Absent, entry)
			continue
		case attendance.Unknown:
			report.Unknown = append(report.Unknown, entry)
			continue
		}

		shift, err := schedule.ParseShift(shiftValue)
		if err != nil {
			// Scheduled with a non-range value like "evening"; punctuality
			// cannot be judged.
			logger.Warn("Unparseable shift value in report",
				zap.String("worker", name),
				zap.String("value", shiftValue))
			report.Unknown = append(report.Unknown, entry)
			continue
		}

		inMinutes, err := schedule.ParseClock(status.TimeIn)
		if err != nil {
			report.Unknown = append(report.Unknown, entry)
			continue
		}

		if inMinutes <= shift.StartMinutes+graceMinutes {
			report.OnTime = append(report.OnTime, entry)
		} else {
			report.Late = append(report.Late, entry)
		}
	}

	logger.Info("Daily report built",
		zap.String("tab", tab),
		zap.Int("expected", report.Expected()),
		zap.Int("on_time", len(report.OnTime)),
		zap.Int("late", len(report.Late)),
		zap.Int("absent", len(report.Absent)))

	return report, nil
}
