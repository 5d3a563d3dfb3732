// Package services holds the business operations of the attendance bot.
// Each operation is a free function over narrow store interfaces so tests
// can run against in-memory fakes instead of a live spreadsheet.
package services

import (
	"context"
	"time"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/model"
)

// RosterStore is the subset of the spreadsheet client that manages the
// worker roster.
type RosterStore interface {
	ListWorkers(ctx context.Context) ([]model.Worker, error)
	FindWorkerByTelegramID(ctx context.Context, telegramID int64) (*model.Worker, error)
	AppendWorker(ctx context.Context, worker model.Worker) error
}

// AttendanceStore is the subset of the spreadsheet client that reads and
// writes monthly attendance cells.
type AttendanceStore interface {
	ReadAttendanceCell(ctx context.Context, workerName string, date time.Time) (string, error)
	WriteAttendanceCell(ctx context.Context, workerName string, date time.Time, value string) error
	EnsureMonthTab(ctx context.Context, month time.Time) (bool, error)
	ReadMonthGrid(ctx context.Context, month time.Time) ([][]string, error)
}

// ScheduleStore is the subset of the spreadsheet client that reads the
// rotating weekly schedule tabs.
type ScheduleStore interface {
	ReadScheduleTab(ctx context.Context, tab string) ([][]string, error)
	WorkerWeek(ctx context.Context, tab, workerName string) ([7]string, bool, error)
}
