package services

import (
	"context"
	"fmt"
	"time"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/model"
)

// fakeRoster is an in-memory RosterStore.
type fakeRoster struct {
	workers   []model.Worker
	listErr   error
	appendErr error
	appended  []model.Worker
}

func (f *fakeRoster) ListWorkers(_ context.Context) ([]model.Worker, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.workers, nil
}

func (f *fakeRoster) FindWorkerByTelegramID(ctx context.Context, telegramID int64) (*model.Worker, error) {
	workers, err := f.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range workers {
		if workers[i].TelegramID == telegramID {
			return &workers[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRoster) AppendWorker(_ context.Context, worker model.Worker) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, worker)
	f.workers = append(f.workers, worker)
	return nil
}

// fakeAttendance is an in-memory AttendanceStore keyed by worker name and
// date.
type fakeAttendance struct {
	cells    map[string]string
	grid     [][]string
	tabs     map[string]bool
	readErr  error
	writeErr error
	writes   []string
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{cells: map[string]string{}, tabs: map[string]bool{}}
}

func cellKey(workerName string, date time.Time) string {
	return fmt.Sprintf("%s|%s", workerName, date.Format("2006-01-02"))
}

func (f *fakeAttendance) ReadAttendanceCell(_ context.Context, workerName string, date time.Time) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.cells[cellKey(workerName, date)], nil
}

func (f *fakeAttendance) WriteAttendanceCell(_ context.Context, workerName string, date time.Time, value string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	key := cellKey(workerName, date)
	f.cells[key] = value
	f.writes = append(f.writes, key+"="+value)
	return nil
}

func (f *fakeAttendance) EnsureMonthTab(_ context.Context, month time.Time) (bool, error) {
	tab := month.Format("01_2006")
	if f.tabs[tab] {
		return false, nil
	}
	f.tabs[tab] = true
	return true, nil
}

func (f *fakeAttendance) ReadMonthGrid(_ context.Context, _ time.Time) ([][]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.grid, nil
}

// fakeSchedule is an in-memory ScheduleStore holding full tabs.
type fakeSchedule struct {
	tabs    map[string][][]string
	readErr map[string]error
}

func (f *fakeSchedule) ReadScheduleTab(_ context.Context, tab string) ([][]string, error) {
	if err := f.readErr[tab]; err != nil {
		return nil, err
	}
	return f.tabs[tab], nil
}

func (f *fakeSchedule) WorkerWeek(ctx context.Context, tab, workerName string) ([7]string, bool, error) {
	var week [7]string

	rows, err := f.ReadScheduleTab(ctx, tab)
	if err != nil {
		return week, false, err
	}
	for _, row := range rows {
		if len(row) == 0 || row[0] != workerName {
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
