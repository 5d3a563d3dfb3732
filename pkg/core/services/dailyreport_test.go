package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Friday 2025-07-18 falls in ISO week 29, so schedule1 is active and the
// day column is headed "18/07".
func reportNow() time.Time {
	return time.Date(2025, 7, 18, 10, 0, 0, 0, time.UTC)
}

func scheduleWithFriday(rows ...[]string) *fakeSchedule {
	header := []string{"Name", "18/07"}
	tab := [][]string{header}
	tab = append(tab, rows...)
	return &fakeSchedule{tabs: map[string][][]string{"schedule1": tab}}
}

func TestBuildDailyReport_Buckets(t *testing.T) {
	sched := scheduleWithFriday(
		[]string{"Maria", "09:00-17:00"},
		[]string{"Nikos", "09:00-17:00"},
		[]string{"Eleni", "09:00-17:00"},
		[]string{"Giorgos", "REST"},
	)
	att := newFakeAttendance()
	att.cells[cellKey("Maria", reportNow())] = "09:03-"
	att.cells[cellKey("Nikos", reportNow())] = "09:20-"
	// Eleni has no cell at all.

	report, err := BuildDailyReport(context.Background(), sched, att, zap.NewNop(), reportNow(), 5*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Expected())
	require.Len(t, report.OnTime, 1)
	assert.Equal(t, "Maria", report.OnTime[0].Name)
	require.Len(t, report.Late, 1)
	assert.Equal(t, "Nikos", report.Late[0].Name)
	require.Len(t, report.Absent, 1)
	assert.Equal(t, "Eleni", report.Absent[0].Name)
	assert.Empty(t, report.Unknown)
}

func TestBuildDailyReport_GraceBoundary(t *testing.T) {
	sched := scheduleWithFriday([]string{"Maria", "09:00-17:00"})
	att := newFakeAttendance()
	// Exactly at the end of the 5 minute grace window.
	att.cells[cellKey("Maria", reportNow())] = "09:05-"

	report, err := BuildDailyReport(context.Background(), sched, att, zap.NewNop(), reportNow(), 5*time.Minute)

	require.NoError(t, err)
	assert.Len(t, report.OnTime, 1)
	assert.Empty(t, report.Late)
}

func TestBuildDailyReport_CompletedShiftCounted(t *testing.T) {
	sched := scheduleWithFriday([]string{"Maria", "09:00-17:00"})
	att := newFakeAttendance()
	att.cells[cellKey("Maria", reportNow())] = "09:00-17:00"

	report, err := BuildDailyReport(context.Background(), sched, att, zap.NewNop(), reportNow(), 5*time.Minute)

	require.NoError(t, err)
	require.Len(t, report.OnTime, 1)
	assert.Equal(t, "17:00", report.OnTime[0].TimeOut)
}

func TestBuildDailyReport_UnknownCell(t *testing.T) {
	sched := scheduleWithFriday([]string{"Maria", "09:00-17:00"})
	att := newFakeAttendance()
	att.cells[cellKey("Maria", reportNow())] = "sick"

	report, err := BuildDailyReport(context.Background(), sched, att, zap.NewNop(), reportNow(), 5*time.Minute)

	require.NoError(t, err)
	require.Len(t, report.Unknown, 1)
	assert.Equal(t, "sick", report.Unknown[0].CellRaw)
}

func TestBuildDailyReport_NonRangeShiftIsUnknown(t *testing.T) {
	sched := scheduleWithFriday([]string{"Maria", "evening"})
	att := newFakeAttendance()
	att.cells[cellKey("Maria", reportNow())] = "18:00-"

	report, err := BuildDailyReport(context.Background(), sched, att, zap.NewNop(), reportNow(), 5*time.Minute)

	require.NoError(t, err)
	assert.Len(t, report.Unknown, 1)
}

func TestBuildDailyReport_MissingDateColumn(t *testing.T) {
	sched := &fakeSchedule{tabs: map[string][][]string{
		"schedule1": {{"Name", "Monday", "Tuesday"}},
	}}

	_, err := BuildDailyReport(context.Background(), sched, newFakeAttendance(), zap.NewNop(), reportNow(), 5*time.Minute)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no column for 18/07")
}

func TestBuildDailyReport_RestWorkersExcluded(t *testing.T) {
	sched := scheduleWithFriday(
		[]string{"Maria", "OFF"},
		[]string{"Nikos", ""},
	)

	report, err := BuildDailyReport(context.Background(), sched, newFakeAttendance(), zap.NewNop(), reportNow(), 5*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, 0, report.Expected())
}
