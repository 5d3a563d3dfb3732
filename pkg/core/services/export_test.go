package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportMonth(t *testing.T) {
	att := newFakeAttendance()
	att.grid = [][]string{
		{"Name", "01/07", "02/07"},
		{"Maria", "09:00-17:00", "09:03-"},
		{"Nikos", "", "09:20-17:30"},
	}

	month := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	buf, filename, err := ExportMonth(context.Background(), att, month)

	require.NoError(t, err)
	assert.Equal(t, "attendance_07_2025.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Attendance", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Maria", name)

	cell, err := f.GetCellValue("Attendance", "C3")
	require.NoError(t, err)
	assert.Equal(t, "09:20-17:30", cell)
}

func TestExportMonth_NoData(t *testing.T) {
	att := newFakeAttendance()

	month := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	_, _, err := ExportMonth(context.Background(), att, month)

	assert.ErrorIs(t, err, ErrNoMonthData)
}
