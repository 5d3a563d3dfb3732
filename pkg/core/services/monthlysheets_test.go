package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnsureUpcomingMonths(t *testing.T) {
	att := newFakeAttendance()

	now := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	results, err := EnsureUpcomingMonths(context.Background(), att, zap.NewNop(), now)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "11_2025", results[0].Tab)
	assert.Equal(t, "12_2025", results[1].Tab)
	// Year rollover.
	assert.Equal(t, "01_2026", results[2].Tab)
	for _, r := range results {
		assert.True(t, r.Created)
	}
}

func TestEnsureUpcomingMonths_Idempotent(t *testing.T) {
	att := newFakeAttendance()
	now := time.Date(2025, 7, 18, 10, 0, 0, 0, time.UTC)

	_, err := EnsureUpcomingMonths(context.Background(), att, zap.NewNop(), now)
	require.NoError(t, err)

	results, err := EnsureUpcomingMonths(context.Background(), att, zap.NewNop(), now)
	require.NoError(t, err)
	for _, r := range results {
		assert.False(t, r.Created)
	}
}

func TestEnsureUpcomingMonths_EndOfMonth(t *testing.T) {
	att := newFakeAttendance()

	// AddDate from Jan 31 would skip February if months were not anchored
	// to the first.
	now := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)
	results, err := EnsureUpcomingMonths(context.Background(), att, zap.NewNop(), now)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "01_2026", results[0].Tab)
	assert.Equal(t, "02_2026", results[1].Tab)
	assert.Equal(t, "03_2026", results[2].Tab)
}
