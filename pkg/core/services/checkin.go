package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/attendance"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/location"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/model"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/pending"
)

// Outcomes of a location confirmation that do not commit a write. Handlers
// map these to user-facing replies.
var (
	ErrNoPending        = errors.New("no pending action awaiting a location")
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNotCheckedIn     = errors.New("not checked in today")
	ErrShiftComplete    = errors.New("today's shift is already complete")
)

// LocationOutcome describes the result of confirming a pending action with
// a coordinate.
type LocationOutcome struct {
	Kind       model.ActionKind
	WorkerName string
	Check      location.Check
	// Committed reports whether the attendance cell was written. An
	// out-of-radius coordinate resolves the pending action but commits
	// nothing.
	Committed bool
	// Stamp is the HH:MM recorded on commit.
	Stamp string
}

// BeginAction starts (or re-requests) a check-in or check-out, recording the
// intent until a location arrives.
func BeginAction(store pending.Store, logger *zap.Logger, userID int64, workerName string, kind model.ActionKind) (pending.BeginResult, model.PendingAction) {
	result, action := store.Begin(userID, workerName, kind)

	logger.Debug("Pending action begin",
		zap.Int64("user_id", userID),
		zap.String("kind", string(kind)),
		zap.Int("result", int(result)))

	return result, action
}

// ResolveLocation confirms a pending action with a received coordinate. The
// pending action is cleared on every path once it has been looked at; the
// attendance cell is re-read immediately before writing so a stale pending
// intent can never regress the sheet.
func ResolveLocation(
	ctx context.Context,
	store pending.Store,
	att AttendanceStore,
	office location.Office,
	logger *zap.Logger,
	userID int64,
	lat, lon float64,
	now time.Time,
) (*LocationOutcome, error) {
	action, ok := store.Resolve(userID)
	if !ok {
		return nil, ErrNoPending
	}
	defer store.Complete(userID)

	check := office.Verify(lat, lon)
	outcome := &LocationOutcome{
		Kind:       action.Kind,
		WorkerName: action.WorkerName,
		Check:      check,
	}

	if !check.Within {
		logger.Info("Location outside office radius",
			zap.Int64("user_id", userID),
			zap.String("kind", string(action.Kind)),
			zap.Float64("distance_m", check.DistanceMeters))
		return outcome, nil
	}

	status, err := CurrentStatus(ctx, att, action.WorkerName, now)
	if err != nil {
		return nil, err
	}

	stamp := now.Format("15:04")

	switch action.Kind {
	case model.ActionCheckIn:
		switch status.State {
		case attendance.CheckedIn:
			return nil, ErrAlreadyCheckedIn
		case attendance.Complete:
			return nil, ErrShiftComplete
		case attendance.NotCheckedIn:
		default:
			return nil, fmt.Errorf("cannot check in over unrecognised cell %q", status.Raw)
		}
		if err := att.WriteAttendanceCell(ctx, action.WorkerName, now, attendance.EncodeCheckIn(stamp)); err != nil {
			return nil, fmt.Errorf("failed to write check-in: %w", err)
		}

	case model.ActionCheckOut:
		switch status.State {
		case attendance.NotCheckedIn:
			return nil, ErrNotCheckedIn
		case attendance.Complete:
			return nil, ErrShiftComplete
		case attendance.CheckedIn:
		default:
			return nil, fmt.Errorf("cannot check out over unrecognised cell %q", status.Raw)
		}
		if err := att.WriteAttendanceCell(ctx, action.WorkerName, now, attendance.EncodeComplete(status.TimeIn, stamp)); err != nil {
			return nil, fmt.Errorf("failed to write check-out: %w", err)
		}

	default:
		return nil, fmt.Errorf("unknown pending action kind %q", action.Kind)
	}

	outcome.Committed = true
	outcome.Stamp = stamp

	logger.Info("Attendance recorded",
		zap.Int64("user_id", userID),
		zap.String("worker", action.WorkerName),
		zap.String("kind", string(action.Kind)),
		zap.String("stamp", stamp))

	return outcome, nil
}
