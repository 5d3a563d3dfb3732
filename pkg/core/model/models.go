package model

import "time"

// ActionKind identifies the attendance action a worker has requested and
// which is waiting on location proof.
type ActionKind string

const (
	ActionCheckIn  ActionKind = "checkin"
	ActionCheckOut ActionKind = "checkout"
)

// Worker is one row of the WORKERS roster tab.
// The roster is append-only; workers are never deleted.
type Worker struct {
	TelegramID int64
	Name       string
	Phone      string
	Status     string
}

// StatusRegistered is the roster status written on successful registration.
const StatusRegistered = "REGISTERED"

// PendingAction is an unconfirmed check-in/out, held in memory only.
// It is keyed by Telegram user id in the pending store and lost on restart,
// which only discards unconfirmed intent.
type PendingAction struct {
	WorkerName string
	Kind       ActionKind
	StartedAt  time.Time
}
