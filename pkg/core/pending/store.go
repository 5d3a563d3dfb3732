// Package pending tracks unconfirmed check-in/out actions between the moment
// a worker presses a button and the moment their location arrives. The store
// is process-local and holds at most one entry per user.
package pending

import (
	"sync"
	"time"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/model"
)

// DefaultTTL bounds how long an abandoned action may wait for its location
// before the sweeper reclaims it.
const DefaultTTL = 30 * time.Minute

// BeginResult classifies the outcome of Begin.
type BeginResult int

const (
	// Started means a new pending action was recorded.
	Started BeginResult = iota
	// AlreadyPending means the same action is already in flight; the caller
	// should remind the user rather than restart the flow.
	AlreadyPending
	// Conflict means a different action is in flight; it is not overwritten.
	Conflict
)

// Store is the pending-action contract. Begin never silently replaces an
// existing entry; Complete must be called on every exit path of a flow so a
// user is never left stuck.
type Store interface {
	Begin(userID int64, workerName string, kind model.ActionKind) (BeginResult, model.PendingAction)
	Resolve(userID int64) (model.PendingAction, bool)
	Complete(userID int64)
	Sweep(maxAge time.Duration) int
	Count() int
}

// MemoryStore implements Store with a mutex-guarded map. Handlers run on
// parallel goroutines, so unlike the cooperative runtime this design came
// from, the map needs real synchronization.
type MemoryStore struct {
	mu      sync.Mutex
	actions map[int64]model.PendingAction
	now     func() time.Time
}

// NewMemoryStore returns an empty store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock returns a store with an injected clock for tests.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		actions: make(map[int64]model.PendingAction),
		now:     now,
	}
}

// Begin records a pending action for the user unless one already exists.
// A same-kind repeat is idempotent: the original entry, timestamp included,
// is returned untouched.
func (s *MemoryStore) Begin(userID int64, workerName string, kind model.ActionKind) (BeginResult, model.PendingAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.actions[userID]; ok {
		if existing.Kind == kind {
			return AlreadyPending, existing
		}
		return Conflict, existing
	}

	action := model.PendingAction{
		WorkerName: workerName,
		Kind:       kind,
		StartedAt:  s.now(),
	}
	s.actions[userID] = action
	return Started, action
}

// Resolve looks up the user's pending action without consuming it.
func (s *MemoryStore) Resolve(userID int64) (model.PendingAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, ok := s.actions[userID]
	return action, ok
}

// Complete removes the user's pending action. Removing a missing entry is a
// no-op so callers can defer it unconditionally.
func (s *MemoryStore) Complete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.actions, userID)
}

// Sweep removes entries older than maxAge and reports how many were dropped.
func (s *MemoryStore) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for userID, action := range s.actions {
		if action.StartedAt.Before(cutoff) {
			delete(s.actions, userID)
			removed++
		}
	}
	return removed
}

// Count reports the number of unresolved actions, exposed on the health
// endpoint.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.actions)
}
