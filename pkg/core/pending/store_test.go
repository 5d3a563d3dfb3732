package pending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/model"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestStore() (*MemoryStore, *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 7, 18, 9, 0, 0, 0, time.UTC)}
	return NewMemoryStoreWithClock(clock.now), clock
}

func TestBegin_RecordsAction(t *testing.T) {
	store, clock := newTestStore()

	result, action := store.Begin(42, "Maria K", model.ActionCheckIn)

	assert.Equal(t, Started, result)
	assert.Equal(t, "Maria K", action.WorkerName)
	assert.Equal(t, model.ActionCheckIn, action.Kind)
	assert.Equal(t, clock.current, action.StartedAt)
	assert.Equal(t, 1, store.Count())
}

func TestBegin_SameKindIsIdempotent(t *testing.T) {
	store, clock := newTestStore()

	_, first := store.Begin(42, "Maria K", model.ActionCheckIn)
	clock.advance(5 * time.Minute)
	result, second := store.Begin(42, "Maria K", model.ActionCheckIn)

	assert.Equal(t, AlreadyPending, result)
	// The original timestamp survives; the flow is not restarted.
	assert.Equal(t, first.StartedAt, second.StartedAt)
	assert.Equal(t, 1, store.Count())
}

func TestBegin_DifferentKindConflicts(t *testing.T) {
	store, _ := newTestStore()

	store.Begin(42, "Maria K", model.ActionCheckIn)
	result, existing := store.Begin(42, "Maria K", model.ActionCheckOut)

	assert.Equal(t, Conflict, result)
	assert.Equal(t, model.ActionCheckIn, existing.Kind)

	// The in-flight action is untouched.
	action, ok := store.Resolve(42)
	require.True(t, ok)
	assert.Equal(t, model.ActionCheckIn, action.Kind)
	assert.Equal(t, 1, store.Count())
}

func TestComplete_RemovesEntry(t *testing.T) {
	store, _ := newTestStore()

	store.Begin(42, "Maria K", model.ActionCheckOut)
	store.Complete(42)

	_, ok := store.Resolve(42)
	assert.False(t, ok)
	assert.Zero(t, store.Count())
}

func TestComplete_MissingEntryIsNoop(t *testing.T) {
	store, _ := newTestStore()

	store.Complete(99)

	assert.Zero(t, store.Count())
}

func TestSweep_RemovesOnlyExpired(t *testing.T) {
	store, clock := newTestStore()

	store.Begin(1, "Old", model.ActionCheckIn)
	clock.advance(29 * time.Minute)
	store.Begin(2, "Fresh", model.ActionCheckIn)
	clock.advance(2 * time.Minute) // entry 1 is now 31m old, entry 2 only 2m

	removed := store.Sweep(DefaultTTL)

	assert.Equal(t, 1, removed)
	_, oldOK := store.Resolve(1)
	_, freshOK := store.Resolve(2)
	assert.False(t, oldOK)
	assert.True(t, freshOK)
}

func TestSweep_EntryAtExactTTLSurvives(t *testing.T) {
	store, clock := newTestStore()

	store.Begin(1, "Edge", model.ActionCheckIn)
	clock.advance(DefaultTTL)

	removed := store.Sweep(DefaultTTL)

	assert.Zero(t, removed)
	_, ok := store.Resolve(1)
	assert.True(t, ok)
}

func TestStore_AtMostOneEntryPerUser(t *testing.T) {
	store, _ := newTestStore()

	store.Begin(42, "Maria K", model.ActionCheckIn)
	store.Begin(42, "Maria K", model.ActionCheckIn)
	store.Begin(42, "Maria K", model.ActionCheckOut)

	assert.Equal(t, 1, store.Count())
}
