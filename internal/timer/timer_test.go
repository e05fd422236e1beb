package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElapsedNeverFiredIsTimedOut(t *testing.T) {
	tm := New(time.Unix(0, 0))
	tm.SetTimeout(1, time.Second)
	// SetTimeout implicitly fires the key, so immediately after it is not timed out.
	assert.False(t, tm.TimedOut(1))

	const neverArmed = 2
	assert.True(t, tm.TimedOut(neverArmed), "a key with no timeout armed is always timed out")
}

func TestElapsedCurrentTimeIsTickDelta(t *testing.T) {
	t0 := time.Unix(0, 0)
	tm := New(t0)
	tm.SetTime(t0.Add(100 * time.Millisecond))
	assert.Equal(t, 100*time.Millisecond, tm.Elapsed(CurrentTime))
}

func TestTimedOutAfterTimeout(t *testing.T) {
	t0 := time.Unix(0, 0)
	tm := New(t0)
	tm.SetTimeout(1, 50*time.Millisecond)
	require.False(t, tm.TimedOut(1))

	tm.SetTime(t0.Add(60 * time.Millisecond))
	assert.True(t, tm.TimedOut(1))
}

func TestPeriodicFiresOnceThenRearms(t *testing.T) {
	t0 := time.Unix(0, 0)
	tm := New(t0)
	tm.SetTimeout(1, 10*time.Millisecond)

	calls := 0
	tm.Periodic(1, func() { calls++ })
	assert.Equal(t, 0, calls, "just armed, not yet timed out")

	tm.SetTime(t0.Add(11 * time.Millisecond))
	tm.Periodic(1, func() { calls++ })
	assert.Equal(t, 1, calls)

	tm.Periodic(1, func() { calls++ })
	assert.Equal(t, 1, calls, "re-armed, should not fire again immediately")

	tm.SetTime(t0.Add(25 * time.Millisecond))
	tm.Periodic(1, func() { calls++ })
	assert.Equal(t, 2, calls)
}

func TestGetCountEvictsOldEntries(t *testing.T) {
	t0 := time.Unix(0, 0)
	tm := New(t0)
	tm.SetTimeout(1, 100*time.Millisecond)

	tm.SetEventCounter(1)
	tm.SetTime(t0.Add(50 * time.Millisecond))
	tm.SetEventCounter(1)
	tm.SetTime(t0.Add(90 * time.Millisecond))
	tm.SetEventCounter(1)

	assert.Equal(t, 3, tm.GetCount(1))

	tm.SetTime(t0.Add(160 * time.Millisecond))
	// entries at 0 and 50ms are now older than the 100ms window relative
	// to 160ms (cutoff 60ms), only the 90ms entry survives.
	assert.Equal(t, 1, tm.GetCount(1))
}
