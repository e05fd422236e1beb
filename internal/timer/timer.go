// Package timer implements the named time-event map described in spec
// §4.1: a mapping from integer key to last-event time, an optional
// timeout per key, and a monotonically advancing current time.
package timer

import "time"

// CurrentTime is the reserved key whose elapsed() reports the delta since
// the previous SetTime call rather than since its own last event.
const CurrentTime = -1

// Timer is not safe for concurrent use; callers guard it with their own
// lock (Soccer's mutex, Lobby's mutex, etc.) the way spec §5 requires.
type Timer struct {
	current time.Time
	prev    time.Time
	events  map[int]time.Time
	timeout map[int]time.Duration
	counter map[int][]time.Time
}

// New returns a Timer with current/prev set to t.
func New(t time.Time) *Timer {
	return &Timer{
		current: t,
		prev:    t,
		events:  make(map[int]time.Time),
		timeout: make(map[int]time.Duration),
		counter: make(map[int][]time.Time),
	}
}

// SetTime records prev = current, then advances current to t.
func (tm *Timer) SetTime(t time.Time) {
	tm.prev = tm.current
	tm.current = t
}

// Now returns the timer's current time.
func (tm *Timer) Now() time.Time { return tm.current }

// SetEvent stamps key as having just fired at the current time.
func (tm *Timer) SetEvent(key int) {
	tm.events[key] = tm.current
}

// SetTimeout arms a timeout for key. If the key has never fired, it is
// implicitly fired now so that Elapsed/TimedOut have a baseline.
func (tm *Timer) SetTimeout(key int, d time.Duration) {
	tm.timeout[key] = d
	if _, ok := tm.events[key]; !ok {
		tm.SetEvent(key)
	}
}

// Elapsed returns the duration since key last fired. For CurrentTime it
// returns the delta between the two most recent SetTime calls.
func (tm *Timer) Elapsed(key int) time.Duration {
	if key == CurrentTime {
		return tm.current.Sub(tm.prev)
	}
	last, ok := tm.events[key]
	if !ok {
		return time.Duration(1<<63 - 1) // never fired: "infinitely" elapsed
	}
	return tm.current.Sub(last)
}

// TimedOut reports whether key's elapsed time exceeds its armed timeout,
// or whether key has never fired at all.
func (tm *Timer) TimedOut(key int) bool {
	if _, ok := tm.events[key]; !ok {
		return true
	}
	d, ok := tm.timeout[key]
	if !ok {
		return true
	}
	return tm.Elapsed(key) > d
}

// Periodic fires f and re-arms key if key has timed out. Callers set the
// key's timeout once (via SetTimeout) and call Periodic every tick.
func (tm *Timer) Periodic(key int, f func()) {
	if tm.TimedOut(key) {
		tm.SetEvent(key)
		f()
	}
}

// SetEventCounter appends the current time to key's sliding window.
func (tm *Timer) SetEventCounter(key int) {
	tm.counter[key] = append(tm.counter[key], tm.current)
}

// GetCount evicts entries older than key's timeout and returns the
// remaining count. O(evicted).
func (tm *Timer) GetCount(key int) int {
	window, ok := tm.timeout[key]
	if !ok {
		return len(tm.counter[key])
	}
	entries := tm.counter[key]
	cutoff := tm.current.Add(-window)
	i := 0
	for i < len(entries) && entries[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		entries = entries[i:]
		tm.counter[key] = entries
	}
	return len(entries)
}
