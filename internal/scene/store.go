package scene

import (
	"sync/atomic"
	"time"
)

// installed pairs a snapshot with its local arrival time so readers can
// never observe one without the other.
type installed struct {
	snap      *Snapshot
	arrivedAt time.Time
}

// Store is the single owner of the current snapshot. Install replaces the
// whole snapshot with one pointer swap; there is no partial mutation, so
// concurrent readers always see either the fully-old or fully-new tree.
type Store struct {
	current   atomic.Pointer[installed]
	freshness time.Duration

	// now is swappable in tests.
	now func() time.Time
}

// NewStore creates a store holding the placeholder snapshot. freshness is
// the window after the last publish during which the publisher counts as
// connected.
func NewStore(freshness time.Duration) *Store {
	s := &Store{
		freshness: freshness,
		now:       time.Now,
	}
	s.current.Store(&installed{snap: Placeholder()})
	return s
}

// Install atomically replaces the current snapshot and stamps the arrival
// time with the local clock. The publisher's claimed timestamp is ignored
// for freshness.
func (s *Store) Install(snap *Snapshot) {
	s.current.Store(&installed{snap: snap, arrivedAt: s.now()})
}

// Current returns the currently installed snapshot. Before the first
// publish this is the placeholder. Callers must not mutate the result.
func (s *Store) Current() *Snapshot {
	return s.current.Load().snap
}

// LastArrival returns the local arrival time of the last publish, or the
// zero time if nothing has been published yet.
func (s *Store) LastArrival() time.Time {
	return s.current.Load().arrivedAt
}

// IsConnected reports whether a publish arrived within the freshness
// window. Recomputed at call time; no background timers.
func (s *Store) IsConnected() bool {
	last := s.LastArrival()
	if last.IsZero() {
		return false
	}
	return s.now().Sub(last) < s.freshness
}
