package progress

import (
	"sync"
	"time"
)

// Tracker accumulates the number of UUIDs written for one task.  It is safe
// for concurrent use; the percentage derived from Count is monotonically
// non-decreasing because Count only ever grows.
type Tracker struct {
	TaskID    string
	Total     uint64
	StartedAt time.Time

	mu       sync.Mutex
	count    uint64
	onChange func(Snapshot)
}

// Snapshot is a value copy handed to observers.
type Snapshot struct {
	TaskID string
	Total  uint64
	Count  uint64
}

// Percent maps the counters onto 0..100, capped at 100.
func (s Snapshot) Percent() float64 {
	if s.Total == 0 {
		return 100
	}
	p := float64(s.Count) / float64(s.Total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// New creates a tracker for a task expected to emit total items.
func New(taskID string, total uint64) *Tracker {
	return &Tracker{TaskID: taskID, Total: total, StartedAt: time.Now()}
}

// Add increments the written count by n.  A registered onChange callback is
// invoked with a snapshot outside the critical section so that it may do
// slow work (registry updates, I/O) without blocking the hot loop.
func (t *Tracker) Add(n uint64) {
	t.mu.Lock()
	t.count += n
	snapshot := t.snapshotLocked()
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns the current counters.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// OnChange registers the observer invoked after every Add.  Only one
// observer can be active; passing nil disables it.
func (t *Tracker) OnChange(cb func(Snapshot)) {
	t.mu.Lock()
	t.onChange = cb
	t.mu.Unlock()
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{TaskID: t.TaskID, Total: t.Total, Count: t.count}
}
