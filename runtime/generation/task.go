package generation

import (
	"time"

	"github.com/uuidlab/uuidrange/internal/clock"
)

// Task state constants.  Queued and generating are the only non-terminal
// states.
const (
	StateQueued     = "queued"
	StateGenerating = "generating"
	StateCompleted  = "completed"
	StateCancelled  = "cancelled"
	StateError      = "error"
)

// Task is the bookkeeping record of one range generation.  The registry owns
// the canonical copy; the owning worker mutates it through atomic registry
// updates and status pollers read snapshot copies.  Bookkeeping lives for
// the process lifetime only — the output stream is the sole durable artifact.
type Task struct {
	ID        string `json:"id"`
	StartUUID string `json:"startUuid"`
	EndUUID   string `json:"endUuid"`

	State         string  `json:"status"`
	Progress      float64 `json:"progress"`
	Count         uint64  `json:"count"`
	TotalPossible uint64  `json:"totalPossible"`

	OutputURL string `json:"outputUrl,omitempty"`
	Cancelled bool   `json:"cancelled"`
	Error     string `json:"error,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// NewTask creates a queued task for the given endpoints and range size.
func NewTask(id, startUUID, endUUID string, totalPossible uint64) *Task {
	now := clock.Now()
	return &Task{
		ID:            id,
		StartUUID:     startUUID,
		EndUUID:       endUUID,
		State:         StateQueued,
		TotalPossible: totalPossible,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Terminal reports whether the task reached a final state.
func (t *Task) Terminal() bool {
	switch t.State {
	case StateCompleted, StateCancelled, StateError:
		return true
	}
	return false
}

// Clone returns an independent copy safe to hand to concurrent readers.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	if t.FinishedAt != nil {
		at := *t.FinishedAt
		cp.FinishedAt = &at
	}
	return &cp
}

// CopyFrom overwrites the mutable fields from src, keeping identity fields
// intact.  Used by stores that keep the canonical pointer.
func (t *Task) CopyFrom(src *Task) {
	if src == nil || t == src {
		return
	}
	t.State = src.State
	t.Progress = src.Progress
	t.Count = src.Count
	t.TotalPossible = src.TotalPossible
	t.OutputURL = src.OutputURL
	t.Cancelled = src.Cancelled
	t.Error = src.Error
	t.UpdatedAt = src.UpdatedAt
	t.FinishedAt = src.FinishedAt
}
