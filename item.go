package priopool

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WorkPriority classifies a WorkItem for scheduling purposes. The zero value
// is High so that a caller who forgets to set it gets the safest default
// rather than silently starving.
type WorkPriority int

const (
	High WorkPriority = iota
	Normal
	Low
)

// String returns a human-readable label for the priority.
func (p WorkPriority) String() string {
	switch p {
	case High:
		return "high"
	case Normal:
		return "normal"
	case Low:
		return "low"
	default:
		return "unknown"
	}
}

// priorities lists every WorkPriority in its natural order (highest first).
// It is the single place a new priority level would be registered.
func priorities() []WorkPriority {
	return []WorkPriority{High, Normal, Low}
}

// Closure is the unit of work a WorkItem carries. It receives the
// cancellation signal for the worker that runs it and returns an error on
// failure; the pool never inspects the returned value beyond that.
type Closure func(ctx context.Context) error

// WorkItem is an immutable unit of scheduled work. Every field is set once,
// at construction, by NewWorkItem; nothing below ever mutates a WorkItem
// after it is handed to a queue.
type WorkItem struct {
	id       string
	name     string
	priority WorkPriority
	enqueued time.Time
	run      Closure
}

// NewWorkItem builds a WorkItem with a generated identifier and the current
// UTC time as its enqueue timestamp. name may be empty.
func NewWorkItem(priority WorkPriority, run Closure, name string) WorkItem {
	return WorkItem{
		id:       uuid.NewString(),
		name:     name,
		priority: priority,
		enqueued: time.Now().UTC(),
		run:      run,
	}
}

// ID returns the item's unique identifier.
func (w WorkItem) ID() string { return w.id }

// Name returns the optional human-readable name, which may be empty.
func (w WorkItem) Name() string { return w.name }

// Priority returns the item's priority class.
func (w WorkItem) Priority() WorkPriority { return w.priority }

// EnqueuedAt returns the UTC timestamp at which the item was constructed.
func (w WorkItem) EnqueuedAt() time.Time { return w.enqueued }
