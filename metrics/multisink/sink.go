// Package multisink fans a single pool's events out to several Sinks,
// so a pool can feed a metrics backend and a log stream at once without
// either knowing the other exists.
package multisink

import (
	"time"

	"github.com/go-foundations/priopool"
)

// Sink forwards every event to each wrapped Sink in order. A panicking
// member does not stop delivery to the rest; priopool's own safe-sink
// wrapper around whatever is passed to NewPool already isolates panics
// at the pool boundary, but Sink additionally recovers per-member so one
// broken backend can't starve the others of events.
type Sink struct {
	members []priopool.Sink
}

// New composes members into a single Sink, in the order given.
func New(members ...priopool.Sink) *Sink {
	return &Sink{members: members}
}

func (s *Sink) forEach(call func(priopool.Sink)) {
	for _, m := range s.members {
		func() {
			defer func() { recover() }()
			call(m)
		}()
	}
}

func (s *Sink) WorkerCreated(workerID string) {
	s.forEach(func(m priopool.Sink) { m.WorkerCreated(workerID) })
}

func (s *Sink) WorkerDestroyed(workerID string) {
	s.forEach(func(m priopool.Sink) { m.WorkerDestroyed(workerID) })
}

func (s *Sink) TaskQueued(item priopool.WorkItem) {
	s.forEach(func(m priopool.Sink) { m.TaskQueued(item) })
}

func (s *Sink) TaskDequeued(item priopool.WorkItem) {
	s.forEach(func(m priopool.Sink) { m.TaskDequeued(item) })
}

func (s *Sink) TaskCompleted(item priopool.WorkItem, duration time.Duration, succeeded bool) {
	s.forEach(func(m priopool.Sink) { m.TaskCompleted(item, duration, succeeded) })
}

func (s *Sink) ScaleEvent(oldCount, newCount int) {
	s.forEach(func(m priopool.Sink) { m.ScaleEvent(oldCount, newCount) })
}

func (s *Sink) BacklogSnapshot(high, normal, low int64) {
	s.forEach(func(m priopool.Sink) { m.BacklogSnapshot(high, normal, low) })
}
