package priopool

import (
	"sync"
	"time"
)

// recordingSink is a thread-safe Sink used by tests to assert on the
// sequence and content of emitted events.
type recordingSink struct {
	mu sync.Mutex

	workersCreated   []string
	workersDestroyed []string
	queued           []WorkItem
	dequeued         []WorkItem
	completed        []completedEvent
	scaleEvents      [][2]int
	snapshots        [][3]int64
}

type completedEvent struct {
	item      WorkItem
	duration  time.Duration
	succeeded bool
}

func (s *recordingSink) WorkerCreated(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workersCreated = append(s.workersCreated, id)
}

func (s *recordingSink) WorkerDestroyed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workersDestroyed = append(s.workersDestroyed, id)
}

func (s *recordingSink) TaskQueued(item WorkItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued = append(s.queued, item)
}

func (s *recordingSink) TaskDequeued(item WorkItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dequeued = append(s.dequeued, item)
}

func (s *recordingSink) TaskCompleted(item WorkItem, duration time.Duration, succeeded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, completedEvent{item, duration, succeeded})
}

func (s *recordingSink) ScaleEvent(oldCount, newCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scaleEvents = append(s.scaleEvents, [2]int{oldCount, newCount})
}

func (s *recordingSink) BacklogSnapshot(high, normal, low int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, [3]int64{high, normal, low})
}

func (s *recordingSink) completedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.completed)
}

func (s *recordingSink) completedSnapshot() []completedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]completedEvent, len(s.completed))
	copy(out, s.completed)
	return out
}
