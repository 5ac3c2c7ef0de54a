package priopool

import (
	"sort"
	"time"
)

// fetchOutcome distinguishes why FetchNext returned no item.
type fetchOutcome int

const (
	fetchedItem fetchOutcome = iota
	fetchEmpty               // benign; caller should retry after a short delay
	fetchCancelled
)

// scheduler implements weighted fair selection with aging across the
// queue set's priority classes, per the pool's scheduling algorithm.
type scheduler struct {
	cfg     Config
	queues  *priorityQueueSet
	sink    Sink
	nowFunc func() time.Time
}

func newScheduler(cfg Config, queues *priorityQueueSet, sink Sink) *scheduler {
	return &scheduler{cfg: cfg, queues: queues, sink: sink, nowFunc: time.Now}
}

// effectiveWeight returns base_weight[p] + aging_bias(p). The aging bias
// is zero for an empty queue and otherwise AgingFactor * age of the
// oldest waiting item, tracked precisely via the queue's own FIFO head
// rather than a coarse per-tick approximation.
func (s *scheduler) effectiveWeight(p WorkPriority, now time.Time) float64 {
	age := s.queues.headAge(p, now)
	if age <= 0 {
		return s.cfg.weightFor(p)
	}
	return s.cfg.weightFor(p) + s.cfg.AgingFactor*age.Seconds()
}

// orderedPriorities ranks priorities by descending effective weight,
// breaking ties by natural priority order (High before Normal before
// Low).
func (s *scheduler) orderedPriorities(now time.Time) []WorkPriority {
	ps := priorities()
	weights := make(map[WorkPriority]float64, len(ps))
	for _, p := range ps {
		weights[p] = s.effectiveWeight(p, now)
	}
	sort.SliceStable(ps, func(i, j int) bool {
		wi, wj := weights[ps[i]], weights[ps[j]]
		if wi != wj {
			return wi > wj
		}
		return ps[i] < ps[j]
	})
	return ps
}

// tryFetch walks the weighted order once and returns the first item it
// can take without blocking.
func (s *scheduler) tryFetch() (WorkItem, bool) {
	now := s.nowFunc()
	for _, p := range s.orderedPriorities(now) {
		if item, ok := s.queues.tryTake(p); ok {
			s.sink.TaskDequeued(item)
			return item, true
		}
	}
	return WorkItem{}, false
}

// fetchNext is the two-phase take described in the scheduler's
// algorithm: a non-blocking attempt, then a wait for any queue to gain
// an item, then one more non-blocking attempt.
func (s *scheduler) fetchNext(cancel <-chan struct{}) (WorkItem, fetchOutcome) {
	if item, ok := s.tryFetch(); ok {
		return item, fetchedItem
	}

	select {
	case <-cancel:
		return WorkItem{}, fetchCancelled
	default:
	}

	if !s.queues.waitAny(cancel) {
		select {
		case <-cancel:
			return WorkItem{}, fetchCancelled
		default:
			return WorkItem{}, fetchEmpty
		}
	}

	if item, ok := s.tryFetch(); ok {
		return item, fetchedItem
	}
	return WorkItem{}, fetchEmpty
}
