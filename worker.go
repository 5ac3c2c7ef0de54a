package priopool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// emptyRetryDelay is how long a worker sleeps after FetchNext reports an
// empty scheduler, before retrying. It is short because empty is the
// benign, expected outcome whenever no work is queued.
const emptyRetryDelay = 5 * time.Millisecond

// worker is a long-lived consumer owned exclusively by a Pool. Its
// lastActive timestamp is read by the management loop to decide
// reclamation eligibility and is never written concurrently by anything
// but the worker's own loop.
type worker struct {
	id         string
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	lastActive atomic.Int64 // unix nanoseconds, UTC

	scheduler *scheduler
	sink      Sink
	logger    *zap.Logger

	stopOnce sync.Once
}

func newWorker(poolCtx context.Context, sched *scheduler, sink Sink, logger *zap.Logger) *worker {
	ctx, cancel := context.WithCancel(poolCtx)
	w := &worker{
		id:        uuid.NewString(),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		scheduler: sched,
		sink:      sink,
		logger:    logger,
	}
	w.touch()
	return w
}

func (w *worker) touch() {
	w.lastActive.Store(time.Now().UTC().UnixNano())
}

// lastActiveAt returns the UTC time of the worker's last dequeue, or of
// its construction if it has not dequeued anything yet.
func (w *worker) lastActiveAt() time.Time {
	return time.Unix(0, w.lastActive.Load()).UTC()
}

// start spawns the worker's fetch/execute loop. It returns immediately;
// the loop runs until ctx is cancelled.
func (w *worker) start() {
	w.sink.WorkerCreated(w.id)
	go w.loop()
}

func (w *worker) loop() {
	defer close(w.done)

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		item, outcome := w.scheduler.fetchNext(w.ctx.Done())
		switch outcome {
		case fetchCancelled:
			return
		case fetchEmpty:
			select {
			case <-time.After(emptyRetryDelay):
			case <-w.ctx.Done():
				return
			}
			continue
		case fetchedItem:
			w.touch()
			w.execute(item)
		}
	}
}

// execute runs one item's closure, timing it and reporting completion.
// A closure that returns an error, panics, or observes cancellation is
// treated as an unsuccessful completion; the worker is never killed by
// it.
func (w *worker) execute(item WorkItem) {
	started := time.Now()
	succeeded := w.runClosure(item)
	w.sink.TaskCompleted(item, time.Since(started), succeeded)
}

func (w *worker) runClosure(item WorkItem) (succeeded bool) {
	defer func() {
		if r := recover(); r != nil {
			succeeded = false
			if w.logger != nil {
				w.logger.Warn("work closure panicked",
					zap.String("worker_id", w.id),
					zap.String("item_id", item.ID()),
					zap.Any("recovered", r),
				)
			}
		}
	}()

	if item.run == nil {
		return true
	}
	err := item.run(w.ctx)
	if err != nil && w.logger != nil {
		w.logger.Debug("work closure failed",
			zap.String("worker_id", w.id),
			zap.String("item_id", item.ID()),
			zap.Error(err),
		)
	}
	return err == nil
}

// stop signals cancellation and awaits loop termination. Idempotent:
// calling it more than once is safe because context.CancelFunc and a
// receive on an already-closed channel both are.
func (w *worker) stop() {
	w.cancel()
	<-w.done
	w.stopOnce.Do(func() { w.sink.WorkerDestroyed(w.id) })
}

// liveWorkerSet is the pool's mapping from worker id to worker. It is
// mutated by Start, by the management loop and by Stop, all under mu.
type liveWorkerSet struct {
	mu      sync.Mutex
	workers map[string]*worker
}

func newLiveWorkerSet() *liveWorkerSet {
	return &liveWorkerSet{workers: make(map[string]*worker)}
}

func (s *liveWorkerSet) add(w *worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers[w.id] = w
}

func (s *liveWorkerSet) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workers, id)
}

func (s *liveWorkerSet) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

// all returns a snapshot slice of the live workers.
func (s *liveWorkerSet) all() []*worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*worker, 0, len(s.workers))
	for _, w := range s.workers {
		out = append(out, w)
	}
	return out
}
