package priopool

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-foundations/priopool/poolerr"
	"go.uber.org/zap"
)

type poolState int

const (
	stateCreated poolState = iota
	stateRunning
	stateStopped
)

// Pool is an auto-scaling priority worker pool. The zero value is not
// usable; construct one with NewPool.
type Pool struct {
	cfg    Config
	sink   Sink
	logger *zap.Logger

	queues    *priorityQueueSet
	scheduler *scheduler
	live      *liveWorkerSet

	mu         sync.Mutex
	state      poolState
	rootCtx    context.Context
	rootCancel context.CancelFunc
	mgmtDone   chan struct{}
}

// NewPool constructs a Pool with the given configuration and metrics
// sink. sink may be nil, in which case events are discarded. logger may
// be nil, in which case internal diagnostics are dropped.
func NewPool(cfg Config, sink Sink, logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		cfg:    cfg,
		logger: logger,
		live:   newLiveWorkerSet(),
		state:  stateCreated,
	}
	p.sink = newSafeSink(sink, func(op string, r any) {
		p.logger.Warn("metrics sink panicked", zap.String("op", op), zap.Any("recovered", r))
	})
	p.queues = newPriorityQueueSet()
	p.scheduler = newScheduler(cfg, p.queues, p.sink)
	return p
}

// Start validates the configuration, spawns MinWorkers workers, and
// launches the management loop. It is safe to call once; calling it
// again after Stop is rejected.
func (p *Pool) Start() error {
	if err := p.cfg.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != stateCreated {
		return &poolerr.LifecycleError{Op: "Start", Reason: "pool already started or stopped"}
	}

	p.rootCtx, p.rootCancel = context.WithCancel(context.Background())
	p.mgmtDone = make(chan struct{})

	for i := 0; i < p.cfg.MinWorkers; i++ {
		p.spawnWorkerLocked()
	}

	go p.manage()

	p.state = stateRunning
	p.logger.Debug("pool started", zap.Int("min_workers", p.cfg.MinWorkers), zap.Int("max_workers", p.cfg.MaxWorkers))
	return nil
}

func (p *Pool) spawnWorkerLocked() {
	w := newWorker(p.rootCtx, p.scheduler, p.sink, p.logger)
	p.live.add(w)
	w.start()
}

// Enqueue routes item to its priority's queue. It fails only if the
// pool has not been started or has already been stopped.
func (p *Pool) Enqueue(item WorkItem) error {
	p.mu.Lock()
	state := p.state
	p.mu.Unlock()

	switch state {
	case stateCreated:
		return &poolerr.LifecycleError{Op: "Enqueue", Reason: "pool not started"}
	case stateStopped:
		return &poolerr.LifecycleError{Op: "Enqueue", Reason: "pool stopping"}
	}

	p.queues.enqueue(item)
	p.sink.TaskQueued(item)
	return nil
}

// BacklogSnapshot reads the per-priority counters. It is a pure read:
// repeated calls without intervening enqueues/dequeues return equal
// values.
func (p *Pool) BacklogSnapshot() (high, normal, low int64) {
	snap := p.queues.snapshot()
	return snap[High], snap[Normal], snap[Low]
}

// Stop cancels the management loop, awaits it, then cancels and awaits
// every live worker. It is idempotent. Items remaining in queues are
// dropped.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.state != stateRunning {
		p.mu.Unlock()
		return
	}
	p.state = stateStopped
	p.mu.Unlock()

	p.rootCancel()
	<-p.mgmtDone
	p.queues.close()

	var wg sync.WaitGroup
	for _, w := range p.live.all() {
		wg.Add(1)
		go func(w *worker) {
			defer wg.Done()
			w.stop()
			p.live.remove(w.id)
		}(w)
	}
	wg.Wait()

	p.logger.Debug("pool stopped")
}

// manage runs the autoscaling loop: every ManagementInterval it snapshots
// the backlog, computes a desired worker count, and spawns or reclaims
// workers to approach it.
func (p *Pool) manage() {
	defer close(p.mgmtDone)

	ticker := time.NewTicker(p.cfg.ManagementInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.rootCtx.Done():
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick performs one management-loop iteration. Internal bookkeeping
// errors (InternalTickError) are swallowed here; only a panic inside
// tick would otherwise crash the loop, so it is also recovered.
func (p *Pool) tick() {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("management tick panicked", zap.Any("recovered", r))
		}
	}()

	high, normal, low := p.BacklogSnapshot()
	p.sink.BacklogSnapshot(high, normal, low)

	total := high + normal + low
	current := p.live.count()
	desired := p.desiredWorkers(total)

	switch {
	case desired > current:
		p.scaleOut(current, desired)
	case desired < current:
		p.scaleIn(current, desired)
	}
}

// desiredWorkers implements the autoscaler formula from the pool's
// design: clamp(MinWorkers, MaxWorkers, ceil(totalBacklog / max(1,
// BacklogPerWorkerScaleOut))).
func (p *Pool) desiredWorkers(totalBacklog int64) int {
	divisor := p.cfg.BacklogPerWorkerScaleOut
	if divisor < 1 {
		divisor = 1
	}
	raw := int(math.Ceil(float64(totalBacklog) / float64(divisor)))

	if raw < p.cfg.MinWorkers {
		raw = p.cfg.MinWorkers
	}
	if raw > p.cfg.MaxWorkers {
		raw = p.cfg.MaxWorkers
	}
	return raw
}

func (p *Pool) scaleOut(current, desired int) {
	toAdd := desired - current
	if room := p.cfg.MaxWorkers - current; toAdd > room {
		toAdd = room
	}
	if toAdd <= 0 {
		return
	}

	p.mu.Lock()
	for i := 0; i < toAdd; i++ {
		p.spawnWorkerLocked()
	}
	p.mu.Unlock()

	p.sink.ScaleEvent(current, current+toAdd)
}

// scaleIn reclaims idle workers, oldest-idle-first, never dropping below
// MinWorkers. A worker whose lastActive is within IdleTimeout is left
// alone; reclamation is cooperative, so the live count may not reach
// the desired value immediately (the reclaimed worker might already be
// mid-task when cancelled).
func (p *Pool) scaleIn(current, desired int) {
	toRemove := current - desired
	if floor := current - p.cfg.MinWorkers; toRemove > floor {
		toRemove = floor
	}
	if toRemove <= 0 {
		return
	}

	now := time.Now().UTC()
	candidates := p.live.all()
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].lastActiveAt().Before(candidates[j].lastActiveAt())
	})

	removed := 0
	for _, w := range candidates {
		if removed >= toRemove {
			break
		}
		if now.Sub(w.lastActiveAt()) <= p.cfg.IdleTimeout {
			continue
		}
		p.live.remove(w.id)
		go w.stop()
		removed++
	}

	if removed > 0 {
		p.sink.ScaleEvent(current, current-removed)
	}
}
