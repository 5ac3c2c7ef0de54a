// Package logsink adapts priopool's metrics Sink interface to structured
// zap logging, for deployments that want pool events in their log
// stream rather than (or in addition to) a metrics backend.
package logsink

import (
	"time"

	"github.com/go-foundations/priopool"
	"go.uber.org/zap"
)

// Sink logs every pool event at Debug, except TaskCompleted failures
// and ScaleEvent, which log at Info since they're usually the
// interesting ones when tailing logs.
type Sink struct {
	log *zap.Logger
}

// New wraps logger. A nil logger is replaced with zap.NewNop().
func New(logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{log: logger.Named("priopool")}
}

func (s *Sink) WorkerCreated(workerID string) {
	s.log.Debug("worker created", zap.String("worker_id", workerID))
}

func (s *Sink) WorkerDestroyed(workerID string) {
	s.log.Debug("worker destroyed", zap.String("worker_id", workerID))
}

func (s *Sink) TaskQueued(item priopool.WorkItem) {
	s.log.Debug("task queued",
		zap.String("item_id", item.ID()),
		zap.String("priority", item.Priority().String()),
	)
}

func (s *Sink) TaskDequeued(item priopool.WorkItem) {
	s.log.Debug("task dequeued",
		zap.String("item_id", item.ID()),
		zap.String("priority", item.Priority().String()),
	)
}

func (s *Sink) TaskCompleted(item priopool.WorkItem, duration time.Duration, succeeded bool) {
	fields := []zap.Field{
		zap.String("item_id", item.ID()),
		zap.String("priority", item.Priority().String()),
		zap.Duration("duration", duration),
		zap.Bool("succeeded", succeeded),
	}
	if succeeded {
		s.log.Debug("task completed", fields...)
	} else {
		s.log.Info("task completed", fields...)
	}
}

func (s *Sink) ScaleEvent(oldCount, newCount int) {
	s.log.Info("scale event", zap.Int("old", oldCount), zap.Int("new", newCount))
}

func (s *Sink) BacklogSnapshot(high, normal, low int64) {
	s.log.Debug("backlog snapshot",
		zap.Int64("high", high),
		zap.Int64("normal", normal),
		zap.Int64("low", low),
	)
}
