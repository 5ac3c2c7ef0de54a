// Package prometheussink adapts priopool's metrics Sink interface to
// Prometheus client metrics. It is a host-layer collaborator: the pool
// core has no dependency on this package, only on the Sink interface it
// implements.
package prometheussink

import (
	"time"

	"github.com/go-foundations/priopool"
	"github.com/prometheus/client_golang/prometheus"
)

// Sink records pool events as Prometheus counters, gauges, and a
// completion-duration histogram. Register it with a prometheus.Registerer
// before handing it to priopool.NewPool.
type Sink struct {
	workersLive       prometheus.Gauge
	tasksQueued       prometheus.Counter
	tasksDequeued     prometheus.Counter
	tasksCompleted    *prometheus.CounterVec
	taskDuration      *prometheus.HistogramVec
	scaleEvents       prometheus.Counter
	backlogByPriority *prometheus.GaugeVec
}

// New builds a Sink and registers its metrics under reg with the given
// name prefix (e.g. "priopool").
func New(reg prometheus.Registerer, namespace string) *Sink {
	s := &Sink{
		workersLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers_live",
			Help:      "Current number of live pool workers.",
		}),
		tasksQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_queued_total",
			Help:      "Total work items enqueued.",
		}),
		tasksDequeued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_dequeued_total",
			Help:      "Total work items dequeued by the scheduler.",
		}),
		tasksCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Total work items completed, by outcome.",
		}, []string{"succeeded"}),
		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Work item execution duration in seconds, by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"succeeded"}),
		scaleEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scale_events_total",
			Help:      "Total autoscaler scale events.",
		}),
		backlogByPriority: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backlog",
			Help:      "Current backlog count, by priority.",
		}, []string{"priority"}),
	}

	reg.MustRegister(
		s.workersLive, s.tasksQueued, s.tasksDequeued,
		s.tasksCompleted, s.taskDuration, s.scaleEvents, s.backlogByPriority,
	)
	return s
}

func (s *Sink) WorkerCreated(string)   { s.workersLive.Inc() }
func (s *Sink) WorkerDestroyed(string) { s.workersLive.Dec() }

func (s *Sink) TaskQueued(priopool.WorkItem) { s.tasksQueued.Inc() }

func (s *Sink) TaskDequeued(priopool.WorkItem) { s.tasksDequeued.Inc() }

func (s *Sink) TaskCompleted(_ priopool.WorkItem, duration time.Duration, succeeded bool) {
	label := boolLabel(succeeded)
	s.tasksCompleted.WithLabelValues(label).Inc()
	s.taskDuration.WithLabelValues(label).Observe(duration.Seconds())
}

func (s *Sink) ScaleEvent(int, int) { s.scaleEvents.Inc() }

func (s *Sink) BacklogSnapshot(high, normal, low int64) {
	s.backlogByPriority.WithLabelValues("high").Set(float64(high))
	s.backlogByPriority.WithLabelValues("normal").Set(float64(normal))
	s.backlogByPriority.WithLabelValues("low").Set(float64(low))
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
