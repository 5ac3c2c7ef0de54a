// Package priopool implements an auto-scaling priority worker pool: a
// multi-queue scheduler with weighted fair-share selection and aging to
// prevent starvation, backlog-driven elastic worker-count control,
// per-worker lifecycles with idle reclamation, and a pluggable metrics
// observation surface.
//
// A Pool owns everything it needs: its own priority queues, its own
// workers, its own root cancellation. Multiple independent pools can run
// in the same process without sharing state.
//
// Typical use:
//
//	pool := priopool.NewPool(priopool.Default(), nil, nil)
//	if err := pool.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Stop()
//
//	item := priopool.NewWorkItem(priopool.High, func(ctx context.Context) error {
//		return doWork(ctx)
//	}, "example")
//	if err := pool.Enqueue(item); err != nil {
//		log.Println(err)
//	}
//
// Durability, cross-process scheduling, preemption of running items, and
// producer backpressure are explicitly out of scope: work items live in
// memory only, a pool schedules within a single process, closures run to
// completion or observe cancellation cooperatively, and queues are
// unbounded.
package priopool
