package bot

import (
	"context"
	"sync"
)

type job func(ctx context.Context)

// dispatcher shards jobs by user id over a fixed set of sequential workers,
// so jobs of the same user never overlap and keep their order.
type dispatcher struct {
	ctx    context.Context
	queues []chan job
	once   sync.Once
	wg     sync.WaitGroup
}

func newDispatcher(ctx context.Context, workers, queueSize int) *dispatcher {
	if workers <= 0 {
		workers = 1
	}
	d := &dispatcher{
		// queued jobs still run to completion once shutdown starts
		ctx:    context.WithoutCancel(ctx),
		queues: make([]chan job, workers),
	}

	d.wg.Add(workers)
	for i := range d.queues {
		d.queues[i] = make(chan job, queueSize)
		go d.worker(d.queues[i])
	}
	return d
}

// dispatch blocks while the user's queue is full.
func (d *dispatcher) dispatch(userID int64, j job) {
	d.queues[d.shard(userID)] <- j
}

func (d *dispatcher) shard(userID int64) int {
	return int(uint64(userID) % uint64(len(d.queues)))
}

// close stops accepting jobs and waits for queued ones to finish.
func (d *dispatcher) close() {
	d.once.Do(func() {
		for _, q := range d.queues {
			close(q)
		}
		d.wg.Wait()
	})
}

func (d *dispatcher) worker(jobs <-chan job) {
	defer d.wg.Done()
	for j := range jobs {
		j(d.ctx)
	}
}
