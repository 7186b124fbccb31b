package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kiranalabs/kiranabot/pkg/logging"
)

// DeliverFunc sends the engine's replies back to a user over the transport.
type DeliverFunc func(ctx context.Context, userID int64, replies []Reply)

type job struct {
	id      string
	inbound Inbound
}

// Dispatcher decouples the transport's update loop from handling. Inbound
// events are sharded by user id onto per-worker queues: one user's events are
// always handled by the same worker in arrival order, so a user never has two
// events in flight, while a slow store or notification call for one user
// never blocks other users' shards.
type Dispatcher struct {
	engine  *Engine
	deliver DeliverFunc
	logger  *logging.Logger

	workers int
	buffer  int
	shards  []chan job

	wg sync.WaitGroup
}

// DispatcherOption customizes dispatcher behavior.
type DispatcherOption func(*Dispatcher)

// WithWorkerCount sets the number of consumer goroutines (and shards).
func WithWorkerCount(count int) DispatcherOption {
	return func(d *Dispatcher) {
		if count > 0 {
			d.workers = count
		}
	}
}

// WithQueueBuffer sets each shard's queue capacity.
func WithQueueBuffer(size int) DispatcherOption {
	return func(d *Dispatcher) {
		if size > 0 {
			d.buffer = size
		}
	}
}

// NewDispatcher creates a dispatcher over the engine.
func NewDispatcher(engine *Engine, deliver DeliverFunc, logger *logging.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	d := &Dispatcher{
		engine:  engine,
		deliver: deliver,
		logger:  logger,
		workers: 4,
		buffer:  256,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.shards = make([]chan job, d.workers)
	for i := range d.shards {
		d.shards[i] = make(chan job, d.buffer)
	}
	return d
}

// Start launches one worker per shard. Workers exit when ctx is canceled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := range d.shards {
		d.wg.Add(1)
		go func(shard chan job) {
			defer d.wg.Done()
			d.run(ctx, shard)
		}(d.shards[i])
	}
	d.logger.Info("dispatcher started", "workers", d.workers)
}

// Wait blocks until all workers have exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue queues one inbound event onto its user's shard, blocking only when
// the shard's buffer is full.
func (d *Dispatcher) Enqueue(ctx context.Context, in Inbound) error {
	shard := d.shards[d.shardFor(in.UserID)]
	j := job{id: uuid.NewString(), inbound: in}
	select {
	case shard <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) shardFor(userID int64) int {
	idx := userID % int64(len(d.shards))
	if idx < 0 {
		idx = -idx
	}
	return int(idx)
}

func (d *Dispatcher) run(ctx context.Context, shard chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-shard:
			d.handle(ctx, j)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, j job) {
	replies, err := d.engine.HandleMessage(ctx, j.inbound)
	if err != nil {
		d.logger.Error("event handling failed", "error", err, "job_id", j.id, "user_id", j.inbound.UserID)
		replies = []Reply{{Text: "❌ Something went wrong on our side. Please try again."}}
	}
	if len(replies) > 0 && d.deliver != nil {
		d.deliver(ctx, j.inbound.UserID, replies)
	}
}
