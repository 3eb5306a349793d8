package composer

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Composer is a single-consumer work queue decoupling message arrival
// from processing. Producers enqueue under a lock; one dedicated worker
// goroutine drains the queue in strict arrival order and applies the
// processing function to each item, so at most one processing call is
// active at a time.
//
// The worker alternates between draining until empty and sleeping for
// the idle interval, bounding worst-case latency to the idle interval
// when the queue is empty and allowing batch draining under backlog.
type Composer[T any] struct {
	name    string
	idle    time.Duration
	logger  *zap.Logger
	process func(T)

	mu    sync.Mutex
	queue []T

	done      atomic.Bool
	wg        sync.WaitGroup
	processed atomic.Int64
	dropped   atomic.Int64
}

// New creates a composer and starts its worker
func New[T any](name string, idle time.Duration, logger *zap.Logger, process func(T)) *Composer[T] {
	c := &Composer[T]{
		name:    name,
		idle:    idle,
		logger:  logger,
		process: process,
	}

	logger.Info("starting composer", zap.String("name", name))
	c.wg.Add(1)
	go c.run()
	return c
}

// Enqueue appends a message for the worker. Messages enqueued after Stop
// has completed its final drain are dropped and counted.
func (c *Composer[T]) Enqueue(msg T) {
	if c.done.Load() {
		c.dropped.Add(1)
		c.logger.Warn("message dropped after stop", zap.String("name", c.name))
		return
	}

	c.mu.Lock()
	c.queue = append(c.queue, msg)
	c.mu.Unlock()
}

// Stop signals the worker and joins it. The worker performs one final
// drain before exiting so messages already enqueued are not lost.
func (c *Composer[T]) Stop() {
	c.logger.Info("stopping composer", zap.String("name", c.name))
	c.done.Store(true)
	c.wg.Wait()
	c.logger.Info("composer stopped",
		zap.String("name", c.name),
		zap.Int64("processed", c.processed.Load()),
		zap.Int64("dropped", c.dropped.Load()),
	)
}

// Processed returns the number of messages handled so far
func (c *Composer[T]) Processed() int64 {
	return c.processed.Load()
}

func (c *Composer[T]) run() {
	defer c.wg.Done()

	for {
		c.drain()

		if c.done.Load() {
			// pick up anything enqueued before the stop flag was observed
			c.drain()
			c.logger.Info("exiting composer worker", zap.String("name", c.name))
			return
		}

		time.Sleep(c.idle)
	}
}

func (c *Composer[T]) drain() {
	for {
		msg, ok := c.tryPop()
		if !ok {
			return
		}
		c.process(msg)
		c.processed.Add(1)
	}
}

func (c *Composer[T]) tryPop() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if len(c.queue) == 0 {
		return zero, false
	}

	msg := c.queue[0]
	c.queue[0] = zero
	c.queue = c.queue[1:]
	return msg, true
}
