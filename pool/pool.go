// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package pool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/siemens/revdig/cache"
	"github.com/siemens/revdig/queue"

	"github.com/gammazero/workerpool"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidConfiguration is returned (wrapped) by New when asked for a pool
// without workers, without queue slots, or without a cache or resolver.
var ErrInvalidConfiguration = errors.New("invalid pool configuration")

// ResolveFunc resolves an address into a name. It might block for a long time
// and must be safe to be called concurrently.
type ResolveFunc func(ctx context.Context, addr string) (string, error)

// Pool distributes addresses to be resolved to a fixed number of workers via a
// bounded queue, storing the resolutions in a [cache.ResultCache].
type Pool struct {
	queue   *queue.Queue
	cache   *cache.ResultCache
	resolve ResolveFunc
	workers *workerpool.WorkerPool // runs the long-lived worker loops.
	size    int                    // number of workers.

	timeout time.Duration       // per-lookup timeout, or zero.
	flights *singleflight.Group // non-nil when suppressing duplicate in-flight lookups.

	shutdown atomic.Bool // DrainAndShutdown has been called.
	running  atomic.Int32
	stats    counters
}

// Option can be passed to New when creating new Pool objects.
type Option func(*Pool)

// WithLookupTimeout limits each individual lookup to the specified duration. A
// lookup that times out counts as a failed lookup. A zero duration means no
// timeout, which is the default.
func WithLookupTimeout(timeout time.Duration) Option {
	return func(p *Pool) {
		p.timeout = timeout
	}
}

// WithDuplicateSuppression makes workers that are about to look up an address
// already being looked up by another worker wait for and share that other
// lookup's result, instead of carrying out a duplicate lookup.
func WithDuplicateSuppression() Option {
	return func(p *Pool) {
		p.flights = &singleflight.Group{}
	}
}

// New returns a new Pool with the specified number of workers and queue
// capacity, storing resolutions in the specified cache. The workers are
// started immediately and wait for addresses to get submitted.
func New(numWorkers, queueCapacity int, c *cache.ResultCache, resolve ResolveFunc, options ...Option) (*Pool, error) {
	if numWorkers <= 0 {
		return nil, fmt.Errorf("%w: number of workers must be greater than 0, got %d",
			ErrInvalidConfiguration, numWorkers)
	}
	if c == nil || resolve == nil {
		return nil, fmt.Errorf("%w: missing result cache or resolver", ErrInvalidConfiguration)
	}
	q, err := queue.New(queueCapacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	p := &Pool{
		queue:   q,
		cache:   c,
		resolve: resolve,
		workers: workerpool.New(numWorkers),
		size:    numWorkers,
	}
	for _, opt := range options {
		opt(p)
	}
	// Each worker occupies its workerpool slot for its whole life, so
	// submitting exactly as many worker loops as the workerpool is sized
	// starts them all right now.
	for id := 0; id < numWorkers; id++ {
		w := &worker{id: id, pool: p}
		p.running.Add(1)
		log.Debugf("manager: spawning worker %d", id)
		p.workers.Submit(w.run)
	}
	return p, nil
}

// Submit enqueues the specified address for resolution. Submit blocks while
// the queue is full, until a worker has taken an address off the queue.
// Submitting after DrainAndShutdown is a programming error and panics.
func (p *Pool) Submit(addr string) {
	if p.shutdown.Load() {
		panic("pool: submit after shutdown")
	}
	log.Debugf("manager: add %s", addr)
	p.stats.submitted.Add(1)
	p.queue.Insert(addr)
}

// DrainAndShutdown waits for all submitted addresses to be taken off the queue,
// then tells the workers to finish and waits for them to exit. Only call it
// once, after the last Submit; calling it a second time panics.
func (p *Pool) DrainAndShutdown() {
	if !p.shutdown.CompareAndSwap(false, true) {
		panic("pool: DrainAndShutdown called more than once")
	}
	p.queue.AwaitDrained()
	log.Debugf("manager: queue empty; shutting down")
	p.queue.RequestShutdown()
	log.Debugf("manager: waiting for workers to exit")
	p.workers.StopWait()
	log.Debugf("manager: all workers exited")
}

// lookup resolves the specified address, honoring the configured lookup
// timeout. Panicking resolvers are turned into lookup errors.
func (p *Pool) lookup(addr string) (name string, err error) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resolver panicked: %v", r)
		}
	}()
	return p.resolve(ctx, addr)
}
