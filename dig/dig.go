// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dig

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/siemens/revdig/cache"
	"github.com/siemens/revdig/pool"
	"github.com/siemens/revdig/types"
)

// Digger digs up the DNS names of IPv4 addresses read from files or other
// sources, using a pool of workers that share a single result cache.
//
// I dunno what Sir Tim, Mick, Phil, and all the others might think of our
// digging here...
type Digger struct {
	cache *cache.ResultCache
	pool  *pool.Pool
}

// New returns a new Digger with the specified number of workers and queue
// capacity, looking up addresses using the specified resolve function.
func New(workers, queueCapacity int, resolve pool.ResolveFunc, options ...pool.Option) (*Digger, error) {
	c := cache.New()
	p, err := pool.New(workers, queueCapacity, c, resolve, options...)
	if err != nil {
		return nil, err
	}
	return &Digger{
		cache: c,
		pool:  p,
	}, nil
}

// DigReader digs the addresses read from r, one per line; source names r in
// error messages. DigReader returns after the last address has been submitted,
// but most probably before all addresses have been looked up.
func (d *Digger) DigReader(ctx context.Context, r io.Reader, source string) (Counts, error) {
	return ScanKeys(ctx, r, source, d.pool.Submit)
}

// DigFile digs the addresses read from the named file, one per line.
func (d *Digger) DigFile(ctx context.Context, name string) (Counts, error) {
	f, err := os.Open(name)
	if err != nil {
		return Counts{}, fmt.Errorf("cannot open %q: %w", name, err)
	}
	defer f.Close()
	return d.DigReader(ctx, f, name)
}

// StopWait waits for all submitted addresses to get looked up and then stops
// the workers. Do not dig any more after StopWait.
func (d *Digger) StopWait() {
	d.pool.DrainAndShutdown()
}

// Stats returns the current statistics of the worker pool.
func (d *Digger) Stats() pool.Stats {
	return d.pool.Stats()
}

// Results returns the resolutions cached so far, in no particular order.
func (d *Digger) Results() []types.Resolution {
	return d.cache.Snapshot()
}
