// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package pool

import (
	"github.com/siemens/revdig/types"

	log "github.com/sirupsen/logrus"
)

// worker takes addresses off its pool's queue and resolves them, until the
// queue signals that there is no more work to come.
type worker struct {
	id   int
	pool *Pool
}

// run is the worker loop; it returns only after its pool's queue has been
// shut down and drained. Failing lookups never end the loop.
func (w *worker) run() {
	p := w.pool
	defer p.running.Add(-1)
	for {
		addr, ok := p.queue.Remove()
		if !ok {
			log.Debugf("worker %d: exiting", w.id)
			return
		}
		log.Debugf("worker %d: take %s", w.id, addr)
		// Only a cheap attempt to avoid duplicate lookups; two workers may
		// still pass this check for the same address at the same time.
		if p.cache.Contains(addr) {
			p.stats.skipped.Add(1)
			continue
		}
		w.resolve(addr)
	}
}

// resolve looks up the specified address and caches the resolution, unless
// another worker got there first.
func (w *worker) resolve(addr string) {
	p := w.pool
	var res types.Resolution
	if p.flights != nil {
		// Whoever leads the flight also caches the result before the flight
		// lands, so that later flights for the same address find it cached.
		led := false
		v, _, _ := p.flights.Do(addr, func() (interface{}, error) {
			led = true
			if res, ok := p.cache.Get(addr); ok {
				p.stats.skipped.Add(1)
				return res, nil
			}
			res := w.lookup(addr)
			p.store(addr, res)
			return res, nil
		})
		if !led {
			p.stats.skipped.Add(1) // ...joined another worker's lookup.
		}
		res = v.(types.Resolution)
		log.Debugf("worker %d: %s => %s (%s)", w.id, addr, res.Name, res.Status)
		return
	}
	res = w.lookup(addr)
	p.store(addr, res)
	log.Debugf("worker %d: %s => %s (%s)", w.id, addr, res.Name, res.Status)
}

// lookup carries out the lookup of the specified address, turning lookup
// errors into failed resolutions.
func (w *worker) lookup(addr string) types.Resolution {
	name, err := w.pool.lookup(addr)
	if err != nil {
		log.Debugf("worker %d: cannot resolve %s: %s", w.id, addr, err.Error())
		return types.FailedWith(addr, err)
	}
	return types.ResolvedAs(addr, name)
}

// store caches the specified resolution and updates the statistics, but only
// if this resolution is the first one for the address.
func (p *Pool) store(addr string, res types.Resolution) {
	if !p.cache.InsertIfAbsent(addr, res) {
		p.stats.duplicates.Add(1)
		return
	}
	if res.IsResolved() {
		p.stats.resolved.Add(1)
	} else {
		p.stats.failed.Add(1)
	}
}
