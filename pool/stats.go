// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package pool

import "sync/atomic"

// Stats is a snapshot of a Pool's activity.
type Stats struct {
	Submitted  int64 // addresses submitted so far.
	Resolved   int64 // addresses successfully resolved and cached.
	Failed     int64 // addresses that failed to resolve, cached with fallback.
	Skipped    int64 // addresses found already cached when taken off the queue.
	Duplicates int64 // lookups whose results lost against an earlier insert.
	Queued     int   // addresses currently waiting in the queue.
	Capacity   int   // queue capacity.
	Workers    int   // number of workers.
	Running    int   // workers not yet exited.
}

// Done returns the number of submitted addresses that have been dealt with.
func (s Stats) Done() int64 {
	return s.Resolved + s.Failed + s.Skipped + s.Duplicates
}

type counters struct {
	submitted  atomic.Int64
	resolved   atomic.Int64
	failed     atomic.Int64
	skipped    atomic.Int64
	duplicates atomic.Int64
}

// Stats returns the current statistics of the pool.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted:  p.stats.submitted.Load(),
		Resolved:   p.stats.resolved.Load(),
		Failed:     p.stats.failed.Load(),
		Skipped:    p.stats.skipped.Load(),
		Duplicates: p.stats.duplicates.Load(),
		Queued:     p.queue.Len(),
		Capacity:   p.queue.Cap(),
		Workers:    p.size,
		Running:    int(p.running.Load()),
	}
}
