// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package cache

import (
	"sync"

	"github.com/siemens/revdig/types"
)

// ResultCache caches the resolutions of addresses so that unnecessary duplicate
// lookups can be avoided, and so that the final results can be reported once
// all lookups have finished. Once an address has been cached its resolution
// never changes: the first insert wins.
type ResultCache struct {
	mu sync.Mutex
	m  map[string]types.Resolution // IP address -> resolution
}

// New returns a new and empty ResultCache object.
func New() *ResultCache {
	return &ResultCache{
		m: map[string]types.Resolution{},
	}
}

// Contains returns true if there is already a resolution for the specified
// address.
func (c *ResultCache) Contains(addr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[addr]
	return ok
}

// Get returns the resolution for the specified address, if cached.
func (c *ResultCache) Get(addr string) (types.Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.m[addr]
	return res, ok
}

// InsertIfAbsent caches the resolution for the specified address, unless there
// is already a resolution for this address. It returns true if this call
// cached the resolution, false if it lost against an earlier insert; the
// loser's resolution is then simply discarded.
func (c *ResultCache) InsertIfAbsent(addr string, res types.Resolution) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[addr]; ok {
		return false
	}
	c.m[addr] = res
	return true
}

// Snapshot returns a copy of all cached resolutions at this point in time, in
// no particular order.
func (c *ResultCache) Snapshot() []types.Resolution {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := make([]types.Resolution, 0, len(c.m))
	for _, res := range c.m {
		snap = append(snap, res)
	}
	return snap
}

// Len returns the number of cached resolutions.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
