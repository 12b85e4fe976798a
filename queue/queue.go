// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package queue

import (
	"errors"
	"sync"
)

// ErrInvalidCapacity is returned by New when asked for a queue that cannot hold
// at least a single item.
var ErrInvalidCapacity = errors.New("queue capacity must be greater than 0")

// Queue is a fixed-capacity FIFO of keys, implemented as a circular buffer.
// Inserting into a full queue blocks until a slot frees up, removing from an
// empty queue blocks until either an item arrives or the queue is shut down.
//
// Three separate wake conditions are kept: notEmpty for removers, notFull for
// inserters, and drained for anyone waiting for the queue to run empty.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond // an item arrived, or shutdown was requested.
	notFull  *sync.Cond // a slot in a previously full queue became free.
	drained  *sync.Cond // the last item was removed.

	slots []string
	head  int // next slot to remove from.
	tail  int // next slot to insert into.
	count int // number of occupied slots, 0 <= count <= len(slots).

	inserters int  // number of inserters blocked on notFull.
	shutdown  bool // no more items will arrive; never reset.
}

// New returns a new Queue able to hold the specified number of items.
func New(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	q := &Queue{
		slots: make([]string, capacity),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	q.drained = sync.NewCond(&q.mu)
	return q, nil
}

// Insert appends item at the end of the queue, blocking as long as the queue
// is full. Inserting after RequestShutdown is a programming error and panics.
func (q *Queue) Insert(item string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.shutdown && q.count == len(q.slots) {
		q.inserters++
		q.notFull.Wait()
		q.inserters--
	}
	if q.shutdown {
		panic("queue: insert after shutdown")
	}
	q.slots[q.tail] = item
	q.tail = (q.tail + 1) % len(q.slots)
	q.count++
	q.notEmpty.Signal()
}

// Remove takes the item at the head of the queue, blocking while the queue is
// empty. It returns ok false only after RequestShutdown and once the queue has
// run empty, signalling that there is no more work to come. Items still queued
// when shutdown is requested are handed out first.
func (q *Queue) Remove() (item string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.count == 0 && !q.shutdown {
		q.notEmpty.Wait()
	}
	if q.count == 0 {
		return "", false
	}
	wasFull := q.count == len(q.slots)
	item = q.slots[q.head]
	q.slots[q.head] = "" // don't hold on to the item any longer than necessary.
	q.head = (q.head + 1) % len(q.slots)
	q.count--
	// Only inserters find a full queue; with more than one inserter waiting,
	// each removal needs to wake one of them, not just the first one after
	// the queue was full.
	if wasFull || q.inserters > 0 {
		q.notFull.Signal()
	}
	if q.count == 0 {
		q.drained.Broadcast()
	}
	return item, true
}

// AwaitDrained blocks until the queue is empty. It returns immediately if the
// queue already is empty.
func (q *Queue) AwaitDrained() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.count != 0 {
		q.drained.Wait()
	}
}

// RequestShutdown tells all current and future removers that there won't be
// any more items once the queue has run empty. Calling it multiple times is
// fine.
func (q *Queue) RequestShutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.shutdown = true
	q.notEmpty.Broadcast()
}

// Len returns the number of items currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the maximum number of items the queue can hold.
func (q *Queue) Cap() int {
	return len(q.slots)
}
