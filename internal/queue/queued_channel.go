// Package queue decouples the scanning goroutine from the event consumer on
// the streaming surface.
package queue

import (
	"sync"
	"sync/atomic"
)

// QueuedChannel is a channel with an unbounded intermediate queue: the
// producer never blocks on a slow consumer, and there is no need to guess an
// ideal channel buffer size ahead of time. Items already queued when the
// channel is closed are still delivered.
type QueuedChannel[T any] struct {
	ch     chan T
	items  []T
	cond   *sync.Cond
	closed atomic.Bool
}

func NewQueuedChannel[T any](chanBufferSize, queueCapacity int) *QueuedChannel[T] {
	queue := &QueuedChannel[T]{
		ch:    make(chan T, chanBufferSize),
		items: make([]T, 0, queueCapacity),
		cond:  sync.NewCond(&sync.Mutex{}),
	}

	go func() {
		defer close(queue.ch)

		for {
			item, ok := queue.pop()
			if !ok {
				return
			}

			queue.ch <- item
		}
	}()

	return queue
}

// Enqueue appends items to the queue. It reports false once the queue has
// been closed.
func (q *QueuedChannel[T]) Enqueue(items ...T) bool {
	if q.closed.Load() {
		return false
	}

	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	q.items = append(q.items, items...)

	q.cond.Broadcast()

	return true
}

func (q *QueuedChannel[T]) GetChannel() <-chan T {
	return q.ch
}

func (q *QueuedChannel[T]) Close() {
	q.closed.Store(true)

	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	q.cond.Broadcast()
}

// pop waits for an item, returning false only when the queue is closed and
// drained. This lets a closed queue keep delivering what was already queued
// without hanging once it runs out of items.
func (q *QueuedChannel[T]) pop() (T, bool) {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	var item T

	for len(q.items) == 0 {
		if q.closed.Load() {
			return item, false
		}

		q.cond.Wait()
	}

	item, q.items = q.items[0], q.items[1:]

	return item, true
}
