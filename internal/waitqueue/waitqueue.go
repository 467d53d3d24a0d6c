/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package waitqueue is the generic MPMC wait queue the spec treats as an
// external collaborator utility. The TCP I/O handler uses it to
// decouple the socket read loop from message-handler dispatch: the reader
// goroutine pushes framed messages as soon as they're complete and keeps
// reading, while one dispatcher goroutine per handler pops and delivers them
// in order — satisfying the "message handler is invoked non-concurrently
// with itself, in receive order" ordering guarantee without serializing the
// socket read itself behind handler execution.
//
// Close-vs-Push race: once Close returns, no Push started after that point
// succeeds. A Push already in flight when Close is called may itself observe
// the queue as closed and fail, but Close does not return until every Push
// that had already been admitted is visible to Pop.
package waitqueue

import "sync"

// Queue is a bounded (maxLen > 0) or unbounded (maxLen == 0) FIFO safe for
// any number of concurrent producers and consumers.
type Queue[T any] struct {
	itemMu sync.Mutex
	cond   *sync.Cond
	items  []T
	maxLen int
	closed bool
}

// New builds a Queue. maxLen <= 0 means unbounded.
func New[T any](maxLen int) *Queue[T] {
	q := &Queue[T]{maxLen: maxLen}
	q.cond = sync.NewCond(&q.itemMu)
	return q
}

// Push blocks while the queue is full and open, then enqueues v. It returns
// false without enqueueing if the queue is, or becomes, closed.
func (q *Queue[T]) Push(v T) bool {
	q.itemMu.Lock()
	defer q.itemMu.Unlock()

	for q.maxLen > 0 && len(q.items) >= q.maxLen && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return false
	}

	q.items = append(q.items, v)
	q.cond.Broadcast()
	return true
}

// TryPush enqueues v without blocking. It fails if the queue is closed or,
// for a bounded queue, full.
func (q *Queue[T]) TryPush(v T) bool {
	q.itemMu.Lock()
	defer q.itemMu.Unlock()

	if q.closed || (q.maxLen > 0 && len(q.items) >= q.maxLen) {
		return false
	}

	q.items = append(q.items, v)
	q.cond.Broadcast()
	return true
}

// Pop blocks until an element is available or the queue is closed and
// drained, in which case it returns the zero value and false.
func (q *Queue[T]) Pop() (T, bool) {
	q.itemMu.Lock()
	defer q.itemMu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.items) == 0 {
		var zero T
		return zero, false
	}

	v := q.items[0]
	q.items = q.items[1:]
	q.cond.Broadcast()
	return v, true
}

// Close marks the queue closed: every Push that returns afterward fails, and
// every blocked or future Pop drains the remaining elements then returns
// false once they're exhausted.
func (q *Queue[T]) Close() {
	q.itemMu.Lock()
	q.closed = true
	q.itemMu.Unlock()
	q.cond.Broadcast()
}

func (q *Queue[T]) Len() int {
	q.itemMu.Lock()
	defer q.itemMu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) Closed() bool {
	q.itemMu.Lock()
	defer q.itemMu.Unlock()
	return q.closed
}
