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

// Package iobase is the I/O base common core shared by the TCP and UDP I/O
// handlers: the io-started guard, the write-in-progress flag, and the
// output queue they both serialize access to under one lock. The two-state
// design (write_in_progress + queue) guarantees the write-completion path
// and the application-side enqueue path never both believe a write must be
// started: exactly one of them observes an empty queue with
// write_in_progress=false at any instant.
package iobase

import (
	"net"
	"sync"
	"sync/atomic"
)

// Element is one queued (buffer, optional destination) pair. Endpoint is nil
// for TCP and for UDP sends that rely on the entity's default remote
// address; it is set for a UDP send directed at a specific peer.
type Element struct {
	Buffer   []byte
	Endpoint *net.UDPAddr
}

// Stats mirrors get_output_queue_stats from the spec.
type Stats struct {
	ElementCount int
	TotalBytes   int
}

// queue is a plain FIFO: constant-time push-back and pop-front, running
// byte/element counters. Not safe for concurrent use on its own — Base
// serializes every access under its mutex.
type queue struct {
	items []Element
	bytes int
}

func (q *queue) pushBack(e Element) {
	q.items = append(q.items, e)
	q.bytes += len(e.Buffer)
}

func (q *queue) popFront() (Element, bool) {
	if len(q.items) == 0 {
		return Element{}, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	q.bytes -= len(e.Buffer)
	return e, true
}

// Base is the embeddable per-handler core: io_started plus the
// write-in-progress/output-queue pair, protected by one mutex.
type Base struct {
	ioStarted atomic.Bool

	mu              sync.Mutex
	writeInProgress bool
	q               queue
}

// SetIOStarted transitions false->true; false if already started.
func (b *Base) SetIOStarted() bool {
	return b.ioStarted.CompareAndSwap(false, true)
}

// SetIOStopped transitions true->false; false if already stopped.
func (b *Base) SetIOStopped() bool {
	return b.ioStarted.CompareAndSwap(true, false)
}

func (b *Base) IsIOStarted() bool {
	return b.ioStarted.Load()
}

func (b *Base) IsWriteInProgress() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writeInProgress
}

// StartWriteSetup implements the single-writer invariant. If the handler is
// not io_started it refuses outright. Otherwise, under lock: if no write is
// outstanding, it claims one (returns true, caller now owns starting the
// write) without touching the queue; if a write is already outstanding, it
// appends to the queue and returns false.
func (b *Base) StartWriteSetup(buf []byte, endpoint *net.UDPAddr) bool {
	if !b.ioStarted.Load() {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.writeInProgress {
		b.writeInProgress = true
		return true
	}

	b.q.pushBack(Element{Buffer: buf, Endpoint: endpoint})
	return false
}

// GetNextElement is called by the write loop when a write completes. If the
// queue is empty it clears write_in_progress and returns false; otherwise it
// dequeues the head, leaving write_in_progress true, and the caller starts
// the next write.
func (b *Base) GetNextElement() (Element, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.q.popFront()
	if !ok {
		b.writeInProgress = false
		return Element{}, false
	}
	return e, true
}

func (b *Base) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{ElementCount: len(b.q.items), TotalBytes: b.q.bytes}
}
