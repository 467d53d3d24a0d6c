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

// Package corestate is the net-entity common core shared by the TCP
// acceptor, TCP connector, and UDP entity: the atomic started/stopped guard
// and the single-shot shutdown callback holder. Concrete entities embed a
// Core and build their own start/stop semantics on top of its compare-and-set
// primitives; the documented source history calls this exact race — start
// and stop racing from separate goroutines — a recurring bug source, so the
// CAS discipline lives here once instead of being reimplemented per entity.
package corestate

import "sync/atomic"

// ShutdownFunc is the shape a concrete entity stores at Start and invokes
// exactly once, from CallShutdown, during its own terminal teardown. It is
// deliberately narrower than the application-facing shutdown callback: the
// concrete entity closes over whatever identifies "the last handle" itself
// and adapts to its own public callback type there.
type ShutdownFunc func(err error, remaining int)

// Core is the embeddable started/stopped guard. Its zero value is a valid,
// unstarted core.
type Core struct {
	started atomic.Bool
	cb      atomic.Pointer[ShutdownFunc]
}

// IsStarted is safe to call from any goroutine.
func (c *Core) IsStarted() bool {
	return c.started.Load()
}

// Start wins the start race for at most one caller: it atomically flips
// started false->true and, only for the winner, stores cb. A loser never
// sees its cb stored or invoked.
func (c *Core) Start(cb ShutdownFunc) bool {
	if !c.started.CompareAndSwap(false, true) {
		return false
	}
	c.cb.Store(&cb)
	return true
}

// Stop wins the stop race for at most one caller. It does not itself invoke
// the shutdown callback — the concrete entity decides when teardown is
// complete enough to report terminal shutdown.
func (c *Core) Stop() bool {
	return c.started.CompareAndSwap(true, false)
}

// CallShutdown invokes the callback stored by the winning Start exactly
// once, regardless of how many times CallShutdown itself is called: it swaps
// the stored pointer to nil first, so only the caller that observes the
// non-nil callback gets to run it.
func (c *Core) CallShutdown(err error, remaining int) {
	if p := c.cb.Swap(nil); p != nil && *p != nil {
		(*p)(err, remaining)
	}
}
