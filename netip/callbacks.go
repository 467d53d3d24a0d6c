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

package netip

import (
	"net"
	"time"
)

// IOStateChange is invoked once when a connection/socket opens
// (opened=true), with the total number of handlers the owning entity has
// open at that instant, and once when it closes (opened=false). For a given
// handler, the open call happens strictly before any MessageHandler
// invocation and the close call strictly after the last one.
type IOStateChange func(io IOInterface, totalHandlers int, opened bool)

// ErrorReporter delivers a transient, non-terminal network error for one
// handler. It never fires for usage errors (those return synchronously) and
// never fires for the terminal shutdown notification (that's
// ShutdownChange).
type ErrorReporter func(io IOInterface, err error)

// ShutdownChange is the single terminal notification per entity lifetime,
// carrying the final error (nil on a clean stop) and the number of handlers
// still open at the moment shutdown is reported (always 0 by the time this
// fires, per the spec's invariant that every handler is torn down before the
// entity reports stopped).
type ShutdownChange func(io IOInterface, err error, totalHandlersRemaining int)

// MessageFrame is the TCP-only pure function of the currently accumulated,
// readable bytes. Returning 0 means a complete message is present in
// readable; returning N>0 asks the I/O handler to read at least N more bytes
// before calling MessageFrame again.
type MessageFrame func(readable []byte) int

// MessageHandler receives one complete message. Returning false requests a
// graceful stop of the handler that delivered it.
type MessageHandler func(message []byte, out IOOutput, source net.Addr) bool

// ReconnectBackoff is the one-method extension point for TCP connector
// reconnect timing. FixedBackoff is the built-in default; callers may supply
// any other implementation (e.g. exponential).
type ReconnectBackoff interface {
	Next() time.Duration
}

// FixedBackoff always waits the same interval between reconnect attempts.
type FixedBackoff time.Duration

func (f FixedBackoff) Next() time.Duration {
	return time.Duration(f)
}
