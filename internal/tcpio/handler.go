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

// Package tcpio is the TCP I/O handler shared by socket/server/tcp and
// socket/client/tcp: a spawned connection looks identical whether it came
// from an Accept or a Dial, so the framing/read/write/dispatch machinery
// lives here once and both transport packages wrap it with their own
// netip.EntityTarget lifecycle around it.
package tcpio

import (
	"io"
	"net"
	"sync"
	"sync/atomic"

	liberr "github.com/oxenran/chops-net-ip/errors"
	"github.com/oxenran/chops-net-ip/internal/iobase"
	"github.com/oxenran/chops-net-ip/internal/netlog"
	"github.com/oxenran/chops-net-ip/internal/waitqueue"
	"github.com/oxenran/chops-net-ip/netip"
	"github.com/oxenran/chops-net-ip/socket"
)

// dispatchQueueLen bounds how many framed-but-undelivered messages a read
// loop may get ahead of its dispatcher by before Push blocks. Keeps a fast
// reader from piling up unbounded memory against a slow message_handler.
const dispatchQueueLen = 64

// Handler is one connection's read/write/dispatch engine. It implements
// netip.IOTarget; the owning acceptor/connector wraps it in a
// netip.NewIOHandle and never touches it directly again.
type Handler struct {
	conn net.Conn
	log  *netlog.Logger
	base iobase.Base

	initialReadSize int

	mu      sync.Mutex
	framer  netip.MessageFrame
	handler netip.MessageHandler

	out netip.IOOutput

	msgs      *waitqueue.Queue[[]byte]
	closeOnce sync.Once
	closed    atomic.Bool

	// onClosed is invoked exactly once, from the first goroutine (reader,
	// writer, or dispatcher) to observe a terminal condition. err is nil for
	// a deliberate local Stop, non-nil for every other teardown cause.
	onClosed func(err error)
}

// New wraps conn. initialReadSize <= 0 falls back to 2 (enough for a
// length-prefix framer to get started).
func New(conn net.Conn, initialReadSize int, log *netlog.Logger) *Handler {
	if initialReadSize <= 0 {
		initialReadSize = 2
	}
	if log == nil {
		log = netlog.Noop()
	}
	return &Handler{
		conn:            conn,
		log:             log,
		initialReadSize: initialReadSize,
		msgs:            waitqueue.New[[]byte](dispatchQueueLen),
	}
}

// Attach wires the handler to the IOOutput half of its own handle and the
// callback the owning entity uses to learn the handler has torn down. Must
// be called before Run.
func (h *Handler) Attach(out netip.IOOutput, onClosed func(err error)) {
	h.out = out
	h.onClosed = onClosed
}

// Run marks the handler started and launches its reader and dispatcher
// goroutines. The writer goroutine is only ever started on demand, by the
// first Send/SendTo that wins the write race (see iobase.Base).
func (h *Handler) Run() {
	h.base.SetIOStarted()
	go h.dispatchLoop()
	go h.readLoop()
}

func (h *Handler) IsIOStarted() bool { return h.base.IsIOStarted() }

func (h *Handler) SetFramer(f netip.MessageFrame) {
	h.mu.Lock()
	h.framer = f
	h.mu.Unlock()
}

func (h *Handler) SetHandler(m netip.MessageHandler) {
	h.mu.Lock()
	h.handler = m
	h.mu.Unlock()
}

func (h *Handler) RemoteAddr() net.Addr { return h.conn.RemoteAddr() }

func (h *Handler) QueueStats() (elementCount int, totalBytes int) {
	s := h.base.Stats()
	return s.ElementCount, s.TotalBytes
}

// Send enqueues buf for write, starting the writer goroutine if none is
// currently in flight.
func (h *Handler) Send(buf []byte) error {
	if !h.base.IsIOStarted() {
		return liberr.IOHandlerNotStarted.Error()
	}
	if h.base.StartWriteSetup(buf, nil) {
		go h.writeLoop(iobase.Element{Buffer: buf})
	}
	return nil
}

// SendTo ignores dst: a TCP connection has exactly one peer.
func (h *Handler) SendTo(buf []byte, _ net.Addr) error {
	return h.Send(buf)
}

// Stop tears the handler down deliberately; onClosed observes a nil error.
func (h *Handler) Stop() error {
	if !h.base.IsIOStarted() {
		return liberr.IOHandlerNotStarted.Error()
	}
	h.teardown(nil)
	return nil
}

func (h *Handler) writeLoop(first iobase.Element) {
	e := first
	for {
		if _, err := h.conn.Write(e.Buffer); err != nil {
			if filtered := socket.ErrorFilter(err); filtered != nil {
				h.teardown(filtered)
			}
			return
		}
		next, ok := h.base.GetNextElement()
		if !ok {
			return
		}
		e = next
	}
}

func (h *Handler) readLoop() {
	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)
	needed := h.initialReadSize

	for h.base.IsIOStarted() {
		for len(buf) < needed {
			n, err := h.conn.Read(tmp)
			if n > 0 {
				buf = append(buf, tmp[:n]...)
			}
			if err != nil {
				h.onReadErr(err)
				return
			}
		}

		h.mu.Lock()
		framer := h.framer
		h.mu.Unlock()
		if framer == nil {
			h.teardown(liberr.TCPFramerError.Error())
			return
		}

		more := framer(buf)
		if more > 0 {
			needed = len(buf) + more
			continue
		}

		msg := buf
		buf = make([]byte, 0, 4096)
		needed = h.initialReadSize

		if !h.msgs.Push(msg) {
			return
		}
	}
}

func (h *Handler) onReadErr(err error) {
	if err == io.EOF {
		h.teardown(liberr.ConnectionClosedByPeer.Error())
		return
	}
	if filtered := socket.ErrorFilter(err); filtered != nil {
		h.teardown(filtered)
	}
}

func (h *Handler) dispatchLoop() {
	for {
		msg, ok := h.msgs.Pop()
		if !ok {
			return
		}

		h.mu.Lock()
		handler := h.handler
		h.mu.Unlock()
		if handler == nil {
			continue
		}

		if !handler(msg, h.out, h.conn.RemoteAddr()) {
			h.teardown(liberr.MessageHandlerTerminated.Error())
			return
		}
	}
}

// teardown runs exactly once regardless of which goroutine (reader, writer,
// dispatcher, or an explicit Stop) calls it first.
func (h *Handler) teardown(err error) {
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		h.base.SetIOStopped()
		h.msgs.Close()
		_ = h.conn.Close()
		h.log.Debugf("tcp handler %s closed: %v", h.conn.RemoteAddr(), err)
		if h.onClosed != nil {
			h.onClosed(err)
		}
	})
}

// Reportable distinguishes network-fault errors, which flow out through
// ErrorReporter, from the two deliberate/application-initiated teardown
// causes (a local Stop and a MessageHandler returning false), which don't —
// those aren't failures, just a decision to stop.
func Reportable(err error) bool {
	if err == nil {
		return false
	}
	e, ok := err.(liberr.Error)
	if !ok {
		return true
	}
	return !e.IsCode(liberr.MessageHandlerTerminated)
}
