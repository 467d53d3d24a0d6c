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

// Package udpio is the UDP I/O handler used by socket/udp.Entity. Unlike TCP,
// a datagram is always one complete message — there is no framer, no
// accumulation buffer, and no dispatch queue: each ReadFromUDP is handed
// straight to the MessageHandler, in the order it arrived.
package udpio

import (
	"net"
	"sync"

	liberr "github.com/oxenran/chops-net-ip/errors"
	"github.com/oxenran/chops-net-ip/internal/iobase"
	"github.com/oxenran/chops-net-ip/internal/netlog"
	"github.com/oxenran/chops-net-ip/netip"
	"github.com/oxenran/chops-net-ip/socket"
)

// Handler is one UDP socket's read/write engine. It implements netip.IOTarget.
type Handler struct {
	conn          *net.UDPConn
	defaultRemote *net.UDPAddr
	maxSize       int
	log           *netlog.Logger
	base          iobase.Base

	// onWriteErr reports a failed per-datagram write. A send failure never
	// tears the socket down — a different destination may still be
	// reachable — so it flows out exactly like any other transient error.
	onWriteErr func(err error)

	mu      sync.Mutex
	handler netip.MessageHandler

	out netip.IOOutput
}

// New wraps conn. defaultRemote may be nil (receiver-only or always-reply
// entities that address every send explicitly via SendTo). onWriteErr may be
// nil to discard write errors beyond the log line.
func New(conn *net.UDPConn, defaultRemote *net.UDPAddr, maxSize int, log *netlog.Logger, onWriteErr func(error)) *Handler {
	if log == nil {
		log = netlog.Noop()
	}
	return &Handler{conn: conn, defaultRemote: defaultRemote, maxSize: maxSize, log: log, onWriteErr: onWriteErr}
}

func (h *Handler) Attach(out netip.IOOutput) { h.out = out }

func (h *Handler) IsIOStarted() bool { return h.base.IsIOStarted() }

// SetFramer is a no-op: UDP has nothing to frame. Present only so Handler
// satisfies netip.IOTarget; an application that calls it is misusing the
// handle, not erring, so it's silently accepted.
func (h *Handler) SetFramer(netip.MessageFrame) {}

func (h *Handler) SetHandler(m netip.MessageHandler) {
	h.mu.Lock()
	h.handler = m
	h.mu.Unlock()
}

// RemoteAddr returns the configured default remote, or nil for a
// receiver-only entity with none.
func (h *Handler) RemoteAddr() net.Addr {
	if h.defaultRemote == nil {
		return nil
	}
	return h.defaultRemote
}

func (h *Handler) QueueStats() (elementCount int, totalBytes int) {
	s := h.base.Stats()
	return s.ElementCount, s.TotalBytes
}

func (h *Handler) Send(buf []byte) error {
	return h.sendTo(buf, h.defaultRemote)
}

func (h *Handler) SendTo(buf []byte, dst net.Addr) error {
	if dst == nil {
		return h.sendTo(buf, h.defaultRemote)
	}
	udst, ok := dst.(*net.UDPAddr)
	if !ok {
		return liberr.UnexpectedNetworkError.Error()
	}
	return h.sendTo(buf, udst)
}

func (h *Handler) sendTo(buf []byte, dst *net.UDPAddr) error {
	if !h.base.IsIOStarted() {
		return liberr.IOHandlerNotStarted.Error()
	}
	if dst == nil {
		return liberr.UnexpectedNetworkError.Error()
	}
	if len(buf) > h.maxSize {
		return liberr.UDPMaxBufSizeExceeded.Error()
	}
	if h.base.StartWriteSetup(buf, dst) {
		go h.writeLoop(iobase.Element{Buffer: buf, Endpoint: dst})
	}
	return nil
}

func (h *Handler) writeLoop(first iobase.Element) {
	e := first
	for {
		if _, err := h.conn.WriteToUDP(e.Buffer, e.Endpoint); err != nil {
			// One bad send doesn't take the socket down — the next
			// datagram may go to a different, reachable peer.
			h.log.Warnf("udp write to %s failed: %v", e.Endpoint, err)
			if h.onWriteErr != nil {
				h.onWriteErr(err)
			}
		}
		next, ok := h.base.GetNextElement()
		if !ok {
			return
		}
		e = next
	}
}

// Stop closes the underlying socket, which unblocks ReadLoop with an error
// ReadLoop treats as a clean stop.
func (h *Handler) Stop() error {
	if !h.base.SetIOStopped() {
		return liberr.IOHandlerNotStarted.Error()
	}
	_ = h.conn.Close()
	return nil
}

// Start marks the handler io_started. Call before handing ReadLoop to the
// errgroup so a Send racing the reader's first iteration never sees it as
// not-yet-started.
func (h *Handler) Start() { h.base.SetIOStarted() }

// ReadLoop runs until the socket closes or the message handler requests a
// stop. It is the single goroutine socket/udp.Entity registers with its
// errgroup.
func (h *Handler) ReadLoop() error {
	buf := make([]byte, h.maxSize)

	for h.base.IsIOStarted() {
		n, addr, err := h.conn.ReadFromUDP(buf)
		if err != nil {
			h.base.SetIOStopped()
			if filtered := socket.ErrorFilter(err); filtered == nil {
				return nil
			}
			return err
		}

		msg := make([]byte, n)
		copy(msg, buf[:n])

		h.mu.Lock()
		handler := h.handler
		h.mu.Unlock()
		if handler == nil {
			continue
		}
		if !handler(msg, h.out, addr) {
			h.base.SetIOStopped()
			_ = h.conn.Close()
			return liberr.MessageHandlerTerminated.Error()
		}
	}
	return nil
}
