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

// Package tcp implements the TCP acceptor entity: listens on one address,
// accepts connections indefinitely, and spawns one internal/tcpio.Handler
// per connection. It registers itself with netip under netip.TCPAcceptorKind
// so applications never import this package directly — only blank-import it
// for the registration side effect, then go through netip.Facade.
package tcp

import (
	"context"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	satomic "github.com/oxenran/chops-net-ip/atomic"
	liberr "github.com/oxenran/chops-net-ip/errors"
	"github.com/oxenran/chops-net-ip/internal/corestate"
	"github.com/oxenran/chops-net-ip/internal/netlog"
	"github.com/oxenran/chops-net-ip/internal/tcpio"
	"github.com/oxenran/chops-net-ip/netip"
	"github.com/oxenran/chops-net-ip/socket"
	"github.com/oxenran/chops-net-ip/socket/config"
)

func init() {
	netip.RegisterBuilder(netip.TCPAcceptorKind{}, func(kind netip.EntityKind) (netip.EntityTarget, error) {
		k := kind.(netip.TCPAcceptorKind)
		if err := k.Config.Validate(); err != nil {
			return nil, err
		}
		return New(k.Config), nil
	})
}

// Acceptor is a netip.EntityTarget: a listening TCP socket plus the set of
// handlers it currently owns.
type Acceptor struct {
	cfg config.Server
	log *netlog.Logger
	core corestate.Core

	mu          sync.Mutex
	ln          net.Listener
	handlers    satomic.MapTyped[*tcpio.Handler, bool]
	lastIO      netip.IOInterface
	shutdownErr error

	onState netip.IOStateChange
	onError netip.ErrorReporter
}

// New builds an unstarted Acceptor for cfg. Logging defaults to the no-op
// logger; use SetLogger before Start to attach one.
func New(cfg config.Server) *Acceptor {
	return &Acceptor{cfg: cfg, log: netlog.Noop(), handlers: satomic.NewMapTyped[*tcpio.Handler, bool]()}
}

// handlerCount returns the number of handlers currently tracked. handlers is
// a sync.Map-backed set, which has no O(1) length — callers that need the
// count alongside a mutation already hold no other lock over it, so a Range
// is cheap enough for the acceptor's per-connection cadence.
func (a *Acceptor) handlerCount() int {
	n := 0
	a.handlers.Range(func(*tcpio.Handler, bool) bool {
		n++
		return true
	})
	return n
}

// SetLogger replaces the acceptor's logger. Not safe to call after Start.
func (a *Acceptor) SetLogger(l *netlog.Logger) { a.log = l }

func (a *Acceptor) IsStarted() bool { return a.core.IsStarted() }

// Start wins the entity's start race for at most one caller. The listener is
// opened asynchronously; a bind failure is reported through onShutdown, not
// through Start's return value, since Start never blocks on network I/O.
func (a *Acceptor) Start(onState netip.IOStateChange, onError netip.ErrorReporter, onShutdown netip.ShutdownChange) bool {
	won := a.core.Start(func(err error, remaining int) {
		a.mu.Lock()
		last := a.lastIO
		a.mu.Unlock()
		onShutdown(last, err, remaining)
	})
	if !won {
		return false
	}
	a.onState = onState
	a.onError = onError
	go a.acceptLoop()
	return true
}

// Addr returns the acceptor's bound local address, or nil before the
// listener has come up. Useful after binding to ":0" for an ephemeral port.
func (a *Acceptor) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ln == nil {
		return nil
	}
	return a.ln.Addr()
}

func (a *Acceptor) Stop() bool {
	won := a.core.Stop()
	if !won {
		return false
	}
	a.mu.Lock()
	ln := a.ln
	a.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}
	return true
}

func (a *Acceptor) acceptLoop() {
	network := a.cfg.Network.String()
	if network == "" {
		network = "tcp"
	}

	lc := net.ListenConfig{}
	if a.cfg.ReuseAddress {
		lc.Control = reuseAddrControl
	}

	ln, err := lc.Listen(context.Background(), network, a.cfg.Address)
	if err != nil {
		a.log.Errorf("tcp acceptor %s: listen failed: %v", a.cfg.Address, err)
		a.finish(liberr.ResolverError.Error(err))
		return
	}

	a.mu.Lock()
	if !a.core.IsStarted() {
		// Stop raced in before the listener was installed; close it and
		// unwind as if the accept loop had never run.
		a.mu.Unlock()
		_ = ln.Close()
		a.finish(nil)
		return
	}
	a.ln = ln
	a.mu.Unlock()

	a.log.Infof("tcp acceptor listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if filtered := socket.ErrorFilter(err); filtered == nil {
				break
			} else if ne, ok := err.(net.Error); ok && ne.Temporary() { //nolint:staticcheck
				a.log.Warnf("tcp acceptor %s: transient accept error: %v", a.cfg.Address, err)
				if a.onError != nil {
					a.onError(netip.IOInterface{}, filtered)
				}
				continue
			} else {
				a.log.Errorf("tcp acceptor %s: fatal accept error: %v", a.cfg.Address, err)
				if a.onError != nil {
					a.onError(netip.IOInterface{}, filtered)
				}
				a.finish(filtered)
				return
			}
		}
		a.spawn(conn)
	}
	a.finish(nil)
}

func (a *Acceptor) spawn(conn net.Conn) {
	h := tcpio.New(conn, a.cfg.InitReadSize(), a.log.With(logrus.Fields{"remote": conn.RemoteAddr().String()}))

	ioi, ioo, expire := netip.NewIOHandle(h)
	h.Attach(ioo, func(err error) {
		expire()
		a.handlerClosed(h, ioi, err)
	})

	a.handlers.Store(h, true)
	total := a.handlerCount()

	a.mu.Lock()
	a.lastIO = ioi
	a.mu.Unlock()

	if a.onState != nil {
		a.onState(ioi, total, true)
	}
	h.Run()
}

func (a *Acceptor) handlerClosed(h *tcpio.Handler, ioi netip.IOInterface, err error) {
	if tcpio.Reportable(err) && a.onError != nil {
		a.onError(ioi, err)
	}

	a.handlers.Delete(h)
	remaining := a.handlerCount()

	a.mu.Lock()
	stopped := !a.core.IsStarted()
	cause := a.shutdownErr
	a.mu.Unlock()

	if a.onState != nil {
		a.onState(ioi, remaining, false)
	}

	if stopped && remaining == 0 {
		a.core.CallShutdown(cause, 0)
	}
}

// finish runs exactly once per acceptLoop invocation, on whichever path ends
// it: a bind failure, a fatal accept error, or the listener closing after
// Stop. It stops the entity (a no-op if Stop already won) and either reports
// shutdown immediately, if no handler is open, or lets the last handler to
// close trigger it.
func (a *Acceptor) finish(err error) {
	a.core.Stop()

	a.mu.Lock()
	a.shutdownErr = err
	a.mu.Unlock()

	var handlers []*tcpio.Handler
	a.handlers.Range(func(h *tcpio.Handler, _ bool) bool {
		handlers = append(handlers, h)
		return true
	})
	empty := len(handlers) == 0

	if empty {
		a.core.CallShutdown(err, 0)
		return
	}
	for _, h := range handlers {
		_ = h.Stop()
	}
}
