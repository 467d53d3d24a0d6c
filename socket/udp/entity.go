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

// Package udp implements the UDP entity: receiver-only, sender-only, or a
// unicast/multicast socket doing both, depending on which config fields are
// set. Unlike the TCP acceptor, it owns exactly one internal/udpio.Handler
// for its entire lifetime — there's one socket, not one per peer — so its
// io_state_change fires open once at Start and close once at Stop. It
// registers under netip.UDPKind the same way the TCP packages register their
// own kinds.
package udp

import (
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	liberr "github.com/oxenran/chops-net-ip/errors"
	"github.com/oxenran/chops-net-ip/internal/corestate"
	"github.com/oxenran/chops-net-ip/internal/netlog"
	"github.com/oxenran/chops-net-ip/internal/udpio"
	"github.com/oxenran/chops-net-ip/netip"
	"github.com/oxenran/chops-net-ip/socket/config"
)

func init() {
	netip.RegisterBuilder(netip.UDPKind{}, func(kind netip.EntityKind) (netip.EntityTarget, error) {
		k := kind.(netip.UDPKind)
		if err := k.Config.Validate(); err != nil {
			return nil, err
		}
		return New(k.Config), nil
	})
}

// Entity is a netip.EntityTarget wrapping exactly one UDP socket.
type Entity struct {
	cfg config.UDP
	log *netlog.Logger

	core corestate.Core

	mu      sync.Mutex
	conn    *net.UDPConn
	handler *udpio.Handler
	lastIO  netip.IOInterface

	onState netip.IOStateChange
	onError netip.ErrorReporter
}

// New builds an unstarted Entity for cfg.
func New(cfg config.UDP) *Entity {
	return &Entity{cfg: cfg, log: netlog.Noop()}
}

func (e *Entity) SetLogger(l *netlog.Logger) { e.log = l }

func (e *Entity) IsStarted() bool { return e.core.IsStarted() }

func (e *Entity) Start(onState netip.IOStateChange, onError netip.ErrorReporter, onShutdown netip.ShutdownChange) bool {
	won := e.core.Start(func(err error, remaining int) {
		e.mu.Lock()
		last := e.lastIO
		e.mu.Unlock()
		onShutdown(last, err, remaining)
	})
	if !won {
		return false
	}
	e.onState = onState
	e.onError = onError
	go e.open()
	return true
}

func (e *Entity) Stop() bool {
	won := e.core.Stop()
	if !won {
		return false
	}
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
	return true
}

func (e *Entity) network() string {
	n := e.cfg.Network.String()
	if n == "" {
		return "udp"
	}
	return n
}

func (e *Entity) listen() (*net.UDPConn, error) {
	network := e.network()

	switch {
	case e.cfg.MulticastGroup != "":
		group, err := net.ResolveUDPAddr(network, e.cfg.MulticastGroup)
		if err != nil {
			return nil, err
		}
		var iface *net.Interface
		if e.cfg.MulticastInterface != "" {
			iface, err = net.InterfaceByName(e.cfg.MulticastInterface)
			if err != nil {
				return nil, err
			}
		}
		return net.ListenMulticastUDP(network, iface, group)

	case e.cfg.LocalAddress != "":
		local, err := net.ResolveUDPAddr(network, e.cfg.LocalAddress)
		if err != nil {
			return nil, err
		}
		return net.ListenUDP(network, local)

	default:
		// Sender-only: bind an ephemeral local port so Send/SendTo has a
		// socket to write from, and still accept any reply datagrams.
		return net.ListenUDP(network, nil)
	}
}

func (e *Entity) open() {
	conn, err := e.listen()
	if err != nil {
		e.log.Errorf("udp entity: listen failed: %v", err)
		e.finish(liberr.ResolverError.Error(err))
		return
	}

	e.mu.Lock()
	if !e.core.IsStarted() {
		e.mu.Unlock()
		_ = conn.Close()
		e.finish(nil)
		return
	}
	e.conn = conn
	e.mu.Unlock()

	var defaultRemote *net.UDPAddr
	if e.cfg.DefaultRemote != "" {
		defaultRemote, err = net.ResolveUDPAddr(e.network(), e.cfg.DefaultRemote)
		if err != nil {
			e.log.Errorf("udp entity: resolving default remote failed: %v", err)
			_ = conn.Close()
			e.finish(liberr.ResolverError.Error(err))
			return
		}
	}

	// ioi is captured by the write-error callback below, so it's declared
	// before the handler that needs it and filled in once NewIOHandle runs.
	var ioi netip.IOInterface
	h := udpio.New(conn, defaultRemote, e.cfg.MaxSize(), e.log, func(err error) {
		if e.onError != nil {
			e.onError(ioi, err)
		}
	})
	ioi, ioo, expire := netip.NewIOHandle(h)
	h.Attach(ioo)
	h.Start()

	e.mu.Lock()
	e.handler = h
	e.lastIO = ioi
	e.mu.Unlock()

	if e.onState != nil {
		e.onState(ioi, 1, true)
	}

	eg := new(errgroup.Group)
	eg.Go(h.ReadLoop)
	readErr := eg.Wait()

	expire()
	if e.onState != nil {
		e.onState(ioi, 0, false)
	}
	e.finish(readErr)
}

func (e *Entity) finish(err error) {
	e.core.Stop()
	e.core.CallShutdown(err, 0)
}
