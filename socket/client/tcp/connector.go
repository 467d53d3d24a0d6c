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

// Package tcp implements the TCP connector entity: dials one of a list of
// addresses, runs a single internal/tcpio.Handler for as long as the
// connection lasts, and, if configured, reconnects after loss with a
// ReconnectBackoff between attempts. It registers under
// netip.TCPConnectorKind the same way socket/server/tcp registers under
// netip.TCPAcceptorKind.
package tcp

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	liberr "github.com/oxenran/chops-net-ip/errors"
	"github.com/oxenran/chops-net-ip/internal/corestate"
	"github.com/oxenran/chops-net-ip/internal/netlog"
	"github.com/oxenran/chops-net-ip/internal/tcpio"
	"github.com/oxenran/chops-net-ip/netip"
	"github.com/oxenran/chops-net-ip/socket/config"
)

func init() {
	netip.RegisterBuilder(netip.TCPConnectorKind{}, func(kind netip.EntityKind) (netip.EntityTarget, error) {
		k := kind.(netip.TCPConnectorKind)
		if err := k.Config.Validate(); err != nil {
			return nil, err
		}
		return New(k.Config), nil
	})
}

// dialTimeout bounds a single connect attempt to one configured address.
const dialTimeout = 5 * time.Second

// Connector is a netip.EntityTarget holding at most one live
// internal/tcpio.Handler at a time.
type Connector struct {
	cfg config.Client
	log *netlog.Logger

	core    corestate.Core
	stopCh  chan struct{}
	backoff netip.ReconnectBackoff

	mu      sync.Mutex
	handler *tcpio.Handler
	lastIO  netip.IOInterface

	onState netip.IOStateChange
	onError netip.ErrorReporter
}

// New builds an unstarted Connector for cfg, using FixedBackoff(cfg.Backoff())
// as the default reconnect delay. SetBackoff overrides it before Start.
func New(cfg config.Client) *Connector {
	return &Connector{
		cfg:     cfg,
		log:     netlog.Noop(),
		stopCh:  make(chan struct{}),
		backoff: netip.FixedBackoff(cfg.Backoff()),
	}
}

func (c *Connector) SetLogger(l *netlog.Logger) { c.log = l }

// SetBackoff replaces the reconnect timing strategy. Not safe to call after Start.
func (c *Connector) SetBackoff(b netip.ReconnectBackoff) { c.backoff = b }

func (c *Connector) IsStarted() bool { return c.core.IsStarted() }

func (c *Connector) Start(onState netip.IOStateChange, onError netip.ErrorReporter, onShutdown netip.ShutdownChange) bool {
	won := c.core.Start(func(err error, remaining int) {
		c.mu.Lock()
		last := c.lastIO
		c.mu.Unlock()
		onShutdown(last, err, remaining)
	})
	if !won {
		return false
	}
	c.onState = onState
	c.onError = onError
	go c.run()
	return true
}

func (c *Connector) Stop() bool {
	won := c.core.Stop()
	if !won {
		return false
	}
	close(c.stopCh)

	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()
	if h != nil {
		_ = h.Stop()
	}
	return true
}

func (c *Connector) run() {
	for {
		if !c.core.IsStarted() {
			c.finish(nil)
			return
		}

		conn, err := c.dialOne()
		if err != nil {
			if c.onError != nil {
				c.onError(netip.IOInterface{}, liberr.ResolverError.Error(err))
			}
			if !c.cfg.Reconnect {
				c.finish(err)
				return
			}
			if !c.sleep(c.backoff.Next()) {
				c.finish(nil)
				return
			}
			continue
		}

		err = c.runHandler(conn)

		if !c.core.IsStarted() {
			c.finish(nil)
			return
		}
		if !c.cfg.Reconnect {
			c.finish(err)
			return
		}
		if !c.sleep(c.backoff.Next()) {
			c.finish(nil)
			return
		}
	}
}

func (c *Connector) dialOne() (net.Conn, error) {
	network := c.cfg.Network.String()
	if network == "" {
		network = "tcp"
	}

	var lastErr error
	for _, addr := range c.cfg.Addresses {
		conn, err := net.DialTimeout(network, addr, dialTimeout)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("socket/client/tcp: no addresses configured")
	}
	return nil, lastErr
}

// runHandler runs one connection's handler to completion and returns the
// error that ended it (nil for a deliberate Stop).
func (c *Connector) runHandler(conn net.Conn) error {
	h := tcpio.New(conn, c.cfg.InitReadSize(), c.log.With(logrus.Fields{"remote": conn.RemoteAddr().String()}))
	ioi, ioo, expire := netip.NewIOHandle(h)

	done := make(chan error, 1)
	h.Attach(ioo, func(err error) {
		expire()
		c.mu.Lock()
		c.handler = nil
		c.mu.Unlock()
		if tcpio.Reportable(err) && c.onError != nil {
			c.onError(ioi, err)
		}
		if c.onState != nil {
			c.onState(ioi, 0, false)
		}
		done <- err
	})

	c.mu.Lock()
	c.handler = h
	c.lastIO = ioi
	c.mu.Unlock()

	if c.onState != nil {
		c.onState(ioi, 1, true)
	}
	h.Run()

	return <-done
}

func (c *Connector) sleep(d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-c.stopCh:
		return false
	}
}

func (c *Connector) finish(err error) {
	c.core.Stop()
	c.core.CallShutdown(err, 0)
}
