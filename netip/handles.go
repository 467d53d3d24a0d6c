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

// Package netip is the application-facing layer: the Facade that creates
// entities, and the three weak handle types (Entity, IOInterface, IOOutput)
// applications hold across threads without controlling the lifetime of what
// they point at. The concrete entities and I/O handlers living in
// socket/server/tcp, socket/client/tcp, and socket/udp implement the
// EntityTarget/IOTarget interfaces declared here and register a builder so
// the Facade can construct them without this package importing any of them
// back — the same registration idiom the kept errors package uses for its
// own code-to-message registry (errors.RegisterIdFctMessage).
package netip

import (
	"net"

	liberr "github.com/oxenran/chops-net-ip/errors"
	"github.com/oxenran/chops-net-ip/internal/handleref"
)

// EntityTarget is what a concrete TCP acceptor, TCP connector, or UDP entity
// must implement to be wrapped in an Entity handle.
type EntityTarget interface {
	IsStarted() bool
	// Start wins the start race for at most one caller (compare-and-set on
	// an internal atomic). Only the winner's callbacks are stored and ever
	// invoked; a losing concurrent Start's callbacks are discarded.
	Start(onState IOStateChange, onError ErrorReporter, onShutdown ShutdownChange) bool
	Stop() bool
}

// IOTarget is what a concrete TCP or UDP I/O handler must implement to be
// wrapped in an IOInterface/IOOutput pair. SendTo is meaningful for UDP
// only; a TCP handler's SendTo ignores dst and behaves like Send.
type IOTarget interface {
	IsIOStarted() bool
	Send(buf []byte) error
	SendTo(buf []byte, dst net.Addr) error
	Stop() error
	SetFramer(f MessageFrame)
	SetHandler(h MessageHandler)
	RemoteAddr() net.Addr
	QueueStats() (elementCount int, totalBytes int)
}

// Entity is a weak handle to one network endpoint (acceptor, connector, or
// UDP entity). The zero value is a handle to nothing and behaves exactly
// like an expired handle.
type Entity struct {
	ref *handleref.Ref[EntityTarget]
}

// NewEntity wraps target in a fresh, live Entity handle. Called by the
// registered per-kind builders in socket/server/tcp, socket/client/tcp, and
// socket/udp.
func NewEntity(target EntityTarget) Entity {
	return Entity{ref: handleref.New[EntityTarget](target)}
}

func (e Entity) resolve() (EntityTarget, error) {
	t, ok := e.ref.Get()
	if !ok {
		return nil, liberr.WeakReferenceExpired.Error()
	}
	return t, nil
}

func (e Entity) IsStarted() bool {
	t, ok := e.ref.Get()
	return ok && t.IsStarted()
}

// Start begins the entity's lifecycle. onShutdown is stored and invoked
// exactly once, at terminal teardown, regardless of how shutdown was
// initiated; onState and onError are handed down to the concrete entity,
// which invokes them per handler.
func (e Entity) Start(onState IOStateChange, onError ErrorReporter, onShutdown ShutdownChange) error {
	t, err := e.resolve()
	if err != nil {
		return err
	}
	shutdown := onShutdown
	if shutdown == nil {
		shutdown = func(IOInterface, error, int) {}
	}
	if !t.Start(onState, onError, shutdown) {
		return liberr.EntityAlreadyStarted.Error()
	}
	return nil
}

func (e Entity) Stop() error {
	t, err := e.resolve()
	if err != nil {
		return err
	}
	if !t.Stop() {
		return liberr.EntityNotStarted.Error()
	}
	return nil
}

// IOInterface is the weak handle to one active connection/socket, handed to
// the application through IOStateChange/ErrorReporter/ShutdownChange. It
// exposes the full control surface: install a framer and handler, send, and
// stop.
type IOInterface struct {
	ref *handleref.Ref[IOTarget]
}

// IOOutput is the restricted view of the same handler handed to
// MessageHandler so it can reply without the full IOInterface surface.
type IOOutput struct {
	ref *handleref.Ref[IOTarget]
}

// NewIOHandle wraps target in one shared reference and returns both views
// plus the expire closure the owning handler calls exactly once at its own
// teardown. Sharing one *handleref.Ref means the IOInterface the application
// retained and any IOOutput already handed to a MessageHandler expire
// together.
func NewIOHandle(target IOTarget) (IOInterface, IOOutput, func()) {
	ref := handleref.New[IOTarget](target)
	return IOInterface{ref: ref}, IOOutput{ref: ref}, ref.Expire
}

func (i IOInterface) resolve() (IOTarget, error) {
	t, ok := i.ref.Get()
	if !ok {
		return nil, liberr.WeakReferenceExpired.Error()
	}
	return t, nil
}

func (i IOInterface) IsStarted() bool {
	t, ok := i.ref.Get()
	return ok && t.IsIOStarted()
}

func (i IOInterface) Send(buf []byte) error {
	t, err := i.resolve()
	if err != nil {
		return err
	}
	return t.Send(buf)
}

func (i IOInterface) SendTo(buf []byte, dst net.Addr) error {
	t, err := i.resolve()
	if err != nil {
		return err
	}
	return t.SendTo(buf, dst)
}

func (i IOInterface) Stop() error {
	t, err := i.resolve()
	if err != nil {
		return err
	}
	return t.Stop()
}

func (i IOInterface) SetFramer(f MessageFrame) error {
	t, err := i.resolve()
	if err != nil {
		return err
	}
	t.SetFramer(f)
	return nil
}

func (i IOInterface) SetHandler(h MessageHandler) error {
	t, err := i.resolve()
	if err != nil {
		return err
	}
	t.SetHandler(h)
	return nil
}

func (i IOInterface) RemoteAddr() net.Addr {
	t, ok := i.ref.Get()
	if !ok {
		return nil
	}
	return t.RemoteAddr()
}

func (i IOInterface) QueueStats() (elementCount int, totalBytes int, err error) {
	t, err := i.resolve()
	if err != nil {
		return 0, 0, err
	}
	elementCount, totalBytes = t.QueueStats()
	return elementCount, totalBytes, nil
}

func (o IOOutput) resolve() (IOTarget, error) {
	t, ok := o.ref.Get()
	if !ok {
		return nil, liberr.WeakReferenceExpired.Error()
	}
	return t, nil
}

func (o IOOutput) Send(buf []byte) error {
	t, err := o.resolve()
	if err != nil {
		return err
	}
	return t.Send(buf)
}

func (o IOOutput) SendTo(buf []byte, dst net.Addr) error {
	t, err := o.resolve()
	if err != nil {
		return err
	}
	return t.SendTo(buf, dst)
}
