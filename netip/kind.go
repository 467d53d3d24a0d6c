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
	sktcfg "github.com/oxenran/chops-net-ip/socket/config"
)

// EntityKind is the tagged variant the Facade dispatches on: exactly one of
// TCPAcceptorKind, TCPConnectorKind, UDPKind. The sealed isEntityKind method
// is the idiomatic Go substitute for a closed sum type — only this package's
// three variants, and types that embed one of them, satisfy the interface.
type EntityKind interface {
	isEntityKind()
}

// TCPAcceptorKind creates a TCP acceptor (listens, accepts, spawns one I/O
// handler per connection).
type TCPAcceptorKind struct {
	Config sktcfg.Server
}

func (TCPAcceptorKind) isEntityKind() {}

// TCPConnectorKind creates a TCP connector (dials, spawns one I/O handler,
// optionally reconnects on loss).
type TCPConnectorKind struct {
	Config sktcfg.Client
}

func (TCPConnectorKind) isEntityKind() {}

// UDPKind creates a UDP entity: receiver-only, sender-only, or
// unicast/multicast receiver-plus-sender, depending on which fields of
// Config are set.
type UDPKind struct {
	Config sktcfg.UDP
}

func (UDPKind) isEntityKind() {}
