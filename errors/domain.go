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

package errors

// Domain error codes for the async IP networking core. Numbered from a high
// base to stay clear of any caller-registered HTTP-like codes.
const (
	MessageHandlerTerminated CodeError = iota + 9000
	WeakReferenceExpired
	EntityNotStarted
	EntityAlreadyStarted
	IOHandlerNotStarted
	IOHandlerAlreadyStarted
	UDPMaxBufSizeExceeded
	TCPFramerError
	ConnectionClosedByPeer
	ConnectionClosedLocally
	ResolverError
	EndpointAlreadyInUse
	UnexpectedNetworkError
)

func init() {
	RegisterIdFctMessage(MessageHandlerTerminated, domainMessage)
}

// domainMessage supplies the human-readable text for every domain code
// registered above. It is installed once, starting at MessageHandlerTerminated,
// and covers every code up to UnexpectedNetworkError.
func domainMessage(code CodeError) string {
	switch code {
	case MessageHandlerTerminated:
		return "message handler requested the handler to stop"
	case WeakReferenceExpired:
		return "handle no longer references a live object"
	case EntityNotStarted:
		return "entity is not started"
	case EntityAlreadyStarted:
		return "entity is already started"
	case IOHandlerNotStarted:
		return "I/O handler is not started"
	case IOHandlerAlreadyStarted:
		return "I/O handler is already started"
	case UDPMaxBufSizeExceeded:
		return "datagram exceeds the configured maximum size"
	case TCPFramerError:
		return "message framer rejected the accumulated bytes"
	case ConnectionClosedByPeer:
		return "connection closed by peer"
	case ConnectionClosedLocally:
		return "connection closed locally"
	case ResolverError:
		return "endpoint resolution failed"
	case EndpointAlreadyInUse:
		return "endpoint already in use"
	case UnexpectedNetworkError:
		return "unexpected network error"
	default:
		return UnknownMessage
	}
}
