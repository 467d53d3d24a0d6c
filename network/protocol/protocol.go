/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package protocol enumerates the network dial/listen protocol strings
// ("tcp", "udp4", "unixgram", ...) understood by the core entities, and
// gives that enumeration JSON/YAML/text/viper integration.
package protocol

import (
	"math"
	"strconv"
	"strings"
)

// NetworkProtocol is a dense enumeration of the protocol strings accepted by
// net.Dial / net.Listen / net.ListenPacket.
type NetworkProtocol uint8

const (
	NetworkEmpty NetworkProtocol = iota
	NetworkUnix
	NetworkTCP
	NetworkTCP4
	NetworkTCP6
	NetworkUDP
	NetworkUDP4
	NetworkUDP6
	NetworkIP
	NetworkIP4
	NetworkIP6
	NetworkUnixGram
)

func (n NetworkProtocol) String() string {
	switch n {
	case NetworkUnix:
		return "unix"
	case NetworkTCP:
		return "tcp"
	case NetworkTCP4:
		return "tcp4"
	case NetworkTCP6:
		return "tcp6"
	case NetworkUDP:
		return "udp"
	case NetworkUDP4:
		return "udp4"
	case NetworkUDP6:
		return "udp6"
	case NetworkIP:
		return "ip"
	case NetworkIP4:
		return "ip4"
	case NetworkIP6:
		return "ip6"
	case NetworkUnixGram:
		return "unixgram"
	default:
		return ""
	}
}

// Code is an alias of String kept for symmetry with the rest of the corpus's
// enum idioms (e.g. logger/level.Level.Code).
func (n NetworkProtocol) Code() string {
	return n.String()
}

func (n NetworkProtocol) isValid() bool {
	return n >= NetworkUnix && n <= NetworkUnixGram
}

// Int returns 0 for any value outside the known protocol range.
func (n NetworkProtocol) Int() int {
	if !n.isValid() {
		return 0
	}
	return int(n)
}

func (n NetworkProtocol) Int64() int64 {
	return int64(n.Int())
}

func (n NetworkProtocol) Uint() uint {
	return uint(n.Int())
}

func (n NetworkProtocol) Uint64() uint64 {
	return uint64(n.Int())
}

// clean strips surrounding whitespace and the quoting styles the teacher's
// config loaders tend to pass through unchanged (double quotes, backticks).
func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// Parse is case-insensitive and tolerant of surrounding whitespace/quoting.
// It returns NetworkEmpty for anything it does not recognize.
func Parse(s string) NetworkProtocol {
	s = clean(s)
	if s == "" {
		return NetworkEmpty
	}

	for p := NetworkUnix; p <= NetworkUnixGram; p++ {
		if strings.EqualFold(p.String(), s) {
			return p
		}
	}

	return NetworkEmpty
}

func ParseBytes(b []byte) NetworkProtocol {
	if len(b) == 0 {
		return NetworkEmpty
	}
	return Parse(string(b))
}

// ParseInt64 returns NetworkEmpty for any value outside [1, 11].
func ParseInt64(i int64) NetworkProtocol {
	if i <= 0 || i > math.MaxUint8 {
		return NetworkEmpty
	}

	p := NetworkProtocol(i)
	if !p.isValid() {
		return NetworkEmpty
	}

	return p
}

func (n NetworkProtocol) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *NetworkProtocol) UnmarshalText(b []byte) error {
	*n = ParseBytes(b)
	return nil
}

func (n NetworkProtocol) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(n.String())), nil
}

func (n *NetworkProtocol) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		s = string(b)
	}
	*n = Parse(s)
	return nil
}

// MarshalYAML returns the protocol as a plain string so it encodes as a YAML
// scalar instead of a number.
func (n NetworkProtocol) MarshalYAML() (interface{}, error) {
	return n.String(), nil
}

func (n *NetworkProtocol) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*n = Parse(s)
	return nil
}
