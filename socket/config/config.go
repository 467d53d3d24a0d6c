/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package config holds the viper/mapstructure-decodable configuration
// structs for every concrete entity kind. TLS is intentionally absent: the
// core spec this module implements treats application-level protocols,
// TLS included, as a non-goal.
package config

import (
	"fmt"
	"time"

	libdur "github.com/oxenran/chops-net-ip/duration"
	libptc "github.com/oxenran/chops-net-ip/network/protocol"
)

// Server configures a TCP acceptor.
type Server struct {
	Network      libptc.NetworkProtocol `mapstructure:"network"`
	Address      string                 `mapstructure:"address"`
	ReuseAddress bool                   `mapstructure:"reuse_address"`

	// InitialReadSize is the number of bytes the TCP I/O handler requests
	// before handing the buffer to the message framer. Defaults to 2.
	InitialReadSize int `mapstructure:"initial_read_size"`
}

func (c Server) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("socket/config: server address is required")
	}
	switch c.Network {
	case libptc.NetworkTCP, libptc.NetworkTCP4, libptc.NetworkTCP6:
	default:
		return fmt.Errorf("socket/config: server network %q is not a TCP protocol", c.Network.String())
	}
	return nil
}

func (c Server) initialReadSize() int {
	if c.InitialReadSize > 0 {
		return c.InitialReadSize
	}
	return 2
}

// InitReadSize returns the configured, or default, initial TCP read size.
func (c Server) InitReadSize() int { return c.initialReadSize() }

// Client configures a TCP connector.
type Client struct {
	Network libptc.NetworkProtocol `mapstructure:"network"`
	// Addresses lists the remote endpoints tried, in order, on each connect attempt.
	Addresses []string `mapstructure:"addresses"`

	InitialReadSize int `mapstructure:"initial_read_size"`

	// Reconnect enables automatic reconnection after connection loss.
	Reconnect bool `mapstructure:"reconnect"`
	// ReconnectBackoff is the delay between reconnect attempts. Defaults to 1s.
	ReconnectBackoff libdur.Duration `mapstructure:"reconnect_backoff"`
}

func (c Client) Validate() error {
	if len(c.Addresses) == 0 {
		return fmt.Errorf("socket/config: client requires at least one address")
	}
	switch c.Network {
	case libptc.NetworkTCP, libptc.NetworkTCP4, libptc.NetworkTCP6:
	default:
		return fmt.Errorf("socket/config: client network %q is not a TCP protocol", c.Network.String())
	}
	return nil
}

func (c Client) InitReadSize() int {
	if c.InitialReadSize > 0 {
		return c.InitialReadSize
	}
	return 2
}

func (c Client) Backoff() time.Duration {
	if c.ReconnectBackoff > 0 {
		return c.ReconnectBackoff.Time()
	}
	return time.Second
}

// UDP configures a unicast/multicast UDP entity.
type UDP struct {
	Network            libptc.NetworkProtocol `mapstructure:"network"`
	LocalAddress       string                 `mapstructure:"local_address"`
	DefaultRemote      string                 `mapstructure:"default_remote_address"`
	MulticastGroup     string                 `mapstructure:"multicast_group"`
	MulticastInterface string                 `mapstructure:"multicast_interface"`

	// MaxDatagramSize bounds both outgoing sends and incoming reads.
	// Defaults to 65507, the IPv4 UDP payload ceiling.
	MaxDatagramSize int `mapstructure:"max_datagram_size"`
}

func (c UDP) Validate() error {
	if c.LocalAddress == "" && c.DefaultRemote == "" {
		return fmt.Errorf("socket/config: udp entity needs a local address, a default remote address, or both")
	}
	switch c.Network {
	case libptc.NetworkUDP, libptc.NetworkUDP4, libptc.NetworkUDP6, libptc.NetworkEmpty:
	default:
		return fmt.Errorf("socket/config: udp network %q is not a UDP protocol", c.Network.String())
	}
	return nil
}

func (c UDP) MaxSize() int {
	if c.MaxDatagramSize > 0 {
		return c.MaxDatagramSize
	}
	return 65507
}
