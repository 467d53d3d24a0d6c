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

package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	libdur "github.com/oxenran/chops-net-ip/duration"
	libptc "github.com/oxenran/chops-net-ip/network/protocol"
)

// decodeHook composes the NetworkProtocol hook kept from the teacher's
// network/protocol package, the duration package's own ViperDecoderHook,
// and mapstructure's string-to-time.Duration hook — so "network: tcp4" and
// "reconnect_backoff: 500ms" both decode correctly regardless of which of
// the two duration types a field uses.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		libdur.ViperDecoderHook(),
		libptc.ViperDecoderHook(),
	)
}

// LoadServer decodes a TCP acceptor config from v at key, validating the
// result before returning it.
func LoadServer(v *viper.Viper, key string) (Server, error) {
	var c Server
	if err := v.UnmarshalKey(key, &c, viper.DecodeHook(decodeHook())); err != nil {
		return Server{}, err
	}
	if err := c.Validate(); err != nil {
		return Server{}, err
	}
	return c, nil
}

// LoadClient decodes a TCP connector config from v at key, validating the
// result before returning it.
func LoadClient(v *viper.Viper, key string) (Client, error) {
	var c Client
	if err := v.UnmarshalKey(key, &c, viper.DecodeHook(decodeHook())); err != nil {
		return Client{}, err
	}
	if err := c.Validate(); err != nil {
		return Client{}, err
	}
	return c, nil
}

// LoadUDP decodes a UDP entity config from v at key, validating the result
// before returning it.
func LoadUDP(v *viper.Viper, key string) (UDP, error) {
	var c UDP
	if err := v.UnmarshalKey(key, &c, viper.DecodeHook(decodeHook())); err != nil {
		return UDP{}, err
	}
	if err := c.Validate(); err != nil {
		return UDP{}, err
	}
	return c, nil
}
