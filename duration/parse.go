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

package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// splitDays looks for the package's "d" days notation at the front of s
// (e.g. "5d23h15m13s") and, if the characters before the first 'd'/'D' are
// all digits (with an optional sign), returns the equivalent time.Duration
// and the remainder of the string still to be parsed by time.ParseDuration.
// Any string without that exact prefix shape — including one that merely
// contains a 'd' elsewhere, like "invalid" — is returned unmodified.
func splitDays(s string) (time.Duration, string) {
	idx := strings.IndexAny(s, "dD")
	if idx <= 0 {
		return 0, s
	}

	numPart := s[:idx]
	for i, r := range numPart {
		if (r == '+' || r == '-') && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return 0, s
		}
	}

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, s
	}

	return time.Duration(n) * 24 * time.Hour, s[idx+1:]
}

func parseString(s string) (Duration, error) {
	s = strings.Replace(s, "\"", "", -1)
	s = strings.Replace(s, "'", "", -1)
	s = strings.ReplaceAll(s, " ", "")

	if s == "" {
		return 0, fmt.Errorf("duration: invalid duration %q", s)
	}

	days, rest := splitDays(s)

	var rem time.Duration
	if rest != "" {
		v, e := time.ParseDuration(rest)
		if e != nil {
			return 0, e
		}
		rem = v
	}

	return Duration(days + rem), nil
}

func (d *Duration) parseString(s string) error {
	if v, e := parseString(s); e != nil {
		return e
	} else {
		*d = v
		return nil
	}
}

func (d *Duration) unmarshall(val []byte) error {
	if tmp, err := ParseByte(val); err != nil {
		return err
	} else {
		*d = tmp
		return nil
	}
}
