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

// Package netlog is the structured logging backend shared by every concrete
// entity and I/O handler. The spec excludes built-in logging/metrics as an
// application-facing *feature* (Non-goals, §1) but a production module still
// needs to narrate its own state transitions; this package is that ambient
// logging, never a substitute for the ErrorReporter/ShutdownChange callbacks
// the application actually observes.
package netlog

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/oxenran/chops-net-ip/logger/level"
)

// Logger wraps a *logrus.Entry scoped to one entity or handler, pre-loaded
// with fields identifying it in every line it emits.
type Logger struct {
	entry *logrus.Entry
}

// New builds a root Logger at the given verbosity. A NilLevel disables
// output entirely by discarding everything the logger writes.
func New(lvl level.Level) *Logger {
	l := logrus.New()
	if lvl == level.NilLevel {
		l.SetOutput(io.Discard)
	}
	l.SetLevel(lvl.Logrus())
	return &Logger{entry: logrus.NewEntry(l)}
}

// Noop returns a Logger whose output is fully disabled — used where the
// application configures no logger at all.
func Noop() *Logger {
	return New(level.NilLevel)
}

// With returns a derived Logger carrying additional fields, leaving the
// receiver untouched.
func (l *Logger) With(fields logrus.Fields) *Logger {
	if l == nil {
		return Noop().With(fields)
	}
	return &Logger{entry: l.entry.WithFields(fields)}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l != nil {
		l.entry.Debugf(format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	if l != nil {
		l.entry.Infof(format, args...)
	}
}

func (l *Logger) Warnf(format string, args ...any) {
	if l != nil {
		l.entry.Warnf(format, args...)
	}
}

func (l *Logger) Errorf(format string, args ...any) {
	if l != nil {
		l.entry.Errorf(format, args...)
	}
}
