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

// Package handleref backs every public handle (Entity, IOInterface, IOOutput)
// with a weak-reference-shaped resolver. Go only gained a generic weak
// pointer (weak.Pointer[T]) in 1.24; this module targets 1.22, so the same
// "resolve on every call, fail past teardown" contract is given by an
// explicit liveness flag flipped once by the owning object instead of by the
// garbage collector. The handle never extends the target's lifetime: it
// holds the object directly, and the object's owner is solely responsible
// for calling Expire at teardown.
package handleref

import "sync/atomic"

// Ref is the resolver shared by every handle copy pointing at one target.
// Handles carry a *Ref by value-copy; all copies observe the same liveness.
type Ref[T any] struct {
	target T
	alive  atomic.Bool
}

// New wraps target in a live Ref.
func New[T any](target T) *Ref[T] {
	r := &Ref[T]{target: target}
	r.alive.Store(true)
	return r
}

// Get resolves the reference. ok is false once Expire has been called, or
// when called through a zero-value handle whose Ref is nil.
func (r *Ref[T]) Get() (target T, ok bool) {
	if r == nil || !r.alive.Load() {
		return target, false
	}
	return r.target, true
}

// Expire flips the reference dead. Idempotent; safe to call from any thread
// exactly once per teardown, and safe to call more than once.
func (r *Ref[T]) Expire() {
	if r == nil {
		return
	}
	r.alive.Store(false)
}

// Alive reports the current liveness without resolving the target.
func (r *Ref[T]) Alive() bool {
	return r != nil && r.alive.Load()
}
