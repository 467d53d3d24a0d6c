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
	"fmt"
	"reflect"
	"sync"
)

// Builder constructs the concrete EntityTarget for one EntityKind variant.
// Registered by each transport package's init() — socket/server/tcp,
// socket/client/tcp, socket/udp — the same registration idiom the kept
// errors package uses for its code-to-message table
// (errors.RegisterIdFctMessage): this package never imports theirs, they
// import this one.
type Builder func(kind EntityKind) (EntityTarget, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[reflect.Type]Builder)
)

// RegisterBuilder associates every EntityKind of sample's concrete type with
// builder. Calling it twice for the same type replaces the prior builder —
// useful for tests that swap in a fake transport.
func RegisterBuilder(sample EntityKind, builder Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reflect.TypeOf(sample)] = builder
}

// Facade owns the collection of entities created through it. The
// application constructs one Facade, asks it to create an entity of a given
// kind, then starts the returned handle.
type Facade struct {
	mu       sync.Mutex
	entities []Entity
}

// NewFacade returns an empty Facade.
func NewFacade() *Facade {
	return &Facade{}
}

// CreateEntity builds and tracks one entity for kind, dispatching to
// whichever transport package registered a Builder for kind's concrete type.
func (f *Facade) CreateEntity(kind EntityKind) (Entity, error) {
	registryMu.RLock()
	builder, ok := registry[reflect.TypeOf(kind)]
	registryMu.RUnlock()
	if !ok {
		return Entity{}, fmt.Errorf("netip: no builder registered for entity kind %T — blank-import its transport package", kind)
	}

	target, err := builder(kind)
	if err != nil {
		return Entity{}, err
	}

	e := NewEntity(target)
	f.mu.Lock()
	f.entities = append(f.entities, e)
	f.mu.Unlock()
	return e, nil
}

// Entities returns a snapshot of every entity created through this Facade,
// in creation order.
func (f *Facade) Entities() []Entity {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Entity, len(f.entities))
	copy(out, f.entities)
	return out
}

// StopAll calls Stop on every tracked entity and returns every non-nil error
// those calls report, including EntityNotStarted for an entity that is not
// running.
func (f *Facade) StopAll() []error {
	var errs []error
	for _, e := range f.Entities() {
		if err := e.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
