/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package registry

import (
	"errors"
	"reflect"
	"slices"
	"sync"

	"dirpx.dev/capx/apis"
	"dirpx.dev/capx/config"
	uref "dirpx.dev/capx/utils/reflect"
)

var (
	// ErrZeroType is returned when the zero TypeIdentifier is provided.
	ErrZeroType = errors.New("capx(registry): zero type identifier provided")
	// ErrEmptyBundle is returned when a bundle provides nothing.
	ErrEmptyBundle = errors.New("capx(registry): empty bundle provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different bundle.
	ErrConflictingRegistration = errors.New("capx(registry): conflicting type registration")
)

// New constructs a Registry. cfg is used to identify reflect types in
// RegisterType and LookupType.
func New(cfg apis.Config) *Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &Registry{cfg: cfg}
}

var _ apis.Registry = (*Registry)(nil)

// Registry holds manually supplied bundles, backed by sync.Map.
type Registry struct {
	// cfg is the configuration used for type identification.
	cfg apis.Config
	// mu guards writes, order and count.
	mu sync.Mutex
	// m maps apis.TypeIdentifier to apis.Bundle.
	m sync.Map
	// order holds registered types in registration order.
	order []apis.TypeIdentifier
}

// Register associates a fixed bundle with t.
// Re-registering a bundle equal by value is a no-op; any other bundle for a
// registered type fails with ErrConflictingRegistration.
func (r *Registry) Register(t apis.TypeIdentifier, b apis.Bundle) error {
	if t.IsZero() {
		return ErrZeroType
	}
	if b.IsZero() {
		return ErrEmptyBundle
	}

	// Fast read path.
	if old, ok := r.m.Load(t); ok {
		return sameOrConflict(old.(apis.Bundle), b)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(t); ok {
		return sameOrConflict(old.(apis.Bundle), b)
	}

	r.m.Store(t, cloneBundle(b))
	r.order = append(r.order, t)
	return nil
}

// RegisterType identifies rt and registers b for it.
func (r *Registry) RegisterType(rt reflect.Type, b apis.Bundle) error {
	t, err := uref.Identify(rt, r.cfg)
	if err != nil {
		return err
	}
	return r.Register(t, b)
}

// Lookup returns the bundle registered for t.
func (r *Registry) Lookup(t apis.TypeIdentifier) (apis.Bundle, bool) {
	if t.IsZero() {
		return apis.Bundle{}, false
	}
	if v, ok := r.m.Load(t); ok {
		return cloneBundle(v.(apis.Bundle)), true
	}
	return apis.Bundle{}, false
}

// LookupType identifies rt and returns its bundle.
func (r *Registry) LookupType(rt reflect.Type) (apis.Bundle, bool) {
	t, err := uref.Identify(rt, r.cfg)
	if err != nil {
		return apis.Bundle{}, false
	}
	return r.Lookup(t)
}

// Entries returns a snapshot ordered by registration.
func (r *Registry) Entries() []apis.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]apis.Entry, 0, len(r.order))
	for _, t := range r.order {
		v, _ := r.m.Load(t)
		entries = append(entries, apis.Entry{Type: t, Bundle: cloneBundle(v.(apis.Bundle))})
	}
	return entries
}

// Count returns the number of registered entries.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Reset clears all registered entries.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.order = nil
}

// sameOrConflict compares bundles by value. Impl payloads are compared with
// reflect.DeepEqual, so distinct non-nil funcs always conflict.
func sameOrConflict(old, b apis.Bundle) error {
	if sameCandidate(old.Serializer, b.Serializer) &&
		sameCandidate(old.Deserializer, b.Deserializer) &&
		slices.Equal(old.Supertypes, b.Supertypes) {
		return nil
	}
	return ErrConflictingRegistration
}

func sameCandidate[C any](a, b *C) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return reflect.DeepEqual(*a, *b)
}

func cloneBundle(b apis.Bundle) apis.Bundle {
	b.Supertypes = slices.Clone(b.Supertypes)
	return b
}
