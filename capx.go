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

package capx

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/capx/apis"
	"dirpx.dev/capx/builder"
	"dirpx.dev/capx/config"
	"dirpx.dev/capx/debug"
	"dirpx.dev/capx/processor"
	uref "dirpx.dev/capx/utils/reflect"
)

// init initializes the global state.
func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New(), log: slog.Default()}
	rebuild(s, s)
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("capx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("capx: builder returned nil resolver")
	// ErrNilDetector is returned when a builder returns a nil detector.
	ErrNilDetector = errors.New("capx: builder returned nil detector")
	// ErrZeroRequest is returned when a request names no type.
	ErrZeroRequest = errors.New("capx: request without a type")
)

// Request asks for a set of capabilities of one type.
type Request struct {
	Type         apis.TypeIdentifier
	Capabilities apis.CapabilitySet
}

// RequestType identifies rt with the global configuration and requests caps.
func RequestType(rt reflect.Type, caps apis.CapabilitySet) (Request, error) {
	t, err := uref.Identify(rt, st.Load().cfg)
	if err != nil {
		return Request{}, err
	}
	return Request{Type: t, Capabilities: caps}, nil
}

// RequestOf is RequestType for the type argument T.
func RequestOf[T any](caps apis.CapabilitySet) (Request, error) {
	return RequestType(reflect.TypeOf((*T)(nil)).Elem(), caps)
}

// Result is the outcome of one resolution run.
type Result struct {
	// Reports holds one report per reasoned type in discovery order.
	Reports []processor.Report
	// Definitions holds the definitions of all resolved types.
	Definitions []apis.Definition
	// Rounds is the number of detect/resolve rounds the run needed.
	Rounds int
	// Log is the state log of the run. It records steps only when the
	// global logger has debug output enabled.
	Log *debug.StateLog
}

// Definition returns the definition of t.
func (r *Result) Definition(t apis.TypeIdentifier) (apis.Definition, bool) {
	for _, d := range r.Definitions {
		if d.Type == t {
			return d, true
		}
	}
	return apis.Definition{}, false
}

// Resolve runs one resolution over the current global snapshot. Every
// registry entry is applied as a manual override. When some types cannot be
// detected, the partial result is returned with a *processor.CollectionError.
func Resolve(requests ...Request) (*Result, error) {
	s := st.Load()
	p := processor.New(
		processor.WithConfig(s.cfg),
		processor.WithDetector(s.det),
		processor.WithResolver(s.res),
		processor.WithLogger(s.log),
		processor.WithStateLog(s.log.Enabled(context.Background(), slog.LevelDebug)),
	)
	for _, e := range s.reg.Entries() {
		if err := p.Override(e.Type, e.Bundle); err != nil {
			return nil, err
		}
	}
	for _, r := range requests {
		if r.Type.IsZero() {
			return nil, ErrZeroRequest
		}
		p.Request(r.Type, r.Capabilities)
	}
	if err := p.RunToFixpoint(); err != nil {
		return nil, err
	}
	reports, err := p.Collect()
	return &Result{
		Reports:     reports,
		Definitions: processor.Definitions(reports),
		Rounds:      p.Rounds(),
		Log:         p.Log(),
	}, err
}

// Override registers a fixed bundle for t in the global registry.
func Override(t apis.TypeIdentifier, b apis.Bundle) error {
	return st.Load().reg.Register(t, b)
}

// OverrideType identifies rt with the global configuration and registers b.
func OverrideType(rt reflect.Type, b apis.Bundle) error {
	s := st.Load()
	t, err := uref.Identify(rt, s.cfg)
	if err != nil {
		return err
	}
	return s.reg.Register(t, b)
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced. Non-nil reg, res and det are
// pinned.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, det apis.Detector, bld apis.Builder) {
	swap(func(next *state) {
		if cfg != nil {
			next.cfg = *cfg
		}
		next.ext = ext
		if bld != nil {
			next.bld = bld
		}
		next.preg, next.pres, next.pdet = reg != nil, res != nil, det != nil
		if reg != nil {
			next.reg = reg
		}
		if res != nil {
			next.res = res
		}
		if det != nil {
			next.det = det
		}
	})
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration and rebuilds unpinned layers.
func SetConfig(cfg apis.Config) {
	swap(func(next *state) { next.cfg = cfg })
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets and pins the global registry.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	swap(func(next *state) { next.reg, next.preg = reg, true })
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets and pins the global resolver.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	swap(func(next *state) { next.res, next.pres = res, true })
}

// Detector returns the global detector.
func Detector() apis.Detector {
	return st.Load().det
}

// SetDetector sets and pins the global detector.
func SetDetector(det apis.Detector) {
	if det == nil {
		return
	}
	swap(func(next *state) { next.det, next.pdet = det, true })
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds unpinned layers with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	swap(func(next *state) { next.bld = b })
}

// SetExt replaces the extension value and rebuilds unpinned layers.
func SetExt[T any](ext T) {
	swap(func(next *state) { next.ext = ext })
}

// ExtAs returns the global extension value as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// SetLogger sets the logger used by Resolve. Nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	buildMu.Lock()
	defer buildMu.Unlock()
	next := *st.Load()
	next.log = l
	st.Store(&next)
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool { return st.Load().preg }

// UnpinRegistry lets the builder rebuild the registry again.
func UnpinRegistry() { swap(func(next *state) { next.preg = false }) }

// IsResolverPinned returns whether the global resolver is pinned.
func IsResolverPinned() bool { return st.Load().pres }

// UnpinResolver lets the builder rebuild the resolver again.
func UnpinResolver() { swap(func(next *state) { next.pres = false }) }

// IsDetectorPinned returns whether the global detector is pinned.
func IsDetectorPinned() bool { return st.Load().pdet }

// UnpinDetector lets the builder rebuild the detector again.
func UnpinDetector() { swap(func(next *state) { next.pdet = false }) }

// swap derives a new snapshot from the current one, rebuilds its unpinned
// layers and publishes it.
func swap(mutate func(next *state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	mutate(&next)
	rebuild(&next, old)
	st.Store(&next)
}

// rebuild constructs every unpinned layer of next with its builder,
// migrating from old.
func rebuild(next, old *state) {
	b := next.bld
	if !next.preg {
		next.reg = b.BuildRegistry(next.cfg, old.reg, next.ext)
	}
	if !next.pres {
		next.res = b.BuildResolver(next.cfg, old.res, next.ext)
	}
	if !next.pdet {
		next.det = b.BuildDetector(next.cfg, b.BuildDisambiguator(next.cfg, next.ext), next.ext)
	}

	if next.reg == nil {
		panic(ErrNilRegistry)
	}
	if next.res == nil {
		panic(ErrNilResolver)
	}
	if next.det == nil {
		panic(ErrNilDetector)
	}
}

// buildMu serializes writers so partially-built snapshots are never published.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable once published via st.Store; writers create a new state and
// swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the extension value passed to the builder.
	ext any
	// reg holds manual overrides.
	reg apis.Registry
	// res propagates requirements.
	res apis.Resolver
	// det detects candidate bundles.
	det apis.Detector
	// bld constructs unpinned layers.
	bld apis.Builder
	// log is the logger of resolution runs.
	log *slog.Logger
	// preg, pres and pdet mark pinned layers.
	preg, pres, pdet bool
}
