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

// Package processor drives the per-type state machines of one resolution
// run to a global fixpoint and collects the results.
//
// A run is single-threaded: Dispatch enqueues signals, RunToFixpoint drains
// the queue and alternates Detect and Resolve phases until no phase produces
// new signals, and Collect turns the final states into reports. A Processor
// is not safe for concurrent use.
package processor

import (
	"fmt"
	"log/slog"

	"dirpx.dev/capx/apis"
	"dirpx.dev/capx/config"
	"dirpx.dev/capx/debug"
	"dirpx.dev/capx/resolver"
	"dirpx.dev/capx/state"
)

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the structured logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// WithConfig sets the configuration (iteration caps in particular).
func WithConfig(cfg apis.Config) Option {
	return func(p *Processor) { p.cfg = cfg }
}

// WithDetector sets the detector used for types without an override.
func WithDetector(d apis.Detector) Option {
	return func(p *Processor) { p.detector = d }
}

// WithResolver sets the resolver. Nil keeps resolver.New().
func WithResolver(r apis.Resolver) Option {
	return func(p *Processor) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithStateLog enables recording of every applied signal in the state log.
func WithStateLog(enabled bool) Option {
	return func(p *Processor) { p.stateLog.Enabled = enabled }
}

// Processor owns the table of state machines of one run.
type Processor struct {
	cfg      apis.Config
	log      *slog.Logger
	detector apis.Detector
	resolver apis.Resolver

	machines map[apis.TypeIdentifier]state.Machine
	// order holds every known type in creation order; all iteration uses it.
	order []apis.TypeIdentifier

	queue    []apis.Signal
	rounds   int
	applied  int
	removed  bool
	fixpoint bool

	stateLog *debug.StateLog
}

// New constructs an empty processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		cfg:      config.DefaultConfig(),
		log:      slog.Default(),
		resolver: resolver.New(),
		machines: make(map[apis.TypeIdentifier]state.Machine),
		stateLog: debug.NewStateLog(false),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cfg.MaxRounds <= 0 {
		p.cfg.MaxRounds = config.DefaultMaxRounds
	}
	if p.cfg.MaxSignals <= 0 {
		p.cfg.MaxSignals = config.DefaultMaxSignals
	}
	p.log = p.log.With(slog.String("run", p.stateLog.RunID.String()))
	return p
}

// Dispatch enqueues sig. Requirement signals must name a target, except
// RetractReason which is always broadcast.
func (p *Processor) Dispatch(sig apis.Signal) {
	switch sig.Kind {
	case apis.AddRequirement, apis.RemoveRequirement:
		if !sig.IsTargeted() {
			apis.Invariant("processor.Dispatch", "%s without a target type", sig.Kind)
		}
		if !sig.Capability.Valid() {
			apis.Invariant("processor.Dispatch", "unknown capability %d", sig.Capability)
		}
	case apis.RetractReason, apis.Detect, apis.Resolve:
		sig.Target = apis.TypeIdentifier{}
	default:
		apis.Invariant("processor.Dispatch", "unknown signal kind %s", sig.Kind)
	}
	p.queue = append(p.queue, sig)
	p.fixpoint = false
}

// Request dispatches AddRequirement for every capability in caps with the
// manually added reason.
func (p *Processor) Request(t apis.TypeIdentifier, caps apis.CapabilitySet) {
	for _, c := range caps.Slice() {
		p.Dispatch(apis.AddRequirementSignal(t, c, apis.ManuallyAdded()))
	}
}

// Withdraw dispatches RemoveRequirement for every capability in caps with
// the manually added reason.
func (p *Processor) Withdraw(t apis.TypeIdentifier, caps apis.CapabilitySet) {
	for _, c := range caps.Slice() {
		p.Dispatch(apis.RemoveRequirementSignal(t, c, apis.ManuallyAdded()))
	}
}

// Override registers a fixed bundle for t. The detector is never invoked for
// t afterwards. Overrides must be registered before t is detected.
func (p *Processor) Override(t apis.TypeIdentifier, b apis.Bundle) error {
	if t.IsZero() {
		return fmt.Errorf("capx(processor): override for the zero type")
	}
	m := p.machine(t)
	switch m.Tag {
	case state.Unreasoned, state.ToBeDetected:
	default:
		return fmt.Errorf("capx(processor): override for %s registered while %s", t.Description(), m.Tag)
	}
	cp := b
	m.Ctx.Override = &cp
	return nil
}

func (p *Processor) machine(t apis.TypeIdentifier) state.Machine {
	if m, ok := p.machines[t]; ok {
		return m
	}
	m := state.New(t)
	p.machines[t] = m
	p.order = append(p.order, t)
	return m
}

func (p *Processor) env() state.Env {
	return state.Env{Dispatch: p.enqueue, Detector: p.detector, Resolver: p.resolver}
}

// enqueue is the dispatch path of signals produced inside transitions.
func (p *Processor) enqueue(sig apis.Signal) { p.queue = append(p.queue, sig) }

// RunToFixpoint applies every pending signal and alternates Detect and
// Resolve phases until no phase produces new signals. Exceeding the
// configured caps returns an error wrapping both apis.ErrInvariant and
// apis.ErrIterationLimit.
func (p *Processor) RunToFixpoint() error {
	for {
		if err := p.drain(); err != nil {
			return err
		}
		if p.sweep() {
			continue
		}
		if !p.pending() {
			p.fixpoint = true
			p.log.Debug("fixpoint reached",
				slog.Int("rounds", p.rounds),
				slog.Int("signals", p.applied),
				slog.Int("types", len(p.order)))
			return nil
		}
		if p.rounds >= p.cfg.MaxRounds {
			p.log.Warn("round limit exceeded", slog.Int("max_rounds", p.cfg.MaxRounds))
			return fmt.Errorf("%w: %w: more than %d detect/resolve rounds", apis.ErrInvariant, apis.ErrIterationLimit, p.cfg.MaxRounds)
		}
		p.rounds++
		p.phase(apis.DetectSignal())
		p.phase(apis.ResolveSignal())
	}
}

func (p *Processor) drain() error {
	for len(p.queue) > 0 {
		sig := p.queue[0]
		p.queue[0] = apis.Signal{}
		p.queue = p.queue[1:]
		if p.applied >= p.cfg.MaxSignals {
			p.log.Warn("signal limit exceeded", slog.Int("max_signals", p.cfg.MaxSignals))
			return fmt.Errorf("%w: %w: more than %d signals", apis.ErrInvariant, apis.ErrIterationLimit, p.cfg.MaxSignals)
		}
		p.applied++
		p.apply(sig)
	}
	return nil
}

func (p *Processor) apply(sig apis.Signal) {
	if sig.IsTargeted() {
		p.transition(p.machine(sig.Target), sig)
	} else {
		for _, t := range p.order {
			p.transition(p.machines[t], sig)
		}
	}
	if sig.Kind == apis.RemoveRequirement || sig.Kind == apis.RetractReason {
		p.removed = true
	}
	p.stateLog.Record(sig.String(), p.states)
}

func (p *Processor) phase(sig apis.Signal) {
	for _, t := range p.order {
		p.transition(p.machines[t], sig)
	}
	p.stateLog.Record(sig.String(), p.states)
}

func (p *Processor) transition(m state.Machine, sig apis.Signal) {
	next := state.Transition(m, sig, p.env())
	p.machines[m.Type()] = next
	if next.Tag != m.Tag {
		p.log.Debug("transition",
			slog.String("type", m.Type().Description()),
			slog.String("from", m.Tag.String()),
			slog.String("to", next.Tag.String()),
			slog.String("signal", sig.String()))
	}
}

// pending reports whether any machine still waits for a phase.
func (p *Processor) pending() bool {
	for _, t := range p.order {
		if tag := p.machines[t].Tag; tag == state.ToBeDetected || tag == state.Resolving {
			return true
		}
	}
	return false
}

func (p *Processor) states() []debug.TypeState {
	out := make([]debug.TypeState, 0, len(p.order))
	for _, t := range p.order {
		m := p.machines[t]
		out = append(out, debug.TypeState{
			Type:         t.Description(),
			State:        m.Tag.String(),
			Requirements: m.Ctx.Requirements.Snapshot(),
		})
	}
	return out
}

// Rounds returns the number of Detect+Resolve rounds run so far.
func (p *Processor) Rounds() int { return p.rounds }

// Signals returns the number of signals applied so far.
func (p *Processor) Signals() int { return p.applied }

// Log returns the state log of the run.
func (p *Processor) Log() *debug.StateLog { return p.stateLog }

// Types returns every known type in creation order.
func (p *Processor) Types() []apis.TypeIdentifier {
	return append([]apis.TypeIdentifier(nil), p.order...)
}

// State returns the current tag of t.
func (p *Processor) State(t apis.TypeIdentifier) (state.Tag, bool) {
	m, ok := p.machines[t]
	return m.Tag, ok
}

// Scan returns the diagnostic summary of t.
func (p *Processor) Scan(t apis.TypeIdentifier) (debug.ScanInformation, bool) {
	m, ok := p.machines[t]
	if !ok {
		return debug.ScanInformation{}, false
	}
	return m.Scan(), true
}
