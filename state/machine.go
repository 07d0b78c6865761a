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

package state

import (
	"dirpx.dev/capx/apis"
	"dirpx.dev/capx/debug"
	"dirpx.dev/capx/requirements"
)

// Env supplies the collaborators a transition may call.
type Env struct {
	// Dispatch enqueues a signal produced by the transition.
	Dispatch func(apis.Signal)
	// Detector is invoked for types without an override.
	Detector apis.Detector
	// Resolver computes downstream requirements of a detected bundle.
	Resolver apis.Resolver
}

// Machine is a state tag paired with the context it owns.
type Machine struct {
	Tag Tag
	Ctx *Context
}

// New returns an Unreasoned machine owning a fresh context for t.
func New(t apis.TypeIdentifier) Machine {
	return Machine{Tag: Unreasoned, Ctx: NewContext(t)}
}

// Type returns the machine's type.
func (m Machine) Type() apis.TypeIdentifier { return m.Ctx.Type }

// Transition applies sig to m and returns the machine with its next tag.
//
// Requirement changes targeted at another type are ignored, as are phase
// signals that do not apply to the current tag.
func Transition(m Machine, sig apis.Signal, env Env) Machine {
	var next Machine
	switch sig.Kind {
	case apis.AddRequirement, apis.RemoveRequirement, apis.RetractReason:
		if sig.IsTargeted() && sig.Target != m.Ctx.Type {
			return m
		}
		next = changeRequirements(m, applyChange(m.Ctx, sig), env)
	case apis.Detect:
		next = detect(m, env)
	case apis.Resolve:
		next = resolve(m, env)
	default:
		apis.Invariant("state.Transition", "unknown signal kind %s", sig.Kind)
	}
	if next.Tag != m.Tag && sig.Kind != apis.Detect {
		m.Ctx.Trail.Transition(m.Tag.String(), next.Tag.String(), sig.String())
	}
	return next
}

func applyChange(ctx *Context, sig apis.Signal) requirements.Change {
	switch sig.Kind {
	case apis.AddRequirement:
		return ctx.Requirements.Add(sig.Capability, sig.Reason)
	case apis.RemoveRequirement:
		return ctx.Requirements.Remove(sig.Capability, sig.Reason)
	default:
		return ctx.Requirements.RemoveAll(sig.Reason)
	}
}

func changeRequirements(m Machine, change requirements.Change, env Env) Machine {
	if change == requirements.Unchanged {
		return m
	}
	switch m.Tag {
	case Unreasoned:
		// Any change from the empty set makes the type reasoned.
		return m.to(ToBeDetected)
	case ToBeDetected:
		if change == requirements.Unreasoned {
			return m.to(Unreasoned)
		}
		return m
	case Resolving:
		m.Ctx.reset()
		if change == requirements.Unreasoned {
			return m.to(Unreasoned)
		}
		return m.to(ToBeDetected)
	case Resolved:
		// Everything this type pushed downstream is now stale.
		env.Dispatch(apis.RetractReasonSignal(apis.BecauseOf(m.Ctx.Type)))
		m.Ctx.reset()
		if change == requirements.Unreasoned {
			return m.to(Unreasoned)
		}
		return m.to(ToBeDetected)
	case Undetectable:
		m.Ctx.reset()
		if change == requirements.Unreasoned {
			return m.to(Unreasoned)
		}
		return m.to(ToBeDetected)
	default:
		apis.Invariant("state.changeRequirements", "%s: requirement change while %s", m.Ctx.Type.Description(), m.Tag)
		return m
	}
}

func detect(m Machine, env Env) Machine {
	if m.Tag != ToBeDetected {
		return m
	}
	ctx := m.Ctx
	ctx.Trail.Transition(ToBeDetected.String(), Detecting.String(), apis.Detect.String())
	finish := func(tag Tag) Machine {
		ctx.Trail.Transition(Detecting.String(), tag.String(), apis.Detect.String())
		return Machine{Tag: tag, Ctx: ctx}
	}
	required := ctx.Requirements.Active()

	if ctx.Override != nil {
		ctx.Trail.Note("using manually configured definition")
		b := *ctx.Override
		ctx.Detected = &b
		return finish(Resolving)
	}
	if env.Detector == nil {
		ctx.Failure = apis.Undetectable(ctx.Type, "no detector configured")
		return finish(Undetectable)
	}

	b, err := env.Detector.Detect(ctx.Type, required, &ctx.Trail)
	if err == nil && !b.Supports(required) {
		err = apis.Undetectable(ctx.Type, "detector returned a result without %s", required.Primary().Describe())
	}
	if err != nil {
		ctx.Failure = apis.AsDetectionError(ctx.Type, err)
		ctx.Trail.Note("detection failed: " + ctx.Failure.Error())
		return finish(Undetectable)
	}
	ctx.Detected = &b
	return finish(Resolving)
}

func resolve(m Machine, env Env) Machine {
	if m.Tag != Resolving {
		return m
	}
	if env.Resolver != nil {
		for _, sig := range env.Resolver.Resolve(m.Ctx.Type, *m.Ctx.Detected, m.Ctx.Requirements.Active()) {
			env.Dispatch(sig)
		}
	}
	return m.to(Resolved)
}

func (m Machine) to(tag Tag) Machine {
	m.Tag = tag
	return m
}

// Scan summarizes the machine for diagnostics.
func (m Machine) Scan() debug.ScanInformation {
	ctx := m.Ctx
	info := debug.ScanInformation{
		Type:    ctx.Type.Description(),
		State:   m.Tag.String(),
		Reasons: ctx.Requirements.Snapshot(),
		Ignored: ctx.Trail.Filter(debug.KindIgnored),
		Trail:   ctx.Trail.Entries(),
	}
	if ctx.Detected != nil {
		if ctx.Detected.Serializer != nil {
			info.Serializer = ctx.Detected.Serializer.Description()
		}
		if ctx.Detected.Deserializer != nil {
			info.Deserializer = ctx.Detected.Deserializer.Description()
		}
	}
	if ctx.Failure != nil {
		info.Failure = ctx.Failure.Error()
	}
	return info
}
