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

package resolver

import (
	"dirpx.dev/capx/apis"
)

// Propagator derives requirement signals from one aspect of a detected bundle.
type Propagator interface {
	Propagate(t apis.TypeIdentifier, b apis.Bundle, active apis.CapabilitySet) []apis.Signal
}

// PropagatorFunc adapts a function to Propagator.
type PropagatorFunc func(t apis.TypeIdentifier, b apis.Bundle, active apis.CapabilitySet) []apis.Signal

// Propagate calls f.
func (f PropagatorFunc) Propagate(t apis.TypeIdentifier, b apis.Bundle, active apis.CapabilitySet) []apis.Signal {
	return f(t, b, active)
}

// New constructs an apis.Resolver that runs the given propagators in order and
// concatenates their signals. Nil propagators are ignored. Without any
// propagator the defaults (Dependencies, Supertypes) are used.
func New(propagators ...Propagator) apis.Resolver {
	out := make([]Propagator, 0, len(propagators))
	for _, p := range propagators {
		if p != nil {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []Propagator{Dependencies(), Supertypes()}
	}
	return chain{props: out}
}

// chain is an immutable, order-preserving resolver over a set of propagators.
type chain struct {
	props []Propagator
}

// Resolve runs every propagator in order.
func (r chain) Resolve(t apis.TypeIdentifier, b apis.Bundle, active apis.CapabilitySet) []apis.Signal {
	var out []apis.Signal
	for _, p := range r.props {
		out = append(out, p.Propagate(t, b, active)...)
	}
	return out
}

// Dependencies propagates each active direction to the types its mapping
// function requires, adding ObjectEnforcing when the function forces objects.
func Dependencies() Propagator {
	return PropagatorFunc(func(t apis.TypeIdentifier, b apis.Bundle, active apis.CapabilitySet) []apis.Signal {
		var out []apis.Signal
		if active.Has(apis.Serialization) && b.Serializer != nil {
			out = appendRequired(out, t, b.Serializer, apis.Serialization)
		}
		if active.Has(apis.Deserialization) && b.Deserializer != nil {
			out = appendRequired(out, t, b.Deserializer, apis.Deserialization)
		}
		return out
	})
}

func appendRequired(out []apis.Signal, t apis.TypeIdentifier, fn apis.MappingFunction, c apis.Capability) []apis.Signal {
	reason := apis.BecauseOf(t)
	forces := fn.ForcesDependenciesToBeObjects()
	for _, rt := range fn.RequiredTypes() {
		out = append(out, apis.AddRequirementSignal(rt, c, reason))
		if forces {
			out = append(out, apis.AddRequirementSignal(rt, apis.ObjectEnforcing, reason))
		}
	}
	return out
}

// Supertypes propagates the active primary capabilities to every supertype.
func Supertypes() Propagator {
	return PropagatorFunc(func(t apis.TypeIdentifier, b apis.Bundle, active apis.CapabilitySet) []apis.Signal {
		if len(b.Supertypes) == 0 {
			return nil
		}
		reason := apis.BecauseOf(t)
		caps := active.Primary().Slice()
		out := make([]apis.Signal, 0, len(b.Supertypes)*len(caps))
		for _, st := range b.Supertypes {
			for _, c := range caps {
				out = append(out, apis.AddRequirementSignal(st, c, reason))
			}
		}
		return out
	})
}
