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

package disambiguator

import (
	"slices"

	"dirpx.dev/capx/apis"
)

// Candidate is anything the pipeline can select among.
type Candidate interface {
	Description() string
}

// Scope is what pipeline steps may inspect besides the candidate itself.
type Scope struct {
	Type     apis.TypeIdentifier
	Required apis.CapabilitySet
	Config   apis.Config
}

// injected reports whether t is listed in Config.InjectedTypes.
func (s Scope) injected(t apis.TypeIdentifier) bool {
	return slices.Contains(s.Config.InjectedTypes, t.Description())
}

// Filter drops structurally forbidden candidates. Reason is recorded for
// every dropped candidate.
type Filter[T Candidate] struct {
	Reason string
	Drop   func(s Scope, c T) bool
}

// Preference narrows the candidate set to its matches, if there are any.
type Preference[T Candidate] struct {
	Name  string
	Match func(s Scope, c T) bool
}

// Hint decides a tie when it matches exactly one candidate.
type Hint[T Candidate] struct {
	Name  string
	Match func(s Scope, c T) bool
}

// Pipeline is the ordered filter, preference and tie-break configuration for
// one kind of candidate.
type Pipeline[T Candidate] struct {
	Filters     []Filter[T]
	Preferences []Preference[T]
	Hints       []Hint[T]
}

// Clone returns a copy whose slices can be extended independently.
func (p Pipeline[T]) Clone() Pipeline[T] {
	return Pipeline[T]{
		Filters:     slices.Clone(p.Filters),
		Preferences: slices.Clone(p.Preferences),
		Hints:       slices.Clone(p.Hints),
	}
}

// filter returns the candidates no filter drops, preserving order.
func (p Pipeline[T]) filter(s Scope, cs []T, sink apis.DiagnosticSink) []T {
	out := make([]T, 0, len(cs))
next:
	for _, c := range cs {
		for _, f := range p.Filters {
			if f.Drop(s, c) {
				sink.Ignore(c.Description(), f.Reason)
				continue next
			}
		}
		out = append(out, c)
	}
	return out
}

// prefer applies the first preference matching at least one candidate.
// It reports whether a preference decided the set.
func (p Pipeline[T]) prefer(s Scope, cs []T, sink apis.DiagnosticSink) ([]T, bool) {
	for _, pref := range p.Preferences {
		var kept, dropped []T
		for _, c := range cs {
			if pref.Match(s, c) {
				kept = append(kept, c)
			} else {
				dropped = append(dropped, c)
			}
		}
		if len(kept) == 0 {
			continue
		}
		for _, c := range dropped {
			sink.Ignore(c.Description(), "not preferred: "+pref.Name)
		}
		return kept, true
	}
	return cs, false
}

// pick reduces cs to exactly one candidate using the hints in order. ok is
// false when cs is empty. A tie that no hint decides yields an ambiguity
// failure naming every tied candidate.
func (p Pipeline[T]) pick(s Scope, what string, cs []T, sink apis.DiagnosticSink) (winner T, ok bool, err error) {
	switch len(cs) {
	case 0:
		return winner, false, nil
	case 1:
		return cs[0], true, nil
	}
	for _, h := range p.Hints {
		idx := -1
		matches := 0
		for i, c := range cs {
			if h.Match(s, c) {
				idx = i
				matches++
			}
		}
		if matches != 1 {
			continue
		}
		for i, c := range cs {
			if i != idx {
				sink.Ignore(c.Description(), "lost tie-break: "+h.Name)
			}
		}
		return cs[idx], true, nil
	}
	tied := make([]string, len(cs))
	for i, c := range cs {
		tied[i] = c.Description()
	}
	return winner, false, apis.Ambiguous(s.Type, "cannot decide between "+what+"s", tied)
}
