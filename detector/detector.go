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

// Package detector composes candidate strategies and a disambiguator into an
// apis.Detector, and offers an LRU-backed cache for repeated runs.
package detector

import (
	"fmt"

	"dirpx.dev/capx/apis"
)

// New constructs an apis.Detector that gathers candidates from the given
// strategies in order and lets dis choose among them. Nil strategies are
// ignored.
func New(cfg apis.Config, dis apis.Disambiguator, strategies ...apis.Strategy) apis.Detector {
	if dis == nil {
		panic("capx(detector): nil disambiguator")
	}
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return &detector{cfg: cfg, dis: dis, strats: out}
}

type detector struct {
	cfg    apis.Config
	dis    apis.Disambiguator
	strats []apis.Strategy
}

var _ apis.Detector = (*detector)(nil)

// Detect merges the candidates of every strategy that handles t.
func (d *detector) Detect(t apis.TypeIdentifier, required apis.CapabilitySet, sink apis.DiagnosticSink) (apis.Bundle, error) {
	if sink == nil {
		sink = apis.NopSink{}
	}
	var all apis.Candidates
	handled := false
	for _, s := range d.strats {
		if c, ok := s.TryDetect(t, d.cfg); ok {
			all = all.Merge(c)
			handled = true
		}
	}
	if !handled {
		if t.ReflectType() == nil {
			return apis.Bundle{}, apis.Undetectable(t, "no strategy recognizes this type")
		}
		return apis.Bundle{}, apis.Structural(t, "%s is not a supported type", t.ReflectType())
	}
	sink.Note(fmt.Sprintf("collected %d serializer(s), %d deserializer(s)", len(all.Serializers), len(all.Deserializers)))
	return d.dis.Disambiguate(t, all, required, sink)
}
