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

// Package disambiguator reduces the raw candidates of a type to exactly one
// serializer and one deserializer.
//
// Candidates run through filter, preference, symmetry and tie-break steps,
// separately per shape (primitive, object, collection). When more than one
// shape survives, a cross-shape rule decides. Every discarded candidate is
// reported to the diagnostic sink together with the step that discarded it.
package disambiguator

import (
	"errors"
	"slices"
	"strings"

	"dirpx.dev/capx/apis"
)

// Option customizes the pipelines of a disambiguator.
type Option func(*disambiguator)

// WithSerializerFilter appends a serializer filter.
func WithSerializerFilter(f Filter[*apis.Serializer]) Option {
	return func(d *disambiguator) { d.sers.Filters = append(d.sers.Filters, f) }
}

// WithDeserializerFilter appends a deserializer filter.
func WithDeserializerFilter(f Filter[*apis.Deserializer]) Option {
	return func(d *disambiguator) { d.desers.Filters = append(d.desers.Filters, f) }
}

// WithSerializerPreference adds a serializer preference ahead of the defaults.
func WithSerializerPreference(p Preference[*apis.Serializer]) Option {
	return func(d *disambiguator) { d.sers.Preferences = slices.Insert(d.sers.Preferences, 0, p) }
}

// WithDeserializerPreference adds a deserializer preference ahead of the defaults.
func WithDeserializerPreference(p Preference[*apis.Deserializer]) Option {
	return func(d *disambiguator) { d.desers.Preferences = slices.Insert(d.desers.Preferences, 0, p) }
}

// WithSerializerHint adds a serializer tie-break hint ahead of the defaults.
func WithSerializerHint(h Hint[*apis.Serializer]) Option {
	return func(d *disambiguator) { d.sers.Hints = slices.Insert(d.sers.Hints, 0, h) }
}

// WithDeserializerHint adds a deserializer tie-break hint ahead of the defaults.
func WithDeserializerHint(h Hint[*apis.Deserializer]) Option {
	return func(d *disambiguator) { d.desers.Hints = slices.Insert(d.desers.Hints, 0, h) }
}

// WithFieldFilter appends a filter for serialization field options.
func WithFieldFilter(f Filter[apis.Field]) Option {
	return func(d *disambiguator) { d.fields.Filters = append(d.fields.Filters, f) }
}

// New constructs the default disambiguator for cfg.
func New(cfg apis.Config, opts ...Option) apis.Disambiguator {
	d := &disambiguator{
		cfg:    cfg,
		sers:   DefaultSerializerPipeline(),
		desers: DefaultDeserializerPipeline(),
		fields: DefaultFieldPipeline(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type disambiguator struct {
	cfg    apis.Config
	sers   Pipeline[*apis.Serializer]
	desers Pipeline[*apis.Deserializer]
	fields Pipeline[apis.Field]
}

var _ apis.Disambiguator = (*disambiguator)(nil)

// selection is the outcome of one shape.
type selection struct {
	shape     apis.Shape
	available bool
	preferred bool
	ser       *apis.Serializer
	deser     *apis.Deserializer
	err       error
}

func (s selection) describe() string {
	var parts []string
	if s.ser != nil {
		parts = append(parts, s.ser.Description())
	}
	if s.deser != nil {
		parts = append(parts, s.deser.Description())
	}
	return strings.Join(parts, " / ")
}

// width is the number of fields the selection maps.
func (s selection) width() int {
	if s.deser != nil {
		return len(s.deser.ParameterNames())
	}
	if s.ser != nil {
		return len(s.ser.FieldNames())
	}
	return 0
}

func (d *disambiguator) Disambiguate(t apis.TypeIdentifier, c apis.Candidates, required apis.CapabilitySet, sink apis.DiagnosticSink) (apis.Bundle, error) {
	if sink == nil {
		sink = apis.NopSink{}
	}
	s := Scope{Type: t, Required: required, Config: d.cfg}
	if required.Has(apis.ObjectEnforcing) && required.Has(apis.InlinedPrimitive) {
		return apis.Bundle{}, apis.Structural(t, "type is required to be an object and an inlined primitive at the same time")
	}
	supertypes := dedupe(c.Supertypes)
	if required.Primary().IsEmpty() {
		sink.Note("no direction is required")
		return apis.Bundle{Supertypes: supertypes}, nil
	}

	sers := d.sers.filter(s, compact(c.Serializers), sink)
	desers := d.desers.filter(s, injectParameters(s, compact(c.Deserializers)), sink)

	results := make([]selection, 0, 3)
	for _, shape := range []apis.Shape{apis.ShapePrimitive, apis.ShapeObject, apis.ShapeCollection} {
		results = append(results, d.selectShape(s, shape, ofShape(sers, shape), ofShape(desers, shape), sink))
	}
	sel, err := d.decide(s, results, sink)
	if err != nil {
		return apis.Bundle{}, err
	}
	return apis.Bundle{Serializer: sel.ser, Deserializer: sel.deser, Supertypes: supertypes}, nil
}

// injectParameters marks parameters of injected types on copies of the
// deserializers that declare them.
func injectParameters(s Scope, desers []*apis.Deserializer) []*apis.Deserializer {
	if len(s.Config.InjectedTypes) == 0 {
		return desers
	}
	out := make([]*apis.Deserializer, len(desers))
	for i, de := range desers {
		if !slices.ContainsFunc(de.Parameters, func(f apis.Field) bool { return s.injected(f.Type) }) {
			out[i] = de
			continue
		}
		cp := *de
		cp.Parameters = slices.Clone(de.Parameters)
		for j := range cp.Parameters {
			if s.injected(cp.Parameters[j].Type) {
				cp.Parameters[j].Injected = true
			}
		}
		out[i] = &cp
	}
	return out
}

type shaped interface {
	*apis.Serializer | *apis.Deserializer
}

func shapeOf[T shaped](c T) apis.Shape {
	switch v := any(c).(type) {
	case *apis.Serializer:
		return v.Shape
	case *apis.Deserializer:
		return v.Shape
	}
	return 0
}

func isNil[T shaped](c T) bool {
	switch v := any(c).(type) {
	case *apis.Serializer:
		return v == nil
	case *apis.Deserializer:
		return v == nil
	}
	return true
}

// compact drops nil candidates.
func compact[T shaped](cs []T) []T {
	return slices.DeleteFunc(slices.Clone(cs), isNil[T])
}

func ofShape[T shaped](cs []T, shape apis.Shape) []T {
	var out []T
	for _, c := range cs {
		if shapeOf(c) == shape {
			out = append(out, c)
		}
	}
	return out
}

func (d *disambiguator) selectShape(s Scope, shape apis.Shape, sers []*apis.Serializer, desers []*apis.Deserializer, sink apis.DiagnosticSink) selection {
	res := selection{shape: shape}
	needS := s.Required.Has(apis.Serialization)
	needD := s.Required.Has(apis.Deserialization)
	if (!needS || len(sers) == 0) && (!needD || len(desers) == 0) {
		return res
	}
	res.available = true

	if needS && shape == apis.ShapeObject && !needD {
		sers = d.accessibleObjects(s, sers, sink)
	}
	switch {
	case needS && len(sers) == 0:
		res.err = apis.Undetectable(s.Type, "no %s serializer candidate", shape)
		return res
	case needD && len(desers) == 0:
		res.err = apis.Undetectable(s.Type, "no %s deserializer candidate", shape)
		return res
	}

	var prefS, prefD bool
	if needS {
		sers, prefS = d.sers.prefer(s, sers, sink)
	}
	if needD {
		desers, prefD = d.desers.prefer(s, desers, sink)
	}
	res.preferred = prefS || prefD

	if needS && needD {
		var err error
		switch shape {
		case apis.ShapePrimitive:
			sers, desers, err = primitiveSymmetry(s, sers, desers, sink)
		case apis.ShapeObject:
			sers, desers, err = d.objectSymmetry(s, sers, desers, sink)
		default:
			sers, desers, err = collectionSymmetry(s, sers, desers, sink)
		}
		if err != nil {
			res.err = err
			return res
		}
	}

	var err error
	if needS {
		if res.ser, _, err = d.sers.pick(s, "serializer", sers, sink); err != nil {
			res.err = err
			return res
		}
	}
	if needD {
		if res.deser, _, err = d.desers.pick(s, "deserializer", desers, sink); err != nil {
			res.err = err
			return res
		}
	}
	return res
}

// accessibleObjects narrows every object serializer to one option per field
// and drops serializers left without fields.
func (d *disambiguator) accessibleObjects(s Scope, sers []*apis.Serializer, sink apis.DiagnosticSink) []*apis.Serializer {
	out := make([]*apis.Serializer, 0, len(sers))
	for _, ser := range sers {
		n := d.narrowFields(s, d.filterFields(s, ser, sink), nil, sink)
		if len(n.Fields) == 0 {
			sink.Ignore(ser.Description(), "no accessible fields")
			continue
		}
		out = append(out, n)
	}
	return out
}

// collectionSymmetry keeps the collection candidates whose element types
// match a candidate of the other direction.
func collectionSymmetry(s Scope, sers []*apis.Serializer, desers []*apis.Deserializer, sink apis.DiagnosticSink) ([]*apis.Serializer, []*apis.Deserializer, error) {
	key := func(ts []apis.TypeIdentifier) string {
		parts := make([]string, len(ts))
		for i, t := range ts {
			parts[i] = t.Description()
		}
		return strings.Join(parts, ",")
	}
	var keptS []*apis.Serializer
	var keptD []*apis.Deserializer
	for _, ser := range sers {
		k := key(ser.RequiredTypes())
		if slices.ContainsFunc(desers, func(de *apis.Deserializer) bool { return key(de.RequiredTypes()) == k }) {
			keptS = append(keptS, ser)
		} else {
			sink.Ignore(ser.Description(), "no deserializer with the same element types")
		}
	}
	for _, de := range desers {
		k := key(de.RequiredTypes())
		if slices.ContainsFunc(keptS, func(ser *apis.Serializer) bool { return key(ser.RequiredTypes()) == k }) {
			keptD = append(keptD, de)
		} else {
			sink.Ignore(de.Description(), "no serializer with the same element types")
		}
	}
	if len(keptS) == 0 {
		return nil, nil, apis.Asymmetric(s.Type, "collection serializer and deserializer disagree on element types")
	}
	return keptS, keptD, nil
}

// decide chooses between the per-shape selections.
func (d *disambiguator) decide(s Scope, results []selection, sink apis.DiagnosticSink) (selection, error) {
	var ok []selection
	for _, r := range results {
		if r.available && r.err == nil {
			ok = append(ok, r)
		} else if r.err != nil {
			sink.Note(r.shape.String() + ": " + r.err.Error())
		}
	}
	if len(ok) == 0 {
		return selection{}, firstFailure(s, results)
	}

	winner := ok[0]
	if len(ok) > 1 {
		prim, obj := find(ok, apis.ShapePrimitive), find(ok, apis.ShapeObject)
		if prim != nil && obj != nil {
			switch {
			case prim.preferred && obj.preferred:
				return selection{}, apis.Ambiguous(s.Type, "both a primitive and an object representation are preferred",
					[]string{prim.describe(), obj.describe()})
			case prim.preferred:
				winner = *prim
			case obj.preferred:
				winner = *obj
			case obj.width() > 1:
				winner = *obj
			default:
				winner = *prim
			}
		}
	}
	for _, r := range ok {
		if r.shape != winner.shape {
			sink.Ignore(r.describe(), "discarded in favor of the "+winner.shape.String()+" representation")
		}
	}
	return winner, nil
}

func find(rs []selection, shape apis.Shape) *selection {
	for i := range rs {
		if rs[i].shape == shape {
			return &rs[i]
		}
	}
	return nil
}

// firstFailure returns the most specific per-shape failure: ambiguity, then
// asymmetry, then any other; or a generic undetectable failure.
func firstFailure(s Scope, results []selection) error {
	for _, kind := range []error{apis.ErrAmbiguous, apis.ErrAsymmetric, apis.ErrStructural, apis.ErrUndetectable} {
		for _, r := range results {
			if r.err != nil && errors.Is(r.err, kind) {
				return r.err
			}
		}
	}
	return apis.Undetectable(s.Type, "no candidate provides %s", s.Required.Primary().Describe())
}

func dedupe(ts []apis.TypeIdentifier) []apis.TypeIdentifier {
	var out []apis.TypeIdentifier
	for _, t := range ts {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
