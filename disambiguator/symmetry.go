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
	"strings"

	"dirpx.dev/capx/apis"
)

// primitiveSymmetry keeps the serializers and deserializers of the first base
// type, in configured order, that both directions can produce.
func primitiveSymmetry(s Scope, sers []*apis.Serializer, desers []*apis.Deserializer, sink apis.DiagnosticSink) ([]*apis.Serializer, []*apis.Deserializer, error) {
	order := slices.Clone(s.Config.PrimitiveBaseTypes)
	for _, c := range sers {
		if !slices.Contains(order, c.BaseType) {
			order = append(order, c.BaseType)
		}
	}
	for _, base := range order {
		if !slices.ContainsFunc(sers, func(c *apis.Serializer) bool { return c.BaseType == base }) ||
			!slices.ContainsFunc(desers, func(c *apis.Deserializer) bool { return c.BaseType == base }) {
			continue
		}
		keptS := slices.DeleteFunc(slices.Clone(sers), func(c *apis.Serializer) bool {
			if c.BaseType != base {
				sink.Ignore(c.Description(), "no symmetric deserializer for base type "+c.BaseType+", chose "+base)
				return true
			}
			return false
		})
		keptD := slices.DeleteFunc(slices.Clone(desers), func(c *apis.Deserializer) bool {
			if c.BaseType != base {
				sink.Ignore(c.Description(), "no symmetric serializer for base type "+c.BaseType+", chose "+base)
				return true
			}
			return false
		})
		return keptS, keptD, nil
	}
	return nil, nil, apis.Asymmetric(s.Type, "no primitive serializer and deserializer share a base type")
}

// equivalenceClass groups deserializers with the same parameter signature
// together with every serializer offering all of those parameters.
type equivalenceClass struct {
	key    string
	params []apis.Field
	desers []*apis.Deserializer
	sers   []*apis.Serializer
}

func (c *equivalenceClass) size() int { return len(c.params) }

func (c *equivalenceClass) describe() string {
	names := make([]string, len(c.params))
	for i, p := range c.params {
		names[i] = p.Name + " " + p.Type.Description()
	}
	return "fields (" + strings.Join(names, ", ") + ")"
}

func signature(d *apis.Deserializer) ([]apis.Field, string) {
	var params []apis.Field
	for _, p := range d.Parameters {
		if !p.Injected {
			params = append(params, p)
		}
	}
	keys := make([]string, len(params))
	for i, p := range params {
		keys[i] = p.Name + ":" + p.Type.Description()
	}
	slices.Sort(keys)
	return params, strings.Join(keys, "|")
}

func covers(ser *apis.Serializer, params []apis.Field) bool {
	for _, p := range params {
		if !slices.ContainsFunc(ser.Fields, func(f apis.Field) bool { return f.Name == p.Name && f.Type == p.Type }) {
			return false
		}
	}
	return true
}

// objectSymmetry selects the greatest non-empty field set shared by at least
// one serializer and one deserializer. Serializers are returned narrowed to
// exactly that field set, one option per field.
func (d *disambiguator) objectSymmetry(s Scope, sers []*apis.Serializer, desers []*apis.Deserializer, sink apis.DiagnosticSink) ([]*apis.Serializer, []*apis.Deserializer, error) {
	filtered := make([]*apis.Serializer, 0, len(sers))
	for _, ser := range sers {
		filtered = append(filtered, d.filterFields(s, ser, sink))
	}

	var classes []*equivalenceClass
	for _, de := range desers {
		params, key := signature(de)
		i := slices.IndexFunc(classes, func(c *equivalenceClass) bool { return c.key == key })
		if i < 0 {
			classes = append(classes, &equivalenceClass{key: key, params: params})
			i = len(classes) - 1
		}
		classes[i].desers = append(classes[i].desers, de)
	}

	var best []*equivalenceClass
	for _, c := range classes {
		if c.size() == 0 {
			for _, de := range c.desers {
				sink.Ignore(de.Description(), "no common fields with any serializer")
			}
			continue
		}
		for _, ser := range filtered {
			if covers(ser, c.params) {
				c.sers = append(c.sers, ser)
			}
		}
		if len(c.sers) == 0 {
			for _, de := range c.desers {
				sink.Ignore(de.Description(), "no serializer offers "+c.describe())
			}
			continue
		}
		switch {
		case len(best) == 0 || c.size() > best[0].size():
			best = []*equivalenceClass{c}
		case c.size() == best[0].size():
			best = append(best, c)
		}
	}

	switch len(best) {
	case 0:
		return nil, nil, apis.Asymmetric(s.Type, "no serializer offers every parameter of any deserializer")
	case 1:
	default:
		tied := make([]string, len(best))
		for i, c := range best {
			tied[i] = c.describe()
		}
		return nil, nil, apis.Ambiguous(s.Type, "cannot decide between symmetric field sets", tied)
	}

	chosen := best[0]
	for _, c := range classes {
		if c == chosen || len(c.sers) == 0 {
			continue
		}
		for _, de := range c.desers {
			sink.Ignore(de.Description(), "smaller symmetric field set than "+chosen.describe())
		}
	}
	keptS := make([]*apis.Serializer, 0, len(chosen.sers))
	for _, ser := range filtered {
		if !slices.Contains(chosen.sers, ser) {
			sink.Ignore(ser.Description(), "does not offer "+chosen.describe())
			continue
		}
		keptS = append(keptS, d.narrowFields(s, ser, chosen.params, sink))
	}
	return keptS, chosen.desers, nil
}

// filterFields returns a copy of ser without the field options the field
// pipeline drops.
func (d *disambiguator) filterFields(s Scope, ser *apis.Serializer, sink apis.DiagnosticSink) *apis.Serializer {
	cp := *ser
	cp.Fields = d.fields.filter(s, ser.Fields, sink)
	return &cp
}

// narrowFields returns a copy of ser keeping exactly one option per field in
// want. Options whose type differs from the wanted one are dropped before the
// field preference runs. A nil want keeps every field name ser offers, of any
// type.
func (d *disambiguator) narrowFields(s Scope, ser *apis.Serializer, want []apis.Field, sink apis.DiagnosticSink) *apis.Serializer {
	if want == nil {
		for _, name := range ser.FieldNames() {
			want = append(want, apis.Field{Name: name})
		}
	}
	cp := *ser
	cp.Fields = make([]apis.Field, 0, len(want))
	for _, w := range want {
		var options []apis.Field
		for _, f := range ser.Fields {
			if f.Name != w.Name {
				continue
			}
			if !w.Type.IsZero() && f.Type != w.Type {
				sink.Ignore(f.Description(), "field type "+f.Type.Description()+" does not match parameter type "+w.Type.Description())
				continue
			}
			options = append(options, f)
		}
		if len(options) == 0 {
			continue
		}
		options, _ = d.fields.prefer(s, options, sink)
		for _, f := range options[1:] {
			sink.Ignore(f.Description(), "another option for field "+w.Name+" was chosen")
		}
		cp.Fields = append(cp.Fields, options[0])
	}
	return &cp
}
