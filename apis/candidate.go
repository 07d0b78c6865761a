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

package apis

import (
	"fmt"
	"slices"
	"strings"
)

// Shape is the representation a mapping function produces or consumes.
type Shape uint8

const (
	// ShapePrimitive maps the type to a single primitive value.
	ShapePrimitive Shape = iota
	// ShapeObject maps the type to a structured object of named fields.
	ShapeObject
	// ShapeCollection maps the type to a homogeneous collection.
	ShapeCollection
)

func (s Shape) String() string {
	switch s {
	case ShapePrimitive:
		return "primitive"
	case ShapeObject:
		return "object"
	case ShapeCollection:
		return "collection"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// Origin names the kind of member a candidate was derived from.
type Origin uint8

const (
	OriginCustom Origin = iota
	OriginBuiltin
	OriginConversion
	OriginMethod
	OriginConstructor
	OriginField
	OriginGetter
	OriginSetter
	OriginCollection
)

func (o Origin) String() string {
	switch o {
	case OriginCustom:
		return "custom"
	case OriginBuiltin:
		return "builtin"
	case OriginConversion:
		return "conversion"
	case OriginMethod:
		return "method"
	case OriginConstructor:
		return "constructor"
	case OriginField:
		return "field"
	case OriginGetter:
		return "getter"
	case OriginSetter:
		return "setter"
	case OriginCollection:
		return "collection"
	default:
		return fmt.Sprintf("Origin(%d)", uint8(o))
	}
}

// MappingFunction is what the core needs to know about a candidate: a label,
// the types it depends on, and whether those must be objects.
type MappingFunction interface {
	Description() string
	RequiredTypes() []TypeIdentifier
	ForcesDependenciesToBeObjects() bool
}

// Field is one named member of an object representation: a serialization
// field option on the serializing side, a parameter on the deserializing side.
type Field struct {
	// Name is the wire name of the field.
	Name string
	// Type is the field's type.
	Type TypeIdentifier
	// Origin is how the value is read or written (field, getter, setter...).
	Origin Origin
	// Member is the Go member backing the field (struct field or method name).
	Member string
	// Exported reports whether Member is accessible.
	Exported bool
	// Injected marks parameters supplied at runtime instead of being decoded.
	// Injected fields are not required types.
	Injected bool
	// Impl is an opaque payload for the marshalling runtime.
	Impl any
}

// Description renders the field: "name (T) via field Name".
func (f Field) Description() string {
	member := f.Member
	if member == "" {
		member = f.Name
	}
	return fmt.Sprintf("%s (%s) via %s %s", f.Name, f.Type.Description(), f.Origin, member)
}

// Serializer is a detector-proposed way to write a type.
//
// For ShapeObject the Fields hold every serialization field option the
// detector found; the disambiguator narrows them to exactly one option per
// field name. For ShapeCollection the Fields hold the element (and key) types.
type Serializer struct {
	Shape         Shape
	Origin        Origin
	Name          string
	BaseType      string
	Fields        []Field
	Exported      bool
	ForcesObjects bool
	Impl          any
}

var _ MappingFunction = (*Serializer)(nil)

// Description renders a stable, human-readable label.
func (s *Serializer) Description() string {
	return describe("serializer", s.Shape, s.Origin, s.Name, s.BaseType, s.Fields)
}

// RequiredTypes returns the distinct field types in declaration order.
func (s *Serializer) RequiredTypes() []TypeIdentifier { return fieldTypes(s.Fields) }

// ForcesDependenciesToBeObjects reports whether required types must be objects.
func (s *Serializer) ForcesDependenciesToBeObjects() bool { return s.ForcesObjects }

// FieldNames returns the distinct field names in declaration order.
func (s *Serializer) FieldNames() []string { return fieldNames(s.Fields) }

// Clone returns a copy of s that shares no slices with it. Impl payloads are
// shared.
func (s *Serializer) Clone() *Serializer {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Fields = slices.Clone(s.Fields)
	return &cp
}

// Deserializer is a detector-proposed way to read a type.
type Deserializer struct {
	Shape         Shape
	Origin        Origin
	Name          string
	BaseType      string
	Parameters    []Field
	Exported      bool
	ForcesObjects bool
	Impl          any
}

var _ MappingFunction = (*Deserializer)(nil)

// Description renders a stable, human-readable label.
func (d *Deserializer) Description() string {
	return describe("deserializer", d.Shape, d.Origin, d.Name, d.BaseType, d.Parameters)
}

// RequiredTypes returns the distinct parameter types in declaration order.
func (d *Deserializer) RequiredTypes() []TypeIdentifier { return fieldTypes(d.Parameters) }

// ForcesDependenciesToBeObjects reports whether required types must be objects.
func (d *Deserializer) ForcesDependenciesToBeObjects() bool { return d.ForcesObjects }

// ParameterNames returns the parameter names in declaration order.
func (d *Deserializer) ParameterNames() []string { return fieldNames(d.Parameters) }

// Clone returns a copy of d that shares no slices with it. Impl payloads are
// shared.
func (d *Deserializer) Clone() *Deserializer {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Parameters = slices.Clone(d.Parameters)
	return &cp
}

func describe(kind string, shape Shape, origin Origin, name, base string, fields []Field) string {
	var b strings.Builder
	b.WriteString(shape.String())
	b.WriteByte(' ')
	b.WriteString(kind)
	b.WriteString(" via ")
	b.WriteString(origin.String())
	if name != "" {
		b.WriteByte(' ')
		b.WriteString(name)
	}
	switch shape {
	case ShapePrimitive:
		if base != "" {
			b.WriteString(" (" + base + ")")
		}
	default:
		if len(fields) > 0 {
			parts := make([]string, len(fields))
			for i, f := range fields {
				parts[i] = f.Name + " " + f.Type.Description()
			}
			b.WriteString(" (" + strings.Join(parts, ", ") + ")")
		}
	}
	return b.String()
}

func fieldTypes(fields []Field) []TypeIdentifier {
	var out []TypeIdentifier
	seen := make(map[TypeIdentifier]struct{}, len(fields))
	for _, f := range fields {
		if f.Injected {
			continue
		}
		if _, ok := seen[f.Type]; ok {
			continue
		}
		seen[f.Type] = struct{}{}
		out = append(out, f.Type)
	}
	return out
}

func fieldNames(fields []Field) []string {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f.Name]; ok {
			continue
		}
		seen[f.Name] = struct{}{}
		out = append(out, f.Name)
	}
	return out
}

// Candidates is the raw, not yet disambiguated output of candidate sources.
type Candidates struct {
	Serializers   []*Serializer
	Deserializers []*Deserializer
	Supertypes    []TypeIdentifier
}

// IsEmpty reports whether no candidate was proposed at all.
func (c Candidates) IsEmpty() bool {
	return len(c.Serializers) == 0 && len(c.Deserializers) == 0
}

// Merge appends other's candidates to c and returns the result.
func (c Candidates) Merge(other Candidates) Candidates {
	c.Serializers = append(c.Serializers, other.Serializers...)
	c.Deserializers = append(c.Deserializers, other.Deserializers...)
	c.Supertypes = append(c.Supertypes, other.Supertypes...)
	return c
}

// Bundle is a detection result: at most one serializer, at most one
// deserializer, and the supertypes the type participates in.
type Bundle struct {
	Serializer   *Serializer
	Deserializer *Deserializer
	Supertypes   []TypeIdentifier
}

// IsZero reports whether b carries nothing.
func (b Bundle) IsZero() bool {
	return b.Serializer == nil && b.Deserializer == nil && len(b.Supertypes) == 0
}

// Clone returns a deep copy of b's candidates and supertypes.
func (b Bundle) Clone() Bundle {
	return Bundle{
		Serializer:   b.Serializer.Clone(),
		Deserializer: b.Deserializer.Clone(),
		Supertypes:   slices.Clone(b.Supertypes),
	}
}

// Supports reports whether b provides every primary capability in required.
func (b Bundle) Supports(required CapabilitySet) bool {
	if required.Has(Serialization) && b.Serializer == nil {
		return false
	}
	if required.Has(Deserialization) && b.Deserializer == nil {
		return false
	}
	return true
}

// Definition is the final, immutable output for one type.
type Definition struct {
	Type         TypeIdentifier
	Capabilities CapabilitySet
	Serializer   *Serializer
	Deserializer *Deserializer
	Supertypes   []TypeIdentifier
}
