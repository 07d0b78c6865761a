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
	"strings"
)

// Capability is a named detection requirement for a type.
//
// # Values
//
//   - Serialization:    the type must be writable.
//   - Deserialization:  the type must be readable.
//   - ObjectEnforcing:  the type must be treated as a structured object.
//   - InlinedPrimitive: the type must be treated as an inlined primitive.
//
// Serialization and Deserialization form the primary group; ObjectEnforcing
// and InlinedPrimitive form the structural group. The set is closed for the
// lifetime of a resolution run.
type Capability uint8

const (
	// Serialization requires a serializer.
	Serialization Capability = iota
	// Deserialization requires a deserializer.
	Deserialization
	// ObjectEnforcing forces the structured-object representation.
	ObjectEnforcing
	// InlinedPrimitive forces the primitive representation.
	InlinedPrimitive

	numCapabilities
)

// Capabilities lists every capability in declaration order.
var Capabilities = [...]Capability{Serialization, Deserialization, ObjectEnforcing, InlinedPrimitive}

// IsPrimary reports whether c belongs to the primary group.
func (c Capability) IsPrimary() bool {
	return c == Serialization || c == Deserialization
}

// IsStructural reports whether c belongs to the structural group.
func (c Capability) IsStructural() bool {
	return c == ObjectEnforcing || c == InlinedPrimitive
}

// Valid reports whether c is one of the declared constants.
func (c Capability) Valid() bool { return c < numCapabilities }

// String returns the canonical token for c.
func (c Capability) String() string {
	switch c {
	case Serialization:
		return "serialization"
	case Deserialization:
		return "deserialization"
	case ObjectEnforcing:
		return "object-enforcing"
	case InlinedPrimitive:
		return "inlined-primitive"
	default:
		return fmt.Sprintf("Capability(%d)", uint8(c))
	}
}

// ParseCapability parses the canonical token (case-insensitive, trimmed).
func ParseCapability(s string) (Capability, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("capx: empty capability")
	}
	for _, c := range Capabilities {
		if strings.EqualFold(trimmed, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("capx: unknown capability %q", s)
}

// MarshalText implements encoding.TextMarshaler. Unknown values are rejected.
func (c Capability) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("capx: cannot marshal unknown capability %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure *c is left
// unchanged.
func (c *Capability) UnmarshalText(text []byte) error {
	v, err := ParseCapability(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// CapabilitySet is a bitmask of capabilities.
type CapabilitySet uint8

// SetOf builds a set from the given capabilities.
func SetOf(cs ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range cs {
		s = s.With(c)
	}
	return s
}

// Duplex is the set {Serialization, Deserialization}.
var Duplex = SetOf(Serialization, Deserialization)

// Has reports whether c is in s.
func (s CapabilitySet) Has(c Capability) bool { return s&(1<<c) != 0 }

// With returns s ∪ {c}.
func (s CapabilitySet) With(c Capability) CapabilitySet { return s | 1<<c }

// Without returns s \ {c}.
func (s CapabilitySet) Without(c Capability) CapabilitySet { return s &^ (1 << c) }

// IsEmpty reports whether no capability is set.
func (s CapabilitySet) IsEmpty() bool { return s == 0 }

// Primary returns the primary subset.
func (s CapabilitySet) Primary() CapabilitySet {
	return s & SetOf(Serialization, Deserialization)
}

// IsDuplex reports whether both primary capabilities are set.
func (s CapabilitySet) IsDuplex() bool {
	return s.Has(Serialization) && s.Has(Deserialization)
}

// IsSerializationOnly reports serialization without deserialization.
func (s CapabilitySet) IsSerializationOnly() bool {
	return s.Has(Serialization) && !s.Has(Deserialization)
}

// IsDeserializationOnly reports deserialization without serialization.
func (s CapabilitySet) IsDeserializationOnly() bool {
	return !s.Has(Serialization) && s.Has(Deserialization)
}

// Slice returns the members of s in declaration order.
func (s CapabilitySet) Slice() []Capability {
	out := make([]Capability, 0, len(Capabilities))
	for _, c := range Capabilities {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Describe renders the primary mode the way failures report it:
// "serialization", "deserialization", "duplex" or "nothing".
func (s CapabilitySet) Describe() string {
	switch {
	case s.IsDuplex():
		return "duplex"
	case s.IsSerializationOnly():
		return "serialization"
	case s.IsDeserializationOnly():
		return "deserialization"
	default:
		return "nothing"
	}
}

// String renders every member: "serialization|object-enforcing".
func (s CapabilitySet) String() string {
	if s.IsEmpty() {
		return "none"
	}
	parts := make([]string, 0, len(Capabilities))
	for _, c := range s.Slice() {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, "|")
}

// MarshalText renders the set for diagnostics.
func (s CapabilitySet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
