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
	"reflect"
	"strings"
)

// TypeIdentifier is an opaque, comparable key naming a type.
//
// Two identifiers are equal iff their name, generic arguments, scope and
// backing reflect.Type (if any) are equal. TypeIdentifier is safe to use as a
// map key and is never mutated after construction.
type TypeIdentifier struct {
	// name is the nominal type name, e.g. "geo.Point" or "Pair".
	name string
	// args is the canonical rendering of the generic arguments ("A,B"), or "".
	args string
	// scope optionally distinguishes variants of the same nominal type.
	scope string
	// rt is the backing reflect.Type when the identifier was derived from one.
	rt reflect.Type
}

// NewType constructs a virtual identifier (no reflect.Type) with the given
// generic arguments.
func NewType(name string, args ...TypeIdentifier) TypeIdentifier {
	return TypeIdentifier{name: name, args: joinArgs(args)}
}

// NewReflectType constructs an identifier backed by rt. The name and args are
// used for display and must be derived deterministically from rt.
func NewReflectType(rt reflect.Type, name string, args ...TypeIdentifier) TypeIdentifier {
	return TypeIdentifier{name: name, args: joinArgs(args), rt: rt}
}

func joinArgs(args []TypeIdentifier) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Description()
	}
	return strings.Join(parts, ",")
}

// WithScope returns a copy of t bound to scope.
func (t TypeIdentifier) WithScope(scope string) TypeIdentifier {
	t.scope = scope
	return t
}

// Name returns the nominal name without generic arguments.
func (t TypeIdentifier) Name() string { return t.name }

// Args returns the canonical generic argument list, or "".
func (t TypeIdentifier) Args() string { return t.args }

// Scope returns the scope, or "" for the unscoped variant.
func (t TypeIdentifier) Scope() string { return t.scope }

// ReflectType returns the backing reflect.Type, or nil for virtual types.
func (t TypeIdentifier) ReflectType() reflect.Type { return t.rt }

// IsZero reports whether t is the zero identifier.
func (t TypeIdentifier) IsZero() bool {
	return t.name == "" && t.args == "" && t.scope == "" && t.rt == nil
}

// SimpleName returns the last dot-separated segment of the name:
// "geo.Point" -> "Point".
func (t TypeIdentifier) SimpleName() string {
	if i := strings.LastIndexByte(t.name, '.'); i >= 0 {
		return t.name[i+1:]
	}
	return t.name
}

// Description renders t for humans: "Pair[A]" or "Pair[A]@scope".
func (t TypeIdentifier) Description() string {
	var b strings.Builder
	b.WriteString(t.name)
	if t.args != "" {
		b.WriteByte('[')
		b.WriteString(t.args)
		b.WriteByte(']')
	}
	if t.scope != "" {
		b.WriteByte('@')
		b.WriteString(t.scope)
	}
	return b.String()
}

// String implements fmt.Stringer.
func (t TypeIdentifier) String() string { return t.Description() }

// MarshalText renders the description so identifiers can key YAML maps.
func (t TypeIdentifier) MarshalText() ([]byte, error) {
	return []byte(t.Description()), nil
}
