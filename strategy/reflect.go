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

// Package strategy provides reflection-based candidate sources.
//
// Every strategy inspects the reflect.Type behind a TypeIdentifier and
// proposes serializer and deserializer candidates. Strategies never decide
// between candidates; that is the disambiguator's job. Virtual identifiers
// (without a reflect.Type) are never handled here.
package strategy

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"dirpx.dev/capx/apis"
	uref "dirpx.dev/capx/utils/reflect"
)

// reflectOf returns the pointer-free reflect.Type behind t.
func reflectOf(t apis.TypeIdentifier, cfg apis.Config) (reflect.Type, bool) {
	rt := t.ReflectType()
	if rt == nil {
		return nil, false
	}
	rt, err := uref.Normalize(rt, cfg)
	if err != nil {
		return nil, false
	}
	return rt, true
}

// identify returns the identifier of rt, or false if rt has no stable identity.
func identify(rt reflect.Type, cfg apis.Config) (apis.TypeIdentifier, bool) {
	id, err := uref.Identify(rt, cfg)
	return id, err == nil
}

// sameType reports whether a and b are the same type once pointers are stripped.
func sameType(a, b reflect.Type, cfg apis.Config) bool {
	na, errA := uref.Normalize(a, cfg)
	nb, errB := uref.Normalize(b, cfg)
	return errA == nil && errB == nil && na == nb
}

// baseType maps a primitive kind to its representation name.
func baseType(k reflect.Kind) (string, bool) {
	switch k {
	case reflect.String:
		return "string", true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int64", true
	case reflect.Float32, reflect.Float64:
		return "float64", true
	case reflect.Bool:
		return "bool", true
	default:
		return "", false
	}
}

// isBuiltin reports whether rt is a predeclared type such as int or string.
func isBuiltin(rt reflect.Type) bool {
	return rt.PkgPath() == "" && rt.Name() != ""
}

// methodOf looks up name on rt or *rt.
func methodOf(rt reflect.Type, name string) (reflect.Method, bool) {
	if m, ok := rt.MethodByName(name); ok {
		return m, true
	}
	return reflect.PointerTo(rt).MethodByName(name)
}

// implements reports whether rt or *rt implements iface.
func implements(rt, iface reflect.Type) bool {
	return rt.Implements(iface) || reflect.PointerTo(rt).Implements(iface)
}

// upperFirst returns s with its first rune upper-cased: "name" -> "Name".
func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// wireName returns the json tag name of f, its Go name, or "" if the field is skipped.
func wireName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}
