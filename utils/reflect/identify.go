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

package reflect

import (
	"path"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/capx/apis"
)

// cacheKey ensures memoization respects all config knobs that affect identity.
type cacheKey struct {
	t         reflect.Type
	maxUnwrap int16
}

type cacheVal struct {
	id  apis.TypeIdentifier
	err error
}

// identityCache caches identifiers by (type, config knobs).
var identityCache sync.Map // key: cacheKey, val: cacheVal

// Identify returns the stable identifier of t.
//
//   - pointers are stripped via Normalize;
//   - named types become "pkg.Type" (builtins keep their bare name), with
//     generic instantiation arguments carried as identifier arguments;
//   - unnamed slices, arrays and maps become "slice[E]", "array[E]" and
//     "map[K,V]";
//   - anything else fails with ErrReflectTypeNotNamed.
func Identify(t reflect.Type, cfg apis.Config) (apis.TypeIdentifier, error) {
	if t == nil {
		return apis.TypeIdentifier{}, ErrReflectNilType
	}
	key := cacheKey{t: t, maxUnwrap: int16(cfg.MaxUnwrap)}
	if v, ok := identityCache.Load(key); ok {
		cv := v.(cacheVal)
		return cv.id, cv.err
	}
	id, err := identify(t, cfg)
	identityCache.Store(key, cacheVal{id: id, err: err})
	return id, err
}

func identify(t reflect.Type, cfg apis.Config) (apis.TypeIdentifier, error) {
	base, err := Normalize(t, cfg)
	if err != nil {
		return apis.TypeIdentifier{}, err
	}
	if base.Name() != "" {
		name, args := splitTypeParams(base.Name())
		if p := base.PkgPath(); p != "" {
			name = path.Base(p) + "." + name
		}
		return apis.NewReflectType(base, name, parseArgs(args)...), nil
	}

	switch base.Kind() {
	case reflect.Slice, reflect.Array:
		elem, err := Identify(base.Elem(), cfg)
		if err != nil {
			return apis.TypeIdentifier{}, err
		}
		name := "slice"
		if base.Kind() == reflect.Array {
			name = "array"
		}
		return apis.NewReflectType(base, name, elem), nil
	case reflect.Map:
		k, err := Identify(base.Key(), cfg)
		if err != nil {
			return apis.TypeIdentifier{}, err
		}
		v, err := Identify(base.Elem(), cfg)
		if err != nil {
			return apis.TypeIdentifier{}, err
		}
		return apis.NewReflectType(base, "map", k, v), nil
	default:
		return apis.TypeIdentifier{}, ErrReflectTypeNotNamed
	}
}

// splitTypeParams splits a generic instantiation: "T[int,string]" -> ("T", "int,string").
func splitTypeParams(s string) (string, string) {
	if i := strings.IndexByte(s, '['); i >= 0 && strings.HasSuffix(s, "]") {
		return s[:i], s[i+1 : len(s)-1]
	}
	return s, ""
}

// parseArgs turns reflect's rendering of type arguments, which uses full
// import paths, into virtual identifiers with short package names.
func parseArgs(s string) []apis.TypeIdentifier {
	if s == "" {
		return nil
	}
	var out []apis.TypeIdentifier
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, parseArg(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, parseArg(s[start:]))
}

func parseArg(s string) apis.TypeIdentifier {
	s = strings.TrimSpace(s)
	prefix := s[:len(s)-len(strings.TrimLeft(s, "*[]0123456789"))]
	head, args := splitTypeParams(s[len(prefix):])
	return apis.NewType(prefix+path.Base(head), parseArgs(args)...)
}
