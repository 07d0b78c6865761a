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

package strategy

import (
	"dirpx.dev/capx/apis"
)

// NewBuiltinStrategy creates an apis.Strategy for primitive kinds.
//
// Predeclared types (int, string, ...) get builtin candidates when
// Config.IncludeBuiltins is set. Named types over a primitive kind
// ("type Email string") get conversion candidates.
func NewBuiltinStrategy() apis.Strategy {
	return builtinStrategy{}
}

type builtinStrategy struct{}

var _ apis.Strategy = builtinStrategy{}

func (builtinStrategy) TryDetect(t apis.TypeIdentifier, cfg apis.Config) (apis.Candidates, bool) {
	rt, ok := reflectOf(t, cfg)
	if !ok {
		return apis.Candidates{}, false
	}
	base, ok := baseType(rt.Kind())
	if !ok {
		return apis.Candidates{}, false
	}
	origin := apis.OriginConversion
	if isBuiltin(rt) {
		if !cfg.IncludeBuiltins {
			return apis.Candidates{}, false
		}
		origin = apis.OriginBuiltin
	}
	return apis.Candidates{
		Serializers: []*apis.Serializer{{
			Shape: apis.ShapePrimitive, Origin: origin, Name: rt.Kind().String(), BaseType: base, Exported: true,
		}},
		Deserializers: []*apis.Deserializer{{
			Shape: apis.ShapePrimitive, Origin: origin, Name: rt.Kind().String(), BaseType: base, Exported: true,
		}},
	}, true
}
