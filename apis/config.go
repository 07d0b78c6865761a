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

// Config carries read-only knobs for a resolution run.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// MaxRounds caps Detect+Resolve rounds of one run. Exceeding it is an
	// internal error, never a silent stop.
	MaxRounds int `yaml:"max_rounds"`

	// MaxSignals caps the number of signals applied in one run.
	MaxSignals int `yaml:"max_signals"`

	// MaxUnwrap limits container unwrapping depth (ptr/slice/array/chan/map)
	// when identifying reflect types.
	MaxUnwrap int `yaml:"max_unwrap"`

	// IncludeBuiltins controls whether builtin kinds (int, string, ...) are
	// detectable as primitives.
	IncludeBuiltins bool `yaml:"include_builtins"`

	// PreferredPrimitiveSerializerName is the method name preferred among
	// primitive serializers.
	PreferredPrimitiveSerializerName string `yaml:"preferred_primitive_serializer"`

	// PreferredPrimitiveFactoryName is the factory name preferred among
	// primitive deserializers.
	PreferredPrimitiveFactoryName string `yaml:"preferred_primitive_factory"`

	// PreferredObjectFactoryName is the factory name preferred among object
	// deserializers.
	PreferredObjectFactoryName string `yaml:"preferred_object_factory"`

	// PrimitiveBaseTypes orders primitive representations for symmetry
	// matching; earlier entries win.
	PrimitiveBaseTypes []string `yaml:"primitive_base_types"`

	// DeniedSerializerNames lists method names never used as serializers.
	DeniedSerializerNames []string `yaml:"denied_serializer_names"`

	// InjectedTypes lists type descriptions supplied at runtime rather than
	// decoded; fields of these types are never serialized.
	InjectedTypes []string `yaml:"injected_types"`

	// CacheSize bounds the detection cache; 0 disables caching.
	CacheSize int `yaml:"cache_size"`
}
