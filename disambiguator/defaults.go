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

	"dirpx.dev/capx/apis"
)

// DefaultSerializerPipeline returns the filters, preferences and hints applied
// to serializer candidates.
func DefaultSerializerPipeline() Pipeline[*apis.Serializer] {
	return Pipeline[*apis.Serializer]{
		Filters: []Filter[*apis.Serializer]{
			{Reason: "member is not accessible", Drop: func(_ Scope, c *apis.Serializer) bool { return !c.Exported }},
			{Reason: "serializer name is denied", Drop: func(s Scope, c *apis.Serializer) bool {
				return c.Name != "" && slices.Contains(s.Config.DeniedSerializerNames, c.Name)
			}},
			{Reason: "type must be serialized as an object", Drop: func(s Scope, c *apis.Serializer) bool {
				return s.Required.Has(apis.ObjectEnforcing) && c.Shape == apis.ShapePrimitive
			}},
			{Reason: "type must be inlined as a primitive", Drop: func(s Scope, c *apis.Serializer) bool {
				return s.Required.Has(apis.InlinedPrimitive) && c.Shape != apis.ShapePrimitive
			}},
		},
		Preferences: []Preference[*apis.Serializer]{
			{Name: "builtin or conversion", Match: func(_ Scope, c *apis.Serializer) bool {
				return c.Shape == apis.ShapePrimitive && (c.Origin == apis.OriginBuiltin || c.Origin == apis.OriginConversion)
			}},
			{Name: "preferred primitive serializer name", Match: func(s Scope, c *apis.Serializer) bool {
				return c.Shape == apis.ShapePrimitive && c.Name == s.Config.PreferredPrimitiveSerializerName
			}},
		},
		Hints: []Hint[*apis.Serializer]{
			{Name: "method", Match: func(_ Scope, c *apis.Serializer) bool { return c.Origin == apis.OriginMethod }},
		},
	}
}

// DefaultDeserializerPipeline returns the filters, preferences and hints
// applied to deserializer candidates.
func DefaultDeserializerPipeline() Pipeline[*apis.Deserializer] {
	return Pipeline[*apis.Deserializer]{
		Filters: []Filter[*apis.Deserializer]{
			{Reason: "member is not accessible", Drop: func(_ Scope, c *apis.Deserializer) bool { return !c.Exported }},
			{Reason: "type must be deserialized from an object", Drop: func(s Scope, c *apis.Deserializer) bool {
				return s.Required.Has(apis.ObjectEnforcing) && c.Shape == apis.ShapePrimitive
			}},
			{Reason: "type must be inlined as a primitive", Drop: func(s Scope, c *apis.Deserializer) bool {
				return s.Required.Has(apis.InlinedPrimitive) && c.Shape != apis.ShapePrimitive
			}},
		},
		Preferences: []Preference[*apis.Deserializer]{
			{Name: "builtin or conversion", Match: func(_ Scope, c *apis.Deserializer) bool {
				return c.Shape == apis.ShapePrimitive && (c.Origin == apis.OriginBuiltin || c.Origin == apis.OriginConversion)
			}},
			{Name: "preferred primitive factory name", Match: func(s Scope, c *apis.Deserializer) bool {
				return c.Shape == apis.ShapePrimitive && c.Name == s.Config.PreferredPrimitiveFactoryName
			}},
			{Name: "preferred object factory name", Match: func(s Scope, c *apis.Deserializer) bool {
				return c.Shape == apis.ShapeObject && c.Name == s.Config.PreferredObjectFactoryName
			}},
			{Name: "conventional constructor", Match: func(s Scope, c *apis.Deserializer) bool {
				return c.Shape == apis.ShapeObject && c.Origin == apis.OriginConstructor && c.Name == "New"+s.Type.SimpleName()
			}},
		},
		Hints: []Hint[*apis.Deserializer]{
			{Name: "constructor over setters", Match: func(_ Scope, c *apis.Deserializer) bool { return c.Origin == apis.OriginConstructor }},
			{Name: "method", Match: func(_ Scope, c *apis.Deserializer) bool { return c.Origin == apis.OriginMethod }},
		},
	}
}

// DefaultFieldPipeline returns the filters and preferences applied to the
// serialization options of a single object field.
func DefaultFieldPipeline() Pipeline[apis.Field] {
	return Pipeline[apis.Field]{
		Filters: []Filter[apis.Field]{
			{Reason: "member is not accessible", Drop: func(_ Scope, f apis.Field) bool { return !f.Exported }},
			{Reason: "field type is injected", Drop: func(s Scope, f apis.Field) bool { return s.injected(f.Type) }},
		},
		Preferences: []Preference[apis.Field]{
			{Name: "struct field over getter", Match: func(_ Scope, f apis.Field) bool { return f.Origin == apis.OriginField }},
		},
	}
}
