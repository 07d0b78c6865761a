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
	"encoding"
	"fmt"
	"reflect"

	"dirpx.dev/capx/apis"
)

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	goStringerType      = reflect.TypeOf((*fmt.GoStringer)(nil)).Elem()
)

// NewTextStrategy creates an apis.Strategy proposing string-based primitive
// candidates from encoding.TextMarshaler, encoding.TextUnmarshaler,
// fmt.Stringer and fmt.GoStringer.
func NewTextStrategy() apis.Strategy {
	return textStrategy{}
}

type textStrategy struct{}

var _ apis.Strategy = textStrategy{}

func (textStrategy) TryDetect(t apis.TypeIdentifier, cfg apis.Config) (apis.Candidates, bool) {
	rt, ok := reflectOf(t, cfg)
	if !ok {
		return apis.Candidates{}, false
	}
	var c apis.Candidates
	method := func(name string) *apis.Serializer {
		return &apis.Serializer{Shape: apis.ShapePrimitive, Origin: apis.OriginMethod, Name: name, BaseType: "string", Exported: true}
	}
	if implements(rt, textMarshalerType) {
		c.Serializers = append(c.Serializers, method("MarshalText"))
	}
	if implements(rt, stringerType) {
		c.Serializers = append(c.Serializers, method("String"))
	}
	if implements(rt, goStringerType) {
		c.Serializers = append(c.Serializers, method("GoString"))
	}
	if implements(rt, textUnmarshalerType) {
		c.Deserializers = append(c.Deserializers, &apis.Deserializer{
			Shape: apis.ShapePrimitive, Origin: apis.OriginMethod, Name: "UnmarshalText", BaseType: "string", Exported: true,
		})
	}
	return c, !c.IsEmpty()
}
