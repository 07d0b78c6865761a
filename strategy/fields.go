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
	"reflect"

	"dirpx.dev/capx/apis"
)

// NewFieldStrategy creates an apis.Strategy for struct types.
//
// It proposes one object serializer holding every field option it finds:
// the struct field itself (exported or not) and, for unexported fields, a
// getter method named after the field. When every mapped field is exported
// it also proposes a setter-based object deserializer.
func NewFieldStrategy() apis.Strategy {
	return fieldStrategy{}
}

type fieldStrategy struct{}

var _ apis.Strategy = fieldStrategy{}

func (fieldStrategy) TryDetect(t apis.TypeIdentifier, cfg apis.Config) (apis.Candidates, bool) {
	rt, ok := reflectOf(t, cfg)
	if !ok || rt.Kind() != reflect.Struct {
		return apis.Candidates{}, false
	}

	var options, params []apis.Field
	settable := true
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name := wireName(f)
		if name == "" {
			continue
		}
		id, ok := identify(f.Type, cfg)
		if !ok {
			continue
		}
		field := apis.Field{Name: name, Type: id, Origin: apis.OriginField, Member: f.Name, Exported: f.IsExported()}
		options = append(options, field)
		if f.IsExported() {
			setter := field
			setter.Origin = apis.OriginSetter
			params = append(params, setter)
			continue
		}
		settable = false
		if m, ok := methodOf(rt, upperFirst(f.Name)); ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 && m.Type.Out(0) == f.Type {
			options = append(options, apis.Field{Name: name, Type: id, Origin: apis.OriginGetter, Member: m.Name, Exported: true})
		}
	}
	if len(options) == 0 {
		return apis.Candidates{}, false
	}

	c := apis.Candidates{
		Serializers: []*apis.Serializer{{Shape: apis.ShapeObject, Origin: apis.OriginField, Fields: options, Exported: true}},
	}
	if settable {
		c.Deserializers = []*apis.Deserializer{{Shape: apis.ShapeObject, Origin: apis.OriginSetter, Parameters: params, Exported: true}}
	}
	return c, true
}
