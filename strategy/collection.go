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

// NewCollectionStrategy creates an apis.Strategy for slices, arrays and maps,
// named or not. Element (and key) types become required types.
func NewCollectionStrategy() apis.Strategy {
	return collectionStrategy{}
}

type collectionStrategy struct{}

var _ apis.Strategy = collectionStrategy{}

func (collectionStrategy) TryDetect(t apis.TypeIdentifier, cfg apis.Config) (apis.Candidates, bool) {
	rt, ok := reflectOf(t, cfg)
	if !ok {
		return apis.Candidates{}, false
	}
	var fields []apis.Field
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		elem, ok := identify(rt.Elem(), cfg)
		if !ok {
			return apis.Candidates{}, false
		}
		fields = []apis.Field{{Name: "element", Type: elem, Origin: apis.OriginCollection, Exported: true}}
	case reflect.Map:
		key, ok := identify(rt.Key(), cfg)
		if !ok {
			return apis.Candidates{}, false
		}
		elem, ok := identify(rt.Elem(), cfg)
		if !ok {
			return apis.Candidates{}, false
		}
		fields = []apis.Field{
			{Name: "key", Type: key, Origin: apis.OriginCollection, Exported: true},
			{Name: "value", Type: elem, Origin: apis.OriginCollection, Exported: true},
		}
	default:
		return apis.Candidates{}, false
	}
	name := rt.Kind().String()
	return apis.Candidates{
		Serializers:   []*apis.Serializer{{Shape: apis.ShapeCollection, Origin: apis.OriginCollection, Name: name, Fields: fields, Exported: true}},
		Deserializers: []*apis.Deserializer{{Shape: apis.ShapeCollection, Origin: apis.OriginCollection, Name: name, Parameters: fields, Exported: true}},
	}, true
}
