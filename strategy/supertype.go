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
	"fmt"
	"reflect"

	"dirpx.dev/capx/apis"
)

// NewSupertypeStrategy creates an apis.Strategy that reports which of the
// given interfaces a type implements (on the value or the pointer). The
// interfaces themselves are represented as tagged objects with a single
// "type" discriminator field. It panics if any argument is not an interface
// type.
func NewSupertypeStrategy(interfaces ...reflect.Type) apis.Strategy {
	for _, it := range interfaces {
		if it == nil || it.Kind() != reflect.Interface {
			panic(fmt.Sprintf("capx(strategy): %v is not an interface type", it))
		}
	}
	return supertypeStrategy{ifaces: interfaces}
}

type supertypeStrategy struct {
	ifaces []reflect.Type
}

func (s supertypeStrategy) TryDetect(t apis.TypeIdentifier, cfg apis.Config) (apis.Candidates, bool) {
	rt, ok := reflectOf(t, cfg)
	if !ok {
		return apis.Candidates{}, false
	}
	if rt.Kind() == reflect.Interface {
		return s.polymorphic(rt, cfg)
	}
	var c apis.Candidates
	for _, it := range s.ifaces {
		if !implements(rt, it) {
			continue
		}
		if id, ok := identify(it, cfg); ok {
			c.Supertypes = append(c.Supertypes, id)
		}
	}
	return c, len(c.Supertypes) > 0
}

func (s supertypeStrategy) polymorphic(rt reflect.Type, cfg apis.Config) (apis.Candidates, bool) {
	known := false
	for _, it := range s.ifaces {
		if sameType(it, rt, cfg) {
			known = true
			break
		}
	}
	str, ok := identify(reflect.TypeOf(""), cfg)
	if !known || !ok {
		return apis.Candidates{}, false
	}
	tag := []apis.Field{{Name: "type", Type: str, Origin: apis.OriginCustom, Member: "type", Exported: true}}
	return apis.Candidates{
		Serializers: []*apis.Serializer{{
			Shape: apis.ShapeObject, Origin: apis.OriginCustom, Name: "polymorphic",
			Fields: tag, Exported: true,
		}},
		Deserializers: []*apis.Deserializer{{
			Shape: apis.ShapeObject, Origin: apis.OriginCustom, Name: "polymorphic",
			Parameters: tag, Exported: true,
		}},
	}, true
}
