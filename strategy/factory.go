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

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Factory is an explicitly registered mapping function.
//
// Func must be one of:
//   - func(P) T or func(P) (T, error) with P a primitive kind and no Params:
//     a primitive deserializer of T;
//   - func(P1, ..., Pn) T or the (T, error) form with len(Params) == n:
//     an object deserializer of T whose parameters are named by Params;
//   - func(T) P with P a primitive kind: a primitive serializer of T.
type Factory struct {
	Name   string
	Func   any
	Params []string
}

type compiled struct {
	product reflect.Type
	build   func(cfg apis.Config) (apis.Candidates, bool)
}

// NewFactoryStrategy creates an apis.Strategy over explicitly registered
// factories, in registration order. It panics on a malformed factory.
func NewFactoryStrategy(factories ...Factory) apis.Strategy {
	s := &factoryStrategy{}
	for _, f := range factories {
		s.entries = append(s.entries, compile(f))
	}
	return s
}

type factoryStrategy struct {
	entries []compiled
}

var _ apis.Strategy = (*factoryStrategy)(nil)

func (s *factoryStrategy) TryDetect(t apis.TypeIdentifier, cfg apis.Config) (apis.Candidates, bool) {
	rt, ok := reflectOf(t, cfg)
	if !ok {
		return apis.Candidates{}, false
	}
	var out apis.Candidates
	handled := false
	for _, e := range s.entries {
		if !sameType(e.product, rt, cfg) {
			continue
		}
		if c, ok := e.build(cfg); ok {
			out = out.Merge(c)
			handled = true
		}
	}
	return out, handled
}

func compile(f Factory) compiled {
	fv := reflect.ValueOf(f.Func)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		panic(fmt.Sprintf("capx(strategy): factory %q is not a function", f.Name))
	}
	ft := fv.Type()
	if ft.NumOut() == 0 || ft.NumOut() > 2 || (ft.NumOut() == 2 && ft.Out(1) != errorType) {
		panic(fmt.Sprintf("capx(strategy): factory %q must return T or (T, error)", f.Name))
	}
	out := ft.Out(0)

	// Serializer: func(T) P.
	if ft.NumIn() == 1 && ft.NumOut() == 1 && len(f.Params) == 0 && isBuiltin(out) {
		if base, ok := baseType(out.Kind()); ok && !isBuiltin(ft.In(0)) {
			return compiled{product: ft.In(0), build: func(apis.Config) (apis.Candidates, bool) {
				return apis.Candidates{Serializers: []*apis.Serializer{{
					Shape: apis.ShapePrimitive, Origin: apis.OriginCustom, Name: f.Name, BaseType: base, Exported: true, Impl: f.Func,
				}}}, true
			}}
		}
	}

	// Primitive deserializer: func(P) T.
	if ft.NumIn() == 1 && len(f.Params) == 0 {
		base, ok := baseType(ft.In(0).Kind())
		if !ok || !isBuiltin(ft.In(0)) {
			panic(fmt.Sprintf("capx(strategy): factory %q takes a non-primitive parameter and needs Params", f.Name))
		}
		return compiled{product: out, build: func(apis.Config) (apis.Candidates, bool) {
			return apis.Candidates{Deserializers: []*apis.Deserializer{{
				Shape: apis.ShapePrimitive, Origin: apis.OriginConstructor, Name: f.Name, BaseType: base, Exported: true, Impl: f.Func,
			}}}, true
		}}
	}

	// Object deserializer: func(P1, ..., Pn) T.
	if len(f.Params) != ft.NumIn() {
		panic(fmt.Sprintf("capx(strategy): factory %q has %d parameters but %d names", f.Name, ft.NumIn(), len(f.Params)))
	}
	return compiled{product: out, build: func(cfg apis.Config) (apis.Candidates, bool) {
		params := make([]apis.Field, ft.NumIn())
		for i := range params {
			id, ok := identify(ft.In(i), cfg)
			if !ok {
				return apis.Candidates{}, false
			}
			params[i] = apis.Field{Name: f.Params[i], Type: id, Origin: apis.OriginConstructor, Member: f.Name, Exported: true}
		}
		return apis.Candidates{Deserializers: []*apis.Deserializer{{
			Shape: apis.ShapeObject, Origin: apis.OriginConstructor, Name: f.Name, Parameters: params, Exported: true, Impl: f.Func,
		}}}, true
	}}
}
