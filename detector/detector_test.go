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

package detector_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/capx/apis"
	"dirpx.dev/capx/config"
	"dirpx.dev/capx/debug"
	"dirpx.dev/capx/detector"
	"dirpx.dev/capx/disambiguator"
	"dirpx.dev/capx/strategy"
	uref "dirpx.dev/capx/utils/reflect"
)

type Handler func()

type Point struct {
	X int64
	Y int64
}

func primitive(name string) apis.Candidates {
	return apis.Candidates{
		Serializers:   []*apis.Serializer{{Shape: apis.ShapePrimitive, Origin: apis.OriginMethod, Name: name, BaseType: "string", Exported: true}},
		Deserializers: []*apis.Deserializer{{Shape: apis.ShapePrimitive, Origin: apis.OriginMethod, Name: name, BaseType: "string", Exported: true}},
	}
}

func TestDetect_MergesStrategiesInOrder(t *testing.T) {
	cfg := config.NewConfig()
	first := apis.StrategyFunc(func(apis.TypeIdentifier, apis.Config) (apis.Candidates, bool) {
		return primitive("MarshalText"), true
	})
	skipped := apis.StrategyFunc(func(apis.TypeIdentifier, apis.Config) (apis.Candidates, bool) {
		return primitive("Ignored"), false
	})
	second := apis.StrategyFunc(func(apis.TypeIdentifier, apis.Config) (apis.Candidates, bool) {
		return apis.Candidates{Supertypes: []apis.TypeIdentifier{apis.NewType("Iface")}}, true
	})

	d := detector.New(cfg, disambiguator.New(cfg), first, nil, skipped, second)
	var trail debug.Trail
	b, err := d.Detect(apis.NewType("Virtual"), apis.SetOf(apis.Serialization), &trail)
	require.NoError(t, err)
	assert.Equal(t, "MarshalText", b.Serializer.Name)
	assert.Equal(t, []apis.TypeIdentifier{apis.NewType("Iface")}, b.Supertypes)
	assert.Contains(t, trail.Lines()[0], "collected 1 serializer(s), 1 deserializer(s)")
}

func TestDetect_Unrecognized(t *testing.T) {
	cfg := config.NewConfig()
	d := detector.New(cfg, disambiguator.New(cfg))

	_, err := d.Detect(apis.NewType("Virtual"), apis.Duplex, nil)
	assert.ErrorIs(t, err, apis.ErrUndetectable)

	handler, err := uref.Identify(reflect.TypeOf(Handler(nil)), cfg)
	require.NoError(t, err)
	_, err = d.Detect(handler, apis.Duplex, nil)
	assert.ErrorIs(t, err, apis.ErrStructural)
}

func TestDetect_ReflectionStack(t *testing.T) {
	cfg := config.NewConfig()
	d := detector.New(cfg, disambiguator.New(cfg),
		strategy.NewBuiltinStrategy(),
		strategy.NewTextStrategy(),
		strategy.NewFieldStrategy(),
	)
	id, err := uref.Identify(reflect.TypeOf(Point{}), cfg)
	require.NoError(t, err)

	b, err := d.Detect(id, apis.Duplex, nil)
	require.NoError(t, err)
	assert.Equal(t, apis.ShapeObject, b.Serializer.Shape)
	assert.Equal(t, []string{"X", "Y"}, b.Serializer.FieldNames())
	assert.Equal(t, []string{"X", "Y"}, b.Deserializer.ParameterNames())
}

func TestCached_ReplaysDiagnostics(t *testing.T) {
	calls := 0
	inner := apis.DetectorFunc(func(t apis.TypeIdentifier, _ apis.CapabilitySet, sink apis.DiagnosticSink) (apis.Bundle, error) {
		calls++
		sink.Ignore("candidate", "not preferred")
		sink.Note("picked one")
		return apis.Bundle{}, apis.Undetectable(t, "nope")
	})
	d, err := detector.Cached(inner, 8)
	require.NoError(t, err)

	typ := apis.NewType("T")
	var first, second debug.Trail
	_, err1 := d.Detect(typ, apis.Duplex, &first)
	_, err2 := d.Detect(typ, apis.Duplex, &second)
	_, _ = d.Detect(typ, apis.SetOf(apis.Serialization), nil)

	assert.Equal(t, 2, calls, "a different capability set is a different key")
	assert.Equal(t, err1, err2)
	assert.Equal(t, first.Lines(), second.Lines())
	assert.Equal(t, 2, d.(detector.Sizer).Len())
}

func TestCached_HitsAreIsolatedCopies(t *testing.T) {
	x := apis.Field{Name: "x", Type: apis.NewType("int64"), Origin: apis.OriginField, Member: "X", Exported: true}
	inner := apis.DetectorFunc(func(apis.TypeIdentifier, apis.CapabilitySet, apis.DiagnosticSink) (apis.Bundle, error) {
		return apis.Bundle{
			Serializer:   &apis.Serializer{Shape: apis.ShapeObject, Origin: apis.OriginField, Fields: []apis.Field{x}},
			Deserializer: &apis.Deserializer{Shape: apis.ShapeObject, Origin: apis.OriginConstructor, Name: "New", Parameters: []apis.Field{x}},
			Supertypes:   []apis.TypeIdentifier{apis.NewType("Iface")},
		}, nil
	})
	d, err := detector.Cached(inner, 8)
	require.NoError(t, err)

	typ := apis.NewType("T")
	first, err := d.Detect(typ, apis.Duplex, nil)
	require.NoError(t, err)
	first.Serializer.Fields[0].Name = "mutated"
	first.Deserializer.Parameters = nil
	first.Supertypes[0] = apis.NewType("Other")

	second, err := d.Detect(typ, apis.Duplex, nil)
	require.NoError(t, err)
	assert.NotSame(t, first.Serializer, second.Serializer)
	assert.Equal(t, "x", second.Serializer.Fields[0].Name)
	assert.Equal(t, []string{"x"}, second.Deserializer.ParameterNames())
	assert.Equal(t, []apis.TypeIdentifier{apis.NewType("Iface")}, second.Supertypes)
}

func TestCached_Disabled(t *testing.T) {
	inner := apis.DetectorFunc(func(apis.TypeIdentifier, apis.CapabilitySet, apis.DiagnosticSink) (apis.Bundle, error) {
		return apis.Bundle{}, nil
	})
	d, err := detector.Cached(inner, 0)
	require.NoError(t, err)
	_, isSizer := d.(detector.Sizer)
	assert.False(t, isSizer)
}

func TestNew_NilDisambiguatorPanics(t *testing.T) {
	assert.Panics(t, func() { detector.New(config.NewConfig(), nil) })
}
