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

package apis_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/capx/apis"
)

func TestTypeIdentifier_EqualityAndDescription(t *testing.T) {
	a := apis.NewType("A")
	pair := apis.NewType("geo.Pair", a, apis.NewType("B"))

	assert.Equal(t, "geo.Pair[A,B]", pair.Description())
	assert.Equal(t, "Pair", pair.SimpleName())
	assert.Equal(t, pair, apis.NewType("geo.Pair", apis.NewType("A"), apis.NewType("B")))
	assert.NotEqual(t, pair, pair.WithScope("v2"))
	assert.Equal(t, "geo.Pair[A,B]@v2", pair.WithScope("v2").String())

	backed := apis.NewReflectType(reflect.TypeOf(""), "A")
	assert.NotEqual(t, a, backed, "a backed identifier differs from a virtual one")
	assert.True(t, apis.TypeIdentifier{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestCapability_ParseAndText(t *testing.T) {
	for _, c := range apis.Capabilities {
		text, err := c.MarshalText()
		require.NoError(t, err)
		var back apis.Capability
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}

	got, err := apis.ParseCapability("  Object-Enforcing ")
	require.NoError(t, err)
	assert.Equal(t, apis.ObjectEnforcing, got)

	_, err = apis.ParseCapability("")
	assert.Error(t, err)
	_, err = apis.ParseCapability("streaming")
	assert.Error(t, err)
	_, err = apis.Capability(9).MarshalText()
	assert.Error(t, err)
}

func TestCapabilitySet(t *testing.T) {
	s := apis.SetOf(apis.Serialization, apis.ObjectEnforcing)

	assert.True(t, s.Has(apis.ObjectEnforcing))
	assert.Equal(t, apis.SetOf(apis.Serialization), s.Primary())
	assert.True(t, s.IsSerializationOnly())
	assert.Equal(t, "serialization", s.Describe())
	assert.Equal(t, "serialization|object-enforcing", s.String())
	assert.Equal(t, "duplex", s.With(apis.Deserialization).Describe())
	assert.Equal(t, "nothing", apis.SetOf(apis.InlinedPrimitive).Describe())
	assert.Equal(t, "none", apis.CapabilitySet(0).String())
	assert.True(t, s.Without(apis.Serialization).Without(apis.ObjectEnforcing).IsEmpty())
	assert.Equal(t, []apis.Capability{apis.Serialization, apis.Deserialization}, apis.Duplex.Slice())
}

func TestReason(t *testing.T) {
	pair := apis.NewType("Pair", apis.NewType("A"))

	manual := apis.ManuallyAdded()
	assert.False(t, manual.IsTransitive())
	assert.Equal(t, "manually added", manual.String())
	assert.Equal(t, manual, apis.ManuallyAdded())

	because := apis.BecauseOf(pair)
	parent, ok := because.Parent()
	require.True(t, ok)
	assert.Equal(t, pair, parent)
	assert.Equal(t, "because of Pair[A]", because.String())
	assert.NotEqual(t, because, apis.ReasonOf("because of Pair[A]"), "a transitive reason is not a plain text")
}

func TestSignal_String(t *testing.T) {
	a := apis.NewType("A")
	add := apis.AddRequirementSignal(a, apis.Serialization, apis.ManuallyAdded())
	assert.True(t, add.IsTargeted())
	assert.True(t, add.Kind.IsRequirementChange())
	assert.Contains(t, add.String(), "serialization on A (manually added)")

	retract := apis.RetractReasonSignal(apis.BecauseOf(a))
	assert.False(t, retract.IsTargeted())
	assert.Contains(t, retract.String(), "(because of A)")
	assert.False(t, apis.DetectSignal().Kind.IsRequirementChange())
}

func TestDetectionError(t *testing.T) {
	a := apis.NewType("A")

	amb := apis.Ambiguous(a, "cannot decide between deserializers", []string{"NewA", "ParseA"})
	assert.ErrorIs(t, amb, apis.ErrAmbiguous)
	assert.Equal(t, "A: cannot decide between deserializers [NewA; ParseA]", amb.Error())

	wrapped := apis.AsDetectionError(a, errors.New("boom"))
	assert.ErrorIs(t, wrapped, apis.ErrUndetectable)
	assert.Equal(t, "A: boom", wrapped.Error())

	untyped := apis.AsDetectionError(a, apis.Structural(apis.TypeIdentifier{}, "func types are not supported"))
	assert.ErrorIs(t, untyped, apis.ErrStructural)
	assert.Equal(t, a, untyped.Type)

	assert.Nil(t, apis.AsDetectionError(a, nil))
}

func TestInvariant_Panics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, apis.ErrInvariant)
		var ie *apis.InvariantError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "state.Transition", ie.Op)
	}()
	apis.Invariant("state.Transition", "unknown signal kind %d", 9)
}

func TestBundle_Supports(t *testing.T) {
	ser := &apis.Serializer{Shape: apis.ShapePrimitive, Origin: apis.OriginBuiltin, Name: "string", BaseType: "string"}
	b := apis.Bundle{Serializer: ser}

	assert.True(t, b.Supports(apis.SetOf(apis.Serialization, apis.ObjectEnforcing)))
	assert.False(t, b.Supports(apis.Duplex))
	assert.True(t, apis.Bundle{}.IsZero())
	assert.Equal(t, "primitive serializer via builtin string (string)", ser.Description())
}

func TestSerializer_RequiredTypesSkipInjected(t *testing.T) {
	a, ctx := apis.NewType("A"), apis.NewType("Context")
	de := &apis.Deserializer{
		Shape: apis.ShapeObject, Origin: apis.OriginConstructor, Name: "NewPair",
		Parameters: []apis.Field{
			{Name: "left", Type: a}, {Name: "right", Type: a}, {Name: "ctx", Type: ctx, Injected: true},
		},
	}
	assert.Equal(t, []apis.TypeIdentifier{a}, de.RequiredTypes())
	assert.Equal(t, []string{"left", "right", "ctx"}, de.ParameterNames())
}
