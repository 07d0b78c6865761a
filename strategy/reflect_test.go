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
	"testing"

	"dirpx.dev/capx/apis"
	uref "dirpx.dev/capx/utils/reflect"
)

// Local test types.
type Email string

func (e Email) MarshalText() ([]byte, error) { return []byte(e), nil }
func (e *Email) UnmarshalText(b []byte) error {
	*e = Email(b)
	return nil
}
func (e Email) GoString() string { return "Email(" + string(e) + ")" }

type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

type Account struct {
	ID    string
	email Email
	note  string
	Skip  int `json:"-"`
}

func (a Account) Email() Email { return a.email }

type Tags []string

type Shape interface{ Area() float64 }

func (Point) Area() float64 { return 0 }

type Self struct{}

func (*Self) CapabilityCandidates(apis.Config) apis.Candidates {
	return apis.Candidates{Serializers: []*apis.Serializer{{Shape: apis.ShapePrimitive, Name: "self", BaseType: "string", Exported: true}}}
}

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{IncludeBuiltins: true, MaxUnwrap: 8}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func id(t *testing.T, v any) apis.TypeIdentifier {
	t.Helper()
	got, err := uref.Identify(reflect.TypeOf(v), cfg())
	if err != nil {
		t.Fatalf("Identify(%T): %v", v, err)
	}
	return got
}

func TestStrategies_IgnoreVirtualTypes(t *testing.T) {
	virtual := apis.NewType("Virtual")
	for _, s := range []apis.Strategy{
		NewBuiltinStrategy(), NewTextStrategy(), NewFieldStrategy(), NewCollectionStrategy(),
		NewProviderStrategy(), NewFactoryStrategy(), NewSupertypeStrategy(),
	} {
		if _, ok := s.TryDetect(virtual, cfg()); ok {
			t.Fatalf("%T handled a virtual type", s)
		}
	}
}

func TestBuiltinStrategy(t *testing.T) {
	s := NewBuiltinStrategy()

	cases := []struct {
		name       string
		val        any
		cfg        apis.Config
		wantOK     bool
		wantOrigin apis.Origin
		wantBase   string
	}{
		{"builtin visible", 42, cfg(), true, apis.OriginBuiltin, "int64"},
		{"builtin hidden", 42, cfg(func(c *apis.Config) { c.IncludeBuiltins = false }), false, 0, ""},
		{"string", "s", cfg(), true, apis.OriginBuiltin, "string"},
		{"conversion", Email(""), cfg(), true, apis.OriginConversion, "string"},
		{"conversion ignores IncludeBuiltins", Email(""), cfg(func(c *apis.Config) { c.IncludeBuiltins = false }), true, apis.OriginConversion, "string"},
		{"struct", Point{}, cfg(), false, 0, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, ok := s.TryDetect(id(t, tc.val), tc.cfg)
			if ok != tc.wantOK {
				t.Fatalf("TryDetect ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if len(c.Serializers) != 1 || len(c.Deserializers) != 1 {
				t.Fatalf("got %d serializers / %d deserializers, want 1/1", len(c.Serializers), len(c.Deserializers))
			}
			if c.Serializers[0].Origin != tc.wantOrigin || c.Serializers[0].BaseType != tc.wantBase {
				t.Fatalf("serializer = %s, want origin %s base %s", c.Serializers[0].Description(), tc.wantOrigin, tc.wantBase)
			}
		})
	}
}

func TestTextStrategy(t *testing.T) {
	c, ok := NewTextStrategy().TryDetect(id(t, Email("")), cfg())
	if !ok {
		t.Fatalf("TryDetect(Email) ok = false")
	}
	var names []string
	for _, s := range c.Serializers {
		names = append(names, s.Name)
	}
	if want := []string{"MarshalText", "GoString"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("serializer names = %v, want %v", names, want)
	}
	if len(c.Deserializers) != 1 || c.Deserializers[0].Name != "UnmarshalText" {
		t.Fatalf("deserializers = %v, want UnmarshalText (pointer receiver)", c.Deserializers)
	}

	if _, ok := NewTextStrategy().TryDetect(id(t, Point{}), cfg()); ok {
		t.Fatalf("TryDetect(Point) ok = true, want false")
	}
}

func TestFieldStrategy_ExportedStruct(t *testing.T) {
	c, ok := NewFieldStrategy().TryDetect(id(t, &Point{}), cfg())
	if !ok {
		t.Fatalf("TryDetect(Point) ok = false")
	}
	if got := c.Serializers[0].FieldNames(); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("field names = %v, want [x y]", got)
	}
	if len(c.Deserializers) != 1 || c.Deserializers[0].Origin != apis.OriginSetter {
		t.Fatalf("deserializers = %v, want one setter deserializer", c.Deserializers)
	}
	if got := c.Deserializers[0].RequiredTypes(); len(got) != 1 || got[0].Description() != "int64" {
		t.Fatalf("required types = %v, want [int64]", got)
	}
}

func TestFieldStrategy_UnexportedFieldsAndGetters(t *testing.T) {
	c, ok := NewFieldStrategy().TryDetect(id(t, Account{}), cfg())
	if !ok {
		t.Fatalf("TryDetect(Account) ok = false")
	}
	if len(c.Deserializers) != 0 {
		t.Fatalf("deserializers = %v, want none for unexported fields", c.Deserializers)
	}
	var got []string
	for _, f := range c.Serializers[0].Fields {
		got = append(got, f.Name+"/"+f.Origin.String()+"/"+f.Member)
	}
	want := []string{"ID/field/ID", "email/field/email", "email/getter/Email", "note/field/note"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("field options = %v, want %v", got, want)
	}
}

func TestCollectionStrategy(t *testing.T) {
	cases := []struct {
		name string
		val  any
		want []string
	}{
		{"named slice", Tags{}, []string{"string"}},
		{"slice of structs", []Point{}, []string{"strategy.Point"}},
		{"map", map[string]Point{}, []string{"string", "strategy.Point"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, ok := NewCollectionStrategy().TryDetect(id(t, tc.val), cfg())
			if !ok {
				t.Fatalf("TryDetect ok = false")
			}
			var got []string
			for _, rt := range c.Deserializers[0].RequiredTypes() {
				got = append(got, rt.Description())
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("required types = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFactoryStrategy(t *testing.T) {
	s := NewFactoryStrategy(
		Factory{Name: "ParseEmail", Func: func(s string) (Email, error) { return Email(s), nil }},
		Factory{Name: "FormatEmail", Func: func(e Email) string { return string(e) }},
		Factory{Name: "NewPoint", Func: func(x, y int64) *Point { return &Point{X: x, Y: y} }, Params: []string{"x", "y"}},
	)

	c, ok := s.TryDetect(id(t, Email("")), cfg())
	if !ok {
		t.Fatalf("TryDetect(Email) ok = false")
	}
	if len(c.Deserializers) != 1 || c.Deserializers[0].Name != "ParseEmail" || c.Deserializers[0].Shape != apis.ShapePrimitive {
		t.Fatalf("deserializers = %v, want primitive ParseEmail", c.Deserializers)
	}
	if len(c.Serializers) != 1 || c.Serializers[0].Name != "FormatEmail" {
		t.Fatalf("serializers = %v, want FormatEmail", c.Serializers)
	}

	c, ok = s.TryDetect(id(t, Point{}), cfg())
	if !ok {
		t.Fatalf("TryDetect(Point) ok = false")
	}
	if got := c.Deserializers[0].ParameterNames(); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("parameter names = %v, want [x y]", got)
	}
}

func TestFactoryStrategy_PanicsOnMalformedFactory(t *testing.T) {
	cases := []Factory{
		{Name: "notfunc", Func: 42},
		{Name: "noresult", Func: func(string) {}},
		{Name: "missing names", Func: func(x, y int64) Point { return Point{} }},
		{Name: "struct param", Func: func(p Point) Account { return Account{} }},
	}
	for _, f := range cases {
		t.Run(f.Name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("NewFactoryStrategy(%s) did not panic", f.Name)
				}
			}()
			NewFactoryStrategy(f)
		})
	}
}

func TestProviderStrategy(t *testing.T) {
	c, ok := NewProviderStrategy().TryDetect(id(t, Self{}), cfg())
	if !ok || len(c.Serializers) != 1 || c.Serializers[0].Name != "self" {
		t.Fatalf("TryDetect(Self) = (%v, %v), want the self-described serializer", c, ok)
	}
	if _, ok := NewProviderStrategy().TryDetect(id(t, Point{}), cfg()); ok {
		t.Fatalf("TryDetect(Point) ok = true, want false")
	}
}

func TestSupertypeStrategy(t *testing.T) {
	shape := reflect.TypeOf((*Shape)(nil)).Elem()
	c, ok := NewSupertypeStrategy(shape).TryDetect(id(t, Point{}), cfg())
	if !ok || len(c.Supertypes) != 1 || c.Supertypes[0].Description() != "strategy.Shape" {
		t.Fatalf("TryDetect(Point) = (%v, %v), want supertype strategy.Shape", c.Supertypes, ok)
	}
	if _, ok := NewSupertypeStrategy(shape).TryDetect(id(t, Email("")), cfg()); ok {
		t.Fatalf("TryDetect(Email) ok = true, want false")
	}
}

func TestSupertypeStrategy_Polymorphic(t *testing.T) {
	shape := reflect.TypeOf((*Shape)(nil)).Elem()
	sid, ok := identify(shape, cfg())
	if !ok {
		t.Fatalf("identify(Shape) failed")
	}
	c, ok := NewSupertypeStrategy(shape).TryDetect(sid, cfg())
	if !ok || len(c.Serializers) != 1 || len(c.Deserializers) != 1 {
		t.Fatalf("TryDetect(Shape) = (%v, %v), want one polymorphic pair", c, ok)
	}
	if got := c.Serializers[0].FieldNames(); len(got) != 1 || got[0] != "type" {
		t.Fatalf("polymorphic fields = %v, want [type]", got)
	}
	if _, ok := NewSupertypeStrategy().TryDetect(sid, cfg()); ok {
		t.Fatalf("TryDetect(Shape) without registration ok = true, want false")
	}
}
