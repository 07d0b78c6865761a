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

package config_test

import (
	"reflect"
	"strings"
	"testing"

	"dirpx.dev/capx/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.MaxRounds != config.DefaultMaxRounds {
		t.Fatalf("MaxRounds = %d, want %d", got.MaxRounds, config.DefaultMaxRounds)
	}
	if got.MaxSignals != config.DefaultMaxSignals {
		t.Fatalf("MaxSignals = %d, want %d", got.MaxSignals, config.DefaultMaxSignals)
	}
	if got.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want %d", got.MaxUnwrap, config.DefaultMaxUnwrap)
	}
	if got.IncludeBuiltins != config.DefaultIncludeBuiltins {
		t.Fatalf("IncludeBuiltins = %v, want %v", got.IncludeBuiltins, config.DefaultIncludeBuiltins)
	}
	if got.PreferredObjectFactoryName != config.DefaultObjectFactoryName {
		t.Fatalf("PreferredObjectFactoryName = %q, want %q", got.PreferredObjectFactoryName, config.DefaultObjectFactoryName)
	}
	if !reflect.DeepEqual(got.PrimitiveBaseTypes, config.DefaultPrimitiveBaseTypes()) {
		t.Fatalf("PrimitiveBaseTypes = %v, want %v", got.PrimitiveBaseTypes, config.DefaultPrimitiveBaseTypes())
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if !reflect.DeepEqual(got, def) {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestDefaultConfig_ReturnsFreshSlices(t *testing.T) {
	a := config.DefaultConfig()
	a.PrimitiveBaseTypes[0] = "mutated"
	b := config.DefaultConfig()
	if b.PrimitiveBaseTypes[0] == "mutated" {
		t.Fatalf("DefaultConfig shares PrimitiveBaseTypes between calls")
	}
}

func TestWithMaxRounds_NonPositive_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithMaxRounds(0))
	if c.MaxRounds != config.DefaultMaxRounds {
		t.Fatalf("MaxRounds = %d, want default %d", c.MaxRounds, config.DefaultMaxRounds)
	}
	c = config.NewConfig(config.WithMaxRounds(7))
	if c.MaxRounds != 7 {
		t.Fatalf("MaxRounds = %d, want 7", c.MaxRounds)
	}
}

func TestWithMaxUnwrap_Negative_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(-1))
	if c.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want default %d", c.MaxUnwrap, config.DefaultMaxUnwrap)
	}
}

func TestWithPreferredNames_EmptyKeepsCurrent(t *testing.T) {
	c := config.NewConfig(config.WithPreferredNames("", "Parse", ""))
	if c.PreferredPrimitiveSerializerName != config.DefaultPrimitiveSerializerName {
		t.Fatalf("PreferredPrimitiveSerializerName = %q, want default", c.PreferredPrimitiveSerializerName)
	}
	if c.PreferredPrimitiveFactoryName != "Parse" {
		t.Fatalf("PreferredPrimitiveFactoryName = %q, want Parse", c.PreferredPrimitiveFactoryName)
	}
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithIncludeBuiltins(false),
		config.WithIncludeBuiltins(true),
		config.WithMaxUnwrap(2),
		config.WithMaxUnwrap(5),
		config.WithPrimitiveBaseTypes("int"),
		config.WithPrimitiveBaseTypes("string", "bool"),
	)

	if !c.IncludeBuiltins {
		t.Errorf("IncludeBuiltins = %v, want true (last option wins)", c.IncludeBuiltins)
	}
	if c.MaxUnwrap != 5 {
		t.Errorf("MaxUnwrap = %d, want 5 (last option wins)", c.MaxUnwrap)
	}
	if want := []string{"string", "bool"}; !reflect.DeepEqual(c.PrimitiveBaseTypes, want) {
		t.Errorf("PrimitiveBaseTypes = %v, want %v (last option wins)", c.PrimitiveBaseTypes, want)
	}
}

func TestWithInjectedTypes_Appends(t *testing.T) {
	c := config.NewConfig(config.WithInjectedTypes("a.Clock"), config.WithInjectedTypes("a.Logger"))
	if want := []string{"a.Clock", "a.Logger"}; !reflect.DeepEqual(c.InjectedTypes, want) {
		t.Fatalf("InjectedTypes = %v, want %v", c.InjectedTypes, want)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	doc := `
max_rounds: 12
preferred_object_factory: Build
primitive_base_types: [string]
injected_types: [app.Clock]
`
	c, err := config.Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.MaxRounds != 12 {
		t.Fatalf("MaxRounds = %d, want 12", c.MaxRounds)
	}
	if c.PreferredObjectFactoryName != "Build" {
		t.Fatalf("PreferredObjectFactoryName = %q, want Build", c.PreferredObjectFactoryName)
	}
	if want := []string{"string"}; !reflect.DeepEqual(c.PrimitiveBaseTypes, want) {
		t.Fatalf("PrimitiveBaseTypes = %v, want %v", c.PrimitiveBaseTypes, want)
	}
	if c.MaxSignals != config.DefaultMaxSignals {
		t.Fatalf("MaxSignals = %d, want default %d", c.MaxSignals, config.DefaultMaxSignals)
	}
}

func TestLoad_EmptyDocument_YieldsDefaults(t *testing.T) {
	c, err := config.Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(c, config.DefaultConfig()) {
		t.Fatalf("Load(\"\") = %+v, want defaults", c)
	}
}

func TestLoad_UnknownKey_Fails(t *testing.T) {
	if _, err := config.Load(strings.NewReader("no_such_knob: 1\n")); err == nil {
		t.Fatalf("Load with unknown key: expected error")
	}
}

func TestLoad_OptionsApplyAfterDocument(t *testing.T) {
	c, err := config.Load(strings.NewReader("max_rounds: 3\n"), config.WithMaxRounds(9))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.MaxRounds != 9 {
		t.Fatalf("MaxRounds = %d, want 9", c.MaxRounds)
	}
}

func TestMarshal_RoundTripsThroughLoad(t *testing.T) {
	in := config.NewConfig(config.WithMaxRounds(42), config.WithInjectedTypes("x.Y"))
	out, err := config.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	back, err := config.Load(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Fatalf("round trip = %+v, want %+v", back, in)
	}
}
