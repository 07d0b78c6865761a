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

package config

import (
	"dirpx.dev/capx/apis"
)

const (
	// DefaultMaxRounds represents the default for MaxRounds.
	// Every round either adds a reason for a new (type, capability) pair or
	// retracts one, so real graphs stay far below this.
	DefaultMaxRounds = 1024
	// DefaultMaxSignals represents the default for MaxSignals.
	DefaultMaxSignals = 1 << 20
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultIncludeBuiltins represents the default for IncludeBuiltins.
	DefaultIncludeBuiltins = true
	// DefaultPrimitiveSerializerName is the preferred primitive serializer method.
	DefaultPrimitiveSerializerName = "MarshalText"
	// DefaultPrimitiveFactoryName is the preferred primitive factory.
	DefaultPrimitiveFactoryName = "UnmarshalText"
	// DefaultObjectFactoryName is the preferred object factory.
	DefaultObjectFactoryName = "Deserialize"
	// DefaultCacheSize represents the default for CacheSize.
	DefaultCacheSize = 1024
)

// DefaultPrimitiveBaseTypes is the default symmetry order of primitive
// representations.
func DefaultPrimitiveBaseTypes() []string {
	return []string{"string", "int64", "int", "float64", "bool"}
}

// DefaultDeniedSerializerNames lists the method names never used as serializers.
func DefaultDeniedSerializerNames() []string {
	return []string{"GoString"}
}

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return normalize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxRounds:                        DefaultMaxRounds,
		MaxSignals:                       DefaultMaxSignals,
		MaxUnwrap:                        DefaultMaxUnwrap,
		IncludeBuiltins:                  DefaultIncludeBuiltins,
		PreferredPrimitiveSerializerName: DefaultPrimitiveSerializerName,
		PreferredPrimitiveFactoryName:    DefaultPrimitiveFactoryName,
		PreferredObjectFactoryName:       DefaultObjectFactoryName,
		PrimitiveBaseTypes:               DefaultPrimitiveBaseTypes(),
		DeniedSerializerNames:            DefaultDeniedSerializerNames(),
		CacheSize:                        DefaultCacheSize,
	}
}

func normalize(cfg apis.Config) apis.Config {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.MaxSignals <= 0 {
		cfg.MaxSignals = DefaultMaxSignals
	}
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.CacheSize < 0 {
		cfg.CacheSize = 0
	}
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxRounds sets the MaxRounds option.
// A non-positive value resets to the default.
func WithMaxRounds(n int) Option {
	return func(c *apis.Config) {
		c.MaxRounds = n
	}
}

// WithMaxSignals sets the MaxSignals option.
// A non-positive value resets to the default.
func WithMaxSignals(n int) Option {
	return func(c *apis.Config) {
		c.MaxSignals = n
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithIncludeBuiltins sets the IncludeBuiltins option.
func WithIncludeBuiltins(include bool) Option {
	return func(c *apis.Config) {
		c.IncludeBuiltins = include
	}
}

// WithPreferredNames sets the preferred primitive serializer, primitive
// factory and object factory names. Empty values keep the current setting.
func WithPreferredNames(primitiveSerializer, primitiveFactory, objectFactory string) Option {
	return func(c *apis.Config) {
		if primitiveSerializer != "" {
			c.PreferredPrimitiveSerializerName = primitiveSerializer
		}
		if primitiveFactory != "" {
			c.PreferredPrimitiveFactoryName = primitiveFactory
		}
		if objectFactory != "" {
			c.PreferredObjectFactoryName = objectFactory
		}
	}
}

// WithPrimitiveBaseTypes replaces the primitive symmetry order.
func WithPrimitiveBaseTypes(types ...string) Option {
	return func(c *apis.Config) {
		c.PrimitiveBaseTypes = append([]string(nil), types...)
	}
}

// WithDeniedSerializerNames replaces the denied serializer method names.
func WithDeniedSerializerNames(names ...string) Option {
	return func(c *apis.Config) {
		c.DeniedSerializerNames = append([]string(nil), names...)
	}
}

// WithInjectedTypes appends type descriptions that are injected at runtime.
func WithInjectedTypes(types ...string) Option {
	return func(c *apis.Config) {
		c.InjectedTypes = append(c.InjectedTypes, types...)
	}
}

// WithCacheSize sets the CacheSize option. Zero disables the detection cache.
func WithCacheSize(n int) Option {
	return func(c *apis.Config) {
		c.CacheSize = n
	}
}
