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

package builder

import (
	"reflect"

	"dirpx.dev/capx/apis"
	"dirpx.dev/capx/detector"
	"dirpx.dev/capx/disambiguator"
	"dirpx.dev/capx/registry"
	"dirpx.dev/capx/resolver"
	"dirpx.dev/capx/strategy"
)

// Extensions is the ext value understood by this builder. Both Extensions
// and *Extensions are accepted; any other ext is ignored.
type Extensions struct {
	// Factories are explicitly registered mapping functions.
	Factories []strategy.Factory
	// Supertypes are the interfaces detected types may implement.
	Supertypes []reflect.Type
	// Strategies run before the default strategies.
	Strategies []apis.Strategy
	// Propagators replace the default resolver propagators.
	Propagators []resolver.Propagator
	// Disambiguation customizes the selection pipeline.
	Disambiguation []disambiguator.Option
}

func extensions(ext any) Extensions {
	switch e := ext.(type) {
	case Extensions:
		return e
	case *Extensions:
		if e != nil {
			return *e
		}
	}
	return Extensions{}
}

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new registry for cfg. Entries of a previous registry
// are copied into it.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg)
	if preg != nil {
		for _, e := range preg.Entries() {
			_ = nreg.Register(e.Type, e.Bundle)
		}
	}
	return nreg
}

// BuildResolver returns the previous resolver if there is one and no
// propagators are supplied through ext; otherwise it builds a new one.
func (b *builder) BuildResolver(_ apis.Config, pres apis.Resolver, ext any) apis.Resolver {
	x := extensions(ext)
	if pres != nil && len(x.Propagators) == 0 {
		return pres
	}
	return resolver.New(x.Propagators...)
}

// BuildDisambiguator builds the default selection pipeline for cfg.
func (b *builder) BuildDisambiguator(cfg apis.Config, ext any) apis.Disambiguator {
	return disambiguator.New(cfg, extensions(ext).Disambiguation...)
}

// BuildDetector builds a reflection detector over the default strategies,
// memoized with an LRU cache when cfg.CacheSize is positive.
func (b *builder) BuildDetector(cfg apis.Config, dis apis.Disambiguator, ext any) apis.Detector {
	x := extensions(ext)
	strategies := append([]apis.Strategy(nil), x.Strategies...)
	strategies = append(strategies,
		strategy.NewProviderStrategy(),
		strategy.NewFactoryStrategy(x.Factories...),
		strategy.NewBuiltinStrategy(),
		strategy.NewTextStrategy(),
		strategy.NewFieldStrategy(),
		strategy.NewCollectionStrategy(),
		strategy.NewSupertypeStrategy(x.Supertypes...),
	)
	d := detector.New(cfg, dis, strategies...)
	cached, err := detector.Cached(d, cfg.CacheSize)
	if err != nil {
		return d
	}
	return cached
}
