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

var providerType = reflect.TypeOf((*apis.CandidateProvider)(nil)).Elem()

// NewProviderStrategy creates an apis.Strategy that asks types implementing
// apis.CandidateProvider (on the value or the pointer) for their candidates.
// The method is called on a zero value.
func NewProviderStrategy() apis.Strategy {
	return &providerStrategy{}
}

// providerStrategy is a fast path: no field or method scanning happens for
// self-describing types.
type providerStrategy struct{}

// Ensure providerStrategy implements apis.Strategy.
var _ apis.Strategy = (*providerStrategy)(nil)

// TryDetect calls CapabilityCandidates on a zero value of t.
func (*providerStrategy) TryDetect(t apis.TypeIdentifier, cfg apis.Config) (apis.Candidates, bool) {
	rt, ok := reflectOf(t, cfg)
	if !ok || !implements(rt, providerType) {
		return apis.Candidates{}, false
	}
	// The pointer method set includes value receivers.
	p, ok := reflect.New(rt).Interface().(apis.CandidateProvider)
	if !ok {
		return apis.Candidates{}, false
	}
	return p.CapabilityCandidates(cfg), true
}
