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

package apis

// Strategy is a pluggable candidate source. A Detector chains strategies in
// order and merges whatever each of them proposes.
type Strategy interface {
	// TryDetect proposes candidates for t according to cfg.
	// It returns (candidates, true) if it recognized t; otherwise false to fall through.
	TryDetect(t TypeIdentifier, cfg Config) (Candidates, bool)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(t TypeIdentifier, cfg Config) (Candidates, bool)

// TryDetect calls f.
func (f StrategyFunc) TryDetect(t TypeIdentifier, cfg Config) (Candidates, bool) { return f(t, cfg) }

// CandidateProvider is implemented by types that describe their own
// candidates instead of relying on reflection.
type CandidateProvider interface {
	CapabilityCandidates(cfg Config) Candidates
}
