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

// DiagnosticSink receives diagnostics produced while detecting one type.
// Entries are informational only and never influence control flow.
type DiagnosticSink interface {
	// Ignore records that subject (a candidate description) was discarded.
	Ignore(subject, reason string)
	// Note records a free-form detection note.
	Note(msg string)
}

// NopSink discards all diagnostics.
type NopSink struct{}

func (NopSink) Ignore(string, string) {}
func (NopSink) Note(string)           {}

// Detector is the boundary to type introspection: given a type and the
// capabilities currently required, it returns a bundle or a failure.
// Failures should be *DetectionError values so the kind survives aggregation.
type Detector interface {
	Detect(t TypeIdentifier, required CapabilitySet, sink DiagnosticSink) (Bundle, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(t TypeIdentifier, required CapabilitySet, sink DiagnosticSink) (Bundle, error)

// Detect calls f.
func (f DetectorFunc) Detect(t TypeIdentifier, required CapabilitySet, sink DiagnosticSink) (Bundle, error) {
	return f(t, required, sink)
}

// Disambiguator reduces raw candidates to at most one serializer and one
// deserializer, or fails with an ambiguity, asymmetry or structural error.
type Disambiguator interface {
	Disambiguate(t TypeIdentifier, c Candidates, required CapabilitySet, sink DiagnosticSink) (Bundle, error)
}
