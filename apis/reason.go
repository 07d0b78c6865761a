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

// Reason is the cause recorded for why a capability is required on a type.
//
// A Reason is either a root reason ("manually added", or any other free text
// supplied by the caller) or a transitive reason pointing at the type whose
// resolved candidate required it. Reasons are comparable values; the tracker
// keys its multisets by them.
type Reason struct {
	text   string
	parent TypeIdentifier
}

// ManuallyAdded is the reason used for explicitly requested roots.
func ManuallyAdded() Reason {
	return Reason{text: "manually added"}
}

// ReasonOf constructs a root reason with a custom text.
func ReasonOf(text string) Reason {
	return Reason{text: text}
}

// BecauseOf constructs the transitive reason "required because of parent".
func BecauseOf(parent TypeIdentifier) Reason {
	return Reason{text: "because of " + parent.Description(), parent: parent}
}

// IsTransitive reports whether r points at a requiring type.
func (r Reason) IsTransitive() bool { return !r.parent.IsZero() }

// Parent returns the requiring type of a transitive reason.
func (r Reason) Parent() (TypeIdentifier, bool) {
	return r.parent, r.IsTransitive()
}

// String returns the human-readable text.
func (r Reason) String() string { return r.text }

// MarshalText renders the text so reasons can appear in YAML dumps.
func (r Reason) MarshalText() ([]byte, error) { return []byte(r.text), nil }
