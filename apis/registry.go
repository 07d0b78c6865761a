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

// Registry holds manually supplied bundles that bypass detection.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register associates a fixed bundle with t.
	// Implementations should be idempotent; conflicting re-registrations return an error.
	Register(t TypeIdentifier, b Bundle) error
	// Lookup returns the override for t if present.
	Lookup(t TypeIdentifier) (Bundle, bool)
	// Entries returns a snapshot ordered by registration.
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (type, bundle) association in a Registry snapshot.
type Entry struct {
	// Type is the overridden type.
	Type TypeIdentifier
	// Bundle is the fixed candidate bundle.
	Bundle Bundle
}
