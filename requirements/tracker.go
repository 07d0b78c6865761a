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

// Package requirements records, per type, why each capability is required.
//
// A Tracker is a multiset of reasons per capability. A capability is active
// iff at least one reason is present for it. Adding a reason that is already
// present only increases its count; the capability stays active until every
// occurrence has been removed.
package requirements

import (
	"slices"
	"strings"

	"dirpx.dev/capx/apis"
)

// Change reports how a mutation affected the tracker.
type Change uint8

const (
	// Unchanged means the set of active capabilities is the same as before.
	Unchanged Change = iota
	// Changed means the active set changed and at least one capability is still active.
	Changed
	// Unreasoned means the last active capability was removed.
	Unreasoned
)

func (c Change) String() string {
	switch c {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case Unreasoned:
		return "unreasoned"
	default:
		return "unknown"
	}
}

type entry struct {
	reason apis.Reason
	count  int
}

// Tracker holds the reason multisets of a single type. The zero value is
// ready to use. Tracker is not safe for concurrent use.
type Tracker struct {
	// entries per capability, kept in first-insertion order for stable output.
	entries [len(apis.Capabilities)][]entry
}

// New returns an empty tracker.
func New() *Tracker { return &Tracker{} }

// Add records r for c.
func (t *Tracker) Add(c apis.Capability, r apis.Reason) Change {
	before := t.Active()
	list := t.entries[c]
	for i := range list {
		if list[i].reason == r {
			list[i].count++
			return Unchanged
		}
	}
	t.entries[c] = append(list, entry{reason: r, count: 1})
	return t.compare(before)
}

// Remove drops one occurrence of r from c. Removing an absent reason is a no-op.
func (t *Tracker) Remove(c apis.Capability, r apis.Reason) Change {
	before := t.Active()
	list := t.entries[c]
	for i := range list {
		if list[i].reason != r {
			continue
		}
		list[i].count--
		if list[i].count == 0 {
			t.entries[c] = slices.Delete(list, i, i+1)
		}
		return t.compare(before)
	}
	return Unchanged
}

// RemoveAll drops every occurrence of r from every capability.
func (t *Tracker) RemoveAll(r apis.Reason) Change {
	before := t.Active()
	for c := range t.entries {
		t.entries[c] = slices.DeleteFunc(t.entries[c], func(e entry) bool { return e.reason == r })
	}
	return t.compare(before)
}

func (t *Tracker) compare(before apis.CapabilitySet) Change {
	after := t.Active()
	switch {
	case after == before:
		return Unchanged
	case after.IsEmpty():
		return Unreasoned
	default:
		return Changed
	}
}

// Has reports whether r is present for c.
func (t *Tracker) Has(c apis.Capability, r apis.Reason) bool {
	return t.Count(c, r) > 0
}

// Count returns how many times r is present for c.
func (t *Tracker) Count(c apis.Capability, r apis.Reason) int {
	for _, e := range t.entries[c] {
		if e.reason == r {
			return e.count
		}
	}
	return 0
}

// IsUnreasoned reports whether both the primary and the structural group are empty.
func (t *Tracker) IsUnreasoned() bool {
	return t.primaryEmpty() && t.structuralEmpty()
}

func (t *Tracker) primaryEmpty() bool {
	for _, c := range apis.Capabilities {
		if c.IsPrimary() && len(t.entries[c]) > 0 {
			return false
		}
	}
	return true
}

func (t *Tracker) structuralEmpty() bool {
	for _, c := range apis.Capabilities {
		if c.IsStructural() && len(t.entries[c]) > 0 {
			return false
		}
	}
	return true
}

// Active returns the set of capabilities with at least one reason.
func (t *Tracker) Active() apis.CapabilitySet {
	var s apis.CapabilitySet
	for _, c := range apis.Capabilities {
		if len(t.entries[c]) > 0 {
			s = s.With(c)
		}
	}
	return s
}

// Reasons returns the distinct reasons for c in insertion order.
func (t *Tracker) Reasons(c apis.Capability) []apis.Reason {
	list := t.entries[c]
	if len(list) == 0 {
		return nil
	}
	out := make([]apis.Reason, len(list))
	for i, e := range list {
		out[i] = e.reason
	}
	return out
}

// AllReasons returns the distinct reasons across all capabilities in
// capability order, then insertion order.
func (t *Tracker) AllReasons() []apis.Reason {
	var out []apis.Reason
	for _, c := range apis.Capabilities {
		for _, e := range t.entries[c] {
			if !slices.Contains(out, e.reason) {
				out = append(out, e.reason)
			}
		}
	}
	return out
}

// Snapshot is an immutable copy of a tracker, keyed by capability name.
type Snapshot map[string][]string

// Snapshot returns the reasons per active capability. Reasons present more
// than once are listed once.
func (t *Tracker) Snapshot() Snapshot {
	out := make(Snapshot)
	for _, c := range apis.Capabilities {
		reasons := t.Reasons(c)
		if len(reasons) == 0 {
			continue
		}
		texts := make([]string, len(reasons))
		for i, r := range reasons {
			texts[i] = r.String()
		}
		out[c.String()] = texts
	}
	return out
}

// Summary renders the tracker for logs, e.g.
// "serialization: [manually added], object-enforcing: [because of Pair[A]]".
func (t *Tracker) Summary() string {
	var parts []string
	for _, c := range apis.Capabilities {
		reasons := t.Reasons(c)
		if len(reasons) == 0 {
			continue
		}
		texts := make([]string, len(reasons))
		for i, r := range reasons {
			texts[i] = r.String()
		}
		parts = append(parts, c.String()+": ["+strings.Join(texts, ", ")+"]")
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
