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

package debug

import (
	"fmt"

	"dirpx.dev/capx/apis"
)

// Kind classifies a trail entry.
type Kind string

const (
	KindTransition Kind = "transition"
	KindIgnored    Kind = "ignored"
	KindNote       Kind = "note"
)

// Entry is a single trail record.
type Entry struct {
	Seq     int    `yaml:"seq"`
	Kind    Kind   `yaml:"kind"`
	Subject string `yaml:"subject,omitempty"`
	Message string `yaml:"message"`
}

func (e Entry) String() string {
	if e.Subject == "" {
		return fmt.Sprintf("#%d %s: %s", e.Seq, e.Kind, e.Message)
	}
	return fmt.Sprintf("#%d %s %s: %s", e.Seq, e.Kind, e.Subject, e.Message)
}

// Trail is the append-only diagnostic record of one type.
// The zero value is ready to use.
type Trail struct {
	entries []Entry
}

var _ apis.DiagnosticSink = (*Trail)(nil)

func (t *Trail) add(kind Kind, subject, msg string) {
	t.entries = append(t.entries, Entry{Seq: len(t.entries) + 1, Kind: kind, Subject: subject, Message: msg})
}

// Transition records a state change caused by cause.
func (t *Trail) Transition(from, to, cause string) {
	t.add(KindTransition, from+" -> "+to, cause)
}

// Ignore records a discarded candidate.
func (t *Trail) Ignore(subject, reason string) {
	t.add(KindIgnored, subject, reason)
}

// Note records a free-form note.
func (t *Trail) Note(msg string) {
	t.add(KindNote, "", msg)
}

// Entries returns a copy of all entries in order.
func (t *Trail) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Filter returns the entries of the given kind.
func (t *Trail) Filter(kind Kind) []Entry {
	var out []Entry
	for _, e := range t.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries.
func (t *Trail) Len() int { return len(t.entries) }

// Lines renders every entry on its own line.
func (t *Trail) Lines() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.String()
	}
	return out
}
