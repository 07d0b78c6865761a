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
	"io"

	"github.com/google/uuid"
)

// TypeState is the state of one type after a signal was applied.
type TypeState struct {
	Type         string              `yaml:"type"`
	State        string              `yaml:"state"`
	Requirements map[string][]string `yaml:"requirements,omitempty"`
}

// Step is one applied signal and the resulting states of every known type.
type Step struct {
	Index  int         `yaml:"index"`
	Signal string      `yaml:"signal"`
	States []TypeState `yaml:"states"`
}

// StateLog records every applied signal of a run. A disabled log only keeps
// its run ID.
type StateLog struct {
	RunID   uuid.UUID `yaml:"run_id"`
	Enabled bool      `yaml:"-"`
	Steps   []Step    `yaml:"steps,omitempty"`
}

// NewStateLog returns a log with a fresh run ID.
func NewStateLog(enabled bool) *StateLog {
	return &StateLog{RunID: uuid.New(), Enabled: enabled}
}

// Record appends a step. states is only evaluated when the log is enabled.
func (l *StateLog) Record(signal string, states func() []TypeState) {
	if l == nil || !l.Enabled {
		return
	}
	l.Steps = append(l.Steps, Step{Index: len(l.Steps) + 1, Signal: signal, States: states()})
}

// Len returns the number of recorded steps.
func (l *StateLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Steps)
}

// WriteTo renders the log as YAML.
func (l *StateLog) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := WriteYAML(cw, l)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
