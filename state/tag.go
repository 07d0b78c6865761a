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

// Package state implements the per-type detection state machine.
//
// A Machine is a Tag plus a pointer to the type's Context. Transition is the
// single function that drives machines: it matches on the tag, mutates the
// Context the machine owns and returns the machine with its new tag. The
// Context is never shared between machines and never copied.
package state

import "fmt"

// Tag names the state a machine is in.
type Tag uint8

const (
	// Unreasoned: no capability is currently required.
	Unreasoned Tag = iota
	// ToBeDetected: required, waiting for the next Detect phase.
	ToBeDetected
	// Detecting: the detector is running. Only observable from inside Transition.
	Detecting
	// Resolving: detected, waiting for the next Resolve phase to propagate.
	Resolving
	// Resolved: detected and propagated to every required type.
	Resolved
	// Undetectable: detection failed for the current requirements.
	Undetectable
)

func (t Tag) String() string {
	switch t {
	case Unreasoned:
		return "unreasoned"
	case ToBeDetected:
		return "to-be-detected"
	case Detecting:
		return "detecting"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Undetectable:
		return "undetectable"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// IsFinal reports whether t is a terminal collection outcome.
func (t Tag) IsFinal() bool {
	return t == Unreasoned || t == Resolved || t == Undetectable
}
