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

import "fmt"

// SignalKind discriminates the Signal union.
type SignalKind uint8

const (
	// AddRequirement adds Reason to Capability on Target.
	AddRequirement SignalKind = iota + 1
	// RemoveRequirement removes one occurrence of Reason from Capability on Target.
	RemoveRequirement
	// RetractReason removes every occurrence of Reason from every capability.
	// It is broadcast to all machines and drives cascading retraction.
	RetractReason
	// Detect is the broadcast detection phase signal.
	Detect
	// Resolve is the broadcast resolution phase signal.
	Resolve
)

func (k SignalKind) String() string {
	switch k {
	case AddRequirement:
		return "add-requirement"
	case RemoveRequirement:
		return "remove-requirement"
	case RetractReason:
		return "retract-reason"
	case Detect:
		return "detect"
	case Resolve:
		return "resolve"
	default:
		return fmt.Sprintf("SignalKind(%d)", uint8(k))
	}
}

// IsRequirementChange reports whether k alters a tracker.
func (k SignalKind) IsRequirementChange() bool {
	return k == AddRequirement || k == RemoveRequirement || k == RetractReason
}

// Signal is a single unit of work for the processor.
//
// AddRequirement and RemoveRequirement are targeted at exactly one type.
// RetractReason, Detect and Resolve carry a zero Target and are broadcast.
type Signal struct {
	Kind       SignalKind
	Target     TypeIdentifier
	Capability Capability
	Reason     Reason
}

// AddRequirementSignal builds a targeted add signal.
func AddRequirementSignal(t TypeIdentifier, c Capability, r Reason) Signal {
	return Signal{Kind: AddRequirement, Target: t, Capability: c, Reason: r}
}

// RemoveRequirementSignal builds a targeted remove signal.
func RemoveRequirementSignal(t TypeIdentifier, c Capability, r Reason) Signal {
	return Signal{Kind: RemoveRequirement, Target: t, Capability: c, Reason: r}
}

// RetractReasonSignal builds a broadcast retraction of r.
func RetractReasonSignal(r Reason) Signal {
	return Signal{Kind: RetractReason, Reason: r}
}

// DetectSignal is the broadcast detection phase.
func DetectSignal() Signal { return Signal{Kind: Detect} }

// ResolveSignal is the broadcast resolution phase.
func ResolveSignal() Signal { return Signal{Kind: Resolve} }

// IsTargeted reports whether s applies to a single machine.
func (s Signal) IsTargeted() bool { return !s.Target.IsZero() }

func (s Signal) String() string {
	switch s.Kind {
	case AddRequirement, RemoveRequirement:
		return fmt.Sprintf("%s %s on %s (%s)", s.Kind, s.Capability, s.Target.Description(), s.Reason)
	case RetractReason:
		return fmt.Sprintf("%s (%s)", s.Kind, s.Reason)
	default:
		return s.Kind.String()
	}
}
