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

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Every per-type failure wraps exactly one of these so that
// callers can classify it with errors.Is.
var (
	// ErrUndetectable indicates no candidate exists for the required capabilities.
	ErrUndetectable = errors.New("undetectable")
	// ErrAmbiguous indicates several candidates survived and no hint decided.
	ErrAmbiguous = errors.New("ambiguous")
	// ErrAsymmetric indicates a duplex type whose directions share no representation.
	ErrAsymmetric = errors.New("asymmetric")
	// ErrStructural indicates contradicting or unsupported structural requirements.
	ErrStructural = errors.New("structural")
	// ErrInvariant indicates a programming error inside the engine.
	ErrInvariant = errors.New("internal invariant violated")
	// ErrIterationLimit indicates the fixpoint loop exceeded its configured cap.
	ErrIterationLimit = errors.New("iteration limit exceeded")
)

// DetectionError is a per-type failure recorded by detection or
// disambiguation. It is non-fatal: the run continues and the error is
// surfaced when results are collected.
type DetectionError struct {
	// Kind is one of ErrUndetectable, ErrAmbiguous, ErrAsymmetric, ErrStructural.
	Kind error
	// Type is the type that failed.
	Type TypeIdentifier
	// Reason is the human-readable failure text.
	Reason string
	// Tied lists the descriptions of the tied candidates for ambiguity failures.
	Tied []string
}

// Error implements error.
func (e *DetectionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if !e.Type.IsZero() {
		b.WriteString(e.Type.Description())
		b.WriteString(": ")
	}
	b.WriteString(e.Reason)
	if len(e.Tied) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(e.Tied, "; "))
		b.WriteByte(']')
	}
	return b.String()
}

// Unwrap exposes the failure kind.
func (e *DetectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}

// Undetectable builds an ErrUndetectable failure.
func Undetectable(t TypeIdentifier, format string, args ...any) *DetectionError {
	return &DetectionError{Kind: ErrUndetectable, Type: t, Reason: fmt.Sprintf(format, args...)}
}

// Ambiguous builds an ErrAmbiguous failure naming every tied candidate.
func Ambiguous(t TypeIdentifier, reason string, tied []string) *DetectionError {
	return &DetectionError{Kind: ErrAmbiguous, Type: t, Reason: reason, Tied: tied}
}

// Asymmetric builds an ErrAsymmetric failure.
func Asymmetric(t TypeIdentifier, format string, args ...any) *DetectionError {
	return &DetectionError{Kind: ErrAsymmetric, Type: t, Reason: fmt.Sprintf(format, args...)}
}

// Structural builds an ErrStructural failure.
func Structural(t TypeIdentifier, format string, args ...any) *DetectionError {
	return &DetectionError{Kind: ErrStructural, Type: t, Reason: fmt.Sprintf(format, args...)}
}

// AsDetectionError classifies an arbitrary detector error. Foreign errors are
// wrapped as ErrUndetectable for t.
func AsDetectionError(t TypeIdentifier, err error) *DetectionError {
	if err == nil {
		return nil
	}
	var de *DetectionError
	if errors.As(err, &de) {
		if de.Type.IsZero() {
			cp := *de
			cp.Type = t
			return &cp
		}
		return de
	}
	return &DetectionError{Kind: ErrUndetectable, Type: t, Reason: err.Error()}
}

// InvariantError is a programming error inside the engine. It is raised with
// panic and never recovered by the engine itself.
type InvariantError struct {
	Op  string
	Msg string
}

// Error implements error.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvariant, e.Op, e.Msg)
}

// Unwrap returns ErrInvariant.
func (e *InvariantError) Unwrap() error { return ErrInvariant }

// Invariant panics with an *InvariantError.
func Invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
