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

package processor

import (
	"strings"

	"go.uber.org/multierr"

	"dirpx.dev/capx/apis"
	"dirpx.dev/capx/debug"
	"dirpx.dev/capx/state"
)

// maxChains bounds the number of rendered reason chains per type.
const maxChains = 8

// Report is the outcome of one reasoned type.
type Report struct {
	Type apis.TypeIdentifier
	// Definition is set for resolved types.
	Definition *apis.Definition
	// Err is set for undetectable types.
	Err *apis.DetectionError
	// Chains explains why the type was required, e.g.
	// "Pair[A] -> manually added".
	Chains []string
	Scan   debug.ScanInformation
}

// OK reports whether the type was resolved.
func (r Report) OK() bool { return r.Definition != nil }

// Collect returns a report for every reasoned type in creation order.
// Unreasoned types are omitted. When any type is undetectable, the returned
// error is a *CollectionError naming all of them. Calling Collect before
// RunToFixpoint succeeded is a programming error.
func (p *Processor) Collect() ([]Report, error) {
	if !p.fixpoint {
		apis.Invariant("processor.Collect", "called before the fixpoint was reached")
	}
	var (
		reports  []Report
		failures []Report
	)
	for _, t := range p.order {
		m := p.machines[t]
		switch m.Tag {
		case state.Unreasoned:
			continue
		case state.Resolved:
			def := m.Ctx.Definition()
			reports = append(reports, Report{Type: t, Definition: &def, Scan: m.Scan()})
		case state.Undetectable:
			r := Report{Type: t, Err: m.Ctx.Failure, Chains: p.chains(t), Scan: m.Scan()}
			if r.Err == nil {
				r.Err = apis.Undetectable(t, "no detection result")
			}
			reports = append(reports, r)
			failures = append(failures, r)
		default:
			apis.Invariant("processor.Collect", "%s is %s at the fixpoint", t.Description(), m.Tag)
		}
	}
	if len(failures) > 0 {
		return reports, newCollectionError(failures)
	}
	return reports, nil
}

// Definitions returns the definitions of all resolved types in reports.
func Definitions(reports []Report) []apis.Definition {
	out := make([]apis.Definition, 0, len(reports))
	for _, r := range reports {
		if r.Definition != nil {
			out = append(out, *r.Definition)
		}
	}
	return out
}

// chains renders every path from t back to a root reason.
func (p *Processor) chains(t apis.TypeIdentifier) []string {
	var out []string
	var walk func(t apis.TypeIdentifier, path []string, seen map[apis.TypeIdentifier]bool)
	walk = func(t apis.TypeIdentifier, path []string, seen map[apis.TypeIdentifier]bool) {
		m, ok := p.machines[t]
		if !ok {
			return
		}
		seen[t] = true
		defer delete(seen, t)
		for _, r := range m.Ctx.Requirements.AllReasons() {
			if len(out) >= maxChains {
				return
			}
			parent, transitive := r.Parent()
			_, known := p.machines[parent]
			switch {
			case !transitive || !known:
				out = append(out, strings.Join(append(path, r.String()), " -> "))
			case seen[parent]:
				out = append(out, strings.Join(append(path, parent.Description(), "(cycle)"), " -> "))
			default:
				walk(parent, append(path, parent.Description()), seen)
			}
		}
	}
	walk(t, nil, make(map[apis.TypeIdentifier]bool))
	return out
}

// CollectionError aggregates the failures of one run.
type CollectionError struct {
	Failures []Report
	errs     error
}

func newCollectionError(failures []Report) *CollectionError {
	var errs error
	for _, f := range failures {
		errs = multierr.Append(errs, f.Err)
	}
	return &CollectionError{Failures: failures, errs: errs}
}

func (e *CollectionError) Error() string {
	var b strings.Builder
	b.WriteString("the following types could not be detected properly:")
	for _, f := range e.Failures {
		b.WriteString("\n  ")
		b.WriteString(f.Err.Error())
		for _, c := range f.Chains {
			b.WriteString("\n    required by: ")
			b.WriteString(c)
		}
	}
	return b.String()
}

// Errors returns the individual detection errors.
func (e *CollectionError) Errors() []error { return multierr.Errors(e.errs) }

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *CollectionError) Unwrap() []error { return e.Errors() }
