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
	"log/slog"

	"dirpx.dev/capx/apis"
)

// sweep retracts the reasons of reasoned types that no longer descend from
// a root reason. Mutually dependent types keep each other reasoned after
// their last root requirement was removed; sweep breaks such cycles. It
// reports whether anything was enqueued.
func (p *Processor) sweep() bool {
	if !p.removed {
		return false
	}
	p.removed = false

	rooted := p.rooted()
	enqueued := false
	for _, t := range p.order {
		m := p.machines[t]
		if m.Ctx.Requirements.IsUnreasoned() || rooted[t] {
			continue
		}
		p.log.Debug("orphaned", slog.String("type", t.Description()))
		p.enqueue(apis.RetractReasonSignal(apis.BecauseOf(t)))
		enqueued = true
	}
	return enqueued
}

// rooted returns the types reachable from a root reason. A reason is a root
// if it is not transitive or if its parent is unknown to this run.
func (p *Processor) rooted() map[apis.TypeIdentifier]bool {
	children := make(map[apis.TypeIdentifier][]apis.TypeIdentifier)
	var frontier []apis.TypeIdentifier
	for _, t := range p.order {
		root := false
		for _, r := range p.machines[t].Ctx.Requirements.AllReasons() {
			parent, ok := r.Parent()
			if !ok {
				root = true
				continue
			}
			if _, known := p.machines[parent]; !known {
				root = true
				continue
			}
			children[parent] = append(children[parent], t)
		}
		if root {
			frontier = append(frontier, t)
		}
	}

	seen := make(map[apis.TypeIdentifier]bool, len(p.order))
	for len(frontier) > 0 {
		t := frontier[0]
		frontier = frontier[1:]
		if seen[t] {
			continue
		}
		seen[t] = true
		frontier = append(frontier, children[t]...)
	}
	return seen
}
