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

// Package capx decides, for a graph of types, which of them must be
// serializable, deserializable or both, and which concrete mapping function
// handles each direction.
//
// capx is demand driven. A caller asks for capabilities of a few root types;
// every detected mapping function then requires its own field, parameter and
// element types in the same directions, and those requirements spread
// through the graph until nothing changes anymore. Types nobody asked for
// are never inspected.
//
// # Design
//
// The core of capx is a read-mostly global snapshot (state). The snapshot
// holds:
//
//   - Config: iteration caps, name preferences for the disambiguator,
//     primitive base types, injected types and the detection cache size.
//
//   - Registry: manual overrides. A bundle registered for a type replaces
//     detection for that type entirely. Its dependencies are still
//     propagated.
//
//   - Resolver: turns a detected bundle into requirement signals for the
//     types it depends on.
//
//   - Detector: proposes candidate mapping functions through reflection
//     strategies and narrows them to at most one per direction with the
//     disambiguator.
//
//   - Builder: constructs the registry, resolver and detector for a Config
//     and an optional extension value (see builder.Extensions).
//
// Readers load the snapshot atomically and never mutate it. Writers build a
// new snapshot and swap it in, so Resolve always runs against one
// consistent set of collaborators:
//
//	req, _ := capx.RequestOf[Order](apis.Duplex)
//	res, err := capx.Resolve(req)
//
// # Resolution run
//
// Resolve creates a processor.Processor, applies every registry entry as an
// override, dispatches one AddRequirement signal per requested capability
// and drives the per-type state machines to a fixpoint:
//
//	unreasoned -> to-be-detected -> detecting -> resolving -> resolved
//	                                         \-> undetectable
//
// Requirements are counted per reason, so a type stays required as long as
// any path from a root still needs it. Removing the last reason retracts
// everything the type pushed downstream. Cycles that lose their last root
// are swept.
//
// The result lists a definition per resolved type. Types that could not be
// detected are reported together in one *processor.CollectionError with the
// chain of types that required them.
//
// # Pinning
//
// SetRegistry, SetResolver and SetDetector install a layer and pin it:
// SetConfig, SetBuilder and SetExt then stop rebuilding that layer until the
// matching Unpin call. SetAll replaces everything in one shot and is mainly
// used by tests.
//
// # Scope
//
// capx decides what to map and with which function. Encoding and decoding
// values is left to the marshalling runtime that consumes the definitions.
package capx
