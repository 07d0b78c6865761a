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

package state

import (
	"dirpx.dev/capx/apis"
	"dirpx.dev/capx/debug"
	"dirpx.dev/capx/requirements"
)

// Context is the mutable record of one type for the lifetime of a run.
type Context struct {
	// Type is the type this context belongs to.
	Type apis.TypeIdentifier
	// Requirements holds the reasons per capability.
	Requirements requirements.Tracker
	// Detected is the bundle found by the last successful detection.
	Detected *apis.Bundle
	// Override is a manually supplied bundle that replaces detection.
	Override *apis.Bundle
	// Failure is the reason of the last failed detection.
	Failure *apis.DetectionError
	// Trail is the diagnostic record of this type.
	Trail debug.Trail
}

// NewContext returns an empty context for t.
func NewContext(t apis.TypeIdentifier) *Context {
	return &Context{Type: t}
}

// Definition builds the final output of a resolved type.
// Calling it on a context without a detection result is a programming error.
func (c *Context) Definition() apis.Definition {
	if c.Detected == nil {
		apis.Invariant("state.Definition", "%s has no detection result", c.Type.Description())
	}
	return apis.Definition{
		Type:         c.Type,
		Capabilities: c.Requirements.Active(),
		Serializer:   c.Detected.Serializer,
		Deserializer: c.Detected.Deserializer,
		Supertypes:   append([]apis.TypeIdentifier(nil), c.Detected.Supertypes...),
	}
}

func (c *Context) reset() {
	c.Detected = nil
	c.Failure = nil
}
