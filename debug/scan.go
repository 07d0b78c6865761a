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

// ScanInformation explains the outcome for one type.
type ScanInformation struct {
	Type         string              `yaml:"type"`
	State        string              `yaml:"state"`
	Reasons      map[string][]string `yaml:"reasons,omitempty"`
	Serializer   string              `yaml:"serializer,omitempty"`
	Deserializer string              `yaml:"deserializer,omitempty"`
	Failure      string              `yaml:"failure,omitempty"`
	Ignored      []Entry             `yaml:"ignored,omitempty"`
	Trail        []Entry             `yaml:"trail,omitempty"`
}

// Render returns the YAML rendering of s.
func (s ScanInformation) Render() string { return RenderYAML(s) }
