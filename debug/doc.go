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

// Package debug holds the diagnostics of a resolution run: per-type trails,
// the state log of every applied signal and the scan information rendered for
// "why was or wasn't this type detected" reports.
//
// Everything in this package is additive during a run and read-only after it.
// Nothing recorded here influences control flow.
package debug
