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

package debug_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"dirpx.dev/capx/debug"
)

func TestTrail_RecordsInOrder(t *testing.T) {
	var tr debug.Trail
	tr.Transition("unreasoned", "to-be-detected", "add")
	tr.Ignore("primitive serializer via method GoString", "serializer name is denied")
	tr.Note("collected 2 serializer(s), 1 deserializer(s)")

	require.Equal(t, 3, tr.Len())
	assert.Equal(t, []string{
		"#1 transition unreasoned -> to-be-detected: add",
		"#2 ignored primitive serializer via method GoString: serializer name is denied",
		"#3 note: collected 2 serializer(s), 1 deserializer(s)",
	}, tr.Lines())

	ignored := tr.Filter(debug.KindIgnored)
	require.Len(t, ignored, 1)
	assert.Equal(t, 2, ignored[0].Seq)
}

func TestTrail_EntriesIsACopy(t *testing.T) {
	var tr debug.Trail
	tr.Note("first")
	got := tr.Entries()
	got[0].Message = "changed"
	assert.Equal(t, "first", tr.Entries()[0].Message)
}

func TestStateLog_DisabledSkipsStates(t *testing.T) {
	log := debug.NewStateLog(false)
	called := false
	log.Record("detect", func() []debug.TypeState {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.Zero(t, log.Len())
	assert.NotEqual(t, uuid.Nil, log.RunID)

	var nilLog *debug.StateLog
	nilLog.Record("detect", nil)
	assert.Zero(t, nilLog.Len())
}

func TestStateLog_WriteTo(t *testing.T) {
	log := debug.NewStateLog(true)
	log.Record("add serialization A (manually added)", func() []debug.TypeState {
		return []debug.TypeState{{
			Type:         "A",
			State:        "to-be-detected",
			Requirements: map[string][]string{"serialization": {"manually added"}},
		}}
	})
	require.Equal(t, 1, log.Len())

	var buf bytes.Buffer
	n, err := log.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	var decoded struct {
		RunID string `yaml:"run_id"`
		Steps []struct {
			Index  int    `yaml:"index"`
			Signal string `yaml:"signal"`
			States []struct {
				Type  string `yaml:"type"`
				State string `yaml:"state"`
			} `yaml:"states"`
		} `yaml:"steps"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, log.RunID.String(), decoded.RunID)
	require.Len(t, decoded.Steps, 1)
	assert.Equal(t, 1, decoded.Steps[0].Index)
	assert.Equal(t, "to-be-detected", decoded.Steps[0].States[0].State)
}

func TestScanInformation_Render(t *testing.T) {
	info := debug.ScanInformation{
		Type:    "Order",
		State:   "undetectable",
		Failure: "Order: no candidate provides duplex",
		Reasons: map[string][]string{"serialization": {"manually added"}},
	}
	out := info.Render()
	assert.True(t, strings.HasPrefix(out, "type: Order\n"), out)
	assert.Contains(t, out, "failure: ")
	assert.Contains(t, out, "Order: no candidate provides duplex")
	assert.NotContains(t, out, "serializer:")
}
