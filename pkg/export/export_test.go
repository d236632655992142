// SPDX-License-Identifier: Apache-2.0
/*
Copyright (C) 2025 The sdsys Authors.

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

package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/systemd-go/sdsys/pkg/id128"
	"github.com/systemd-go/sdsys/pkg/journal"
)

// 2023-11-14 22:13:20 UTC
const testRealtime = 1700000000000000

func testEntry(cursor string) *journal.Entry {
	return &journal.Entry{
		Fields: map[string]string{
			"MESSAGE":           "Accepted publickey for root",
			"PRIORITY":          "6",
			"SYSLOG_IDENTIFIER": "sshd",
			"_PID":              "42",
			"_HOSTNAME":         "host",
		},
		Cursor:        cursor,
		RealtimeUsec:  testRealtime,
		MonotonicUsec: 123456,
		BootID:        id128.ID{0xde, 0xad, 0xbe, 0xef, 15: 0x01},
	}
}

func TestToStruct(t *testing.T) {
	e := testEntry("s=1")
	e.Fields["BINARY"] = "\xff\x00a"

	st := ToStruct(e)
	m := st.AsMap()
	assert.Equal(t, "Accepted publickey for root", m["MESSAGE"])
	assert.Equal(t, "s=1", m[FieldCursor])
	assert.Equal(t, "1700000000000000", m[FieldRealtimeTimestamp])
	assert.Equal(t, "123456", m[FieldMonotonicTimestamp])
	assert.Equal(t, "deadbeef000000000000000000000001", m[journal.FieldBootID])
	assert.Equal(t, []any{255.0, 0.0, 97.0}, m["BINARY"])

	e.Fields[journal.FieldBootID] = "0123456789abcdef0123456789abcdef"
	assert.Equal(t, "0123456789abcdef0123456789abcdef", ToStruct(e).AsMap()[journal.FieldBootID])

	e = &journal.Entry{Fields: map[string]string{}}
	m = ToStruct(e).AsMap()
	assert.NotContains(t, m, FieldCursor)
	assert.NotContains(t, m, journal.FieldBootID)
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf)
	w.Location = time.UTC

	require.NoError(t, w.Write(testEntry("s=1")))

	e := &journal.Entry{
		Fields:       map[string]string{"MESSAGE": "\xff\xfe", "_COMM": "cat"},
		RealtimeUsec: testRealtime,
	}
	require.NoError(t, w.Write(e))

	e = &journal.Entry{Fields: map[string]string{"MESSAGE": "bare"}, RealtimeUsec: testRealtime}
	require.NoError(t, w.Write(e))
	require.NoError(t, w.Close())

	assert.Equal(t,
		"Nov 14 22:13:20 host sshd[42]: Accepted publickey for root\n"+
			"Nov 14 22:13:20 cat: [2B blob data]\n"+
			"Nov 14 22:13:20 unknown: bare\n",
		buf.String())
}

func TestTextWriterExplain(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf)
	w.Location = time.UTC
	w.Explain = func(e *journal.Entry) string {
		if e.Fields["SYSLOG_IDENTIFIER"] != "sshd" {
			return ""
		}
		return "Subject: login\n\nA user logged in.\n"
	}

	require.NoError(t, w.Write(testEntry("s=1")))
	require.NoError(t, w.Write(&journal.Entry{Fields: map[string]string{"MESSAGE": "x"}, RealtimeUsec: testRealtime}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Nov 14 22:13:20 host sshd[42]: Accepted publickey for root",
		"-- Subject: login",
		"-- ",
		"-- A user logged in.",
		"Nov 14 22:13:20 unknown: x",
	}, lines)
}

func TestFormatSize(t *testing.T) {
	tests := map[uint64]string{
		0:       "0B",
		1023:    "1023B",
		1024:    "1.0K",
		1536:    "1.5K",
		2 << 20: "2.0M",
		3 << 19: "1.5M",
		2 << 30: "2.0G",
		1 << 60: "1.0E",
	}
	for n, want := range tests {
		assert.Equal(t, want, FormatSize(n), n)
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	require.NoError(t, w.Write(testEntry("s=1")))
	require.NoError(t, w.Write(testEntry("s=2")))
	require.NoError(t, w.Close())

	sc := bufio.NewScanner(&buf)
	var cursors []string
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		assert.Equal(t, "sshd", m["SYSLOG_IDENTIFIER"])
		assert.Equal(t, "1700000000000000", m["__REALTIME_TIMESTAMP"])
		cursors = append(cursors, m["__CURSOR"].(string))
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []string{"s=1", "s=2"}, cursors)
}

func TestProtoWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewProtoWriter(&buf)
	require.NoError(t, w.Write(testEntry("s=1")))
	require.NoError(t, w.Write(testEntry("s=2")))
	require.NoError(t, w.Close())

	r := bufio.NewReader(&buf)
	for _, want := range []string{"s=1", "s=2"} {
		st := &structpb.Struct{}
		require.NoError(t, protodelim.UnmarshalFrom(r, st))
		assert.Equal(t, want, st.Fields[FieldCursor].GetStringValue())
		assert.Equal(t, "42", st.Fields["_PID"].GetStringValue())
	}
	_, err := r.ReadByte()
	assert.Error(t, err)
}

func TestSQLiteWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)

	cursor, err := s.LastCursor()
	require.NoError(t, err)
	assert.Empty(t, cursor)

	require.NoError(t, s.Write(testEntry("s=1")))
	require.NoError(t, s.Write(testEntry("s=1")))
	require.NoError(t, s.Write(testEntry("s=2")))
	assert.ErrorIs(t, s.Write(testEntry("")), errNoCursor)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var value []byte
	require.NoError(t, s.db.QueryRow(
		`SELECT f.value FROM fields f JOIN entries e ON e.seq = f.seq WHERE e.cursor = ? AND f.name = ?`,
		"s=2", "SYSLOG_IDENTIFIER").Scan(&value))
	assert.Equal(t, "sshd", string(value))

	var prio int
	var boot string
	require.NoError(t, s.db.QueryRow(`SELECT priority, boot_id FROM entries WHERE cursor = ?`, "s=1").Scan(&prio, &boot))
	assert.Equal(t, 6, prio)
	assert.Equal(t, "deadbeef000000000000000000000001", boot)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	cursor, err = s.LastCursor()
	require.NoError(t, err)
	assert.Equal(t, "s=2", cursor)
}
