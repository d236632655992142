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

package journal

import (
	"bytes"
	"errors"
	"time"

	"github.com/systemd-go/sdsys/pkg/id128"
)

// Well-known journal fields, see systemd.journal-fields(7).
const (
	FieldMessage          = "MESSAGE"
	FieldMessageID        = "MESSAGE_ID"
	FieldPriority         = "PRIORITY"
	FieldSyslogIdentifier = "SYSLOG_IDENTIFIER"
	FieldCodeFile         = "CODE_FILE"
	FieldCodeLine         = "CODE_LINE"
	FieldCodeFunc         = "CODE_FUNC"
	FieldPID              = "_PID"
	FieldComm             = "_COMM"
	FieldHostname         = "_HOSTNAME"
	FieldSystemdUnit      = "_SYSTEMD_UNIT"
	FieldBootID           = "_BOOT_ID"
	FieldMachineID        = "_MACHINE_ID"
)

// maxFieldNameLen mirrors the limit journald enforces on field names.
const maxFieldNameLen = 64

// Entry is a journal entry read in full with Journal.Entry.
type Entry struct {
	// Fields maps field names to values. Values are raw bytes and may not
	// be valid UTF-8.
	Fields        map[string]string
	Cursor        string
	RealtimeUsec  uint64
	MonotonicUsec uint64
	BootID        id128.ID
}

// Realtime returns the wallclock time of the entry.
func (e *Entry) Realtime() time.Time {
	return time.UnixMicro(int64(e.RealtimeUsec))
}

// Message returns the MESSAGE field.
func (e *Entry) Message() string {
	return e.Fields[FieldMessage]
}

// Priority returns the PRIORITY field, if present and valid.
func (e *Entry) Priority() (Priority, bool) {
	v, ok := e.Fields[FieldPriority]
	if !ok {
		return 0, false
	}
	p, err := ParsePriority(v)
	if err != nil {
		return 0, false
	}
	return p, true
}

// ValidFieldName reports whether name can be set by a client: 1 to 64
// characters among A-Z, 0-9 and '_', not starting with a digit, and not
// starting with '_' since those fields are reserved to journald.
func ValidFieldName(name string) bool {
	if name == "" || len(name) > maxFieldNameLen {
		return false
	}
	if name[0] == '_' || (name[0] >= '0' && name[0] <= '9') {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') && c != '_' {
			return false
		}
	}
	return true
}

// splitField splits a FIELD=value pair as returned by the data and unique
// enumeration functions.
func splitField(data []byte) (name string, value []byte, ok bool) {
	i := bytes.IndexByte(data, '=')
	if i <= 0 {
		return "", nil, false
	}
	return string(data[:i]), data[i+1:], true
}

// ErrInvalidField is returned by Send for field names rejected by
// ValidFieldName.
var ErrInvalidField = errors.New("invalid journal field name")
