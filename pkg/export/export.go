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

// Package export writes journal entries to text, JSON, protobuf and SQLite
// sinks.
package export

import (
	"encoding/hex"
	"strconv"
	"unicode/utf8"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/systemd-go/sdsys/pkg/journal"
)

// Address fields added to every record, named as journalctl -o json does.
const (
	FieldCursor             = "__CURSOR"
	FieldRealtimeTimestamp  = "__REALTIME_TIMESTAMP"
	FieldMonotonicTimestamp = "__MONOTONIC_TIMESTAMP"
)

// Writer consumes journal entries.
type Writer interface {
	Write(e *journal.Entry) error
	Close() error
}

// ToStruct converts an entry to a google.protobuf.Struct. Values that are
// valid UTF-8 become strings, others become lists of byte values.
func ToStruct(e *journal.Entry) *structpb.Struct {
	st := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(e.Fields)+4)}
	for name, value := range e.Fields {
		st.Fields[name] = fieldValue(value)
	}
	if e.Cursor != "" {
		st.Fields[FieldCursor] = structpb.NewStringValue(e.Cursor)
	}
	st.Fields[FieldRealtimeTimestamp] = structpb.NewStringValue(strconv.FormatUint(e.RealtimeUsec, 10))
	st.Fields[FieldMonotonicTimestamp] = structpb.NewStringValue(strconv.FormatUint(e.MonotonicUsec, 10))
	if _, ok := e.Fields[journal.FieldBootID]; !ok && !e.BootID.IsNull() {
		st.Fields[journal.FieldBootID] = structpb.NewStringValue(hex.EncodeToString(e.BootID[:]))
	}
	return st
}

func fieldValue(v string) *structpb.Value {
	if utf8.ValidString(v) {
		return structpb.NewStringValue(v)
	}
	list := &structpb.ListValue{Values: make([]*structpb.Value, len(v))}
	for i := 0; i < len(v); i++ {
		list.Values[i] = structpb.NewNumberValue(float64(v[i]))
	}
	return structpb.NewListValue(list)
}
