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
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/systemd-go/sdsys/pkg/journal"
)

// JSONWriter writes one JSON object per line.
type JSONWriter struct {
	w    io.Writer
	opts protojson.MarshalOptions
}

// NewJSONWriter returns a JSONWriter writing to w. Close does not close w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

func (j *JSONWriter) Write(e *journal.Entry) error {
	data, err := j.opts.Marshal(ToStruct(e))
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	data = append(data, '\n')
	_, err = j.w.Write(data)
	return err
}

func (j *JSONWriter) Close() error { return nil }

// ProtoWriter writes size-delimited google.protobuf.Struct messages, which
// protodelim.UnmarshalFrom reads back.
type ProtoWriter struct {
	w io.Writer
}

// NewProtoWriter returns a ProtoWriter writing to w. Close does not close w.
func NewProtoWriter(w io.Writer) *ProtoWriter {
	return &ProtoWriter{w: w}
}

func (p *ProtoWriter) Write(e *journal.Entry) error {
	if _, err := protodelim.MarshalTo(p.w, ToStruct(e)); err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	return nil
}

func (p *ProtoWriter) Close() error { return nil }
