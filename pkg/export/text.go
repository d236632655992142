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
	"strings"
	"time"
	"unicode/utf8"

	"github.com/systemd-go/sdsys/pkg/journal"
)

const shortTimeLayout = "Jan 02 15:04:05"

// TextWriter writes entries in the journalctl "short" style:
//
//	Jan 02 15:04:05 host ident[pid]: message
type TextWriter struct {
	w io.Writer

	// Location used to render timestamps. Defaults to time.Local.
	Location *time.Location
	// Explain, when set, returns extra text printed after the entry with
	// each line prefixed by "-- ".
	Explain func(e *journal.Entry) string
}

// NewTextWriter returns a TextWriter writing to w. Close does not close w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w, Location: time.Local}
}

func (t *TextWriter) Write(e *journal.Entry) error {
	var b strings.Builder
	b.WriteString(e.Realtime().In(t.Location).Format(shortTimeLayout))
	if host := e.Fields[journal.FieldHostname]; host != "" {
		b.WriteByte(' ')
		b.WriteString(host)
	}
	b.WriteByte(' ')
	b.WriteString(identifier(e))
	if pid := e.Fields[journal.FieldPID]; pid != "" {
		fmt.Fprintf(&b, "[%s]", pid)
	}
	b.WriteString(": ")
	msg := e.Message()
	if utf8.ValidString(msg) {
		b.WriteString(msg)
	} else {
		fmt.Fprintf(&b, "[%s blob data]", FormatSize(uint64(len(msg))))
	}
	b.WriteByte('\n')

	if t.Explain != nil {
		if text := strings.TrimRight(t.Explain(e), "\n"); text != "" {
			for _, line := range strings.Split(text, "\n") {
				b.WriteString("-- ")
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *TextWriter) Close() error { return nil }

func identifier(e *journal.Entry) string {
	if id := e.Fields[journal.FieldSyslogIdentifier]; id != "" {
		return id
	}
	if comm := e.Fields[journal.FieldComm]; comm != "" {
		return comm
	}
	return "unknown"
}

// FormatSize renders n bytes the way journalctl does, e.g. "512B", "1.5K"
// or "2.0G", with 1024 based units.
func FormatSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(n)/float64(div), "KMGTPE"[exp])
}
