//go:build linux && cgo

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

// Package sdlog provides a [slog.Handler] that writes records to the
// systemd journal, one entry per record, with attributes stored as
// separate journal fields.
package sdlog

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
	"strings"

	"github.com/systemd-go/sdsys/pkg/journal"
)

// Sender submits a journal entry.
type Sender interface {
	Send(fields map[string]string) error
}

// SenderFunc adapts a function to a Sender.
type SenderFunc func(fields map[string]string) error

// Send calls f.
func (f SenderFunc) Send(fields map[string]string) error {
	return f(fields)
}

// HandlerOptions configure a Handler. The zero value logs at Info and above
// through journal.Send.
type HandlerOptions struct {
	// Level is the minimum level logged. Defaults to slog.LevelInfo.
	Level slog.Leveler
	// AddSource stores the caller in CODE_FILE, CODE_LINE and CODE_FUNC.
	AddSource bool
	// Identifier is stored in SYSLOG_IDENTIFIER when not empty.
	Identifier string
	// Sender submits entries. Defaults to journal.Send.
	Sender Sender
}

type field struct {
	name  string
	value string
}

// Handler is a [slog.Handler] writing to the journal.
type Handler struct {
	opts   HandlerOptions
	attrs  []field
	prefix string
}

// NewHandler returns a Handler configured by opts, which may be nil.
func NewHandler(opts *HandlerOptions) *Handler {
	h := &Handler{}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	if h.opts.Sender == nil {
		h.opts.Sender = SenderFunc(journal.Send)
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]string, len(h.attrs)+r.NumAttrs()+6)
	for _, f := range h.attrs {
		fields[f.name] = f.value
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(fields, h.prefix, a)
		return true
	})

	fields[journal.FieldMessage] = r.Message
	fields[journal.FieldPriority] = strconv.Itoa(int(LevelPriority(r.Level)))
	if h.opts.Identifier != "" {
		fields[journal.FieldSyslogIdentifier] = h.opts.Identifier
	}
	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		fields[journal.FieldCodeFile] = frame.File
		fields[journal.FieldCodeLine] = strconv.Itoa(frame.Line)
		fields[journal.FieldCodeFunc] = frame.Function
	}
	return h.opts.Sender.Send(fields)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	m := make(map[string]string)
	for _, a := range attrs {
		appendAttr(m, h.prefix, a)
	}
	nh := *h
	nh.attrs = make([]field, 0, len(h.attrs)+len(m))
	nh.attrs = append(nh.attrs, h.attrs...)
	for name, value := range m {
		nh.attrs = append(nh.attrs, field{name, value})
	}
	return &nh
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.prefix = h.prefix + name + "_"
	return &nh
}

func appendAttr(fields map[string]string, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "_"
		}
		for _, ga := range v.Group() {
			appendAttr(fields, p, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	name := FieldName(prefix + a.Key)
	if name == "" {
		return
	}
	fields[name] = v.String()
}

// FieldName turns an attribute key into a journal field name accepted by
// journal.ValidFieldName, or returns "" if nothing usable is left.
func FieldName(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	name := strings.TrimLeft(b.String(), "_")
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "X_" + name
	}
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}

// LevelPriority maps a slog level to a journal priority.
func LevelPriority(l slog.Level) journal.Priority {
	switch {
	case l >= slog.LevelError:
		return journal.Err
	case l >= slog.LevelWarn:
		return journal.Warning
	case l >= slog.LevelInfo:
		return journal.Info
	default:
		return journal.Debug
	}
}
