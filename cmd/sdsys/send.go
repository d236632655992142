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

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/systemd-go/sdsys/pkg/journal"
)

func runSend(_ context.Context, e *env, args []string) error {
	fs := e.newFlagSet("send")
	prio := fs.String("p", "info", "Entry `priority`, a name or 0-7.")
	ident := fs.String("t", "", "Syslog `identifier`.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := journal.ParsePriority(*prio)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: nothing to send", errInvalidArgs)
	}

	fields, structured := parseFields(fs.Args())
	if !structured && *ident == "" {
		e.log.Debug("print", "priority", p)
		return journal.Print(p, fields[journal.FieldMessage])
	}
	if _, ok := fields[journal.FieldPriority]; !ok {
		fields[journal.FieldPriority] = strconv.Itoa(int(p))
	}
	if _, ok := fields[journal.FieldSyslogIdentifier]; !ok && *ident != "" {
		fields[journal.FieldSyslogIdentifier] = *ident
	}
	e.log.Debug("send", "fields", len(fields))
	return journal.Send(fields)
}

// parseFields returns the FIELD=VALUE pairs in args, or a MESSAGE field
// holding args joined by spaces unless every argument is such a pair.
func parseFields(args []string) (map[string]string, bool) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || !journal.ValidFieldName(name) {
			return map[string]string{journal.FieldMessage: strings.Join(args, " ")}, false
		}
		fields[name] = value
	}
	return fields, true
}
