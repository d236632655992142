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
	"flag"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sys/unix"

	"github.com/systemd-go/sdsys/pkg/catalog"
	"github.com/systemd-go/sdsys/pkg/export"
	"github.com/systemd-go/sdsys/pkg/id128"
	"github.com/systemd-go/sdsys/pkg/journal"
)

// openJournal parses the -D flag shared by fields, unique and usage and
// opens the journal it selects.
func (e *env) openJournal(name string, args []string) (*journal.Journal, *flag.FlagSet, error) {
	fs := e.newFlagSet(name)
	dir := fs.String("D", "", "Read the journal files in `dir`.")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	var (
		j   *journal.Journal
		err error
	)
	if *dir != "" {
		j, err = journal.OpenDirectory(*dir, 0)
	} else {
		j, err = journal.Open(journal.LocalOnly)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	return j, fs, nil
}

func runFields(_ context.Context, e *env, args []string) error {
	j, fs, err := e.openJournal("fields", args)
	if err != nil {
		return err
	}
	defer j.Close()
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", errInvalidArgs, fs.Arg(0))
	}

	fields, err := j.Fields()
	if err != nil {
		return err
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintln(e.stdout, f)
	}
	return nil
}

func runUnique(_ context.Context, e *env, args []string) error {
	j, fs, err := e.openJournal("unique", args)
	if err != nil {
		return err
	}
	defer j.Close()
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: unique needs exactly one FIELD", errInvalidArgs)
	}

	values, err := j.UniqueValues(fs.Arg(0))
	if err != nil {
		return err
	}
	sort.Strings(values)
	for _, v := range values {
		fmt.Fprintln(e.stdout, v)
	}
	return nil
}

func runUsage(_ context.Context, e *env, args []string) error {
	j, fs, err := e.openJournal("usage", args)
	if err != nil {
		return err
	}
	defer j.Close()
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", errInvalidArgs, fs.Arg(0))
	}

	bytes, err := j.Usage()
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Archived and active journals take up %s on disk.\n", export.FormatSize(bytes))

	from, to, err := j.CutoffRealtimeUsec()
	if err != nil {
		return err
	}
	if from != 0 || to != 0 {
		fmt.Fprintf(e.stdout, "Entries from %s to %s.\n",
			time.UnixMicro(int64(from)).Format(time.RFC3339), time.UnixMicro(int64(to)).Format(time.RFC3339))
	}

	runtime, err := j.HasRuntimeFiles()
	if err != nil {
		return err
	}
	persistent, err := j.HasPersistentFiles()
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Runtime files: %t, persistent files: %t.\n", runtime, persistent)
	return nil
}

func runCatalog(_ context.Context, e *env, args []string) error {
	fs := e.newFlagSet("catalog")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: catalog needs exactly one MESSAGE_ID", errInvalidArgs)
	}
	id, err := id128.FromString(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}

	text, found, err := catalog.New().Lookup(id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no catalog entry for %s: %w", id, unix.ENOENT)
	}
	fmt.Fprint(e.stdout, text)
	return nil
}
