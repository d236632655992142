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

// Command sdsys reads and writes the systemd journal and generates 128-bit
// IDs.
//
// Usage:
//
//	sdsys [-v] <command> [flags] [args]
//
// Commands:
//
//	id128 new|machine|boot|invocation [-app ID] [-uuid]
//	read [-config file] [-D dir] [-n N] [-f] [-o format] [-x] [-p prio] [-after-cursor C] [MATCH... [+ MATCH...]]
//	send [-p prio] [-t ident] MESSAGE | FIELD=VALUE...
//	fields [-D dir]
//	unique [-D dir] FIELD
//	usage [-D dir]
//	catalog MESSAGE_ID
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

var errInvalidArgs = errors.New("invalid arguments")

type env struct {
	stdout  io.Writer
	stderr  io.Writer
	log     *slog.Logger
	level   *slog.LevelVar
	verbose bool
}

type command struct {
	args string
	help string
	run  func(ctx context.Context, e *env, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"id128": {
			args: "new|machine|boot|invocation [-app ID] [-uuid]",
			help: "Print a random, machine, boot or invocation ID.",
			run:  runID128,
		},
		"read": {
			args: "[flags] [MATCH... [+ MATCH...]]",
			help: "Print journal entries.",
			run:  runRead,
		},
		"send": {
			args: "[-p prio] [-t ident] MESSAGE | FIELD=VALUE...",
			help: "Submit an entry to the journal.",
			run:  runSend,
		},
		"fields": {
			args: "[-D dir]",
			help: "List the field names used in the journal.",
			run:  runFields,
		},
		"unique": {
			args: "[-D dir] FIELD",
			help: "List the values taken by a field.",
			run:  runUnique,
		},
		"usage": {
			args: "[-D dir]",
			help: "Show the disk usage and time range of the journal.",
			run:  runUsage,
		},
		"catalog": {
			args: "MESSAGE_ID",
			help: "Print the catalog entry for a message ID.",
			run:  runCatalog,
		},
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "sdsys:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("sdsys", flag.ContinueOnError)
	flags.SetOutput(stderr)
	verbose := flags.Bool("v", false, "Log debug messages.")
	flags.Usage = func() { usage(flags, stderr) }
	if err := flags.Parse(args); err != nil {
		return err
	}

	e := &env{stdout: stdout, stderr: stderr, level: new(slog.LevelVar), verbose: *verbose}
	if *verbose {
		e.level.Set(slog.LevelDebug)
	}
	e.log = slog.New(tint.NewHandler(stderr, &tint.Options{
		Level:      e.level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(stderr),
	}))

	args = flags.Args()
	if len(args) == 0 {
		flags.Usage()
		return flag.ErrHelp
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errInvalidArgs, args[0])
	}
	return cmd.run(ctx, e, args[1:])
}

func usage(flags *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: sdsys [-v] <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands[name]
		fmt.Fprintf(w, "  %s %s\n    \t%s\n", name, c.args, c.help)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	flags.PrintDefaults()
}

// newFlagSet returns a flag set for a subcommand writing errors to e.stderr.
func (e *env) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("sdsys "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	c := commands[name]
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: sdsys %s %s\n\n%s\n\n", name, c.args, c.help)
		fs.PrintDefaults()
	}
	return fs
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
