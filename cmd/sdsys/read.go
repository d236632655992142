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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/systemd-go/sdsys/pkg/catalog"
	"github.com/systemd-go/sdsys/pkg/config"
	"github.com/systemd-go/sdsys/pkg/export"
	"github.com/systemd-go/sdsys/pkg/journal"
)

type readOptions struct {
	configPath  string
	directory   string
	lines       int
	follow      bool
	format      string
	out         string
	explain     bool
	priority    string
	afterCursor string
}

func runRead(ctx context.Context, e *env, args []string) (err error) {
	var opts readOptions
	fs := e.newFlagSet("read")
	fs.StringVar(&opts.configPath, "config", "", "Read the configuration from `file`.")
	fs.StringVar(&opts.directory, "D", "", "Read the journal files in `dir`.")
	fs.IntVar(&opts.lines, "n", 0, "Show only the last `N` entries.")
	fs.BoolVar(&opts.follow, "f", false, "Wait for and print new entries.")
	fs.StringVar(&opts.format, "o", "", "Output `format`: short, json, proto or sqlite.")
	fs.StringVar(&opts.out, "out", "", "Write to `path` instead of stdout; required for sqlite.")
	fs.BoolVar(&opts.explain, "x", false, "Add message catalog explanations (short output only).")
	fs.StringVar(&opts.priority, "p", "", "Show entries up to this `priority`.")
	fs.StringVar(&opts.afterCursor, "after-cursor", "", "Start after the entry at `cursor`.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := opts.config(fs.Args())
	if err != nil {
		return err
	}
	if !e.verbose {
		level, err := cfg.Level()
		if err != nil {
			return err
		}
		e.level.Set(level)
	}

	j, err := cfg.Open()
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	w, closeOut, err := openWriter(cfg, e.stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); err == nil {
			err = cerr
		}
	}()

	cursor := opts.afterCursor
	if s, ok := w.(*export.SQLiteWriter); ok && cursor == "" {
		if cursor, err = s.LastCursor(); err != nil {
			return err
		}
		if cursor != "" {
			e.log.Info("resuming export", "cursor", cursor)
		}
	}
	if tw, ok := w.(*export.TextWriter); ok && cfg.Catalog {
		cache := catalog.New()
		tw.Explain = func(entry *journal.Entry) string {
			text, err := cache.Explain(entry)
			if err != nil {
				e.log.Debug("catalog lookup failed", "message_id", entry.Fields[journal.FieldMessageID], "err", err)
			}
			return text
		}
	}

	pending, err := position(j, cursor, opts.lines)
	if err != nil {
		return err
	}
	if pending {
		entry, err := j.Entry()
		if err != nil {
			return err
		}
		if err := w.Write(entry); err != nil {
			return err
		}
	}

	if opts.follow {
		err := j.Follow(ctx, w.Write)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	for {
		ok, err := j.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		entry, err := j.Entry()
		if err != nil {
			return err
		}
		if err := w.Write(entry); err != nil {
			return err
		}
	}
}

// config merges the configuration file with the command line.
func (o *readOptions) config(matches []string) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.directory != "" {
		cfg.Source = config.Source{Directory: o.directory, Flags: cfg.Source.Flags}
	}
	if o.format != "" {
		switch o.format {
		case config.FormatShort, config.FormatJSON, config.FormatProto, config.FormatSQLite:
			cfg.Output.Format = o.format
		default:
			return nil, fmt.Errorf("%w: unknown output format %q", errInvalidArgs, o.format)
		}
	}
	if o.out != "" {
		cfg.Output.Path = o.out
	}
	if cfg.Output.Format == config.FormatSQLite && cfg.Output.Path == "" {
		return nil, fmt.Errorf("%w: sqlite output needs -out", errInvalidArgs)
	}
	if o.explain {
		cfg.Catalog = true
	}
	if o.priority != "" {
		if _, err := journal.ParsePriority(o.priority); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
		}
		cfg.MaxPriority = o.priority
	}
	if o.lines < 0 {
		return nil, fmt.Errorf("%w: -n must not be negative", errInvalidArgs)
	}
	if len(matches) > 0 {
		groups, err := parseMatches(matches)
		if err != nil {
			return nil, err
		}
		cfg.Matches = groups
	}
	return cfg, nil
}

// parseMatches splits FIELD=VALUE arguments into groups separated by "+".
func parseMatches(args []string) ([][]string, error) {
	var (
		groups [][]string
		group  []string
	)
	for _, arg := range args {
		if arg == "+" {
			if len(group) == 0 {
				return nil, fmt.Errorf("%w: empty match group", errInvalidArgs)
			}
			groups = append(groups, group)
			group = nil
			continue
		}
		name, _, ok := strings.Cut(arg, "=")
		if !ok || !journal.ValidFieldName(strings.TrimLeft(name, "_")) {
			return nil, fmt.Errorf("%w: match %q is not FIELD=VALUE", errInvalidArgs, arg)
		}
		group = append(group, arg)
	}
	if len(group) == 0 {
		return nil, fmt.Errorf("%w: empty match group", errInvalidArgs)
	}
	return append(groups, group), nil
}

// position moves j before the first entry to print. It reports whether the
// current entry must be printed before iterating with Next.
func position(j *journal.Journal, afterCursor string, lines int) (bool, error) {
	switch {
	case afterCursor != "":
		if err := j.SeekCursor(afterCursor); err != nil {
			return false, err
		}
		ok, err := j.Next()
		if err != nil || !ok {
			return false, err
		}
		same, err := j.TestCursor(afterCursor)
		if err != nil {
			return false, err
		}
		return !same, nil
	case lines > 0:
		if err := j.SeekTail(); err != nil {
			return false, err
		}
		n, err := j.PreviousSkip(uint64(lines))
		return n > 0, err
	default:
		return false, j.SeekHead()
	}
}

// openWriter returns the writer for cfg.Output and a function closing it
// along with the file it writes to.
func openWriter(cfg *config.Config, stdout io.Writer) (export.Writer, func() error, error) {
	if cfg.Output.Format == config.FormatSQLite {
		s, err := export.OpenSQLite(cfg.Output.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", cfg.Output.Path, err)
		}
		return s, s.Close, nil
	}

	var (
		out  = stdout
		file *os.File
		w    export.Writer
	)
	if cfg.Output.Path != "" {
		f, err := os.OpenFile(cfg.Output.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out, file = f, f
	}
	switch cfg.Output.Format {
	case config.FormatJSON:
		w = export.NewJSONWriter(out)
	case config.FormatProto:
		w = export.NewProtoWriter(out)
	default:
		w = export.NewTextWriter(out)
	}
	return w, func() error {
		err := w.Close()
		if file != nil {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}, nil
}
