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

// Package config loads the JSON configuration of the journal reader.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/systemd-go/sdsys/pkg/journal"
)

//go:embed schema.json
var Schema string

// Output formats.
const (
	FormatShort  = "short"
	FormatJSON   = "json"
	FormatProto  = "proto"
	FormatSQLite = "sqlite"
)

// Config selects the journal files to read, filters entries and chooses
// how they are written.
type Config struct {
	Source Source `json:"source"`
	// Matches holds groups of FIELD=VALUE terms joined by disjunctions.
	Matches       [][]string `json:"matches,omitempty"`
	MaxPriority   string     `json:"max_priority,omitempty"`
	DataThreshold *int       `json:"data_threshold,omitempty"`
	Output        Output     `json:"output"`
	Catalog       bool       `json:"catalog,omitempty"`
	LogLevel      string     `json:"log_level,omitempty"`
}

// Source selects the journal files. At most one of Directory, Namespace
// and Files is set; with none the local journal is opened.
type Source struct {
	Directory string   `json:"directory,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
	Files     []string `json:"files,omitempty"`
	Flags     []string `json:"flags,omitempty"`
}

type Output struct {
	Format string `json:"format,omitempty"`
	Path   string `json:"path,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Output:   Output{Format: FormatShort},
		LogLevel: "info",
	}
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse validates data against Schema and decodes it on top of Default.
func Parse(data []byte) (*Config, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

func validate(data []byte) error {
	schema := gojsonschema.NewStringLoader(Schema)
	document := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schema, document)
	if err != nil {
		return err
	}
	if !result.Valid() {
		// first error only
		return errors.New(result.Errors()[0].String())
	}
	return nil
}

// OpenFlags combines Source.Flags.
func (c *Config) OpenFlags() (journal.OpenFlag, error) {
	var flags journal.OpenFlag
	for _, name := range c.Source.Flags {
		f, err := journal.ParseOpenFlag(name)
		if err != nil {
			return 0, err
		}
		flags |= f
	}
	return flags, nil
}

// Level returns LogLevel as a slog level, Info when unset.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}

// matchGroups returns Matches with PRIORITY terms for MaxPriority added to
// every group.
func (c *Config) matchGroups() ([][]string, error) {
	if c.MaxPriority == "" {
		return c.Matches, nil
	}
	maxPrio, err := journal.ParsePriority(c.MaxPriority)
	if err != nil {
		return nil, err
	}
	var prio []string
	for p := journal.Emerg; p <= maxPrio; p++ {
		prio = append(prio, fmt.Sprintf("%s=%d", journal.FieldPriority, p))
	}
	if len(c.Matches) == 0 {
		return [][]string{prio}, nil
	}
	groups := make([][]string, len(c.Matches))
	for i, g := range c.Matches {
		groups[i] = append(append([]string(nil), g...), prio...)
	}
	return groups, nil
}
