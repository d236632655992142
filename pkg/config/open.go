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

package config

import (
	"fmt"

	"github.com/systemd-go/sdsys/pkg/journal"
)

// Open opens the journal described by Source and applies the matches and
// the data threshold.
func (c *Config) Open() (*journal.Journal, error) {
	flags, err := c.OpenFlags()
	if err != nil {
		return nil, err
	}
	var j *journal.Journal
	switch {
	case c.Source.Directory != "":
		j, err = journal.OpenDirectory(c.Source.Directory, flags)
	case len(c.Source.Files) > 0:
		j, err = journal.OpenFiles(c.Source.Files, flags)
	case c.Source.Namespace != "":
		j, err = journal.OpenNamespace(c.Source.Namespace, flags)
	default:
		j, err = journal.Open(flags)
	}
	if err != nil {
		return nil, err
	}
	if err := c.Apply(j); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

// Apply adds the configured matches and data threshold to j.
func (c *Config) Apply(j *journal.Journal) error {
	groups, err := c.matchGroups()
	if err != nil {
		return err
	}
	for i, group := range groups {
		if i > 0 {
			if err := j.AddDisjunction(); err != nil {
				return err
			}
		}
		for _, m := range group {
			if err := j.AddMatch(m); err != nil {
				return fmt.Errorf("match %q: %w", m, err)
			}
		}
	}
	if c.DataThreshold != nil {
		if err := j.SetDataThreshold(*c.DataThreshold); err != nil {
			return err
		}
	}
	return nil
}
