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

// Package catalog caches journal message catalog entries by MESSAGE_ID.
package catalog

import (
	"errors"
	"strings"

	"github.com/go4org/hashtriemap"
	"golang.org/x/sys/unix"

	"github.com/systemd-go/sdsys/pkg/id128"
	"github.com/systemd-go/sdsys/pkg/journal"
)

type result struct {
	text  string
	found bool
}

// Cache memoizes catalog lookups. Both hits and misses are cached; other
// errors are returned and retried on the next call. A Cache is safe for
// concurrent use.
type Cache struct {
	lookup  func(id id128.ID) (string, error)
	entries hashtriemap.HashTrieMap[id128.ID, result]
}

// New returns a Cache backed by journal.CatalogForMessageID.
func New() *Cache {
	return &Cache{lookup: journal.CatalogForMessageID}
}

// Lookup returns the raw catalog text for id, with @FIELD@ references left
// unexpanded.
func (c *Cache) Lookup(id id128.ID) (string, bool, error) {
	if r, ok := c.entries.Load(id); ok {
		return r.text, r.found, nil
	}
	text, err := c.lookup(id)
	var r result
	switch {
	case err == nil:
		r = result{text: text, found: true}
	case errors.Is(err, unix.ENOENT):
	default:
		return "", false, err
	}
	r, _ = c.entries.LoadOrStore(id, r)
	return r.text, r.found, nil
}

// Explain returns the catalog text for the MESSAGE_ID of e with @FIELD@
// references replaced by the entry's fields. It returns "" when the entry
// has no valid MESSAGE_ID or the catalog has no text for it.
func (c *Cache) Explain(e *journal.Entry) (string, error) {
	v, ok := e.Fields[journal.FieldMessageID]
	if !ok {
		return "", nil
	}
	id, err := id128.FromString(v)
	if err != nil {
		return "", nil
	}
	text, found, err := c.Lookup(id)
	if err != nil || !found {
		return "", err
	}
	return expand(text, e.Fields), nil
}

// expand replaces @NAME@ with fields[NAME]. Unknown names are left as is.
func expand(text string, fields map[string]string) string {
	var b strings.Builder
	for {
		i := strings.IndexByte(text, '@')
		if i < 0 {
			break
		}
		j := strings.IndexByte(text[i+1:], '@')
		if j < 0 {
			break
		}
		name := text[i+1 : i+1+j]
		value, ok := fields[name]
		if !ok {
			b.WriteString(text[:i+1])
			text = text[i+1:]
			continue
		}
		b.WriteString(text[:i])
		b.WriteString(value)
		text = text[i+j+2:]
	}
	b.WriteString(text)
	return b.String()
}
