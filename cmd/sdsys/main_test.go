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
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systemd-go/sdsys/pkg/config"
	"github.com/systemd-go/sdsys/pkg/id128"
)

func runTest(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunUsage(t *testing.T) {
	_, stderr, err := runTest(t)
	assert.ErrorIs(t, err, flag.ErrHelp)
	for name := range commands {
		assert.Contains(t, stderr, "  "+name+" ")
	}

	_, _, err = runTest(t, "frobnicate")
	assert.ErrorIs(t, err, errInvalidArgs)
}

func TestCommandHelp(t *testing.T) {
	for name, c := range commands {
		args := []string{name, "-h"}
		if name == "id128" {
			args = []string{name, "new", "-h"}
		}
		_, stderr, err := runTest(t, args...)
		assert.ErrorIs(t, err, flag.ErrHelp, name)
		assert.Contains(t, stderr, "Usage: sdsys "+name+" "+c.args, name)
		assert.Contains(t, stderr, c.help, name)
	}
}

func TestID128New(t *testing.T) {
	stdout, _, err := runTest(t, "id128", "new")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}\n$`), stdout)

	stdout, _, err = runTest(t, "id128", "new", "-uuid")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\n$`), stdout)
}

func TestID128Errors(t *testing.T) {
	for _, args := range [][]string{
		{"id128"},
		{"id128", "sideways"},
		{"id128", "new", "-app", "0123456789abcdef0123456789abcdef"},
		{"id128", "new", "extra"},
	} {
		_, _, err := runTest(t, args...)
		assert.ErrorIs(t, err, errInvalidArgs, args)
	}

	_, _, err := runTest(t, "id128", "machine", "-app", "nope")
	assert.Error(t, err)
}

func TestFormatUUID(t *testing.T) {
	id := id128.ID{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef, 0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}
	assert.Equal(t, "01234567-89ab-cdef-0123-456789abcdef", formatUUID(id))
}

func TestParseMatches(t *testing.T) {
	groups, err := parseMatches([]string{"_SYSTEMD_UNIT=sshd.service", "_UID=0", "+", "_COMM=sudo"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"_SYSTEMD_UNIT=sshd.service", "_UID=0"}, {"_COMM=sudo"}}, groups)

	for _, args := range [][]string{
		{"+", "A=1"},
		{"A=1", "+"},
		{"A=1", "+", "+", "B=2"},
		{"lower=1"},
		{"NOVALUE"},
		{"=1"},
		{"_=1"},
	} {
		_, err := parseMatches(args)
		assert.ErrorIs(t, err, errInvalidArgs, args)
	}
}

func TestParseFields(t *testing.T) {
	fields, structured := parseFields([]string{"MESSAGE=hello", "CODE=42", "EMPTY="})
	assert.True(t, structured)
	assert.Equal(t, map[string]string{"MESSAGE": "hello", "CODE": "42", "EMPTY": ""}, fields)

	fields, structured = parseFields([]string{"disk", "usage=95%"})
	assert.False(t, structured)
	assert.Equal(t, map[string]string{"MESSAGE": "disk usage=95%"}, fields)

	fields, structured = parseFields([]string{"MESSAGE=x", "_PID=1"})
	assert.False(t, structured)
	assert.Equal(t, "MESSAGE=x _PID=1", fields["MESSAGE"])
}

func TestSendErrors(t *testing.T) {
	_, _, err := runTest(t, "send")
	assert.ErrorIs(t, err, errInvalidArgs)
	_, _, err = runTest(t, "send", "-p", "loud", "hello")
	assert.ErrorIs(t, err, errInvalidArgs)
}

func TestReadOptions(t *testing.T) {
	o := readOptions{directory: "/var/log/journal", format: "json", explain: true, priority: "err"}
	cfg, err := o.config([]string{"_COMM=sudo"})
	require.NoError(t, err)
	assert.Equal(t, "/var/log/journal", cfg.Source.Directory)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.True(t, cfg.Catalog)
	assert.Equal(t, "err", cfg.MaxPriority)
	assert.Equal(t, [][]string{{"_COMM=sudo"}}, cfg.Matches)

	for _, o := range []readOptions{
		{format: "xml"},
		{format: "sqlite"},
		{priority: "loud"},
		{lines: -1},
		{configPath: filepath.Join(t.TempDir(), "missing.json")},
	} {
		_, err := o.config(nil)
		assert.Error(t, err, "%+v", o)
	}
}

func TestReadEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := runTest(t, "read", "-D", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	stdout, _, err = runTest(t, "read", "-D", dir, "-n", "10", "-o", "json", "_COMM=sudo")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	db := filepath.Join(t.TempDir(), "out.db")
	_, _, err = runTest(t, "read", "-D", dir, "-o", "sqlite", "-out", db)
	require.NoError(t, err)
	assert.FileExists(t, db)
}

func TestFieldsEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := runTest(t, "fields", "-D", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	stdout, _, err = runTest(t, "unique", "-D", dir, "_COMM")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	_, _, err = runTest(t, "unique", "-D", dir)
	assert.ErrorIs(t, err, errInvalidArgs)

	stdout, _, err = runTest(t, "usage", "-D", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Archived and active journals take up 0B on disk.\n"), stdout)
}

func TestCatalogErrors(t *testing.T) {
	_, _, err := runTest(t, "catalog")
	assert.ErrorIs(t, err, errInvalidArgs)
	_, _, err = runTest(t, "catalog", "not-an-id")
	assert.ErrorIs(t, err, errInvalidArgs)
}
