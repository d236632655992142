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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDirectory(t *testing.T) {
	threshold := 1024
	c := Default()
	c.Source.Directory = t.TempDir()
	c.Matches = [][]string{{"_COMM=sudo"}, {"_UID=0"}}
	c.MaxPriority = "err"
	c.DataThreshold = &threshold

	j, err := c.Open()
	require.NoError(t, err)
	defer j.Close()

	got, err := j.DataThreshold()
	require.NoError(t, err)
	assert.Equal(t, threshold, got)

	ok, err := j.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenBadFlag(t *testing.T) {
	c := Default()
	c.Source.Directory = t.TempDir()
	c.Source.Flags = []string{"bogus"}
	_, err := c.Open()
	assert.Error(t, err)
}
