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

package journal

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/systemd-go/sdsys/pkg/id128"
)

const journaldSocket = "/run/systemd/journal/socket"

func openEmpty(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenDirectory(t.TempDir(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenDirectoryEmpty(t *testing.T) {
	j := openEmpty(t)

	require.NoError(t, j.SeekHead())
	ok, err := j.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, j.SeekTail())
	ok, err = j.Previous()
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := j.NextSkip(10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	n, err = j.PreviousSkip(10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	usage, err := j.Usage()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), usage)

	has, err := j.HasRuntimeFiles()
	require.NoError(t, err)
	assert.False(t, has)
	has, err = j.HasPersistentFiles()
	require.NoError(t, err)
	assert.False(t, has)

	from, to, err := j.CutoffRealtimeUsec()
	require.NoError(t, err)
	assert.Zero(t, from)
	assert.Zero(t, to)

	fields, err := j.Fields()
	require.NoError(t, err)
	assert.Empty(t, fields)

	values, err := j.UniqueValues(FieldSystemdUnit)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestNoCurrentEntry(t *testing.T) {
	j := openEmpty(t)

	_, err := j.Cursor()
	assert.Error(t, err)
	_, err = j.Data(FieldMessage)
	assert.Error(t, err)
	_, err = j.RealtimeUsec()
	assert.Error(t, err)
	_, err = j.Entry()
	assert.Error(t, err)
	_, _, err = j.EnumerateData()
	assert.Error(t, err)
	_, _, err = j.EnumerateAvailableData()
	assert.Error(t, err)
	_, err = j.Catalog()
	assert.Error(t, err)
	assert.NoError(t, j.RestartData())
}

func TestEnumerateEmpty(t *testing.T) {
	j := openEmpty(t)

	require.NoError(t, j.RestartFields())
	field, ok, err := j.EnumerateFields()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, field)

	require.NoError(t, j.QueryUnique(FieldSystemdUnit))
	data, ok, err := j.EnumerateUnique()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
	require.NoError(t, j.RestartUnique())
	data, ok, err = j.EnumerateAvailableUnique()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)

	err = j.QueryUnique("")
	assert.True(t, errors.Is(err, unix.EINVAL), "got %v", err)

	boot, err := id128.Randomize()
	require.NoError(t, err)
	from, to, err := j.CutoffMonotonicUsec(boot)
	require.NoError(t, err)
	assert.Zero(t, from)
	assert.Zero(t, to)
}

func TestOpenNamespace(t *testing.T) {
	j, err := OpenNamespace("", LocalOnly)
	if err != nil {
		t.Skipf("default namespace not available: %v", err)
	}
	require.NoError(t, j.Close())

	j, err = OpenNamespace("sdsys-test-missing", 0)
	if err != nil {
		t.Skipf("namespaces not available: %v", err)
	}
	defer j.Close()
	require.NoError(t, j.SeekHead())
	ok, err := j.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWaitHoldsLock(t *testing.T) {
	j := openEmpty(t)
	// the first wait only sets up inotify and returns at once
	_, err := j.Fd()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := j.Wait(300 * time.Millisecond)
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	require.NoError(t, j.Close())
	assert.True(t, time.Since(start) >= 100*time.Millisecond, "Close returned during Wait")
	require.NoError(t, <-done)

	_, err = j.Wait(0)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMatches(t *testing.T) {
	j := openEmpty(t)

	require.NoError(t, j.AddMatch("_SYSTEMD_UNIT=sshd.service"))
	require.NoError(t, j.AddMatch("PRIORITY=3"))
	require.NoError(t, j.AddDisjunction())
	require.NoError(t, j.AddMatch("_TRANSPORT=kernel"))
	require.NoError(t, j.AddConjunction())
	require.NoError(t, j.AddMatch("_BOOT_ID=0123456789abcdeffedcba9876543210"))
	require.NoError(t, j.FlushMatches())

	err := j.AddMatch("no equal sign")
	assert.True(t, errors.Is(err, unix.EINVAL), "got %v", err)
	err = j.AddMatch("")
	assert.True(t, errors.Is(err, unix.EINVAL), "got %v", err)
}

func TestSeek(t *testing.T) {
	j := openEmpty(t)

	require.NoError(t, j.SeekRealtimeUsec(uint64(time.Now().UnixMicro())))
	boot, err := id128.Randomize()
	require.NoError(t, err)
	require.NoError(t, j.SeekMonotonicUsec(boot, 1000))

	err = j.SeekCursor("garbage")
	assert.True(t, errors.Is(err, unix.EINVAL), "got %v", err)
}

func TestDataThreshold(t *testing.T) {
	j := openEmpty(t)

	require.NoError(t, j.SetDataThreshold(1024))
	size, err := j.DataThreshold()
	require.NoError(t, err)
	assert.Equal(t, 1024, size)

	require.NoError(t, j.SetDataThreshold(0))
	size, err = j.DataThreshold()
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestEvents(t *testing.T) {
	j := openEmpty(t)

	fd, err := j.Fd()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fd, 0)

	events, err := j.Events()
	require.NoError(t, err)
	assert.NotZero(t, events&unix.POLLIN)

	_, err = j.Timeout()
	require.NoError(t, err)
	_, err = j.ReliableFd()
	require.NoError(t, err)

	ev, err := j.Process()
	require.NoError(t, err)
	assert.Contains(t, []WakeupEvent{Nop, Append, Invalidate}, ev)

	start := time.Now()
	_, err = j.Wait(50 * time.Millisecond)
	require.NoError(t, err)
	assert.True(t, time.Since(start) < 5*time.Second)
}

func TestClosed(t *testing.T) {
	j, err := OpenDirectory(t.TempDir(), 0)
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	_, err = j.Next()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, j.SeekHead(), ErrClosed)
	assert.ErrorIs(t, j.AddMatch("MESSAGE=x"), ErrClosed)
	_, err = j.Entry()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenErrors(t *testing.T) {
	_, err := OpenDirectory(t.TempDir(), LocalOnly)
	assert.True(t, errors.Is(err, unix.EINVAL), "got %v", err)

	_, err = OpenFiles([]string{t.TempDir() + "/missing.journal"}, 0)
	assert.Error(t, err)
}

func TestOpenLocal(t *testing.T) {
	j, err := Open(LocalOnly)
	if err != nil {
		t.Skipf("local journal not available: %v", err)
	}
	defer j.Close()

	require.NoError(t, j.SeekTail())
	if ok, err := j.Previous(); err != nil || !ok {
		t.Skip("local journal is empty or not readable")
	}
	e, err := j.Entry()
	require.NoError(t, err)
	assert.NotEmpty(t, e.Cursor)
	assert.NotZero(t, e.RealtimeUsec)
	assert.False(t, e.BootID.IsNull())

	match, err := j.TestCursor(e.Cursor)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestFollowCanceled(t *testing.T) {
	j := openEmpty(t)
	followPoll = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	calls := 0
	err := j.Follow(ctx, func(*Entry) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, calls)
}

func TestSendInvalidField(t *testing.T) {
	err := Send(map[string]string{"MESSAGE": "hi", "_PID": "1"})
	assert.ErrorIs(t, err, ErrInvalidField)
	err = Send(map[string]string{"lower": "x"})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestFieldsIovec(t *testing.T) {
	iov, err := fieldsIovec(map[string]string{
		"PRIORITY":  "6",
		"MESSAGE":   "multi\nline",
		"CODE_FILE": "journal_test.go",
	})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{
		[]byte("CODE_FILE=journal_test.go"),
		[]byte("MESSAGE=multi\nline"),
		[]byte("PRIORITY=6"),
	}, iov)
}

func TestSendAndRead(t *testing.T) {
	if _, err := os.Stat(journaldSocket); err != nil {
		t.Skipf("journald not running: %v", err)
	}

	id, err := id128.Randomize()
	require.NoError(t, err)
	long := strings.Repeat("x", 3000)
	require.NoError(t, Send(map[string]string{
		FieldMessage:  "sdsys test message",
		FieldPriority: "6",
		"SDSYS_TEST":  id.String(),
		"SDSYS_LONG":  long,
	}))
	require.NoError(t, Print(Debug, "sdsys test print"))

	j, err := Open(LocalOnly)
	require.NoError(t, err)
	defer j.Close()
	require.NoError(t, j.AddMatch("SDSYS_TEST="+id.String()))
	require.NoError(t, j.SeekHead())

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		ok, err := j.Next()
		require.NoError(t, err)
		if !ok {
			_, err := j.Wait(100 * time.Millisecond)
			require.NoError(t, err)
			continue
		}
		e, err := j.Entry()
		require.NoError(t, err)
		assert.Equal(t, "sdsys test message", e.Message())
		p, ok := e.Priority()
		assert.True(t, ok)
		assert.Equal(t, Info, p)

		v, err := j.DataValue("SDSYS_TEST")
		require.NoError(t, err)
		assert.Equal(t, id.String(), string(v))

		cursor, err := j.Cursor()
		require.NoError(t, err)
		assert.Equal(t, e.Cursor, cursor)
		same, err := j.TestCursor(cursor)
		require.NoError(t, err)
		assert.True(t, same)

		require.NoError(t, j.RestartData())
		var names []string
		for {
			data, ok, err := j.EnumerateData()
			require.NoError(t, err)
			if !ok {
				break
			}
			name, _, valid := splitField(data)
			require.True(t, valid, string(data))
			names = append(names, name)
		}
		assert.Contains(t, names, "SDSYS_TEST")
		assert.Contains(t, names, FieldMessage)

		require.NoError(t, j.RestartData())
		_, ok, err = j.EnumerateAvailableData()
		require.NoError(t, err)
		assert.True(t, ok)

		// the threshold is a hint: values at least that long come back
		require.NoError(t, j.SetDataThreshold(100))
		v, err = j.DataValue("SDSYS_LONG")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(v), 100)
		assert.True(t, strings.HasPrefix(long, string(v)))
		require.NoError(t, j.SetDataThreshold(0))

		require.NoError(t, j.RestartFields())
		var fields []string
		for {
			f, ok, err := j.EnumerateFields()
			require.NoError(t, err)
			if !ok {
				break
			}
			fields = append(fields, f)
		}
		assert.Contains(t, fields, "SDSYS_TEST")

		require.NoError(t, j.QueryUnique("SDSYS_TEST"))
		var values []string
		for {
			data, ok, err := j.EnumerateUnique()
			require.NoError(t, err)
			if !ok {
				break
			}
			values = append(values, string(data))
		}
		assert.Contains(t, values, "SDSYS_TEST="+id.String())
		require.NoError(t, j.RestartUnique())
		_, ok, err = j.EnumerateAvailableUnique()
		require.NoError(t, err)
		assert.True(t, ok)

		from, to, err := j.CutoffMonotonicUsec(e.BootID)
		require.NoError(t, err)
		assert.LessOrEqual(t, from, e.MonotonicUsec)
		assert.GreaterOrEqual(t, to, e.MonotonicUsec)

		_, err = j.Catalog()
		assert.True(t, errors.Is(err, unix.ENOENT), "got %v", err)
		return
	}
	t.Skip("sent entry not readable by this user")
}
