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

/*
#include <stdlib.h>
#include <systemd/sd-journal.h>
*/
import "C"
import (
	"unsafe"

	"github.com/systemd-go/sdsys/pkg/id128"
)

// Next advances to the next entry. It returns false, with a nil error, when
// the end of the journal was reached.
//
// Binds int sd_journal_next(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_next.html.
func (j *Journal) Next() (bool, error) {
	var moved bool
	err := j.do(func(h *C.sd_journal) error {
		rc := C.sd_journal_next(h)
		moved = rc > 0
		return check("sd_journal_next", rc)
	})
	return moved, err
}

// Previous moves back to the previous entry. It returns false, with a nil
// error, when the beginning of the journal was reached.
//
// Binds int sd_journal_previous(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_next.html.
func (j *Journal) Previous() (bool, error) {
	var moved bool
	err := j.do(func(h *C.sd_journal) error {
		rc := C.sd_journal_previous(h)
		moved = rc > 0
		return check("sd_journal_previous", rc)
	})
	return moved, err
}

// NextSkip advances by up to skip entries and returns the number of entries
// actually skipped.
//
// Binds int sd_journal_next_skip(sd_journal *j, uint64_t skip).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_next.html.
func (j *Journal) NextSkip(skip uint64) (int, error) {
	var n int
	err := j.do(func(h *C.sd_journal) error {
		rc := C.sd_journal_next_skip(h, C.uint64_t(skip))
		n = int(rc)
		return check("sd_journal_next_skip", rc)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// PreviousSkip moves back by up to skip entries and returns the number of
// entries actually skipped.
//
// Binds int sd_journal_previous_skip(sd_journal *j, uint64_t skip).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_next.html.
func (j *Journal) PreviousSkip(skip uint64) (int, error) {
	var n int
	err := j.do(func(h *C.sd_journal) error {
		rc := C.sd_journal_previous_skip(h, C.uint64_t(skip))
		n = int(rc)
		return check("sd_journal_previous_skip", rc)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// RealtimeUsec returns the wallclock timestamp of the current entry, in
// microseconds since the epoch.
//
// Binds int sd_journal_get_realtime_usec(sd_journal *j, uint64_t *usec).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_realtime_usec.html.
func (j *Journal) RealtimeUsec() (uint64, error) {
	var usec uint64
	err := j.do(func(h *C.sd_journal) (err error) {
		usec, err = realtimeUsec(h)
		return
	})
	return usec, err
}

func realtimeUsec(h *C.sd_journal) (uint64, error) {
	var usec C.uint64_t
	if err := check("sd_journal_get_realtime_usec", C.sd_journal_get_realtime_usec(h, &usec)); err != nil {
		return 0, err
	}
	return uint64(usec), nil
}

// MonotonicUsec returns the monotonic timestamp of the current entry, in
// microseconds, along with the ID of the boot it is relative to.
//
// Binds int sd_journal_get_monotonic_usec(sd_journal *j, uint64_t *usec, sd_id128_t *boot_id).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_realtime_usec.html.
func (j *Journal) MonotonicUsec() (uint64, id128.ID, error) {
	var usec uint64
	var boot id128.ID
	err := j.do(func(h *C.sd_journal) (err error) {
		usec, boot, err = monotonicUsec(h)
		return
	})
	return usec, boot, err
}

func monotonicUsec(h *C.sd_journal) (uint64, id128.ID, error) {
	var usec C.uint64_t
	var boot C.sd_id128_t
	if err := check("sd_journal_get_monotonic_usec", C.sd_journal_get_monotonic_usec(h, &usec, &boot)); err != nil {
		return 0, id128.Null, err
	}
	return uint64(usec), id128.ID(boot), nil
}

// AddMatch adds a FIELD=value match. Matches on the same field are combined
// with OR, matches on different fields with AND.
//
// Binds int sd_journal_add_match(sd_journal *j, const void *data, size_t size).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_add_match.html.
func (j *Journal) AddMatch(match string) error {
	return j.do(func(h *C.sd_journal) error {
		data := j.cstr(match)
		return check("sd_journal_add_match", C.sd_journal_add_match(h, unsafe.Pointer(data), C.size_t(len(match))))
	})
}

// AddDisjunction inserts a logical OR between the matches added before and
// after the call.
//
// Binds int sd_journal_add_disjunction(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_add_match.html.
func (j *Journal) AddDisjunction() error {
	return j.do(func(h *C.sd_journal) error {
		return check("sd_journal_add_disjunction", C.sd_journal_add_disjunction(h))
	})
}

// AddConjunction inserts a logical AND between the matches added before and
// after the call.
//
// Binds int sd_journal_add_conjunction(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_add_match.html.
func (j *Journal) AddConjunction() error {
	return j.do(func(h *C.sd_journal) error {
		return check("sd_journal_add_conjunction", C.sd_journal_add_conjunction(h))
	})
}

// FlushMatches removes all matches, disjunctions and conjunctions.
//
// Binds void sd_journal_flush_matches(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_add_match.html.
func (j *Journal) FlushMatches() error {
	return j.do(func(h *C.sd_journal) error {
		C.sd_journal_flush_matches(h)
		return nil
	})
}

// SeekHead seeks to the beginning of the journal. A call to Next is needed
// to read the first entry.
//
// Binds int sd_journal_seek_head(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_seek_head.html.
func (j *Journal) SeekHead() error {
	return j.do(func(h *C.sd_journal) error {
		return check("sd_journal_seek_head", C.sd_journal_seek_head(h))
	})
}

// SeekTail seeks to the end of the journal. A call to Previous is needed to
// read the last entry.
//
// Binds int sd_journal_seek_tail(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_seek_head.html.
func (j *Journal) SeekTail() error {
	return j.do(func(h *C.sd_journal) error {
		return check("sd_journal_seek_tail", C.sd_journal_seek_tail(h))
	})
}

// SeekMonotonicUsec seeks to the entry with the given monotonic timestamp
// within the given boot.
//
// Binds int sd_journal_seek_monotonic_usec(sd_journal *j, sd_id128_t boot_id, uint64_t usec).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_seek_head.html.
func (j *Journal) SeekMonotonicUsec(boot id128.ID, usec uint64) error {
	return j.do(func(h *C.sd_journal) error {
		return check("sd_journal_seek_monotonic_usec", C.sd_journal_seek_monotonic_usec(h, C.sd_id128_t(boot), C.uint64_t(usec)))
	})
}

// SeekRealtimeUsec seeks to the entry with the given wallclock timestamp.
//
// Binds int sd_journal_seek_realtime_usec(sd_journal *j, uint64_t usec).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_seek_head.html.
func (j *Journal) SeekRealtimeUsec(usec uint64) error {
	return j.do(func(h *C.sd_journal) error {
		return check("sd_journal_seek_realtime_usec", C.sd_journal_seek_realtime_usec(h, C.uint64_t(usec)))
	})
}

// SeekCursor seeks to the entry designated by cursor.
//
// Binds int sd_journal_seek_cursor(sd_journal *j, const char *cursor).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_seek_head.html.
func (j *Journal) SeekCursor(cursor string) error {
	return j.do(func(h *C.sd_journal) error {
		return check("sd_journal_seek_cursor", C.sd_journal_seek_cursor(h, j.cstr(cursor)))
	})
}

// Cursor returns a cursor designating the current entry.
//
// Binds int sd_journal_get_cursor(sd_journal *j, char **cursor).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_cursor.html.
func (j *Journal) Cursor() (string, error) {
	var cursor string
	err := j.do(func(h *C.sd_journal) (err error) {
		cursor, err = getCursor(h)
		return
	})
	return cursor, err
}

func getCursor(h *C.sd_journal) (string, error) {
	var c *C.char
	if err := check("sd_journal_get_cursor", C.sd_journal_get_cursor(h, &c)); err != nil {
		return "", err
	}
	defer C.free(unsafe.Pointer(c))
	return C.GoString(c), nil
}

// TestCursor reports whether the current entry matches cursor.
//
// Binds int sd_journal_test_cursor(sd_journal *j, const char *cursor).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_cursor.html.
func (j *Journal) TestCursor(cursor string) (bool, error) {
	var match bool
	err := j.do(func(h *C.sd_journal) error {
		rc := C.sd_journal_test_cursor(h, j.cstr(cursor))
		match = rc > 0
		return check("sd_journal_test_cursor", rc)
	})
	return match, err
}
