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

	"github.com/systemd-go/sdsys"
	"github.com/systemd-go/sdsys/pkg/id128"
)

// CutoffRealtimeUsec returns the wallclock timestamps of the oldest and the
// newest entries, in microseconds. Both are zero when no entry is available.
//
// Binds int sd_journal_get_cutoff_realtime_usec(sd_journal *j, uint64_t *from, uint64_t *to).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_cutoff_realtime_usec.html.
func (j *Journal) CutoffRealtimeUsec() (from, to uint64, err error) {
	err = j.do(func(h *C.sd_journal) error {
		var f, t C.uint64_t
		rc := C.sd_journal_get_cutoff_realtime_usec(h, &f, &t)
		if rc > 0 {
			from, to = uint64(f), uint64(t)
		}
		return check("sd_journal_get_cutoff_realtime_usec", rc)
	})
	return
}

// CutoffMonotonicUsec returns the monotonic timestamps of the oldest and the
// newest entries of the given boot, in microseconds. Both are zero when no
// entry of that boot is available.
//
// Binds int sd_journal_get_cutoff_monotonic_usec(sd_journal *j, sd_id128_t boot_id, uint64_t *from, uint64_t *to).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_cutoff_realtime_usec.html.
func (j *Journal) CutoffMonotonicUsec(boot id128.ID) (from, to uint64, err error) {
	err = j.do(func(h *C.sd_journal) error {
		var f, t C.uint64_t
		rc := C.sd_journal_get_cutoff_monotonic_usec(h, C.sd_id128_t(boot), &f, &t)
		if rc > 0 {
			from, to = uint64(f), uint64(t)
		}
		return check("sd_journal_get_cutoff_monotonic_usec", rc)
	})
	return
}

// Usage returns the disk space used by the opened journal files, in bytes.
//
// Binds int sd_journal_get_usage(sd_journal *j, uint64_t *bytes).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_usage.html.
func (j *Journal) Usage() (uint64, error) {
	var usage uint64
	err := j.do(func(h *C.sd_journal) error {
		var b C.uint64_t
		if err := check("sd_journal_get_usage", C.sd_journal_get_usage(h, &b)); err != nil {
			return err
		}
		usage = uint64(b)
		return nil
	})
	return usage, err
}

// Catalog returns the message catalog entry matching the MESSAGE_ID of the
// current entry, with the entry fields substituted.
//
// Binds int sd_journal_get_catalog(sd_journal *j, char **ret).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_catalog.html.
func (j *Journal) Catalog() (string, error) {
	var text string
	err := j.do(func(h *C.sd_journal) error {
		var c *C.char
		if err := check("sd_journal_get_catalog", C.sd_journal_get_catalog(h, &c)); err != nil {
			return err
		}
		defer C.free(unsafe.Pointer(c))
		text = C.GoString(c)
		return nil
	})
	return text, err
}

// CatalogForMessageID returns the message catalog entry for id, without
// any field substitution.
//
// Binds int sd_journal_get_catalog_for_message_id(sd_id128_t id, char **ret).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_catalog.html.
func CatalogForMessageID(id id128.ID) (string, error) {
	var c *C.char
	if err := check("sd_journal_get_catalog_for_message_id", C.sd_journal_get_catalog_for_message_id(C.sd_id128_t(id), &c)); err != nil {
		return "", err
	}
	defer C.free(unsafe.Pointer(c))
	return C.GoString(c), nil
}

// HasRuntimeFiles reports whether journal files from /run were opened.
//
// Binds int sd_journal_has_runtime_files(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_has_runtime_files.html.
func (j *Journal) HasRuntimeFiles() (bool, error) {
	return j.boolCall("sd_journal_has_runtime_files", func(h *C.sd_journal) C.int {
		return C.sd_journal_has_runtime_files(h)
	})
}

// HasPersistentFiles reports whether journal files from /var were opened.
//
// Binds int sd_journal_has_persistent_files(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_has_persistent_files.html.
func (j *Journal) HasPersistentFiles() (bool, error) {
	return j.boolCall("sd_journal_has_persistent_files", func(h *C.sd_journal) C.int {
		return C.sd_journal_has_persistent_files(h)
	})
}

func (j *Journal) boolCall(op string, fn func(h *C.sd_journal) C.int) (bool, error) {
	var res bool
	err := j.do(func(h *C.sd_journal) error {
		rc := fn(h)
		res = rc > 0
		return sdsys.Check(op, int(rc))
	})
	return res, err
}
