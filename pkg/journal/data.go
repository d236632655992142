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
	"bytes"
	"unsafe"
)

// Data returns the given field of the current entry, formatted as
// FIELD=value.
//
// Binds int sd_journal_get_data(sd_journal *j, const char *field, const void **data, size_t *length).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_data.html.
func (j *Journal) Data(field string) ([]byte, error) {
	var res []byte
	err := j.do(func(h *C.sd_journal) error {
		var data unsafe.Pointer
		var length C.size_t
		if err := check("sd_journal_get_data", C.sd_journal_get_data(h, j.cstr(field), &data, &length)); err != nil {
			return err
		}
		res = C.GoBytes(data, C.int(length))
		return nil
	})
	return res, err
}

// DataValue is like Data but strips the FIELD= prefix.
func (j *Journal) DataValue(field string) ([]byte, error) {
	data, err := j.Data(field)
	if err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(data, []byte(field+"=")), nil
}

type enumerateFn func(h *C.sd_journal, data *unsafe.Pointer, length *C.size_t) C.int

func enumerate(op string, h *C.sd_journal, fn enumerateFn) ([]byte, bool, error) {
	var data unsafe.Pointer
	var length C.size_t
	rc := fn(h, &data, &length)
	if err := check(op, rc); err != nil {
		return nil, false, err
	}
	if rc == 0 {
		return nil, false, nil
	}
	return C.GoBytes(data, C.int(length)), true, nil
}

func enumerateData(h *C.sd_journal, data *unsafe.Pointer, length *C.size_t) C.int {
	return C.sd_journal_enumerate_data(h, data, length)
}

func enumerateAvailableData(h *C.sd_journal, data *unsafe.Pointer, length *C.size_t) C.int {
	return C.sd_journal_enumerate_available_data(h, data, length)
}

func enumerateUnique(h *C.sd_journal, data *unsafe.Pointer, length *C.size_t) C.int {
	return C.sd_journal_enumerate_unique(h, data, length)
}

func enumerateAvailableUnique(h *C.sd_journal, data *unsafe.Pointer, length *C.size_t) C.int {
	return C.sd_journal_enumerate_available_unique(h, data, length)
}

// EnumerateData returns the next FIELD=value pair of the current entry.
// It returns false, with a nil error, once all fields were returned.
//
// Binds int sd_journal_enumerate_data(sd_journal *j, const void **data, size_t *length).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_data.html.
func (j *Journal) EnumerateData() ([]byte, bool, error) {
	var data []byte
	var ok bool
	err := j.do(func(h *C.sd_journal) (err error) {
		data, ok, err = enumerate("sd_journal_enumerate_data", h, enumerateData)
		return
	})
	return data, ok, err
}

// EnumerateAvailableData is like EnumerateData, but silently skips fields
// that cannot be read, e.g. because they are compressed with an
// unsupported algorithm.
//
// Binds int sd_journal_enumerate_available_data(sd_journal *j, const void **data, size_t *length).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_data.html.
func (j *Journal) EnumerateAvailableData() ([]byte, bool, error) {
	var data []byte
	var ok bool
	err := j.do(func(h *C.sd_journal) (err error) {
		data, ok, err = enumerate("sd_journal_enumerate_available_data", h, enumerateAvailableData)
		return
	})
	return data, ok, err
}

// RestartData resets the data enumeration to the first field of the
// current entry.
//
// Binds void sd_journal_restart_data(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_data.html.
func (j *Journal) RestartData() error {
	return j.do(func(h *C.sd_journal) error {
		C.sd_journal_restart_data(h)
		return nil
	})
}

// SetDataThreshold sets how many bytes of a field value the data functions
// need to return. libsystemd takes it as a hint: compressed values may be
// decompressed only up to the threshold, but longer values can still be
// returned in full. Zero disables the limit.
//
// Binds int sd_journal_set_data_threshold(sd_journal *j, size_t sz).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_data.html.
func (j *Journal) SetDataThreshold(size int) error {
	return j.do(func(h *C.sd_journal) error {
		return check("sd_journal_set_data_threshold", C.sd_journal_set_data_threshold(h, C.size_t(size)))
	})
}

// DataThreshold returns the limit set with SetDataThreshold.
//
// Binds int sd_journal_get_data_threshold(sd_journal *j, size_t *sz).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_data.html.
func (j *Journal) DataThreshold() (int, error) {
	var size int
	err := j.do(func(h *C.sd_journal) error {
		var sz C.size_t
		if err := check("sd_journal_get_data_threshold", C.sd_journal_get_data_threshold(h, &sz)); err != nil {
			return err
		}
		size = int(sz)
		return nil
	})
	return size, err
}

// EnumerateFields returns the next field name present in the opened journal
// files. It returns false, with a nil error, once all names were returned.
//
// Binds int sd_journal_enumerate_fields(sd_journal *j, const char **field).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_enumerate_fields.html.
func (j *Journal) EnumerateFields() (string, bool, error) {
	var field string
	var ok bool
	err := j.do(func(h *C.sd_journal) (err error) {
		field, ok, err = enumerateFields(h)
		return
	})
	return field, ok, err
}

func enumerateFields(h *C.sd_journal) (string, bool, error) {
	var f *C.char
	rc := C.sd_journal_enumerate_fields(h, &f)
	if err := check("sd_journal_enumerate_fields", rc); err != nil {
		return "", false, err
	}
	if rc == 0 {
		return "", false, nil
	}
	return C.GoString(f), true, nil
}

// RestartFields resets the field name enumeration.
//
// Binds void sd_journal_restart_fields(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_enumerate_fields.html.
func (j *Journal) RestartFields() error {
	return j.do(func(h *C.sd_journal) error {
		C.sd_journal_restart_fields(h)
		return nil
	})
}

// Fields returns all field names present in the opened journal files.
func (j *Journal) Fields() ([]string, error) {
	var fields []string
	err := j.do(func(h *C.sd_journal) error {
		C.sd_journal_restart_fields(h)
		defer C.sd_journal_restart_fields(h)
		for {
			f, ok, err := enumerateFields(h)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			fields = append(fields, f)
		}
	})
	return fields, err
}

// QueryUnique selects the field whose distinct values are returned by
// EnumerateUnique.
//
// Binds int sd_journal_query_unique(sd_journal *j, const char *field).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_query_unique.html.
func (j *Journal) QueryUnique(field string) error {
	return j.do(func(h *C.sd_journal) error {
		return check("sd_journal_query_unique", C.sd_journal_query_unique(h, j.cstr(field)))
	})
}

// EnumerateUnique returns the next distinct FIELD=value pair of the field
// selected with QueryUnique. It returns false, with a nil error, once all
// values were returned. Matches are ignored.
//
// Binds int sd_journal_enumerate_unique(sd_journal *j, const void **data, size_t *length).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_query_unique.html.
func (j *Journal) EnumerateUnique() ([]byte, bool, error) {
	var data []byte
	var ok bool
	err := j.do(func(h *C.sd_journal) (err error) {
		data, ok, err = enumerate("sd_journal_enumerate_unique", h, enumerateUnique)
		return
	})
	return data, ok, err
}

// EnumerateAvailableUnique is like EnumerateUnique, but silently skips
// values that cannot be read.
//
// Binds int sd_journal_enumerate_available_unique(sd_journal *j, const void **data, size_t *length).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_query_unique.html.
func (j *Journal) EnumerateAvailableUnique() ([]byte, bool, error) {
	var data []byte
	var ok bool
	err := j.do(func(h *C.sd_journal) (err error) {
		data, ok, err = enumerate("sd_journal_enumerate_available_unique", h, enumerateAvailableUnique)
		return
	})
	return data, ok, err
}

// RestartUnique resets the unique value enumeration.
//
// Binds void sd_journal_restart_unique(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_query_unique.html.
func (j *Journal) RestartUnique() error {
	return j.do(func(h *C.sd_journal) error {
		C.sd_journal_restart_unique(h)
		return nil
	})
}

// UniqueValues returns the distinct values of field, without the FIELD=
// prefix.
func (j *Journal) UniqueValues(field string) ([]string, error) {
	var values []string
	err := j.do(func(h *C.sd_journal) error {
		if err := check("sd_journal_query_unique", C.sd_journal_query_unique(h, j.cstr(field))); err != nil {
			return err
		}
		for {
			data, ok, err := enumerate("sd_journal_enumerate_available_unique", h, enumerateAvailableUnique)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if _, v, ok := splitField(data); ok {
				values = append(values, string(v))
			}
		}
	})
	return values, err
}

// Entry reads the current entry in full: every readable field, its cursor
// and its timestamps.
func (j *Journal) Entry() (*Entry, error) {
	var e *Entry
	err := j.do(func(h *C.sd_journal) error {
		var err error
		e = &Entry{Fields: make(map[string]string)}
		if e.Cursor, err = getCursor(h); err != nil {
			return err
		}
		if e.RealtimeUsec, err = realtimeUsec(h); err != nil {
			return err
		}
		if e.MonotonicUsec, e.BootID, err = monotonicUsec(h); err != nil {
			return err
		}
		C.sd_journal_restart_data(h)
		for {
			data, ok, err := enumerate("sd_journal_enumerate_available_data", h, enumerateAvailableData)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if name, value, ok := splitField(data); ok {
				e.Fields[name] = string(value)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}
