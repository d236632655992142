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

// note: sd-journal.h turns sd_journal_print and sd_journal_sendv into macros
// recording the C call site unless SD_JOURNAL_SUPPRESS_LOCATION is set, and
// cgo cannot call variadic functions, so printing goes through a wrapper

/*
#define SD_JOURNAL_SUPPRESS_LOCATION
#include <stdlib.h>
#include <sys/uio.h>
#include <systemd/sd-journal.h>

static int __journal_print(int priority, const char *message)
{
	return sd_journal_print(priority, "%s", message);
}
*/
import "C"
import (
	"fmt"
	"sort"
	"unsafe"

	"github.com/systemd-go/sdsys/pkg/ptr"
)

// Print submits a simple message with the given priority.
//
// Binds int sd_journal_print(int priority, const char *format, ...).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_print.html.
func Print(priority Priority, message string) error {
	m := C.CString(message)
	defer C.free(unsafe.Pointer(m))
	return check("sd_journal_print", C.__journal_print(C.int(priority), m))
}

// Sendv submits an entry made of FIELD=value pairs, one per element of
// fields. Values may contain arbitrary bytes, newlines included.
//
// Binds int sd_journal_sendv(const struct iovec *iov, int n).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_print.html.
func Sendv(fields [][]byte) error {
	iov := ptr.NewIovecArray(fields)
	defer iov.Free()
	return check("sd_journal_sendv", C.sd_journal_sendv((*C.struct_iovec)(iov.Ptr()), C.int(iov.Len())))
}

// Send submits an entry with the given fields, sorted by name. Field names
// are checked with ValidFieldName first.
func Send(fields map[string]string) error {
	iov, err := fieldsIovec(fields)
	if err != nil {
		return err
	}
	return Sendv(iov)
}

func fieldsIovec(fields map[string]string) ([][]byte, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if !ValidFieldName(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	iov := make([][]byte, 0, len(names))
	for _, name := range names {
		iov = append(iov, []byte(name+"="+fields[name]))
	}
	return iov, nil
}
