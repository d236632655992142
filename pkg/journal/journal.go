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
#cgo pkg-config: libsystemd
#include <stdlib.h>
#include <systemd/sd-journal.h>
*/
import "C"
import (
	"errors"
	"sync"
	"unsafe"

	"github.com/systemd-go/sdsys"
	"github.com/systemd-go/sdsys/pkg/ptr"
)

// ErrClosed is returned by the methods of a Journal that was closed.
var ErrClosed = errors.New("journal is closed")

// Journal is an open sd_journal handle.
type Journal struct {
	m sync.Mutex
	j *C.sd_journal
	// arg holds the C copy of string arguments, reused across calls
	arg ptr.StringBuffer
}

func check(op string, rc C.int) error {
	return sdsys.Check(op, int(rc))
}

// Open opens the journal files of the local host, selected by flags.
//
// Binds int sd_journal_open(sd_journal **ret, int flags).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_open.html.
func Open(flags OpenFlag) (*Journal, error) {
	var j *C.sd_journal
	if err := check("sd_journal_open", C.sd_journal_open(&j, C.int(flags))); err != nil {
		return nil, err
	}
	return &Journal{j: j}, nil
}

// OpenNamespace opens the journal files of the given journal namespace.
// An empty namespace selects the default one.
//
// Binds int sd_journal_open_namespace(sd_journal **ret, const char *namespace, int flags).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_open.html.
func OpenNamespace(namespace string, flags OpenFlag) (*Journal, error) {
	var ns *C.char
	if namespace != "" {
		ns = C.CString(namespace)
		defer C.free(unsafe.Pointer(ns))
	}
	var j *C.sd_journal
	if err := check("sd_journal_open_namespace", C.sd_journal_open_namespace(&j, ns, C.int(flags))); err != nil {
		return nil, err
	}
	return &Journal{j: j}, nil
}

// OpenDirectory opens the journal files found in path. flags may combine
// OSRoot, System and CurrentUser.
//
// Binds int sd_journal_open_directory(sd_journal **ret, const char *path, int flags).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_open.html.
func OpenDirectory(path string, flags OpenFlag) (*Journal, error) {
	p := C.CString(path)
	defer C.free(unsafe.Pointer(p))
	var j *C.sd_journal
	if err := check("sd_journal_open_directory", C.sd_journal_open_directory(&j, p, C.int(flags))); err != nil {
		return nil, err
	}
	return &Journal{j: j}, nil
}

// OpenFiles opens the given journal files. flags must be zero.
//
// Binds int sd_journal_open_files(sd_journal **ret, const char **paths, int flags).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_open.html.
func OpenFiles(paths []string, flags OpenFlag) (*Journal, error) {
	arr := ptr.NewStringArray(paths)
	defer arr.Free()
	var j *C.sd_journal
	if err := check("sd_journal_open_files", C.sd_journal_open_files(&j, (**C.char)(arr.Ptr()), C.int(flags))); err != nil {
		return nil, err
	}
	return &Journal{j: j}, nil
}

// Close releases the handle. Closing an already closed journal does
// nothing.
//
// Binds void sd_journal_close(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_open.html.
func (j *Journal) Close() error {
	j.m.Lock()
	defer j.m.Unlock()
	if j.j != nil {
		C.sd_journal_close(j.j)
		j.j = nil
	}
	j.arg.Free()
	return nil
}

// cstr copies s into the argument buffer. Must be called with j.m held.
func (j *Journal) cstr(s string) *C.char {
	j.arg.Write(s)
	return (*C.char)(j.arg.CharPtr())
}

// do runs f with the lock held, failing with ErrClosed if needed.
func (j *Journal) do(f func(h *C.sd_journal) error) error {
	j.m.Lock()
	defer j.m.Unlock()
	if j.j == nil {
		return ErrClosed
	}
	return f(j.j)
}
