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

package sdsys

import (
	"golang.org/x/sys/unix"
)

// Error reports a failed libsystemd call. The native functions return a
// negative errno value on failure, which is stored in Errno.
type Error struct {
	Op    string
	Errno unix.Errno
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Errno.Error()
}

// Unwrap returns the errno, so that callers can use errors.Is with the
// unix.E* values.
func (e *Error) Unwrap() error {
	return e.Errno
}

// Check converts the return code rc of the native function op into an
// error. Non-negative return codes denote success and yield nil.
func Check(op string, rc int) error {
	if rc >= 0 {
		return nil
	}
	return &Error{Op: op, Errno: unix.Errno(-rc)}
}
