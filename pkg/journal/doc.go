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

// Package journal binds the sd-journal API of libsystemd, which writes
// structured entries to the system journal and reads them back from the
// journal files.
//
// A Journal wraps the opaque sd_journal handle returned by one of the Open
// functions. Its methods mirror the native functions operating on the
// handle, one to one, and are safe for concurrent use: calls are serialized
// by a mutex because the native object is not thread safe. A blocking Wait
// holds that mutex for its whole duration. Data handed out
// by libsystemd is only valid until the next call on the handle, so it is
// always copied into Go memory before a method returns.
//
// Writing does not need a handle: Print, Sendv and Send talk directly to the
// journald socket.
//
// See https://www.freedesktop.org/software/systemd/man/sd-journal.html.
package journal
