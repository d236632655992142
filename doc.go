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

// Package sdsys provides Go bindings for the sd-id128 and sd-journal APIs
// of libsystemd (https://www.freedesktop.org/software/systemd/man/sd-id128.html,
// https://www.freedesktop.org/software/systemd/man/sd-journal.html).
//
// The bindings live in pkg/id128 and pkg/journal. Each exported function
// mirrors exactly one native function, converting C return codes into Go
// errors and copying memory owned by libsystemd into Go values before
// returning. The native library must be available through pkg-config
// (libsystemd) at build time and cgo must be enabled.
//
// This package holds what the binding packages share, namely the error type
// used to report negative errno return codes.
package sdsys
