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

// Package id128 binds the sd-id128 API of libsystemd, which generates and
// parses 128-bit identifiers: random IDs, the machine ID, the boot ID, the
// invocation ID of the running unit, and application specific IDs derived
// from the machine and boot IDs.
//
// See https://www.freedesktop.org/software/systemd/man/sd-id128.html.
package id128
