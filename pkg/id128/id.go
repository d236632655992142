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

package id128

// StringMax is the size of the buffer sd_id128_to_string writes into,
// 32 hexadecimal characters plus the terminator.
const StringMax = 33

// ID is a 128-bit identifier, laid out as the byte view of sd_id128_t.
type ID [16]byte

// Null is the all-zero ID, which libsystemd uses to denote "no ID".
var Null ID

// IsNull reports whether id is the all-zero ID, as sd_id128_is_null does.
func (id ID) IsNull() bool {
	return id == Null
}
