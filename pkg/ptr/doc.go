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

// Package ptr contains helpers for handing Go values to C code.
//
// Every type in this package owns memory allocated with malloc, which lives
// outside of the Go garbage collector. Callers must invoke Free once the
// native side no longer references the memory. The zero values are ready to
// use and Free can safely be called more than once.
package ptr
