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

package ptr

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"
import (
	"unsafe"
)

// StringBuffer is a reusable C buffer holding a NUL-terminated string.
//
// The buffer is reallocated only when a value does not fit in the memory
// currently held, so one StringBuffer can serve many native calls that take
// a const char* argument without allocating for each of them.
type StringBuffer struct {
	cPtr     *C.char
	len      int
	capacity int
}

// Write copies str into the buffer, replacing any previous content.
func (s *StringBuffer) Write(str string) {
	s.write(unsafe.Pointer(unsafe.StringData(str)), len(str))
}

// WriteBytes copies b into the buffer, replacing any previous content.
// A terminator is appended, so b must not be expected to contain one.
func (s *StringBuffer) WriteBytes(b []byte) {
	s.write(unsafe.Pointer(unsafe.SliceData(b)), len(b))
}

func (s *StringBuffer) write(src unsafe.Pointer, n int) {
	if s.cPtr == nil || n+1 > s.capacity {
		if s.cPtr != nil {
			C.free(unsafe.Pointer(s.cPtr))
		}
		s.capacity = n + 1
		s.cPtr = (*C.char)(C.malloc(C.size_t(s.capacity)))
	}
	if n > 0 {
		C.memcpy(unsafe.Pointer(s.cPtr), src, C.size_t(n))
	}
	*(*C.char)(unsafe.Add(unsafe.Pointer(s.cPtr), n)) = 0
	s.len = n
}

// CharPtr returns a pointer to the first byte of the buffer, suitable to be
// converted to a *C.char. Returns nil if nothing was ever written.
func (s *StringBuffer) CharPtr() unsafe.Pointer {
	if s.cPtr == nil {
		return nil
	}
	return unsafe.Pointer(s.cPtr)
}

// Len returns the length of the current content, terminator excluded.
func (s *StringBuffer) Len() int {
	return s.len
}

// String returns a Go copy of the current content.
func (s *StringBuffer) String() string {
	if s.cPtr == nil {
		return ""
	}
	return C.GoStringN(s.cPtr, C.int(s.len))
}

// Free releases the C memory held by the buffer.
func (s *StringBuffer) Free() {
	if s.cPtr != nil {
		C.free(unsafe.Pointer(s.cPtr))
	}
	s.cPtr = nil
	s.len = 0
	s.capacity = 0
}

// StringArray is a NULL-terminated array of C strings, the layout expected
// by native functions taking a const char ** argument.
type StringArray struct {
	arr **C.char
	n   int
}

// NewStringArray copies strs into C memory.
func NewStringArray(strs []string) *StringArray {
	a := &StringArray{n: len(strs)}
	a.arr = (**C.char)(C.calloc(C.size_t(len(strs)+1), C.size_t(unsafe.Sizeof((*C.char)(nil)))))
	elems := unsafe.Slice(a.arr, len(strs)+1)
	for i, s := range strs {
		elems[i] = C.CString(s)
	}
	elems[len(strs)] = nil
	return a
}

// Ptr returns a pointer to the first element of the array, suitable to be
// converted to a **C.char.
func (a *StringArray) Ptr() unsafe.Pointer {
	return unsafe.Pointer(a.arr)
}

// Len returns the number of strings, terminator excluded.
func (a *StringArray) Len() int {
	return a.n
}

// Strings reads back the content of the array.
func (a *StringArray) Strings() []string {
	if a.arr == nil {
		return nil
	}
	res := make([]string, 0, a.n)
	for _, p := range unsafe.Slice(a.arr, a.n) {
		res = append(res, C.GoString(p))
	}
	return res
}

// Free releases every string and the array itself.
func (a *StringArray) Free() {
	if a.arr == nil {
		return
	}
	for _, p := range unsafe.Slice(a.arr, a.n) {
		C.free(unsafe.Pointer(p))
	}
	C.free(unsafe.Pointer(a.arr))
	a.arr = nil
	a.n = 0
}
