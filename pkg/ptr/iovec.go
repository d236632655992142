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
#include <sys/uio.h>
*/
import "C"
import (
	"unsafe"
)

// IovecArray is a C array of struct iovec, the scatter/gather descriptor
// used by POSIX vectored I/O and by sd_journal_sendv. Each region is a
// C copy of the Go slice it was built from, so the array can be handed
// to native code without breaking the cgo pointer passing rules.
type IovecArray struct {
	iov *C.struct_iovec
	n   int
}

// NewIovecArray copies each of bufs into C memory and describes them
// with one iovec per buffer, in order.
func NewIovecArray(bufs [][]byte) *IovecArray {
	a := &IovecArray{n: len(bufs)}
	if len(bufs) == 0 {
		return a
	}
	a.iov = (*C.struct_iovec)(C.calloc(C.size_t(len(bufs)), C.sizeof_struct_iovec))
	iovs := unsafe.Slice(a.iov, len(bufs))
	for i, b := range bufs {
		iovs[i].iov_base = C.CBytes(b)
		iovs[i].iov_len = C.size_t(len(b))
	}
	return a
}

// Ptr returns a pointer to the first iovec, suitable to be converted to a
// *C.struct_iovec. Returns nil for an empty array.
func (a *IovecArray) Ptr() unsafe.Pointer {
	return unsafe.Pointer(a.iov)
}

// Len returns the number of regions.
func (a *IovecArray) Len() int {
	return a.n
}

// Bytes returns a Go copy of the i-th region.
func (a *IovecArray) Bytes(i int) []byte {
	iov := unsafe.Slice(a.iov, a.n)[i]
	return C.GoBytes(iov.iov_base, C.int(iov.iov_len))
}

// Free releases every region and the array itself.
func (a *IovecArray) Free() {
	if a.iov == nil {
		return
	}
	for _, iov := range unsafe.Slice(a.iov, a.n) {
		C.free(iov.iov_base)
	}
	C.free(unsafe.Pointer(a.iov))
	a.iov = nil
	a.n = 0
}
