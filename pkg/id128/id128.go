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

package id128

/*
#cgo pkg-config: libsystemd
#include <stdlib.h>
#include <systemd/sd-id128.h>
*/
import "C"
import (
	"strings"
	"unsafe"

	"github.com/systemd-go/sdsys"
	"golang.org/x/sys/unix"
)

// ToString formats id as 32 lowercase hexadecimal characters.
//
// Binds char *sd_id128_to_string(sd_id128_t id, char s[33]).
// See https://www.freedesktop.org/software/systemd/man/sd_id128_to_string.html.
func ToString(id ID) string {
	var buf [StringMax]C.char
	return C.GoString(C.sd_id128_to_string(C.sd_id128_t(id), &buf[0]))
}

// FromString parses an ID formatted either as 32 hexadecimal characters or
// as a UUID.
//
// Binds int sd_id128_from_string(const char *s, sd_id128_t *ret).
// See https://www.freedesktop.org/software/systemd/man/sd_id128_to_string.html.
func FromString(s string) (ID, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return Null, &sdsys.Error{Op: "sd_id128_from_string", Errno: unix.EINVAL}
	}
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))

	var ret C.sd_id128_t
	rc := C.sd_id128_from_string(cs, &ret)
	return result("sd_id128_from_string", ret, rc)
}

// Randomize generates a new random ID, formatted as a v4 UUID.
//
// Binds int sd_id128_randomize(sd_id128_t *ret).
// See https://www.freedesktop.org/software/systemd/man/sd_id128_randomize.html.
func Randomize() (ID, error) {
	var ret C.sd_id128_t
	rc := C.sd_id128_randomize(&ret)
	return result("sd_id128_randomize", ret, rc)
}

// Machine returns the machine ID of the running system, as read from
// /etc/machine-id.
//
// Binds int sd_id128_get_machine(sd_id128_t *ret).
// See https://www.freedesktop.org/software/systemd/man/sd_id128_get_machine.html.
func Machine() (ID, error) {
	var ret C.sd_id128_t
	rc := C.sd_id128_get_machine(&ret)
	return result("sd_id128_get_machine", ret, rc)
}

// MachineAppSpecific returns an ID derived from the machine ID and app, so
// that the machine ID itself is not leaked to the application.
//
// Binds int sd_id128_get_machine_app_specific(sd_id128_t app_id, sd_id128_t *ret).
// See https://www.freedesktop.org/software/systemd/man/sd_id128_get_machine.html.
func MachineAppSpecific(app ID) (ID, error) {
	var ret C.sd_id128_t
	rc := C.sd_id128_get_machine_app_specific(C.sd_id128_t(app), &ret)
	return result("sd_id128_get_machine_app_specific", ret, rc)
}

// Boot returns the ID of the current boot.
//
// Binds int sd_id128_get_boot(sd_id128_t *ret).
// See https://www.freedesktop.org/software/systemd/man/sd_id128_get_machine.html.
func Boot() (ID, error) {
	var ret C.sd_id128_t
	rc := C.sd_id128_get_boot(&ret)
	return result("sd_id128_get_boot", ret, rc)
}

// BootAppSpecific returns an ID derived from the boot ID and app.
//
// Binds int sd_id128_get_boot_app_specific(sd_id128_t app_id, sd_id128_t *ret).
// See https://www.freedesktop.org/software/systemd/man/sd_id128_get_machine.html.
func BootAppSpecific(app ID) (ID, error) {
	var ret C.sd_id128_t
	rc := C.sd_id128_get_boot_app_specific(C.sd_id128_t(app), &ret)
	return result("sd_id128_get_boot_app_specific", ret, rc)
}

// Invocation returns the invocation ID of the service unit the calling
// process runs in. Fails when the process is not run by the service manager.
//
// Binds int sd_id128_get_invocation(sd_id128_t *ret).
// See https://www.freedesktop.org/software/systemd/man/sd_id128_get_machine.html.
func Invocation() (ID, error) {
	var ret C.sd_id128_t
	rc := C.sd_id128_get_invocation(&ret)
	return result("sd_id128_get_invocation", ret, rc)
}

func result(op string, ret C.sd_id128_t, rc C.int) (ID, error) {
	if err := sdsys.Check(op, int(rc)); err != nil {
		return Null, err
	}
	return ID(ret), nil
}

// String returns the ID formatted by ToString.
func (id ID) String() string {
	return ToString(id)
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(ToString(id)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	v, err := FromString(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
