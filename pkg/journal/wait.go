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
#include <systemd/sd-journal.h>
*/
import "C"
import (
	"context"
	"math"
	"time"
)

// NoTimeout is the value returned by Timeout when no timeout is needed.
const NoTimeout = math.MaxUint64

// followPoll bounds how long Follow blocks in Wait before it checks its
// context again.
var followPoll = 250 * time.Millisecond

// Fd returns a file descriptor that becomes ready when the journal changes,
// for integration in an external event loop. Call Process once it wakes up.
//
// Binds int sd_journal_get_fd(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_fd.html.
func (j *Journal) Fd() (int, error) {
	return j.intCall("sd_journal_get_fd", func(h *C.sd_journal) C.int {
		return C.sd_journal_get_fd(h)
	})
}

// Events returns the poll(2) events to wait for on the descriptor returned
// by Fd, e.g. unix.POLLIN.
//
// Binds int sd_journal_get_events(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_fd.html.
func (j *Journal) Events() (int, error) {
	return j.intCall("sd_journal_get_events", func(h *C.sd_journal) C.int {
		return C.sd_journal_get_events(h)
	})
}

// Timeout returns the absolute CLOCK_MONOTONIC time, in microseconds, at
// which the descriptor returned by Fd must be polled again at the latest,
// or NoTimeout.
//
// Binds int sd_journal_get_timeout(sd_journal *j, uint64_t *timeout_usec).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_fd.html.
func (j *Journal) Timeout() (uint64, error) {
	var timeout uint64
	err := j.do(func(h *C.sd_journal) error {
		var usec C.uint64_t
		if err := check("sd_journal_get_timeout", C.sd_journal_get_timeout(h, &usec)); err != nil {
			return err
		}
		timeout = uint64(usec)
		return nil
	})
	return timeout, err
}

// Process consumes the pending changes once the descriptor returned by Fd
// woke up, and tells what changed.
//
// Binds int sd_journal_process(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_fd.html.
func (j *Journal) Process() (WakeupEvent, error) {
	ev, err := j.intCall("sd_journal_process", func(h *C.sd_journal) C.int {
		return C.sd_journal_process(h)
	})
	return WakeupEvent(ev), err
}

// Wait blocks until the journal changes or timeout elapses. A negative
// timeout waits forever.
//
// The journal stays locked during the wait, so Close and every other method
// called from other goroutines block until Wait returns. Use a bounded
// timeout, as Follow does, or poll Fd when the journal is shared.
//
// Binds int sd_journal_wait(sd_journal *j, uint64_t timeout_usec).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_fd.html.
func (j *Journal) Wait(timeout time.Duration) (WakeupEvent, error) {
	usec := C.uint64_t(NoTimeout)
	if timeout >= 0 {
		usec = C.uint64_t(timeout.Microseconds())
	}
	ev, err := j.intCall("sd_journal_wait", func(h *C.sd_journal) C.int {
		return C.sd_journal_wait(h, usec)
	})
	return WakeupEvent(ev), err
}

// ReliableFd reports whether the descriptor returned by Fd is enough to be
// notified of every change. When it is not, Timeout must be honoured.
//
// Binds int sd_journal_reliable_fd(sd_journal *j).
// See https://www.freedesktop.org/software/systemd/man/sd_journal_get_fd.html.
func (j *Journal) ReliableFd() (bool, error) {
	return j.boolCall("sd_journal_reliable_fd", func(h *C.sd_journal) C.int {
		return C.sd_journal_reliable_fd(h)
	})
}

func (j *Journal) intCall(op string, fn func(h *C.sd_journal) C.int) (int, error) {
	var res int
	err := j.do(func(h *C.sd_journal) error {
		rc := fn(h)
		res = int(rc)
		return check(op, rc)
	})
	if err != nil {
		return 0, err
	}
	return res, nil
}

// Follow calls fn for every entry after the current position, waiting for
// new entries once the end of the journal is reached. It returns when ctx is
// done, with the context error, or when fn or a journal call fails.
func (j *Journal) Follow(ctx context.Context, fn func(*Entry) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := j.Next()
		if err != nil {
			return err
		}
		if ok {
			e, err := j.Entry()
			if err != nil {
				return err
			}
			if err := fn(e); err != nil {
				return err
			}
			continue
		}
		if _, err := j.Wait(followPoll); err != nil {
			return err
		}
	}
}
