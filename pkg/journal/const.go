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

import (
	"fmt"
	"strconv"
	"strings"
)

// OpenFlag selects the journal files opened by Open, OpenNamespace,
// OpenDirectory and OpenFiles. Values mirror the SD_JOURNAL_* flags of
// sd-journal.h.
type OpenFlag int

const (
	LocalOnly               OpenFlag = 1 << 0 // SD_JOURNAL_LOCAL_ONLY
	RuntimeOnly             OpenFlag = 1 << 1 // SD_JOURNAL_RUNTIME_ONLY
	System                  OpenFlag = 1 << 2 // SD_JOURNAL_SYSTEM
	CurrentUser             OpenFlag = 1 << 3 // SD_JOURNAL_CURRENT_USER
	OSRoot                  OpenFlag = 1 << 4 // SD_JOURNAL_OS_ROOT
	AllNamespaces           OpenFlag = 1 << 5 // SD_JOURNAL_ALL_NAMESPACES
	IncludeDefaultNamespace OpenFlag = 1 << 6 // SD_JOURNAL_INCLUDE_DEFAULT_NAMESPACE
)

var openFlagNames = []struct {
	flag OpenFlag
	name string
}{
	{LocalOnly, "local_only"},
	{RuntimeOnly, "runtime_only"},
	{System, "system"},
	{CurrentUser, "current_user"},
	{OSRoot, "os_root"},
	{AllNamespaces, "all_namespaces"},
	{IncludeDefaultNamespace, "include_default_namespace"},
}

// ParseOpenFlag returns the flag with the given name, e.g. "local_only".
func ParseOpenFlag(name string) (OpenFlag, error) {
	for _, f := range openFlagNames {
		if f.name == name {
			return f.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown open flag %q", name)
}

func (f OpenFlag) String() string {
	if f == 0 {
		return "0"
	}
	var names []string
	for _, n := range openFlagNames {
		if f&n.flag != 0 {
			names = append(names, n.name)
			f &^= n.flag
		}
	}
	if f != 0 {
		names = append(names, "0x"+strconv.FormatInt(int64(f), 16))
	}
	return strings.Join(names, "|")
}

// Priority is the syslog priority of an entry, stored in the PRIORITY field.
// Values mirror the LOG_* constants of syslog.h.
type Priority int

const (
	Emerg   Priority = 0 // LOG_EMERG
	Alert   Priority = 1 // LOG_ALERT
	Crit    Priority = 2 // LOG_CRIT
	Err     Priority = 3 // LOG_ERR
	Warning Priority = 4 // LOG_WARNING
	Notice  Priority = 5 // LOG_NOTICE
	Info    Priority = 6 // LOG_INFO
	Debug   Priority = 7 // LOG_DEBUG
)

var priorityNames = [...]string{"emerg", "alert", "crit", "err", "warning", "notice", "info", "debug"}

// ParsePriority accepts either a priority name as printed by String
// ("err", "info", ...) or its numeric value ("3", "6", ...).
func ParsePriority(s string) (Priority, error) {
	for i, n := range priorityNames {
		if n == s {
			return Priority(i), nil
		}
	}
	if v, err := strconv.Atoi(s); err == nil && v >= int(Emerg) && v <= int(Debug) {
		return Priority(v), nil
	}
	return 0, fmt.Errorf("invalid priority %q", s)
}

func (p Priority) String() string {
	if p >= Emerg && p <= Debug {
		return priorityNames[p]
	}
	return "Priority(" + strconv.Itoa(int(p)) + ")"
}

// WakeupEvent is returned by Process and Wait and tells what changed in the
// journal files since the last call. Values mirror SD_JOURNAL_NOP,
// SD_JOURNAL_APPEND and SD_JOURNAL_INVALIDATE.
type WakeupEvent int

const (
	// Nop means nothing changed.
	Nop WakeupEvent = 0
	// Append means new entries were appended.
	Append WakeupEvent = 1
	// Invalidate means files were added or removed, so previously read
	// state (cursors excluded) may not be valid anymore.
	Invalidate WakeupEvent = 2
)

func (w WakeupEvent) String() string {
	switch w {
	case Nop:
		return "nop"
	case Append:
		return "append"
	case Invalidate:
		return "invalidate"
	}
	return "WakeupEvent(" + strconv.Itoa(int(w)) + ")"
}
