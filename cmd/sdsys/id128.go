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

package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/systemd-go/sdsys/pkg/id128"
)

func runID128(_ context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: id128 needs one of new, machine, boot, invocation", errInvalidArgs)
	}
	action := args[0]

	fs := e.newFlagSet("id128")
	app := fs.String("app", "", "Derive an application specific ID from this `ID` (machine and boot only).")
	asUUID := fs.Bool("uuid", false, "Print the ID in UUID form.")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", errInvalidArgs, fs.Arg(0))
	}

	var appID id128.ID
	if *app != "" {
		if action != "machine" && action != "boot" {
			return fmt.Errorf("%w: -app only applies to machine and boot", errInvalidArgs)
		}
		var err error
		if appID, err = id128.FromString(*app); err != nil {
			return fmt.Errorf("parse -app: %w", err)
		}
	}

	var (
		id  id128.ID
		err error
	)
	switch action {
	case "new":
		id, err = id128.Randomize()
	case "machine":
		if *app != "" {
			id, err = id128.MachineAppSpecific(appID)
		} else {
			id, err = id128.Machine()
		}
	case "boot":
		if *app != "" {
			id, err = id128.BootAppSpecific(appID)
		} else {
			id, err = id128.Boot()
		}
	case "invocation":
		id, err = id128.Invocation()
	default:
		return fmt.Errorf("%w: unknown id128 action %q", errInvalidArgs, action)
	}
	if err != nil {
		return err
	}

	e.log.Debug("id128", "action", action, "id", id)
	if *asUUID {
		fmt.Fprintln(e.stdout, formatUUID(id))
	} else {
		fmt.Fprintln(e.stdout, id)
	}
	return nil
}

// formatUUID renders id as 8-4-4-4-12 lowercase hex groups.
func formatUUID(id id128.ID) string {
	return uuid.UUID(id).String()
}
