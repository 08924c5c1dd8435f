// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Package trace provides a lightweight boolean flag that can be wired into
// flag.Var or an environment variable to turn on protocol-level tracing
// without pulling in a full logging configuration.
package trace

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Flag is a boolean that implements flag.Value so it can be set from a
// command line flag (gohdbctl forwards its --trace flag to Trace.Set) or
// parsed from a config value.
type Flag bool

func (f *Flag) String() string { return strconv.FormatBool(bool(*f)) }

func (f *Flag) IsBoolFlag() bool { return true }

func (f *Flag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*f = Flag(v)
	return nil
}

// On reports whether tracing is enabled.
func (f *Flag) On() bool { return bool(*f) }

// Trace is the package level tracing switch consulted by the transport and
// auth packages before formatting a trace log line, so that tracing imposes
// no cost when disabled.
var Trace Flag

var logger = log.New(os.Stderr, "gohdb.trace: ", log.LstdFlags)

// Printf writes a formatted trace line when Trace is on, and does nothing
// otherwise. Callers in transport and auth pass a %s-style format built
// from values that are otherwise discarded, so the formatting work itself
// only happens when tracing is enabled.
func Printf(format string, args ...interface{}) {
	if !Trace.On() {
		return
	}
	logger.Output(2, fmt.Sprintf(format, args...))
}
