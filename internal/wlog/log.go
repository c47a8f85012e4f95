// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wlog provides the package-level logger shared by txcore's
// selector, builder, mixin and oracle packages. Callers wire in their own
// backend with UseLogger; until then, logging is a no-op.
package wlog

import "github.com/btcsuite/btclog"

// Log is the subsystem logger used throughout txcore. It defaults to
// disabled so importing this module never writes to a caller's process-wide
// I/O on its own (spec: "the core must not touch process-wide I/O").
var Log = btclog.Disabled

// UseLogger sets the subsystem logger used by txcore. Call this before any
// selector, builder or mixin operation if log output is wanted.
func UseLogger(logger btclog.Logger) {
	Log = logger
}
