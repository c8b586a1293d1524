// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package forward

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/forward/pipeline"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for forward and its sub-packages.
// By default nothing is logged. Pass nil to restore silence.
//
// Log levels used:
//   - [slog.LevelDebug]: pipeline creation, per-frame command statistics
//   - [slog.LevelInfo]: backend lifecycle (device opened, targets created)
//   - [slog.LevelWarn]: non-fatal issues (resource release errors)
//
// Example:
//
//	forward.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	pipeline.SetLogger(l)
}

// Logger returns the current logger. Backends call this to share the
// configuration set through SetLogger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
