// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/forward/gpu"
)

// ErrCompile is matched by every *CompileError.
var ErrCompile = errors.New("shader: compile failed")

// CompileError reports a stage that failed to compile. Log holds the
// compiler diagnostic text.
type CompileError struct {
	Stage gpu.StageKind
	Label string
	Log   string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader: compile %s stage %q: %s", e.Stage, e.Label, e.Log)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCompile.
func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}
