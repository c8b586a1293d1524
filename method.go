// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package forward

import (
	"fmt"

	"github.com/gogpu/forward/gpu"
)

// Method is a rendering technique taking arguments of type A.
//
// Apply appends the technique's commands for arg to enc. It never submits
// enc. It only reads target and scenes. If Apply returns an error it has
// appended nothing. Calling Apply twice with the same inputs appends the
// same command sequence twice.
type Method[A any] interface {
	Apply(arg A, target *Target, scenes Scenes, enc gpu.Encoder) error
}

// Pass is a technique with its arguments already bound, so passes of
// different techniques can be held in one list.
type Pass interface {
	Apply(target *Target, scenes Scenes, enc gpu.Encoder) error
}

// BoundPass pairs a Method with its argument.
type BoundPass[A any] struct {
	Method Method[A]
	Arg    A
}

// Bind returns a Pass applying m with arg.
func Bind[A any](m Method[A], arg A) *BoundPass[A] {
	return &BoundPass[A]{Method: m, Arg: arg}
}

// Apply implements Pass.
func (p *BoundPass[A]) Apply(target *Target, scenes Scenes, enc gpu.Encoder) error {
	return p.Method.Apply(p.Arg, target, scenes, enc)
}

// Passes is an ordered render pass list.
type Passes []Pass

// Apply applies each pass in order and stops at the first error. Commands
// appended by earlier passes stay in enc.
func (ps Passes) Apply(target *Target, scenes Scenes, enc gpu.Encoder) error {
	for i, p := range ps {
		if err := p.Apply(target, scenes, enc); err != nil {
			return fmt.Errorf("forward: pass %d: %w", i, err)
		}
	}
	return nil
}

// checkCall validates the arguments shared by every technique.
func checkCall(target *Target, enc gpu.Encoder) error {
	if target == nil {
		return ErrNilTarget
	}
	if enc == nil {
		return ErrNilEncoder
	}
	return nil
}
