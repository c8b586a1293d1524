// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"fmt"

	"github.com/gogpu/forward/gpu"
)

// Recorder captures encoder operations as commands. It implements
// gpu.Encoder. A Recorder is not safe for concurrent use.
type Recorder struct {
	commands []Command
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{commands: make([]Command, 0, 64)}
}

// Draw implements gpu.Encoder. The bindings are copied.
func (r *Recorder) Draw(slice gpu.Slice, pso gpu.Pipeline, b *gpu.Bindings) {
	r.commands = append(r.commands, DrawCommand{Slice: slice, Pipeline: pso, Bindings: b.Clone()})
}

// ClearColor implements gpu.Encoder.
func (r *Recorder) ClearColor(view gpu.ColorView, c [4]float32) {
	r.commands = append(r.commands, ClearColorCommand{View: view, Color: c})
}

// ClearDepth implements gpu.Encoder.
func (r *Recorder) ClearDepth(view gpu.DepthView, v float32) {
	r.commands = append(r.commands, ClearDepthCommand{View: view, Value: v})
}

// Len returns the number of recorded commands.
func (r *Recorder) Len() int {
	return len(r.commands)
}

// Finish returns the recording of all commands so far and resets the
// recorder for reuse.
func (r *Recorder) Finish() *Recording {
	rec := &Recording{commands: r.commands}
	r.commands = make([]Command, 0, cap(rec.commands))
	return rec
}

// Recording is an immutable list of recorded commands.
type Recording struct {
	commands []Command
}

// Commands returns the recorded commands in order.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Len returns the number of commands.
func (r *Recording) Len() int {
	return len(r.commands)
}

// Draws returns the draw commands in order.
func (r *Recording) Draws() []DrawCommand {
	var draws []DrawCommand
	for _, c := range r.commands {
		if d, ok := c.(DrawCommand); ok {
			draws = append(draws, d)
		}
	}
	return draws
}

// Count returns the number of commands of type t.
func (r *Recording) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Types returns the type of each command in order.
func (r *Recording) Types() []CommandType {
	types := make([]CommandType, len(r.commands))
	for i, c := range r.commands {
		types[i] = c.Type()
	}
	return types
}

// Playback replays the recording to backend. Draws are assembled into
// primitives first; an assembly error stops playback before End.
func (r *Recording) Playback(backend Backend) error {
	if err := backend.Begin(); err != nil {
		return err
	}
	for i, cmd := range r.commands {
		switch c := cmd.(type) {
		case ClearColorCommand:
			backend.ClearColor(c.View, c.Color)
		case ClearDepthCommand:
			backend.ClearDepth(c.View, c.Value)
		case DrawCommand:
			batch, err := Assemble(c)
			if err != nil {
				return fmt.Errorf("recording: command %d: %w", i, err)
			}
			backend.DrawBatch(batch)
		}
	}
	return backend.End()
}

var _ gpu.Encoder = (*Recorder)(nil)
