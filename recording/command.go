// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import "github.com/gogpu/forward/gpu"

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdClearColor CommandType = iota // Clear a color view
	CmdClearDepth                    // Clear a depth view
	CmdDraw                          // Draw a vertex range
)

var commandTypeNames = [...]string{
	CmdClearColor: "ClearColor",
	CmdClearDepth: "ClearDepth",
	CmdDraw:       "Draw",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is implemented by all command types.
type Command interface {
	Type() CommandType
}

// ClearColorCommand clears a color view.
type ClearColorCommand struct {
	View  gpu.ColorView
	Color [4]float32
}

// Type implements Command.
func (ClearColorCommand) Type() CommandType { return CmdClearColor }

// ClearDepthCommand clears a depth view.
type ClearDepthCommand struct {
	View  gpu.DepthView
	Value float32
}

// Type implements Command.
func (ClearDepthCommand) Type() CommandType { return CmdClearDepth }

// DrawCommand draws Slice with Pipeline. Bindings is a private copy taken
// when the command was recorded.
type DrawCommand struct {
	Slice    gpu.Slice
	Pipeline gpu.Pipeline
	Bindings *gpu.Bindings
}

// Type implements Command.
func (DrawCommand) Type() CommandType { return CmdDraw }

// Uniform returns the value of the named uniform of the draw.
func (c DrawCommand) Uniform(name string) (gpu.Uniform, bool) {
	if c.Bindings == nil {
		return gpu.Uniform{}, false
	}
	return c.Bindings.Uniform(name)
}
