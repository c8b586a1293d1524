// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"github.com/gogpu/naga"

	"github.com/gogpu/forward/gpu"
)

// Module is a compiled shader stage.
type Module struct {
	Source    Source
	SPIRV     []uint32
	Interface Interface
}

// Stage returns the module as a pipeline stage.
func (m *Module) Stage() gpu.Stage {
	return gpu.Stage{
		Kind:       m.Source.Stage,
		Label:      m.Source.Label,
		EntryPoint: m.Source.EntryPoint,
		Source:     m.Source.Text,
		SPIRV:      m.SPIRV,
		Geometry:   m.Source.Geometry,
	}
}

// Compile compiles src to SPIR-V and reflects its interface. Any failure
// is returned as a *CompileError carrying the diagnostic text.
func Compile(src Source) (*Module, error) {
	spirvBytes, err := naga.Compile(src.Text)
	if err != nil {
		return nil, &CompileError{Stage: src.Stage, Label: src.Label, Log: err.Error(), Err: err}
	}
	if len(spirvBytes) == 0 || len(spirvBytes)%4 != 0 {
		return nil, &CompileError{Stage: src.Stage, Label: src.Label, Log: "compiler returned malformed SPIR-V"}
	}

	iface, err := Reflect(src)
	if err != nil {
		return nil, &CompileError{Stage: src.Stage, Label: src.Label, Log: err.Error(), Err: err}
	}

	return &Module{
		Source:    src,
		SPIRV:     words(spirvBytes),
		Interface: iface,
	}, nil
}

// words converts little-endian SPIR-V bytes to 32-bit words.
func words(b []byte) []uint32 {
	w := make([]uint32, len(b)/4)
	for i := range w {
		w[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return w
}
