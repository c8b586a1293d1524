// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pipeline compiles shader stages and binds them, together with
// fixed-function state, into immutable pipeline state objects.
//
// Two construction paths exist. CreateSimple takes a vertex and a fragment
// stage and draws filled triangle lists. CreatePipelineState takes an
// explicit ShaderSet (optionally with a geometry stage), topology and
// Rasterizer.
//
// Both paths validate everything before the factory is called: stages must
// compile, vertex inputs must match the declared vertex buffer, the uniform
// block must match the declared uniforms, fragment outputs must match the
// declared color targets, and formats must make sense. A technique that
// constructs successfully therefore cannot fail on a binding mismatch at
// draw time.
package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/forward/gpu"
	"github.com/gogpu/forward/shader"
)

// Layout declares what draw calls against a pipeline will supply and where
// its output goes.
type Layout struct {
	Label        string
	VertexBuffer gpu.VertexBufferLayout
	Uniforms     []gpu.UniformSlot
	Color        []gpu.ColorTarget
	// Depth is nil for pipelines without a depth target.
	Depth *gpu.DepthTarget
}

// Rasterizer is the rasterizer state of a pipeline.
type Rasterizer struct {
	FrontFace gputypes.FrontFace
	CullMode  gputypes.CullMode
	Fill      gpu.FillMode
}

// NewFill returns a solid-fill rasterizer with counter-clockwise front
// faces and the given cull mode.
func NewFill(cull gputypes.CullMode) Rasterizer {
	return Rasterizer{
		FrontFace: gputypes.FrontFaceCCW,
		CullMode:  cull,
		Fill:      gpu.FillSolid,
	}
}

// ShaderSet is the set of stages a pipeline is linked from.
type ShaderSet struct {
	Vertex   shader.Source
	Geometry *shader.Source
	Fragment shader.Source
}

// Simple returns a vertex + fragment shader set.
func Simple(vs, fs shader.Source) ShaderSet {
	return ShaderSet{Vertex: vs, Fragment: fs}
}

// Geometry returns a vertex + geometry + fragment shader set.
func Geometry(vs, gs, fs shader.Source) ShaderSet {
	return ShaderSet{Vertex: vs, Geometry: &gs, Fragment: fs}
}

// DepthLessEqualWrite returns a depth target that passes fragments at or
// in front of the stored depth and writes their depth.
func DepthLessEqualWrite(format gputypes.TextureFormat) *gpu.DepthTarget {
	return &gpu.DepthTarget{
		Format:  format,
		Compare: gputypes.CompareFunctionLessEqual,
		Write:   true,
	}
}

// ColorOutput returns a single color target bound to the fragment output
// name at location 0.
func ColorOutput(name string, format gputypes.TextureFormat) []gpu.ColorTarget {
	return []gpu.ColorTarget{{Name: name, Location: 0, Format: format}}
}

// CreateSimple builds a pipeline from a vertex and a fragment stage drawing
// solid triangle lists with the given cull mode.
func CreateSimple(f gpu.Factory, vs, fs shader.Source, cull gputypes.CullMode, layout Layout) (gpu.Pipeline, error) {
	return CreatePipelineState(f, Simple(vs, fs), gputypes.PrimitiveTopologyTriangleList, NewFill(cull), layout)
}

// CreatePipelineState builds a pipeline from an explicit shader set,
// input topology and rasterizer state.
func CreatePipelineState(
	f gpu.Factory,
	set ShaderSet,
	topology gputypes.PrimitiveTopology,
	r Rasterizer,
	layout Layout,
) (gpu.Pipeline, error) {
	if f == nil {
		return nil, ErrNilFactory
	}
	desc, err := Build(set, topology, r, layout)
	if err != nil {
		return nil, err
	}
	pso, err := f.CreatePipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("pipeline: create %q: %w", layout.Label, err)
	}
	slogger().Debug("pipeline created",
		"label", layout.Label,
		"stages", len(desc.Stages()),
		"topology", topology,
		"cull", r.CullMode,
		"depth", desc.HasDepth(),
		"hash", Hash(desc))
	return pso, nil
}

// Build compiles the stages of set and validates them against layout,
// returning the descriptor a factory needs. It does not touch the GPU.
func Build(set ShaderSet, topology gputypes.PrimitiveTopology, r Rasterizer, layout Layout) (*gpu.PipelineDescriptor, error) {
	vs, err := compileStage(layout.Label, set.Vertex, gpu.StageVertex)
	if err != nil {
		return nil, err
	}
	var gs *shader.Module
	if set.Geometry != nil {
		if gs, err = compileStage(layout.Label, *set.Geometry, gpu.StageGeometry); err != nil {
			return nil, err
		}
	}
	fs, err := compileStage(layout.Label, set.Fragment, gpu.StageFragment)
	if err != nil {
		return nil, err
	}

	l := linker{label: layout.Label, layout: layout, topology: topology, vs: vs, gs: gs, fs: fs}
	if err := l.link(); err != nil {
		return nil, err
	}

	desc := &gpu.PipelineDescriptor{
		Label:        layout.Label,
		Vertex:       vs.Stage(),
		Fragment:     fs.Stage(),
		VertexBuffer: cloneVertexLayout(layout.VertexBuffer),
		Uniforms:     append([]gpu.UniformSlot(nil), layout.Uniforms...),
		Primitive: gpu.Primitive{
			Topology:  topology,
			FrontFace: r.FrontFace,
			CullMode:  r.CullMode,
			Fill:      r.Fill,
		},
		Color: append([]gpu.ColorTarget(nil), layout.Color...),
	}
	if gs != nil {
		st := gs.Stage()
		desc.Geometry = &st
	}
	if layout.Depth != nil {
		d := *layout.Depth
		desc.Depth = &d
	}
	return desc, nil
}

func compileStage(label string, src shader.Source, want gpu.StageKind) (*shader.Module, error) {
	if src.Stage != want {
		return nil, linkErrorf(label, "%s stage %q given in %s slot", src.Stage, src.Label, want)
	}
	m, err := shader.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %q: %w", label, err)
	}
	return m, nil
}

func cloneVertexLayout(l gpu.VertexBufferLayout) gpu.VertexBufferLayout {
	l.Attributes = append([]gpu.VertexAttribute(nil), l.Attributes...)
	return l
}
