// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/forward"
	"github.com/gogpu/forward/gpu"
	"github.com/gogpu/forward/shader"
)

// Pipeline is a hal render pipeline together with the layouts and shader
// modules it owns.
type Pipeline struct {
	desc *gpu.PipelineDescriptor

	modules     []hal.ShaderModule
	bindLayout  hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	raw         hal.RenderPipeline
	uniformSize uint64
}

var _ gpu.Pipeline = (*Pipeline)(nil)

// Label returns the pipeline label.
func (p *Pipeline) Label() string { return p.desc.Label }

// Descriptor returns the descriptor the pipeline was created from.
func (p *Pipeline) Descriptor() *gpu.PipelineDescriptor { return p.desc }

// Raw returns the hal render pipeline.
func (p *Pipeline) Raw() hal.RenderPipeline { return p.raw }

// BindGroupLayout returns the layout of bind group 0.
func (p *Pipeline) BindGroupLayout() hal.BindGroupLayout { return p.bindLayout }

// UniformSize returns the byte size of the uniform block.
func (p *Pipeline) UniformSize() uint64 { return p.uniformSize }

func (p *Pipeline) geometry() bool { return p.desc.Geometry != nil }

// geometryRange maps a slice of input vertices to the line-list vertices
// the geometry program draws for it.
func (p *Pipeline) geometryRange(slice gpu.Slice) (count, first uint32, err error) {
	if slice.Indexed() {
		return 0, 0, ErrIndexedGeometry
	}
	g := p.desc.Geometry.Geometry
	n := uint32(gpu.PrimitiveSize(g.Input))
	if slice.Start%n != 0 {
		return 0, 0, fmt.Errorf("%w: start %d, %d vertices per primitive", ErrUnalignedSlice, slice.Start, n)
	}
	per := g.ListVertices()
	return slice.Count() / n * per, slice.Start / n * per, nil
}

// CreatePipeline implements gpu.Factory.
func (f *Factory) CreatePipeline(desc *gpu.PipelineDescriptor) (gpu.Pipeline, error) {
	if desc == nil {
		return nil, fmt.Errorf("wgpu: nil pipeline descriptor")
	}
	if desc.Geometry == nil && desc.Primitive.Fill == gpu.FillLine {
		return nil, fmt.Errorf("%w: %q", ErrPolygonMode, desc.Label)
	}
	if g := desc.Geometry; g != nil {
		if g.Geometry == nil || gpu.PrimitiveSize(g.Geometry.Input) == 0 || g.Geometry.ListVertices() == 0 {
			return nil, fmt.Errorf("%w: %q", ErrGeometryLayout, desc.Label)
		}
	}
	p := &Pipeline{desc: desc, uniformSize: UniformBlockSize(desc.Uniforms)}
	if err := f.createPipeline(p); err != nil {
		f.destroyPipeline(p)
		return nil, fmt.Errorf("wgpu: pipeline %q: %w", desc.Label, err)
	}
	f.pipelines.Add(1)
	forward.Logger().Debug("wgpu: pipeline created",
		"label", desc.Label,
		"geometry", p.geometry(),
		"uniform_bytes", p.uniformSize,
	)
	return p, nil
}

func (f *Factory) createPipeline(p *Pipeline) error { //nolint:funlen // pipeline descriptors are verbose
	desc := p.desc

	// The geometry program replaces the vertex program on the GPU.
	entry := desc.Vertex
	if desc.Geometry != nil {
		entry = *desc.Geometry
	}
	vs, err := f.shaderModule(entry)
	if err != nil {
		return err
	}
	p.modules = append(p.modules, vs)
	fs, err := f.shaderModule(desc.Fragment)
	if err != nil {
		return err
	}
	p.modules = append(p.modules, fs)

	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    shader.GlobalsBinding,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
	}
	if desc.Geometry != nil {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    shader.VerticesBinding,
			Visibility: gputypes.ShaderStageVertex,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
		})
	}
	p.bindLayout, err = f.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	p.pipeLayout, err = f.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	vertex := hal.VertexState{
		Module:     vs,
		EntryPoint: entry.EntryPoint,
	}
	primitive := gputypes.PrimitiveState{
		Topology:  desc.Primitive.Topology,
		FrontFace: desc.Primitive.FrontFace,
		CullMode:  desc.Primitive.CullMode,
	}
	if desc.Geometry != nil {
		primitive.Topology = gputypes.PrimitiveTopologyLineList
		primitive.CullMode = gputypes.CullModeNone
	} else {
		vertex.Buffers = []gputypes.VertexBufferLayout{vertexBufferLayout(desc.VertexBuffer)}
	}

	targets := make([]gputypes.ColorTargetState, len(desc.Color))
	for i, c := range desc.Color {
		targets[i] = gputypes.ColorTargetState{
			Format:    c.Format,
			WriteMask: gputypes.ColorWriteMaskAll,
		}
	}

	p.raw, err = f.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: p.pipeLayout,
		Vertex: vertex,
		Fragment: &hal.FragmentState{
			Module:     fs,
			EntryPoint: desc.Fragment.EntryPoint,
			Targets:    targets,
		},
		DepthStencil: depthStencilState(desc.Depth),
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Primitive: primitive,
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	return nil
}

func (f *Factory) shaderModule(s gpu.Stage) (hal.ShaderModule, error) {
	if len(s.SPIRV) == 0 {
		return nil, fmt.Errorf("%s stage %q has no SPIR-V", s.Kind, s.Label)
	}
	m, err := f.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  s.Label,
		Source: hal.ShaderSource{SPIRV: s.SPIRV},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader module: %w", s.Kind, err)
	}
	return m, nil
}

func vertexBufferLayout(l gpu.VertexBufferLayout) gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, len(l.Attributes))
	for i, a := range l.Attributes {
		attrs[i] = gputypes.VertexAttribute{
			Format:         a.Format,
			Offset:         a.Offset,
			ShaderLocation: a.Location,
		}
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: l.Stride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

// depthStencilState maps a depth target to hal state. Stencil is unused.
func depthStencilState(d *gpu.DepthTarget) *hal.DepthStencilState {
	if d == nil {
		return nil
	}
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            d.Format,
		DepthWriteEnabled: d.Write,
		DepthCompare:      d.Compare,
		StencilFront:      keep,
		StencilBack:       keep,
	}
}

// Release destroys the hal objects of p. p must not be used afterwards.
func (f *Factory) Release(p *Pipeline) {
	f.destroyPipeline(p)
}

// destroyPipeline releases resources in reverse creation order. It accepts
// partially created pipelines.
func (f *Factory) destroyPipeline(p *Pipeline) {
	if p.raw != nil {
		f.device.DestroyRenderPipeline(p.raw)
		p.raw = nil
	}
	if p.pipeLayout != nil {
		f.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		f.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	for i := len(p.modules) - 1; i >= 0; i-- {
		f.device.DestroyShaderModule(p.modules[i])
	}
	p.modules = nil
}
