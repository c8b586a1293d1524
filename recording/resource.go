// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/forward/gpu"
)

// Buffer is a vertex buffer kept in host memory.
type Buffer struct {
	label    string
	vertices []gpu.VertexPosNormal
}

// NewBuffer returns a buffer holding a copy of vertices.
func NewBuffer(label string, vertices []gpu.VertexPosNormal) *Buffer {
	return &Buffer{
		label:    label,
		vertices: append([]gpu.VertexPosNormal(nil), vertices...),
	}
}

// Label implements gpu.Buffer.
func (b *Buffer) Label() string { return b.label }

// Size implements gpu.Buffer.
func (b *Buffer) Size() uint64 {
	return uint64(len(b.vertices)) * gpu.VertexPosNormalStride
}

// Vertices returns the buffer contents. Callers must not modify them.
func (b *Buffer) Vertices() []gpu.VertexPosNormal { return b.vertices }

// IndexBuffer is an index buffer kept in host memory.
type IndexBuffer struct {
	label   string
	indices []uint32
}

// NewIndexBuffer returns an index buffer holding a copy of indices.
func NewIndexBuffer(label string, indices []uint32) *IndexBuffer {
	return &IndexBuffer{label: label, indices: append([]uint32(nil), indices...)}
}

// Label implements gpu.IndexBuffer.
func (b *IndexBuffer) Label() string { return b.label }

// Len implements gpu.IndexBuffer.
func (b *IndexBuffer) Len() uint32 { return uint32(len(b.indices)) }

// Indices returns the buffer contents. Callers must not modify them.
func (b *IndexBuffer) Indices() []uint32 { return b.indices }

// View is a render-target view of a given size. The same type serves as
// color and depth view; the format decides which.
type View struct {
	label  string
	format gputypes.TextureFormat
	width  int
	height int
}

// NewView returns a view description.
func NewView(label string, format gputypes.TextureFormat, width, height int) *View {
	return &View{label: label, format: format, width: width, height: height}
}

// Label implements gpu.ColorView and gpu.DepthView.
func (v *View) Label() string { return v.label }

// Format implements gpu.ColorView and gpu.DepthView.
func (v *View) Format() gputypes.TextureFormat { return v.format }

// Width returns the view width in pixels.
func (v *View) Width() int { return v.width }

// Height returns the view height in pixels.
func (v *View) Height() int { return v.height }

// IsDepth reports whether the view has a depth format.
func (v *View) IsDepth() bool { return gpu.IsDepthFormat(v.format) }

// Pipeline is a pipeline created by a recording Factory.
type Pipeline struct {
	id   uint64
	desc *gpu.PipelineDescriptor
}

// Label implements gpu.Pipeline.
func (p *Pipeline) Label() string { return p.desc.Label }

// Descriptor implements gpu.Pipeline.
func (p *Pipeline) Descriptor() *gpu.PipelineDescriptor { return p.desc }

// ID returns the creation sequence number of the pipeline, starting at 1.
func (p *Pipeline) ID() uint64 { return p.id }

// Factory is a gpu.Factory whose pipelines hold only their descriptors.
// It is safe for concurrent use.
type Factory struct {
	created atomic.Uint64
}

// NewFactory returns a recording factory.
func NewFactory() *Factory {
	return &Factory{}
}

// CreatePipeline implements gpu.Factory.
func (f *Factory) CreatePipeline(desc *gpu.PipelineDescriptor) (gpu.Pipeline, error) {
	return &Pipeline{id: f.created.Add(1), desc: desc}, nil
}

// Created returns the number of pipelines created so far.
func (f *Factory) Created() uint64 {
	return f.created.Load()
}

var (
	_ gpu.Buffer    = (*Buffer)(nil)
	_ gpu.ColorView = (*View)(nil)
	_ gpu.DepthView = (*View)(nil)
	_ gpu.Factory   = (*Factory)(nil)
)
