// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/forward/gpu"
)

// Buffer is a GPU vertex buffer of gpu.VertexPosNormal. It is usable both
// as a vertex buffer and as the read-only storage buffer of geometry
// programs.
type Buffer struct {
	label    string
	raw      hal.Buffer
	size     uint64
	vertices uint32
}

var _ gpu.Buffer = (*Buffer)(nil)

// NewBuffer uploads vertices into a new GPU buffer.
func (f *Factory) NewBuffer(label string, vertices []gpu.VertexPosNormal) (*Buffer, error) {
	data := gpu.EncodeVertices(vertices)
	size := uint64(len(data))
	// Zero-sized buffers are not allowed.
	if size < 4 {
		size = 4
	}
	raw, err := f.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create buffer %q: %w", label, err)
	}
	if len(data) > 0 {
		f.queue.WriteBuffer(raw, 0, data)
	}
	return &Buffer{label: label, raw: raw, size: uint64(len(data)), vertices: uint32(len(vertices))}, nil
}

// Label returns the buffer label.
func (b *Buffer) Label() string { return b.label }

// Size returns the size of the vertex data in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Vertices returns the number of vertices in the buffer.
func (b *Buffer) Vertices() uint32 { return b.vertices }

// Raw returns the hal buffer.
func (b *Buffer) Raw() hal.Buffer { return b.raw }

// ReleaseBuffer destroys b.
func (f *Factory) ReleaseBuffer(b *Buffer) {
	if b.raw != nil {
		f.device.DestroyBuffer(b.raw)
		b.raw = nil
	}
}

// IndexBuffer is a GPU buffer of 32-bit vertex indices.
type IndexBuffer struct {
	label string
	raw   hal.Buffer
	count uint32
}

var _ gpu.IndexBuffer = (*IndexBuffer)(nil)

// NewIndexBuffer uploads indices into a new GPU index buffer.
func (f *Factory) NewIndexBuffer(label string, indices []uint32) (*IndexBuffer, error) {
	data := make([]byte, len(indices)*4)
	for i, ix := range indices {
		binary.LittleEndian.PutUint32(data[i*4:], ix)
	}
	size := uint64(len(data))
	if size < 4 {
		size = 4
	}
	raw, err := f.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create index buffer %q: %w", label, err)
	}
	if len(data) > 0 {
		f.queue.WriteBuffer(raw, 0, data)
	}
	return &IndexBuffer{label: label, raw: raw, count: uint32(len(indices))}, nil
}

// Label returns the buffer label.
func (b *IndexBuffer) Label() string { return b.label }

// Len returns the number of indices.
func (b *IndexBuffer) Len() uint32 { return b.count }

// Raw returns the hal buffer.
func (b *IndexBuffer) Raw() hal.Buffer { return b.raw }

// ReleaseIndexBuffer destroys b.
func (f *Factory) ReleaseIndexBuffer(b *IndexBuffer) {
	if b.raw != nil {
		f.device.DestroyBuffer(b.raw)
		b.raw = nil
	}
}

// TextureView is a render target: a texture and its default view.
// It implements both gpu.ColorView and gpu.DepthView; which role it can
// play depends on its format.
type TextureView struct {
	label  string
	format gputypes.TextureFormat
	width  uint32
	height uint32

	tex  hal.Texture
	view hal.TextureView
}

var (
	_ gpu.ColorView = (*TextureView)(nil)
	_ gpu.DepthView = (*TextureView)(nil)
)

// NewRenderTarget creates a texture usable as a render attachment and as
// a copy source.
func (f *Factory) NewRenderTarget(label string, format gputypes.TextureFormat, width, height uint32) (*TextureView, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("wgpu: render target %q: invalid size %dx%d", label, width, height)
	}
	tex, err := f.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", label, err)
	}
	view, err := f.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: label + "_view",
	})
	if err != nil {
		f.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create view %q: %w", label, err)
	}
	return &TextureView{
		label:  label,
		format: format,
		width:  width,
		height: height,
		tex:    tex,
		view:   view,
	}, nil
}

// Label returns the view label.
func (v *TextureView) Label() string { return v.label }

// Format returns the texture format.
func (v *TextureView) Format() gputypes.TextureFormat { return v.format }

// Width returns the texture width in pixels.
func (v *TextureView) Width() int { return int(v.width) }

// Height returns the texture height in pixels.
func (v *TextureView) Height() int { return int(v.height) }

// Texture returns the hal texture.
func (v *TextureView) Texture() hal.Texture { return v.tex }

// View returns the hal texture view.
func (v *TextureView) View() hal.TextureView { return v.view }

// ReleaseTarget destroys v.
func (f *Factory) ReleaseTarget(v *TextureView) {
	if v.view != nil {
		f.device.DestroyTextureView(v.view)
		v.view = nil
	}
	if v.tex != nil {
		f.device.DestroyTexture(v.tex)
		v.tex = nil
	}
}

func hasStencil(format gputypes.TextureFormat) bool {
	switch format {
	case gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32FloatStencil8,
		gputypes.TextureFormatStencil8:
		return true
	default:
		return false
	}
}
