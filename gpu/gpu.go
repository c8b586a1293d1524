// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import "github.com/gogpu/gputypes"

// Buffer is a read-only handle to vertex data that lives on the GPU.
// Buffers are owned by the scene that uploaded them; draw bindings only
// borrow them.
type Buffer interface {
	Label() string
	// Size returns the buffer size in bytes.
	Size() uint64
}

// IndexBuffer is a read-only handle to 32-bit vertex indices.
type IndexBuffer interface {
	Label() string
	// Len returns the number of indices.
	Len() uint32
}

// ColorView is a render-target view that can receive color output.
type ColorView interface {
	Label() string
	Format() gputypes.TextureFormat
}

// DepthView is a render-target view that holds depth (and possibly stencil)
// values.
type DepthView interface {
	Label() string
	Format() gputypes.TextureFormat
}

// Pipeline is an immutable pipeline state object: a linked shader program
// together with its fixed-function state and output formats.
type Pipeline interface {
	Label() string
	// Descriptor returns the descriptor the pipeline was created from.
	// Callers must not modify it.
	Descriptor() *PipelineDescriptor
}

// Factory compiles and links pipelines.
//
// CreatePipeline is called once per technique instance, never per frame.
// An error is fatal for the technique being constructed.
type Factory interface {
	CreatePipeline(desc *PipelineDescriptor) (Pipeline, error)
}

// Encoder is an append-only command recorder.
//
// Implementations buffer commands until the owner submits them; none of
// these methods block or submit work. Encoder methods report no errors:
// backends that can fail keep the first error and return it when the
// recording is finished.
type Encoder interface {
	// Draw records a draw of slice using pso with the given bindings.
	Draw(slice Slice, pso Pipeline, b *Bindings)

	// ClearColor records a clear of view to the RGBA color c.
	ClearColor(view ColorView, c [4]float32)

	// ClearDepth records a clear of view to the depth value v.
	ClearDepth(view DepthView, v float32)
}
