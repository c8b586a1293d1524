// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu executes forward techniques on a GPU through the gogpu/wgpu
// hardware abstraction layer.
//
// It provides hal-backed implementations of the gpu package interfaces:
//
//   - Factory: gpu.Factory, turning linked pipeline descriptors into render
//     pipelines (shader modules, bind group layout, pipeline layout)
//   - Buffer: vertex buffers holding gpu.VertexPosNormal data
//   - TextureView: color and depth render targets
//   - Encoder: gpu.Encoder, recording draws into a hal command encoder
//
// # Render Passes
//
// The Encoder opens render passes lazily. Clears do not record anything on
// their own: a pending clear becomes the load operation of the next pass
// that renders to the view. Clears that are never followed by a draw are
// flushed as empty passes when the encoder finishes.
//
// # Geometry Stage
//
// WebGPU has no geometry shaders. Pipelines with a geometry stage run it as
// a vertex program that reads the bound vertex buffer as a storage buffer
// and emits a line list, six vertices per input triangle.
//
// # Errors
//
// gpu.Encoder methods do not return errors. The first failure is kept and
// returned by Finish or Submit; later commands are ignored.
//
// # Example
//
//	factory, err := wgpu.NewFactoryFromProvider(provider)
//	if err != nil {
//	    return err
//	}
//	flat, err := forward.NewFlatShading(factory)
//	...
//	enc, err := factory.NewEncoder("frame")
//	if err != nil {
//	    return err
//	}
//	_ = forward.Passes{...}.Apply(target, enc, scenes)
//	if err := enc.Submit(); err != nil {
//	    return err
//	}
package wgpu
