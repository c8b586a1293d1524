// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu defines the contract between forward rendering techniques and
// the GPU layer that executes them.
//
// Techniques never talk to a graphics API directly. They build a
// PipelineDescriptor once, hand it to a Factory to obtain an immutable
// Pipeline, and then, each frame, append Draw and Clear commands to an
// Encoder. Submission of the recorded commands is the caller's business.
//
// Two implementations ship with this module:
//
//   - recording: an in-memory Factory/Encoder that captures commands as
//     data, used by tests and the software rasterizer;
//   - backend/wgpu: a Factory/Encoder on top of gogpu/wgpu hal.
//
// # Vertex format
//
// Every vertex buffer handed to a technique holds interleaved
// VertexPosNormal values: position (3 x float32) followed by normal
// (3 x float32), 24 bytes per vertex.
package gpu
