// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package recording provides an in-memory GPU layer for forward techniques.
//
// A Factory creates pipelines that are nothing but their descriptors, and a
// Recorder implements gpu.Encoder by capturing every Draw and Clear as a
// typed command. The finished Recording can be inspected, which is how the
// technique tests check exactly what was issued, or replayed to a
// registered Backend.
//
// # Architecture
//
// Commands capture all encoder operations:
//   - ClearColorCommand, ClearDepthCommand
//   - DrawCommand (slice, pipeline, bindings)
//
// Playback performs primitive assembly on the CPU before handing work to a
// backend: vertices are fetched from recording Buffers, transformed to clip
// space by the vertex stage, expanded by the geometry stage if the pipeline
// has one, and grouped into triangles or line segments together with the
// fragment stage's output color. Backends only rasterize.
//
// Assembly understands the built-in forward stages (vs_main, gs_main,
// fs_main); a pipeline using any other entry point fails to play back.
//
// # Example
//
//	factory := recording.NewFactory()
//	flat, _ := forward.NewFlatShading(factory)
//
//	rec := recording.NewRecorder()
//	_ = flat.Apply(args, target, scenes, rec)
//	r := rec.Finish()
//
//	backend := recording.MustBackend("raster")
//	if err := r.Playback(backend); err != nil {
//	    // handle error
//	}
//
// # Backends
//
// Backends register themselves by name, following the database/sql
// driver pattern:
//
//	import _ "github.com/gogpu/forward/recording/backends/raster"
package recording
