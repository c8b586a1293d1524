// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package forward dispatches rendering techniques of a 3D forward renderer.
//
// A technique implements [Method] for its own argument type: given the
// argument, a [Target], the registered [Scenes] and a command encoder, it
// appends the draw and clear commands that render it. Techniques own their
// pipeline state object, built once by their constructor; Apply is pure
// command generation and never submits anything.
//
// Three techniques are provided:
//
//   - [Clear] clears color to a given value and depth to [FarDepth]
//     ([ClearColor] clears color only);
//   - [FlatShading] fills scene fragments with their material color;
//   - [Wireframe] outlines scene triangles in their material color.
//
// # Quick start
//
//	factory := recording.NewFactory() // or a backend/wgpu factory
//	flat, err := forward.NewFlatShading(factory)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	wire, err := forward.NewWireframe(factory)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cam := forward.LookAtCamera(geom.V3(3, 2, 4), geom.V3(0, 0, 0), geom.V3(0, 1, 0),
//	    math.Pi/3, 16.0/9, 0.1, 100)
//	passes := forward.Passes{
//	    forward.Bind[forward.ClearArgs](forward.Clear{}, forward.ClearArgs{Color: [4]float32{0, 0, 0, 1}}),
//	    forward.Bind[forward.SceneArgs](flat, forward.SceneArgs{Scene: "main", Camera: cam}),
//	    forward.Bind[forward.SceneArgs](wire, forward.SceneArgs{Scene: "main", Camera: cam}),
//	}
//	if err := passes.Apply(target, scenes, encoder); err != nil {
//	    log.Fatal(err)
//	}
//
// # Contracts
//
// Vertex buffers hold [gpu.VertexPosNormal] data. The shader programs
// read the uniforms u_Proj, u_View, u_Model (mat4x4) and u_Ka (vec4) and
// write the color output o_Ka. A pipeline whose program does not match
// these contracts fails at construction, never at draw time.
//
// # Logging
//
// forward is silent by default. Use [SetLogger] to route diagnostics to a
// [log/slog] logger.
package forward
