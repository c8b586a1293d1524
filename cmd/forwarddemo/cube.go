// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/gogpu/forward/geom"
	"github.com/gogpu/forward/gpu"
)

// cubeVertices returns a triangle list for an axis-aligned cube of the
// given half extent, counter-clockwise when seen from outside.
func cubeVertices(half float32) []gpu.VertexPosNormal {
	// Each face: normal n and in-plane axes u, v with u x v = n.
	faces := [6][3]geom.Vec3{
		{geom.V3(1, 0, 0), geom.V3(0, 1, 0), geom.V3(0, 0, 1)},
		{geom.V3(-1, 0, 0), geom.V3(0, 0, 1), geom.V3(0, 1, 0)},
		{geom.V3(0, 1, 0), geom.V3(0, 0, 1), geom.V3(1, 0, 0)},
		{geom.V3(0, -1, 0), geom.V3(1, 0, 0), geom.V3(0, 0, 1)},
		{geom.V3(0, 0, 1), geom.V3(1, 0, 0), geom.V3(0, 1, 0)},
		{geom.V3(0, 0, -1), geom.V3(0, 1, 0), geom.V3(1, 0, 0)},
	}
	out := make([]gpu.VertexPosNormal, 0, 36)
	for _, f := range faces {
		n, u, v := f[0], f[1], f[2]
		quad := [4]geom.Vec3{
			n.Sub(u).Sub(v),
			n.Add(u).Sub(v),
			n.Add(u).Add(v),
			n.Sub(u).Add(v),
		}
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			out = append(out, gpu.VertexPosNormal{
				Pos:    quad[i].Mul(half).Array(),
				Normal: n.Array(),
			})
		}
	}
	return out
}
