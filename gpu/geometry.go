// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import "github.com/gogpu/gputypes"

// GeometryLayout describes what a geometry stage does with each input
// primitive: for every primitive of the Input topology it emits one strip
// of the Output topology whose vertices are the primitive's corners listed
// in Emit.
//
// WebGPU has no geometry stage, so backends run the layout themselves: the
// recording backend expands primitives on the CPU with Expand, the wgpu
// backend draws a line list and lets the stage pull its corners from a
// storage buffer.
type GeometryLayout struct {
	Input       gputypes.PrimitiveTopology
	Output      gputypes.PrimitiveTopology
	MaxVertices int
	Emit        []uint32
}

// TriangleOutline expands each triangle into a closed four-vertex line
// strip: its three edges plus the segment back to the first corner.
func TriangleOutline() *GeometryLayout {
	return &GeometryLayout{
		Input:       gputypes.PrimitiveTopologyTriangleList,
		Output:      gputypes.PrimitiveTopologyLineStrip,
		MaxVertices: 4,
		Emit:        []uint32{0, 1, 2, 0},
	}
}

// PrimitiveSize returns the number of vertices per primitive of a list
// topology, or 0 for strip topologies.
func PrimitiveSize(t gputypes.PrimitiveTopology) int {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return 1
	case gputypes.PrimitiveTopologyLineList:
		return 2
	case gputypes.PrimitiveTopologyTriangleList:
		return 3
	default:
		return 0
	}
}

// Expand runs the layout over count input vertices, numbered from first,
// and returns one strip of vertex indices per complete input primitive.
func (g *GeometryLayout) Expand(first, count uint32) [][]uint32 {
	n := uint32(PrimitiveSize(g.Input))
	if n == 0 {
		return nil
	}
	prims := count / n
	strips := make([][]uint32, 0, prims)
	for p := uint32(0); p < prims; p++ {
		base := first + p*n
		strip := make([]uint32, len(g.Emit))
		for i, corner := range g.Emit {
			strip[i] = base + corner
		}
		strips = append(strips, strip)
	}
	return strips
}

// ListVertices returns how many line-list vertices one input primitive
// lowers to when its strip is drawn as independent segments.
func (g *GeometryLayout) ListVertices() uint32 {
	if len(g.Emit) < 2 {
		return 0
	}
	return uint32(len(g.Emit)-1) * 2
}

// StripToList lowers a line strip to line-list vertex pairs.
func StripToList(strip []uint32) []uint32 {
	if len(strip) < 2 {
		return nil
	}
	out := make([]uint32, 0, (len(strip)-1)*2)
	for i := 0; i+1 < len(strip); i++ {
		out = append(out, strip[i], strip[i+1])
	}
	return out
}
