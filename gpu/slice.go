// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

// Slice is the draw range of a fragment. A non-indexed slice selects
// vertices [Start, End) of the vertex buffer. When Index is set the range
// selects entries of the index buffer instead, and each entry plus
// BaseVertex names a vertex. Instances of zero means a single instance.
type Slice struct {
	Start     uint32
	End       uint32
	Instances uint32

	Index      IndexBuffer
	BaseVertex int32
}

// SliceFor returns a slice covering the first n vertices.
func SliceFor(n uint32) Slice {
	return Slice{End: n}
}

// IndexedSliceFor returns a slice covering every index of ib.
func IndexedSliceFor(ib IndexBuffer) Slice {
	return Slice{End: ib.Len(), Index: ib}
}

// Indexed reports whether the slice reads vertices through an index buffer.
func (s Slice) Indexed() bool {
	return s.Index != nil
}

// Count returns the number of vertices in the slice.
func (s Slice) Count() uint32 {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

// InstanceCount returns the number of instances to draw.
func (s Slice) InstanceCount() uint32 {
	if s.Instances == 0 {
		return 1
	}
	return s.Instances
}
