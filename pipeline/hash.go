// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"encoding/binary"
	"hash"
	"hash/fnv"

	"github.com/gogpu/forward/gpu"
)

// Hash computes an FNV-1a hash of every descriptor field that affects
// rendering: stage code and entry points, geometry layout, vertex layout,
// uniform block, primitive state and target formats. The label is not
// part of the hash.
func Hash(desc *gpu.PipelineDescriptor) uint64 {
	h := fnv.New64a()

	hashStage(h, &desc.Vertex)
	if desc.Geometry != nil {
		hashWriteBool(h, true)
		hashStage(h, desc.Geometry)
	} else {
		hashWriteBool(h, false)
	}
	hashStage(h, &desc.Fragment)

	vb := &desc.VertexBuffer
	hashWriteUint64(h, vb.Stride)
	hashWriteUint32(h, uint32(len(vb.Attributes))) //nolint:gosec // attribute count is tiny
	for i := range vb.Attributes {
		a := &vb.Attributes[i]
		hashWriteString(h, a.Name)
		hashWriteUint32(h, a.Location)
		hashWriteUint32(h, uint32(a.Format))
		hashWriteUint64(h, a.Offset)
	}

	hashWriteUint32(h, uint32(len(desc.Uniforms))) //nolint:gosec // uniform count is tiny
	for _, u := range desc.Uniforms {
		hashWriteString(h, u.Name)
		hashWriteUint32(h, uint32(u.Kind))
	}

	hashWriteUint32(h, uint32(desc.Primitive.Topology))
	hashWriteUint32(h, uint32(desc.Primitive.FrontFace))
	hashWriteUint32(h, uint32(desc.Primitive.CullMode))
	hashWriteUint32(h, uint32(desc.Primitive.Fill))

	hashWriteUint32(h, uint32(len(desc.Color))) //nolint:gosec // color target count is tiny
	for _, c := range desc.Color {
		hashWriteString(h, c.Name)
		hashWriteUint32(h, c.Location)
		hashWriteUint32(h, uint32(c.Format))
	}

	if d := desc.Depth; d != nil {
		hashWriteBool(h, true)
		hashWriteUint32(h, uint32(d.Format))
		hashWriteUint32(h, uint32(d.Compare))
		hashWriteBool(h, d.Write)
	} else {
		hashWriteBool(h, false)
	}

	return h.Sum64()
}

func hashStage(h hash.Hash64, s *gpu.Stage) {
	hashWriteUint32(h, uint32(s.Kind))
	hashWriteString(h, s.EntryPoint)
	hashWriteUint32(h, uint32(len(s.SPIRV))) //nolint:gosec // bounded by module size
	for _, w := range s.SPIRV {
		hashWriteUint32(h, w)
	}
	if s.SPIRV == nil {
		hashWriteString(h, s.Source)
	}
	if g := s.Geometry; g != nil {
		hashWriteUint32(h, uint32(g.Input))
		hashWriteUint32(h, uint32(g.Output))
		hashWriteUint32(h, uint32(g.MaxVertices)) //nolint:gosec // small
		hashWriteUint32(h, uint32(len(g.Emit)))   //nolint:gosec // small
		for _, e := range g.Emit {
			hashWriteUint32(h, e)
		}
	}
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteBool(h hash.Hash64, v bool) {
	if v {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}

func hashWriteString(h hash.Hash64, s string) {
	hashWriteUint32(h, uint32(len(s))) //nolint:gosec // names are short
	_, _ = h.Write([]byte(s))
}
