// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
)

// Attribute names of the shared vertex format.
const (
	AttrPosition = "a_Pos"
	AttrNormal   = "a_Normal"
)

// VertexPosNormalStride is the size of one VertexPosNormal in bytes.
const VertexPosNormalStride = 24

// VertexPosNormal is the single vertex format every technique understands.
type VertexPosNormal struct {
	Pos    [3]float32
	Normal [3]float32
}

// VertexAttribute describes one named attribute inside a vertex buffer.
type VertexAttribute struct {
	Name     string
	Location uint32
	Format   gputypes.VertexFormat
	Offset   uint64
}

// VertexBufferLayout describes how vertices are laid out in a buffer.
type VertexBufferLayout struct {
	Stride     uint64
	Attributes []VertexAttribute
}

// VertexPosNormalLayout returns the buffer layout of VertexPosNormal.
func VertexPosNormalLayout() VertexBufferLayout {
	return VertexBufferLayout{
		Stride: VertexPosNormalStride,
		Attributes: []VertexAttribute{
			{Name: AttrPosition, Location: 0, Format: gputypes.VertexFormatFloat32x3, Offset: 0},
			{Name: AttrNormal, Location: 1, Format: gputypes.VertexFormatFloat32x3, Offset: 12},
		},
	}
}

// VertexFormatSize returns the size in bytes of a vertex format, or 0 if
// the format is not one of the float formats used here.
func VertexFormatSize(f gputypes.VertexFormat) uint64 {
	switch f {
	case gputypes.VertexFormatFloat32:
		return 4
	case gputypes.VertexFormatFloat32x2:
		return 8
	case gputypes.VertexFormatFloat32x3:
		return 12
	case gputypes.VertexFormatFloat32x4:
		return 16
	default:
		return 0
	}
}

// EncodeVertices packs vertices into little-endian bytes suitable for
// upload into a vertex buffer.
func EncodeVertices(vs []VertexPosNormal) []byte {
	buf := make([]byte, len(vs)*VertexPosNormalStride)
	for i, v := range vs {
		off := i * VertexPosNormalStride
		for j := 0; j < 3; j++ {
			binary.LittleEndian.PutUint32(buf[off+j*4:], math.Float32bits(v.Pos[j]))
			binary.LittleEndian.PutUint32(buf[off+12+j*4:], math.Float32bits(v.Normal[j]))
		}
	}
	return buf
}

// DecodeVertices is the inverse of EncodeVertices.
func DecodeVertices(data []byte) ([]VertexPosNormal, error) {
	if len(data)%VertexPosNormalStride != 0 {
		return nil, fmt.Errorf("gpu: vertex data length %d is not a multiple of %d", len(data), VertexPosNormalStride)
	}
	vs := make([]VertexPosNormal, len(data)/VertexPosNormalStride)
	for i := range vs {
		off := i * VertexPosNormalStride
		for j := 0; j < 3; j++ {
			vs[i].Pos[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+j*4:]))
			vs[i].Normal[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+12+j*4:]))
		}
	}
	return vs, nil
}
