// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/forward/geom"
	"github.com/gogpu/forward/gpu"
	"github.com/gogpu/forward/shader"
)

// Assembly errors.
var (
	ErrNoPipeline       = errors.New("recording: draw has no pipeline")
	ErrNoBindings       = errors.New("recording: draw has no bindings")
	ErrUnsupportedStage = errors.New("recording: no CPU program for stage")
	ErrForeignBuffer    = errors.New("recording: vertex buffer is not a recording buffer")
	ErrSliceOutOfRange  = errors.New("recording: slice exceeds vertex buffer")
	ErrIndexOutOfRange  = errors.New("recording: index names a vertex outside the vertex buffer")
	ErrMissingUniform   = errors.New("recording: missing uniform")
	ErrTopology         = errors.New("recording: unsupported topology")
)

// Triangle is three clip-space vertices.
type Triangle [3][4]float32

// Line is a clip-space line segment.
type Line [2][4]float32

// Batch is a draw after primitive assembly: clip-space primitives plus the
// state a rasterizer needs to execute it.
type Batch struct {
	Label     string
	Primitive gpu.Primitive
	// Depth is nil when the pipeline neither tests nor writes depth.
	Depth      *gpu.DepthTarget
	ColorViews []gpu.ColorView
	DepthView  gpu.DepthView
	Triangles  []Triangle
	Lines      []Line
	// Color is the fragment stage output, constant across the draw.
	Color [4]float32
}

// Assemble runs the vertex and geometry stages of a draw on the CPU.
func Assemble(cmd DrawCommand) (*Batch, error) {
	if cmd.Pipeline == nil {
		return nil, ErrNoPipeline
	}
	if cmd.Bindings == nil {
		return nil, ErrNoBindings
	}
	desc := cmd.Pipeline.Descriptor()
	if err := checkStages(desc); err != nil {
		return nil, err
	}

	buf, ok := cmd.Bindings.Vertex.(*Buffer)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignBuffer, cmd.Bindings.Vertex)
	}
	verts := buf.Vertices()
	vertex, err := vertexIndexer(cmd.Slice, buf)
	if err != nil {
		return nil, err
	}

	mvp, ka, err := programInputs(cmd.Bindings)
	if err != nil {
		return nil, err
	}
	clip := func(i uint32) [4]float32 {
		p := verts[vertex(i)].Pos
		return mvp.MulVec4([4]float32{p[0], p[1], p[2], 1})
	}

	b := &Batch{
		Label:      desc.Label,
		Primitive:  desc.Primitive,
		Depth:      desc.Depth,
		ColorViews: cmd.Bindings.Color,
		DepthView:  cmd.Bindings.Depth,
		Color:      ka,
	}
	for inst := uint32(0); inst < cmd.Slice.InstanceCount(); inst++ {
		if err := b.assemble(desc, cmd.Slice, clip); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// vertexIndexer checks s against buf and returns the mapping from slice
// positions to vertex numbers.
func vertexIndexer(s gpu.Slice, buf *Buffer) (func(uint32) uint32, error) {
	n := len(buf.Vertices())
	if !s.Indexed() {
		if int(s.End) > n {
			return nil, fmt.Errorf("%w: end %d, buffer %q holds %d vertices",
				ErrSliceOutOfRange, s.End, buf.Label(), n)
		}
		return func(i uint32) uint32 { return i }, nil
	}

	ib, ok := s.Index.(*IndexBuffer)
	if !ok {
		return nil, fmt.Errorf("%w: index buffer %T", ErrForeignBuffer, s.Index)
	}
	indices := ib.Indices()
	if int(s.End) > len(indices) {
		return nil, fmt.Errorf("%w: end %d, index buffer %q holds %d indices",
			ErrSliceOutOfRange, s.End, ib.Label(), len(indices))
	}
	if s.Count() > 0 {
		for _, ix := range indices[s.Start:s.End] {
			if v := int64(ix) + int64(s.BaseVertex); v < 0 || v >= int64(n) {
				return nil, fmt.Errorf("%w: vertex %d, buffer %q holds %d vertices",
					ErrIndexOutOfRange, v, buf.Label(), n)
			}
		}
	}
	base := int64(s.BaseVertex)
	return func(i uint32) uint32 { return uint32(int64(indices[i]) + base) }, nil
}

func checkStages(desc *gpu.PipelineDescriptor) error {
	if desc.Vertex.EntryPoint != shader.VertexEntry {
		return fmt.Errorf("%w: vertex %q", ErrUnsupportedStage, desc.Vertex.EntryPoint)
	}
	if desc.Geometry != nil && (desc.Geometry.EntryPoint != shader.GeometryEntry || desc.Geometry.Geometry == nil) {
		return fmt.Errorf("%w: geometry %q", ErrUnsupportedStage, desc.Geometry.EntryPoint)
	}
	if desc.Fragment.EntryPoint != shader.FragmentEntry {
		return fmt.Errorf("%w: fragment %q", ErrUnsupportedStage, desc.Fragment.EntryPoint)
	}
	return nil
}

// programInputs reads the uniforms of the forward programs.
func programInputs(b *gpu.Bindings) (geom.Mat4, [4]float32, error) {
	var mats [3]geom.Mat4
	for i, name := range []string{gpu.UniformProj, gpu.UniformView, gpu.UniformModel} {
		u, ok := b.Uniform(name)
		if !ok || u.Kind != gpu.UniformMat4 {
			return geom.Mat4{}, [4]float32{}, fmt.Errorf("%w: %s", ErrMissingUniform, name)
		}
		mats[i] = u.Mat4Value()
	}
	ka, ok := b.Uniform(gpu.UniformKa)
	if !ok || ka.Kind != gpu.UniformVec4 {
		return geom.Mat4{}, [4]float32{}, fmt.Errorf("%w: %s", ErrMissingUniform, gpu.UniformKa)
	}
	return mats[0].Mul(mats[1]).Mul(mats[2]), ka.Vec4Value(), nil
}

func (b *Batch) assemble(desc *gpu.PipelineDescriptor, s gpu.Slice, clip func(uint32) [4]float32) error {
	if desc.Geometry != nil {
		g := desc.Geometry.Geometry
		for _, strip := range g.Expand(s.Start, s.Count()) {
			b.addStrip(g.Output, strip, clip)
		}
		return nil
	}

	switch desc.Primitive.Topology {
	case gputypes.PrimitiveTopologyTriangleList:
		for i := s.Start; i+2 < s.End; i += 3 {
			b.Triangles = append(b.Triangles, Triangle{clip(i), clip(i + 1), clip(i + 2)})
		}
	case gputypes.PrimitiveTopologyLineList:
		for i := s.Start; i+1 < s.End; i += 2 {
			b.Lines = append(b.Lines, Line{clip(i), clip(i + 1)})
		}
	case gputypes.PrimitiveTopologyTriangleStrip, gputypes.PrimitiveTopologyLineStrip:
		strip := make([]uint32, 0, s.Count())
		for i := s.Start; i < s.End; i++ {
			strip = append(strip, i)
		}
		b.addStrip(desc.Primitive.Topology, strip, clip)
	default:
		return fmt.Errorf("%w: %v", ErrTopology, desc.Primitive.Topology)
	}
	return nil
}

func (b *Batch) addStrip(topology gputypes.PrimitiveTopology, strip []uint32, clip func(uint32) [4]float32) {
	if topology == gputypes.PrimitiveTopologyLineStrip {
		pairs := gpu.StripToList(strip)
		for i := 0; i+1 < len(pairs); i += 2 {
			b.Lines = append(b.Lines, Line{clip(pairs[i]), clip(pairs[i+1])})
		}
		return
	}
	for i := 0; i+2 < len(strip); i++ {
		// Odd triangles of a strip have reversed winding.
		if i%2 == 0 {
			b.Triangles = append(b.Triangles, Triangle{clip(strip[i]), clip(strip[i+1]), clip(strip[i+2])})
		} else {
			b.Triangles = append(b.Triangles, Triangle{clip(strip[i+1]), clip(strip[i]), clip(strip[i+2])})
		}
	}
}
