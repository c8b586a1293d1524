// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// StageKind identifies a programmable pipeline stage.
type StageKind uint8

const (
	StageVertex StageKind = iota
	StageGeometry
	StageFragment
)

var stageKindNames = [...]string{
	StageVertex:   "vertex",
	StageGeometry: "geometry",
	StageFragment: "fragment",
}

func (k StageKind) String() string {
	if int(k) < len(stageKindNames) {
		return stageKindNames[k]
	}
	return fmt.Sprintf("StageKind(%d)", k)
}

// Stage is one compiled shader stage of a pipeline.
type Stage struct {
	Kind       StageKind
	Label      string
	EntryPoint string
	// Source is the WGSL text of the stage.
	Source string
	// SPIRV is the compiled form of Source.
	SPIRV []uint32
	// Geometry describes the primitive expansion of a geometry stage.
	// It is nil for other stages.
	Geometry *GeometryLayout
}

// FillMode is the rasterizer polygon mode.
type FillMode uint8

const (
	// FillSolid rasterizes the interior of triangles.
	FillSolid FillMode = iota
	// FillLine rasterizes triangle edges only.
	FillLine
)

func (m FillMode) String() string {
	switch m {
	case FillSolid:
		return "solid"
	case FillLine:
		return "line"
	default:
		return fmt.Sprintf("FillMode(%d)", m)
	}
}

// Primitive is the primitive assembly and rasterizer state of a pipeline.
type Primitive struct {
	Topology  gputypes.PrimitiveTopology
	FrontFace gputypes.FrontFace
	CullMode  gputypes.CullMode
	Fill      FillMode
}

// ColorTarget declares one color output slot.
type ColorTarget struct {
	// Name is the fragment output bound to this slot.
	Name     string
	Location uint32
	Format   gputypes.TextureFormat
}

// DepthTarget declares the depth output of a pipeline.
type DepthTarget struct {
	Format  gputypes.TextureFormat
	Compare gputypes.CompareFunction
	Write   bool
}

// PipelineDescriptor is the complete, validated description of a pipeline
// state object. It is produced by package pipeline and consumed by a
// Factory.
type PipelineDescriptor struct {
	Label        string
	Vertex       Stage
	Geometry     *Stage
	Fragment     Stage
	VertexBuffer VertexBufferLayout
	// Uniforms lists the members of the uniform block in declaration order.
	Uniforms  []UniformSlot
	Primitive Primitive
	Color     []ColorTarget
	// Depth is nil for pipelines that neither test nor write depth.
	Depth *DepthTarget
}

// HasDepth reports whether the pipeline declares a depth target.
func (d *PipelineDescriptor) HasDepth() bool {
	return d.Depth != nil
}

// Stages returns the stages of the pipeline in execution order.
func (d *PipelineDescriptor) Stages() []*Stage {
	stages := []*Stage{&d.Vertex}
	if d.Geometry != nil {
		stages = append(stages, d.Geometry)
	}
	return append(stages, &d.Fragment)
}

// IsDepthFormat reports whether f is a depth or depth/stencil format.
func IsDepthFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatDepth16Unorm,
		gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32Float,
		gputypes.TextureFormatDepth32FloatStencil8:
		return true
	default:
		return false
	}
}

// IsColorFormat reports whether f can be used as a color attachment.
func IsColorFormat(f gputypes.TextureFormat) bool {
	return f != gputypes.TextureFormatUndefined &&
		f != gputypes.TextureFormatStencil8 &&
		!IsDepthFormat(f)
}
