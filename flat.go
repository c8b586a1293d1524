// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package forward

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/forward/gpu"
	"github.com/gogpu/forward/pipeline"
	"github.com/gogpu/forward/shader"
)

// FlatShading fills every fragment of a scene with its material color,
// depth tested (less-equal) and depth writing, with back faces culled.
type FlatShading struct {
	drawer sceneDrawer
}

// NewFlatShading builds the flat shading pipeline with f. The error is
// fatal: either a stage failed to compile or the program does not match
// the vertex format, uniform block or target formats.
func NewFlatShading(f gpu.Factory, opts ...Option) (*FlatShading, error) {
	o := newOptions("flat_shading", opts)
	layout := pipeline.Layout{
		Label:        o.label,
		VertexBuffer: gpu.VertexPosNormalLayout(),
		Uniforms:     forwardUniforms(),
		Color:        pipeline.ColorOutput(gpu.OutputKa, o.colorFormat),
		Depth:        pipeline.DepthLessEqualWrite(o.depthFormat),
	}
	pso, err := pipeline.CreateSimple(f, shader.Vertex(), shader.FlatFragment(), gputypes.CullModeBack, layout)
	if err != nil {
		return nil, fmt.Errorf("forward: flat shading: %w", err)
	}
	return &FlatShading{drawer: sceneDrawer{technique: "flat shading", pso: pso}}, nil
}

// Pipeline returns the technique's pipeline state object.
func (t *FlatShading) Pipeline() gpu.Pipeline {
	return t.drawer.pso
}

// Apply implements Method[FlatShadingArgs]. The target needs color and
// depth attachments.
func (t *FlatShading) Apply(arg FlatShadingArgs, target *Target, scenes Scenes, enc gpu.Encoder) error {
	return t.drawer.apply(arg, target, scenes, enc)
}

var _ Method[FlatShadingArgs] = (*FlatShading)(nil)
