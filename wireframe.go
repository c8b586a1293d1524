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

// Wireframe draws the outline of every triangle of a scene in the
// fragment's material color. A geometry stage turns each triangle into a
// closed four-vertex line strip. Nothing is culled and depth is neither
// tested nor written, so the outline overlays whatever is in the target.
type Wireframe struct {
	drawer sceneDrawer
}

// NewWireframe builds the wireframe pipeline with f.
func NewWireframe(f gpu.Factory, opts ...Option) (*Wireframe, error) {
	o := newOptions("wireframe", opts)
	layout := pipeline.Layout{
		Label:        o.label,
		VertexBuffer: gpu.VertexPosNormalLayout(),
		Uniforms:     forwardUniforms(),
		Color:        pipeline.ColorOutput(gpu.OutputKa, o.colorFormat),
	}
	set := pipeline.Geometry(shader.Vertex(), shader.WireframeGeometry(), shader.FlatFragment())
	pso, err := pipeline.CreatePipelineState(f, set,
		gputypes.PrimitiveTopologyTriangleList,
		pipeline.NewFill(gputypes.CullModeNone),
		layout)
	if err != nil {
		return nil, fmt.Errorf("forward: wireframe: %w", err)
	}
	return &Wireframe{drawer: sceneDrawer{technique: "wireframe", pso: pso}}, nil
}

// Pipeline returns the technique's pipeline state object.
func (t *Wireframe) Pipeline() gpu.Pipeline {
	return t.drawer.pso
}

// Apply implements Method[WireframeArgs]. Only the target's color
// attachment is used; a depth attachment is ignored.
func (t *Wireframe) Apply(arg WireframeArgs, target *Target, scenes Scenes, enc gpu.Encoder) error {
	return t.drawer.apply(arg, target, scenes, enc)
}

var _ Method[WireframeArgs] = (*Wireframe)(nil)
