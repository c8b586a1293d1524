// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/forward/gpu"
	"github.com/gogpu/forward/shader"
)

// linker checks compiled stages against each other and against the
// declared layout.
type linker struct {
	label    string
	layout   Layout
	topology gputypes.PrimitiveTopology
	vs       *shader.Module
	gs       *shader.Module // nil without a geometry stage
	fs       *shader.Module
}

func (l *linker) link() error {
	checks := []func() error{
		l.checkTopology,
		l.checkVertexInputs,
		l.checkUniforms,
		l.checkOutputs,
		l.checkGeometry,
		l.checkFormats,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (l *linker) checkTopology() error {
	switch l.topology {
	case gputypes.PrimitiveTopologyPointList,
		gputypes.PrimitiveTopologyLineList,
		gputypes.PrimitiveTopologyLineStrip,
		gputypes.PrimitiveTopologyTriangleList,
		gputypes.PrimitiveTopologyTriangleStrip:
		return nil
	default:
		return linkErrorf(l.label, "unknown primitive topology %v", l.topology)
	}
}

func (l *linker) checkVertexInputs() error {
	inputs := l.vs.Interface.Inputs
	buf := l.layout.VertexBuffer
	if len(inputs) != len(buf.Attributes) {
		return linkErrorf(l.label, "vertex stage reads %d inputs, vertex buffer declares %d attributes",
			len(inputs), len(buf.Attributes))
	}
	for _, in := range inputs {
		attr, ok := findAttribute(buf.Attributes, in.Name)
		if !ok {
			return linkErrorf(l.label, "vertex input %s has no vertex buffer attribute", in.Name)
		}
		if attr.Location != in.Location {
			return linkErrorf(l.label, "vertex input %s: location %d, attribute declares %d",
				in.Name, in.Location, attr.Location)
		}
		if attr.Format != in.Format {
			return linkErrorf(l.label, "vertex input %s: format %v, attribute declares %v",
				in.Name, in.Format, attr.Format)
		}
		size := gpu.VertexFormatSize(attr.Format)
		if size == 0 || attr.Offset+size > buf.Stride {
			return linkErrorf(l.label, "attribute %s does not fit in a %d byte vertex", attr.Name, buf.Stride)
		}
	}
	return nil
}

func findAttribute(attrs []gpu.VertexAttribute, name string) (gpu.VertexAttribute, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a, true
		}
	}
	return gpu.VertexAttribute{}, false
}

// checkUniforms requires every stage that reads uniforms to see the same
// block, and that block to be exactly the declared one.
func (l *linker) checkUniforms() error {
	var program []gpu.UniformSlot
	var from string
	for _, m := range l.modules() {
		u := m.Interface.Uniforms
		if len(u) == 0 {
			continue
		}
		if program == nil {
			program, from = u, m.Source.Label
			continue
		}
		if !equalSlots(program, u) {
			return linkErrorf(l.label, "stages %q and %q disagree on the uniform block", from, m.Source.Label)
		}
	}
	if !equalSlots(program, l.layout.Uniforms) {
		return linkErrorf(l.label, "program uniforms %v do not match declared uniforms %v",
			program, l.layout.Uniforms)
	}
	return nil
}

func equalSlots(a, b []gpu.UniformSlot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (l *linker) checkOutputs() error {
	outputs := l.fs.Interface.Outputs
	if len(outputs) != len(l.layout.Color) {
		return linkErrorf(l.label, "fragment stage writes %d outputs, layout declares %d color targets",
			len(outputs), len(l.layout.Color))
	}
	for _, ct := range l.layout.Color {
		found := false
		for _, out := range outputs {
			if out.Name == ct.Name {
				if out.Location != ct.Location {
					return linkErrorf(l.label, "output %s: location %d, color target declares %d",
						out.Name, out.Location, ct.Location)
				}
				found = true
				break
			}
		}
		if !found {
			return linkErrorf(l.label, "color target %s is not written by the fragment stage", ct.Name)
		}
	}
	return nil
}

func (l *linker) checkGeometry() error {
	if l.gs == nil {
		return nil
	}
	g := l.gs.Source.Geometry
	switch {
	case g == nil:
		return linkErrorf(l.label, "geometry stage %q has no primitive layout", l.gs.Source.Label)
	case g.Input != l.topology:
		return linkErrorf(l.label, "geometry stage consumes %v, pipeline topology is %v", g.Input, l.topology)
	case g.Output != gputypes.PrimitiveTopologyLineStrip && g.Output != gputypes.PrimitiveTopologyTriangleStrip:
		return linkErrorf(l.label, "geometry stage must emit a strip, got %v", g.Output)
	case len(g.Emit) < 2 || len(g.Emit) > g.MaxVertices:
		return linkErrorf(l.label, "geometry stage emits %d vertices, max is %d", len(g.Emit), g.MaxVertices)
	}
	n := gpu.PrimitiveSize(g.Input)
	if n == 0 {
		return linkErrorf(l.label, "geometry stage input %v is not a list topology", g.Input)
	}
	for _, corner := range g.Emit {
		if int(corner) >= n {
			return linkErrorf(l.label, "geometry stage emits corner %d of a %d-vertex primitive", corner, n)
		}
	}
	if !l.gs.Interface.HasStorage(shader.VerticesBinding) {
		return linkErrorf(l.label, "geometry stage does not pull vertices from binding %d", shader.VerticesBinding)
	}
	// The stage addresses vertices as packed position + normal.
	pos, ok := findAttribute(l.layout.VertexBuffer.Attributes, gpu.AttrPosition)
	if l.layout.VertexBuffer.Stride != gpu.VertexPosNormalStride || !ok || pos.Offset != 0 {
		return linkErrorf(l.label, "geometry stage requires the %d byte position+normal vertex format",
			gpu.VertexPosNormalStride)
	}
	return nil
}

func (l *linker) checkFormats() error {
	if len(l.layout.Color) == 0 {
		return linkErrorf(l.label, "no color target declared")
	}
	for _, ct := range l.layout.Color {
		if !gpu.IsColorFormat(ct.Format) {
			return linkErrorf(l.label, "color target %s has non-color format %v", ct.Name, ct.Format)
		}
	}
	if d := l.layout.Depth; d != nil && !gpu.IsDepthFormat(d.Format) {
		return linkErrorf(l.label, "depth target has non-depth format %v", d.Format)
	}
	return nil
}

func (l *linker) modules() []*shader.Module {
	mods := []*shader.Module{l.vs}
	if l.gs != nil {
		mods = append(mods, l.gs)
	}
	return append(mods, l.fs)
}
