// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader owns the WGSL programs of the forward techniques.
//
// Stages are stored as embedded WGSL and assembled once at package
// initialisation: every stage is prefixed with the shared uniform block
// (globals.wgsl), and stages that transform geometry include the vertex
// transform (vertex.wgsl). New techniques reuse the vertex and fragment
// stages instead of duplicating their text.
//
// Sources are plain values; Compile turns one into SPIR-V with naga and
// reflects its interface so the pipeline builder can check it against the
// layout a technique declares.
package shader

import (
	_ "embed"
	"sort"

	"github.com/gogpu/forward/gpu"
)

//go:embed shaders/globals.wgsl
var globalsWGSL string

//go:embed shaders/vertex.wgsl
var vertexWGSL string

//go:embed shaders/flat.wgsl
var flatWGSL string

//go:embed shaders/wireframe.wgsl
var wireframeWGSL string

// Entry points of the built-in stages.
const (
	VertexEntry    = "vs_main"
	FragmentEntry  = "fs_main"
	GeometryEntry  = "gs_main"
	GlobalsBinding = 0
	// VerticesBinding is the storage binding the geometry stage pulls
	// vertices from.
	VerticesBinding = 1
)

// Source is the text of one shader stage.
type Source struct {
	Stage      gpu.StageKind
	Label      string
	EntryPoint string
	Text       string
	// Geometry is set for geometry stages only.
	Geometry *gpu.GeometryLayout
}

var (
	vertexSource = Source{
		Stage:      gpu.StageVertex,
		Label:      "forward_vertex",
		EntryPoint: VertexEntry,
		Text:       globalsWGSL + "\n" + vertexWGSL,
	}
	flatSource = Source{
		Stage:      gpu.StageFragment,
		Label:      "forward_flat_fragment",
		EntryPoint: FragmentEntry,
		Text:       globalsWGSL + "\n" + flatWGSL,
	}
	wireframeSource = Source{
		Stage:      gpu.StageGeometry,
		Label:      "forward_wireframe_geometry",
		EntryPoint: GeometryEntry,
		Text:       globalsWGSL + "\n" + vertexWGSL + "\n" + wireframeWGSL,
	}
)

// Vertex returns the vertex stage shared by every technique that
// transforms scene geometry.
func Vertex() Source {
	return vertexSource
}

// FlatFragment returns the fragment stage writing the material color u_Ka.
func FlatFragment() Source {
	return flatSource
}

// WireframeGeometry returns the geometry stage that outlines triangles.
func WireframeGeometry() Source {
	s := wireframeSource
	s.Geometry = gpu.TriangleOutline()
	return s
}

var builtins = map[string]func() Source{
	"vertex":    Vertex,
	"flat":      FlatFragment,
	"wireframe": WireframeGeometry,
}

// Lookup returns the built-in stage registered under name.
func Lookup(name string) (Source, bool) {
	fn, ok := builtins[name]
	if !ok {
		return Source{}, false
	}
	return fn(), true
}

// Names returns the names of the built-in stages in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
