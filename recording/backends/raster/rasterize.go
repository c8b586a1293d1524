// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"errors"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/forward/gpu"
	"github.com/gogpu/forward/recording"
)

var errNoImage = errors.New("raster: view has no image")

type depthBuffer struct {
	w, h int
	v    []float32
}

func newDepthBuffer(w, h int) *depthBuffer {
	d := &depthBuffer{w: w, h: h, v: make([]float32, w*h)}
	for i := range d.v {
		d.v[i] = 1
	}
	return d
}

// screenVertex is a vertex after perspective divide and viewport mapping.
type screenVertex struct {
	x, y, z float32
}

type rasterizer struct {
	targets []*image.RGBA
	color   color.RGBA
	state   gpu.Primitive

	// depth is nil when the draw has no depth test.
	depth   *depthBuffer
	compare gputypes.CompareFunction
	write   bool

	stats *Stats
}

// viewport maps a clipped clip-space position to pixel coordinates.
func (r *rasterizer) viewport(c [4]float32) screenVertex {
	b := r.targets[0].Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	inv := 1 / c[3]
	return screenVertex{
		x: (c[0]*inv + 1) / 2 * w,
		y: (1 - c[1]*inv) / 2 * h,
		z: c[2] * inv,
	}
}

func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// culled reports whether a triangle with the given screen-space signed
// area is discarded by the cull mode. The viewport flips y, so a
// counter-clockwise triangle in NDC has negative area on screen.
func (r *rasterizer) culled(area float32) bool {
	ccw := area < 0
	front := ccw
	if r.state.FrontFace == gputypes.FrontFaceCW {
		front = !ccw
	}
	switch r.state.CullMode {
	case gputypes.CullModeBack:
		return !front
	case gputypes.CullModeFront:
		return front
	default:
		return false
	}
}

func (r *rasterizer) triangle(t recording.Triangle) {
	poly := clipPolygon(t[:])
	if len(poly) < 3 {
		return
	}
	v := make([]screenVertex, len(poly))
	for i, c := range poly {
		v[i] = r.viewport(c)
	}
	var area float32
	for i := 1; i+1 < len(v); i++ {
		area += edge(v[0], v[i], v[i+1].x, v[i+1].y)
	}
	if area == 0 {
		return
	}
	if r.culled(area) {
		r.stats.Culled++
		return
	}
	r.stats.Triangles++

	if r.state.Fill == gpu.FillLine {
		for i := range t {
			if a, b, ok := clipSegment(t[i], t[(i+1)%3]); ok {
				r.segment(r.viewport(a), r.viewport(b))
			}
		}
		return
	}
	for i := 1; i+1 < len(v); i++ {
		r.fill(v[0], v[i], v[i+1])
	}
}

// fill covers the pixels whose centers lie inside a screen-space triangle.
func (r *rasterizer) fill(v0, v1, v2 screenVertex) {
	area := edge(v0, v1, v2.x, v2.y)
	if area == 0 {
		return
	}
	sign := float32(1)
	if area < 0 {
		sign, area = -1, -area
	}
	b := r.targets[0].Bounds()
	minX := clampInt(int(math32.Floor(min3(v0.x, v1.x, v2.x))), b.Min.X, b.Max.X)
	maxX := clampInt(int(math32.Ceil(max3(v0.x, v1.x, v2.x))), b.Min.X, b.Max.X)
	minY := clampInt(int(math32.Floor(min3(v0.y, v1.y, v2.y))), b.Min.Y, b.Max.Y)
	maxY := clampInt(int(math32.Ceil(max3(v0.y, v1.y, v2.y))), b.Min.Y, b.Max.Y)

	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5
			w0 := sign * edge(v1, v2, px, py)
			w1 := sign * edge(v2, v0, px, py)
			w2 := sign * edge(v0, v1, px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := v0.z + (w1*(v1.z-v0.z)+w2*(v2.z-v0.z))/area
			r.fragment(x, y, z)
		}
	}
}

func (r *rasterizer) line(a, b [4]float32) {
	a, b, ok := clipSegment(a, b)
	if !ok {
		return
	}
	r.stats.Lines++
	r.segment(r.viewport(a), r.viewport(b))
}

// segment walks a screen-space segment one pixel step at a time.
func (r *rasterizer) segment(a, b screenVertex) {
	dx, dy, dz := b.x-a.x, b.y-a.y, b.z-a.z
	steps := int(math32.Ceil(math32.Max(math32.Abs(dx), math32.Abs(dy))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		r.fragment(
			int(math32.Floor(a.x+dx*t)),
			int(math32.Floor(a.y+dy*t)),
			a.z+dz*t,
		)
	}
}

func (r *rasterizer) fragment(x, y int, z float32) {
	if z < 0 || z > 1 {
		return
	}
	if !(image.Point{X: x, Y: y}).In(r.targets[0].Bounds()) {
		return
	}
	if r.depth != nil {
		if x >= r.depth.w || y >= r.depth.h {
			return
		}
		i := y*r.depth.w + x
		if !depthPass(r.compare, z, r.depth.v[i]) {
			return
		}
		if r.write {
			r.depth.v[i] = z
		}
	}
	for _, img := range r.targets {
		img.SetRGBA(x, y, r.color)
	}
	r.stats.Fragments++
}

func depthPass(f gputypes.CompareFunction, z, stored float32) bool {
	switch f {
	case gputypes.CompareFunctionNever:
		return false
	case gputypes.CompareFunctionLess:
		return z < stored
	case gputypes.CompareFunctionEqual:
		return z == stored
	case gputypes.CompareFunctionLessEqual:
		return z <= stored
	case gputypes.CompareFunctionGreater:
		return z > stored
	case gputypes.CompareFunctionNotEqual:
		return z != stored
	case gputypes.CompareFunctionGreaterEqual:
		return z >= stored
	default:
		return true
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min3(a, b, c float32) float32 {
	return math32.Min(a, math32.Min(b, c))
}

func max3(a, b, c float32) float32 {
	return math32.Max(a, math32.Max(b, c))
}
