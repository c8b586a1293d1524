// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster provides a software playback backend for recordings.
//
// It rasterizes assembled batches into *image.RGBA color buffers and
// float32 depth buffers, one per view, allocated the first time a view is
// cleared or drawn to. Views must report their size through Width() and
// Height() methods, as recording.View does.
//
// # Supported Features
//
//   - Filled triangles with back- or front-face culling
//   - Line segments (wireframe strips, line topologies, line fill mode)
//   - Clipping of triangles and lines that cross the view volume
//   - Depth test with any compare function, optional depth writes
//   - PNG output
//
// # Limitations
//
// Primitives are clipped to the view volume, including the near and far
// depth planes, before rasterization. Pixels are covered by center sampling
// without a fill rule, so pixels on an edge shared by two triangles are
// written twice. There is no blending or multisampling.
//
// # Example
//
//	import _ "github.com/gogpu/forward/recording/backends/raster"
//
//	backend := recording.MustBackend("raster").(*raster.Backend)
//	if err := rec.Playback(backend); err != nil {
//	    // handle error
//	}
//	img := backend.Image(colorView)
package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/gogpu/forward/gpu"
	"github.com/gogpu/forward/recording"
)

func init() {
	recording.Register("raster", func() recording.Backend {
		return NewBackend()
	})
}

// sized is implemented by views that know their pixel size.
type sized interface {
	Width() int
	Height() int
}

// Stats counts the work done since the last Begin.
type Stats struct {
	Batches   int
	Triangles int
	Lines     int
	Culled    int
	Fragments int
	// Skipped counts clears and batches aimed at views without a size.
	Skipped int
}

// Backend rasterizes recordings in software.
type Backend struct {
	colors map[gpu.ColorView]*image.RGBA
	depths map[gpu.DepthView]*depthBuffer
	stats  Stats
}

var (
	_ recording.Backend      = (*Backend)(nil)
	_ recording.ImageBackend = (*Backend)(nil)
)

// NewBackend creates a raster backend with no buffers.
func NewBackend() *Backend {
	return &Backend{
		colors: make(map[gpu.ColorView]*image.RGBA),
		depths: make(map[gpu.DepthView]*depthBuffer),
	}
}

// Begin implements recording.Backend. Buffers from earlier playbacks are
// kept, so several recordings can build up one image.
func (b *Backend) Begin() error {
	b.stats = Stats{}
	return nil
}

// End implements recording.Backend.
func (b *Backend) End() error {
	return nil
}

// ClearColor implements recording.Backend.
func (b *Backend) ClearColor(view gpu.ColorView, c [4]float32) {
	img := b.colorBuffer(view)
	if img == nil {
		b.stats.Skipped++
		return
	}
	px := toRGBA(c)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = px.R
		img.Pix[i+1] = px.G
		img.Pix[i+2] = px.B
		img.Pix[i+3] = px.A
	}
}

// ClearDepth implements recording.Backend.
func (b *Backend) ClearDepth(view gpu.DepthView, v float32) {
	d := b.depthBuffer(view)
	if d == nil {
		b.stats.Skipped++
		return
	}
	for i := range d.v {
		d.v[i] = v
	}
}

// DrawBatch implements recording.Backend.
func (b *Backend) DrawBatch(batch *recording.Batch) {
	if len(batch.ColorViews) == 0 {
		b.stats.Skipped++
		return
	}
	var targets []*image.RGBA
	for _, v := range batch.ColorViews {
		if img := b.colorBuffer(v); img != nil {
			targets = append(targets, img)
		}
	}
	if len(targets) == 0 {
		b.stats.Skipped++
		return
	}
	r := rasterizer{
		targets: targets,
		color:   toRGBA(batch.Color),
		state:   batch.Primitive,
		stats:   &b.stats,
	}
	if batch.Depth != nil && batch.DepthView != nil {
		r.depth = b.depthBuffer(batch.DepthView)
		r.compare = batch.Depth.Compare
		r.write = batch.Depth.Write
	}
	b.stats.Batches++
	for i := range batch.Triangles {
		r.triangle(batch.Triangles[i])
	}
	for i := range batch.Lines {
		r.line(batch.Lines[i][0], batch.Lines[i][1])
	}
}

// Image implements recording.ImageBackend.
func (b *Backend) Image(view gpu.ColorView) *image.RGBA {
	return b.colors[view]
}

// DepthAt returns the stored depth of view at pixel (x, y).
func (b *Backend) DepthAt(view gpu.DepthView, x, y int) (float32, bool) {
	d, ok := b.depths[view]
	if !ok || x < 0 || y < 0 || x >= d.w || y >= d.h {
		return 0, false
	}
	return d.v[y*d.w+x], true
}

// Stats returns the counters of the current playback.
func (b *Backend) Stats() Stats {
	return b.stats
}

// WritePNG encodes the contents of view as PNG.
func (b *Backend) WritePNG(view gpu.ColorView, w io.Writer) (int64, error) {
	img := b.colors[view]
	if img == nil {
		return 0, errNoImage
	}
	cw := &countingWriter{w: w}
	err := png.Encode(cw, img)
	return cw.n, err
}

func (b *Backend) colorBuffer(view gpu.ColorView) *image.RGBA {
	if img, ok := b.colors[view]; ok {
		return img
	}
	s, ok := view.(sized)
	if !ok || s.Width() <= 0 || s.Height() <= 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, s.Width(), s.Height()))
	b.colors[view] = img
	return img
}

func (b *Backend) depthBuffer(view gpu.DepthView) *depthBuffer {
	if d, ok := b.depths[view]; ok {
		return d
	}
	s, ok := view.(sized)
	if !ok || s.Width() <= 0 || s.Height() <= 0 {
		return nil
	}
	d := newDepthBuffer(s.Width(), s.Height())
	b.depths[view] = d
	return d
}

func toRGBA(c [4]float32) color.RGBA {
	return color.RGBA{R: unorm8(c[0]), G: unorm8(c[1]), B: unorm8(c[2]), A: unorm8(c[3])}
}

func unorm8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
