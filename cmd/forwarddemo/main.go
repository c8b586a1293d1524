// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command forwarddemo renders two flat-shaded cubes with a wireframe
// overlay using the software playback backend and saves the result as PNG.
//
// With -frames N the cubes turn a full revolution over N frames, written
// as numbered files next to -output. With -shaders it compiles the
// built-in shader stages and prints their interfaces instead.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/forward"
	"github.com/gogpu/forward/geom"
	"github.com/gogpu/forward/gpu"
	"github.com/gogpu/forward/pipeline"
	"github.com/gogpu/forward/recording"
	"github.com/gogpu/forward/recording/backends/raster"
	"github.com/gogpu/forward/shader"
)

func main() {
	var (
		width   = flag.Int("width", 640, "image width")
		height  = flag.Int("height", 480, "image height")
		output  = flag.String("output", "forward.png", "output file")
		ssaa    = flag.Int("ssaa", 2, "supersampling factor")
		frames  = flag.Int("frames", 1, "number of turntable frames")
		shaders = flag.Bool("shaders", false, "compile the built-in shaders and print their interfaces")
		debug   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *debug {
		forward.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *shaders {
		if err := listShaders(os.Stdout); err != nil {
			log.Fatalf("Failed to compile shaders: %v", err)
		}
		return
	}
	if *ssaa < 1 {
		*ssaa = 1
	}
	if *frames < 1 {
		*frames = 1
	}

	r := newRenderer()
	for i := 0; i < *frames; i++ {
		angle := 2 * math.Pi * float32(i) / float32(*frames)
		img, err := r.render(*width**ssaa, *height**ssaa, angle)
		if err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
		if *ssaa > 1 {
			dst := image.NewRGBA(image.Rect(0, 0, *width, *height))
			xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
			img = dst
		}
		path := frameName(*output, i, *frames)
		if err := savePNG(path, img); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("Frame saved to %s (%dx%d, %dx supersampling)\n", path, *width, *height, *ssaa)
	}

	hits, misses := r.cache.Stats()
	forward.Logger().Debug("pipeline cache", "hits", hits, "misses", misses, "size", r.cache.Size())
}

// renderer builds its techniques through a pipeline cache, so every frame
// after the first reuses the pipelines of the first.
type renderer struct {
	cache *pipeline.Cache
}

func newRenderer() *renderer {
	return &renderer{cache: pipeline.NewCache(recording.NewFactory())}
}

func (r *renderer) render(w, h int, angle float32) (*image.RGBA, error) {
	flat, err := forward.NewFlatShading(r.cache)
	if err != nil {
		return nil, err
	}
	wire, err := forward.NewWireframe(r.cache)
	if err != nil {
		return nil, err
	}

	target := &forward.Target{
		Color: recording.NewView("color", forward.DefaultColorFormat, w, h),
		Depth: recording.NewView("depth", forward.DefaultDepthFormat, w, h),
	}
	scenes := buildScenes(recording.NewBuffer("cube", cubeVertices(0.5)), angle)
	camera := forward.LookAtCamera(
		geom.V3(2.8, 2.2, 3.6), geom.V3(0, 0, 0), geom.V3(0, 1, 0),
		math.Pi/4, float32(w)/float32(h), 0.1, 100,
	)

	passes := forward.Passes{
		forward.Bind[forward.ClearArgs](forward.Clear{}, forward.ClearArgs{Color: [4]float32{0.08, 0.09, 0.12, 1}}),
		forward.Bind[forward.FlatShadingArgs](flat, forward.SceneArgs{Scene: "solid", Camera: camera}),
		forward.Bind[forward.WireframeArgs](wire, forward.SceneArgs{Scene: "edges", Camera: camera}),
	}

	rec := recording.NewRecorder()
	if err := passes.Apply(target, scenes, rec); err != nil {
		return nil, err
	}
	backend, ok := recording.MustBackend("raster").(*raster.Backend)
	if !ok {
		return nil, fmt.Errorf("unexpected raster backend type")
	}
	if err := rec.Finish().Playback(backend); err != nil {
		return nil, err
	}
	st := backend.Stats()
	forward.Logger().Debug("frame rasterized",
		"triangles", st.Triangles,
		"lines", st.Lines,
		"culled", st.Culled,
		"fragments", st.Fragments,
	)
	return backend.Image(target.Color), nil
}

// frameName numbers output files when more than one frame is rendered.
func frameName(output string, i, frames int) string {
	if frames == 1 {
		return output
	}
	ext := ".png"
	base := strings.TrimSuffix(output, ext)
	return fmt.Sprintf("%s_%03d%s", base, i, ext)
}

// listShaders compiles every built-in stage and prints its interface.
func listShaders(w io.Writer) error {
	for _, name := range shader.Names() {
		src, _ := shader.Lookup(name)
		m, err := shader.Compile(src)
		if err != nil {
			return err
		}
		iface := m.Interface
		fmt.Fprintf(w, "%s: %s stage %q, entry %s, %d SPIR-V words\n",
			name, src.Stage, src.Label, src.EntryPoint, len(m.SPIRV))
		for _, in := range iface.Inputs {
			fmt.Fprintf(w, "  in  @location(%d) %s %v\n", in.Location, in.Name, in.Format)
		}
		for _, u := range iface.Uniforms {
			fmt.Fprintf(w, "  uniform %s\n", u.Name)
		}
		for _, out := range iface.Outputs {
			fmt.Fprintf(w, "  out @location(%d) %s %s\n", out.Location, out.Name, out.Type)
		}
		for _, st := range iface.Storage {
			fmt.Fprintf(w, "  storage @group(%d) @binding(%d) %s\n", st.Group, st.Binding, st.Name)
		}
	}
	return nil
}

// buildScenes places two cubes sharing one vertex buffer, turned by angle
// radians. The edge scene reuses the geometry with a light color for the
// overlay.
func buildScenes(cube gpu.Buffer, angle float32) forward.Scenes {
	placements := []geom.Mat4{
		geom.Translate(-0.7, 0, 0).Mul(geom.RotateY(0.4 + angle)),
		geom.Translate(0.8, 0.1, -0.6).Mul(geom.RotateY(-0.3 - angle)).Mul(geom.Scale(0.7, 0.7, 0.7)),
	}
	colors := [][4]float32{
		{0.85, 0.35, 0.25, 1},
		{0.25, 0.55, 0.85, 1},
	}
	solid, edges := &forward.Scene{}, &forward.Scene{}
	for i, m := range placements {
		frag := forward.Fragment{Buffer: cube, Slice: gpu.SliceFor(36), Ka: colors[i], Transform: m}
		solid.Add(frag)
		frag.Ka = [4]float32{0.95, 0.95, 0.9, 1}
		edges.Add(frag)
	}
	return forward.Scenes{"solid": solid, "edges": edges}
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
