// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/forward"
	"github.com/gogpu/forward/geom"
	"github.com/gogpu/forward/gpu"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

func newTestFactory(t *testing.T) *Factory {
	t.Helper()
	device, queue := createNoopDevice(t)
	f, err := NewFactory(device, queue)
	if err != nil {
		t.Fatalf("NewFactory: %v", err)
	}
	return f
}

// mockProvider implements gpucontext.DeviceProvider without hal access.
type mockProvider struct{}

func (mockProvider) Device() gpucontext.Device             { return nil }
func (mockProvider) Queue() gpucontext.Queue               { return nil }
func (mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

// halMockProvider also exposes hal types.
type halMockProvider struct {
	mockProvider
	device any
	queue  any
}

func (p halMockProvider) HalDevice() any { return p.device }
func (p halMockProvider) HalQueue() any  { return p.queue }

func TestNewFactory(t *testing.T) {
	device, queue := createNoopDevice(t)

	if _, err := NewFactory(nil, queue); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewFactory(nil device) = %v, want ErrNilDevice", err)
	}
	if _, err := NewFactory(device, nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewFactory(nil queue) = %v, want ErrNilDevice", err)
	}

	f, err := NewFactory(device, queue, WithTimeout(time.Second), WithTimeout(0))
	if err != nil {
		t.Fatalf("NewFactory: %v", err)
	}
	if f.timeout != time.Second {
		t.Errorf("timeout = %v, want 1s", f.timeout)
	}
	if f.Device() != device || f.Queue() != queue {
		t.Error("factory does not expose its device and queue")
	}
}

func TestNewFactoryFromProvider(t *testing.T) {
	device, queue := createNoopDevice(t)

	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		wantErr  bool
	}{
		{"no hal", mockProvider{}, true},
		{"wrong device type", halMockProvider{device: "device", queue: queue}, true},
		{"wrong queue type", halMockProvider{device: device, queue: 42}, true},
		{"hal", halMockProvider{device: device, queue: queue}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFactoryFromProvider(tt.provider)
			if tt.wantErr {
				if !errors.Is(err, ErrNoHAL) {
					t.Errorf("err = %v, want ErrNoHAL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFactoryFromProvider: %v", err)
			}
			if f.Device() != device {
				t.Error("factory uses a different device")
			}
		})
	}
}

func forwardSlots() []gpu.UniformSlot {
	return []gpu.UniformSlot{
		{Name: gpu.UniformProj, Kind: gpu.UniformMat4},
		{Name: gpu.UniformView, Kind: gpu.UniformMat4},
		{Name: gpu.UniformModel, Kind: gpu.UniformMat4},
		{Name: gpu.UniformKa, Kind: gpu.UniformVec4},
	}
}

func TestPackUniforms(t *testing.T) {
	slots := forwardSlots()
	if got := UniformBlockSize(slots); got != 208 {
		t.Fatalf("UniformBlockSize = %d, want 208", got)
	}

	values := []gpu.Uniform{
		gpu.Vec4(gpu.UniformKa, [4]float32{0.1, 0.2, 0.3, 1}),
		gpu.Mat4(gpu.UniformModel, geom.Translate(7, 8, 9)),
		gpu.Mat4(gpu.UniformView, geom.Identity()),
		gpu.Mat4(gpu.UniformProj, geom.Identity()),
	}
	data, err := PackUniforms(slots, values)
	if err != nil {
		t.Fatalf("PackUniforms: %v", err)
	}
	if len(data) != 208 {
		t.Fatalf("len = %d, want 208", len(data))
	}
	f32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	// u_Model starts at 128; its translation column at element 12.
	if got := f32(128 + 12*4); got != 7 {
		t.Errorf("model[12] = %v, want 7", got)
	}
	if got := f32(192 + 4); got != 0.2 {
		t.Errorf("ka.g = %v, want 0.2", got)
	}

	if _, err := PackUniforms(slots, values[:3]); err == nil {
		t.Error("missing u_Proj accepted")
	}
	bad := append([]gpu.Uniform{gpu.Vec4(gpu.UniformProj, [4]float32{})}, values...)
	if _, err := PackUniforms(slots, bad); err == nil {
		t.Error("vec4 u_Proj accepted")
	}
}

func TestCreatePipelines(t *testing.T) {
	f := newTestFactory(t)

	flat, err := forward.NewFlatShading(f)
	if err != nil {
		t.Fatalf("NewFlatShading: %v", err)
	}
	wire, err := forward.NewWireframe(f)
	if err != nil {
		t.Fatalf("NewWireframe: %v", err)
	}
	if f.Pipelines() != 2 {
		t.Errorf("Pipelines = %d, want 2", f.Pipelines())
	}

	fp := flat.Pipeline().(*Pipeline)
	if fp.Raw() == nil || fp.BindGroupLayout() == nil {
		t.Error("flat pipeline has no hal objects")
	}
	if fp.UniformSize() != 208 {
		t.Errorf("UniformSize = %d, want 208", fp.UniformSize())
	}
	if fp.geometry() {
		t.Error("flat pipeline reports a geometry stage")
	}
	wp := wire.Pipeline().(*Pipeline)
	if !wp.geometry() {
		t.Error("wireframe pipeline has no geometry stage")
	}

	f.Release(fp)
	if fp.Raw() != nil {
		t.Error("Release left the render pipeline")
	}
}

func TestCreatePipelineErrors(t *testing.T) {
	f := newTestFactory(t)

	if _, err := f.CreatePipeline(nil); err == nil {
		t.Error("nil descriptor accepted")
	}
	desc := &gpu.PipelineDescriptor{
		Label:     "lines",
		Primitive: gpu.Primitive{Topology: gputypes.PrimitiveTopologyTriangleList, Fill: gpu.FillLine},
	}
	if _, err := f.CreatePipeline(desc); !errors.Is(err, ErrPolygonMode) {
		t.Errorf("FillLine = %v, want ErrPolygonMode", err)
	}
	desc.Geometry = &gpu.Stage{Kind: gpu.StageGeometry, Label: "no_layout"}
	if _, err := f.CreatePipeline(desc); !errors.Is(err, ErrGeometryLayout) {
		t.Errorf("geometry without layout = %v, want ErrGeometryLayout", err)
	}
	desc.Geometry = nil
	desc.Primitive.Fill = gpu.FillSolid
	if _, err := f.CreatePipeline(desc); err == nil {
		t.Error("descriptor without SPIR-V accepted")
	}
	if f.Pipelines() != 0 {
		t.Errorf("Pipelines = %d, want 0", f.Pipelines())
	}
}

func TestResources(t *testing.T) {
	f := newTestFactory(t)

	buf, err := f.NewBuffer("tri", make([]gpu.VertexPosNormal, 3))
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	if buf.Size() != 72 || buf.Vertices() != 3 || buf.Label() != "tri" {
		t.Errorf("buffer = %q %d bytes %d vertices", buf.Label(), buf.Size(), buf.Vertices())
	}
	f.ReleaseBuffer(buf)
	if buf.Raw() != nil {
		t.Error("ReleaseBuffer left the hal buffer")
	}

	if _, err := f.NewRenderTarget("empty", gputypes.TextureFormatRGBA8Unorm, 0, 4); err == nil {
		t.Error("zero-sized target accepted")
	}
	rt, err := f.NewRenderTarget("color", gputypes.TextureFormatRGBA8Unorm, 8, 4)
	if err != nil {
		t.Fatalf("NewRenderTarget: %v", err)
	}
	if rt.Width() != 8 || rt.Height() != 4 || rt.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("target = %dx%d %v", rt.Width(), rt.Height(), rt.Format())
	}
	f.ReleaseTarget(rt)
	if rt.View() != nil || rt.Texture() != nil {
		t.Error("ReleaseTarget left hal objects")
	}
}

type frame struct {
	f      *Factory
	target *forward.Target
	scenes forward.Scenes
	flat   *forward.FlatShading
	wire   *forward.Wireframe
}

func newFrame(t *testing.T) *frame {
	t.Helper()
	f := newTestFactory(t)
	color, err := f.NewRenderTarget("color", forward.DefaultColorFormat, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	depth, err := f.NewRenderTarget("depth", forward.DefaultDepthFormat, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := f.NewBuffer("tri", []gpu.VertexPosNormal{
		{Pos: [3]float32{-1, -1, 0}},
		{Pos: [3]float32{1, -1, 0}},
		{Pos: [3]float32{0, 1, 0}},
	})
	if err != nil {
		t.Fatal(err)
	}
	flat, err := forward.NewFlatShading(f)
	if err != nil {
		t.Fatal(err)
	}
	wire, err := forward.NewWireframe(f)
	if err != nil {
		t.Fatal(err)
	}
	scene := &forward.Scene{}
	scene.Add(forward.Fragment{Buffer: buf, Slice: gpu.SliceFor(3), Ka: [4]float32{1, 0, 0, 1}, Transform: geom.Identity()})
	return &frame{
		f:      f,
		target: &forward.Target{Color: color, Depth: depth},
		scenes: forward.Scenes{"main": scene},
		flat:   flat,
		wire:   wire,
	}
}

func TestEncoderFrame(t *testing.T) {
	fr := newFrame(t)
	enc, err := fr.f.NewEncoder("frame")
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	args := forward.SceneArgs{Scene: "main", Camera: forward.Camera{View: geom.Identity(), Projection: geom.Identity()}}
	passes := forward.Passes{
		forward.Bind[forward.ClearArgs](forward.Clear{}, forward.ClearArgs{Color: [4]float32{0, 0, 0, 1}}),
		forward.Bind[forward.FlatShadingArgs](fr.flat, args),
		forward.Bind[forward.WireframeArgs](fr.wire, args),
	}
	if err := passes.Apply(fr.target, fr.scenes, enc); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if enc.Draws() != 2 {
		t.Errorf("Draws = %d, want 2", enc.Draws())
	}
	// Flat renders with depth, wireframe without: two passes, clears
	// folded into the first.
	if enc.Passes() != 2 {
		t.Errorf("Passes = %d, want 2", enc.Passes())
	}
	if len(enc.colorClears) != 0 || len(enc.depthClears) != 0 {
		t.Error("clears were not consumed by the first pass")
	}
	if err := enc.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if enc.uniforms != nil || enc.bindGroups != nil {
		t.Error("Submit did not release per-frame resources")
	}
	if _, err := enc.Finish(); !errors.Is(err, ErrFinished) {
		t.Errorf("second Finish = %v, want ErrFinished", err)
	}
}

func TestEncoderClearOnly(t *testing.T) {
	fr := newFrame(t)
	enc, err := fr.f.NewEncoder("clear")
	if err != nil {
		t.Fatal(err)
	}
	enc.ClearColor(fr.target.Color, [4]float32{1, 1, 1, 1})
	enc.ClearDepth(fr.target.Depth, 1)
	enc.ClearColor(fr.target.Color, [4]float32{0, 0, 0, 1})
	if _, err := enc.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if enc.Passes() != 2 {
		t.Errorf("Passes = %d, want 2 (one per cleared view)", enc.Passes())
	}
}

type foreignView struct{}

func (foreignView) Label() string                  { return "foreign" }
func (foreignView) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

func TestEncoderStickyError(t *testing.T) {
	fr := newFrame(t)
	enc, err := fr.f.NewEncoder("sticky")
	if err != nil {
		t.Fatal(err)
	}
	enc.ClearColor(foreignView{}, [4]float32{})
	if !errors.Is(enc.Err(), ErrForeignResource) {
		t.Fatalf("Err = %v, want ErrForeignResource", enc.Err())
	}
	enc.ClearDepth(fr.target.Depth, 1)
	if enc.Passes() != 0 || len(enc.depthClears) != 0 {
		t.Error("commands after an error were recorded")
	}
	if _, err := enc.Finish(); !errors.Is(err, ErrForeignResource) {
		t.Errorf("Finish = %v, want ErrForeignResource", err)
	}
}

func TestEncoderGeometrySliceAlignment(t *testing.T) {
	fr := newFrame(t)
	enc, err := fr.f.NewEncoder("unaligned")
	if err != nil {
		t.Fatal(err)
	}
	frag := fr.scenes["main"].Fragments[0]
	enc.Draw(gpu.Slice{Start: 1, End: 3}, fr.wire.Pipeline(), &gpu.Bindings{
		Vertex: frag.Buffer,
		Uniforms: []gpu.Uniform{
			gpu.Mat4(gpu.UniformProj, geom.Identity()),
			gpu.Mat4(gpu.UniformView, geom.Identity()),
			gpu.Mat4(gpu.UniformModel, geom.Identity()),
			gpu.Vec4(gpu.UniformKa, [4]float32{1, 1, 1, 1}),
		},
		Color: []gpu.ColorView{fr.target.Color},
	})
	if !errors.Is(enc.Err(), ErrUnalignedSlice) {
		t.Errorf("Err = %v, want ErrUnalignedSlice", enc.Err())
	}
	enc.Release()
}

func TestGeometryRange(t *testing.T) {
	p := &Pipeline{desc: &gpu.PipelineDescriptor{
		Geometry: &gpu.Stage{Kind: gpu.StageGeometry, Geometry: gpu.TriangleOutline()},
	}}
	tests := []struct {
		name         string
		slice        gpu.Slice
		count, first uint32
		wantErr      error
	}{
		{"one triangle", gpu.Slice{Start: 0, End: 3}, 6, 0, nil},
		{"second and third", gpu.Slice{Start: 3, End: 9}, 12, 6, nil},
		{"partial primitive dropped", gpu.Slice{Start: 0, End: 5}, 6, 0, nil},
		{"unaligned", gpu.Slice{Start: 2, End: 5}, 0, 0, ErrUnalignedSlice},
		{"indexed", gpu.Slice{End: 3, Index: &IndexBuffer{count: 3}}, 0, 0, ErrIndexedGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, first, err := p.geometryRange(tt.slice)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if count != tt.count || first != tt.first {
				t.Errorf("range = (%d, %d), want (%d, %d)", count, first, tt.count, tt.first)
			}
		})
	}
}

func TestEncoderIndexedDraw(t *testing.T) {
	fr := newFrame(t)
	ib, err := fr.f.NewIndexBuffer("tri_indices", []uint32{2, 0, 1})
	if err != nil {
		t.Fatalf("NewIndexBuffer: %v", err)
	}
	defer fr.f.ReleaseIndexBuffer(ib)
	if ib.Len() != 3 || ib.Raw() == nil {
		t.Fatalf("index buffer = %d indices, raw %v", ib.Len(), ib.Raw())
	}

	frag := fr.scenes["main"].Fragments[0]
	bindings := func(depth bool) *gpu.Bindings {
		b := &gpu.Bindings{
			Vertex: frag.Buffer,
			Uniforms: []gpu.Uniform{
				gpu.Mat4(gpu.UniformProj, geom.Identity()),
				gpu.Mat4(gpu.UniformView, geom.Identity()),
				gpu.Mat4(gpu.UniformModel, geom.Identity()),
				gpu.Vec4(gpu.UniformKa, [4]float32{1, 1, 1, 1}),
			},
			Color: []gpu.ColorView{fr.target.Color},
		}
		if depth {
			b.Depth = fr.target.Depth
		}
		return b
	}

	tests := []struct {
		name    string
		slice   gpu.Slice
		pso     gpu.Pipeline
		depth   bool
		wantErr error
	}{
		{"flat", gpu.IndexedSliceFor(ib), fr.flat.Pipeline(), true, nil},
		{"past the end", gpu.Slice{End: 4, Index: ib}, fr.flat.Pipeline(), true, ErrIndexRange},
		{"geometry program", gpu.IndexedSliceFor(ib), fr.wire.Pipeline(), false, ErrIndexedGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := fr.f.NewEncoder(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			defer enc.Release()
			enc.Draw(tt.slice, tt.pso, bindings(tt.depth))
			if !errors.Is(enc.Err(), tt.wantErr) {
				t.Fatalf("Err = %v, want %v", enc.Err(), tt.wantErr)
			}
			if tt.wantErr == nil && enc.Draws() != 1 {
				t.Errorf("Draws = %d, want 1", enc.Draws())
			}
		})
	}
}
