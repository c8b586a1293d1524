// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/forward/gpu"
	"github.com/gogpu/forward/shader"
)

// mockPipeline is a minimal gpu.Pipeline.
type mockPipeline struct {
	desc *gpu.PipelineDescriptor
}

func (p *mockPipeline) Label() string                       { return p.desc.Label }
func (p *mockPipeline) Descriptor() *gpu.PipelineDescriptor { return p.desc }

// mockFactory records the descriptors it is asked to create.
type mockFactory struct {
	mu    sync.Mutex
	calls []*gpu.PipelineDescriptor
	err   error
}

func (f *mockFactory) CreatePipeline(desc *gpu.PipelineDescriptor) (gpu.Pipeline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, desc)
	if f.err != nil {
		return nil, f.err
	}
	return &mockPipeline{desc: desc}, nil
}

func (f *mockFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func forwardUniforms() []gpu.UniformSlot {
	return []gpu.UniformSlot{
		{Name: gpu.UniformProj, Kind: gpu.UniformMat4},
		{Name: gpu.UniformView, Kind: gpu.UniformMat4},
		{Name: gpu.UniformModel, Kind: gpu.UniformMat4},
		{Name: gpu.UniformKa, Kind: gpu.UniformVec4},
	}
}

func flatLayout() Layout {
	return Layout{
		Label:        "flat",
		VertexBuffer: gpu.VertexPosNormalLayout(),
		Uniforms:     forwardUniforms(),
		Color:        ColorOutput(gpu.OutputKa, gputypes.TextureFormatRGBA8Unorm),
		Depth:        DepthLessEqualWrite(gputypes.TextureFormatDepth24PlusStencil8),
	}
}

func wireLayout() Layout {
	l := flatLayout()
	l.Label = "wireframe"
	l.Depth = nil
	return l
}

func TestCreateSimple(t *testing.T) {
	f := &mockFactory{}
	pso, err := CreateSimple(f, shader.Vertex(), shader.FlatFragment(), gputypes.CullModeBack, flatLayout())
	if err != nil {
		t.Fatalf("CreateSimple: %v", err)
	}
	if f.count() != 1 {
		t.Fatalf("factory called %d times, want 1", f.count())
	}
	d := pso.Descriptor()
	if d.Geometry != nil {
		t.Error("simple pipeline has a geometry stage")
	}
	if d.Primitive.Topology != gputypes.PrimitiveTopologyTriangleList ||
		d.Primitive.CullMode != gputypes.CullModeBack ||
		d.Primitive.Fill != gpu.FillSolid {
		t.Errorf("Primitive = %+v", d.Primitive)
	}
	if d.Depth == nil || d.Depth.Compare != gputypes.CompareFunctionLessEqual || !d.Depth.Write {
		t.Errorf("Depth = %+v, want less-equal with writes", d.Depth)
	}
	if len(d.Vertex.SPIRV) == 0 || len(d.Fragment.SPIRV) == 0 {
		t.Error("stages were not compiled")
	}
	if d.Vertex.EntryPoint != shader.VertexEntry || d.Fragment.EntryPoint != shader.FragmentEntry {
		t.Errorf("entry points = %q, %q", d.Vertex.EntryPoint, d.Fragment.EntryPoint)
	}
}

func TestCreatePipelineStateGeometry(t *testing.T) {
	f := &mockFactory{}
	set := Geometry(shader.Vertex(), shader.WireframeGeometry(), shader.FlatFragment())
	pso, err := CreatePipelineState(f, set, gputypes.PrimitiveTopologyTriangleList,
		NewFill(gputypes.CullModeNone), wireLayout())
	if err != nil {
		t.Fatalf("CreatePipelineState: %v", err)
	}
	d := pso.Descriptor()
	if d.Geometry == nil || d.Geometry.Geometry == nil {
		t.Fatal("geometry stage missing from descriptor")
	}
	if d.Geometry.EntryPoint != shader.GeometryEntry {
		t.Errorf("geometry entry point = %q", d.Geometry.EntryPoint)
	}
	if d.Primitive.CullMode != gputypes.CullModeNone || d.Primitive.Fill != gpu.FillSolid {
		t.Errorf("Primitive = %+v", d.Primitive)
	}
	if d.HasDepth() {
		t.Error("wireframe pipeline declares a depth target")
	}
	if len(d.Color) != 1 || d.Color[0].Name != gpu.OutputKa {
		t.Errorf("Color = %+v", d.Color)
	}
}

func TestBuildCopiesLayout(t *testing.T) {
	layout := flatLayout()
	desc, err := Build(Simple(shader.Vertex(), shader.FlatFragment()), gputypes.PrimitiveTopologyTriangleList,
		NewFill(gputypes.CullModeBack), layout)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	layout.Uniforms[0].Name = "changed"
	layout.Depth.Write = false
	if desc.Uniforms[0].Name != gpu.UniformProj || !desc.Depth.Write {
		t.Error("descriptor aliases the caller's layout")
	}
}

func TestValidationFailsBeforeFactory(t *testing.T) {
	broken := shader.Source{
		Stage:      gpu.StageFragment,
		Label:      "broken",
		EntryPoint: shader.FragmentEntry,
		Text:       "@fragment fn fs_main() -> @location(0) vec4<f32> { return nope; }",
	}
	twoOutputs := shader.Source{
		Stage:      gpu.StageFragment,
		Label:      "two_outputs",
		EntryPoint: shader.FragmentEntry,
		Text: `struct FragmentOutput { @location(0) o_Ka: vec4<f32>, @location(1) o_Extra: vec4<f32> }
@fragment fn fs_main() -> FragmentOutput {
    var out: FragmentOutput;
    out.o_Ka = vec4<f32>(1.0);
    out.o_Extra = vec4<f32>(0.0);
    return out;
}`,
	}

	tests := []struct {
		name     string
		set      ShaderSet
		topology gputypes.PrimitiveTopology
		layout   func() Layout
		want     error
		reason   string
	}{
		{
			name:   "compile error",
			set:    Simple(shader.Vertex(), broken),
			layout: flatLayout,
			want:   shader.ErrCompile,
		},
		{
			name: "missing vertex attribute",
			set:  Simple(shader.Vertex(), shader.FlatFragment()),
			layout: func() Layout {
				l := flatLayout()
				l.VertexBuffer.Attributes = l.VertexBuffer.Attributes[:1]
				return l
			},
			want:   ErrLink,
			reason: "inputs",
		},
		{
			name: "renamed vertex attribute",
			set:  Simple(shader.Vertex(), shader.FlatFragment()),
			layout: func() Layout {
				l := flatLayout()
				l.VertexBuffer.Attributes[1].Name = "a_Norm"
				return l
			},
			want:   ErrLink,
			reason: "a_Normal",
		},
		{
			name: "wrong attribute location",
			set:  Simple(shader.Vertex(), shader.FlatFragment()),
			layout: func() Layout {
				l := flatLayout()
				l.VertexBuffer.Attributes[1].Location = 3
				return l
			},
			want:   ErrLink,
			reason: "location",
		},
		{
			name: "wrong attribute format",
			set:  Simple(shader.Vertex(), shader.FlatFragment()),
			layout: func() Layout {
				l := flatLayout()
				l.VertexBuffer.Attributes[0].Format = gputypes.VertexFormatFloat32x2
				return l
			},
			want:   ErrLink,
			reason: "format",
		},
		{
			name: "stride too small",
			set:  Simple(shader.Vertex(), shader.FlatFragment()),
			layout: func() Layout {
				l := flatLayout()
				l.VertexBuffer.Stride = 16
				return l
			},
			want:   ErrLink,
			reason: "does not fit",
		},
		{
			name: "uniform order",
			set:  Simple(shader.Vertex(), shader.FlatFragment()),
			layout: func() Layout {
				l := flatLayout()
				l.Uniforms[0], l.Uniforms[1] = l.Uniforms[1], l.Uniforms[0]
				return l
			},
			want:   ErrLink,
			reason: "uniforms",
		},
		{
			name: "missing uniform",
			set:  Simple(shader.Vertex(), shader.FlatFragment()),
			layout: func() Layout {
				l := flatLayout()
				l.Uniforms = l.Uniforms[:3]
				return l
			},
			want:   ErrLink,
			reason: "uniforms",
		},
		{
			name: "unknown color output",
			set:  Simple(shader.Vertex(), shader.FlatFragment()),
			layout: func() Layout {
				l := flatLayout()
				l.Color[0].Name = "o_Color"
				return l
			},
			want:   ErrLink,
			reason: "o_Color",
		},
		{
			name:   "extra fragment output",
			set:    Simple(shader.Vertex(), twoOutputs),
			layout: flatLayout,
			want:   ErrLink,
			reason: "2 outputs",
		},
		{
			name: "depth format as color",
			set:  Simple(shader.Vertex(), shader.FlatFragment()),
			layout: func() Layout {
				l := flatLayout()
				l.Color[0].Format = gputypes.TextureFormatDepth32Float
				return l
			},
			want:   ErrLink,
			reason: "non-color",
		},
		{
			name: "color format as depth",
			set:  Simple(shader.Vertex(), shader.FlatFragment()),
			layout: func() Layout {
				l := flatLayout()
				l.Depth.Format = gputypes.TextureFormatRGBA8Unorm
				return l
			},
			want:   ErrLink,
			reason: "non-depth",
		},
		{
			name:     "geometry input topology mismatch",
			set:      Geometry(shader.Vertex(), shader.WireframeGeometry(), shader.FlatFragment()),
			topology: gputypes.PrimitiveTopologyLineList,
			layout:   wireLayout,
			want:     ErrLink,
			reason:   "consumes",
		},
		{
			name:   "stage in wrong slot",
			set:    Simple(shader.FlatFragment(), shader.Vertex()),
			layout: flatLayout,
			want:   ErrLink,
			reason: "slot",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topology := tt.topology
			if topology == 0 {
				topology = gputypes.PrimitiveTopologyTriangleList
			}
			f := &mockFactory{}
			_, err := CreatePipelineState(f, tt.set, topology, NewFill(gputypes.CullModeBack), tt.layout())
			if err == nil {
				t.Fatal("CreatePipelineState succeeded, want error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error %v does not match %v", err, tt.want)
			}
			if tt.reason != "" && !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("error %q does not mention %q", err, tt.reason)
			}
			if f.count() != 0 {
				t.Errorf("factory called %d times on invalid input", f.count())
			}
		})
	}
}

func TestGeometryLayoutValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*gpu.GeometryLayout)
		reason string
	}{
		{"too many vertices", func(g *gpu.GeometryLayout) { g.MaxVertices = 3 }, "max"},
		{"corner out of range", func(g *gpu.GeometryLayout) { g.Emit[3] = 3 }, "corner"},
		{"list output", func(g *gpu.GeometryLayout) { g.Output = gputypes.PrimitiveTopologyLineList }, "strip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := shader.WireframeGeometry()
			tt.mutate(gs.Geometry)
			_, err := Build(Geometry(shader.Vertex(), gs, shader.FlatFragment()),
				gputypes.PrimitiveTopologyTriangleList, NewFill(gputypes.CullModeNone), wireLayout())
			if !errors.Is(err, ErrLink) || !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("Build error = %v, want link error mentioning %q", err, tt.reason)
			}
		})
	}

	gs := shader.WireframeGeometry()
	gs.Geometry = nil
	if _, err := Build(Geometry(shader.Vertex(), gs, shader.FlatFragment()),
		gputypes.PrimitiveTopologyTriangleList, NewFill(gputypes.CullModeNone), wireLayout()); !errors.Is(err, ErrLink) {
		t.Errorf("geometry stage without layout: err = %v", err)
	}
}

func TestFactoryErrorIsWrapped(t *testing.T) {
	cause := errors.New("device lost")
	f := &mockFactory{err: cause}
	_, err := CreateSimple(f, shader.Vertex(), shader.FlatFragment(), gputypes.CullModeBack, flatLayout())
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want wrapped %v", err, cause)
	}
	if !strings.Contains(err.Error(), `create "flat"`) {
		t.Errorf("err = %q, want label in message", err)
	}
}

func TestNilFactory(t *testing.T) {
	if _, err := CreateSimple(nil, shader.Vertex(), shader.FlatFragment(), gputypes.CullModeBack, flatLayout()); !errors.Is(err, ErrNilFactory) {
		t.Errorf("err = %v, want ErrNilFactory", err)
	}
}

func buildFlat(t *testing.T, label string, cull gputypes.CullMode) *gpu.PipelineDescriptor {
	t.Helper()
	l := flatLayout()
	l.Label = label
	desc, err := Build(Simple(shader.Vertex(), shader.FlatFragment()), gputypes.PrimitiveTopologyTriangleList, NewFill(cull), l)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return desc
}

func TestHash(t *testing.T) {
	a := buildFlat(t, "a", gputypes.CullModeBack)
	b := buildFlat(t, "b", gputypes.CullModeBack)
	c := buildFlat(t, "c", gputypes.CullModeNone)

	if Hash(a) != Hash(b) {
		t.Error("descriptors differing only in label hash differently")
	}
	if Hash(a) == Hash(c) {
		t.Error("descriptors differing in cull mode hash the same")
	}
	d := buildFlat(t, "d", gputypes.CullModeBack)
	d.Depth = nil
	if Hash(a) == Hash(d) {
		t.Error("depth target does not affect the hash")
	}
}

func TestCache(t *testing.T) {
	f := &mockFactory{}
	c := NewCache(f)

	p1, err := c.CreatePipeline(buildFlat(t, "one", gputypes.CullModeBack))
	if err != nil {
		t.Fatalf("CreatePipeline: %v", err)
	}
	p2, err := c.CreatePipeline(buildFlat(t, "two", gputypes.CullModeBack))
	if err != nil {
		t.Fatalf("CreatePipeline: %v", err)
	}
	if p1 != p2 {
		t.Error("equal descriptors produced different pipelines")
	}
	if _, err := c.CreatePipeline(buildFlat(t, "three", gputypes.CullModeNone)); err != nil {
		t.Fatalf("CreatePipeline: %v", err)
	}

	if f.count() != 2 {
		t.Errorf("factory called %d times, want 2", f.count())
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("Stats = %d hits, %d misses, want 1, 2", hits, misses)
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d, want 2", c.Size())
	}
	if r := c.HitRate(); r < 0.33 || r > 0.34 {
		t.Errorf("HitRate = %v, want 1/3", r)
	}

	c.Clear()
	if c.Size() != 0 || c.HitRate() != 0 {
		t.Error("Clear left state behind")
	}
	if _, err := c.CreatePipeline(nil); !errors.Is(err, ErrNilDescriptor) {
		t.Errorf("nil descriptor: err = %v", err)
	}
}

func TestCacheFactoryError(t *testing.T) {
	cause := errors.New("out of memory")
	c := NewCache(&mockFactory{err: cause})
	if _, err := c.CreatePipeline(buildFlat(t, "x", gputypes.CullModeBack)); !errors.Is(err, cause) {
		t.Errorf("err = %v, want %v", err, cause)
	}
	if c.Size() != 0 {
		t.Error("failed pipeline was cached")
	}
}

func TestCacheConcurrent(t *testing.T) {
	f := &mockFactory{}
	c := NewCache(f)
	desc := buildFlat(t, "shared", gputypes.CullModeBack)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.CreatePipeline(desc); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if f.count() != 1 {
		t.Errorf("factory called %d times, want 1", f.count())
	}
	if hits, misses := c.Stats(); hits+misses != 16 {
		t.Errorf("hits+misses = %d, want 16", hits+misses)
	}
}

func TestLinkError(t *testing.T) {
	err := linkErrorf("flat", "missing %s", "thing")
	if err.Error() != `pipeline: link "flat": missing thing` {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrLink) {
		t.Error("LinkError does not match ErrLink")
	}
}
