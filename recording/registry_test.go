// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/forward/gpu"
)

// mockBackend records the calls playback makes.
type mockBackend struct {
	name       string
	beginCalls int
	endCalls   int
	calls      []string
	batches    []*Batch
	beginErr   error
}

func newMockBackend(name string) *mockBackend {
	return &mockBackend{name: name}
}

func (b *mockBackend) Begin() error {
	b.beginCalls++
	return b.beginErr
}

func (b *mockBackend) End() error {
	b.endCalls++
	return nil
}

func (b *mockBackend) ClearColor(_ gpu.ColorView, _ [4]float32) {
	b.calls = append(b.calls, "ClearColor")
}

func (b *mockBackend) ClearDepth(_ gpu.DepthView, _ float32) {
	b.calls = append(b.calls, "ClearDepth")
}

func (b *mockBackend) DrawBatch(batch *Batch) {
	b.calls = append(b.calls, "DrawBatch")
	b.batches = append(b.batches, batch)
}

// resetRegistry clears all registered backends for test isolation.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends = make(map[string]BackendFactory)
}

func TestRegisterAndNewBackend(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	Register("test", func() Backend {
		return newMockBackend("test")
	})

	backend, err := NewBackend("test")
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	mock, ok := backend.(*mockBackend)
	if !ok {
		t.Fatal("backend is not a mockBackend")
	}
	if mock.name != "test" {
		t.Errorf("got name %q, want %q", mock.name, "test")
	}
	if !IsRegistered("test") || Count() != 1 {
		t.Errorf("IsRegistered = %v, Count = %d", IsRegistered("test"), Count())
	}
}

func TestNewBackendUnknown(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	if _, err := NewBackend("nonexistent"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestMustBackendPanics(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	defer func() {
		if recover() == nil {
			t.Error("MustBackend did not panic for unknown backend")
		}
	}()
	MustBackend("nonexistent")
}

func TestRegisterPanics(t *testing.T) {
	tests := []struct {
		name string
		reg  func()
	}{
		{"nil factory", func() { Register("nil", nil) }},
		{"duplicate", func() {
			Register("dup", func() Backend { return newMockBackend("a") })
			Register("dup", func() Backend { return newMockBackend("b") })
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetRegistry()
			defer resetRegistry()
			defer func() {
				if recover() == nil {
					t.Error("Register did not panic")
				}
			}()
			tt.reg()
		})
	}
}

func TestBackendsSortedAndUnregister(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		n := name
		Register(n, func() Backend { return newMockBackend(n) })
	}
	got := Backends()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Backends() = %v, want %v", got, want)
		}
	}

	Unregister("mid")
	Unregister("never-registered")
	if IsRegistered("mid") || Count() != 2 {
		t.Errorf("after Unregister: %v", Backends())
	}
}

func TestPlayback(t *testing.T) {
	pso := flatPipeline(t, NewFactory())
	color := NewView("color", gputypes.TextureFormatRGBA8Unorm, 4, 4)
	depth := NewView("depth", gputypes.TextureFormatDepth24PlusStencil8, 4, 4)
	buf := NewBuffer("tri", triangle())

	rec := NewRecorder()
	rec.ClearColor(color, [4]float32{})
	rec.ClearDepth(depth, 1)
	rec.Draw(gpu.SliceFor(3), pso, identityBindings(buf, [4]float32{1, 0, 0, 1}, color, depth))

	b := newMockBackend("mock")
	if err := rec.Finish().Playback(b); err != nil {
		t.Fatalf("Playback: %v", err)
	}
	want := []string{"ClearColor", "ClearDepth", "DrawBatch"}
	if len(b.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", b.calls, want)
	}
	for i := range want {
		if b.calls[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, b.calls[i], want[i])
		}
	}
	if b.beginCalls != 1 || b.endCalls != 1 {
		t.Errorf("Begin/End = %d/%d, want 1/1", b.beginCalls, b.endCalls)
	}
	if len(b.batches[0].Triangles) != 1 {
		t.Errorf("batch has %d triangles", len(b.batches[0].Triangles))
	}
}

func TestPlaybackErrors(t *testing.T) {
	cause := errors.New("no device")
	b := newMockBackend("mock")
	b.beginErr = cause
	if err := NewRecorder().Finish().Playback(b); !errors.Is(err, cause) {
		t.Errorf("Begin error not returned: %v", err)
	}

	rec := NewRecorder()
	rec.Draw(gpu.SliceFor(3), nil, &gpu.Bindings{})
	b = newMockBackend("mock")
	if err := rec.Finish().Playback(b); !errors.Is(err, ErrNoPipeline) {
		t.Errorf("Playback error = %v, want ErrNoPipeline", err)
	}
	if b.endCalls != 0 {
		t.Error("End called after a failed draw")
	}
}
