// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package forward

import (
	"github.com/gogpu/forward/geom"
	"github.com/gogpu/forward/gpu"
)

// Fragment is one drawable unit of a scene.
//
// Buffer must hold gpu.VertexPosNormal data. It is owned by whoever
// uploaded it and only borrowed by draw commands.
type Fragment struct {
	Buffer    gpu.Buffer
	Slice     gpu.Slice
	Ka        [4]float32
	Transform geom.Mat4
}

// Scene is a collection of fragments. Every fragment is drawn, in storage
// order.
type Scene struct {
	Fragments []Fragment
}

// Add appends fragments to the scene.
func (s *Scene) Add(f ...Fragment) {
	s.Fragments = append(s.Fragments, f...)
}

// Len returns the number of fragments.
func (s *Scene) Len() int {
	return len(s.Fragments)
}

// Scenes maps scene names to scenes. Techniques only read it.
type Scenes map[string]*Scene

// Lookup returns the scene registered under name.
func (s Scenes) Lookup(name string) (*Scene, error) {
	scene, ok := s[name]
	if !ok || scene == nil {
		return nil, &SceneNotFoundError{Name: name}
	}
	return scene, nil
}
