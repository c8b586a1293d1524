// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/forward/geom"
)

// Uniform names shared by the forward shader programs.
const (
	UniformProj  = "u_Proj"
	UniformView  = "u_View"
	UniformModel = "u_Model"
	UniformKa    = "u_Ka"
)

// OutputKa is the name of the color output slot of the flat programs.
const OutputKa = "o_Ka"

// UniformKind is the type of a uniform value.
type UniformKind uint8

const (
	UniformVec4 UniformKind = iota
	UniformMat4
)

var uniformKindNames = [...]string{
	UniformVec4: "vec4<f32>",
	UniformMat4: "mat4x4<f32>",
}

// String returns the WGSL spelling of the kind.
func (k UniformKind) String() string {
	if int(k) < len(uniformKindNames) {
		return uniformKindNames[k]
	}
	return fmt.Sprintf("UniformKind(%d)", k)
}

// Size returns the size of the kind in a uniform buffer.
func (k UniformKind) Size() uint64 {
	if k == UniformMat4 {
		return 64
	}
	return 16
}

// Components returns the number of float32 values the kind carries.
func (k UniformKind) Components() int {
	if k == UniformMat4 {
		return 16
	}
	return 4
}

// UniformSlot declares one member of a pipeline's uniform block.
type UniformSlot struct {
	Name string
	Kind UniformKind
}

// Uniform is a named uniform value supplied at draw time. Only the first
// Kind.Components() elements of Value are meaningful.
type Uniform struct {
	Name  string
	Kind  UniformKind
	Value [16]float32
}

// Vec4 returns a vec4 uniform.
func Vec4(name string, v [4]float32) Uniform {
	u := Uniform{Name: name, Kind: UniformVec4}
	copy(u.Value[:], v[:])
	return u
}

// Mat4 returns a mat4x4 uniform holding m in column-major order.
func Mat4(name string, m geom.Mat4) Uniform {
	return Uniform{Name: name, Kind: UniformMat4, Value: m}
}

// Vec4Value returns the value of a vec4 uniform.
func (u Uniform) Vec4Value() [4]float32 {
	return [4]float32{u.Value[0], u.Value[1], u.Value[2], u.Value[3]}
}

// Mat4Value returns the value of a mat4x4 uniform.
func (u Uniform) Mat4Value() geom.Mat4 {
	return geom.Mat4(u.Value)
}

// Bindings is everything a single draw call binds besides its pipeline.
// Vertex buffers and views are borrowed for the duration of the command.
type Bindings struct {
	Vertex   Buffer
	Uniforms []Uniform
	Color    []ColorView
	// Depth is nil when the pipeline has no depth target.
	Depth DepthView
}

// Uniform returns the uniform named name.
func (b *Bindings) Uniform(name string) (Uniform, bool) {
	for _, u := range b.Uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// Clone returns a copy of b that does not share slices with it.
func (b *Bindings) Clone() *Bindings {
	if b == nil {
		return nil
	}
	c := *b
	c.Uniforms = append([]Uniform(nil), b.Uniforms...)
	c.Color = append([]ColorView(nil), b.Color...)
	return &c
}
