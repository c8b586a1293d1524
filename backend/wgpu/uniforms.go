// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/forward/gpu"
)

// UniformBlockSize returns the std140-compatible size of a uniform block
// holding slots in order. vec4 and mat4x4 members are both 16-byte
// aligned, so the block is the plain sum of member sizes.
func UniformBlockSize(slots []gpu.UniformSlot) uint64 {
	var size uint64
	for _, s := range slots {
		size += s.Kind.Size()
	}
	return size
}

// PackUniforms lays out values in the order of slots.
func PackUniforms(slots []gpu.UniformSlot, values []gpu.Uniform) ([]byte, error) {
	buf := make([]byte, UniformBlockSize(slots))
	var off int
	for _, s := range slots {
		u, ok := findUniform(values, s.Name)
		if !ok {
			return nil, fmt.Errorf("wgpu: missing uniform %q", s.Name)
		}
		if u.Kind != s.Kind {
			return nil, fmt.Errorf("wgpu: uniform %q is %s, pipeline expects %s", s.Name, u.Kind, s.Kind)
		}
		for i := 0; i < s.Kind.Components(); i++ {
			binary.LittleEndian.PutUint32(buf[off+i*4:], math.Float32bits(u.Value[i]))
		}
		off += int(s.Kind.Size())
	}
	return buf, nil
}

func findUniform(values []gpu.Uniform, name string) (gpu.Uniform, bool) {
	for _, u := range values {
		if u.Name == name {
			return u, true
		}
	}
	return gpu.Uniform{}, false
}
