// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package forward

import "github.com/gogpu/forward/geom"

// Camera is a view/projection pair. It is a value: techniques copy it into
// each draw's uniforms.
type Camera struct {
	View       geom.Mat4
	Projection geom.Mat4
}

// LookAtCamera returns a perspective camera at eye looking at center.
// fovy is the vertical field of view in radians.
func LookAtCamera(eye, center, up geom.Vec3, fovy, aspect, near, far float32) Camera {
	return Camera{
		View:       geom.LookAt(eye, center, up),
		Projection: geom.Perspective(fovy, aspect, near, far),
	}
}

// ViewProjection returns Projection * View.
func (c Camera) ViewProjection() geom.Mat4 {
	return c.Projection.Mul(c.View)
}
