// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

// minClipW is the smallest w a clipped vertex may keep.
const minClipW = 1e-5

// clipPlanes are the half-spaces of the view volume in clip space. A vertex
// is inside a plane when the plane function is non-negative. The depth
// planes bound z to [0, w].
var clipPlanes = [...]func(v [4]float32) float32{
	func(v [4]float32) float32 { return v[3] - minClipW },
	func(v [4]float32) float32 { return v[2] },
	func(v [4]float32) float32 { return v[3] - v[2] },
	func(v [4]float32) float32 { return v[3] + v[0] },
	func(v [4]float32) float32 { return v[3] - v[0] },
	func(v [4]float32) float32 { return v[3] + v[1] },
	func(v [4]float32) float32 { return v[3] - v[1] },
}

func lerp4(a, b [4]float32, t float32) [4]float32 {
	return [4]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
		a[3] + (b[3]-a[3])*t,
	}
}

func insideAll(v [4]float32) bool {
	for _, p := range clipPlanes {
		if p(v) < 0 {
			return false
		}
	}
	return true
}

// clipSegment clips a clip-space segment to the view volume. It reports
// false when nothing of the segment is visible.
func clipSegment(a, b [4]float32) ([4]float32, [4]float32, bool) {
	t0, t1 := float32(0), float32(1)
	for _, p := range clipPlanes {
		da, db := p(a), p(b)
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da < 0:
			if t := da / (da - db); t > t0 {
				t0 = t
			}
		case db < 0:
			if t := da / (da - db); t < t1 {
				t1 = t
			}
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return lerp4(a, b, t0), lerp4(a, b, t1), true
}

// clipPolygon clips a convex clip-space polygon to the view volume one
// plane at a time. The result keeps the winding of the input and is empty
// when the polygon is not visible.
func clipPolygon(in [][4]float32) [][4]float32 {
	visible := true
	for _, v := range in {
		if !insideAll(v) {
			visible = false
			break
		}
	}
	if visible {
		return in
	}

	out := in
	for _, p := range clipPlanes {
		if len(out) == 0 {
			return nil
		}
		src := out
		out = make([][4]float32, 0, len(src)+1)
		for i, cur := range src {
			prev := src[(i+len(src)-1)%len(src)]
			dc, dp := p(cur), p(prev)
			switch {
			case dc >= 0:
				if dp < 0 {
					out = append(out, lerp4(prev, cur, dp/(dp-dc)))
				}
				out = append(out, cur)
			case dp >= 0:
				out = append(out, lerp4(prev, cur, dp/(dp-dc)))
			}
		}
	}
	return out
}
