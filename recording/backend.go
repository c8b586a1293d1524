// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"image"

	"github.com/gogpu/forward/gpu"
)

// Backend executes played back commands.
//
// Backends are created via the registry using NewBackend(name) and
// registered with Register() in their init() functions.
//
// # Implementation Contract
//
// Each backend must:
//  1. Register in init() using recording.Register()
//  2. Allocate storage for a view the first time it sees it
//  3. Apply clears and batches in the order received
type Backend interface {
	// Begin prepares the backend for a playback.
	Begin() error

	// End finishes a playback.
	End() error

	// ClearColor sets every pixel of view to c.
	ClearColor(view gpu.ColorView, c [4]float32)

	// ClearDepth sets every depth value of view to v.
	ClearDepth(view gpu.DepthView, v float32)

	// DrawBatch rasterizes an assembled draw.
	DrawBatch(b *Batch)
}

// ImageBackend extends Backend with access to rendered color views.
type ImageBackend interface {
	Backend

	// Image returns the contents of view, or nil if nothing was rendered
	// to it.
	Image(view gpu.ColorView) *image.RGBA
}
