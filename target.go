// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package forward

import "github.com/gogpu/forward/gpu"

// Target is the attachment set techniques draw into. Several techniques
// may draw into the same target in one frame.
type Target struct {
	Color gpu.ColorView
	// Depth is optional; techniques that need it report
	// a *MissingAttachmentError when it is nil.
	Depth gpu.DepthView
}

// HasDepth reports whether the target has a depth attachment.
func (t *Target) HasDepth() bool {
	return t.Depth != nil
}
