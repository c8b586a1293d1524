// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package forward

import "github.com/gogpu/forward/gpu"

// FarDepth is the depth value Clear writes: the far plane of the [0, 1]
// depth range.
const FarDepth float32 = 1.0

// ClearArgs are the arguments of Clear and ClearColor.
type ClearArgs struct {
	Color [4]float32
}

// Clear clears the target's color attachment to the given color, then its
// depth attachment to FarDepth. Both attachments are required.
//
// Clear holds no state and ignores scenes.
type Clear struct{}

// Apply implements Method[ClearArgs].
func (Clear) Apply(arg ClearArgs, target *Target, _ Scenes, enc gpu.Encoder) error {
	if err := checkCall(target, enc); err != nil {
		return err
	}
	if target.Color == nil {
		return &MissingAttachmentError{Technique: "clear", Attachment: AttachmentColor}
	}
	if target.Depth == nil {
		return &MissingAttachmentError{Technique: "clear", Attachment: AttachmentDepth}
	}
	enc.ClearColor(target.Color, arg.Color)
	enc.ClearDepth(target.Depth, FarDepth)
	return nil
}

// ClearColor clears only the target's color attachment. Use it for
// targets without depth, such as those only drawn with Wireframe.
type ClearColor struct{}

// Apply implements Method[ClearArgs].
func (ClearColor) Apply(arg ClearArgs, target *Target, _ Scenes, enc gpu.Encoder) error {
	if err := checkCall(target, enc); err != nil {
		return err
	}
	if target.Color == nil {
		return &MissingAttachmentError{Technique: "clear color", Attachment: AttachmentColor}
	}
	enc.ClearColor(target.Color, arg.Color)
	return nil
}

var (
	_ Method[ClearArgs] = Clear{}
	_ Method[ClearArgs] = ClearColor{}
)
