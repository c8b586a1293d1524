// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package forward

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

var (
	// ErrSceneNotFound is matched by every *SceneNotFoundError.
	ErrSceneNotFound = errors.New("forward: scene not found")

	// ErrMissingAttachment is matched by every *MissingAttachmentError.
	ErrMissingAttachment = errors.New("forward: missing attachment")

	// ErrIncompatibleTarget is matched by every *IncompatibleTargetError.
	ErrIncompatibleTarget = errors.New("forward: incompatible target")

	// ErrNilTarget is returned when Apply is given no target.
	ErrNilTarget = errors.New("forward: target is nil")

	// ErrNilEncoder is returned when Apply is given no command encoder.
	ErrNilEncoder = errors.New("forward: encoder is nil")

	// ErrNilBuffer is returned for a fragment without a vertex buffer.
	ErrNilBuffer = errors.New("forward: fragment has no vertex buffer")
)

// SceneNotFoundError is returned when a technique is asked to draw a scene
// that is not registered.
type SceneNotFoundError struct {
	Name string
}

func (e *SceneNotFoundError) Error() string {
	return fmt.Sprintf("forward: scene %q not found", e.Name)
}

// Is reports whether target is ErrSceneNotFound.
func (e *SceneNotFoundError) Is(target error) bool {
	return target == ErrSceneNotFound
}

// Attachment names a render target attachment.
type Attachment string

const (
	AttachmentColor Attachment = "color"
	AttachmentDepth Attachment = "depth"
)

// MissingAttachmentError is returned when a technique needs an attachment
// the target does not have.
type MissingAttachmentError struct {
	Technique  string
	Attachment Attachment
}

func (e *MissingAttachmentError) Error() string {
	return fmt.Sprintf("forward: %s: target has no %s attachment", e.Technique, e.Attachment)
}

// Is reports whether target is ErrMissingAttachment.
func (e *MissingAttachmentError) Is(target error) bool {
	return target == ErrMissingAttachment
}

// IncompatibleTargetError is returned when an attachment's format differs
// from the format the technique's pipeline was built for.
type IncompatibleTargetError struct {
	Technique  string
	Attachment Attachment
	Want       gputypes.TextureFormat
	Got        gputypes.TextureFormat
}

func (e *IncompatibleTargetError) Error() string {
	return fmt.Sprintf("forward: %s: %s attachment format %v, pipeline expects %v",
		e.Technique, e.Attachment, e.Got, e.Want)
}

// Is reports whether target is ErrIncompatibleTarget.
func (e *IncompatibleTargetError) Is(target error) bool {
	return target == ErrIncompatibleTarget
}
