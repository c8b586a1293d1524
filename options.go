// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package forward

import "github.com/gogpu/gputypes"

// Default attachment formats of technique pipelines.
const (
	DefaultColorFormat = gputypes.TextureFormatRGBA8Unorm
	DefaultDepthFormat = gputypes.TextureFormatDepth24PlusStencil8
)

// Option configures a technique during construction.
//
// Example:
//
//	flat, err := forward.NewFlatShading(factory,
//	    forward.WithColorFormat(gputypes.TextureFormatBGRA8Unorm),
//	    forward.WithLabel("scene_flat"))
type Option func(*options)

type options struct {
	colorFormat gputypes.TextureFormat
	depthFormat gputypes.TextureFormat
	label       string
}

func newOptions(label string, opts []Option) options {
	o := options{
		colorFormat: DefaultColorFormat,
		depthFormat: DefaultDepthFormat,
		label:       label,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithColorFormat sets the color attachment format the pipeline is built
// for. Targets drawn with the technique must use the same format.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.colorFormat = f
	}
}

// WithDepthFormat sets the depth attachment format the pipeline is built
// for. Techniques without a depth target ignore it.
func WithDepthFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.depthFormat = f
	}
}

// WithLabel sets the debug label of the technique's pipeline.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}
