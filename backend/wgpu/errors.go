// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import "errors"

var (
	// ErrNilDevice is returned when a factory is created without a device
	// or queue.
	ErrNilDevice = errors.New("wgpu: nil device or queue")

	// ErrNoHAL is returned when a device provider does not expose hal types.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL types")

	// ErrForeignResource is returned when a draw references a buffer, view
	// or pipeline that was not created by this package.
	ErrForeignResource = errors.New("wgpu: resource not created by this backend")

	// ErrPolygonMode is returned for line fill mode on pipelines without a
	// geometry stage; WebGPU has no polygon mode.
	ErrPolygonMode = errors.New("wgpu: line fill mode requires a geometry stage")

	// ErrUnalignedSlice is returned when a geometry draw does not start on a
	// primitive boundary.
	ErrUnalignedSlice = errors.New("wgpu: geometry slice must start on a primitive boundary")

	// ErrIndexedGeometry is returned for indexed draws with a geometry
	// program, which pulls vertices by position in the vertex buffer.
	ErrIndexedGeometry = errors.New("wgpu: geometry programs do not support indexed draws")

	// ErrIndexRange is returned when an indexed slice exceeds its index
	// buffer.
	ErrIndexRange = errors.New("wgpu: slice exceeds index buffer")

	// ErrGeometryLayout is returned for a geometry stage without a usable
	// primitive layout.
	ErrGeometryLayout = errors.New("wgpu: geometry stage has no list-lowerable layout")

	// ErrFinished is returned when an encoder is used after Finish.
	ErrFinished = errors.New("wgpu: encoder already finished")

	// ErrGPUTimeout is returned when a submission does not complete in time.
	ErrGPUTimeout = errors.New("wgpu: timed out waiting for GPU")
)
