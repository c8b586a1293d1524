// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/forward"
	"github.com/gogpu/forward/gpu"
)

// DefaultTimeout bounds how long Submit waits for the GPU.
const DefaultTimeout = 5 * time.Second

// Factory creates hal resources for forward techniques on one device.
// It implements gpu.Factory and is safe for concurrent use.
type Factory struct {
	device  hal.Device
	queue   hal.Queue
	timeout time.Duration

	pipelines atomic.Uint64
}

var _ gpu.Factory = (*Factory)(nil)

// Option configures a Factory.
type Option func(*Factory)

// WithTimeout sets how long Submit waits for the GPU to finish.
func WithTimeout(d time.Duration) Option {
	return func(f *Factory) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewFactory creates a factory on an existing device and queue.
func NewFactory(device hal.Device, queue hal.Queue, opts ...Option) (*Factory, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	f := &Factory{device: device, queue: queue, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// NewFactoryFromProvider creates a factory sharing the device of a host
// application. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func NewFactoryFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Factory, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	forward.Logger().Info("wgpu: using shared device")
	return NewFactory(device, queue, opts...)
}

// Device returns the hal device.
func (f *Factory) Device() hal.Device { return f.device }

// Queue returns the hal queue.
func (f *Factory) Queue() hal.Queue { return f.queue }

// Pipelines returns the number of pipelines created by f.
func (f *Factory) Pipelines() uint64 { return f.pipelines.Load() }
