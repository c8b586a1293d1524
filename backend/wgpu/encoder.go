// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/forward"
	"github.com/gogpu/forward/gpu"
)

// pendingClear is a clear waiting to become the load operation of a pass.
type pendingClear struct {
	view  *TextureView
	depth bool
}

// Encoder records forward commands into a hal command encoder.
// It implements gpu.Encoder and is not safe for concurrent use.
type Encoder struct {
	f     *Factory
	label string
	enc   hal.CommandEncoder

	pass       hal.RenderPassEncoder
	passColors []*TextureView
	passDepth  *TextureView

	colorClears map[*TextureView][4]float32
	depthClears map[*TextureView]float32
	clearOrder  []pendingClear

	// Per-frame resources, released after submission.
	uniforms   []hal.Buffer
	bindGroups []hal.BindGroup

	draws  int
	passes int
	err    error
	done   bool
}

var _ gpu.Encoder = (*Encoder)(nil)

// NewEncoder starts a new command encoder on the factory's device.
func (f *Factory) NewEncoder(label string) (*Encoder, error) {
	enc, err := f.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	return &Encoder{
		f:           f,
		label:       label,
		enc:         enc,
		colorClears: make(map[*TextureView][4]float32),
		depthClears: make(map[*TextureView]float32),
	}, nil
}

// Err returns the first error recorded by the encoder.
func (e *Encoder) Err() error { return e.err }

// Draws returns the number of draws recorded.
func (e *Encoder) Draws() int { return e.draws }

// Passes returns the number of render passes begun.
func (e *Encoder) Passes() int { return e.passes }

func (e *Encoder) fail(err error) {
	if e.err == nil {
		e.err = err
		forward.Logger().Warn("wgpu: encoder error", "label", e.label, "err", err)
	}
}

func (e *Encoder) usable() bool {
	if e.done {
		e.fail(ErrFinished)
		return false
	}
	return e.err == nil
}

// ClearColor implements gpu.Encoder.
func (e *Encoder) ClearColor(view gpu.ColorView, c [4]float32) {
	if !e.usable() {
		return
	}
	tv, ok := view.(*TextureView)
	if !ok {
		e.fail(fmt.Errorf("%w: color view %T", ErrForeignResource, view))
		return
	}
	if e.passUses(tv) {
		e.endPass()
	}
	if _, pending := e.colorClears[tv]; !pending {
		e.clearOrder = append(e.clearOrder, pendingClear{view: tv})
	}
	e.colorClears[tv] = c
}

// ClearDepth implements gpu.Encoder.
func (e *Encoder) ClearDepth(view gpu.DepthView, v float32) {
	if !e.usable() {
		return
	}
	tv, ok := view.(*TextureView)
	if !ok {
		e.fail(fmt.Errorf("%w: depth view %T", ErrForeignResource, view))
		return
	}
	if e.passUses(tv) {
		e.endPass()
	}
	if _, pending := e.depthClears[tv]; !pending {
		e.clearOrder = append(e.clearOrder, pendingClear{view: tv, depth: true})
	}
	e.depthClears[tv] = v
}

// Draw implements gpu.Encoder.
func (e *Encoder) Draw(slice gpu.Slice, pso gpu.Pipeline, b *gpu.Bindings) {
	if !e.usable() {
		return
	}
	p, ok := pso.(*Pipeline)
	if !ok {
		e.fail(fmt.Errorf("%w: pipeline %T", ErrForeignResource, pso))
		return
	}
	if b == nil {
		e.fail(errors.New("wgpu: draw without bindings"))
		return
	}
	buf, ok := b.Vertex.(*Buffer)
	if !ok {
		e.fail(fmt.Errorf("%w: vertex buffer %T", ErrForeignResource, b.Vertex))
		return
	}
	colors := make([]*TextureView, len(b.Color))
	for i, v := range b.Color {
		tv, ok := v.(*TextureView)
		if !ok {
			e.fail(fmt.Errorf("%w: color view %T", ErrForeignResource, v))
			return
		}
		colors[i] = tv
	}
	var depth *TextureView
	if p.desc.HasDepth() {
		tv, ok := b.Depth.(*TextureView)
		if !ok {
			e.fail(fmt.Errorf("%w: depth view %T", ErrForeignResource, b.Depth))
			return
		}
		depth = tv
	}
	if slice.Count() == 0 {
		return
	}
	var ib *IndexBuffer
	if slice.Indexed() && !p.geometry() {
		ib, ok = slice.Index.(*IndexBuffer)
		if !ok {
			e.fail(fmt.Errorf("%w: index buffer %T", ErrForeignResource, slice.Index))
			return
		}
		if slice.End > ib.count {
			e.fail(fmt.Errorf("%w: end %d, %q holds %d indices", ErrIndexRange, slice.End, ib.label, ib.count))
			return
		}
	}
	var geomCount, geomFirst uint32
	if p.geometry() {
		var err error
		geomCount, geomFirst, err = p.geometryRange(slice)
		if err != nil {
			e.fail(err)
			return
		}
	}

	bg, err := e.bindGroup(p, buf, b.Uniforms)
	if err != nil {
		e.fail(fmt.Errorf("wgpu: draw %q: %w", p.desc.Label, err))
		return
	}

	e.beginPass(colors, depth)
	e.pass.SetPipeline(p.raw)
	e.pass.SetBindGroup(0, bg, nil)
	if p.geometry() {
		e.pass.Draw(geomCount, slice.InstanceCount(), geomFirst, 0)
	} else if ib != nil {
		e.pass.SetVertexBuffer(0, buf.raw, 0)
		e.pass.SetIndexBuffer(ib.raw, gputypes.IndexFormatUint32, 0)
		e.pass.DrawIndexed(slice.Count(), slice.InstanceCount(), slice.Start, slice.BaseVertex, 0)
	} else {
		e.pass.SetVertexBuffer(0, buf.raw, 0)
		e.pass.Draw(slice.Count(), slice.InstanceCount(), slice.Start, 0)
	}
	e.draws++
}

// bindGroup uploads the draw's uniforms and binds them, plus the vertex
// storage buffer for geometry programs.
func (e *Encoder) bindGroup(p *Pipeline, buf *Buffer, values []gpu.Uniform) (hal.BindGroup, error) {
	data, err := PackUniforms(p.desc.Uniforms, values)
	if err != nil {
		return nil, err
	}
	device := e.f.device
	ub, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.desc.Label + "_uniforms",
		Size:  p.uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}
	e.uniforms = append(e.uniforms, ub)
	e.f.queue.WriteBuffer(ub, 0, data)

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{
			Buffer: ub.NativeHandle(), Offset: 0, Size: p.uniformSize,
		}},
	}
	if p.geometry() {
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: buf.raw.NativeHandle(), Offset: 0, Size: buf.size,
			},
		})
	}
	bg, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   p.desc.Label + "_bind",
		Layout:  p.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	e.bindGroups = append(e.bindGroups, bg)
	return bg, nil
}

func (e *Encoder) passUses(tv *TextureView) bool {
	if e.pass == nil {
		return false
	}
	if e.passDepth == tv {
		return true
	}
	for _, c := range e.passColors {
		if c == tv {
			return true
		}
	}
	return false
}

func (e *Encoder) samePass(colors []*TextureView, depth *TextureView) bool {
	if e.pass == nil || e.passDepth != depth || len(e.passColors) != len(colors) {
		return false
	}
	for i := range colors {
		if e.passColors[i] != colors[i] {
			return false
		}
	}
	return true
}

// beginPass makes a pass rendering to colors and depth current, consuming
// pending clears of those views as load operations.
func (e *Encoder) beginPass(colors []*TextureView, depth *TextureView) {
	if e.samePass(colors, depth) {
		return
	}
	e.endPass()

	desc := &hal.RenderPassDescriptor{Label: e.label + "_pass"}
	for _, tv := range colors {
		att := hal.RenderPassColorAttachment{
			View:    tv.view,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}
		if c, ok := e.colorClears[tv]; ok {
			att.LoadOp = gputypes.LoadOpClear
			att.ClearValue = gputypes.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
			delete(e.colorClears, tv)
		}
		desc.ColorAttachments = append(desc.ColorAttachments, att)
	}
	if depth != nil {
		att := &hal.RenderPassDepthStencilAttachment{
			View:         depth.view,
			DepthLoadOp:  gputypes.LoadOpLoad,
			DepthStoreOp: gputypes.StoreOpStore,
		}
		if v, ok := e.depthClears[depth]; ok {
			att.DepthLoadOp = gputypes.LoadOpClear
			att.DepthClearValue = v
			delete(e.depthClears, depth)
		}
		if hasStencil(depth.format) {
			att.StencilLoadOp = gputypes.LoadOpClear
			att.StencilStoreOp = gputypes.StoreOpDiscard
		}
		desc.DepthStencilAttachment = att
	}

	e.pass = e.enc.BeginRenderPass(desc)
	e.passColors = colors
	e.passDepth = depth
	e.passes++
}

func (e *Encoder) endPass() {
	if e.pass == nil {
		return
	}
	e.pass.End()
	e.pass = nil
	e.passColors = nil
	e.passDepth = nil
}

// flushClears runs clears no draw consumed as empty passes.
func (e *Encoder) flushClears() {
	for _, pc := range e.clearOrder {
		if pc.depth {
			if _, ok := e.depthClears[pc.view]; ok {
				e.beginPass(nil, pc.view)
				e.endPass()
			}
			continue
		}
		if _, ok := e.colorClears[pc.view]; ok {
			e.beginPass([]*TextureView{pc.view}, nil)
			e.endPass()
		}
	}
	e.clearOrder = nil
}

// Finish ends encoding and returns the command buffer. If any command
// failed, encoding is discarded and the first error is returned.
func (e *Encoder) Finish() (hal.CommandBuffer, error) {
	if e.done {
		return nil, ErrFinished
	}
	e.done = true
	e.endPass()
	if e.err == nil {
		e.flushClears()
	}
	if e.err != nil {
		e.enc.DiscardEncoding()
		return nil, e.err
	}
	cb, err := e.enc.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	return cb, nil
}

// Submit finishes the encoder, submits the commands and waits for the GPU.
// Per-frame resources are released afterwards.
func (e *Encoder) Submit() error {
	defer e.Release()
	cb, err := e.Finish()
	if err != nil {
		return err
	}
	device := e.f.device
	defer device.FreeCommandBuffer(cb)

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := e.f.queue.Submit([]hal.CommandBuffer{cb}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	ok, err := device.Wait(fence, 1, e.f.timeout)
	if err != nil {
		return fmt.Errorf("wgpu: wait for GPU: %w", err)
	}
	if !ok {
		return ErrGPUTimeout
	}
	forward.Logger().Debug("wgpu: frame submitted",
		"label", e.label,
		"draws", e.draws,
		"passes", e.passes,
	)
	return nil
}

// Release destroys the per-frame uniform buffers and bind groups. Call it
// only once the GPU has finished with the submitted commands.
func (e *Encoder) Release() {
	device := e.f.device
	for _, bg := range e.bindGroups {
		device.DestroyBindGroup(bg)
	}
	for _, b := range e.uniforms {
		device.DestroyBuffer(b)
	}
	e.bindGroups = nil
	e.uniforms = nil
}
