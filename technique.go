// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package forward

import (
	"fmt"

	"github.com/gogpu/forward/gpu"
)

// SceneArgs names the scene a technique draws and the camera it draws it
// with.
type SceneArgs struct {
	Scene  string
	Camera Camera
}

// FlatShadingArgs are the arguments of FlatShading.
type FlatShadingArgs = SceneArgs

// WireframeArgs are the arguments of Wireframe.
type WireframeArgs = SceneArgs

// forwardUniforms is the uniform block every scene technique binds.
func forwardUniforms() []gpu.UniformSlot {
	return []gpu.UniformSlot{
		{Name: gpu.UniformProj, Kind: gpu.UniformMat4},
		{Name: gpu.UniformView, Kind: gpu.UniformMat4},
		{Name: gpu.UniformModel, Kind: gpu.UniformMat4},
		{Name: gpu.UniformKa, Kind: gpu.UniformVec4},
	}
}

// sceneDrawer issues one draw per fragment of a scene against a fixed
// pipeline. It is shared by the techniques that draw scene geometry.
type sceneDrawer struct {
	technique string
	pso       gpu.Pipeline
}

func (d *sceneDrawer) apply(arg SceneArgs, target *Target, scenes Scenes, enc gpu.Encoder) error {
	if err := checkCall(target, enc); err != nil {
		return err
	}
	if err := d.checkTarget(target); err != nil {
		return err
	}
	scene, err := scenes.Lookup(arg.Scene)
	if err != nil {
		return fmt.Errorf("forward: %s: %w", d.technique, err)
	}
	for i := range scene.Fragments {
		if scene.Fragments[i].Buffer == nil {
			return fmt.Errorf("forward: %s: scene %q fragment %d: %w", d.technique, arg.Scene, i, ErrNilBuffer)
		}
	}

	for i := range scene.Fragments {
		frag := &scene.Fragments[i]
		enc.Draw(frag.Slice, d.pso, d.bindings(frag, arg.Camera, target))
	}
	Logger().Debug("scene drawn",
		"technique", d.technique,
		"scene", arg.Scene,
		"draws", len(scene.Fragments))
	return nil
}

// checkTarget verifies the target supplies every attachment the pipeline
// writes, in the format it was built for.
func (d *sceneDrawer) checkTarget(target *Target) error {
	desc := d.pso.Descriptor()
	if target.Color == nil {
		return &MissingAttachmentError{Technique: d.technique, Attachment: AttachmentColor}
	}
	if want := desc.Color[0].Format; target.Color.Format() != want {
		return &IncompatibleTargetError{
			Technique:  d.technique,
			Attachment: AttachmentColor,
			Want:       want,
			Got:        target.Color.Format(),
		}
	}
	if desc.Depth == nil {
		return nil
	}
	if target.Depth == nil {
		return &MissingAttachmentError{Technique: d.technique, Attachment: AttachmentDepth}
	}
	if want := desc.Depth.Format; target.Depth.Format() != want {
		return &IncompatibleTargetError{
			Technique:  d.technique,
			Attachment: AttachmentDepth,
			Want:       want,
			Got:        target.Depth.Format(),
		}
	}
	return nil
}

func (d *sceneDrawer) bindings(frag *Fragment, cam Camera, target *Target) *gpu.Bindings {
	b := &gpu.Bindings{
		Vertex: frag.Buffer,
		Uniforms: []gpu.Uniform{
			gpu.Mat4(gpu.UniformProj, cam.Projection),
			gpu.Mat4(gpu.UniformView, cam.View),
			gpu.Mat4(gpu.UniformModel, frag.Transform),
			gpu.Vec4(gpu.UniformKa, frag.Ka),
		},
		Color: []gpu.ColorView{target.Color},
	}
	if d.pso.Descriptor().Depth != nil {
		b.Depth = target.Depth
	}
	return b
}
