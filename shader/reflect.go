// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/forward/gpu"
)

// Input is a vertex input of an entry point.
type Input struct {
	Name     string
	Location uint32
	Format   gputypes.VertexFormat
}

// Output is a fragment output of an entry point.
type Output struct {
	Name     string
	Location uint32
	Type     string
}

// StorageBinding is a storage buffer declared by a module.
type StorageBinding struct {
	Name    string
	Group   uint32
	Binding uint32
}

// Interface is what a stage exposes to the pipeline around it.
type Interface struct {
	// Uniforms lists the members of the module's uniform block in
	// declaration order. It is empty if the entry point reads no uniforms.
	Uniforms []gpu.UniformSlot
	Inputs   []Input
	Outputs  []Output
	Storage  []StorageBinding
}

// HasStorage reports whether the interface declares a storage binding at
// group 0 with the given binding index.
func (i Interface) HasStorage(binding uint32) bool {
	for _, s := range i.Storage {
		if s.Group == 0 && s.Binding == binding {
			return true
		}
	}
	return false
}

// Reflect extracts the interface of src's entry point from the module
// naga lowers src.Text to.
func Reflect(src Source) (Interface, error) {
	ast, err := naga.Parse(src.Text)
	if err != nil {
		return Interface{}, err
	}
	module, err := naga.LowerWithSource(ast, src.Text)
	if err != nil {
		return Interface{}, err
	}

	ep := findEntry(module, src.EntryPoint)
	if ep == nil {
		return Interface{}, fmt.Errorf("entry point %q not found", src.EntryPoint)
	}

	var iface Interface
	for _, g := range module.GlobalVariables {
		if g.Space == ir.SpaceStorage && g.Binding != nil {
			iface.Storage = append(iface.Storage, StorageBinding{
				Name:    g.Name,
				Group:   g.Binding.Group,
				Binding: g.Binding.Binding,
			})
		}
	}

	used := usedGlobals(module, &ep.Function)
	for h, g := range module.GlobalVariables {
		if g.Space != ir.SpaceUniform || !used[h] {
			continue
		}
		st, ok := module.Types[g.Type].Inner.(ir.StructType)
		if !ok {
			return Interface{}, fmt.Errorf("uniform %s is not a struct", g.Name)
		}
		for _, m := range st.Members {
			kind, err := uniformKind(module.Types[m.Type].Inner)
			if err != nil {
				return Interface{}, fmt.Errorf("uniform %s: %w", m.Name, err)
			}
			iface.Uniforms = append(iface.Uniforms, gpu.UniformSlot{Name: m.Name, Kind: kind})
		}
		break
	}

	switch src.Stage {
	case gpu.StageVertex, gpu.StageGeometry:
		for _, arg := range ep.Function.Arguments {
			for _, v := range locations(module, arg.Name, arg.Type, arg.Binding) {
				format, err := vertexFormat(module.Types[v.typ].Inner)
				if err != nil {
					return Interface{}, fmt.Errorf("input %s: %w", v.name, err)
				}
				iface.Inputs = append(iface.Inputs, Input{Name: v.name, Location: v.location, Format: format})
			}
		}
	case gpu.StageFragment:
		if res := ep.Function.Result; res != nil {
			for _, v := range locations(module, "", res.Type, res.Binding) {
				iface.Outputs = append(iface.Outputs, Output{
					Name:     v.name,
					Location: v.location,
					Type:     typeName(module, v.typ),
				})
			}
		}
	}
	return iface, nil
}

func findEntry(module *ir.Module, name string) *ir.EntryPoint {
	for i := range module.EntryPoints {
		if module.EntryPoints[i].Name == name {
			return &module.EntryPoints[i]
		}
	}
	return nil
}

type located struct {
	name     string
	location uint32
	typ      ir.TypeHandle
}

// locations returns the @location values carried by an argument or result,
// either bound directly or through the members of a struct.
func locations(module *ir.Module, name string, typ ir.TypeHandle, binding *ir.Binding) []located {
	if binding != nil {
		if loc, ok := (*binding).(ir.LocationBinding); ok {
			return []located{{name: name, location: loc.Location, typ: typ}}
		}
		return nil
	}
	st, ok := module.Types[typ].Inner.(ir.StructType)
	if !ok {
		return nil
	}
	var out []located
	for _, m := range st.Members {
		if m.Binding == nil {
			continue
		}
		if loc, ok := (*m.Binding).(ir.LocationBinding); ok {
			out = append(out, located{name: m.Name, location: loc.Location, typ: m.Type})
		}
	}
	return out
}

// usedGlobals marks the globals f reads, directly or through the functions
// it calls.
func usedGlobals(module *ir.Module, f *ir.Function) []bool {
	used := make([]bool, len(module.GlobalVariables))
	called := make([]bool, len(module.Functions))

	var trace func(f *ir.Function)
	var walk func(stmts []ir.Statement)
	trace = func(f *ir.Function) {
		for _, e := range f.Expressions {
			if gv, ok := e.Kind.(ir.ExprGlobalVariable); ok && int(gv.Variable) < len(used) {
				used[gv.Variable] = true
			}
		}
		walk(f.Body)
	}
	walk = func(stmts []ir.Statement) {
		for _, stmt := range stmts {
			switch s := stmt.Kind.(type) {
			case ir.StmtCall:
				if int(s.Function) < len(called) && !called[s.Function] {
					called[s.Function] = true
					trace(&module.Functions[s.Function])
				}
			case ir.StmtBlock:
				walk(s.Block)
			case ir.StmtIf:
				walk(s.Accept)
				walk(s.Reject)
			case ir.StmtSwitch:
				for _, c := range s.Cases {
					walk(c.Body)
				}
			case ir.StmtLoop:
				walk(s.Body)
				walk(s.Continuing)
			}
		}
	}
	trace(f)
	return used
}

func isF32(s ir.ScalarType) bool {
	return s.Kind == ir.ScalarFloat && s.Width == 4
}

func uniformKind(t ir.TypeInner) (gpu.UniformKind, error) {
	switch t := t.(type) {
	case ir.VectorType:
		if t.Size == ir.Vec4 && isF32(t.Scalar) {
			return gpu.UniformVec4, nil
		}
	case ir.MatrixType:
		if t.Columns == ir.Vec4 && t.Rows == ir.Vec4 && isF32(t.Scalar) {
			return gpu.UniformMat4, nil
		}
	}
	return 0, fmt.Errorf("unsupported uniform type %T", t)
}

func vertexFormat(t ir.TypeInner) (gputypes.VertexFormat, error) {
	switch t := t.(type) {
	case ir.ScalarType:
		if isF32(t) {
			return gputypes.VertexFormatFloat32, nil
		}
	case ir.VectorType:
		if !isF32(t.Scalar) {
			break
		}
		switch t.Size {
		case ir.Vec2:
			return gputypes.VertexFormatFloat32x2, nil
		case ir.Vec3:
			return gputypes.VertexFormatFloat32x3, nil
		case ir.Vec4:
			return gputypes.VertexFormatFloat32x4, nil
		}
	}
	return 0, fmt.Errorf("unsupported vertex input type %T", t)
}

// typeName spells a value type the way WGSL declares it.
func typeName(module *ir.Module, h ir.TypeHandle) string {
	switch t := module.Types[h].Inner.(type) {
	case ir.ScalarType:
		return scalarName(t)
	case ir.VectorType:
		return fmt.Sprintf("vec%d<%s>", t.Size, scalarName(t.Scalar))
	case ir.MatrixType:
		return fmt.Sprintf("mat%dx%d<%s>", t.Columns, t.Rows, scalarName(t.Scalar))
	default:
		return module.Types[h].Name
	}
}

func scalarName(s ir.ScalarType) string {
	switch s.Kind {
	case ir.ScalarFloat:
		if s.Width == 2 {
			return "f16"
		}
		return "f32"
	case ir.ScalarSint:
		return "i32"
	case ir.ScalarUint:
		return "u32"
	case ir.ScalarBool:
		return "bool"
	default:
		return "?"
	}
}
