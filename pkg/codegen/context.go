// Package codegen lowers the olang AST into LLVM IR.
// Lowering failures are expressed as the zero llvm.Value ("no value"):
// any instruction that would consume a no-value operand also produces
// no value, and the resulting module is left for verification to
// reject.
package codegen

import (
	"github.com/pointertobios/olang-compiler/pkg/ast"
	"github.com/pointertobios/olang-compiler/pkg/scope"
	"tinygo.org/x/go-llvm"
)

// Slot is a stack storage location for an addressable local or
// parameter, together with its allocated type.
type Slot struct {
	Ptr  llvm.Value
	Type llvm.Type
}

// StructInfo is the registry entry for one declared struct: its
// ordered fields, a field-name index table populated at declaration
// time, and the backend struct type.
type StructInfo struct {
	Name       string
	Fields     []ast.Field
	Index      map[string]int
	LLVM       llvm.Type
	FieldTypes []llvm.Type
}

// Context owns the backend module and builder plus the symbol
// environment and struct registry for one compilation.
type Context struct {
	llctx   llvm.Context
	module  llvm.Module
	builder llvm.Builder

	// Two parallel scope stacks: addressable stack slots, and
	// by-value handles for struct parameters accessed by field
	// extraction without an address.
	slots   *scope.Stack[Slot]
	byValue *scope.Stack[llvm.Value]

	structs map[string]*StructInfo
}

// NewContext creates a fresh codegen context with an empty module.
func NewContext(moduleName string) *Context {
	llctx := llvm.NewContext()
	return &Context{
		llctx:   llctx,
		module:  llctx.NewModule(moduleName),
		builder: llctx.NewBuilder(),
		slots:   scope.New[Slot](),
		byValue: scope.New[llvm.Value](),
		structs: make(map[string]*StructInfo),
	}
}

// Dispose releases the backend resources. The module must not be
// used afterwards.
func (c *Context) Dispose() {
	c.builder.Dispose()
	c.module.Dispose()
	c.llctx.Dispose()
}

// Module returns the backend module under construction.
func (c *Context) Module() llvm.Module {
	return c.module
}

func (c *Context) enterScope() {
	c.slots.Enter()
	c.byValue.Enter()
}

func (c *Context) exitScope() {
	c.slots.Exit()
	c.byValue.Exit()
}

// createEntryAlloca inserts an allocation at the top of the
// function's entry block, so allocations dominate all uses no matter
// where the declaration appears in control flow.
func (c *Context) createEntryAlloca(fn llvm.Value, name string, t llvm.Type) Slot {
	tmp := c.llctx.NewBuilder()
	defer tmp.Dispose()

	entry := fn.EntryBasicBlock()
	tmp.SetInsertPoint(entry, entry.FirstInstruction())
	ptr := tmp.CreateAlloca(t, name)

	slot := Slot{Ptr: ptr, Type: t}
	c.slots.Insert(name, slot)
	return slot
}

// registerStruct records a struct declaration in the registry.
// Registration happens once per name; re-registration keeps the
// first entry.
func (c *Context) registerStruct(name string, fields []ast.Field, llvmType llvm.Type, fieldTypes []llvm.Type) *StructInfo {
	if info, ok := c.structs[name]; ok {
		return info
	}
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Name] = i
	}
	info := &StructInfo{
		Name:       name,
		Fields:     fields,
		Index:      index,
		LLVM:       llvmType,
		FieldTypes: fieldTypes,
	}
	c.structs[name] = info
	return info
}

// structByName looks up a registered struct.
func (c *Context) structByName(name string) (*StructInfo, bool) {
	info, ok := c.structs[name]
	return info, ok
}

// structInfoFor resolves a lowered struct type back to its registry
// entry through the named-struct name.
func (c *Context) structInfoFor(t llvm.Type) (*StructInfo, bool) {
	if t.IsNil() || t.TypeKind() != llvm.StructTypeKind {
		return nil, false
	}
	return c.structByName(t.StructName())
}

// blockTerminated reports whether the block already ends in a
// terminator instruction.
func blockTerminated(bb llvm.BasicBlock) bool {
	last := bb.LastInstruction()
	if last.IsNil() {
		return false
	}
	switch last.InstructionOpcode() {
	case llvm.Ret, llvm.Br, llvm.Switch, llvm.IndirectBr, llvm.Invoke, llvm.Unreachable:
		return true
	}
	return false
}

// isFloat reports whether the value carries a floating-point type.
func isFloat(v llvm.Value) bool {
	switch v.Type().TypeKind() {
	case llvm.HalfTypeKind, llvm.FloatTypeKind, llvm.DoubleTypeKind:
		return true
	}
	return false
}
