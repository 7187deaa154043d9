package codegen

import (
	"github.com/pointertobios/olang-compiler/pkg/ast"
	"tinygo.org/x/go-llvm"
)

// genExpr lowers an expression and returns its SSA value, or no value
// on failure.
func (c *Context) genExpr(expr ast.Expr) llvm.Value {
	switch e := expr.(type) {
	case ast.IntLit:
		// Integer literals lower to 32-bit constants.
		return llvm.ConstInt(c.llctx.Int32Type(), uint64(e.Value), true)
	case ast.FloatLit:
		return llvm.ConstFloat(c.llctx.DoubleType(), e.Value)
	case ast.BoolLit:
		var bit uint64
		if e.Value {
			bit = 1
		}
		return llvm.ConstInt(c.llctx.Int1Type(), bit, false)
	case ast.StringLit:
		// A NUL-terminated private global; the value is a pointer to
		// its first byte.
		return c.builder.CreateGlobalStringPtr(e.Value, "str")
	case ast.Identifier:
		return c.genIdentifier(e)
	case ast.Binary:
		return c.genBinary(e)
	case ast.Unary:
		return c.genUnary(e)
	case ast.Call:
		return c.genCall(e)
	case ast.Member:
		return c.genMember(e)
	case ast.Index:
		return c.genIndex(e)
	case ast.Assign:
		return c.genAssign(e)
	}
	return llvm.Value{}
}

func (c *Context) genIdentifier(e ast.Identifier) llvm.Value {
	slot, ok := c.slots.Lookup(e.Name)
	if !ok {
		return llvm.Value{}
	}
	return c.builder.CreateLoad(slot.Type, slot.Ptr, e.Name)
}

// genBinary lowers a binary operator. The type of the lowered left
// operand selects the instruction family: FP operations and ordered
// comparisons for floats, signed operations and comparisons for
// integers. Logical and/or are bitwise on i1.
func (c *Context) genBinary(e ast.Binary) llvm.Value {
	left := c.genExpr(e.Left)
	right := c.genExpr(e.Right)
	if left.IsNil() || right.IsNil() {
		return llvm.Value{}
	}

	fp := isFloat(left)

	switch e.Op {
	case ast.OpAdd:
		if fp {
			return c.builder.CreateFAdd(left, right, "addtmp")
		}
		return c.builder.CreateAdd(left, right, "addtmp")
	case ast.OpSub:
		if fp {
			return c.builder.CreateFSub(left, right, "subtmp")
		}
		return c.builder.CreateSub(left, right, "subtmp")
	case ast.OpMul:
		if fp {
			return c.builder.CreateFMul(left, right, "multmp")
		}
		return c.builder.CreateMul(left, right, "multmp")
	case ast.OpDiv:
		if fp {
			return c.builder.CreateFDiv(left, right, "divtmp")
		}
		return c.builder.CreateSDiv(left, right, "divtmp")
	case ast.OpMod:
		return c.builder.CreateSRem(left, right, "modtmp")
	case ast.OpEq:
		if fp {
			return c.builder.CreateFCmp(llvm.FloatOEQ, left, right, "eqtmp")
		}
		return c.builder.CreateICmp(llvm.IntEQ, left, right, "eqtmp")
	case ast.OpNe:
		if fp {
			return c.builder.CreateFCmp(llvm.FloatONE, left, right, "netmp")
		}
		return c.builder.CreateICmp(llvm.IntNE, left, right, "netmp")
	case ast.OpLt:
		if fp {
			return c.builder.CreateFCmp(llvm.FloatOLT, left, right, "lttmp")
		}
		return c.builder.CreateICmp(llvm.IntSLT, left, right, "lttmp")
	case ast.OpGt:
		if fp {
			return c.builder.CreateFCmp(llvm.FloatOGT, left, right, "gttmp")
		}
		return c.builder.CreateICmp(llvm.IntSGT, left, right, "gttmp")
	case ast.OpLe:
		if fp {
			return c.builder.CreateFCmp(llvm.FloatOLE, left, right, "letmp")
		}
		return c.builder.CreateICmp(llvm.IntSLE, left, right, "letmp")
	case ast.OpGe:
		if fp {
			return c.builder.CreateFCmp(llvm.FloatOGE, left, right, "getmp")
		}
		return c.builder.CreateICmp(llvm.IntSGE, left, right, "getmp")
	case ast.OpAnd:
		return c.builder.CreateAnd(left, right, "andtmp")
	case ast.OpOr:
		return c.builder.CreateOr(left, right, "ortmp")
	}
	return llvm.Value{}
}

func (c *Context) genUnary(e ast.Unary) llvm.Value {
	if e.Op == ast.OpAddr {
		// Address-of is valid only on bare identifiers.
		ident, ok := e.Expr.(ast.Identifier)
		if !ok {
			return llvm.Value{}
		}
		slot, ok := c.slots.Lookup(ident.Name)
		if !ok {
			return llvm.Value{}
		}
		return slot.Ptr
	}

	operand := c.genExpr(e.Expr)
	if operand.IsNil() {
		return llvm.Value{}
	}

	switch e.Op {
	case ast.OpNot:
		return c.builder.CreateNot(operand, "nottmp")
	case ast.OpNeg:
		if isFloat(operand) {
			return c.builder.CreateFNeg(operand, "negtmp")
		}
		return c.builder.CreateNeg(operand, "negtmp")
	case ast.OpDeref:
		// Pointer element types are not tracked at the expression
		// level; dereference loads a 32-bit integer.
		return c.builder.CreateLoad(c.llctx.Int32Type(), operand, "dereftmp")
	}
	return llvm.Value{}
}

func (c *Context) genCall(e ast.Call) llvm.Value {
	callee := c.module.NamedFunction(e.Callee)
	if callee.IsNil() {
		return llvm.Value{}
	}

	args := make([]llvm.Value, 0, len(e.Args))
	for _, arg := range e.Args {
		v := c.genExpr(arg)
		if v.IsNil() {
			return llvm.Value{}
		}
		args = append(args, v)
	}

	ft := callee.GlobalValueType()
	// Void call results cannot be named.
	if ft.ReturnType().TypeKind() == llvm.VoidTypeKind {
		return c.builder.CreateCall(ft, callee, args, "")
	}
	return c.builder.CreateCall(ft, callee, args, "calltmp")
}

// fieldIndex resolves a field name through the struct's index table.
func (c *Context) fieldIndex(info *StructInfo, field string) (int, bool) {
	idx, ok := info.Index[field]
	return idx, ok
}

// genMember lowers struct field access. Addressable struct slots go
// through a field-pointer GEP and a load; by-value struct parameters
// and other struct-typed values use field extraction.
func (c *Context) genMember(e ast.Member) llvm.Value {
	// identifier.field
	if ident, ok := e.Object.(ast.Identifier); ok {
		if slot, ok := c.slots.Lookup(ident.Name); ok {
			if info, ok := c.structInfoFor(slot.Type); ok {
				idx, ok := c.fieldIndex(info, e.Field)
				if !ok {
					return llvm.Value{}
				}
				fieldPtr := c.builder.CreateStructGEP(info.LLVM, slot.Ptr, idx, e.Field)
				return c.builder.CreateLoad(info.FieldTypes[idx], fieldPtr, e.Field)
			}
		}

		// A struct parameter accessed by value.
		if param, ok := c.byValue.Lookup(ident.Name); ok {
			if info, ok := c.structInfoFor(param.Type()); ok {
				idx, ok := c.fieldIndex(info, e.Field)
				if !ok {
					return llvm.Value{}
				}
				return c.builder.CreateExtractValue(param, idx, e.Field)
			}
		}
	}

	// identifier[index].field
	if access, ok := e.Object.(ast.Index); ok {
		elemPtr, elemType := c.genElementPtr(access)
		if elemPtr.IsNil() {
			return llvm.Value{}
		}
		info, ok := c.structInfoFor(elemType)
		if !ok {
			return llvm.Value{}
		}
		idx, ok := c.fieldIndex(info, e.Field)
		if !ok {
			return llvm.Value{}
		}
		fieldPtr := c.builder.CreateStructGEP(info.LLVM, elemPtr, idx, e.Field)
		return c.builder.CreateLoad(info.FieldTypes[idx], fieldPtr, e.Field)
	}

	// Any other struct-valued expression: extract from the aggregate.
	object := c.genExpr(e.Object)
	if object.IsNil() {
		return llvm.Value{}
	}
	info, ok := c.structInfoFor(object.Type())
	if !ok {
		return llvm.Value{}
	}
	idx, ok := c.fieldIndex(info, e.Field)
	if !ok {
		return llvm.Value{}
	}
	return c.builder.CreateExtractValue(object, idx, e.Field)
}

// genElementPtr computes the element pointer for identifier[index]
// via a two-index GEP (constant zero, then the index). It returns the
// pointer and the element type.
func (c *Context) genElementPtr(e ast.Index) (llvm.Value, llvm.Type) {
	ident, ok := e.Array.(ast.Identifier)
	if !ok {
		return llvm.Value{}, llvm.Type{}
	}
	slot, ok := c.slots.Lookup(ident.Name)
	if !ok || slot.Type.TypeKind() != llvm.ArrayTypeKind {
		return llvm.Value{}, llvm.Type{}
	}

	index := c.genExpr(e.Index)
	if index.IsNil() {
		return llvm.Value{}, llvm.Type{}
	}

	zero := llvm.ConstInt(c.llctx.Int32Type(), 0, false)
	elemPtr := c.builder.CreateGEP(slot.Type, slot.Ptr, []llvm.Value{zero, index}, "arrayidx")
	return elemPtr, slot.Type.ElementType()
}

func (c *Context) genIndex(e ast.Index) llvm.Value {
	elemPtr, elemType := c.genElementPtr(e)
	if elemPtr.IsNil() {
		return llvm.Value{}
	}
	return c.builder.CreateLoad(elemType, elemPtr, "arrayload")
}

// genAssign dispatches on the shape of the target: a bare identifier
// stores to its slot, identifier[index] stores to an array element,
// and identifier.field or identifier[index].field store to a struct
// field. The assigned value is the result.
func (c *Context) genAssign(e ast.Assign) llvm.Value {
	value := c.genExpr(e.Value)
	if value.IsNil() {
		return llvm.Value{}
	}

	switch target := e.Target.(type) {
	case ast.Identifier:
		slot, ok := c.slots.Lookup(target.Name)
		if !ok {
			return llvm.Value{}
		}
		c.builder.CreateStore(value, slot.Ptr)
		return value

	case ast.Index:
		elemPtr, _ := c.genElementPtr(target)
		if elemPtr.IsNil() {
			return llvm.Value{}
		}
		c.builder.CreateStore(value, elemPtr)
		return value

	case ast.Member:
		fieldPtr := c.genFieldPtr(target)
		if fieldPtr.IsNil() {
			return llvm.Value{}
		}
		c.builder.CreateStore(value, fieldPtr)
		return value
	}
	return llvm.Value{}
}

// genFieldPtr computes the address of a struct field for assignment.
// Supported object shapes: a bare identifier naming an addressable
// struct slot, and identifier[index] over an array of structs.
func (c *Context) genFieldPtr(e ast.Member) llvm.Value {
	if ident, ok := e.Object.(ast.Identifier); ok {
		slot, ok := c.slots.Lookup(ident.Name)
		if !ok {
			return llvm.Value{}
		}
		info, ok := c.structInfoFor(slot.Type)
		if !ok {
			return llvm.Value{}
		}
		idx, ok := c.fieldIndex(info, e.Field)
		if !ok {
			return llvm.Value{}
		}
		return c.builder.CreateStructGEP(info.LLVM, slot.Ptr, idx, e.Field)
	}

	if access, ok := e.Object.(ast.Index); ok {
		elemPtr, elemType := c.genElementPtr(access)
		if elemPtr.IsNil() {
			return llvm.Value{}
		}
		info, ok := c.structInfoFor(elemType)
		if !ok {
			return llvm.Value{}
		}
		idx, ok := c.fieldIndex(info, e.Field)
		if !ok {
			return llvm.Value{}
		}
		return c.builder.CreateStructGEP(info.LLVM, elemPtr, idx, e.Field)
	}

	return llvm.Value{}
}
