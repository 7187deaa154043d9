package codegen

import (
	"github.com/pointertobios/olang-compiler/pkg/ast"
	"github.com/pointertobios/olang-compiler/pkg/otypes"
	"tinygo.org/x/go-llvm"
)

// Generate lowers a whole program into the backend module. Struct
// declarations are emitted first so later references resolve, then
// extern declarations, then function definitions.
func (c *Context) Generate(prog *ast.Program) {
	for _, decl := range prog.Decls {
		if d, ok := decl.(ast.StructDecl); ok {
			c.genStructDecl(d)
		}
	}
	for _, decl := range prog.Decls {
		if d, ok := decl.(ast.ExternDecl); ok {
			c.genExternDecl(d)
		}
	}
	for _, decl := range prog.Decls {
		if d, ok := decl.(ast.FunctionDecl); ok {
			c.genFunctionDecl(d)
		}
	}
}

func (c *Context) genStructDecl(d ast.StructDecl) {
	fieldTypes := make([]llvm.Type, 0, len(d.Fields))
	for _, f := range d.Fields {
		t, ok := c.lowerType(f.Type)
		if !ok {
			return
		}
		fieldTypes = append(fieldTypes, t)
	}

	st := c.llctx.StructCreateNamed(d.Name)
	st.StructSetBody(fieldTypes, false)
	c.registerStruct(d.Name, d.Fields, st, fieldTypes)
}

func (c *Context) genExternDecl(d ast.ExternDecl) {
	ft, ok := c.functionType(d.Params, d.ReturnType)
	if !ok {
		return
	}
	fn := llvm.AddFunction(c.module, d.Name, ft)
	fn.SetLinkage(llvm.ExternalLinkage)
}

func (c *Context) genFunctionDecl(d ast.FunctionDecl) {
	ft, ok := c.functionType(d.Params, d.ReturnType)
	if !ok {
		return
	}
	fn := llvm.AddFunction(c.module, d.Name, ft)
	if d.Exported {
		fn.SetLinkage(llvm.ExternalLinkage)
	} else {
		fn.SetLinkage(llvm.InternalLinkage)
	}

	entry := c.llctx.AddBasicBlock(fn, "entry")
	c.builder.SetInsertPointAtEnd(entry)

	c.enterScope()

	// Copy each parameter into an addressable stack slot, and record
	// the raw SSA value under the same name for by-value field
	// extraction on struct parameters.
	for i, param := range d.Params {
		paramType, ok := c.lowerType(param.Type)
		if !ok {
			continue
		}
		arg := fn.Param(i)
		slot := c.createEntryAlloca(fn, param.Name, paramType)
		c.builder.CreateStore(arg, slot.Ptr)
		c.byValue.Insert(param.Name, arg)
	}

	c.genBody(d.Body)

	// Epilogue: fall-through paths get a default return. Struct and
	// pointer returns are left unterminated for verification to
	// reject.
	cur := c.builder.GetInsertBlock()
	if !blockTerminated(cur) {
		switch d.ReturnType.(type) {
		case otypes.Tvoid:
			c.builder.CreateRetVoid()
		case otypes.Tint:
			rt, _ := c.lowerType(d.ReturnType)
			c.builder.CreateRet(llvm.ConstInt(rt, 0, true))
		case otypes.Tfloat:
			rt, _ := c.lowerType(d.ReturnType)
			c.builder.CreateRet(llvm.ConstFloat(rt, 0))
		}
	}

	c.exitScope()
}

func (c *Context) functionType(params []ast.Field, returnType otypes.Type) (llvm.Type, bool) {
	paramTypes := make([]llvm.Type, 0, len(params))
	for _, param := range params {
		t, ok := c.lowerType(param.Type)
		if !ok {
			return llvm.Type{}, false
		}
		paramTypes = append(paramTypes, t)
	}
	ret, ok := c.lowerType(returnType)
	if !ok {
		return llvm.Type{}, false
	}
	return llvm.FunctionType(ret, paramTypes, false), true
}
