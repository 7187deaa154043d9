package codegen

import (
	"github.com/pointertobios/olang-compiler/pkg/ast"
	"github.com/pointertobios/olang-compiler/pkg/otypes"
	"tinygo.org/x/go-llvm"
)

// genBody lowers a statement sequence into the current block. Once
// the current block is terminated, the remaining statements are
// unreachable and nothing further is emitted into it.
func (c *Context) genBody(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		if blockTerminated(c.builder.GetInsertBlock()) {
			return
		}
		c.genStmt(stmt)
	}
}

func (c *Context) genStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case ast.Let:
		c.genLet(s)
	case ast.Return:
		c.genReturn(s)
	case ast.ExprStmt:
		c.genExpr(s.Expr)
	case ast.If:
		c.genIf(s)
	case ast.While:
		c.genWhile(s)
	}
}

func (c *Context) genLet(s ast.Let) {
	letType, ok := c.lowerType(s.Type)
	if !ok {
		return
	}

	fn := c.builder.GetInsertBlock().Parent()
	slot := c.createEntryAlloca(fn, s.Name, letType)

	// Array and struct initializer expressions are syntactic
	// placeholders; the slot always gets a zero aggregate.
	if otypes.IsAggregate(s.Type) {
		c.builder.CreateStore(llvm.ConstNull(letType), slot.Ptr)
		return
	}

	value := c.genExpr(s.Value)
	if value.IsNil() {
		return
	}
	c.builder.CreateStore(value, slot.Ptr)
}

func (c *Context) genReturn(s ast.Return) {
	if s.Expr == nil {
		c.builder.CreateRetVoid()
		return
	}
	value := c.genExpr(s.Expr)
	if value.IsNil() {
		return
	}
	c.builder.CreateRet(value)
}

func (c *Context) genIf(s ast.If) {
	cond := c.genExpr(s.Cond)
	if cond.IsNil() {
		return
	}

	fn := c.builder.GetInsertBlock().Parent()
	thenBlock := c.llctx.AddBasicBlock(fn, "then")
	elseBlock := c.llctx.AddBasicBlock(fn, "else")
	mergeBlock := c.llctx.AddBasicBlock(fn, "merge")
	mergeUsed := false

	c.builder.CreateCondBr(cond, thenBlock, elseBlock)

	c.builder.SetInsertPointAtEnd(thenBlock)
	c.enterScope()
	c.genBody(s.Then)
	c.exitScope()
	if !blockTerminated(c.builder.GetInsertBlock()) {
		c.builder.CreateBr(mergeBlock)
		mergeUsed = true
	}

	c.builder.SetInsertPointAtEnd(elseBlock)
	if len(s.Else) > 0 {
		c.enterScope()
		c.genBody(s.Else)
		c.exitScope()
		if !blockTerminated(c.builder.GetInsertBlock()) {
			c.builder.CreateBr(mergeBlock)
			mergeUsed = true
		}
	} else {
		c.builder.CreateBr(mergeBlock)
		mergeUsed = true
	}

	if mergeUsed {
		c.builder.SetInsertPointAtEnd(mergeBlock)
	} else {
		// Both arms terminated on their own; the merge block has no
		// predecessors and is discarded.
		mergeBlock.EraseFromParent()
	}
}

func (c *Context) genWhile(s ast.While) {
	fn := c.builder.GetInsertBlock().Parent()
	condBlock := c.llctx.AddBasicBlock(fn, "while_cond")
	bodyBlock := c.llctx.AddBasicBlock(fn, "while_body")
	endBlock := c.llctx.AddBasicBlock(fn, "while_end")

	c.builder.CreateBr(condBlock)

	c.builder.SetInsertPointAtEnd(condBlock)
	cond := c.genExpr(s.Cond)
	if cond.IsNil() {
		c.builder.CreateBr(endBlock)
	} else {
		c.builder.CreateCondBr(cond, bodyBlock, endBlock)
	}

	c.builder.SetInsertPointAtEnd(bodyBlock)
	c.enterScope()
	c.genBody(s.Body)
	c.exitScope()
	if !blockTerminated(c.builder.GetInsertBlock()) {
		c.builder.CreateBr(condBlock)
	}

	c.builder.SetInsertPointAtEnd(endBlock)
}
