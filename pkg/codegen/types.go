package codegen

import (
	"github.com/pointertobios/olang-compiler/pkg/otypes"
	"tinygo.org/x/go-llvm"
)

// lowerType maps a source type to its backend IR type. It is total
// except on unresolved struct references and malformed widths, for
// which ok is false.
func (c *Context) lowerType(t otypes.Type) (llvm.Type, bool) {
	switch t := t.(type) {
	case otypes.Tvoid:
		return c.llctx.VoidType(), true
	case otypes.Tint:
		switch t.Width {
		case 1, 8, 16, 32, 64:
			return c.llctx.IntType(t.Width), true
		}
		return llvm.Type{}, false
	case otypes.Tfloat:
		switch t.Width {
		case 16:
			return c.llctx.HalfType(), true
		case 32:
			return c.llctx.FloatType(), true
		case 64:
			return c.llctx.DoubleType(), true
		}
		return llvm.Type{}, false
	case otypes.Tpointer:
		elem, ok := c.lowerType(t.Elem)
		if !ok {
			return llvm.Type{}, false
		}
		return llvm.PointerType(elem, 0), true
	case otypes.Tarray:
		elem, ok := c.lowerType(t.Elem)
		if !ok {
			return llvm.Type{}, false
		}
		return llvm.ArrayType(elem, t.Len), true
	case otypes.Tstruct:
		info, ok := c.structByName(t.Name)
		if !ok {
			return llvm.Type{}, false
		}
		return info.LLVM, true
	}
	return llvm.Type{}, false
}
