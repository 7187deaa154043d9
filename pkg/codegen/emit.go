package codegen

import (
	"fmt"
	"os"

	"tinygo.org/x/go-llvm"
)

// SetTargetTriple overrides the module's target triple.
func (c *Context) SetTargetTriple(triple string) {
	c.module.SetTarget(triple)
}

// Verify checks the module for well-formedness.
func (c *Context) Verify() error {
	return llvm.VerifyModule(c.module, llvm.ReturnStatusAction)
}

// IR returns the textual IR listing for the module.
func (c *Context) IR() string {
	return c.module.String()
}

// WriteIR writes the textual IR listing to the given path.
func (c *Context) WriteIR(path string) error {
	return os.WriteFile(path, []byte(c.module.String()), 0644)
}

// EmitObjectFile writes a native object file for the given target
// triple, or for the host when triple is empty.
func (c *Context) EmitObjectFile(path, triple string) error {
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargets()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()

	if triple == "" {
		triple = llvm.DefaultTargetTriple()
	}
	c.module.SetTarget(triple)

	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return fmt.Errorf("unknown target %q: %w", triple, err)
	}

	machine := target.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelDefault, llvm.RelocPIC, llvm.CodeModelDefault)
	defer machine.Dispose()

	c.module.SetDataLayout(machine.CreateTargetData().String())

	buf, err := machine.EmitToMemoryBuffer(c.module, llvm.ObjectFile)
	if err != nil {
		return fmt.Errorf("object emission failed: %w", err)
	}
	defer buf.Dispose()

	return os.WriteFile(path, buf.Bytes(), 0644)
}
