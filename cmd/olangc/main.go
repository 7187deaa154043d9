package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pointertobios/olang-compiler/pkg/ast"
	"github.com/pointertobios/olang-compiler/pkg/codegen"
	"github.com/pointertobios/olang-compiler/pkg/lexer"
	"github.com/pointertobios/olang-compiler/pkg/parser"
	"github.com/pointertobios/olang-compiler/pkg/preproc"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// CLI flags
var (
	emitLLVM     bool
	outputPath   string
	targetTriple string
	printIR      bool
	dumpAST      bool
)

var (
	errColor     = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen)
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "olangc [file]",
		Short: "olangc compiles olang source files to LLVM IR or native object files",
		Long: `olangc is the compiler for the olang language. It expands include
directives, parses one source file and lowers it to LLVM IR.

Default: generate an object file (.o)
Linking: use ld.lld or clang to link .o files`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			return compile(args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&emitLLVM, "emit-llvm", false, "Generate LLVM IR (.ll) instead of an object file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (default: input base + .ll or .o)")
	rootCmd.Flags().StringVar(&targetTriple, "target", "", "Override the target triple")
	rootCmd.Flags().BoolVar(&printIR, "print-ir", false, "Additionally print LLVM IR to stdout")
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "Additionally dump the AST after parsing")

	return rootCmd
}

// compile runs the full pipeline for one input file.
func compile(filename string, out, errOut io.Writer) error {
	pp := preproc.New(errOut)
	source, err := pp.ExpandFile(filename)
	if err != nil {
		errColor.Fprintf(errOut, "olangc: %v\n", err)
		return err
	}

	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			fmt.Fprintf(errOut, "%s: %s\n", filename, e)
		}
		err := fmt.Errorf("parsing failed with %d errors", len(p.Errors()))
		errColor.Fprintf(errOut, "olangc: %v\n", err)
		return err
	}

	if dumpAST {
		ast.NewPrinter(out).PrintProgram(program)
	}

	cg := codegen.NewContext("olang")
	defer cg.Dispose()
	cg.Generate(program)

	if targetTriple != "" {
		cg.SetTargetTriple(targetTriple)
	}

	if printIR {
		fmt.Fprint(out, cg.IR())
	}

	if err := cg.Verify(); err != nil {
		errColor.Fprintf(errOut, "olangc: module verification failed: %v\n", err)
		return err
	}

	output := outputPath
	if output == "" {
		output = defaultOutputFilename(filename, emitLLVM)
	}

	if emitLLVM {
		if err := cg.WriteIR(output); err != nil {
			errColor.Fprintf(errOut, "olangc: %v\n", err)
			return err
		}
		if !printIR {
			successColor.Fprintf(out, "LLVM IR written to: %s\n", output)
		}
		return nil
	}

	if err := cg.EmitObjectFile(output, targetTriple); err != nil {
		errColor.Fprintf(errOut, "olangc: %v\n", err)
		return err
	}
	successColor.Fprintf(out, "Object file written to: %s\n", output)
	return nil
}

// defaultOutputFilename derives the output path from the input path:
// the input base plus .ll for IR output or .o for object output.
func defaultOutputFilename(filename string, emitLLVM bool) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if emitLLVM {
		return base + ".ll"
	}
	return base + ".o"
}
