package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlags restores flag state between test runs; the flag
// variables are package globals shared by every command instance.
func resetFlags() {
	emitLLVM = false
	outputPath = ""
	targetTriple = ""
	printIR = false
	dumpAST = false
}

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestFlagsExist(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)

	expectedFlags := []string{"emit-llvm", "output", "target", "print-ir", "dump-ast"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag --%s to exist", flagName)
		}
	}
}

func TestNoArgsShowsHelp(t *testing.T) {
	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected help without error, got %v", err)
	}
	if !strings.Contains(out.String(), "olangc") {
		t.Errorf("expected usage text, got %q", out.String())
	}
}

func TestMissingInputFileFails(t *testing.T) {
	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "absent.ol")})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing input file")
	}
	if !strings.Contains(errOut.String(), "cannot open") {
		t.Errorf("expected open diagnostic, got %q", errOut.String())
	}
}

func TestSyntaxErrorFails(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "bad.ol")
	if err := os.WriteFile(input, []byte("fn f() { return 1 }"), 0644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{input})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for syntax error")
	}
	if !strings.Contains(errOut.String(), "parsing failed") {
		t.Errorf("expected parse diagnostic, got %q", errOut.String())
	}
}

func TestEmitLLVMWritesIRFile(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "main.ol")
	if err := os.WriteFile(input, []byte("export fn main(): i32 { return 42; }\n"), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(tmpDir, "main.ll")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--emit-llvm", "-o", output, input})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("compile failed: %v\nstderr: %s", err, errOut.String())
	}

	ir, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(ir), "define i32 @main") {
		t.Errorf("unexpected IR:\n%s", ir)
	}
	if !strings.Contains(out.String(), "LLVM IR written to:") {
		t.Errorf("expected success line, got %q", out.String())
	}
}

func TestPrintIRGoesToStdout(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "main.ol")
	if err := os.WriteFile(input, []byte("export fn main(): i32 { return 7; }\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--emit-llvm", "--print-ir", "-o", filepath.Join(tmpDir, "main.ll"), input})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("compile failed: %v\nstderr: %s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "ret i32 7") {
		t.Errorf("expected IR on stdout, got %q", out.String())
	}
	if strings.Contains(out.String(), "LLVM IR written to:") {
		t.Errorf("success line should be suppressed when IR was printed: %q", out.String())
	}
}

func TestDumpAST(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "main.ol")
	if err := os.WriteFile(input, []byte("export fn main(): i32 { return 1; }\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--dump-ast", "--emit-llvm", "-o", filepath.Join(tmpDir, "main.ll"), input})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("compile failed: %v\nstderr: %s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "export fn main(): i32 {") {
		t.Errorf("expected AST dump, got %q", out.String())
	}
}

func TestObjectFileEmission(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "main.ol")
	if err := os.WriteFile(input, []byte("export fn main(): i32 { return 42; }\n"), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(tmpDir, "main.o")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"-o", output, input})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("compile failed: %v\nstderr: %s", err, errOut.String())
	}

	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("object file not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("object file is empty")
	}
	if !strings.Contains(out.String(), "Object file written to:") {
		t.Errorf("expected success line, got %q", out.String())
	}
}

func TestIncludedFileCompiles(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "lib.ol"),
		[]byte("fn one(): i32 { return 1; }\n"), 0644); err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(tmpDir, "main.ol")
	src := "include \"lib.ol\";\nexport fn main(): i32 { return one(); }\n"
	if err := os.WriteFile(input, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(tmpDir, "main.ll")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--emit-llvm", "-o", output, input})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("compile failed: %v\nstderr: %s", err, errOut.String())
	}

	ir, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ir), "@one") {
		t.Errorf("included function missing from IR:\n%s", ir)
	}
}

func TestDefaultOutputFilename(t *testing.T) {
	tests := []struct {
		input    string
		emitLLVM bool
		want     string
	}{
		{"main.ol", true, "main.ll"},
		{"main.ol", false, "main.o"},
		{"dir/prog.ol", false, "dir/prog.o"},
		{"noext", true, "noext.ll"},
	}

	for _, tt := range tests {
		if got := defaultOutputFilename(tt.input, tt.emitLLVM); got != tt.want {
			t.Errorf("defaultOutputFilename(%q, %v) = %q, want %q",
				tt.input, tt.emitLLVM, got, tt.want)
		}
	}
}

func TestVerificationFailureFails(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "bad.ol")
	// A struct-returning function whose body produces no value stays
	// unterminated and is rejected by the verifier.
	src := "struct V { i32 x; }\nexport fn f(): V { return g(); }\n"
	if err := os.WriteFile(input, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--emit-llvm", "-o", filepath.Join(tmpDir, "bad.ll"), input})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected verification failure")
	}
	if !strings.Contains(errOut.String(), "verification failed") {
		t.Errorf("expected verification diagnostic, got %q", errOut.String())
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "bad.ll")); err == nil {
		t.Error("no output should be written on verification failure")
	}
}
