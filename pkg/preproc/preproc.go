// Package preproc handles include expansion for olang sources.
// Each include "path"; directive that stands alone on its line is
// replaced by a comment-marked block wrapping the recursively expanded
// content of the named file. Any other line that starts with include
// is reported as a malformed directive and dropped from the output.
// A canonical absolute path identifies each file; a file encountered
// more than once expands to the empty string, so arbitrary include
// cycles terminate with each file's content appearing at most once.
package preproc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// includeRE matches a well-formed include directive on its own line.
var includeRE = regexp.MustCompile(`^\s*include\s*"([^"]*)"\s*;\s*$`)

// directiveStartRE spots lines that try to be include directives, so
// malformed ones can be diagnosed instead of reaching the parser.
var directiveStartRE = regexp.MustCompile(`^\s*include\b`)

// Preprocessor expands include directives with cycle suppression.
// Diagnostics for missing files and malformed directives go to errOut.
type Preprocessor struct {
	errOut io.Writer
	seen   map[string]bool
}

// New creates a Preprocessor writing diagnostics to errOut.
func New(errOut io.Writer) *Preprocessor {
	return &Preprocessor{
		errOut: errOut,
		seen:   make(map[string]bool),
	}
}

// ExpandFile reads the root file and returns its text with every
// include directive recursively inlined. Failure to open the root
// file is fatal; failures on included files produce a diagnostic and
// an empty expansion.
func (p *Preprocessor) ExpandFile(filename string) (string, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		absPath = filename
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot open %s: %w", filename, err)
	}

	p.seen[absPath] = true
	return p.expand(string(content), filepath.Dir(absPath)), nil
}

// expand processes the text of one file, with dir as the base for
// relative include paths.
func (p *Preprocessor) expand(content, dir string) string {
	var sb strings.Builder

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !directiveStartRE.MatchString(line) {
			sb.WriteString(line)
			if i < len(lines)-1 {
				sb.WriteByte('\n')
			}
			continue
		}

		m := includeRE.FindStringSubmatch(line)
		if m == nil {
			fmt.Fprintf(p.errOut, "olangc: malformed include directive: %s\n", strings.TrimSpace(line))
			continue
		}

		sb.WriteString(p.expandInclude(m[1], dir))
		if i < len(lines)-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// expandInclude resolves one include path relative to dir and returns
// the replacement text for the directive.
func (p *Preprocessor) expandInclude(path, dir string) string {
	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(dir, path)
	}
	absPath, err := filepath.Abs(resolved)
	if err != nil {
		absPath = resolved
	}

	if p.seen[absPath] {
		// Already inlined once; suppress to break cycles.
		return ""
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		fmt.Fprintf(p.errOut, "olangc: cannot open include %q: %v\n", path, err)
		return ""
	}

	p.seen[absPath] = true
	expanded := p.expand(string(content), filepath.Dir(absPath))

	var sb strings.Builder
	fmt.Fprintf(&sb, "// begin include %q\n", path)
	sb.WriteString(expanded)
	if !strings.HasSuffix(expanded, "\n") {
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "// end include %q", path)
	return sb.String()
}
