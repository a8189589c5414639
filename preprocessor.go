package forge

import (
	"bytes"
	"fmt"
	"os/exec"
)

// Preprocessor is the external collaborator for native imports (spec
// section 5/6): "a program that reads source and writes preprocessed C
// on stdout." The only implementation needed end to end forks a real C
// preprocessor; tests substitute a stub.
//
// os/exec is kept here on purpose: no library in the retrieved pack
// wraps one-shot stdin->stdout subprocess piping more usefully than
// os/exec.Cmd, so this one ambient concern stays on the standard
// library (see SPEC_FULL.md's dependency table).
type Preprocessor interface {
	// Preprocess writes `#include <path>` (or `#include "path"` for a
	// quoted native import) to the preprocessor's stdin, closes it, and
	// returns everything written to stdout before EOF. A read failure
	// or non-zero exit is a fatal error, never a warning.
	Preprocess(path string) ([]byte, error)
}

// GCCPreprocessor invokes `<program> -E -` (preprocessor mode) with
// stdin/stdout piped, per spec section 6's external-process contract.
type GCCPreprocessor struct {
	// Program is the preprocessor binary to exec, normally "gcc" (see
	// config.go's native.preprocessor_path).
	Program string
	// Quoted selects `#include "path"` over `#include <path>`, for
	// native imports of a project-local header rather than a system
	// one.
	Quoted bool
}

func NewGCCPreprocessor(program string) *GCCPreprocessor {
	return &GCCPreprocessor{Program: program}
}

func (p *GCCPreprocessor) Preprocess(path string) ([]byte, error) {
	directive := fmt.Sprintf("#include <%s>\n", path)
	if p.Quoted {
		directive = fmt.Sprintf("#include \"%s\"\n", path)
	}

	cmd := exec.Command(p.Program, "-E", "-")
	cmd.Stdin = bytes.NewBufferString(directive)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("preprocessor %q failed for %q: %w: %s", p.Program, path, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
