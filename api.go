package forge

import (
	"fmt"
	"path/filepath"

	"github.com/andersonarc/cstforge/cnative"
	"github.com/hashicorp/go-hclog"
)

// Result is the product of one compile: the populated AST plus every
// warning the core accumulated along the way (spec section 7).
type Result struct {
	AST      *AST
	Warnings []Warning
}

// CompileOptions wires every collaborator the driver needs (spec
// section 4.H's three-pass pipeline plus the native translator of
// section 4.I). Logger is optional; a nil Logger compiles silently.
type CompileOptions struct {
	Config *Config
	Logger hclog.Logger
}

// CompileFile drives the full pipeline described by spec sections 3-4
// over originPath: three passes of the origin file, recursing into its
// (possibly native) imports, and returns the fully-populated AST ready
// for EmitProgram. This is the module's single public entry point; the
// command-line surface (cmd/forge) and the emitter's file I/O are the
// only things layered on top of it.
func CompileFile(originPath string, opts CompileOptions) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = NewConfig()
	}

	absOrigin, err := filepath.Abs(originPath)
	if err != nil {
		return nil, fmt.Errorf("resolving origin path: %w", err)
	}

	ast := Init()
	builder := NewBuilder(ast)
	registry := NewImportRegistry()
	ctx := NewParserContext(registry)
	warnings := NewWarningSink()

	loader := NewRelativeImportLoader()
	preprocessor := NewGCCPreprocessor(cfg.GetString(KeyPreprocessorPath))
	srcParser := NewParser()
	cParser := cnative.NewCParser()
	nativeTranslator := cnative.NewTranslator(cParser, warnings)

	driver := NewDriver(loader, preprocessor, srcParser, nativeTranslator, warnings, opts.Logger)
	if err := driver.DriveOrigin(ctx, builder, absOrigin); err != nil {
		return nil, err
	}

	return &Result{AST: ast, Warnings: warnings.All()}, nil
}
