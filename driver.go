package forge

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ImportStatement is one `import <path>` or `import native <path>`
// clause recognized by a pass, reported back to the driver so it can
// recurse (spec section 4.H). The concrete grammar/lexer/parser is out
// of scope; Driver only depends on the SourceParser contract below.
type ImportStatement struct {
	Path   string
	Native bool
}

// SourceParser drives one pass of the SRC grammar over a file's
// content, mutating the shared AST/Builder/ParserContext and reporting
// any import statements it recognized along the way. Pass 1 only
// registers forward declarations and skips bodies (section 4.D's skip
// mechanism); pass 2 fills signatures; pass 3 (origin only) fills
// bodies and initializers.
type SourceParser interface {
	DrivePass(ctx *ParserContext, builder *Builder, path string, content []byte, pass ImportPass) ([]ImportStatement, error)
}

// NativeTranslator consumes preprocessed C source and installs SRC
// declarations for it (component I), invoked only at pass 1 of a
// native import.
type NativeTranslator interface {
	Translate(ctx *ParserContext, builder *Builder, path string, preprocessed []byte) error
}

// Driver orchestrates the three-pass import pipeline described in
// spec section 4.H, grounded on the teacher's recursive
// grammar-import resolution but generalized from a single-pass
// PEG-import model to SRC's three explicit passes plus native-header
// ingestion.
type Driver struct {
	loader       ImportLoader
	preprocessor Preprocessor
	parser       SourceParser
	native       NativeTranslator
	warnings     *WarningSink
	log          hclog.Logger
}

// NewDriver wires a Driver to the given collaborators. logger receives
// one Info line per file/pass driven (spec section 6's "logs progress
// to standard error") and one Warn line per accumulated warning (section
// 7); a nil logger is replaced with hclog.NewNullLogger() so callers
// that don't care about progress output (most tests) don't need to
// construct one.
func NewDriver(loader ImportLoader, preprocessor Preprocessor, parser SourceParser, native NativeTranslator, warnings *WarningSink, logger hclog.Logger) *Driver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Driver{loader: loader, preprocessor: preprocessor, parser: parser, native: native, warnings: warnings, log: logger}
}

// DriveOrigin runs all three passes over the origin file, recursing
// into its imports at passes 1 and 2 (pass 3 never recurses: it is
// defined only for the origin file).
func (d *Driver) DriveOrigin(ctx *ParserContext, builder *Builder, originPath string) error {
	d.log.Info("compiling", "file", originPath)

	if err := d.drive(ctx, builder, originPath, false, true, PassForward); err != nil {
		return err
	}
	if err := d.drive(ctx, builder, originPath, false, true, PassSignatures); err != nil {
		return err
	}

	rec := ctx.Registry.Lookup(originPath)
	if rec == nil {
		return newInternalError("origin file %q missing from import registry after pass 1/2", originPath)
	}
	content, err := d.loader.GetContent(originPath)
	if err != nil {
		return err
	}
	builder.SetCurrentFileExtern(false)
	if _, err := d.parser.DrivePass(ctx, builder, originPath, content, PassBodies); err != nil {
		return err
	}
	rec.LastPassDone = PassBodies

	for _, w := range d.warnings.All() {
		d.log.Warn(w.Message, "kind", w.Kind)
	}
	return nil
}

// drive advances absPath to targetPass, registering it on first sight
// and recursing into its imports. A file already at or past targetPass
// is silently skipped (import idempotence, section 8). isNative is the
// import kind this call site observed; a path previously registered
// under the other kind produces a warning, not an error. isOrigin is
// true only for the two origin-initiated calls in DriveOrigin: every
// declaration installed while driving a non-origin file is marked
// extern (section 6), since nothing outside the origin file owns a
// definition the emitter should produce.
func (d *Driver) drive(ctx *ParserContext, builder *Builder, absPath string, isNative bool, isOrigin bool, targetPass ImportPass) error {
	rec := ctx.Registry.Lookup(absPath)
	if rec == nil {
		rec = ctx.Registry.Register(absPath, isNative)
	} else {
		if rec.IsNative != isNative {
			d.warnings.Add(Warning{
				Kind:    WarningNativeReimport,
				Message: fmt.Sprintf("%q imported both as native and non-native", absPath),
			})
		}
		if !rec.ShouldDrive(targetPass) {
			return nil
		}
	}

	d.log.Info("importing", "file", absPath, "native", isNative, "pass", targetPass)

	if isNative {
		return d.driveNative(ctx, builder, rec, absPath, isOrigin)
	}
	return d.driveSource(ctx, builder, rec, absPath, isOrigin, targetPass)
}

// driveNative is only ever reached at pass 1: the preprocessor expands
// the whole header in one shot, and the translator installs every
// declaration it contains immediately (section 4.H).
func (d *Driver) driveNative(ctx *ParserContext, builder *Builder, rec *ImportRecord, absPath string, isOrigin bool) error {
	if rec.LastPassDone >= PassForward {
		return nil
	}
	preprocessed, err := d.preprocessor.Preprocess(absPath)
	if err != nil {
		return err
	}
	builder.SetCurrentFileExtern(!isOrigin)
	if err := d.native.Translate(ctx, builder, absPath, preprocessed); err != nil {
		return err
	}
	rec.LastPassDone = PassForward
	return nil
}

func (d *Driver) driveSource(ctx *ParserContext, builder *Builder, rec *ImportRecord, absPath string, isOrigin bool, targetPass ImportPass) error {
	content, err := d.loader.GetContent(absPath)
	if err != nil {
		return err
	}
	builder.SetCurrentFileExtern(!isOrigin)
	imports, err := d.parser.DrivePass(ctx, builder, absPath, content, targetPass)
	if err != nil {
		return err
	}
	rec.LastPassDone = targetPass

	// Relative SRC imports resolve against the origin file's directory,
	// whichever file names them; the origin is the registry's first record.
	originPath := ctx.Registry.Records()[0].AbsoluteFilename
	for _, imp := range imports {
		if imp.Native {
			nativePath, err := (NativeImportLoader{}).GetPath(imp.Path, absPath)
			if err != nil {
				return err
			}
			if err := d.drive(ctx, builder, nativePath, true, false, PassForward); err != nil {
				return err
			}
			continue
		}
		childPath, err := d.loader.GetPath(imp.Path, originPath)
		if err != nil {
			return err
		}
		if err := d.drive(ctx, builder, childPath, false, false, targetPass); err != nil {
			return err
		}
	}
	return nil
}
