package cnative

import (
	"fmt"

	forge "github.com/andersonarc/cstforge"
)

// CParser turns preprocessed C source into the declaration tree this
// package translates. The actual C grammar/lexer is out of scope (same
// boundary as forge.SourceParser for SRC itself); production wiring
// points this at a real recursive-descent C declaration parser, tests
// point it at a fixed fixture.
type CParser interface {
	ParseDeclarations(preprocessed []byte) ([]Declaration, error)
}

// Translator implements forge.NativeTranslator, walking the C
// declaration tree a CParser produces and installing SRC declarations
// for it (spec section 4.I), grounded on
// language/native/declaration.c's cst_native_declspecs_translate and
// cst_native_declaration_translate.
type Translator struct {
	parser      CParser
	warnings    *forge.WarningSink
	currentFile string
}

func NewTranslator(parser CParser, warnings *forge.WarningSink) *Translator {
	return &Translator{parser: parser, warnings: warnings}
}

// Translate satisfies forge.NativeTranslator.
func (t *Translator) Translate(ctx *forge.ParserContext, builder *forge.Builder, path string, preprocessed []byte) error {
	decls, err := t.parser.ParseDeclarations(preprocessed)
	if err != nil {
		return err
	}
	t.currentFile = path
	for _, d := range decls {
		if err := t.translateDeclaration(builder, d); err != nil {
			return err
		}
	}
	return nil
}

func (t *Translator) translateDeclaration(builder *forge.Builder, d Declaration) error {
	for _, nested := range d.Nested {
		if err := t.translateDeclaration(builder, nested); err != nil {
			return err
		}
	}

	isTypedef := false
	for _, s := range d.Specs.Storage {
		if s == StorageTypedef {
			isTypedef = true
		}
	}

	raw, err := t.translateSpecs(builder, d.Specs)
	if err != nil {
		return err
	}

	if len(d.Declarators) == 0 {
		// Abstract declaration: the specifier list alone, used only for
		// type computation (an inline struct/enum body with no variable
		// of that type declared alongside it).
		return t.declareNativeAlias(builder, "", raw)
	}

	for _, declarator := range d.Declarators {
		if err := t.translateDeclarator(builder, raw, declarator, isTypedef); err != nil {
			return err
		}
	}
	return nil
}

// translateSpecs reduces a specifier list to exactly one SRC type
// (spec section 4.I). Specifiers are walked in the order the C source
// wrote them, so a signedness keyword written before the type
// (`unsigned int`) is in effect by the time the type token itself is
// reached — the reverse of carbonsteel's own walk, which iterates its
// specifier array backwards because its parser built that array by
// prepending; a plain forward walk over an ordinary slice reaches the
// same result without that inversion.
func (t *Translator) translateSpecs(builder *forge.Builder, specs DeclarationSpecifiers) (forge.Type, error) {
	var resolved forge.Type
	hasBeenSet := false
	isUnsigned := false

	for _, spec := range specs.Specifiers {
		switch spec.Kind {
		case SpecifierSigned:
			isUnsigned = false
		case SpecifierUnsigned:
			isUnsigned = true
		case SpecifierComplex, SpecifierImaginary, SpecifierAtomic:
			t.warnings.Add(forge.Warning{
				Kind:    forge.WarningUnsupportedSpecifier,
				Message: "ignoring unsupported C type specifier",
			})
		case SpecifierType:
			current, err := t.resolveTypeRef(builder, spec.Ref)
			if err != nil {
				return forge.Type{}, err
			}
			if hasBeenSet && current.IsPlainPrimitive() {
				switch current.PrimitiveOrdinal {
				case forge.PrimInt, forge.PrimLong:
					// "long int", "long long": discard the redundant
					// int/long keyword, keep what's already resolved.
					continue
				case forge.PrimDouble:
					t.warnings.Add(forge.Warning{
						Kind:    forge.WarningPrecisionLoss,
						Message: "long double is not supported, resolving as double",
					})
				default:
					return forge.Type{}, fmt.Errorf("type %q is not allowed in a complex C specifier sequence", current.Display())
				}
			}
			resolved = current
			hasBeenSet = true
		}
	}

	if !hasBeenSet {
		return forge.Type{}, fmt.Errorf("no type found in C declaration specifier sequence")
	}
	if isUnsigned {
		if !resolved.IsPlainInteger() {
			return forge.Type{}, fmt.Errorf("only primitive integer types can be unsigned, got %q", resolved.Display())
		}
		resolved = forge.NewPrimitiveType(forge.SignedToUnsigned(resolved.PrimitiveOrdinal))
	}
	return resolved, nil
}

func (t *Translator) resolveTypeRef(builder *forge.Builder, ref TypeRef) (forge.Type, error) {
	switch ref.Kind {
	case TypeRefPrimitive:
		return forge.NewPrimitiveType(ref.PrimitiveOrdinal), nil
	case TypeRefTypedef:
		decl := builder.AST().Lookup(ref.Name)
		if decl == nil {
			return forge.Type{}, fmt.Errorf("unknown C typedef %q", ref.Name)
		}
		if decl.Kind == forge.DeclAlias && decl.Alias != nil {
			return decl.Alias.Target, nil
		}
		return forge.NewDeclType(declTypeKind(decl.Kind), decl), nil
	case TypeRefStruct:
		return t.registerStruct(builder, ref)
	case TypeRefEnum:
		return t.registerEnum(builder, ref)
	default:
		return forge.Type{}, fmt.Errorf("unrecognized C type reference")
	}
}

func declTypeKind(k forge.DeclKind) forge.TypeKind {
	switch k {
	case forge.DeclStructure:
		return forge.KindStructure
	case forge.DeclEnum:
		return forge.KindEnum
	case forge.DeclFunction:
		return forge.KindFunction
	default:
		return forge.KindAlias
	}
}

const (
	nativeStructPrefix = "struct_"
	nativeEnumPrefix   = "enum_"
)

func nativeStructName(name string) string { return nativeStructPrefix + name }
func nativeEnumName(name string) string   { return nativeEnumPrefix + name }

// registerStruct installs (or, for a repeat tag mention, simply
// returns) the SRC declaration for a `struct X { ... }` /
// `struct X` type specifier. A second mention of an already-declared
// tag is silently ignored rather than merged — carbonsteel's own
// translator does the same ("[native-ignore] struct %s"), since a
// preprocessed translation unit routinely mentions the same struct tag
// many times across nested headers.
func (t *Translator) registerStruct(builder *forge.Builder, ref TypeRef) (forge.Type, error) {
	if ref.Name == "" {
		decl, err := builder.CompleteStructure(forge.Span{}, "", ref.Members)
		if err != nil {
			return forge.Type{}, err
		}
		t.markNative(decl)
		return forge.NewDeclType(forge.KindStructure, decl), nil
	}

	renamed := nativeStructName(ref.Name)
	if existing := builder.AST().Lookup(renamed); existing != nil {
		return forge.NewDeclType(forge.KindStructure, existing), nil
	}

	var decl *forge.Declaration
	var err error
	if ref.IsFull {
		decl, err = builder.CompleteStructure(forge.Span{}, renamed, ref.Members)
	} else {
		decl, err = builder.BeginStructure(forge.Span{}, renamed)
	}
	if err != nil {
		return forge.Type{}, err
	}
	t.markNative(decl)
	return forge.NewDeclType(forge.KindStructure, decl), nil
}

func (t *Translator) registerEnum(builder *forge.Builder, ref TypeRef) (forge.Type, error) {
	if ref.Name == "" {
		decl, err := builder.CompleteEnum(forge.Span{}, "", ref.EnumMembers)
		if err != nil {
			return forge.Type{}, err
		}
		t.markNative(decl)
		return forge.NewDeclType(forge.KindEnum, decl), nil
	}

	renamed := nativeEnumName(ref.Name)
	if existing := builder.AST().Lookup(renamed); existing != nil {
		return forge.NewDeclType(forge.KindEnum, existing), nil
	}

	var decl *forge.Declaration
	var err error
	if ref.IsFull {
		decl, err = builder.CompleteEnum(forge.Span{}, renamed, ref.EnumMembers)
	} else {
		decl, err = builder.BeginEnum(forge.Span{}, renamed)
	}
	if err != nil {
		return forge.Type{}, err
	}
	t.markNative(decl)
	return forge.NewDeclType(forge.KindEnum, decl), nil
}

// translateDeclarator applies one declarator's pointer/array suffixes
// to the specifier-resolved type, patches `char *` to `char[]` (SRC's
// C-string convention), and installs the result: a function declarator
// becomes a function signature (or, under `typedef`, an unsupported-
// function-type alias to `void*`); every other declarator becomes an
// alias, matching the original translator's declarator handling
// exactly (it does not distinguish typedef from plain extern
// declarations outside the function case).
func (t *Translator) translateDeclarator(builder *forge.Builder, raw forge.Type, d Declarator, isTypedef bool) error {
	target := raw
	for _, lvl := range d.Levels {
		target = target.WithLevel(lvl)
	}
	if len(target.Levels) == 1 && target.Levels[0].Kind == forge.LevelPointer &&
		target.Kind == forge.KindPrimitive && target.PrimitiveOrdinal == forge.PrimChar {
		target.Levels[0] = forge.ArrayLevel(nil)
	}

	if d.IsFunction {
		if isTypedef {
			t.warnings.Add(forge.Warning{
				Kind:    forge.WarningUnsupportedSpecifier,
				Message: fmt.Sprintf("function type %q is not representable yet, aliasing to void*", d.Name),
			})
			placeholder := forge.NewPrimitiveType(forge.PrimVoid).WithLevel(forge.PointerLevel())
			return t.declareNativeAlias(builder, d.Name, placeholder)
		}
		decl, err := builder.DeclareFunctionSignature(forge.Span{}, d.Name, d.Params, target, d.Variadic, nil)
		if err != nil {
			return err
		}
		decl.IsFull = true
		t.markNative(decl)
		return nil
	}

	return t.declareNativeAlias(builder, d.Name, target)
}

func (t *Translator) declareNativeAlias(builder *forge.Builder, name string, target forge.Type) error {
	decl, err := builder.DeclareAlias(forge.Span{}, name, target)
	if err != nil {
		return err
	}
	t.markNative(decl)
	return nil
}

func (t *Translator) markNative(decl *forge.Declaration) {
	decl.IsNative = true
	decl.NativeFilename = t.currentFile
}
