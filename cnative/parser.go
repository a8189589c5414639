package cnative

import (
	"fmt"

	forge "github.com/andersonarc/cstforge"
)

// cTypeKeywords maps a bare C type-specifier keyword to the forge
// primitive it denotes before any signed/unsigned/long-chain adjustment
// (Translator.translateSpecs does that adjustment). "byte"/"ubyte" have
// no C spelling; "_Bool" is C11's spelling of SRC's bool.
var cTypeKeywords = map[string]int{
	"void": forge.PrimVoid, "_Bool": forge.PrimBool,
	"char": forge.PrimChar, "short": forge.PrimShort,
	"int": forge.PrimInt, "long": forge.PrimLong,
	"float": forge.PrimFloat, "double": forge.PrimDouble,
}

var cStorageKeywords = map[string]StorageClassSpecifier{
	"typedef": StorageTypedef, "extern": StorageExtern, "static": StorageStatic,
	"_Thread_local": StorageThreadLocal, "auto": StorageAuto, "register": StorageRegister,
}

var cFunctionKeywords = map[string]FunctionSpecifier{
	"inline": FunctionInline, "__inline": FunctionInline, "__inline__": FunctionInline,
	"_Noreturn": FunctionNoreturn,
}

var cQualifierKeywords = map[string]TypeQualifier{
	"const": QualifierConst, "__const": QualifierConst, "__const__": QualifierConst,
	"restrict": QualifierRestrict, "__restrict": QualifierRestrict, "__restrict__": QualifierRestrict,
	"volatile": QualifierVolatile, "_Atomic": QualifierAtomic,
}

// declParser implements CParser over the restricted grammar cTokenize
// produces: a sequence of ordinary declarations (storage class, type
// specifiers, comma-separated declarators), each terminated by ';'.
// Function bodies, statements, and initializer expressions are not
// evaluated — `gcc -E` only ever hands the native translator
// declarations anyway (definitions live in .c files, never headers).
type declParser struct {
	toks []cToken
	pos  int

	// localTags caches the forge.Type produced for a bare "struct X" /
	// "enum X" mention seen earlier in this same translation unit, so
	// that two member fields of the same tag within this call compare
	// Equal to each other. This is intentionally NOT the canonical
	// builder-registered declaration (ParseDeclarations has no builder to
	// consult) — cross-declaration identity for a struct used as another
	// struct's member field is a known, documented limitation (DESIGN.md).
	localTags map[string]forge.Type
}

// NewCParser constructs the native declaration parser that CompileFile
// (api.go) wires into cnative.Translator.
func NewCParser() CParser { return &declParser{} }

func (p *declParser) ParseDeclarations(preprocessed []byte) ([]Declaration, error) {
	toks, err := cTokenize(preprocessed)
	if err != nil {
		return nil, err
	}
	state := &declParser{toks: toks, localTags: map[string]forge.Type{}}
	var decls []Declaration
	for state.peek().Kind != cTokEOF {
		d, err := state.parseDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func (p *declParser) peek() cToken { return p.toks[p.pos] }
func (p *declParser) advance() cToken {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}
func (p *declParser) isPunct(s string) bool {
	t := p.peek()
	return t.Kind == cTokPunct && t.Text == s
}
func (p *declParser) isIdent(s string) bool {
	t := p.peek()
	return t.Kind == cTokIdent && t.Text == s
}

func (p *declParser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return fmt.Errorf("expected %q, got %q", s, p.peek().Text)
	}
	p.advance()
	return nil
}

func (p *declParser) parseDeclaration() (Declaration, error) {
	specs, err := p.parseSpecifiers()
	if err != nil {
		return Declaration{}, err
	}

	if p.isPunct(";") {
		p.advance()
		return Declaration{Specs: specs}, nil
	}

	var declarators []Declarator
	for {
		d, err := p.parseDeclarator()
		if err != nil {
			return Declaration{}, err
		}
		if p.isPunct("=") {
			if err := p.skipInitializer(); err != nil {
				return Declaration{}, err
			}
		}
		declarators = append(declarators, d)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(";"); err != nil {
		return Declaration{}, err
	}
	return Declaration{Specs: specs, Declarators: declarators}, nil
}

// skipInitializer consumes `= <anything>` up to (not including) the
// next top-level ',' or ';', balancing brace/paren/bracket nesting so a
// compound-literal initializer doesn't confuse the declarator-list loop.
func (p *declParser) skipInitializer() error {
	p.advance() // '='
	depth := 0
	for {
		t := p.peek()
		if t.Kind == cTokEOF {
			return fmt.Errorf("unexpected end of file in initializer")
		}
		if t.Kind == cTokPunct {
			switch t.Text {
			case "{", "(", "[":
				depth++
			case "}", ")", "]":
				depth--
			case ",", ";":
				if depth <= 0 {
					return nil
				}
			}
		}
		p.advance()
	}
}

func (p *declParser) parseSpecifiers() (DeclarationSpecifiers, error) {
	var specs DeclarationSpecifiers
	hasTypeSpecifier := false

	for {
		t := p.peek()
		if t.Kind != cTokIdent {
			break
		}

		if sc, ok := cStorageKeywords[t.Text]; ok {
			specs.Storage = append(specs.Storage, sc)
			p.advance()
			continue
		}
		if fs, ok := cFunctionKeywords[t.Text]; ok {
			specs.Function = append(specs.Function, fs)
			p.advance()
			continue
		}
		if q, ok := cQualifierKeywords[t.Text]; ok {
			specs.Qualifiers = append(specs.Qualifiers, q)
			p.advance()
			continue
		}
		if t.Text == "__extension__" {
			p.advance()
			continue
		}
		if t.Text == "signed" {
			specs.Specifiers = append(specs.Specifiers, TypeSpecifier{Kind: SpecifierSigned})
			p.advance()
			continue
		}
		if t.Text == "unsigned" {
			specs.Specifiers = append(specs.Specifiers, TypeSpecifier{Kind: SpecifierUnsigned})
			p.advance()
			continue
		}
		if ord, ok := cTypeKeywords[t.Text]; ok {
			specs.Specifiers = append(specs.Specifiers, TypeSpecifier{
				Kind: SpecifierType,
				Ref:  TypeRef{Kind: TypeRefPrimitive, PrimitiveOrdinal: ord},
			})
			hasTypeSpecifier = true
			p.advance()
			continue
		}
		if t.Text == "struct" || t.Text == "union" {
			ref, err := p.parseTagRef(TypeRefStruct)
			if err != nil {
				return DeclarationSpecifiers{}, err
			}
			specs.Specifiers = append(specs.Specifiers, TypeSpecifier{Kind: SpecifierType, Ref: ref})
			hasTypeSpecifier = true
			continue
		}
		if t.Text == "enum" {
			ref, err := p.parseTagRef(TypeRefEnum)
			if err != nil {
				return DeclarationSpecifiers{}, err
			}
			specs.Specifiers = append(specs.Specifiers, TypeSpecifier{Kind: SpecifierType, Ref: ref})
			hasTypeSpecifier = true
			continue
		}

		// A bare identifier with no type specifier chosen yet can only be
		// a typedef name (a valid C declaration always has one); once a
		// type specifier has already been seen, this identifier starts
		// the declarator list instead, so stop here.
		if !hasTypeSpecifier {
			specs.Specifiers = append(specs.Specifiers, TypeSpecifier{
				Kind: SpecifierType,
				Ref:  TypeRef{Kind: TypeRefTypedef, Name: t.Text},
			})
			hasTypeSpecifier = true
			p.advance()
			continue
		}
		break
	}

	if !hasTypeSpecifier {
		return DeclarationSpecifiers{}, fmt.Errorf("declaration has no type specifier")
	}
	return specs, nil
}

func (p *declParser) parseTagRef(kind TypeRefKind) (TypeRef, error) {
	p.advance() // 'struct'/'union'/'enum'
	name := ""
	if p.peek().Kind == cTokIdent {
		name = p.advance().Text
	}

	if !p.isPunct("{") {
		return TypeRef{Kind: kind, Name: name, IsFull: false}, nil
	}
	p.advance()

	if kind == TypeRefEnum {
		members, err := p.parseEnumerators()
		if err != nil {
			return TypeRef{}, err
		}
		return TypeRef{Kind: kind, Name: name, IsFull: true, EnumMembers: members}, nil
	}

	members, err := p.parseStructMembers()
	if err != nil {
		return TypeRef{}, err
	}
	return TypeRef{Kind: kind, Name: name, IsFull: true, Members: members}, nil
}

func (p *declParser) parseEnumerators() ([]forge.EnumMemberSpec, error) {
	var specs []forge.EnumMemberSpec
	for !p.isPunct("}") {
		if p.peek().Kind != cTokIdent {
			return nil, fmt.Errorf("expected an enumerator name, got %q", p.peek().Text)
		}
		spec := forge.EnumMemberSpec{Name: p.advance().Text}
		if p.isPunct("=") {
			p.advance()
			neg := false
			if p.isPunct("-") {
				neg = true
				p.advance()
			}
			if p.peek().Kind != cTokInt {
				return nil, fmt.Errorf("expected an integer constant for enumerator value")
			}
			v := p.advance().IVal
			if neg {
				v = -v
			}
			spec.HasExplicit = true
			spec.ExplicitValue = v
		}
		specs = append(specs, spec)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return specs, nil
}

func (p *declParser) parseStructMembers() ([]forge.Member, error) {
	var members []forge.Member
	for !p.isPunct("}") {
		memberSpecs, err := p.parseSpecifiers()
		if err != nil {
			return nil, err
		}
		base, err := p.resolveLocalType(memberSpecs)
		if err != nil {
			return nil, err
		}
		for {
			d, err := p.parseDeclarator()
			if err != nil {
				return nil, err
			}
			target := base
			for _, lvl := range d.Levels {
				target = target.WithLevel(lvl)
			}
			members = append(members, forge.Member{Name: d.Name, Type: target})
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return members, nil
}

// resolveLocalType reduces a member's specifier list to a forge.Type
// without a Builder, for the cases a header member realistically needs:
// primitives (with signed/unsigned/long-chain folding) and tag/typedef
// references cached in localTags. This duplicates a slice of
// Translator.translateSpecs's logic because member types must be fully
// resolved at parse time (see the localTags doc comment above).
func (p *declParser) resolveLocalType(specs DeclarationSpecifiers) (forge.Type, error) {
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
			// unsupported, silently ignored at this layer; the real
			// Translator surfaces a warning for the outer declaration.
		case SpecifierType:
			switch spec.Ref.Kind {
			case TypeRefPrimitive:
				resolved = forge.NewPrimitiveType(spec.Ref.PrimitiveOrdinal)
			case TypeRefTypedef:
				if t, ok := p.localTags[spec.Ref.Name]; ok {
					resolved = t
				} else {
					// Unknown outside this unit's local cache: fall back to
					// an opaque byte so the field still has a concrete
					// size rather than failing the whole header.
					resolved = forge.NewPrimitiveType(forge.PrimByte)
				}
			case TypeRefStruct, TypeRefEnum:
				key := tagCacheKey(spec.Ref)
				if t, ok := p.localTags[key]; ok {
					resolved = t
				} else {
					kind := forge.KindStructure
					if spec.Ref.Kind == TypeRefEnum {
						kind = forge.KindEnum
					}
					decl := &forge.Declaration{Name: spec.Ref.Name, IsNative: true}
					t := forge.NewDeclType(kind, decl)
					p.localTags[key] = t
					resolved = t
				}
			}
			hasBeenSet = true
		}
	}
	if !hasBeenSet {
		return forge.Type{}, fmt.Errorf("struct member has no type specifier")
	}
	if isUnsigned && resolved.IsPlainInteger() {
		resolved = forge.NewPrimitiveType(forge.SignedToUnsigned(resolved.PrimitiveOrdinal))
	}
	return resolved, nil
}

func tagCacheKey(ref TypeRef) string {
	if ref.Kind == TypeRefEnum {
		return "enum " + ref.Name
	}
	return "struct " + ref.Name
}

// parseDeclarator parses pointer/array/function suffixes around one
// name. Parenthesized declarators (function-pointer syntax) are not
// supported; this subset only needs the direct-name shapes libc headers
// overwhelmingly use.
func (p *declParser) parseDeclarator() (Declarator, error) {
	var levels []forge.Level
	for p.isPunct("*") {
		p.advance()
		for {
			if _, ok := cQualifierKeywords[p.peek().Text]; ok && p.peek().Kind == cTokIdent {
				p.advance()
				continue
			}
			break
		}
		levels = append(levels, forge.PointerLevel())
	}

	name := ""
	if p.peek().Kind == cTokIdent {
		name = p.advance().Text
	}

	isFunction := false
	var params []forge.Param
	variadic := false

	for {
		if p.isPunct("[") {
			p.advance()
			if !p.isPunct("]") {
				// Skip a constant-expression size; this subset doesn't
				// evaluate it into Level.Size.
				for !p.isPunct("]") {
					if p.peek().Kind == cTokEOF {
						return Declarator{}, fmt.Errorf("unterminated array declarator")
					}
					p.advance()
				}
			}
			p.advance()
			levels = append(levels, forge.ArrayLevel(nil))
			continue
		}
		if p.isPunct("(") {
			isFunction = true
			var err error
			params, variadic, err = p.parseParamList()
			if err != nil {
				return Declarator{}, err
			}
			continue
		}
		break
	}

	return Declarator{Name: name, Levels: levels, IsFunction: isFunction, Params: params, Variadic: variadic}, nil
}

func (p *declParser) parseParamList() ([]forge.Param, bool, error) {
	p.advance() // '('
	var params []forge.Param
	variadic := false

	if p.isPunct(")") {
		p.advance()
		return params, variadic, nil
	}
	// `(void)` means "no parameters", same as an empty list.
	if p.isIdent("void") && p.toks[p.pos+1].Kind == cTokPunct && p.toks[p.pos+1].Text == ")" {
		p.advance()
		p.advance()
		return params, variadic, nil
	}

	for {
		if p.isPunct("...") {
			p.advance()
			variadic = true
			break
		}
		specs, err := p.parseSpecifiers()
		if err != nil {
			return nil, false, err
		}
		typ, err := p.resolveLocalType(specs)
		if err != nil {
			return nil, false, err
		}
		d, err := p.parseDeclarator()
		if err != nil {
			return nil, false, err
		}
		target := typ
		for _, lvl := range d.Levels {
			target = target.WithLevel(lvl)
		}
		params = append(params, forge.Param{Name: d.Name, Type: target})
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, false, err
	}
	return params, variadic, nil
}
