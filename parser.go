package forge

// Parser implements SourceParser for the SRC surface grammar implied by
// spec section 8's worked examples: import/struct/enum/fn/type/variable
// top-level forms, C-style expressions, and a small statement set
// (return/if/while/local-var/expression). There is no grammar file
// anywhere in the source material this module was built from — this is
// the concrete syntax that section 8's examples (`import native
// stdio;`, `import <dotted.path>`) are written in, built recursive
// descent in the same style as the expr_*.go constructors it drives.
//
// Import paths are dotted identifier chains (`import a.b.c;`), resolved
// to a relative filename by joining segments with "/" and appending an
// extension, exactly as carbonsteel's import_to_filename does it
// (".cst" there; ".src" here, to match this module's own source
// extension). A non-native path is additionally prefixed with "./" so
// it satisfies RelativeImportLoader's relative-path precondition; a
// native path is left as "segments.h" since NativeImportLoader passes
// it straight through to the preprocessor, unresolved.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// DrivePass tokenizes content once and walks it with a fresh parsing
// state, so no state leaks between unrelated DrivePass calls (one per
// file per pass, per Driver's contract).
func (p *Parser) DrivePass(ctx *ParserContext, builder *Builder, path string, content []byte, pass ImportPass) ([]ImportStatement, error) {
	toks, err := Tokenize(content)
	if err != nil {
		return nil, err
	}
	ps := &parserState{
		toks:    toks,
		ctx:     ctx,
		builder: builder,
		path:    path,
		li:      NewLineIndex(content),
	}
	if err := ps.run(pass); err != nil {
		return nil, err
	}
	return ps.imports, nil
}

type parserState struct {
	toks    []Token
	pos     int
	li      *LineIndex
	ctx     *ParserContext
	builder *Builder
	path    string
	imports []ImportStatement
}

// --- token-stream primitives -------------------------------------------------

func (p *parserState) peek() Token { return p.toks[p.pos] }

func (p *parserState) peekAt(off int) Token {
	idx := p.pos + off
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *parserState) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// mark/reset give the recursive descent its lookahead: since Tokenize
// runs up front, saving a position is just saving an index, unlike a
// streaming lexer where lookahead needs its own byte-cursor Mark/Reset.
func (p *parserState) mark() int      { return p.pos }
func (p *parserState) reset(m int)    { p.pos = m }

func (p *parserState) isPunct(s string) bool {
	t := p.peek()
	return t.Kind == TokPunct && t.Text == s
}

func (p *parserState) isIdent(s string) bool {
	t := p.peek()
	return t.Kind == TokIdent && t.Text == s
}

func (p *parserState) span(rg Range) Span { return p.li.Span(unknownFileID, rg) }

func (p *parserState) errorf(format string, args ...any) error {
	return newSyntaxError(p.span(p.peek().Rg), format, args...)
}

func (p *parserState) expectPunct(s string) (Token, error) {
	if !p.isPunct(s) {
		return Token{}, p.errorf("expected '%s', got %s", s, p.peek())
	}
	return p.advance(), nil
}

func (p *parserState) expectIdent() (Token, error) {
	t := p.peek()
	if t.Kind != TokIdent {
		return Token{}, p.errorf("expected an identifier, got %s", t)
	}
	p.advance()
	return t, nil
}

func combinedRange(a, b Expr) Range { return NewRange(a.Range().Start, b.Range().End) }

// --- skip helpers, reusing ParserContext's skip state machine ---------------

// skipByte returns the byte a token presents to the ShouldSkip state
// machine: a punctuation token's first byte (the only bytes any skip
// pair boundary can be), or 0 for anything else.
func skipByte(t Token) byte {
	if t.Kind == TokPunct && len(t.Text) > 0 {
		return t.Text[0]
	}
	return 0
}

// skipViaCtx drives ctx's BeginSkip/ShouldSkip state machine token by
// token until the region closes, consuming every token in the region
// including its closing delimiter. The current token must already be
// (or, with fromAny, may be anything recognized as) the opening byte.
func (p *parserState) skipViaCtx(from byte, fromAny bool, discard, until byte) error {
	p.ctx.BeginSkip(from, fromAny, discard, until)
	started := false
	for {
		t := p.peek()
		if t.Kind == TokEOF {
			return p.errorf("unexpected end of file while skipping")
		}
		switch p.ctx.ShouldSkip(skipByte(t)) {
		case SkipExitWithoutStart:
			return nil
		case SkipStart:
			started = true
			p.advance()
		default:
			p.advance()
			if started && !p.ctx.Skipping() {
				return nil
			}
		}
	}
}

func (p *parserState) skipBraceBlock() error { return p.skipViaCtx('{', false, 0, '}') }
func (p *parserState) skipParenList() error  { return p.skipViaCtx('(', false, 0, ')') }

func (p *parserState) skipUntilSemicolon() error {
	for !p.isPunct(";") {
		if p.peek().Kind == TokEOF {
			return p.errorf("unexpected end of file, expected ';'")
		}
		p.advance()
	}
	p.advance()
	return nil
}

// --- top level ---------------------------------------------------------------

func (p *parserState) run(pass ImportPass) error {
	for p.peek().Kind != TokEOF {
		if err := p.parseTopLevel(pass); err != nil {
			return err
		}
	}
	return nil
}

func (p *parserState) parseTopLevel(pass ImportPass) error {
	switch {
	case p.isIdent("import"):
		return p.parseImport()
	case p.isIdent("struct"):
		return p.parseStruct(pass)
	case p.isIdent("enum"):
		return p.parseEnum(pass)
	case p.isIdent("fn"):
		return p.parseFunction(pass)
	case p.isIdent("type"):
		return p.parseAlias(pass)
	default:
		return p.parseGlobalVariable(pass)
	}
}

func (p *parserState) parseImport() error {
	p.advance() // 'import'
	native := false
	if p.isIdent("native") {
		native = true
		p.advance()
	}

	firstTok, err := p.expectIdent()
	if err != nil {
		return err
	}
	segments := []string{firstTok.Text}
	for p.isPunct(".") {
		p.advance()
		segTok, err := p.expectIdent()
		if err != nil {
			return err
		}
		segments = append(segments, segTok.Text)
	}
	if _, err := p.expectPunct(";"); err != nil {
		return err
	}

	path := joinImportSegments(segments, native)
	p.imports = append(p.imports, ImportStatement{Path: path, Native: native})
	return nil
}

// joinImportSegments mirrors carbonsteel's import_to_filename: segments
// joined with "/", extension appended (".h" for a native header, ".src"
// for an SRC file). Non-native paths get a "./" prefix on top of that,
// since RelativeImportLoader requires one to recognize the path as
// relative (to the origin file's directory) rather than a bare native
// name.
func joinImportSegments(segments []string, native bool) string {
	joined := segments[0]
	for _, s := range segments[1:] {
		joined += "/" + s
	}
	if native {
		return joined + ".h"
	}
	return "./" + joined + ".src"
}

// --- struct / enum -------------------------------------------------------

func (p *parserState) parseStruct(pass ImportPass) error {
	p.advance() // 'struct'
	nameTok, err := p.expectIdent()
	if err != nil {
		return err
	}
	name := nameTok.Text
	span := p.span(nameTok.Rg)

	switch pass {
	case PassForward:
		if p.isPunct("{") {
			if err := p.skipBraceBlock(); err != nil {
				return err
			}
		} else if _, err := p.expectPunct(";"); err != nil {
			return err
		}
		_, err := p.builder.BeginStructure(span, name)
		return err

	case PassSignatures:
		if !p.isPunct("{") {
			_, err := p.expectPunct(";")
			if err != nil {
				return err
			}
			_, err = p.builder.BeginStructure(span, name)
			return err
		}
		members, err := p.parseStructBody()
		if err != nil {
			return err
		}
		_, err = p.builder.CompleteStructure(span, name, members)
		return err

	default: // PassBodies
		if p.isPunct("{") {
			return p.skipBraceBlock()
		}
		_, err := p.expectPunct(";")
		return err
	}
}

func (p *parserState) parseStructBody() ([]Member, error) {
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var members []Member
	for !p.isPunct("}") {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		nameTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		members = append(members, Member{Name: nameTok.Text, Type: typ})
	}
	p.advance() // '}'
	return members, nil
}

func (p *parserState) parseEnum(pass ImportPass) error {
	p.advance() // 'enum'
	nameTok, err := p.expectIdent()
	if err != nil {
		return err
	}
	name := nameTok.Text
	span := p.span(nameTok.Rg)

	switch pass {
	case PassForward:
		if p.isPunct("{") {
			if err := p.skipBraceBlock(); err != nil {
				return err
			}
		} else if _, err := p.expectPunct(";"); err != nil {
			return err
		}
		_, err := p.builder.BeginEnum(span, name)
		return err

	case PassSignatures:
		if !p.isPunct("{") {
			if _, err := p.expectPunct(";"); err != nil {
				return err
			}
			_, err := p.builder.BeginEnum(span, name)
			return err
		}
		specs, err := p.parseEnumBody()
		if err != nil {
			return err
		}
		decl, err := p.builder.CompleteEnum(span, name, specs)
		if err != nil {
			return err
		}
		for _, m := range decl.Enum.Members {
			if err := p.builder.AST().AddIdentifier(span, m.Name, TokenEnumMemberName, TokenEnumMemberName, decl); err != nil {
				return err
			}
		}
		return nil

	default: // PassBodies
		if p.isPunct("{") {
			return p.skipBraceBlock()
		}
		_, err := p.expectPunct(";")
		return err
	}
}

func (p *parserState) parseEnumBody() ([]EnumMemberSpec, error) {
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var specs []EnumMemberSpec
	for !p.isPunct("}") {
		nameTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		spec := EnumMemberSpec{Name: nameTok.Text}
		if p.isPunct("=") {
			p.advance()
			neg := false
			if p.isPunct("-") {
				neg = true
				p.advance()
			}
			if p.peek().Kind != TokInt {
				return nil, p.errorf("expected an integer constant for enum member value")
			}
			v := p.advance().IntVal
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
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return specs, nil
}

// --- function ------------------------------------------------------------

func (p *parserState) parseFunction(pass ImportPass) error {
	p.advance() // 'fn'
	nameTok, err := p.expectIdent()
	if err != nil {
		return err
	}
	name := nameTok.Text
	span := p.span(nameTok.Rg)

	if pass == PassForward {
		// Param/return types may name a structure or enum not yet
		// forward-declared this pass (it could come later in this same
		// file); resolving them now would spuriously fail. Pass 1 just
		// needs to know the declaration's extent, not its shape.
		if err := p.skipParenList(); err != nil {
			return err
		}
		for !p.isPunct("{") {
			if p.peek().Kind == TokEOF {
				return p.errorf("unexpected end of file in function declaration")
			}
			p.advance()
		}
		return p.skipBraceBlock()
	}

	params, variadic, err := p.parseParamList()
	if err != nil {
		return err
	}
	ret := NewPrimitiveType(PrimVoid)
	if p.isPunct("->") {
		p.advance()
		ret, err = p.parseType()
		if err != nil {
			return err
		}
	}

	if pass == PassSignatures {
		if err := p.skipBraceBlock(); err != nil {
			return err
		}
		_, err := p.builder.DeclareFunctionSignature(span, name, params, ret, variadic, nil)
		return err
	}

	// PassBodies: the signature was already registered at pass 2.
	decl := p.builder.AST().Lookup(name)
	if decl == nil || decl.Kind != DeclFunction {
		return p.errorf("internal: function '%s' missing its pass-2 signature", name)
	}
	p.ctx.PushScope()
	defer p.ctx.Pop()
	for _, param := range params {
		pd := &Declaration{
			Kind: DeclVariable, Name: param.Name, IsFull: true,
			Token: TokenParameterName, CToken: TokenParameterName,
			Variable: &VariablePayload{DeclType: param.Type},
		}
		if err := p.ctx.BindLocal(span, pd); err != nil {
			return err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return err
	}
	return p.builder.AttachFunctionBody(span, decl, body)
}

func (p *parserState) parseParamList() ([]Param, bool, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, false, err
	}
	var params []Param
	variadic := false
	if !p.isPunct(")") {
		for {
			if p.isPunct(".") && p.peekAt(1).Kind == TokPunct && p.peekAt(1).Text == "." &&
				p.peekAt(2).Kind == TokPunct && p.peekAt(2).Text == "." {
				p.advance()
				p.advance()
				p.advance()
				variadic = true
				break
			}
			typ, err := p.parseType()
			if err != nil {
				return nil, false, err
			}
			nameTok, err := p.expectIdent()
			if err != nil {
				return nil, false, err
			}
			params = append(params, Param{Name: nameTok.Text, Type: typ})
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, false, err
	}
	return params, variadic, nil
}

// --- type alias ------------------------------------------------------------

func (p *parserState) parseAlias(pass ImportPass) error {
	p.advance() // 'type'
	nameTok, err := p.expectIdent()
	if err != nil {
		return err
	}
	name := nameTok.Text
	span := p.span(nameTok.Rg)

	if pass != PassSignatures {
		// Pass 1: the target may name a not-yet-forward-declared type.
		// Pass 3: already declared at pass 2. Either way, just consume
		// the syntax.
		return p.skipUntilSemicolon()
	}

	if _, err := p.expectPunct("="); err != nil {
		return err
	}
	target, err := p.parseType()
	if err != nil {
		return err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return err
	}
	_, err = p.builder.DeclareAlias(span, name, target)
	return err
}

// --- top-level variable ------------------------------------------------------

func (p *parserState) parseGlobalVariable(pass ImportPass) error {
	if pass == PassForward {
		return p.skipUntilSemicolon()
	}

	typ, err := p.parseType()
	if err != nil {
		return err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return err
	}
	span := p.span(nameTok.Rg)

	var init Expr
	hasInit := p.isPunct("=")
	switch {
	case hasInit && pass == PassSignatures:
		// Pass 2 records only the type; the initializer is a pass-3,
		// origin-only concern.
		if err := p.skipViaCtx('=', false, 0, ';'); err != nil {
			return err
		}
	case hasInit:
		p.advance() // '='
		init, err = p.parseExpression()
		if err != nil {
			return err
		}
		if _, err := p.expectPunct(";"); err != nil {
			return err
		}
	default:
		if _, err := p.expectPunct(";"); err != nil {
			return err
		}
	}

	switch pass {
	case PassSignatures:
		_, err := p.builder.DeclareVariable(span, nameTok.Text, typ, nil)
		return err
	default: // PassBodies
		if init == nil {
			return nil
		}
		decl := p.builder.AST().Lookup(nameTok.Text)
		if decl == nil || decl.Kind != DeclVariable {
			return p.errorf("internal: variable '%s' missing its pass-2 declaration", nameTok.Text)
		}
		return p.builder.AttachVariableInitializer(span, decl, init)
	}
}

// --- types -------------------------------------------------------------------

func (p *parserState) parseType() (Type, error) {
	unsigned := false
	for {
		if p.isIdent("unsigned") {
			unsigned = true
			p.advance()
			continue
		}
		if p.isIdent("signed") {
			p.advance()
			continue
		}
		break
	}

	nameTok, err := p.expectIdent()
	if err != nil {
		return Type{}, err
	}

	var classTok TokenClass
	var decl *Declaration
	if unsigned {
		p.ctx.PushFlag(true)
		classTok, decl, err = p.builder.AST().Classify(p.ctx, nameTok.Text)
		p.ctx.Pop()
	} else {
		classTok, decl, err = p.builder.AST().Classify(p.ctx, nameTok.Text)
	}
	if err != nil {
		return Type{}, err
	}
	base, err := p.typeFromClassification(classTok, decl, nameTok)
	if err != nil {
		return Type{}, err
	}

	for {
		if p.isPunct("*") {
			p.advance()
			base = base.WithLevel(PointerLevel())
			continue
		}
		if p.isPunct("[") {
			p.advance()
			if p.isPunct("]") {
				p.advance()
				base = base.WithLevel(ArrayLevel(nil))
				continue
			}
			if p.peek().Kind == TokInt {
				size := p.advance().IntVal
				if _, err := p.expectPunct("]"); err != nil {
					return Type{}, err
				}
				base = base.WithLevel(ArrayLevel(&size))
				continue
			}
			return Type{}, p.errorf("expected ']' or an array size")
		}
		break
	}
	return base, nil
}

func (p *parserState) typeFromClassification(tok TokenClass, decl *Declaration, nameTok Token) (Type, error) {
	switch tok {
	case TokenPrimitiveName:
		return decl.Alias.Target, nil
	case TokenStructureName:
		return NewDeclType(KindStructure, decl), nil
	case TokenEnumName:
		return NewDeclType(KindEnum, decl), nil
	case TokenAliasName:
		return NewDeclType(KindAlias, decl), nil
	default:
		return Type{}, p.errorf("'%s' does not name a type", nameTok.Text)
	}
}

// tryParseTypeOnly attempts to parse a type starting at the current
// position without committing: on any mismatch it restores the mark and
// reports failure rather than an error, so parseCastLevel can fall back
// to an ordinary parenthesized expression.
func (p *parserState) tryParseTypeOnly() (Type, bool) {
	m := p.mark()
	if p.isIdent("unsigned") || p.isIdent("signed") {
		p.advance()
	}
	if p.peek().Kind != TokIdent {
		p.reset(m)
		return Type{}, false
	}
	tok, decl, err := p.builder.AST().Classify(p.ctx, p.peek().Text)
	if err != nil || decl == nil {
		p.reset(m)
		return Type{}, false
	}
	switch tok {
	case TokenPrimitiveName, TokenStructureName, TokenEnumName, TokenAliasName:
	default:
		p.reset(m)
		return Type{}, false
	}
	p.reset(m)
	typ, err := p.parseType()
	if err != nil {
		p.reset(m)
		return Type{}, false
	}
	return typ, true
}

// --- statements ----------------------------------------------------------

func (p *parserState) parseBlock() (*Block, error) {
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for !p.isPunct("}") {
		if p.peek().Kind == TokEOF {
			return nil, p.errorf("unexpected end of file in block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.advance() // '}'
	return &Block{Stmts: stmts}, nil
}

func (p *parserState) parseStatement() (Stmt, error) {
	switch {
	case p.isIdent("return"):
		p.advance()
		if p.isPunct(";") {
			p.advance()
			return ReturnStmt{}, nil
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return ReturnStmt{Value: val}, nil

	case p.isIdent("if"):
		return p.parseIf()

	case p.isIdent("while"):
		return p.parseWhile()

	case p.looksLikeLocalVarDecl():
		return p.parseLocalVarDecl()

	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return ExprStmt{Expr: expr}, nil
	}
}

func (p *parserState) parseIf() (Stmt, error) {
	p.advance() // 'if'
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if !cond.Props().Type.IsPlainBoolean() {
		return nil, p.errorf("if condition must be boolean, got '%s'", cond.Props().Type.Display())
	}
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBlock *Block
	if p.isIdent("else") {
		p.advance()
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return IfStmt{Cond: cond, Then: thenBlock, Else: elseBlock}, nil
}

func (p *parserState) parseWhile() (Stmt, error) {
	p.advance() // 'while'
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if !cond.Props().Type.IsPlainBoolean() {
		return nil, p.errorf("while condition must be boolean, got '%s'", cond.Props().Type.Display())
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return WhileStmt{Cond: cond, Body: body}, nil
}

// looksLikeLocalVarDecl disambiguates `Type name ...;` from a bare
// expression statement by lookahead: a type-classifiable identifier
// (with its pointer/array suffixes consumed) followed by a second bare
// identifier can only be a local declaration, since no expression form
// in this grammar places one identifier directly after another.
func (p *parserState) looksLikeLocalVarDecl() bool {
	m := p.mark()
	defer p.reset(m)

	if p.isIdent("unsigned") || p.isIdent("signed") {
		p.advance()
	}
	if p.peek().Kind != TokIdent {
		return false
	}
	tok, _, err := p.builder.AST().Classify(p.ctx, p.peek().Text)
	if err != nil {
		return false
	}
	switch tok {
	case TokenPrimitiveName, TokenStructureName, TokenEnumName, TokenAliasName:
	default:
		return false
	}
	p.advance()

	for p.isPunct("*") {
		p.advance()
	}
	for p.isPunct("[") {
		p.advance()
		for !p.isPunct("]") {
			if p.peek().Kind == TokEOF {
				return false
			}
			p.advance()
		}
		p.advance()
	}
	return p.peek().Kind == TokIdent
}

func (p *parserState) parseLocalVarDecl() (Stmt, error) {
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	span := p.span(nameTok.Rg)

	var init Expr
	if p.isPunct("=") {
		p.advance()
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	if init != nil && !CanAssign(typ, init.Props().Type) {
		return nil, p.errorf("cannot initialize '%s' of type '%s' with '%s'",
			nameTok.Text, typ.Display(), init.Props().Type.Display())
	}

	decl := &Declaration{
		Kind: DeclVariable, Name: nameTok.Text, IsFull: true,
		Token: TokenVariableName, CToken: TokenVariableName,
		Variable: &VariablePayload{DeclType: typ, Initializer: init},
	}
	if err := p.ctx.BindLocal(span, decl); err != nil {
		return nil, err
	}
	return LocalVarStmt{Name: nameTok.Text, Type: typ, Init: init}, nil
}

// --- expressions ---------------------------------------------------------

var assignOps = map[string]bool{"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true}

var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var unaryOps = map[string]bool{
	"&": true, "*": true, "+": true, "-": true, "!": true, "~": true, "++": true, "--": true,
}

func (p *parserState) parseExpression() (Expr, error) { return p.parseAssignment() }

func (p *parserState) parseAssignment() (Expr, error) {
	lhs, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.Kind == TokPunct && assignOps[tok.Text] {
		op := p.advance().Text
		rhs, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return NewAssignmentExpr(lhs, op, rhs, combinedRange(lhs, rhs))
	}
	return lhs, nil
}

func (p *parserState) parseCondition() (Expr, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.isPunct("?") {
		p.advance()
		thenExpr, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		elseExpr, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return NewTernaryExpr(cond, thenExpr, elseExpr, combinedRange(cond, elseExpr))
	}
	return NewConditionExpr(cond), nil
}

func (p *parserState) parseBinary(minPrec int) (Expr, error) {
	left, err := p.parseCastLevel()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind != TokPunct {
			break
		}
		prec, ok := binaryPrecedence[tok.Text]
		if !ok || prec < minPrec {
			break
		}
		op := p.advance().Text
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left, err = NewBinaryExpr(left, op, right, combinedRange(left, right))
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parseCastLevel disambiguates a parenthesized cast from a grouped
// expression by lookahead: if what follows '(' parses cleanly as a type
// and is immediately followed by ')', it's a cast; otherwise the mark is
// restored and the '(' is left for parseBasic's grouping rule.
func (p *parserState) parseCastLevel() (Expr, error) {
	if p.isPunct("(") {
		m := p.mark()
		openRg := p.peek().Rg
		p.advance()
		if typ, ok := p.tryParseTypeOnly(); ok && p.isPunct(")") {
			p.advance()
			operand, err := p.parseCastLevel()
			if err != nil {
				return nil, err
			}
			return NewCastExpr([]Type{typ}, operand, NewRange(openRg.Start, operand.Range().End))
		}
		p.reset(m)
	}
	return p.parseUnary()
}

func (p *parserState) parseUnary() (Expr, error) {
	tok := p.peek()
	if tok.Kind == TokPunct && unaryOps[tok.Text] {
		op := p.advance().Text
		operand, err := p.parseCastLevel()
		if err != nil {
			return nil, err
		}
		return NewUnaryExpr(op, operand, NewRange(tok.Rg.Start, operand.Range().End))
	}
	return p.parsePostfix()
}

func (p *parserState) parsePostfix() (Expr, error) {
	expr, err := p.parseBasic()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isPunct("."):
			p.advance()
			nameTok, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr, err = NewFieldExpr(expr, nameTok.Text, false, NewRange(expr.Range().Start, nameTok.Rg.End))
			if err != nil {
				return nil, err
			}

		case p.isPunct("->"):
			p.advance()
			nameTok, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr, err = NewFieldExpr(expr, nameTok.Text, true, NewRange(expr.Range().Start, nameTok.Rg.End))
			if err != nil {
				return nil, err
			}

		case p.isPunct("["):
			p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			closeTok, err := p.expectPunct("]")
			if err != nil {
				return nil, err
			}
			expr, err = NewIndexExpr(expr, idx, NewRange(expr.Range().Start, closeTok.Rg.End))
			if err != nil {
				return nil, err
			}

		case p.isPunct("("):
			p.advance()
			var args []Expr
			if !p.isPunct(")") {
				for {
					arg, err := p.parseAssignment()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if p.isPunct(",") {
						p.advance()
						continue
					}
					break
				}
			}
			closeTok, err := p.expectPunct(")")
			if err != nil {
				return nil, err
			}
			expr, err = NewCallExpr(expr, args, NewRange(expr.Range().Start, closeTok.Rg.End))
			if err != nil {
				return nil, err
			}

		case p.isPunct("++") || p.isPunct("--"):
			opTok := p.advance()
			expr, err = NewPostfixIncDecExpr(expr, opTok.Text, NewRange(expr.Range().Start, opTok.Rg.End))
			if err != nil {
				return nil, err
			}

		default:
			return expr, nil
		}
	}
}

func (p *parserState) parseBasic() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokInt:
		p.advance()
		return NewIntegerLiteral(tok.IntVal, tok.Rg)
	case TokUint:
		p.advance()
		return NewUnsignedIntegerLiteral(tok.UVal, tok.Rg)
	case TokFloat:
		p.advance()
		return NewFloatLiteral(tok.FVal, tok.Rg)
	case TokChar:
		p.advance()
		return NewCharLiteral(tok.CVal, tok.Rg), nil
	case TokString:
		p.advance()
		return NewStringLiteral(tok.SVal, tok.Rg), nil
	}

	if p.isPunct("(") {
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expectPunct(")")
		if err != nil {
			return nil, err
		}
		return NewParenExpr(inner, NewRange(tok.Rg.Start, closeTok.Rg.End)), nil
	}

	if tok.Kind != TokIdent {
		return nil, p.errorf("unexpected token %s", tok)
	}

	switch tok.Text {
	case "true":
		p.advance()
		return NewBoolLiteral(true, tok.Rg), nil
	case "false":
		p.advance()
		return NewBoolLiteral(false, tok.Rg), nil
	case "new":
		p.advance()
		return p.parseConstructor(true)
	}

	classTok, decl, err := p.builder.AST().Classify(p.ctx, tok.Text)
	if err != nil {
		return nil, err
	}

	switch classTok {
	case TokenVariableName:
		p.advance()
		return NewVariableRef(decl, tok.Rg), nil
	case TokenParameterName:
		p.advance()
		return NewParamRef(decl, decl.Variable.DeclType, tok.Rg), nil
	case TokenFunctionName:
		p.advance()
		return NewFunctionRef(decl, tok.Rg), nil
	case TokenEnumMemberName:
		p.advance()
		member, ok := findEnumMember(decl, tok.Text)
		if !ok {
			return nil, p.errorf("enum '%s' has no member '%s'", decl.Name, tok.Text)
		}
		return NewEnumMemberRef(decl, member, tok.Rg), nil
	case TokenPrimitiveName, TokenStructureName, TokenEnumName, TokenAliasName:
		return p.parseConstructor(false)
	default:
		return nil, p.errorf("'%s' is not declared", tok.Text)
	}
}

func findEnumMember(decl *Declaration, name string) (EnumMember, bool) {
	if decl.Enum == nil {
		return EnumMember{}, false
	}
	for _, m := range decl.Enum.Members {
		if m.Name == name {
			return m, true
		}
	}
	return EnumMember{}, false
}

// parseConstructor parses `Type { args... }` or `Type[] { args... }`,
// starting at the type name (the caller has already consumed `new`, if
// present, but not the type itself).
func (p *parserState) parseConstructor(heap bool) (Expr, error) {
	startTok := p.peek()
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	isArray := false
	if lvl, ok := typ.TopLevel(); ok && lvl.Kind == LevelArray {
		isArray = true
		typ = typ.PopLevel()
	}

	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var args []Expr
	if !p.isPunct("}") {
		for {
			arg, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	closeTok, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}

	ctor, err := NewConstructorExpr(typ, args, heap, isArray, NewRange(startTok.Rg.Start, closeTok.Rg.End))
	if err != nil {
		return nil, err
	}
	ctor.TmpVarName = p.builder.NextTmpVarName()
	return ctor, nil
}
