package forge

// Builder finalizes declarations from parser events (spec section
// 4.G): structures and enums can be forward-declared and later
// completed; function declarations upgrade to full only when the
// signature is identical; enums enforce the implicit-XOR-explicit
// values rule; aliases store their target type by deep copy; variable
// initializers attach a constant-evaluable expression.
//
// TmpVarCounter is per-Builder (one Builder per compile/emission unit),
// matching carbonsteel's include/copy.h counter-reset semantics rather
// than a package-level global (see SPEC_FULL.md's resolved ambiguity).
type Builder struct {
	ast               *AST
	TmpVarCounter     int
	currentFileExtern bool
}

func NewBuilder(ast *AST) *Builder {
	return &Builder{ast: ast}
}

// SetCurrentFileExtern tells register whether the file currently being
// driven is the origin file or an import: every declaration installed
// while extern is true is marked Declaration.IsExtern, since it is
// defined elsewhere and the emitter must not produce a body for it
// (section 6). The driver calls this once per file before handing it
// to a SourceParser/NativeTranslator pass; AttachFunctionBody and
// AttachVariableInitializer don't call register and so never revisit
// a declaration's IsExtern once set here.
func (b *Builder) SetCurrentFileExtern(extern bool) {
	b.currentFileExtern = extern
}

// AST returns the symbol table this Builder writes to, for callers (the
// native translator in particular) that need a read path into it
// without threading a second *AST everywhere a *Builder already flows.
func (b *Builder) AST() *AST { return b.ast }

// NextTmpVarName allocates the next `_cst_tmpvar_<n>_` name for a
// constructor expression that needs to be hoisted by the emitter
// (spec section 4.E/6).
func (b *Builder) NextTmpVarName() string {
	n := b.TmpVarCounter
	b.TmpVarCounter++
	return tmpVarName(n)
}

func tmpVarName(n int) string {
	const prefix, suffix = "_cst_tmpvar_", "_"
	return prefix + itoa(n) + suffix
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// BeginStructure registers a forward structure declaration (`struct X;`).
func (b *Builder) BeginStructure(span Span, name string) (*Declaration, error) {
	decl := &Declaration{Kind: DeclStructure, Name: name, Token: TokenStructureName, CToken: TokenStructureName}
	return b.register(span, decl)
}

// CompleteStructure fills in the member list of a (possibly just
// forward-declared) structure, producing a full declaration.
func (b *Builder) CompleteStructure(span Span, name string, members []Member) (*Declaration, error) {
	decl := &Declaration{
		Kind: DeclStructure, Name: name, IsFull: true,
		Token: TokenStructureName, CToken: TokenStructureName,
		Structure: &StructurePayload{Members: members},
	}
	return b.register(span, decl)
}

// BeginEnum registers a forward enum declaration (`enum X;`).
func (b *Builder) BeginEnum(span Span, name string) (*Declaration, error) {
	decl := &Declaration{Kind: DeclEnum, Name: name, Token: TokenEnumName, CToken: TokenEnumName}
	return b.register(span, decl)
}

// EnumMemberSpec is one parsed enum-member clause, before sequential
// values are assigned to implicit members.
type EnumMemberSpec struct {
	Name          string
	HasExplicit   bool
	ExplicitValue int64
}

// CompleteEnum finalizes an enum's member list, enforcing section
// 4.G's mutual-exclusion rule: the first member decides whether the
// enum is implicit or explicit, and every later member must conform.
// Implicit values are assigned sequentially starting at zero.
func (b *Builder) CompleteEnum(span Span, name string, specs []EnumMemberSpec) (*Declaration, error) {
	if len(specs) == 0 {
		return nil, newSyntaxError(span, "enum '%s' has no members", name)
	}
	valueKind := EnumValueImplicit
	if specs[0].HasExplicit {
		valueKind = EnumValueExplicit
	}

	members := make([]EnumMember, len(specs))
	next := int64(0)
	for i, s := range specs {
		if s.HasExplicit != (valueKind == EnumValueExplicit) {
			return nil, newSyntaxError(span,
				"enum '%s': members must be either all-implicit or all-explicit, mixing at member '%s'",
				name, s.Name)
		}
		if valueKind == EnumValueExplicit {
			members[i] = EnumMember{Name: s.Name, Kind: EnumValueExplicit, Value: s.ExplicitValue}
			next = s.ExplicitValue + 1
		} else {
			members[i] = EnumMember{Name: s.Name, Kind: EnumValueImplicit, Value: next}
			next++
		}
	}

	decl := &Declaration{
		Kind: DeclEnum, Name: name, IsFull: true,
		Token: TokenEnumName, CToken: TokenEnumName,
		Enum: &EnumPayload{Members: members, ValueKind: valueKind},
	}
	return b.register(span, decl)
}

// DeclareFunctionSignature registers a function's signature, either as
// a forward declaration (body == nil) or — for the origin file's pass
// 3 — together with its body.
func (b *Builder) DeclareFunctionSignature(span Span, name string, params []Param, ret Type, variadic bool, body *Block) (*Declaration, error) {
	decl := &Declaration{
		Kind: DeclFunction, Name: name, IsFull: body != nil,
		Token: TokenFunctionName, CToken: TokenFunctionName,
		Function: &FunctionPayload{Params: params, ReturnType: ret, Variadic: variadic, Body: body},
	}
	return b.register(span, decl)
}

// AttachFunctionBody upgrades a previously-signature-only function
// declaration with its body (pass 3, origin file only).
func (b *Builder) AttachFunctionBody(span Span, decl *Declaration, body *Block) error {
	if decl.Kind != DeclFunction {
		return newInternalError("AttachFunctionBody called on a non-function declaration")
	}
	if decl.IsFull {
		return newSyntaxError(span, "redefinition of function '%s'", decl.Name)
	}
	decl.Function.Body = body
	decl.IsFull = true
	return nil
}

// AttachVariableInitializer upgrades a previously initializer-less
// variable declaration (pass 2) with its constant-evaluable initializer
// expression (pass 3, origin file only), mirroring AttachFunctionBody.
func (b *Builder) AttachVariableInitializer(span Span, decl *Declaration, init Expr) error {
	if decl.Kind != DeclVariable {
		return newInternalError("AttachVariableInitializer called on a non-variable declaration")
	}
	if !CanAssign(decl.Variable.DeclType, init.Props().Type) {
		return newSyntaxError(span, "cannot initialize '%s' of type '%s' with '%s'",
			decl.Name, decl.Variable.DeclType.Display(), init.Props().Type.Display())
	}
	decl.Variable.Initializer = init
	return nil
}

// DeclareAlias stores the target type by deep copy, per section 4.G.
func (b *Builder) DeclareAlias(span Span, name string, target Type) (*Declaration, error) {
	targetCopy := target
	targetCopy.Levels = append([]Level(nil), target.Levels...)
	decl := &Declaration{
		Kind: DeclAlias, Name: name, IsFull: true,
		Token: TokenAliasName, CToken: TokenAliasName,
		Alias: &AliasPayload{Target: targetCopy},
	}
	return b.register(span, decl)
}

// DeclareVariable attaches an optional initializer as a
// constant-evaluable expression. Section 4.G.
func (b *Builder) DeclareVariable(span Span, name string, declType Type, initializer Expr) (*Declaration, error) {
	if initializer != nil && !CanAssign(declType, initializer.Props().Type) {
		return nil, newSyntaxError(span, "cannot initialize '%s' of type '%s' with '%s'",
			name, declType.Display(), initializer.Props().Type.Display())
	}
	decl := &Declaration{
		Kind: DeclVariable, Name: name, IsFull: true,
		Token: TokenVariableName, CToken: TokenVariableName,
		Variable: &VariablePayload{DeclType: declType, Initializer: initializer},
	}
	return b.register(span, decl)
}

func (b *Builder) register(span Span, decl *Declaration) (*Declaration, error) {
	decl.IsExtern = b.currentFileExtern
	added, err := b.ast.AddDeclaration(span, decl)
	if err != nil {
		return nil, err
	}
	if added == nil {
		// Merged into an existing forward declaration; return that one.
		return b.ast.Lookup(decl.Name), nil
	}
	return added, nil
}
