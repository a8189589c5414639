package forge

// DeclKind tags the payload a Declaration carries (spec section 3,
// component C).
type DeclKind int

const (
	DeclImport DeclKind = iota
	DeclAlias
	DeclStructure
	DeclEnum
	DeclFunction
	DeclVariable
)

func (k DeclKind) String() string {
	switch k {
	case DeclImport:
		return "import"
	case DeclAlias:
		return "alias"
	case DeclStructure:
		return "structure"
	case DeclEnum:
		return "enum"
	case DeclFunction:
		return "function"
	case DeclVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// TokenClass is the nonterminal class an identifier is classified as
// when the lexer re-encounters it (spec section 3's token/ctoken
// fields, section 4.C's identifier classification).
type TokenClass int

const (
	TokenIdentifier TokenClass = iota
	TokenPrimitiveName
	TokenStructureName
	TokenEnumName
	TokenAliasName
	TokenFunctionName
	TokenVariableName
	TokenParameterName
	TokenEnumMemberName
)

// Member is one field of a structure declaration.
type Member struct {
	Name string
	Type Type
}

// StructurePayload is the body of a `structure` declaration. Forward
// declarations (`struct X;`) have no StructurePayload until completed.
type StructurePayload struct {
	Members []Member
}

// EnumMemberKind distinguishes whether a member's value was written
// explicitly or assigned sequentially. Adopted from the richer of the
// two divergent context headers in the original source (see Open
// Questions): implicit/explicit/unknown, not a boolean.
type EnumMemberKind int

const (
	EnumValueUnknown EnumMemberKind = iota
	EnumValueImplicit
	EnumValueExplicit
)

type EnumMember struct {
	Name  string
	Kind  EnumMemberKind
	Value int64
}

// EnumPayload is the body of an `enum` declaration. ValueKind mirrors
// the mutual-exclusion rule from section 4.G: the first member decides
// whether the enum is implicit or explicit, and every later member must
// conform.
type EnumPayload struct {
	Members  []EnumMember
	ValueKind EnumMemberKind
}

// Param is one parameter of a function declaration.
type Param struct {
	Name string
	Type Type
}

// FunctionPayload is the signature (and, for the origin file in pass 3,
// body) of a `function` declaration. Variadic marks a C-style trailing
// `...` parameter (section 4.E's invocation rule).
type FunctionPayload struct {
	Params     []Param
	ReturnType Type
	Variadic   bool
	Body       *Block // nil until pass 3 fills it in, or for is_extern declarations
}

// AliasPayload is the target type of a `type X = T;` declaration. The
// target is stored by deep copy (section 4.G), not a shared reference,
// so later mutation of the source type cannot leak into the alias.
type AliasPayload struct {
	Target Type
}

// GenericPayload lists the concrete implementations a generic
// declaration currently resolves to. Gated behind
// check.allow_generics: spec.md's Open Questions note that no public
// surface constructs or applies AST_TYPE_GENERIC, so nothing populates
// this beyond what a future grammar extension would need.
type GenericPayload struct {
	Implementations []Type
}

// ImportPayload records where an import statement's declarations came
// from.
type ImportPayload struct {
	Path   string
	Native bool
}

// VariablePayload holds a variable's declared type and, when it has
// one, its initializer expression (section 4.G). The SRC parser attaches
// a global's initializer at pass 3, for the origin file only.
type VariablePayload struct {
	DeclType    Type
	Initializer Expr // nil if uninitialized
}

// Declaration is the tagged record every AST entry is built from (spec
// section 3, component C).
type Declaration struct {
	Kind DeclKind
	Name string // empty for DeclImport

	Structure *StructurePayload
	Enum      *EnumPayload
	Function  *FunctionPayload
	Alias     *AliasPayload
	Variable  *VariablePayload
	Generic   *GenericPayload
	Import    *ImportPayload

	// IsFull distinguishes a fully defined declaration from a forward
	// one (structure/enum with no body yet, function with a signature
	// but no body).
	IsFull bool

	// IsNative marks a declaration that originated from a C header via
	// import native, produced by the cnative translator (component I).
	IsNative bool

	// IsExtern is set by the import driver on every declaration pulled
	// in transitively (i.e. not from the origin file): such
	// declarations are emitted as forward declarations only, never
	// definitions (spec section 6).
	IsExtern bool

	// NativeFilename is the C header path this declaration was
	// translated from, when IsNative is true.
	NativeFilename string

	Token  TokenClass
	CToken TokenClass

	Location SourceLocation
}
