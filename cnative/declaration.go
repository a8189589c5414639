// Package cnative converts declarations parsed out of preprocessed C
// source (component I, spec section 4.I) into the host module's own
// declaration model. Besides the specifier-list/declarator walk in this
// file (grounded on carbonsteel's language/native/declaration.c), the
// package holds a lexer and parser for the restricted subset of C
// declarations it reads (lexer.go, parser.go); it is not a full C
// grammar.
package cnative

import forge "github.com/andersonarc/cstforge"

// StorageClassSpecifier is one of C's declaration storage classes.
// Only Typedef changes translation behavior; the rest are recorded for
// completeness and otherwise ignored, matching the original translator
// ("ignore: storage class specifiers").
type StorageClassSpecifier int

const (
	StorageTypedef StorageClassSpecifier = iota
	StorageExtern
	StorageStatic
	StorageThreadLocal
	StorageAuto
	StorageRegister
)

// FunctionSpecifier is `inline` or `_Noreturn`; neither affects SRC
// translation, same as storage classes.
type FunctionSpecifier int

const (
	FunctionInline FunctionSpecifier = iota
	FunctionNoreturn
)

// TypeQualifier is `const`/`restrict`/`volatile`/`_Atomic` applied to a
// declarator; SRC has no qualifier system, so these are recorded only
// for completeness and never change translation.
type TypeQualifier int

const (
	QualifierConst TypeQualifier = iota
	QualifierRestrict
	QualifierVolatile
	QualifierAtomic
)

// TypeSpecifierKind tags one element of a declaration's type-specifier
// list (the `signed`/`unsigned`/`_Complex`/`_Imaginary`/`_Atomic`/type
// tokens C allows to combine).
type TypeSpecifierKind int

const (
	SpecifierSigned TypeSpecifierKind = iota
	SpecifierUnsigned
	SpecifierComplex
	SpecifierImaginary
	SpecifierAtomic
	SpecifierType
)

// TypeRefKind discriminates the three shapes a SpecifierType token can
// take: a bare primitive keyword, a reference to an existing typedef
// name, or a struct/enum tag (with or without an inline body).
type TypeRefKind int

const (
	TypeRefPrimitive TypeRefKind = iota
	TypeRefTypedef
	TypeRefStruct
	TypeRefEnum
)

// TypeRef is the payload of a SpecifierType type specifier.
type TypeRef struct {
	Kind TypeRefKind

	// PrimitiveOrdinal is valid when Kind == TypeRefPrimitive: the
	// forge primitive ordinal the bare C keyword (`int`, `long`,
	// `double`, ...) maps to before any signed/unsigned/long-chain
	// adjustment.
	PrimitiveOrdinal int

	// Name is the typedef name (TypeRefTypedef) or the struct/enum tag
	// (TypeRefStruct/TypeRefEnum); empty for an anonymous struct/enum.
	Name string

	// IsFull is only meaningful for TypeRefStruct/TypeRefEnum: whether
	// this occurrence carries a body (`struct X { ... }`) or is a bare
	// tag mention/forward reference (`struct X`).
	IsFull bool

	// Members is the struct body, present when Kind == TypeRefStruct
	// && IsFull.
	Members []forge.Member
	// EnumMembers is the enum body, present when Kind == TypeRefEnum
	// && IsFull.
	EnumMembers []forge.EnumMemberSpec
}

// TypeSpecifier is one element of a C declaration-specifier list, in
// the order the C source wrote it (not reversed — see
// Translator.translateSpecs for why order matters).
type TypeSpecifier struct {
	Kind TypeSpecifierKind
	Ref  TypeRef // meaningful only when Kind == SpecifierType
}

// DeclarationSpecifiers is the full specifier list preceding a C
// declaration's declarators.
type DeclarationSpecifiers struct {
	Storage    []StorageClassSpecifier
	Function   []FunctionSpecifier
	Qualifiers []TypeQualifier
	Specifiers []TypeSpecifier
}

// Declarator is one comma-separated declarator of a C declaration:
// a name, its pointer/array suffixes (outermost last, same convention
// as forge.Type.Levels), and — for a function declarator — its
// parameter list.
type Declarator struct {
	Name       string
	Levels     []forge.Level
	IsFunction bool
	Params     []forge.Param
	Variadic   bool
}

// Declaration is one full C declaration: a specifier list, its
// declarators, and any nested declarations a struct/enum body
// introduced inline (C permits declaring a named struct as a side
// effect of an otherwise-unrelated declaration).
type Declaration struct {
	Specs       DeclarationSpecifiers
	Declarators []Declarator
	Nested      []Declaration
}
