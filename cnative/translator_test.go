package cnative

import (
	"testing"

	forge "github.com/andersonarc/cstforge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct {
	decls []Declaration
	err   error
}

func (s stubParser) ParseDeclarations(_ []byte) ([]Declaration, error) { return s.decls, s.err }

func newTranslator(decls []Declaration) (*Translator, *forge.AST, *forge.Builder, *forge.WarningSink) {
	ast := forge.Init()
	builder := forge.NewBuilder(ast)
	warnings := forge.NewWarningSink()
	tr := NewTranslator(stubParser{decls: decls}, warnings)
	return tr, ast, builder, warnings
}

func TestTranslatePlainTypedef(t *testing.T) {
	decls := []Declaration{
		{
			Specs: DeclarationSpecifiers{
				Storage:    []StorageClassSpecifier{StorageTypedef},
				Specifiers: []TypeSpecifier{{Kind: SpecifierType, Ref: TypeRef{Kind: TypeRefPrimitive, PrimitiveOrdinal: forge.PrimLong}}},
			},
			Declarators: []Declarator{{Name: "ssize_t"}},
		},
	}
	tr, ast, builder, _ := newTranslator(decls)

	require.NoError(t, tr.Translate(nil, builder, "stdio.h", nil))

	decl := ast.Lookup("ssize_t")
	require.NotNil(t, decl)
	assert.Equal(t, forge.DeclAlias, decl.Kind)
	assert.True(t, decl.IsNative)
	assert.Equal(t, "stdio.h", decl.NativeFilename)
	assert.True(t, forge.Equal(forge.NewPrimitiveType(forge.PrimLong), decl.Alias.Target))
}

func TestTranslateUnsignedInt(t *testing.T) {
	decls := []Declaration{
		{
			Specs: DeclarationSpecifiers{
				Storage: []StorageClassSpecifier{StorageTypedef},
				Specifiers: []TypeSpecifier{
					{Kind: SpecifierUnsigned},
					{Kind: SpecifierType, Ref: TypeRef{Kind: TypeRefPrimitive, PrimitiveOrdinal: forge.PrimInt}},
				},
			},
			Declarators: []Declarator{{Name: "uint32_alias"}},
		},
	}
	tr, ast, builder, _ := newTranslator(decls)

	require.NoError(t, tr.Translate(nil, builder, "stdint.h", nil))

	decl := ast.Lookup("uint32_alias")
	require.NotNil(t, decl)
	assert.True(t, forge.Equal(forge.NewPrimitiveType(forge.PrimUInt), decl.Alias.Target))
}

func TestTranslateLongDoubleWarns(t *testing.T) {
	decls := []Declaration{
		{
			Specs: DeclarationSpecifiers{
				Specifiers: []TypeSpecifier{
					{Kind: SpecifierType, Ref: TypeRef{Kind: TypeRefPrimitive, PrimitiveOrdinal: forge.PrimLong}},
					{Kind: SpecifierType, Ref: TypeRef{Kind: TypeRefPrimitive, PrimitiveOrdinal: forge.PrimDouble}},
				},
			},
			Declarators: []Declarator{{Name: "ld"}},
		},
	}
	tr, ast, builder, warnings := newTranslator(decls)

	require.NoError(t, tr.Translate(nil, builder, "math.h", nil))

	decl := ast.Lookup("ld")
	require.NotNil(t, decl)
	assert.True(t, forge.Equal(forge.NewPrimitiveType(forge.PrimDouble), decl.Alias.Target))
	assert.Equal(t, 1, warnings.CountKind(forge.WarningPrecisionLoss))
}

func TestTranslateStructRepeatIsIgnored(t *testing.T) {
	structRef := TypeRef{
		Kind: TypeRefStruct, Name: "stat", IsFull: true,
		Members: []forge.Member{{Name: "st_size", Type: forge.NewPrimitiveType(forge.PrimLong)}},
	}
	decls := []Declaration{
		{
			Specs:       DeclarationSpecifiers{Specifiers: []TypeSpecifier{{Kind: SpecifierType, Ref: structRef}}},
			Declarators: nil,
		},
		{
			Specs:       DeclarationSpecifiers{Specifiers: []TypeSpecifier{{Kind: SpecifierType, Ref: structRef}}},
			Declarators: []Declarator{{Name: "statbuf_alias"}},
		},
	}
	tr, ast, builder, _ := newTranslator(decls)

	require.NoError(t, tr.Translate(nil, builder, "sys/stat.h", nil))

	decl := ast.Lookup("struct_stat")
	require.NotNil(t, decl)
	assert.Len(t, decl.Structure.Members, 1)

	aliasDecl := ast.Lookup("statbuf_alias")
	require.NotNil(t, aliasDecl)
	assert.Equal(t, forge.KindStructure, aliasDecl.Alias.Target.Kind)
	assert.Same(t, decl, aliasDecl.Alias.Target.Decl)
}

func TestTranslateCharPointerBecomesArray(t *testing.T) {
	decls := []Declaration{
		{
			Specs: DeclarationSpecifiers{
				Specifiers: []TypeSpecifier{{Kind: SpecifierType, Ref: TypeRef{Kind: TypeRefPrimitive, PrimitiveOrdinal: forge.PrimChar}}},
			},
			Declarators: []Declarator{{Name: "argv0", Levels: []forge.Level{forge.PointerLevel()}}},
		},
	}
	tr, ast, builder, _ := newTranslator(decls)

	require.NoError(t, tr.Translate(nil, builder, "stdlib.h", nil))

	decl := ast.Lookup("argv0")
	require.NotNil(t, decl)
	require.Len(t, decl.Alias.Target.Levels, 1)
	assert.Equal(t, forge.LevelArray, decl.Alias.Target.Levels[0].Kind)
}

func TestTranslateFunctionSignature(t *testing.T) {
	decls := []Declaration{
		{
			Specs: DeclarationSpecifiers{
				Specifiers: []TypeSpecifier{{Kind: SpecifierType, Ref: TypeRef{Kind: TypeRefPrimitive, PrimitiveOrdinal: forge.PrimInt}}},
			},
			Declarators: []Declarator{{
				Name:       "printf",
				IsFunction: true,
				Params:     []forge.Param{{Name: "fmt", Type: forge.NewPrimitiveType(forge.PrimChar).WithLevel(forge.ArrayLevel(nil))}},
				Variadic:   true,
			}},
		},
	}
	tr, ast, builder, _ := newTranslator(decls)

	require.NoError(t, tr.Translate(nil, builder, "stdio.h", nil))

	decl := ast.Lookup("printf")
	require.NotNil(t, decl)
	assert.Equal(t, forge.DeclFunction, decl.Kind)
	assert.True(t, decl.IsFull)
	assert.True(t, decl.Function.Variadic)
}

func TestTranslateTypedefFunctionPointerWarns(t *testing.T) {
	decls := []Declaration{
		{
			Specs: DeclarationSpecifiers{
				Storage:    []StorageClassSpecifier{StorageTypedef},
				Specifiers: []TypeSpecifier{{Kind: SpecifierType, Ref: TypeRef{Kind: TypeRefPrimitive, PrimitiveOrdinal: forge.PrimVoid}}},
			},
			Declarators: []Declarator{{Name: "callback_t", IsFunction: true}},
		},
	}
	tr, ast, builder, warnings := newTranslator(decls)

	require.NoError(t, tr.Translate(nil, builder, "signal.h", nil))

	decl := ast.Lookup("callback_t")
	require.NotNil(t, decl)
	assert.Equal(t, forge.DeclAlias, decl.Kind)
	assert.Equal(t, 1, warnings.CountKind(forge.WarningUnsupportedSpecifier))
}
