package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitProgramStructureEnumFunction(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	_, err := builder.CompleteStructure(Span{}, "point", []Member{
		{Name: "x", Type: NewPrimitiveType(PrimInt)},
		{Name: "y", Type: NewPrimitiveType(PrimInt)},
	})
	require.NoError(t, err)

	_, err = builder.CompleteEnum(Span{}, "color", []EnumMemberSpec{
		{Name: "RED"},
		{Name: "GREEN"},
	})
	require.NoError(t, err)

	body := &Block{Stmts: []Stmt{
		ReturnStmt{Value: &NumberExpr{Text: "0"}},
	}}
	_, err = builder.DeclareFunctionSignature(Span{}, "main", nil, NewPrimitiveType(PrimInt), false, body)
	require.NoError(t, err)

	out, err := EmitProgram(ast, NewConfig())
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "#include <stdint.h>")
	assert.Contains(t, src, "typedef struct point point;")
	assert.Contains(t, src, "struct point {")
	assert.Contains(t, src, "int32_t x;")
	assert.Contains(t, src, "_cst_enum__color__member__RED = 0")
	assert.Contains(t, src, "_cst_enum__color__member__GREEN = 1")
	assert.Contains(t, src, "int32_t main(void) {")
	assert.Contains(t, src, "return 0;")
}

func TestEmitProgramExternFunctionHasNoBody(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	decl, err := builder.DeclareFunctionSignature(Span{}, "helper", nil, NewPrimitiveType(PrimVoid), false, nil)
	require.NoError(t, err)
	decl.IsExtern = true

	out, err := EmitProgram(ast, NewConfig())
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "void helper(void);")
	assert.NotContains(t, src, "void helper(void) {")
}

func TestEmitProgramNativeDeclarationSkipsDefinitionButIncludesHeader(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	decl, err := builder.DeclareAlias(Span{}, "FILE", NewPrimitiveType(PrimByte))
	require.NoError(t, err)
	decl.IsNative = true
	decl.NativeFilename = "stdio.h"

	out, err := EmitProgram(ast, NewConfig())
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "#include <stdio.h>")
	assert.NotContains(t, src, "typedef")
}
