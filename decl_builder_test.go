package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteEnumRejectsMixedImplicitAndExplicit(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	_, err := builder.CompleteEnum(Span{}, "mixed", []EnumMemberSpec{
		{Name: "A"},
		{Name: "B", HasExplicit: true, ExplicitValue: 5},
	})
	assert.Error(t, err)
}

func TestCompleteEnumAssignsSequentialImplicitValues(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	decl, err := builder.CompleteEnum(Span{}, "color", []EnumMemberSpec{
		{Name: "RED"},
		{Name: "GREEN"},
		{Name: "BLUE"},
	})
	require.NoError(t, err)
	require.Len(t, decl.Enum.Members, 3)
	assert.EqualValues(t, 0, decl.Enum.Members[0].Value)
	assert.EqualValues(t, 1, decl.Enum.Members[1].Value)
	assert.EqualValues(t, 2, decl.Enum.Members[2].Value)
}

func TestCompleteEnumKeepsExplicitValues(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	decl, err := builder.CompleteEnum(Span{}, "color", []EnumMemberSpec{
		{Name: "RED", HasExplicit: true, ExplicitValue: 2},
		{Name: "GREEN", HasExplicit: true, ExplicitValue: -1},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, decl.Enum.Members[0].Value)
	assert.EqualValues(t, -1, decl.Enum.Members[1].Value)
}

func TestDeclareFunctionSignatureThenAttachBodyPromotesToFull(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	fwd, err := builder.DeclareFunctionSignature(Span{}, "main", nil, NewPrimitiveType(PrimInt), false, nil)
	require.NoError(t, err)
	assert.False(t, fwd.IsFull)

	body := &Block{Stmts: []Stmt{ReturnStmt{Value: &NumberExpr{Text: "0"}}}}
	require.NoError(t, builder.AttachFunctionBody(Span{}, fwd, body))
	assert.True(t, fwd.IsFull)
	assert.Same(t, body, fwd.Function.Body)
}

func TestAttachFunctionBodyRejectsRedefinition(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	body := &Block{Stmts: []Stmt{ReturnStmt{Value: &NumberExpr{Text: "0"}}}}
	decl, err := builder.DeclareFunctionSignature(Span{}, "main", nil, NewPrimitiveType(PrimInt), false, body)
	require.NoError(t, err)

	err = builder.AttachFunctionBody(Span{}, decl, body)
	assert.Error(t, err)
}

func TestDeclareAliasDeepCopiesLevels(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	target := NewPrimitiveType(PrimInt).WithLevel(PointerLevel())
	decl, err := builder.DeclareAlias(Span{}, "IntPtr", target)
	require.NoError(t, err)

	target.Levels[0] = ArrayLevel(nil)
	assert.Equal(t, LevelPointer, decl.Alias.Target.Levels[0].Kind, "mutating the caller's Levels slice must not affect the stored alias")
}

func TestDeclareVariableRejectsUnassignableInitializer(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	longLit, err := NewIntegerLiteral(1<<40, Range{})
	require.NoError(t, err)

	_, err = builder.DeclareVariable(Span{}, "x", NewPrimitiveType(PrimInt), longLit)
	assert.Error(t, err)
}

func TestNextTmpVarNameIsSequentialPerBuilder(t *testing.T) {
	builder := NewBuilder(Init())
	assert.Equal(t, "_cst_tmpvar_0_", builder.NextTmpVarName())
	assert.Equal(t, "_cst_tmpvar_1_", builder.NextTmpVarName())

	other := NewBuilder(Init())
	assert.Equal(t, "_cst_tmpvar_0_", other.NextTmpVarName(), "the counter is per-Builder, not global")
}
