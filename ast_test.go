package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestForwardThenFullStructureIsOneDeclaration is spec section 8's
// forward->full promotion property: parsing `struct X;` then later
// `struct X { int a; }` yields exactly one declaration, is_full=true,
// visible both by list and by index.
func TestForwardThenFullStructureIsOneDeclaration(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	fwd, err := builder.BeginStructure(Span{}, "X")
	require.NoError(t, err)
	assert.False(t, fwd.IsFull)

	full, err := builder.CompleteStructure(Span{}, "X", []Member{{Name: "a", Type: NewPrimitiveType(PrimInt)}})
	require.NoError(t, err)
	assert.True(t, full.IsFull)
	assert.Same(t, fwd, full, "promotion mutates the existing forward declaration in place")

	n := 0
	for _, d := range ast.Declarations() {
		if d.Name == "X" {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.Same(t, full, ast.Lookup("X"))
}

func TestDoubleFullStructureDefinitionIsRedefinitionError(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	_, err := builder.CompleteStructure(Span{}, "X", []Member{{Name: "a", Type: NewPrimitiveType(PrimInt)}})
	require.NoError(t, err)

	_, err = builder.CompleteStructure(Span{}, "X", []Member{{Name: "b", Type: NewPrimitiveType(PrimInt)}})
	assert.Error(t, err)
}

// TestSelfReferentialStructureMemberResolvesToSameDeclaration is spec
// section 8 scenario 2: `struct N; struct N { N* next; int v; }` gives a
// member whose type is pointer-to-N resolving to that same declaration.
func TestSelfReferentialStructureMemberResolvesToSameDeclaration(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	fwd, err := builder.BeginStructure(Span{}, "N")
	require.NoError(t, err)

	selfPtr := NewDeclType(KindStructure, fwd).WithLevel(PointerLevel())
	full, err := builder.CompleteStructure(Span{}, "N", []Member{
		{Name: "next", Type: selfPtr},
		{Name: "v", Type: NewPrimitiveType(PrimInt)},
	})
	require.NoError(t, err)

	assert.Same(t, full, full.Structure.Members[0].Type.Decl)
}

func TestFunctionForwardDeclarationRejectsConflictingSignature(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)

	_, err := builder.DeclareFunctionSignature(Span{}, "f", nil, NewPrimitiveType(PrimInt), false, nil)
	require.NoError(t, err)

	_, err = builder.DeclareFunctionSignature(Span{}, "f", nil, NewPrimitiveType(PrimLong), false, nil)
	assert.Error(t, err)
}
