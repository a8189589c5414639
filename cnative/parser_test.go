package cnative

import (
	"testing"

	forge "github.com/andersonarc/cstforge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeclarationsPlainTypedef(t *testing.T) {
	decls, err := NewCParser().ParseDeclarations([]byte(`typedef long ssize_t;`))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	d := decls[0]
	require.Contains(t, d.Specs.Storage, StorageTypedef)
	require.Len(t, d.Specs.Specifiers, 1)
	assert.Equal(t, TypeRefPrimitive, d.Specs.Specifiers[0].Ref.Kind)
	assert.Equal(t, forge.PrimLong, d.Specs.Specifiers[0].Ref.PrimitiveOrdinal)
	require.Len(t, d.Declarators, 1)
	assert.Equal(t, "ssize_t", d.Declarators[0].Name)
}

func TestParseDeclarationsPointerAndMultipleDeclarators(t *testing.T) {
	decls, err := NewCParser().ParseDeclarations([]byte(`int *a, b, **c;`))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	d := decls[0]
	require.Len(t, d.Declarators, 3)
	assert.Equal(t, "a", d.Declarators[0].Name)
	assert.Len(t, d.Declarators[0].Levels, 1)
	assert.Equal(t, "b", d.Declarators[1].Name)
	assert.Len(t, d.Declarators[1].Levels, 0)
	assert.Equal(t, "c", d.Declarators[2].Name)
	assert.Len(t, d.Declarators[2].Levels, 2)
}

func TestParseDeclarationsStructWithMembers(t *testing.T) {
	decls, err := NewCParser().ParseDeclarations([]byte(`
		struct point { int x; int y; };
		struct point origin;
	`))
	require.NoError(t, err)
	require.Len(t, decls, 2)

	structDecl := decls[0]
	require.Len(t, structDecl.Specs.Specifiers, 1)
	ref := structDecl.Specs.Specifiers[0].Ref
	assert.Equal(t, TypeRefStruct, ref.Kind)
	assert.Equal(t, "point", ref.Name)
	assert.True(t, ref.IsFull)
	require.Len(t, ref.Members, 2)
	assert.Equal(t, "x", ref.Members[0].Name)
	assert.True(t, forge.Equal(forge.NewPrimitiveType(forge.PrimInt), ref.Members[0].Type))

	useDecl := decls[1]
	useRef := useDecl.Specs.Specifiers[0].Ref
	assert.Equal(t, TypeRefStruct, useRef.Kind)
	assert.False(t, useRef.IsFull)
	require.Len(t, useDecl.Declarators, 1)
	assert.Equal(t, "origin", useDecl.Declarators[0].Name)
}

func TestParseDeclarationsEnumExplicitAndImplicitValues(t *testing.T) {
	decls, err := NewCParser().ParseDeclarations([]byte(`enum color { RED = 2, GREEN, BLUE = -1 };`))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	ref := decls[0].Specs.Specifiers[0].Ref
	require.Len(t, ref.EnumMembers, 3)
	assert.Equal(t, "RED", ref.EnumMembers[0].Name)
	assert.True(t, ref.EnumMembers[0].HasExplicit)
	assert.EqualValues(t, 2, ref.EnumMembers[0].ExplicitValue)
	assert.False(t, ref.EnumMembers[1].HasExplicit)
	assert.True(t, ref.EnumMembers[2].HasExplicit)
	assert.EqualValues(t, -1, ref.EnumMembers[2].ExplicitValue)
}

func TestParseDeclarationsFunctionVariadic(t *testing.T) {
	decls, err := NewCParser().ParseDeclarations([]byte(`int printf(const char *fmt, ...);`))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	d := decls[0].Declarators[0]
	assert.Equal(t, "printf", d.Name)
	assert.True(t, d.IsFunction)
	assert.True(t, d.Variadic)
	require.Len(t, d.Params, 1)
	assert.Equal(t, "fmt", d.Params[0].Name)
}

func TestParseDeclarationsVoidParamsMeansNoParams(t *testing.T) {
	decls, err := NewCParser().ParseDeclarations([]byte(`void init(void);`))
	require.NoError(t, err)

	d := decls[0].Declarators[0]
	assert.True(t, d.IsFunction)
	assert.Len(t, d.Params, 0)
	assert.False(t, d.Variadic)
}

func TestParseDeclarationsArrayDeclarator(t *testing.T) {
	decls, err := NewCParser().ParseDeclarations([]byte(`char buf[256];`))
	require.NoError(t, err)

	d := decls[0].Declarators[0]
	require.Len(t, d.Levels, 1)
	assert.Equal(t, forge.LevelArray, d.Levels[0].Kind)
}

func TestParseDeclarationsSkipsInitializer(t *testing.T) {
	decls, err := NewCParser().ParseDeclarations([]byte(`int x = 5, y = compute(1, 2);`))
	require.NoError(t, err)
	require.Len(t, decls, 1)
	require.Len(t, decls[0].Declarators, 2)
	assert.Equal(t, "x", decls[0].Declarators[0].Name)
	assert.Equal(t, "y", decls[0].Declarators[1].Name)
}

func TestParseDeclarationsUnsignedLong(t *testing.T) {
	decls, err := NewCParser().ParseDeclarations([]byte(`typedef unsigned long size_t;`))
	require.NoError(t, err)
	ref := decls[0].Specs.Specifiers[1].Ref
	assert.Equal(t, TypeRefPrimitive, ref.Kind)
	assert.Equal(t, forge.PrimLong, ref.PrimitiveOrdinal)
	require.Len(t, decls[0].Specs.Specifiers, 2)
	assert.Equal(t, SpecifierUnsigned, decls[0].Specs.Specifiers[0].Kind)
}
