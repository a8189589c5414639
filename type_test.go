package forge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// declByIdentity compares *Declaration by pointer identity rather than
// descending into it: a Declaration's payloads can point back at types
// that reference the Declaration itself (a self-referential struct
// member, see ast_test.go's self-referential member case), and a plain
// reflect-based walk would recurse forever.
var declByIdentity = cmp.Comparer(func(a, b *Declaration) bool { return a == b })

func TestTypeWithLevelRoundTripsStructurally(t *testing.T) {
	base := NewPrimitiveType(PrimInt)
	built := base.WithLevel(PointerLevel()).WithLevel(ArrayLevel(nil))

	want := Type{
		Kind:             KindPrimitive,
		PrimitiveOrdinal: PrimInt,
		Levels:           []Level{PointerLevel(), ArrayLevel(nil)},
	}

	if diff := cmp.Diff(want, built, declByIdentity); diff != "" {
		t.Fatalf("WithLevel result mismatch (-want +got):\n%s", diff)
	}

	popped := built.PopLevel()
	if diff := cmp.Diff(base.WithLevel(PointerLevel()), popped, declByIdentity); diff != "" {
		t.Fatalf("PopLevel result mismatch (-want +got):\n%s", diff)
	}
}

// TestDisplayMangledRoundTrip is spec section 8's worked example: a
// type built from int*[] displays as "int*[]" and mangles as
// "int__cst_pointer__cst_array".
func TestDisplayMangledRoundTrip(t *testing.T) {
	ty := NewPrimitiveType(PrimInt).WithLevel(PointerLevel()).WithLevel(ArrayLevel(nil))
	assert.Equal(t, "int*[]", ty.Display())
	assert.Equal(t, "int__cst_pointer__cst_array", ty.Mangle())
}

func TestCanAssignTruncationMatrix(t *testing.T) {
	assert.False(t, CanAssign(NewPrimitiveType(PrimInt), NewPrimitiveType(PrimLong)))
	assert.True(t, CanAssign(NewPrimitiveType(PrimLong), NewPrimitiveType(PrimInt)))
	assert.False(t, CanAssign(NewPrimitiveType(PrimInt), NewPrimitiveType(PrimUInt)))
	assert.False(t, CanAssign(NewPrimitiveType(PrimByte), NewPrimitiveType(PrimFloat)))
}

func TestMergePrioritizedKeepsLHSRegardlessOfWidth(t *testing.T) {
	merged, ok := MergePrioritized(NewPrimitiveType(PrimByte), NewPrimitiveType(PrimLong))
	require.True(t, ok)
	assert.True(t, Equal(NewPrimitiveType(PrimByte), merged))
}

// TestTypeEqualSharedDeclPointerWhenStructurallyCompared exercises
// go-cmp directly on two independently-built struct Types sharing the
// same Declaration pointer, demonstrating that a structural diff (with
// Decl compared by identity) agrees with the package's own Equal.
func TestTypeEqualSharedDeclPointerWhenStructurallyCompared(t *testing.T) {
	ast := Init()
	builder := NewBuilder(ast)
	decl, err := builder.CompleteStructure(Span{}, "point", []Member{
		{Name: "x", Type: NewPrimitiveType(PrimInt)},
	})
	require.NoError(t, err)

	a := NewDeclType(KindStructure, decl)
	b := NewDeclType(KindStructure, decl)

	if diff := cmp.Diff(a, b, declByIdentity); diff != "" {
		t.Fatalf("two Type values over the same declaration should be identical (-a +b):\n%s", diff)
	}
	assert.True(t, Equal(a, b))
}
