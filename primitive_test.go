package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPrimitiveOrderingIntegerFloatingMerge verifies spec section 8's
// primitive-ordering property: merging any INTEGER with any FLOATING
// primitive lands in FLOATING with capacity at least the wider of the
// two inputs.
func TestPrimitiveOrderingIntegerFloatingMerge(t *testing.T) {
	for ord := rangeInteger.Low; ord < rangeInteger.High; ord++ {
		for fOrd := rangeFloating.Low; fOrd < rangeFloating.High; fOrd++ {
			merged, ok := MergeExtend(NewPrimitiveType(ord), NewPrimitiveType(fOrd))
			assert.True(t, ok, "merging %s with %s should succeed", primitiveTable[ord].Name, primitiveTable[fOrd].Name)
			assert.True(t, IsFloating(merged.PrimitiveOrdinal), "%s + %s should merge to FLOATING", primitiveTable[ord].Name, primitiveTable[fOrd].Name)

			want := primitiveTable[ord].Capacity
			if primitiveTable[fOrd].Capacity > want {
				want = primitiveTable[fOrd].Capacity
			}
			assert.GreaterOrEqual(t, primitiveTable[merged.PrimitiveOrdinal].Capacity, want)
		}
	}
}

func TestEqualityReflexiveForEveryPrimitive(t *testing.T) {
	for ord := 0; ord < primCount; ord++ {
		if ord == primAny {
			continue
		}
		pt := NewPrimitiveType(ord)
		assert.True(t, Equal(pt, pt), "%s should equal itself", primitiveTable[ord].Name)
	}
}

func TestCharByteAliasing(t *testing.T) {
	assert.True(t, Equal(NewPrimitiveType(PrimChar), NewPrimitiveType(PrimByte)))
	assert.True(t, Equal(NewPrimitiveType(PrimByte), NewPrimitiveType(PrimChar)))
	assert.True(t, Equal(NewPrimitiveType(PrimUChar), NewPrimitiveType(PrimUByte)))
	assert.True(t, Equal(NewPrimitiveType(PrimUByte), NewPrimitiveType(PrimUChar)))

	// The pairing is exclusive: char/byte never aliases uchar/ubyte.
	assert.False(t, Equal(NewPrimitiveType(PrimChar), NewPrimitiveType(PrimUChar)))
}

func TestAssignRejectsTruncation(t *testing.T) {
	cases := []struct {
		name       string
		lhs, value int
		want       bool
	}{
		{"int <- long", PrimInt, PrimLong, false},
		{"long <- int", PrimLong, PrimInt, true},
		{"int <- uint", PrimInt, PrimUInt, false},
		{"byte <- float", PrimByte, PrimFloat, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := CanAssign(NewPrimitiveType(c.lhs), NewPrimitiveType(c.value))
			assert.Equal(t, c.want, got)
		})
	}
}
