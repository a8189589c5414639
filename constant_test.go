package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConstantFoldingWorkedExamples exercises spec section 8's four
// literal constant-folding examples directly against FoldArithmetic and
// ReinterpretNumeric (component F), independent of literal parsing.
func TestConstantFoldingWorkedExamples(t *testing.T) {
	t.Run("1 + 2 is byte 3", func(t *testing.T) {
		sum, err := FoldArithmetic("+", IntConstant(PrimByte, 1), IntConstant(PrimByte, 2), Span{})
		require.NoError(t, err)
		assert.Equal(t, ConstNumeric, sum.Kind)
		assert.True(t, IsInteger(sum.NumericOrdinal))
		assert.EqualValues(t, 3, sum.I64)
	})

	t.Run("1 + 2.0 is float 3.0", func(t *testing.T) {
		sum, err := FoldArithmetic("+", IntConstant(PrimByte, 1), FloatConstant(PrimFloat, 2.0), Span{})
		require.NoError(t, err)
		assert.Equal(t, PrimFloat, sum.NumericOrdinal)
		assert.Equal(t, 3.0, sum.F64)
	})

	t.Run("1u + 1 folds unsigned-then-widened", func(t *testing.T) {
		sum, err := FoldArithmetic("+", UintConstant(PrimUByte, 1), IntConstant(PrimByte, 1), Span{})
		require.NoError(t, err)
		assert.True(t, IsSigned(sum.NumericOrdinal), "a same-width signed/unsigned pair widens to the next signed step")
		assert.Greater(t, primitiveTable[sum.NumericOrdinal].SizeBytes, primitiveTable[PrimUByte].SizeBytes)
		assert.EqualValues(t, 2, sum.I64)
	})

	t.Run("(float) 3 is a known float constant", func(t *testing.T) {
		cast := ReinterpretNumeric(IntConstant(PrimByte, 3), PrimFloat)
		assert.Equal(t, ConstNumeric, cast.Kind)
		assert.Equal(t, PrimFloat, cast.NumericOrdinal)
		assert.Equal(t, 3.0, cast.F64)
	})
}

// TestConstantCastOverflowWraps is spec section 8's "(byte) 300 folds
// to byte 44" example.
func TestConstantCastOverflowWraps(t *testing.T) {
	cast := ReinterpretNumeric(IntConstant(PrimInt, 300), PrimByte)
	assert.Equal(t, PrimByte, cast.NumericOrdinal)
	assert.EqualValues(t, 44, cast.I64)
}

// TestOperatorTypeErrors is spec section 8's operator-misuse scenarios.
func TestOperatorTypeErrors(t *testing.T) {
	t.Run("true + 1 is a syntax error", func(t *testing.T) {
		_, err := NewBinaryExpr(NewBoolLiteral(true, Range{}), "+", mustInt(t, 1), Range{})
		require.Error(t, err)
	})

	t.Run("1 && 2 is a syntax error", func(t *testing.T) {
		_, err := NewBinaryExpr(mustInt(t, 1), "&&", mustInt(t, 2), Range{})
		require.Error(t, err)
	})

	t.Run("*5 dereferences a non-pointer", func(t *testing.T) {
		_, err := NewUnaryExpr("*", mustInt(t, 5), Range{})
		require.Error(t, err)
	})
}

func mustInt(t *testing.T, v int64) Expr {
	t.Helper()
	e, err := NewIntegerLiteral(v, Range{})
	require.NoError(t, err)
	return e
}
