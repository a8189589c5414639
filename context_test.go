package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeFrameInnermostLookupWins(t *testing.T) {
	ctx := NewParserContext(NewImportRegistry())

	outer := &Declaration{Kind: DeclVariable, Name: "x", Variable: &VariablePayload{DeclType: NewPrimitiveType(PrimInt)}}
	ctx.PushScope()
	require.NoError(t, ctx.BindLocal(Span{}, outer))

	inner := &Declaration{Kind: DeclVariable, Name: "x", Variable: &VariablePayload{DeclType: NewPrimitiveType(PrimLong)}}
	ctx.PushScope()
	require.NoError(t, ctx.BindLocal(Span{}, inner))

	assert.Same(t, inner, ctx.lookupLocal("x"))
	ctx.Pop()
	assert.Same(t, outer, ctx.lookupLocal("x"))
	ctx.Pop()
	assert.Nil(t, ctx.lookupLocal("x"))
}

func TestBindLocalRejectsDuplicateInSameScope(t *testing.T) {
	ctx := NewParserContext(NewImportRegistry())
	ctx.PushScope()
	decl := &Declaration{Kind: DeclVariable, Name: "x"}
	require.NoError(t, ctx.BindLocal(Span{}, decl))
	err := ctx.BindLocal(Span{}, decl)
	assert.Error(t, err)
}

// TestUnsignedFlagRewritesSignedPrimitive is spec section 8 scenario 5:
// `unsigned int x = 1;` makes x's declared primitive uint, not int.
func TestUnsignedFlagRewritesSignedPrimitive(t *testing.T) {
	ast := Init()
	ctx := NewParserContext(NewImportRegistry())
	ctx.PushFlag(true)

	_, decl, err := ast.Classify(ctx, "int")
	require.NoError(t, err)
	require.NotNil(t, decl)
	assert.Equal(t, PrimUInt, decl.Alias.Target.PrimitiveOrdinal)
}

// TestUnsignedFlagRejectsNonInteger is scenario 5's second half:
// `unsigned bool` is a syntax error.
func TestUnsignedFlagRejectsNonInteger(t *testing.T) {
	ast := Init()
	ctx := NewParserContext(NewImportRegistry())
	ctx.PushFlag(true)

	_, _, err := ast.Classify(ctx, "bool")
	assert.Error(t, err)
}

func TestSkipNestingPairTracksDepth(t *testing.T) {
	ctx := NewParserContext(NewImportRegistry())
	ctx.BeginSkip('{', false, 0, '}')

	assert.Equal(t, SkipStart, ctx.ShouldSkip('{'))
	assert.True(t, ctx.Skipping())
	ctx.ShouldSkip('{') // nested open, depth 2
	ctx.ShouldSkip('}') // back to depth 1, still skipping
	assert.True(t, ctx.Skipping())
	ctx.ShouldSkip('}') // depth 0, skip ends
	assert.False(t, ctx.Skipping())
}

func TestSkipNonNestingPairStopsAtFirstTerminator(t *testing.T) {
	ctx := NewParserContext(NewImportRegistry())
	ctx.BeginSkip('=', false, ';', ';')

	assert.Equal(t, SkipStart, ctx.ShouldSkip('='))
	assert.True(t, ctx.Skipping())
	ctx.ShouldSkip(';')
	assert.False(t, ctx.Skipping())
}

func TestSkipDiscardCancelsArmedState(t *testing.T) {
	ctx := NewParserContext(NewImportRegistry())
	ctx.BeginSkip('=', false, ';', ';')

	assert.Equal(t, SkipExitWithoutStart, ctx.ShouldSkip(';'))
	assert.False(t, ctx.Skipping())
}
