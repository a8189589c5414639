package cnative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTexts(toks []cToken) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Kind == cTokEOF {
			break
		}
		out = append(out, t.Text)
	}
	return out
}

func TestTokenizeStripsLineMarkersAndComments(t *testing.T) {
	src := []byte(`# 1 "stdio.h"
// a comment
typedef /* inline */ long ssize_t;
`)
	toks, err := cTokenize(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"typedef", "long", "ssize_t", ";"}, tokenTexts(toks))
}

func TestTokenizeSkipsAttribute(t *testing.T) {
	src := []byte(`int f(void) __attribute__((noreturn));`)
	toks, err := cTokenize(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"int", "f", "(", "void", ")", ";"}, tokenTexts(toks))
}

func TestTokenizeIntegerLiterals(t *testing.T) {
	src := []byte(`enum { A = 1, B = 0x10, C = -2 };`)
	toks, err := cTokenize(src)
	require.NoError(t, err)

	var ints []int64
	for _, tok := range toks {
		if tok.Kind == cTokInt {
			ints = append(ints, tok.IVal)
		}
	}
	assert.Equal(t, []int64{1, 0x10, 2}, ints)
}

func TestTokenizePunctuatorsLongestMatchFirst(t *testing.T) {
	src := []byte(`void f(int argc, ...);`)
	toks, err := cTokenize(src)
	require.NoError(t, err)
	assert.Contains(t, tokenTexts(toks), "...")
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	toks, err := cTokenize([]byte(`int x;`))
	require.NoError(t, err)
	assert.Equal(t, cTokEOF, toks[len(toks)-1].Kind)
}
