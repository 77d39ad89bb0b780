package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	for k := ILLEGAL; k < maxKind; k++ {
		if k.String() == "" {
			t.Errorf("missing string representation of kind %d", int(k))
		}
	}
}

func TestLookup(t *testing.T) {
	cases := []struct {
		lit  string
		want Kind
	}{
		{"if", IF},
		{"else", ELSE},
		{"while", WHILE},
		{"for", FOR},
		{"fun", FUN},
		{"x", IDENT},
		{"iffy", IDENT},
		{"", IDENT},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Lookup(c.lit), "lookup(%q)", c.lit)
	}
}

func TestKindGoString(t *testing.T) {
	require.Equal(t, "'+'", ADD.GoString())
	require.Equal(t, "'if'", IF.GoString())
	require.Equal(t, "identifier", IDENT.String())
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: IDENT, Lexeme: "x", Span: Span{Start: 0, End: 1}}
	require.Equal(t, `identifier "x"`, tok.String())

	tok = Token{Kind: SEMI, Span: Span{Start: 3, End: 4}}
	require.Equal(t, ";", tok.String())
}
