package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var out []Token
	for {
		tok, err := l.Next(true)
		require.NoError(t, err)
		out = append(out, tok)
		if tok.Type == TokenEOF {
			return out
		}
	}
}

func TestTokenType_String(t *testing.T) {
	tests := []struct {
		input    TokenType
		expected string
	}{
		{TokenIdentifier, "TokenIdentifier"},
		{TokenKeyword, "TokenKeyword"},
		{TokenNumber, "TokenNumber"},
		{TokenString, "TokenString"},
		{TokenPunctuator, "TokenPunctuator"},
		{TokenEOF, "TokenEOF"},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.expected, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.input.String())
		})
	}
}

// TestLex_Example is intentionally verbose to catch line/column bugs.
func TestLex_Example(t *testing.T) {
	const src = "let x = 1 + 2;\nfunction f(a) { return a; }"
	toks := lexAll(t, src)
	require.Equal(t, []Token{
		{TokenKeyword, 1, 1, "let", false},
		{TokenIdentifier, 1, 5, "x", false},
		{TokenPunctuator, 1, 7, "=", false},
		{TokenNumber, 1, 9, "1", false},
		{TokenPunctuator, 1, 11, "+", false},
		{TokenNumber, 1, 13, "2", false},
		{TokenPunctuator, 1, 14, ";", false},
		{TokenKeyword, 2, 1, "function", true},
		{TokenIdentifier, 2, 10, "f", false},
		{TokenPunctuator, 2, 11, "(", false},
		{TokenIdentifier, 2, 12, "a", false},
		{TokenPunctuator, 2, 13, ")", false},
		{TokenPunctuator, 2, 15, "{", false},
		{TokenKeyword, 2, 17, "return", false},
		{TokenIdentifier, 2, 24, "a", false},
		{TokenPunctuator, 2, 25, ";", false},
		{TokenPunctuator, 2, 27, "}", false},
		{TokenEOF, 2, 28, "", false},
	}, toks)
}

func TestLex_StringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb\\c"`)
	require.Equal(t, TokenString, toks[0].Type)
	require.Equal(t, "a\nb\\c", toks[0].Literal)
}

func TestLex_TemplateWithSubstitutionAndNestedObject(t *testing.T) {
	toks := lexAll(t, "`x${ {a:1} }y`")
	var types []TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	require.Equal(t, []TokenType{
		TokenTemplateHead, TokenPunctuator, TokenIdentifier, TokenPunctuator,
		TokenNumber, TokenPunctuator, TokenTemplateTail, TokenEOF,
	}, types)
	require.Equal(t, "x", toks[0].Literal)
	require.Equal(t, "y", toks[6].Literal)
}

func TestLex_NumberForms(t *testing.T) {
	toks := lexAll(t, "0x1F 0b101 0o17 3.14 1e10 10n")
	require.Equal(t, TokenNumber, toks[0].Type)
	require.Equal(t, "0x1F", toks[0].Literal)
	require.Equal(t, TokenNumber, toks[1].Type)
	require.Equal(t, TokenNumber, toks[2].Type)
	require.Equal(t, TokenNumber, toks[3].Type)
	require.Equal(t, "3.14", toks[3].Literal)
	require.Equal(t, TokenNumber, toks[4].Type)
	require.Equal(t, TokenBigInt, toks[5].Type)
	require.Equal(t, "10", toks[5].Literal)
}

func TestLex_RegExpVsDivision(t *testing.T) {
	l := New("/abc/g")
	tok, err := l.Next(true)
	require.NoError(t, err)
	require.Equal(t, TokenRegExp, tok.Type)
	require.Equal(t, "/abc/g", tok.Literal)

	l2 := New("a / b")
	tok1, _ := l2.Next(false)
	require.Equal(t, TokenIdentifier, tok1.Type)
	tok2, err := l2.Next(false)
	require.NoError(t, err)
	require.Equal(t, TokenPunctuator, tok2.Type)
	require.Equal(t, "/", tok2.Literal)
}

func TestLex_PrivateIdentifier(t *testing.T) {
	toks := lexAll(t, "this.#field")
	require.Equal(t, TokenKeyword, toks[0].Type)
	require.Equal(t, TokenPunctuator, toks[1].Type)
	require.Equal(t, TokenPrivateIdentifier, toks[2].Type)
	require.Equal(t, "#field", toks[2].Literal)
}

func TestLexer_ResetRewindsToByteOffset(t *testing.T) {
	l := New("foo bar")
	first, _ := l.Next(true)
	require.Equal(t, "foo", first.Literal)
	mark := l.Index()
	second, _ := l.Next(true)
	require.Equal(t, "bar", second.Literal)

	l.Reset(mark)
	replay, _ := l.Next(true)
	require.Equal(t, "bar", replay.Literal)
}

func TestLex_MaximalMunchPunctuators(t *testing.T) {
	toks := lexAll(t, ">>>= ??= ?. =>")
	require.Equal(t, ">>>=", toks[0].Literal)
	require.Equal(t, "??=", toks[1].Literal)
	require.Equal(t, "?.", toks[2].Literal)
	require.Equal(t, "=>", toks[3].Literal)
}
