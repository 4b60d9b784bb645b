package lexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wtflang/wtfc/token"
)

func writeSource(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "src.wtf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLexerTokens(t *testing.T) {
	path := writeSource(t, "func foo(a b)\n  a+b*2 # trailing comment\nend\n")
	l := New()
	require.NoError(t, l.SetInputFile(path, 0))
	defer l.Close()

	var got []token.Token
	for {
		tok, err := l.GetToken()
		require.NoError(t, err)
		got = append(got, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	wantTypes := []token.Type{
		token.FUNC, token.IDENT, token.BYTE, token.IDENT, token.IDENT, token.BYTE,
		token.IDENT, token.BYTE, token.IDENT, token.BYTE, token.NUMBER,
		token.END, token.EOF,
	}
	require.Len(t, got, len(wantTypes))
	for i, want := range wantTypes {
		if got[i].Type != want {
			t.Fatalf("token %d: got %v want %v", i, got[i].Type, want)
		}
	}
}

func TestLexerString(t *testing.T) {
	path := writeSource(t, "'hello world'")
	l := New()
	require.NoError(t, l.SetInputFile(path, 0))
	defer l.Close()

	tok, err := l.GetToken()
	require.NoError(t, err)
	require.Equal(t, token.STRING, tok.Type)
	require.Equal(t, "hello world", tok.Ident)
}

func TestLexerUnterminatedString(t *testing.T) {
	path := writeSource(t, "'oops")
	l := New()
	require.NoError(t, l.SetInputFile(path, 0))
	defer l.Close()

	_, err := l.GetToken()
	require.Error(t, err)
}

func TestLexerLineColumn(t *testing.T) {
	path := writeSource(t, "a\nb")
	l := New()
	require.NoError(t, l.SetInputFile(path, 0))
	defer l.Close()

	a, err := l.GetToken()
	require.NoError(t, err)
	require.Equal(t, 0, a.Line)

	b, err := l.GetToken()
	require.NoError(t, err)
	require.Equal(t, 1, b.Line)
	require.Equal(t, 0, b.Column)
}

func TestSetInputFileMissing(t *testing.T) {
	l := New()
	err := l.SetInputFile(filepath.Join(t.TempDir(), "nope.wtf"), 0)
	require.Error(t, err)
}
