package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/webflow/internal/syntax"
)

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []syntax.Token
	}{
		{
			name:  "Void element",
			input: "img:;",
			expected: []syntax.Token{
				{Type: syntax.Tag, Text: "img", Offset: 0},
				{Type: syntax.Colon, Text: ":", Offset: 3},
				{Type: syntax.Semicolon, Text: ";", Offset: 4},
				{Type: syntax.EOF, Offset: 5},
			},
		},
		{
			name:  "Keywords",
			input: "props content classes ids dataset styles style Props",
			expected: []syntax.Token{
				{Type: syntax.PropsKw, Text: "props", Offset: 0},
				{Type: syntax.ContentKw, Text: "content", Offset: 6},
				{Type: syntax.ClassesKw, Text: "classes", Offset: 14},
				{Type: syntax.IdsKw, Text: "ids", Offset: 22},
				{Type: syntax.DatasetKw, Text: "dataset", Offset: 26},
				{Type: syntax.StyleKw, Text: "styles", Offset: 34},
				{Type: syntax.Tag, Text: "style", Offset: 41},
				{Type: syntax.Tag, Text: "Props", Offset: 47},
				{Type: syntax.EOF, Offset: 52},
			},
		},
		{
			name:  "Identifiers mix letters and digits",
			input: "h1\tx2y\r\n",
			expected: []syntax.Token{
				{Type: syntax.Tag, Text: "h1", Offset: 0},
				{Type: syntax.Tag, Text: "x2y", Offset: 3},
				{Type: syntax.EOF, Offset: 8},
			},
		},
		{
			name:  "Block",
			input: "content:{hello world}",
			expected: []syntax.Token{
				{Type: syntax.ContentKw, Text: "content", Offset: 0},
				{Type: syntax.Colon, Text: ":", Offset: 7},
				{Type: syntax.Block, Text: "hello world", Offset: 8},
				{Type: syntax.EOF, Offset: 21},
			},
		},
		{
			name:  "Empty block",
			input: "{}",
			expected: []syntax.Token{
				{Type: syntax.Block, Text: "", Offset: 0},
				{Type: syntax.EOF, Offset: 2},
			},
		},
		{
			name:  "Comment only",
			input: "-- nothing here",
			expected: []syntax.Token{
				{Type: syntax.EOF, Offset: 15},
			},
		},
		{
			name:  "Comment before element",
			input: "-- comment\ndiv:;",
			expected: []syntax.Token{
				{Type: syntax.Tag, Text: "div", Offset: 11},
				{Type: syntax.Colon, Text: ":", Offset: 14},
				{Type: syntax.Semicolon, Text: ";", Offset: 15},
				{Type: syntax.EOF, Offset: 16},
			},
		},
		{
			name:  "Comment markers inside a block are text",
			input: "{a -- b}",
			expected: []syntax.Token{
				{Type: syntax.Block, Text: "a -- b", Offset: 0},
				{Type: syntax.EOF, Offset: 8},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestLexBlockEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"open brace", `{a\{b}`, "a{b"},
		{"close brace", `{a\}b}`, "a}b"},
		{"backslash", `{a\\b}`, `a\b`},
		{"newline", `{a\nb}`, "a\nb"},
		{"tab", `{a\tb}`, "a\tb"},
		{"unknown escape keeps backslash", `{a\qb}`, `a\qb`},
		{"escaped comma is left for the content parser", `{a\,b}`, `a\,b`},
		{"raw newline is verbatim", "{a\nb}", "a\nb"},
		{"double escape", `{\\\}}`, `\}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, syntax.Block, tokens[0].Type)
			assert.Equal(t, tt.want, tokens[0].Text)
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   syntax.ErrorKind
		offset int
	}{
		{"empty source", "", syntax.EmptySource, 0},
		{"unclosed block", "div:{content:hello", syntax.UnclosedBlock, 4},
		{"escaped close brace does not close", `div:{a\}`, syntax.UnclosedBlock, 4},
		{"trailing backslash", `{abc\`, syntax.UnclosedBlock, 0},
		{"hash", "div:#;", syntax.UnexpectedCharacter, 4},
		{"lone dash", "div:-;", syntax.UnexpectedCharacter, 4},
		{"closing brace outside block", "div:};", syntax.UnexpectedCharacter, 4},
		{"underscore", "my_tag:;", syntax.UnexpectedCharacter, 2},
		{"non ascii", "dév:;", syntax.UnexpectedCharacter, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			require.Error(t, err)
			assert.Nil(t, tokens)

			var serr *syntax.Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.kind, serr.Kind)
			assert.Equal(t, tt.offset, serr.Offset)
			assert.Equal(t, -1, serr.TokenIndex)
		})
	}
}

func TestLexUnexpectedCharacterNamesRune(t *testing.T) {
	_, err := Lex("p:é;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `'é'`)
}

func TestLexIsReentrant(t *testing.T) {
	a, err := Lex("a:;")
	require.NoError(t, err)
	b, err := Lex("b:;")
	require.NoError(t, err)

	assert.Equal(t, "a", a[0].Text)
	assert.Equal(t, "b", b[0].Text)
	assert.Equal(t, syntax.EOF, a[len(a)-1].Type)
}
