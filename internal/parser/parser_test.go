package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/webflow/internal/ast"
	"github.com/livefir/webflow/internal/lexer"
	"github.com/livefir/webflow/internal/syntax"
)

func parseSource(t *testing.T, src string) []*ast.Element {
	t.Helper()
	tokens, err := lexer.Lex(src)
	require.NoError(t, err)
	forest, err := Parse(tokens)
	require.NoError(t, err)
	return forest
}

func TestParseVoidElement(t *testing.T) {
	forest := parseSource(t, "img:;")
	require.Len(t, forest, 1)

	el := forest[0]
	assert.Equal(t, "img", el.TagName)
	assert.True(t, el.Terminated)
	assert.Empty(t, el.Children)
	assert.Empty(t, el.Content)
}

func TestParseNestedChildrenKeepOrder(t *testing.T) {
	forest := parseSource(t, "div:span:;b:;;")
	require.Len(t, forest, 1)

	div := forest[0]
	require.Len(t, div.Children, 2)
	assert.Equal(t, "span", div.Children[0].TagName)
	assert.Equal(t, "b", div.Children[1].TagName)
	for _, c := range div.Children {
		assert.True(t, c.Terminated)
	}
}

func TestParseForest(t *testing.T) {
	forest := parseSource(t, "head:; body: main:; ;")
	require.Len(t, forest, 2)
	assert.Equal(t, "head", forest[0].TagName)
	assert.Equal(t, "body", forest[1].TagName)
	require.Len(t, forest[1].Children, 1)
	assert.Equal(t, "main", forest[1].Children[0].TagName)
}

func TestParseEmptyDocument(t *testing.T) {
	forest := parseSource(t, "-- only a comment\n")
	assert.Empty(t, forest)
}

func TestParseAttributeSets(t *testing.T) {
	src := `a:
		props:{href: https://example.com, defer: yes}
		dataset:{id: 7}
		styles:{color: red; , margin:0}
		classes:{btn, "x,y"}
		ids:{main}
		content:{Hello\, world}
	;`
	forest := parseSource(t, src)
	require.Len(t, forest, 1)
	el := forest[0]

	assert.Equal(t, []ast.KeyValue{
		{Key: "href", Value: "https://example.com"},
		{Key: "defer", Value: "yes"},
	}, el.Props)
	assert.Equal(t, []ast.KeyValue{{Key: "id", Value: "7"}}, el.Datasets)
	assert.Equal(t, []ast.KeyValue{
		{Key: "color", Value: "red;"},
		{Key: "margin", Value: "0"},
	}, el.Style)
	assert.Equal(t, []string{"btn", "x,y"}, el.Classes)
	assert.Equal(t, []string{"main"}, el.IDs)
	assert.Equal(t, "Hello, world", el.Content)
}

func TestParseKeywordColonIsOptional(t *testing.T) {
	withColon := parseSource(t, "p: content:{x} classes:{a};")
	without := parseSource(t, "p: content{x} classes {a};")
	assert.Equal(t, withColon, without)
	assert.Equal(t, "x", without[0].Content)
}

func TestParseRepeatedAttributeSetOverwrites(t *testing.T) {
	forest := parseSource(t, "p: classes:{a,b} content:{one} classes:{c} content:{two};")
	el := forest[0]
	assert.Equal(t, []string{"c"}, el.Classes)
	assert.Equal(t, "two", el.Content)
}

func TestParseInterleavedChildrenAndAttributes(t *testing.T) {
	forest := parseSource(t, "ul: li:; ids:{list} li: content:{x}; ;")
	ul := forest[0]
	assert.Equal(t, []string{"list"}, ul.IDs)
	require.Len(t, ul.Children, 2)
	assert.Equal(t, "x", ul.Children[1].Content)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		tokenIndex int
		contains   string
	}{
		{"missing tag", ":;", 0, "expected Tag"},
		{"keyword as tag", "content:{x};", 0, "expected Tag"},
		{"missing colon", "div;", 1, "expected Colon"},
		{"missing block", "div: classes;", 3, "expected Block"},
		{"missing block after colon", "div: ids: ;", 4, "expected Block"},
		{"block without keyword", "div: {x};", 2, "unexpected Block"},
		{"colon in body", "div: : ;", 2, "unexpected Colon"},
		{"unterminated element", "div: span:;", 5, "unexpected EOF"},
		{"stray semicolon at top level", "div:;;", 3, "expected Tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lexer.Lex(tt.input)
			require.NoError(t, err)

			forest, err := Parse(tokens)
			require.Error(t, err)
			assert.Nil(t, forest)

			var serr *syntax.Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, syntax.UnexpectedToken, serr.Kind)
			assert.Equal(t, tt.tokenIndex, serr.TokenIndex)
			assert.Contains(t, serr.Message, tt.contains)
		})
	}
}

func TestParseWithoutEOFToken(t *testing.T) {
	tokens := []syntax.Token{
		{Type: syntax.Tag, Text: "div"},
		{Type: syntax.Colon, Text: ":"},
	}
	_, err := Parse(tokens)
	require.Error(t, err)
	assert.True(t, syntax.IsKind(err, syntax.UnexpectedToken))
}
