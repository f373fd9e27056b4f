package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/livefir/webflow/internal/ast"
)

func TestParseKeyValueList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []ast.KeyValue
	}{
		{"empty", "", nil},
		{"whitespace only", " \n\t ", nil},
		{"single", "a:b", []ast.KeyValue{{Key: "a", Value: "b"}}},
		{"trimmed", "  a :  b  ", []ast.KeyValue{{Key: "a", Value: "b"}}},
		{"split on first colon", "href: http://x:80/", []ast.KeyValue{{Key: "href", Value: "http://x:80/"}}},
		{"segment without colon dropped", "a:1, junk, b:2", []ast.KeyValue{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}},
		{"empty segments dropped", ",,a:1,,", []ast.KeyValue{{Key: "a", Value: "1"}}},
		{"duplicates kept", "a:1,a:2", []ast.KeyValue{{Key: "a", Value: "1"}, {Key: "a", Value: "2"}}},
		{"quoted comma", `title:"a, b", x:y`, []ast.KeyValue{{Key: "title", Value: `"a, b"`}, {Key: "x", Value: "y"}}},
		{"empty key and value", ":", []ast.KeyValue{{Key: "", Value: ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKeyValueList(tt.input))
		})
	}
}

func TestParseStringList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"plain", "a,b , c", []string{"a", "b", "c"}},
		{"quoted comma", `"a,b",c`, []string{"a,b", "c"}},
		{"quotes stripped once", `""x""`, []string{`"x"`}},
		{"lone quote kept", `"`, []string{`"`}},
		{"empty quoted", `""`, []string{""}},
		{"inner quote kept", `a"b`, []string{`a"b`}},
		{"unbalanced quote swallows the rest", `"a,b`, []string{`"a,b`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStringList(tt.input))
		})
	}
}

func TestParseContentText(t *testing.T) {
	assert.Equal(t, "a, b", ParseContentText(`a\, b`))
	assert.Equal(t, `a\b`, ParseContentText(`a\b`))
	assert.Equal(t, `\,`, ParseContentText(`\\,`))
	assert.Equal(t, "", ParseContentText(""))
}
