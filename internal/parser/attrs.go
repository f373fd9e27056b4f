package parser

import (
	"strings"

	"github.com/livefir/webflow/internal/ast"
)

const asciiSpace = " \t\n\r\v\f"

// splitSegments splits text on commas that are not inside double quotes.
// Quote characters stay in the segment. Segments are trimmed and empty ones
// dropped.
func splitSegments(text string) []string {
	var segments []string
	inQuotes := false
	start := 0

	flush := func(end int) {
		if s := strings.Trim(text[start:end], asciiSpace); s != "" {
			segments = append(segments, s)
		}
	}

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(text))
	return segments
}

// ParseKeyValueList parses "k: v, k2: v2" pairs used by props, dataset and
// styles blocks. Segments without a ':' are dropped.
func ParseKeyValueList(text string) []ast.KeyValue {
	var pairs []ast.KeyValue
	for _, seg := range splitSegments(text) {
		key, value, ok := strings.Cut(seg, ":")
		if !ok {
			continue
		}
		pairs = append(pairs, ast.KeyValue{
			Key:   strings.Trim(key, asciiSpace),
			Value: strings.Trim(value, asciiSpace),
		})
	}
	return pairs
}

// ParseStringList parses "a, \"b,c\", d" lists used by classes and ids blocks.
func ParseStringList(text string) []string {
	var items []string
	for _, seg := range splitSegments(text) {
		items = append(items, unquote(seg))
	}
	return items
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// ParseContentText turns every `\,` into ','.
func ParseContentText(text string) string {
	return strings.ReplaceAll(text, `\,`, ",")
}
