// Package lexer turns webflow source text into a flat token stream.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/livefir/webflow/internal/syntax"
)

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src    string
	pos    int // index of the next byte to consume
	tokens []syntax.Token
}

func newLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Lex scans src and returns its tokens terminated by a single EOF token.
func Lex(src string) ([]syntax.Token, error) {
	if src == "" {
		return nil, syntax.Errorf(syntax.EmptySource, 0, "nothing to compile")
	}
	return newLexer(src).run()
}

func (l *Lexer) run() ([]syntax.Token, error) {
	for l.pos < len(l.src) {
		c := l.peek()
		switch {
		case c == ':':
			l.emitSingle(syntax.Colon)
		case c == ';':
			l.emitSingle(syntax.Semicolon)
		case c == '{':
			if err := l.scanBlock(); err != nil {
				return nil, err
			}
		case c == '-' && l.peek2() == '-':
			l.skipLineComment()
		case isAlnum(c):
			l.scanIdent()
		case isSkippable(c):
			l.pos++
		default:
			r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
			return nil, syntax.Errorf(syntax.UnexpectedCharacter, l.pos, "unexpected character %q", r)
		}
	}
	l.tokens = append(l.tokens, syntax.Token{Type: syntax.EOF, Offset: len(l.src)})
	return l.tokens, nil
}

// peek returns the byte at the current position without advancing.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the byte one position ahead of the current position.
func (l *Lexer) peek2() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) emitSingle(tt syntax.TokenType) {
	l.tokens = append(l.tokens, syntax.Token{Type: tt, Text: l.src[l.pos : l.pos+1], Offset: l.pos})
	l.pos++
}

// skipLineComment discards everything from "--" up to, not including, the
// next newline.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

// scanIdent collects a maximal run of ASCII letters and digits.
func (l *Lexer) scanIdent() {
	start := l.pos
	for l.pos < len(l.src) && isAlnum(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	tt := syntax.Tag
	if kw, ok := syntax.Keywords[text]; ok {
		tt = kw
	}
	l.tokens = append(l.tokens, syntax.Token{Type: tt, Text: text, Offset: start})
}

// scanBlock decodes a {...} literal. The opening brace is at l.pos.
//
// A backslash followed by an unknown character is kept as a literal
// backslash; the following character is scanned on its own, so `\}` is the
// only way to put a closing brace inside a block.
func (l *Lexer) scanBlock() error {
	start := l.pos
	l.pos++ // {

	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '}' {
			l.pos++
			l.tokens = append(l.tokens, syntax.Token{Type: syntax.Block, Text: sb.String(), Offset: start})
			return nil
		}
		if c == '\\' {
			if r, ok := unescape(l.peek2()); ok {
				sb.WriteByte(r)
				l.pos += 2
				continue
			}
		}
		sb.WriteByte(c)
		l.pos++
	}
	return syntax.Errorf(syntax.UnclosedBlock, start, "block opened here is never closed with '}'")
}

func unescape(c byte) (byte, bool) {
	switch c {
	case '{', '}', '\\':
		return c, true
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	}
	return 0, false
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSkippable(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}
