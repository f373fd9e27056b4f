// Package parser builds an element forest from a webflow token stream.
//
// Grammar:
//
//	document     = element* EOF
//	element      = TAG ":" body
//	body         = (element | attributeSet)* ";"
//	attributeSet = ("props" | "dataset" | "styles" | "classes" | "ids" | "content") [":"] BLOCK
package parser

import (
	"fmt"

	"github.com/livefir/webflow/internal/ast"
	"github.com/livefir/webflow/internal/syntax"
)

// Parser consumes the flat token slice produced by the lexer.
type Parser struct {
	tokens []syntax.Token
	pos    int
}

// NewParser creates a parser positioned at the first token. Reading past
// the end of tokens yields EOF.
func NewParser(tokens []syntax.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse builds the document forest from tokens.
func Parse(tokens []syntax.Token) ([]*ast.Element, error) {
	return NewParser(tokens).Parse()
}

// Parse parses elements until EOF.
func (p *Parser) Parse() ([]*ast.Element, error) {
	var forest []*ast.Element
	for p.peek().Type != syntax.EOF {
		el, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		forest = append(forest, el)
	}
	return forest, nil
}

// peek returns the current token without consuming it.
func (p *Parser) peek() syntax.Token {
	if p.pos >= len(p.tokens) {
		return syntax.Token{Type: syntax.EOF, Offset: -1}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() syntax.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt syntax.TokenType) (syntax.Token, error) {
	idx := p.pos
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.errorAt(idx, tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Text)
	}
	return tok, nil
}

func (p *Parser) errorAt(idx int, tok syntax.Token, format string, args ...any) *syntax.Error {
	return &syntax.Error{
		Kind:       syntax.UnexpectedToken,
		Message:    fmt.Sprintf(format, args...),
		Offset:     tok.Offset,
		TokenIndex: idx,
	}
}

func (p *Parser) parseElement() (*ast.Element, error) {
	tag, err := p.expect(syntax.Tag)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(syntax.Colon); err != nil {
		return nil, err
	}

	el := &ast.Element{TagName: tag.Text}
	for {
		tok := p.peek()
		switch {
		case tok.Type == syntax.Semicolon:
			p.advance()
			el.Terminated = true
			return el, nil
		case tok.Type == syntax.Tag:
			child, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
		case tok.Type.IsAttributeSet():
			if err := p.parseAttributeSet(el); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorAt(p.pos, tok, "unexpected %s (%q) in body of <%s>", tok.Type, tok.Text, el.TagName)
		}
	}
}

// parseAttributeSet assigns one keyword/block pair to el. A ':' between the
// keyword and the block is optional. Repeated assignments to the same field
// overwrite the earlier value.
func (p *Parser) parseAttributeSet(el *ast.Element) error {
	kwIndex := p.pos
	kw := p.advance()
	if p.peek().Type == syntax.Colon {
		p.advance()
	}
	block, err := p.expect(syntax.Block)
	if err != nil {
		return err
	}

	switch kw.Type {
	case syntax.PropsKw:
		el.Props = ParseKeyValueList(block.Text)
	case syntax.DatasetKw:
		el.Datasets = ParseKeyValueList(block.Text)
	case syntax.StyleKw:
		el.Style = ParseKeyValueList(block.Text)
	case syntax.ClassesKw:
		el.Classes = ParseStringList(block.Text)
	case syntax.IdsKw:
		el.IDs = ParseStringList(block.Text)
	case syntax.ContentKw:
		el.Content = ParseContentText(block.Text)
	default:
		return p.errorAt(kwIndex, kw, "invalid attribute set %s (%q)", kw.Type, kw.Text)
	}
	return nil
}
