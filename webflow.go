// Package webflow compiles webflow markup into HTML.
//
// A document is a forest of elements. Each element is a tag name followed by
// ':' and a body closed with ';'. The body holds child elements and
// attribute sets in any order:
//
//	-- a comment
//	div:
//		ids:{main} classes:{card, "wide,tall"}
//		styles:{color: red, margin: 0}
//		h1: content:{Hello\, world};
//		img: props:{src: /logo.png, defer: yes};
//	;
//
// Compile runs the whole pipeline; Lex, Parse and Render expose each stage.
// None of them keep state between calls, so they are safe for concurrent use.
package webflow

import (
	"github.com/livefir/webflow/internal/ast"
	"github.com/livefir/webflow/internal/lexer"
	"github.com/livefir/webflow/internal/metrics"
	"github.com/livefir/webflow/internal/parser"
	"github.com/livefir/webflow/internal/render"
	"github.com/livefir/webflow/internal/syntax"
)

type (
	Token     = syntax.Token
	TokenType = syntax.TokenType
	Element   = ast.Element
	KeyValue  = ast.KeyValue
)

// Lex scans source into tokens terminated by a single EOF token.
func Lex(source string) ([]Token, error) {
	return lexer.Lex(source)
}

// Parse builds the element forest from tokens.
func Parse(tokens []Token) ([]*Element, error) {
	return parser.Parse(tokens)
}

// Render serializes forest into tab-indented HTML.
func Render(forest []*Element) string {
	return render.Render(forest)
}

// Compile translates source into HTML with the default settings.
func Compile(source string) (string, error) {
	return defaultCompiler.Compile(source)
}

var defaultCompiler = New()

// Config holds compiler configuration options
type Config struct {
	Indent  string // indentation unit, tab when empty
	Minify  bool   // minify the rendered HTML
	Metrics *metrics.Collector
}

// Option is a functional option for configuring a Compiler
type Option func(*Config)

// WithIndent sets the indentation unit written per nesting level
func WithIndent(indent string) Option {
	return func(c *Config) {
		c.Indent = indent
	}
}

// WithMinify enables HTML minification of the compiled output
func WithMinify(enabled bool) Option {
	return func(c *Config) {
		c.Minify = enabled
	}
}

// WithMetrics records every compilation into collector
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Config) {
		c.Metrics = collector
	}
}

// Compiler runs the lex/parse/render pipeline with a fixed configuration.
// A Compiler holds no per-document state and may be shared between goroutines.
type Compiler struct {
	config Config
}

// New creates a compiler with the given options.
func New(opts ...Option) *Compiler {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}
	return &Compiler{config: config}
}

// Config returns the compiler's configuration.
func (c *Compiler) Config() Config {
	return c.config
}

// Compile translates source into HTML. On error no HTML is returned.
func (c *Compiler) Compile(source string) (string, error) {
	m := c.config.Metrics
	if m != nil {
		done := m.BeginCompile()
		defer done()
	}

	forest, err := parse(source)
	if err != nil {
		if m != nil {
			m.RecordFailure(string(syntax.KindOf(err)), len(source))
		}
		return "", err
	}

	out := render.Options{Indent: c.config.Indent}.Render(forest)
	if c.config.Minify {
		out = minifyHTML(out)
	}

	if m != nil {
		m.RecordSuccess(len(source), len(out), ast.Count(forest))
	}
	return out, nil
}

// Check lexes and parses source without rendering and returns the number of
// elements in the document.
func (c *Compiler) Check(source string) (int, error) {
	forest, err := parse(source)
	if err != nil {
		return 0, err
	}
	return ast.Count(forest), nil
}

func parse(source string) ([]*Element, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}
