package webflow

import "github.com/livefir/webflow/internal/syntax"

type (
	// Error is returned by Lex, Parse and Compile. Use errors.As to get at
	// the kind and position.
	Error     = syntax.Error
	ErrorKind = syntax.ErrorKind
)

const (
	EmptySource         = syntax.EmptySource
	UnclosedBlock       = syntax.UnclosedBlock
	UnexpectedCharacter = syntax.UnexpectedCharacter
	UnexpectedToken     = syntax.UnexpectedToken
)

// KindOf returns the kind of the compilation error wrapped in err, or "".
func KindOf(err error) ErrorKind {
	return syntax.KindOf(err)
}

// IsKind reports whether err wraps a compilation error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return syntax.IsKind(err, kind)
}
