package syntax

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fatal compilation error.
type ErrorKind string

const (
	EmptySource         ErrorKind = "empty source"
	UnclosedBlock       ErrorKind = "unclosed block"
	UnexpectedCharacter ErrorKind = "unexpected character"
	UnexpectedToken     ErrorKind = "unexpected token"
)

// Error is the single error type returned by the lexer and the parser.
type Error struct {
	Kind    ErrorKind
	Message string
	// Offset is the byte offset in the source, or -1 when unknown.
	Offset int
	// TokenIndex is the index of the offending token; -1 for lexer errors.
	TokenIndex int
}

func (e *Error) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Message)
}

// Errorf builds a lexer error at the given source offset.
func Errorf(kind ErrorKind, offset int, format string, args ...any) *Error {
	return &Error{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		Offset:     offset,
		TokenIndex: -1,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
