package syntax

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	Tag TokenType = iota // element name
	Colon
	Semicolon

	// Attribute-set keywords
	PropsKw   // "props"
	DatasetKw // "dataset"
	ClassesKw // "classes"
	IdsKw     // "ids"
	ContentKw // "content"
	StyleKw   // "styles"

	Block // decoded {...} literal
	EOF   // sentinel: end of input
)

var tokenNames = [...]string{
	Tag:       "Tag",
	Colon:     "Colon",
	Semicolon: "Semicolon",
	PropsKw:   "Props",
	DatasetKw: "Dataset",
	ClassesKw: "Classes",
	IdsKw:     "Ids",
	ContentKw: "Content",
	StyleKw:   "Style",
	Block:     "Block",
	EOF:       "EOF",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// IsAttributeSet reports whether tt introduces an attribute-set assignment.
func (tt TokenType) IsAttributeSet() bool {
	switch tt {
	case PropsKw, DatasetKw, ClassesKw, IdsKw, ContentKw, StyleKw:
		return true
	}
	return false
}

// Keywords maps reserved identifiers to their keyword TokenType.
var Keywords = map[string]TokenType{
	"props":   PropsKw,
	"content": ContentKw,
	"classes": ClassesKw,
	"ids":     IdsKw,
	"dataset": DatasetKw,
	"styles":  StyleKw,
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Type   TokenType
	Text   string // tag name, keyword or decoded block text
	Offset int    // byte offset of the first source character
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  offset %d", t.Type, t.Text, t.Offset)
}
