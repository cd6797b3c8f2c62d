package token

import "strings"

const (
	ILLEGAL TokenType = iota
	EOF

	// Identifiers + literals
	IDENT
	INT
	STRING

	// Delimiters
	COMMA
	COLON
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET

	EQUAL
	NOTEQUAL
	LESS
	LESSEQUAL
	GREATER
	GREATEREQUAL

	// Keywords
	AND
	OR
	NOT
	CONTAINS
	MATCHES
	IN
)

type TokenType int

type Token struct {
	Type    TokenType
	Literal string
}

var keywords = map[string]TokenType{
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"contains": CONTAINS,
	"matches":  MATCHES,
	"in":       IN,
}

// LookupIdent maps case-insensitive keywords to their type. Anything else is
// an identifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return IDENT
}

