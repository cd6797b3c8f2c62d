package lexer

import (
	"testing"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/decompose/token"
)

func TestNextToken(t *testing.T) {
	input := `=!=<<=>>=,:()[]
	origin.account.name = "admin"
	object.process.command_line CONTAINS "whoami /all"
	object.file.name matches ".*\\evil\.exe"
	target.host.network_port.value in [445, 3389]
	AND or NOT and OR
	User: "say \"hi\""
	4624a -17 anything`

	l := New(input)

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.EQUAL, "="},
		{token.NOTEQUAL, "!="},
		{token.LESS, "<"},
		{token.LESSEQUAL, "<="},
		{token.GREATER, ">"},
		{token.GREATEREQUAL, ">="},
		{token.COMMA, ","},
		{token.COLON, ":"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACKET, "["},
		{token.RBRACKET, "]"},
		{token.IDENT, "origin.account.name"},
		{token.EQUAL, "="},
		{token.STRING, "admin"},
		{token.IDENT, "object.process.command_line"},
		{token.CONTAINS, "CONTAINS"},
		{token.STRING, "whoami /all"},
		{token.IDENT, "object.file.name"},
		{token.MATCHES, "matches"},
		{token.STRING, `.*\evil\.exe`},
		{token.IDENT, "target.host.network_port.value"},
		{token.IN, "in"},
		{token.LBRACKET, "["},
		{token.INT, "445"},
		{token.COMMA, ","},
		{token.INT, "3389"},
		{token.RBRACKET, "]"},
		{token.AND, "AND"},
		{token.OR, "or"},
		{token.NOT, "NOT"},
		{token.AND, "and"},
		{token.OR, "OR"},
		{token.IDENT, "User"},
		{token.COLON, ":"},
		{token.STRING, `say "hi"`},
		{token.IDENT, "4624a"},
		{token.INT, "-17"},
		{token.IDENT, "anything"},
		{token.EOF, ""},
	}

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%d, got=%d (%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestTokensStopsAtEOF(t *testing.T) {
	toks := New(`a = "unterminated`).Tokens()

	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", len(toks), toks)
	}
	if toks[2].Type != token.STRING || toks[2].Literal != "unterminated" {
		t.Fatalf("unexpected last token %+v", toks[2])
	}
}
