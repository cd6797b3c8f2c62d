package lexer

import (
	"strings"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/decompose/token"
)

// Lexer splits a rendered LogRhythm query into tokens.
type Lexer struct {
	input   []rune
	pos     int  // position of the current character in the input string
	readPos int  // position of the next character to be read
	char    rune // current character being processed
}

func New(input string) *Lexer {
	l := &Lexer{[]rune(input), 0, 0, 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.char = 0
	} else {
		l.char = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// Tokens reads the whole input, EOF excluded.
func (l *Lexer) Tokens() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.char {
	case '=':
		tok = token.Token{Type: token.EQUAL, Literal: "="}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.LESSEQUAL, Literal: "<="}
		} else {
			tok = token.Token{Type: token.LESS, Literal: "<"}
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GREATEREQUAL, Literal: ">="}
		} else {
			tok = token.Token{Type: token.GREATER, Literal: ">"}
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NOTEQUAL, Literal: "!="}
		} else {
			tok = token.Token{Type: token.ILLEGAL, Literal: "!"}
		}
	case ',':
		tok = token.Token{Type: token.COMMA, Literal: ","}
	case ':':
		tok = token.Token{Type: token.COLON, Literal: ":"}
	case '(':
		tok = token.Token{Type: token.LPAREN, Literal: "("}
	case ')':
		tok = token.Token{Type: token.RPAREN, Literal: ")"}
	case '[':
		tok = token.Token{Type: token.LBRACKET, Literal: "["}
	case ']':
		tok = token.Token{Type: token.RBRACKET, Literal: "]"}
	case 0:
		tok = token.Token{Type: token.EOF, Literal: ""}
	case '"':
		tok = token.Token{Type: token.STRING, Literal: l.readQuotedString()}
	default:
		if isDigit(l.char) || l.char == '-' && isDigit(l.peekChar()) {
			return l.readPossibleNumber()
		} else if isLetter(l.char) {
			return l.readIdentifier()
		} else {
			tok = token.Token{Type: token.ILLEGAL, Literal: string(l.char)}
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) readIdentifier() token.Token {
	pos := l.pos

	for isLetter(l.char) || isDigit(l.char) {
		l.readChar()
	}

	literal := string(l.input[pos:l.pos])

	return token.Token{Type: token.LookupIdent(literal), Literal: literal}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' || r == '.' || r == '-'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func (l *Lexer) skipWhitespace() {
	for isWhitespace(l.char) {
		l.readChar()
	}
}

// readPossibleNumber reads a run of digits. A run that continues with letters
// is an identifier such as an event id suffix.
func (l *Lexer) readPossibleNumber() token.Token {
	pos := l.pos
	isPureNumber := true

	l.readChar() // leading digit or minus
	for {
		if isDigit(l.char) {
			l.readChar()
		} else if isLetter(l.char) {
			isPureNumber = false
			l.readChar()
		} else {
			break
		}
	}

	literal := string(l.input[pos:l.pos])

	if !isPureNumber {
		return token.Token{Type: token.IDENT, Literal: literal}
	}
	return token.Token{Type: token.INT, Literal: literal}
}

// readQuotedString reads up to the closing quote. `\"` and `\\` are unescaped,
// any other backslash is kept.
func (l *Lexer) readQuotedString() string {
	var sb strings.Builder

	for {
		l.readChar()
		switch {
		case l.char == 0 || l.char == '"':
			return sb.String()
		case l.char == '\\' && (l.peekChar() == '"' || l.peekChar() == '\\'):
			l.readChar()
			sb.WriteRune(l.char)
		default:
			sb.WriteRune(l.char)
		}
	}
}
