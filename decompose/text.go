package decompose

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/decompose/lexer"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/decompose/token"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
)

// TextDecomposer reverse parses a rendered LogRhythm query. Every clause it
// recognizes becomes one item of a single OR group, so the original AND/OR
// structure is lost. A preceding NOT excludes the item.
//
// Recognized clauses:
//
//	field = "v"            field = 5
//	field CONTAINS "v"     field matches "v"
//	field AND "v"          field in [1, 2]
//	Alias: "v"
type TextDecomposer struct{}

func (TextDecomposer) Decompose(in Input) (*FilterGroup, []error) {
	p := newTextParser(lexer.New(in.Query))
	p.parse()
	return NewGroup(OperatorOr, p.items...), p.diags
}

// artifactField is the log-source clause that is sometimes rendered without
// a value in front of the real clause.
const artifactField = "general_information.log_source.type_name"

type textParser struct {
	l         *lexer.Lexer
	curToken  token.Token
	peekToken token.Token

	negated bool
	items   []Element
	diags   []error
}

func newTextParser(l *lexer.Lexer) *textParser {
	p := &textParser{
		l: l,
	}

	p.nextToken()
	p.nextToken()

	return p
}

func (p *textParser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *textParser) parse() {
	for p.curToken.Type != token.EOF {
		switch p.curToken.Type {
		case token.AND, token.OR, token.LPAREN, token.RPAREN:
			p.nextToken()
		case token.NOT:
			p.negated = true
			p.nextToken()
		case token.IDENT:
			p.parseClause()
		default:
			p.skipClause(nil)
		}
	}
}

func (p *textParser) parseClause() {
	field := p.curToken

	if field.Literal == "anything" && p.peekToken.Type == token.AND {
		p.nextToken()
		p.nextToken()
		return
	}

	switch p.peekToken.Type {
	case token.EQUAL, token.CONTAINS, token.MATCHES:
		op := p.peekToken
		p.nextToken()
		p.nextToken()
		p.parseComparison(field, op)

	case token.COLON:
		p.nextToken()
		if p.peekToken.Type != token.STRING {
			p.skipClause([]token.Token{field})
			return
		}
		p.nextToken()
		p.add(field.Literal, p.curToken.Literal)
		p.nextToken()

	case token.AND:
		p.nextToken()
		if p.peekToken.Type != token.STRING {
			// A bare field followed by the and-token.
			p.unmatched([]token.Token{field})
			return
		}
		p.nextToken()
		p.add(field.Literal, p.curToken.Literal)
		p.nextToken()

	case token.IN:
		p.nextToken()
		p.parseMembership(field)

	default:
		p.skipClause(nil)
	}
}

// parseComparison expects the current token to be the value.
func (p *textParser) parseComparison(field, op token.Token) {
	switch p.curToken.Type {
	case token.STRING:
		v := p.curToken.Literal
		if op.Type == token.MATCHES {
			v = strings.ReplaceAll(v, ".*", "")
		}
		p.add(field.Literal, v)
		p.nextToken()

	case token.INT:
		n, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
		if err != nil {
			p.skipClause([]token.Token{field, op})
			return
		}
		p.add(field.Literal, n)
		p.nextToken()

	case token.IDENT:
		if op.Type == token.CONTAINS && field.Literal == artifactField {
			// The current identifier starts the real clause.
			return
		}
		p.skipClause([]token.Token{field, op})

	default:
		p.skipClause([]token.Token{field, op})
	}
}

// parseMembership expects the current token to be `in`. Every element yields
// its own item.
func (p *textParser) parseMembership(field token.Token) {
	consumed := []token.Token{field, p.curToken}
	if p.peekToken.Type != token.LBRACKET {
		p.nextToken()
		p.skipClause(consumed)
		return
	}
	p.nextToken()

	var values []any
	for {
		p.nextToken()
		switch p.curToken.Type {
		case token.INT:
			n, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
			if err != nil {
				p.skipClause(consumed)
				return
			}
			values = append(values, n)
		case token.STRING, token.IDENT:
			values = append(values, p.curToken.Literal)
		case token.COMMA:
		case token.RBRACKET:
			p.nextToken()
			negated := p.negated
			for _, v := range values {
				p.negated = negated
				p.add(field.Literal, v)
			}
			return
		default:
			p.skipClause(consumed)
			return
		}
	}
}

func (p *textParser) add(field string, value any) {
	negated := p.negated
	p.negated = false

	ft, err := LookupField(field)
	if err != nil {
		p.diags = append(p.diags, err)
		return
	}

	var el Element = newItem(ft, value)
	if negated {
		el = negate(el)
	}
	p.items = append(p.items, el)
}

// skipClause drops tokens up to the next boolean separator and reports them.
func (p *textParser) skipClause(consumed []token.Token) {
	toks := consumed
	for {
		switch p.curToken.Type {
		case token.EOF, token.AND, token.OR, token.RPAREN:
			p.unmatched(toks)
			return
		}
		toks = append(toks, p.curToken)
		p.nextToken()
	}
}

func (p *textParser) unmatched(toks []token.Token) {
	p.negated = false

	lits := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Type == token.STRING {
			lits = append(lits, strconv.Quote(t.Literal))
			continue
		}
		lits = append(lits, t.Literal)
	}
	clause := strings.Join(lits, " ")

	p.diags = append(p.diags, fault.New(fault.UnsupportedShapeCode, fmt.Sprintf("unsupported clause: %s", clause)).WithMetadata(map[string]any{
		"clause": clause,
	}))
}
