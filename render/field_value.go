package render

import (
	"fmt"
	"strings"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/escape"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
)

// Scalars renders the scalar case of every modifier for one backend.
// Adding a modifier adds a method here, so no backend compiles until it
// decides how to render it.
//
// String literals arrive already escaped. Implementations quote them and
// leave IntLiteral values unquoted.
type Scalars interface {
	Equal(field string, v ast.Literal) string
	NotEqual(field string, v ast.Literal) string
	Less(field string, v ast.Literal) string
	LessOrEqual(field string, v ast.Literal) string
	Greater(field string, v ast.Literal) string
	GreaterOrEqual(field string, v ast.Literal) string
	Contains(field string, v ast.Literal) string
	StartsWith(field string, v ast.Literal) string
	EndsWith(field string, v ast.Literal) string
	Regex(field string, v ast.Literal) string

	// Keywords ignores the field and searches the backend's unstructured target.
	Keywords(v ast.Literal) string
}

// FieldValue turns a (field, modifier, value) triple into a target fragment.
// A list value is rendered as the OR of the scalar renderings, in parentheses,
// for every modifier and every backend.
type FieldValue struct {
	Scalars Scalars
	Escape  *escape.Manager
	OrToken string
}

// Render renders one comparison.
func (fv FieldValue) Render(field string, mod ast.Modifier, value ast.Value) (string, error) {
	switch v := value.(type) {
	case ast.ListValue:
		parts := make([]string, 0, len(v))
		for _, lit := range v {
			part, err := fv.Render(field, mod, lit)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		return "(" + strings.Join(parts, " "+fv.OrToken+" ") + ")", nil

	case ast.Literal:
		return fv.scalar(field, mod, fv.escapeLiteral(mod, v))

	default:
		return "", fault.New(fault.BadInputCode, fmt.Sprintf("invalid value type %T for field `%s`", value, field))
	}
}

func (fv FieldValue) escapeLiteral(mod ast.Modifier, lit ast.Literal) ast.Literal {
	s, ok := lit.(ast.StrLiteral)
	if !ok {
		return lit
	}

	vt := escape.Value
	if mod == ast.ModifierRegex {
		vt = escape.RegexValue
	}

	return ast.StrLiteral(fv.Escape.Escape(vt, string(s)))
}

func (fv FieldValue) scalar(field string, mod ast.Modifier, v ast.Literal) (string, error) {
	s := fv.Scalars

	switch mod {
	case ast.ModifierEqual:
		return s.Equal(field, v), nil
	case ast.ModifierNotEqual:
		return s.NotEqual(field, v), nil
	case ast.ModifierLess:
		return s.Less(field, v), nil
	case ast.ModifierLessOrEqual:
		return s.LessOrEqual(field, v), nil
	case ast.ModifierGreater:
		return s.Greater(field, v), nil
	case ast.ModifierGreaterOrEqual:
		return s.GreaterOrEqual(field, v), nil
	case ast.ModifierContains:
		return s.Contains(field, v), nil
	case ast.ModifierStartsWith:
		return s.StartsWith(field, v), nil
	case ast.ModifierEndsWith:
		return s.EndsWith(field, v), nil
	case ast.ModifierRegex:
		return s.Regex(field, v), nil
	case ast.ModifierKeywords:
		return s.Keywords(v), nil
	default:
		return "", fault.New(fault.BadInputCode, fmt.Sprintf("unsupported modifier: %v", mod))
	}
}

// Quote wraps string literals in q and leaves numeric literals as they are.
func Quote(v ast.Literal, q string) string {
	if _, ok := v.(ast.IntLiteral); ok {
		return v.String()
	}
	return q + v.String() + q
}

// IsNumeric reports whether v is a numeric literal.
func IsNumeric(v ast.Literal) bool {
	_, ok := v.(ast.IntLiteral)
	return ok
}
