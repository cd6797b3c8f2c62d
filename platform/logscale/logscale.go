// Package logscale renders CrowdStrike Falcon LogScale queries.
package logscale

import (
	"embed"
	"strings"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/escape"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/mapping"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/render"
)

//go:embed mappings.yaml
var mappingsFS embed.FS

var QueryDetails = platform.Details{
	ID:           "logscale-lql-query",
	Name:         "CrowdStrike Falcon LogScale Query",
	PlatformName: "Query",
	GroupID:      "logscale",
	GroupName:    "CrowdStrike Falcon LogScale",
	FirstChoice:  true,
}

// The value pattern matches the backslash itself, so escaping is not
// idempotent. A closing parenthesis followed by a wildcard or a backslash is
// left alone.
var escapes = escape.MustNew(escape.DefaultChar,
	escape.Details{Type: escape.Value, Pattern: `(/|\+|\\|{|\[|\*|"|\(|\)(?![*?\\]))`},
	escape.Details{Type: escape.RegexValue, Pattern: `(?<!\\)/`},
)

type scalars struct{}

func (scalars) Equal(f string, v ast.Literal) string {
	return f + "=" + render.Quote(v, `"`)
}

func (scalars) NotEqual(f string, v ast.Literal) string {
	return f + "!=" + render.Quote(v, `"`)
}

func (scalars) Less(f string, v ast.Literal) string {
	return f + "<" + render.Quote(v, `"`)
}

func (scalars) LessOrEqual(f string, v ast.Literal) string {
	return f + "<=" + render.Quote(v, `"`)
}

func (scalars) Greater(f string, v ast.Literal) string {
	return f + ">" + render.Quote(v, `"`)
}

func (scalars) GreaterOrEqual(f string, v ast.Literal) string {
	return f + ">=" + render.Quote(v, `"`)
}

func (scalars) Contains(f string, v ast.Literal) string {
	return f + `="*` + v.String() + `*"`
}

func (scalars) StartsWith(f string, v ast.Literal) string {
	return f + `="` + v.String() + `*"`
}

func (scalars) EndsWith(f string, v ast.Literal) string {
	return f + `="*` + v.String() + `"`
}

func (scalars) Regex(f string, v ast.Literal) string {
	return f + "=/" + v.String() + "/"
}

func (scalars) Keywords(v ast.Literal) string {
	return `"` + v.String() + `"`
}

func fieldList(args []string, field render.FieldResolver) string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = field(ast.Field(a))
	}
	return strings.Join(out, ", ")
}

func renderFunction(fn ast.FunctionNode, field render.FieldResolver) (string, bool) {
	switch fn.Name {
	case ast.FunctionCount:
		return "count()", true

	case ast.FunctionGroupBy:
		if len(fn.Args) == 0 {
			return "", false
		}
		return "groupBy([" + fieldList(fn.Args, field) + "], function=count())", true

	case ast.FunctionOrderBy:
		if len(fn.Args) == 0 {
			return "", false
		}
		order := "desc"
		if len(fn.Args) > 1 && strings.EqualFold(fn.Args[1], "asc") {
			order = "asc"
		}
		return "sort(" + field(ast.Field(fn.Args[0])) + ", order=" + order + ")", true

	case ast.FunctionLimit:
		if len(fn.Args) != 1 {
			return "", false
		}
		return "head(" + fn.Args[0] + ")", true

	case ast.FunctionTable:
		if len(fn.Args) == 0 {
			return "", false
		}
		return "table([" + fieldList(fn.Args, field) + "])", true

	default:
		return "", false
	}
}

// NewQuery builds the LogScale renderer. Functions are chained with pipes.
func NewQuery() (*render.QueryRender, error) {
	m, err := mapping.LoadFS(mappingsFS, "mappings.yaml")
	if err != nil {
		return nil, err
	}

	return render.NewQueryRender(render.QueryConfig{
		Details:  QueryDetails,
		Mappings: m,
		Tokens:   render.Tokens{And: "and", Or: "or", Not: "not"},
		Scalars:  scalars{},
		Escape:   escapes,
		Pattern:  "{query}{functions}",
		Functions: render.Pipeline{
			Prefix:    " | ",
			Separator: " | ",
			Render:    renderFunction,
		},
		Comment: render.Comment{Open: "/*", Close: "*/"},
	})
}
