// Package qradar renders IBM QRadar AQL queries.
package qradar

import (
	"embed"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/escape"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/mapping"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/render"
)

//go:embed mappings.yaml
var mappingsFS embed.FS

// PayloadField is the raw event payload. Equality against it is a substring match.
const PayloadField = "UTF8(payload)"

var QueryDetails = platform.Details{
	ID:           "qradar-aql-query",
	Name:         "QRadar Query",
	PlatformName: "Query (AQL)",
	GroupID:      "qradar",
	GroupName:    "IBM QRadar",
	FirstChoice:  true,
}

// AQL string literals take backslash escapes, so a literal backslash is
// doubled too. Otherwise a value ending in one would swallow the closing quote.
var escapes = escape.MustNew(escape.DefaultChar,
	escape.Details{Type: escape.Value, Pattern: `['\\]`},
	escape.Details{Type: escape.RegexValue, Pattern: `['\\]`},
)

type scalars struct{}

func field(f string) string {
	if f == PayloadField {
		return f
	}
	return `"` + f + `"`
}

func (scalars) Equal(f string, v ast.Literal) string {
	if f == PayloadField {
		return PayloadField + " ILIKE '%" + v.String() + "%'"
	}
	return field(f) + "=" + render.Quote(v, "'")
}

func (scalars) NotEqual(f string, v ast.Literal) string {
	return field(f) + "!=" + render.Quote(v, "'")
}

func (scalars) Less(f string, v ast.Literal) string {
	return field(f) + "<" + render.Quote(v, "'")
}

func (scalars) LessOrEqual(f string, v ast.Literal) string {
	return field(f) + "<=" + render.Quote(v, "'")
}

func (scalars) Greater(f string, v ast.Literal) string {
	return field(f) + ">" + render.Quote(v, "'")
}

func (scalars) GreaterOrEqual(f string, v ast.Literal) string {
	return field(f) + ">=" + render.Quote(v, "'")
}

func (scalars) Contains(f string, v ast.Literal) string {
	return field(f) + " ILIKE '%" + v.String() + "%'"
}

func (scalars) StartsWith(f string, v ast.Literal) string {
	return field(f) + " ILIKE '" + v.String() + "%'"
}

func (scalars) EndsWith(f string, v ast.Literal) string {
	return field(f) + " ILIKE '%" + v.String() + "'"
}

func (scalars) Regex(f string, v ast.Literal) string {
	return field(f) + " IMATCHES '" + v.String() + "'"
}

func (scalars) Keywords(v ast.Literal) string {
	return PayloadField + " ILIKE '%" + v.String() + "%'"
}

// NewQuery builds the AQL renderer. AQL has no rendering for the generic
// functions, they are all reported.
func NewQuery() (*render.QueryRender, error) {
	m, err := mapping.LoadFS(mappingsFS, "mappings.yaml")
	if err != nil {
		return nil, err
	}

	return render.NewQueryRender(render.QueryConfig{
		Details:  QueryDetails,
		Mappings: m,
		Tokens:   render.Tokens{And: "AND", Or: "OR", Not: "NOT"},
		Scalars:  scalars{},
		Escape:   escapes,
		Prefix: func(sm mapping.SourceMapping) string {
			return "SELECT " + PayloadField + " FROM " + sm.Table
		},
		Pattern: "{prefix} WHERE {query}",
		Comment: render.Comment{Open: "/*", Close: "*/"},
	})
}
