// Package clickhouse renders ClickHouse SQL over processed_logs and raw_logs
// tables, where parsed event fields live in a metadata JSON column.
package clickhouse

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

// MessageField is searched by keywords.
const MessageField = "message"

var QueryDetails = platform.Details{
	ID:           "clickhouse-sql-query",
	Name:         "ClickHouse Query",
	PlatformName: "Query (SQL)",
	GroupID:      "clickhouse",
	GroupName:    "ClickHouse",
	FirstChoice:  true,
}

var escapes = escape.MustNew(escape.DefaultChar,
	escape.Details{Type: escape.Value, Pattern: `['\\]`},
	escape.Details{Type: escape.RegexValue, Pattern: `['\\]`},
)

type scalars struct {
	b *sqlBuilder
}

func quoted(v ast.Literal) string {
	return render.Quote(v, "'")
}

func (s scalars) Equal(f string, v ast.Literal) string {
	return s.b.column(f) + " = " + quoted(v)
}

func (s scalars) NotEqual(f string, v ast.Literal) string {
	return s.b.column(f) + " != " + quoted(v)
}

func (s scalars) Less(f string, v ast.Literal) string {
	return s.b.column(f) + " < " + quoted(v)
}

func (s scalars) LessOrEqual(f string, v ast.Literal) string {
	return s.b.column(f) + " <= " + quoted(v)
}

func (s scalars) Greater(f string, v ast.Literal) string {
	return s.b.column(f) + " > " + quoted(v)
}

func (s scalars) GreaterOrEqual(f string, v ast.Literal) string {
	return s.b.column(f) + " >= " + quoted(v)
}

func (s scalars) Contains(f string, v ast.Literal) string {
	return s.b.column(f) + " ILIKE '%" + v.String() + "%'"
}

func (s scalars) StartsWith(f string, v ast.Literal) string {
	return s.b.column(f) + " ILIKE '" + v.String() + "%'"
}

func (s scalars) EndsWith(f string, v ast.Literal) string {
	return s.b.column(f) + " ILIKE '%" + v.String() + "'"
}

func (s scalars) Regex(f string, v ast.Literal) string {
	return "match(" + s.b.column(f) + ", '" + v.String() + "')"
}

func (scalars) Keywords(v ast.Literal) string {
	return "positionCaseInsensitive(" + MessageField + ", '" + v.String() + "') > 0"
}

// NewQuery builds the ClickHouse SQL renderer.
func NewQuery() (*render.QueryRender, error) {
	m, err := mapping.LoadFS(mappingsFS, "mappings.yaml")
	if err != nil {
		return nil, err
	}

	b := newSQLBuilder(sqlOptions{})

	return render.NewQueryRender(render.QueryConfig{
		Details:  QueryDetails,
		Mappings: m,
		Tokens:   render.Tokens{And: "AND", Or: "OR", Not: "NOT", NotParens: true},
		Scalars:  scalars{b: b},
		Escape:   escapes,
		Prefix: func(sm mapping.SourceMapping) string {
			return b.column(sm.Table)
		},
		Pattern:   "SELECT * FROM {prefix} WHERE {query}{functions}",
		Functions: b,
		Comment:   render.Comment{Line: "--"},
		Finalizer: b,
	})
}
