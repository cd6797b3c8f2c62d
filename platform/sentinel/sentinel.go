// Package sentinel renders Microsoft Sentinel KQL queries and analytics rules.
package sentinel

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

const (
	groupID   = "sentinel"
	groupName = "Microsoft Sentinel"
)

var QueryDetails = platform.Details{
	ID:           "sentinel-kql-query",
	Name:         "Microsoft Sentinel Query",
	PlatformName: "Query (Kusto)",
	GroupID:      groupID,
	GroupName:    groupName,
	FirstChoice:  true,
}

var RuleDetails = platform.Details{
	ID:           "sentinel-kql-rule",
	Name:         "Microsoft Sentinel Rule",
	PlatformName: "Rule (Kusto)",
	GroupID:      groupID,
	GroupName:    groupName,
	RuleDocument: true,
}

// Both patterns match the backslash, so escaping is not idempotent.
var escapes = escape.MustNew(escape.DefaultChar,
	escape.Details{Type: escape.Value, Pattern: `["\\]`},
	escape.Details{Type: escape.RegexValue, Pattern: `["\\]`},
)

type scalars struct{}

// Equality is case-insensitive for every literal; numbers only lose the quotes.
func (scalars) Equal(f string, v ast.Literal) string {
	return f + " =~ " + render.Quote(v, `"`)
}

func (scalars) NotEqual(f string, v ast.Literal) string {
	return f + " !~ " + render.Quote(v, `"`)
}

func (scalars) Less(f string, v ast.Literal) string {
	return f + " < " + render.Quote(v, `"`)
}

func (scalars) LessOrEqual(f string, v ast.Literal) string {
	return f + " <= " + render.Quote(v, `"`)
}

func (scalars) Greater(f string, v ast.Literal) string {
	return f + " > " + render.Quote(v, `"`)
}

func (scalars) GreaterOrEqual(f string, v ast.Literal) string {
	return f + " >= " + render.Quote(v, `"`)
}

func (scalars) Contains(f string, v ast.Literal) string {
	return f + ` contains "` + v.String() + `"`
}

func (scalars) StartsWith(f string, v ast.Literal) string {
	return f + ` startswith "` + v.String() + `"`
}

func (scalars) EndsWith(f string, v ast.Literal) string {
	return f + ` endswith "` + v.String() + `"`
}

func (scalars) Regex(f string, v ast.Literal) string {
	return f + ` matches regex "` + v.String() + `"`
}

func (scalars) Keywords(v ast.Literal) string {
	return `* contains "` + v.String() + `"`
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
		return "count", true

	case ast.FunctionGroupBy:
		if len(fn.Args) == 0 {
			return "", false
		}
		return "summarize count() by " + fieldList(fn.Args, field), true

	case ast.FunctionOrderBy:
		if len(fn.Args) == 0 {
			return "", false
		}
		order := "desc"
		if len(fn.Args) > 1 && strings.EqualFold(fn.Args[1], "asc") {
			order = "asc"
		}
		return "sort by " + field(ast.Field(fn.Args[0])) + " " + order, true

	case ast.FunctionLimit:
		if len(fn.Args) != 1 {
			return "", false
		}
		return "take " + fn.Args[0], true

	case ast.FunctionTable:
		if len(fn.Args) == 0 {
			return "", false
		}
		return "project " + fieldList(fn.Args, field), true

	default:
		return "", false
	}
}

func queryConfig(details platform.Details) (render.QueryConfig, error) {
	m, err := mapping.LoadFS(mappingsFS, "mappings.yaml")
	if err != nil {
		return render.QueryConfig{}, err
	}

	return render.QueryConfig{
		Details:  details,
		Mappings: m,
		Tokens:   render.Tokens{And: "and", Or: "or", Not: "not", NotParens: true},
		Scalars:  scalars{},
		Escape:   escapes,
		Prefix: func(sm mapping.SourceMapping) string {
			return sm.Table
		},
		Pattern: "{prefix} | where {query}{functions}",
		Functions: render.Pipeline{
			Prefix:    " | ",
			Separator: " | ",
			Render:    renderFunction,
		},
		Comment: render.Comment{Line: "//"},
	}, nil
}

// NewQuery builds the KQL query renderer.
func NewQuery() (*render.QueryRender, error) {
	cfg, err := queryConfig(QueryDetails)
	if err != nil {
		return nil, err
	}
	return render.NewQueryRender(cfg)
}
