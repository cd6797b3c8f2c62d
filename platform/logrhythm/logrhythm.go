// Package logrhythm renders LogRhythm SIEM queries and rule documents.
package logrhythm

import (
	"embed"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/decompose"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/escape"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/mapping"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/render"
)

//go:embed mappings.yaml
var mappingsFS embed.FS

const (
	groupID   = "logrhythm"
	groupName = "LogRhythm"
)

var QueryDetails = platform.Details{
	ID:           "logrhythm-siem-query",
	Name:         "LogRhythm SIEM Query",
	PlatformName: "Query",
	GroupID:      groupID,
	GroupName:    groupName,
	FirstChoice:  true,
}

var RuleDetails = platform.Details{
	ID:           "logrhythm-siem-rule",
	Name:         "LogRhythm SIEM Rule",
	PlatformName: "Rule",
	GroupID:      groupID,
	GroupName:    groupName,
	RuleDocument: true,
}

var escapes = escape.MustNew(escape.DefaultChar,
	escape.Details{Type: escape.Value, Pattern: `["\\]`},
	escape.Details{Type: escape.RegexValue, Pattern: `["\\]`},
)

type scalars struct{}

func quoted(v ast.Literal) string {
	return render.Quote(v, `"`)
}

func (scalars) Equal(f string, v ast.Literal) string {
	if f == decompose.RawMessageField {
		return f + ` CONTAINS "` + v.String() + `"`
	}
	return f + " = " + quoted(v)
}

func (s scalars) NotEqual(f string, v ast.Literal) string {
	return "NOT " + s.Equal(f, v)
}

func (scalars) Less(f string, v ast.Literal) string {
	return f + " < " + quoted(v)
}

func (scalars) LessOrEqual(f string, v ast.Literal) string {
	return f + " <= " + quoted(v)
}

func (scalars) Greater(f string, v ast.Literal) string {
	return f + " > " + quoted(v)
}

func (scalars) GreaterOrEqual(f string, v ast.Literal) string {
	return f + " >= " + quoted(v)
}

func (scalars) Contains(f string, v ast.Literal) string {
	return f + ` CONTAINS "` + v.String() + `"`
}

func (scalars) StartsWith(f string, v ast.Literal) string {
	return f + ` matches "` + v.String() + `.*"`
}

func (scalars) EndsWith(f string, v ast.Literal) string {
	return f + ` matches ".*` + v.String() + `"`
}

func (scalars) Regex(f string, v ast.Literal) string {
	return f + ` matches "` + v.String() + `"`
}

func (scalars) Keywords(v ast.Literal) string {
	return decompose.RawMessageField + ` CONTAINS "` + v.String() + `"`
}

func queryConfig(details platform.Details) (render.QueryConfig, error) {
	m, err := mapping.LoadFS(mappingsFS, "mappings.yaml")
	if err != nil {
		return render.QueryConfig{}, err
	}

	return render.QueryConfig{
		Details:  details,
		Mappings: m,
		Tokens:   render.Tokens{And: "AND", Or: "or", Not: "NOT"},
		Scalars:  scalars{},
		Escape:   escapes,
		Pattern:  "{query}",
		Comment:  render.Comment{Open: "/*", Close: "*/"},
	}, nil
}

// NewQuery builds the LogRhythm SIEM query renderer. LogRhythm has no
// function syntax, every function is reported as unsupported.
func NewQuery() (*render.QueryRender, error) {
	cfg, err := queryConfig(QueryDetails)
	if err != nil {
		return nil, err
	}
	return render.NewQueryRender(cfg)
}
