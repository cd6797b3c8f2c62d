package logscale

import (
	"testing"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/escape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	tests := map[string]string{
		`C:\Windows\`:  `C:\\Windows\\`,
		`a+b/c`:        `a\+b\/c`,
		`say "hi"`:     `say \"hi\"`,
		`f(x)`:         `f\(x\)`,
		`f(x)*`:        `f\(x)\*`,
		`[a]{1}`:       `\[a]\{1}`,
		`plain-value_`: `plain-value_`,
	}

	for input, want := range tests {
		assert.Equal(t, want, escapes.Escape(escape.Value, input), input)
	}
}

func TestQuery(t *testing.T) {
	r, err := NewQuery()
	require.NoError(t, err)

	tests := map[string]struct {
		query ast.Query
		want  string
	}{
		"process creation": {
			query: ast.Query{
				LogSource: ast.LogSource{Product: "windows", Category: "process_creation"},
				Node: ast.AndNode{Children: []ast.Node{
					ast.ComparisonNode{Field: ast.Field("Image"), Modifier: ast.ModifierEndsWith, Value: ast.StrLiteral(`\rundll32.exe`)},
					ast.NotNode{Child: ast.ComparisonNode{Field: ast.Field("CommandLine"), Modifier: ast.ModifierContains, Value: ast.Strings("a", "b")}},
				}},
			},
			want: `event_platform="Win" and #event_simpleName="ProcessRollup2" and (ImageFileName="*\\rundll32.exe" and not (CommandLine="*a*" or CommandLine="*b*"))`,
		},
		"regex and numbers": {
			query: ast.Query{
				Node: ast.OrNode{Children: []ast.Node{
					ast.ComparisonNode{Field: ast.Field("DestinationPort"), Value: ast.IntLiteral(4444)},
					ast.ComparisonNode{Field: ast.Field("CommandLine"), Modifier: ast.ModifierRegex, Value: ast.StrLiteral(`/tmp/\d+`)},
					ast.KeywordNode{Value: ast.StrLiteral("mimikatz")},
				}},
			},
			want: `RemotePort=4444 or CommandLine=/\/tmp\/\d+/ or "mimikatz"`,
		},
	}

	for name, tc := range tests {
		res, err := r.Render(tc.query)
		require.NoError(t, err, name)
		assert.Equal(t, tc.want, res.Output, name)
	}
}

func TestQueryFunctions(t *testing.T) {
	r, err := NewQuery()
	require.NoError(t, err)

	res, err := r.Render(ast.Query{
		Node: ast.ComparisonNode{Field: ast.Field("User"), Modifier: ast.ModifierStartsWith, Value: ast.StrLiteral("adm")},
		Functions: []ast.FunctionNode{
			{Name: ast.FunctionGroupBy, Args: []string{"User", "Image"}},
			{Name: ast.FunctionOrderBy, Args: []string{"_count", "asc"}},
			{Name: ast.FunctionLimit, Args: []string{"10"}},
			{Name: ast.FunctionTable},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, `UserName="adm*" | groupBy([UserName, ImageFileName], function=count()) | sort(_count, order=asc) | head(10)`+
		"\n\n/* Functions that are not supported by the target platform:\ntable() */", res.Output)
	assert.Equal(t, []string{"table()"}, res.NotSupportedFunctions)
}
