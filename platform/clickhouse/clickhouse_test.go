package clickhouse

import (
	"testing"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	r, err := NewQuery()
	require.NoError(t, err)

	tests := map[string]struct {
		query ast.Query
		want  string
	}{
		"extra condition": {
			query: ast.Query{
				LogSource: ast.LogSource{Product: "windows"},
				Node: ast.AndNode{Children: []ast.Node{
					ast.ComparisonNode{Field: ast.Field("CommandLine"), Modifier: ast.ModifierContains, Value: ast.StrLiteral("mimikatz")},
					ast.ComparisonNode{Field: ast.Field("Image"), Modifier: ast.ModifierEndsWith, Value: ast.StrLiteral(`\lsass.exe`)},
				}},
			},
			want: `SELECT * FROM processed_logs WHERE source = 'windows' AND (metadata.CommandLine ILIKE '%mimikatz%' AND metadata.Image ILIKE '%\\lsass.exe')`,
		},
		"keywords and negation": {
			query: ast.Query{
				Node: ast.AndNode{Children: []ast.Node{
					ast.KeywordNode{Value: ast.StrLiteral("o'brien")},
					ast.NotNode{Child: ast.ComparisonNode{Field: ast.Field("EventID"), Value: ast.Ints(4624, 4625)}},
				}},
			},
			want: `SELECT * FROM processed_logs WHERE positionCaseInsensitive(message, 'o\'brien') > 0 AND NOT (metadata.EventID = 4624 OR metadata.EventID = 4625)`,
		},
		"regex and quoted identifiers": {
			query: ast.Query{
				Node: ast.OrNode{Children: []ast.Node{
					ast.ComparisonNode{Field: ast.Field("User"), Modifier: ast.ModifierRegex, Value: ast.StrLiteral(`^adm\d+$`)},
					ast.ComparisonNode{Field: ast.Field("Odd Field"), Modifier: ast.ModifierStartsWith, Value: ast.StrLiteral("x")},
				}},
			},
			want: "SELECT * FROM processed_logs WHERE match(metadata.User, '^adm\\\\d+$') OR `Odd Field` ILIKE 'x%'",
		},
		"raw table without condition": {
			query: ast.Query{
				LogSource: ast.LogSource{Category: "raw"},
				Functions: []ast.FunctionNode{{Name: ast.FunctionCount}},
			},
			want: `SELECT count() AS count FROM raw_logs`,
		},
		"projection": {
			query: ast.Query{
				Node:      ast.ComparisonNode{Field: ast.Field("Level"), Value: ast.StrLiteral("ERROR")},
				Functions: []ast.FunctionNode{{Name: ast.FunctionTable, Args: []string{"Image", "CommandLine"}}},
			},
			want: `SELECT metadata.Image, metadata.CommandLine FROM processed_logs WHERE level = 'ERROR'`,
		},
	}

	for name, tc := range tests {
		res, err := r.Render(tc.query)
		require.NoError(t, err, name)
		assert.Equal(t, tc.want, res.Output, name)
		assert.Empty(t, res.Diagnostics, name)
	}
}

func TestQueryAggregation(t *testing.T) {
	r, err := NewQuery()
	require.NoError(t, err)

	res, err := r.Render(ast.Query{
		Node: ast.ComparisonNode{Field: ast.Field("EventID"), Value: ast.IntLiteral(4625)},
		Functions: []ast.FunctionNode{
			{Name: ast.FunctionGroupBy, Args: []string{"User"}},
			{Name: ast.FunctionCount},
			{Name: ast.FunctionOrderBy, Args: []string{"count", "desc"}},
			{Name: ast.FunctionLimit, Args: []string{"10"}},
			{Name: ast.FunctionTable},
		},
	})
	require.NoError(t, err)

	want := "SELECT metadata.User, count() AS count FROM processed_logs WHERE metadata.EventID = 4625 " +
		"GROUP BY metadata.User ORDER BY count DESC LIMIT 10" +
		"\n\n-- Functions that are not supported by the target platform:\n-- table()"
	assert.Equal(t, want, res.Output)
	require.Len(t, res.Diagnostics, 1)
	assert.True(t, fault.HasCode(res.Diagnostics[0], fault.UnsupportedFunctionCode))
}

func TestSQLBuilderPlan(t *testing.T) {
	b := newSQLBuilder(sqlOptions{SelectColumns: []string{"timestamp", "message"}})
	identity := func(f ast.FieldRef) string { return f.Name }

	tests := map[string]struct {
		fns         []ast.FunctionNode
		wantSelect  []string
		wantTail    string
		unsupported []string
	}{
		"defaults": {
			wantSelect: []string{"timestamp", "message"},
		},
		"order defaults to ascending": {
			fns:        []ast.FunctionNode{{Name: ast.FunctionOrderBy, Args: []string{"timestamp"}}},
			wantSelect: []string{"timestamp", "message"},
			wantTail:   " ORDER BY timestamp ASC",
		},
		"bad limits": {
			fns: []ast.FunctionNode{
				{Name: ast.FunctionLimit, Args: []string{"ten"}},
				{Name: ast.FunctionLimit, Args: []string{"5"}},
				{Name: ast.FunctionLimit, Args: []string{"6"}},
			},
			wantSelect:  []string{"timestamp", "message"},
			wantTail:    " LIMIT 5",
			unsupported: []string{"limit(ten)", "limit(6)"},
		},
		"group without count": {
			fns:        []ast.FunctionNode{{Name: ast.FunctionGroupBy, Args: []string{"source", "level"}}},
			wantSelect: []string{"source", "level"},
			wantTail:   " GROUP BY source, level",
		},
		"quoted columns": {
			fns:        []ast.FunctionNode{{Name: ast.FunctionTable, Args: []string{"a`b", "1st"}}},
			wantSelect: []string{"`a``b`", "`1st`"},
		},
	}

	for name, tc := range tests {
		p := b.plan(tc.fns, identity)
		assert.Equal(t, tc.wantSelect, p.selectCols, name)
		assert.Equal(t, tc.wantTail, p.tail(), name)

		var unsupported []string
		for _, fn := range p.notSupported {
			unsupported = append(unsupported, fn.String())
		}
		assert.Equal(t, tc.unsupported, unsupported, name)
	}
}
