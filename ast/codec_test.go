package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNode(t *testing.T) {
	tests := map[string]Node{
		`{"field": "user", "modifier": "equal", "value": ["alice", "bob"]}`: ComparisonNode{
			Field:    FieldRef{Name: "user"},
			Modifier: ModifierEqual,
			Value:    Strings("alice", "bob"),
		},
		`{"field": "port", "value": 443}`: ComparisonNode{
			Field:    FieldRef{Name: "port"},
			Modifier: ModifierEqual,
			Value:    IntLiteral(443),
		},
		`{"field": "port", "value": "443"}`: ComparisonNode{
			Field:    FieldRef{Name: "port"},
			Modifier: ModifierEqual,
			Value:    StrLiteral("443"),
		},
		`{"keyword": "mimikatz"}`: KeywordNode{Value: StrLiteral("mimikatz")},
		`{"not": {"field": "host", "modifier": "contains", "value": "test"}}`: NotNode{
			Child: ComparisonNode{Field: FieldRef{Name: "host"}, Modifier: ModifierContains, Value: StrLiteral("test")},
		},
		`{"and": [{"keyword": "a"}, {"or": [{"keyword": "b"}, {"keyword": 3}]}]}`: AndNode{Children: []Node{
			KeywordNode{Value: StrLiteral("a")},
			OrNode{Children: []Node{KeywordNode{Value: StrLiteral("b")}, KeywordNode{Value: IntLiteral(3)}}},
		}},
		`{"function": {"name": "count"}}`: FunctionNode{Name: FunctionCount},
		`{"field": "Image", "overrides": {"qradar-aql-query": "Process Path"}, "modifier": "endswith", "value": "\\cmd.exe"}`: ComparisonNode{
			Field:    FieldRef{Name: "Image", Overrides: map[string]string{"qradar-aql-query": "Process Path"}},
			Modifier: ModifierEndsWith,
			Value:    StrLiteral(`\cmd.exe`),
		},
	}

	for input, want := range tests {
		got, err := DecodeNode([]byte(input))
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestDecodeNodeErrors(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"keyword": "a", "field": "b", "value": "c"}`,
		`{"field": "a", "modifier": "sounds_like", "value": "b"}`,
		`{"field": "a", "value": 1.5}`,
		`{"field": "a", "value": true}`,
		`{"field": "a"}`,
		`{"unknown": 1}`,
	}

	for _, input := range inputs {
		_, err := DecodeNode([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestQueryUnmarshalJSON(t *testing.T) {
	input := `{
		"logsource": {"product": "windows", "category": "process_creation"},
		"meta": {"title": "Whoami", "severity": "high", "author": "jab"},
		"detection": {"field": "Image", "modifier": "endswith", "value": "\\whoami.exe"},
		"functions": [{"name": "group_by", "args": ["User"]}]
	}`

	var q Query
	require.NoError(t, json.Unmarshal([]byte(input), &q))

	assert.Equal(t, LogSource{Product: "windows", Category: "process_creation"}, q.LogSource)
	assert.Equal(t, "Whoami", q.Meta.Title)
	assert.Equal(t, SeverityHigh, q.Meta.Severity)
	assert.Equal(t, ComparisonNode{Field: Field("Image"), Modifier: ModifierEndsWith, Value: StrLiteral(`\whoami.exe`)}, q.Node)
	assert.Equal(t, []FunctionNode{{Name: FunctionGroupBy, Args: []string{"User"}}}, q.Functions)
	assert.NoError(t, q.Validate())
}
