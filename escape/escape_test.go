package escape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	// Quotes only. The pattern excludes the escape character.
	m, err := New("", Details{Type: Value, Pattern: `'`})
	require.NoError(t, err)

	tests := map[string]string{
		"plain":        "plain",
		"it's":         `it\'s`,
		"'quoted'":     `\'quoted\'`,
		`c:\windows\x`: `c:\windows\x`,
	}

	for input, want := range tests {
		assert.Equal(t, want, m.Escape(Value, input), input)
	}
}

func TestEscapeUnregisteredTypePassesThrough(t *testing.T) {
	m := MustNew("", Details{Type: Value, Pattern: `"`})

	assert.Equal(t, `a"b`, m.Escape(RegexValue, `a"b`))

	var nilManager *Manager
	assert.Equal(t, `a"b`, nilManager.Escape(Value, `a"b`))
}

func TestEscapeLookahead(t *testing.T) {
	// A closing parenthesis followed by a wildcard is left alone.
	m := MustNew("", Details{Type: Value, Pattern: `(\)(?![*?\\]))`})

	assert.Equal(t, `a\)b`, m.Escape(Value, "a)b"))
	assert.Equal(t, `a)*b`, m.Escape(Value, "a)*b"))
}

func TestEscapeEveryMatchIsPrefixed(t *testing.T) {
	m := MustNew("", Details{Type: Value, Pattern: `["*]`})

	got := m.Escape(Value, `"a*b"`)

	assert.Equal(t, `\"a\*b\"`, got)
	for i, r := range got {
		if r == '"' || r == '*' {
			assert.Equal(t, byte('\\'), got[i-1])
		}
	}
}

func TestEscapeIdempotenceDependsOnPattern(t *testing.T) {
	// Quotes that are already preceded by the escape character are skipped.
	excludes := MustNew("", Details{Type: Value, Pattern: `(?<!\\)"`})
	once := excludes.Escape(Value, `say "hi"`)
	assert.Equal(t, `say \"hi\"`, once)
	assert.Equal(t, once, excludes.Escape(Value, once))

	includes := MustNew("", Details{Type: Value, Pattern: `["\\]`})
	onceIncl := includes.Escape(Value, `say "hi"`)
	assert.NotEqual(t, onceIncl, includes.Escape(Value, onceIncl))
}

func TestNewInvalidPattern(t *testing.T) {
	_, err := New("", Details{Type: Value, Pattern: `(`})
	assert.Error(t, err)
}
