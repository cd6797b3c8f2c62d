package escape

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// ValueType selects which escaping rules apply to a literal.
type ValueType string

const (
	// Value is used for plain literals embedded in quotes.
	Value ValueType = "value"
	// RegexValue is used for literals that are embedded as regular expressions.
	RegexValue ValueType = "regex_value"
)

// DefaultChar is the escape character used when none is configured.
const DefaultChar = `\`

// Details pairs a value type with the pattern of characters to escape.
// Patterns use .NET/Perl syntax so lookarounds are available.
//
// A pattern that matches the escape character itself doubles it, which makes
// escaping non-idempotent. Platforms state which case applies next to their pattern.
type Details struct {
	Type    ValueType
	Pattern string
}

// Manager escapes literals before they are embedded into target syntax.
// It holds only compiled patterns and is safe for concurrent use.
type Manager struct {
	char     string
	patterns map[ValueType]*regexp2.Regexp
}

// New compiles the given escape details. An empty char selects DefaultChar.
func New(char string, details ...Details) (*Manager, error) {
	if char == "" {
		char = DefaultChar
	}

	patterns := make(map[ValueType]*regexp2.Regexp, len(details))
	for _, d := range details {
		re, err := regexp2.Compile(d.Pattern, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("cannot compile escape pattern for `%s`: %w", d.Type, err)
		}
		patterns[d.Type] = re
	}

	return &Manager{char: char, patterns: patterns}, nil
}

// MustNew is like New but panics on an invalid pattern. It is meant for
// package level platform definitions.
func MustNew(char string, details ...Details) *Manager {
	m, err := New(char, details...)
	if err != nil {
		panic(err)
	}
	return m
}

// Escape prefixes every match of the pattern registered for vt with the escape
// character. Values of an unregistered type are returned unchanged.
func (m *Manager) Escape(vt ValueType, raw string) string {
	if m == nil {
		return raw
	}

	re, ok := m.patterns[vt]
	if !ok {
		return raw
	}

	escaped, err := re.ReplaceFunc(raw, func(match regexp2.Match) string {
		return m.char + match.String()
	}, -1, -1)
	if err != nil {
		// Only a match timeout can fail and none is configured.
		return raw
	}

	return escaped
}

// Char returns the escape character.
func (m *Manager) Char() string {
	if m == nil {
		return DefaultChar
	}
	return m.char
}
