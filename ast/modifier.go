package ast

import "fmt"

// Modifier defines the comparison or matching operator applied between a
// field and a value.
type Modifier uint8

const (
	// ModifierEqual checks if the field is equal to the value.
	ModifierEqual Modifier = iota
	// ModifierNotEqual checks if the field is not equal to the value.
	ModifierNotEqual
	// ModifierLess checks if the field is strictly less than the value.
	ModifierLess
	// ModifierLessOrEqual checks if the field is less than or equal to the value.
	ModifierLessOrEqual
	// ModifierGreater checks if the field is strictly greater than the value.
	ModifierGreater
	// ModifierGreaterOrEqual checks if the field is greater than or equal to the value.
	ModifierGreaterOrEqual
	// ModifierContains checks if the field contains the value as a substring.
	ModifierContains
	// ModifierStartsWith checks if the field starts with the value.
	ModifierStartsWith
	// ModifierEndsWith checks if the field ends with the value.
	ModifierEndsWith
	// ModifierRegex checks if the field matches the value as a regular expression.
	ModifierRegex
	// ModifierKeywords ignores the field and searches the value as free text.
	ModifierKeywords
)

var modifierNames = [...]string{
	ModifierEqual:          "equal",
	ModifierNotEqual:       "not_equal",
	ModifierLess:           "less",
	ModifierLessOrEqual:    "less_or_equal",
	ModifierGreater:        "greater",
	ModifierGreaterOrEqual: "greater_or_equal",
	ModifierContains:       "contains",
	ModifierStartsWith:     "startswith",
	ModifierEndsWith:       "endswith",
	ModifierRegex:          "regex",
	ModifierKeywords:       "keywords",
}

// Modifiers returns every known modifier in declaration order.
func Modifiers() []Modifier {
	mods := make([]Modifier, len(modifierNames))
	for i := range modifierNames {
		mods[i] = Modifier(i)
	}
	return mods
}

func (m Modifier) String() string {
	if int(m) < len(modifierNames) {
		return modifierNames[m]
	}
	return fmt.Sprintf("modifier(%d)", uint8(m))
}

// ParseModifier looks up a modifier by its wire name.
func ParseModifier(name string) (Modifier, error) {
	for i, n := range modifierNames {
		if n == name {
			return Modifier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown modifier: %s", name)
}
