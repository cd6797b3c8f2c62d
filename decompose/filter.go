// Package decompose turns a LogRhythm query into the discrete filter groups
// stored by LogRhythm SIEM rules.
package decompose

import (
	"strings"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
)

// ItemType tells groups and items apart inside filterItems.
type ItemType int

const (
	ItemTypeFilter ItemType = 0
	ItemTypeGroup  ItemType = 1
)

// Operator combines the elements of a group or the values of an item.
type Operator int

const (
	OperatorAnd Operator = 0
	OperatorOr  Operator = 1
)

// FilterMode is include or exclude.
type FilterMode int

const (
	FilterModeInclude FilterMode = 1
	FilterModeExclude FilterMode = 2
)

const (
	// ValueTypeString is the only value type produced.
	ValueTypeString = 4

	// MatchTypeValue is the only match type produced.
	MatchTypeValue = 0
)

// Element is a *FilterItem or a *FilterGroup.
type Element interface {
	mode() FilterMode
	setMode(FilterMode)
}

// FilterGroup is a boolean group of elements.
type FilterGroup struct {
	FilterItemType      ItemType   `json:"filterItemType"`
	FieldOperator       Operator   `json:"fieldOperator"`
	FilterMode          FilterMode `json:"filterMode"`
	FilterGroupOperator Operator   `json:"filterGroupOperator"`
	FilterItems         []Element  `json:"filterItems"`
	Name                string     `json:"name"`
}

func (g *FilterGroup) mode() FilterMode { return g.FilterMode }
func (g *FilterGroup) setMode(m FilterMode) { g.FilterMode = m }

// NewGroup returns an include group.
func NewGroup(op Operator, items ...Element) *FilterGroup {
	if items == nil {
		items = []Element{}
	}
	return &FilterGroup{
		FilterItemType:      ItemTypeGroup,
		FieldOperator:       op,
		FilterMode:          FilterModeInclude,
		FilterGroupOperator: op,
		FilterItems:         items,
		Name:                "Filter Group",
	}
}

// FilterItem filters one field type. Its values are OR-ed.
type FilterItem struct {
	FilterItemType ItemType      `json:"filterItemType"`
	FieldOperator  Operator      `json:"fieldOperator"`
	FilterMode     FilterMode    `json:"filterMode"`
	FilterType     int           `json:"filterType"`
	Values         []FilterValue `json:"values"`
	Name           string        `json:"name"`
}

func (i *FilterItem) mode() FilterMode { return i.FilterMode }
func (i *FilterItem) setMode(m FilterMode) { i.FilterMode = m }

// negate excludes el. An element that is already excluded is wrapped first so
// a double negation keeps its meaning.
func negate(el Element) Element {
	if el.mode() == FilterModeExclude {
		el = NewGroup(OperatorAnd, el)
	}
	el.setMode(FilterModeExclude)
	return el
}

// FilterValue is a single value record of an item.
type FilterValue struct {
	FilterType   int        `json:"filterType"`
	ValueType    int        `json:"valueType"`
	Value        MatchValue `json:"value"`
	DisplayValue string     `json:"displayValue"`
}

type MatchValue struct {
	// Value is a string or an int64.
	Value     any `json:"value"`
	MatchType int `json:"matchType"`
}

func newItem(ft FieldType, values ...any) *FilterItem {
	item := &FilterItem{
		FilterItemType: ItemTypeFilter,
		FieldOperator:  OperatorOr,
		FilterMode:     FilterModeInclude,
		FilterType:     ft.Code,
		Name:           ft.Name,
	}
	for _, v := range values {
		item.Values = append(item.Values, newValue(ft.Code, v))
	}
	return item
}

func newValue(code int, v any) FilterValue {
	if s, ok := v.(string); ok {
		v = strings.ReplaceAll(s, `\`, "/")
	}

	return FilterValue{
		FilterType: code,
		ValueType:  ValueTypeString,
		Value: MatchValue{
			Value:     v,
			MatchType: MatchTypeValue,
		},
		DisplayValue: displayValue(v),
	}
}

func displayValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return ast.IntLiteral(t).String()
	default:
		return ""
	}
}

// Input is what a Decomposer may look at. Text decomposers read Query, tree
// decomposers read Node.
type Input struct {
	Query string
	Node  ast.Node

	// Field resolves a generic field to its LogRhythm schema name.
	Field func(ast.FieldRef) string
}

// Decomposer builds the root filter group of a rule. Clauses it cannot
// express are dropped and reported as soft faults.
type Decomposer interface {
	Decompose(in Input) (*FilterGroup, []error)
}
