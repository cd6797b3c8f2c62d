package ast

import "strings"

// Node is the interface that all nodes in the expression tree must implement.
// It uses a private marker method to ensure only types defined in this
// package can be used as nodes, creating a controlled "sum type" behavior.
//
// Trees are built once by a parser and are never mutated by renderers.
type Node interface {
	queryNode()
}

// AndNode represents a logical conjunction.
// Renderers join children with the backend's and-token.
type AndNode struct {
	Children []Node
}

func (n AndNode) queryNode() {}

// OrNode represents a logical disjunction.
// Renderers join children with the backend's or-token.
type OrNode struct {
	Children []Node
}

func (n OrNode) queryNode() {}

// NotNode represents a logical negation of its single Child node.
type NotNode struct {
	Child Node
}

func (n NotNode) queryNode() {}

// FieldRef identifies a generic field.
// Overrides holds backend specific names keyed by platform id and wins over
// any mapping table when present.
type FieldRef struct {
	Name      string
	Overrides map[string]string
}

// Field is a shorthand for a FieldRef without overrides.
func Field(name string) FieldRef {
	return FieldRef{Name: name}
}

// ComparisonNode is a leaf node in the expression tree.
// It represents a concrete filter expression against a specific field.
type ComparisonNode struct {
	Field    FieldRef
	Modifier Modifier

	// Value is either a single Literal or a ListValue. A list is always
	// rendered as an OR of the scalar comparisons.
	Value Value
}

func (n ComparisonNode) queryNode() {}

// KeywordNode is an unstructured full-text search term.
type KeywordNode struct {
	Value Value
}

func (n KeywordNode) queryNode() {}

// FunctionNode is an aggregation, grouping, ordering or projection step.
// Args are generic field names or literal parameters depending on the function.
type FunctionNode struct {
	Name FunctionName
	Args []string
}

func (n FunctionNode) queryNode() {}

func (n FunctionNode) String() string {
	return string(n.Name) + "(" + strings.Join(n.Args, ", ") + ")"
}

// FunctionName is the closed set of functions a renderer may know about.
type FunctionName string

const (
	FunctionCount   FunctionName = "count"
	FunctionGroupBy FunctionName = "group_by"
	FunctionOrderBy FunctionName = "order_by"
	FunctionLimit   FunctionName = "limit"
	FunctionTable   FunctionName = "table"
)
