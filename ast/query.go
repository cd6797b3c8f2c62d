package ast

import (
	"fmt"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
)

// Query is one translation request as produced by a source-format parser.
type Query struct {
	// Node is the root of the detection logic. It may be nil for a rule that
	// only selects a log source.
	Node Node `json:"-"`

	// Functions are the aggregation and ordering steps that follow the filter.
	Functions []FunctionNode `json:"-"`

	// LogSource is the generic log-source descriptor used to pick a table.
	LogSource LogSource `json:"logsource"`

	// Meta is only consumed by rule renderers.
	Meta MetaInfo `json:"meta"`
}

// LogSource is a generic log-source descriptor.
type LogSource struct {
	Product  string `json:"product,omitempty" yaml:"product,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Service  string `json:"service,omitempty" yaml:"service,omitempty"`
}

func (s LogSource) String() string {
	return fmt.Sprintf("product=%q category=%q service=%q", s.Product, s.Category, s.Service)
}

// IsZero reports whether no descriptor attribute is set.
func (s LogSource) IsZero() bool {
	return s.Product == "" && s.Category == "" && s.Service == ""
}

// MetaInfo carries the rule metadata injected into rule documents.
type MetaInfo struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Author      string   `json:"author,omitempty"`
	License     string   `json:"license,omitempty"`
	Severity    Severity `json:"severity,omitempty"`
	References  []string `json:"references,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Severity is the generic severity vocabulary.
type Severity string

const (
	SeverityCritical      Severity = "critical"
	SeverityHigh          Severity = "high"
	SeverityMedium        Severity = "medium"
	SeverityLow           Severity = "low"
	SeverityInformational Severity = "informational"
)

// Severities returns every generic severity. Severity maps of rule renderers
// must cover all of them.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInformational}
}

// Validate checks the structural invariants a renderer relies on.
func (q Query) Validate() error {
	if q.Meta.Severity != "" && !q.Meta.Severity.valid() {
		return fault.New(fault.BadInputCode, "").WithMetadata(fault.FieldErrorsMetadata{
			"meta.severity": []string{fmt.Sprintf("Unknown severity %q.", q.Meta.Severity)},
		})
	}

	if err := validateNode(q.Node); err != nil {
		return err
	}

	for _, fn := range q.Functions {
		if fn.Name == "" {
			return fault.New(fault.BadInputCode, "").WithMetadata(fault.FieldErrorsMetadata{
				"functions": []string{"Function name is required."},
			})
		}
	}

	return nil
}

func (s Severity) valid() bool {
	for _, v := range Severities() {
		if s == v {
			return true
		}
	}
	return false
}

func validateNode(node Node) error {
	switch n := node.(type) {
	case nil:
		return nil
	case AndNode:
		return validateChildren(n.Children)
	case OrNode:
		return validateChildren(n.Children)
	case NotNode:
		if n.Child == nil {
			return fault.New(fault.BadInputCode, "not node without child")
		}
		return validateNode(n.Child)
	case ComparisonNode:
		if n.Modifier != ModifierKeywords && n.Field.Name == "" {
			return fault.New(fault.BadInputCode, "comparison without field").WithMetadata(map[string]any{"modifier": n.Modifier.String()})
		}
		return validateValue(n.Value)
	case KeywordNode:
		return validateValue(n.Value)
	case FunctionNode:
		return nil
	default:
		return fault.New(fault.BadInputCode, fmt.Sprintf("unknown node type: %T", node))
	}
}

func validateChildren(children []Node) error {
	if len(children) == 0 {
		return fault.New(fault.BadInputCode, "boolean node without children")
	}
	for _, c := range children {
		if err := validateNode(c); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(v Value) error {
	switch val := v.(type) {
	case IntLiteral, StrLiteral:
		return nil
	case ListValue:
		if len(val) == 0 {
			return fault.New(fault.BadInputCode, "empty value list")
		}
		return nil
	default:
		return fault.New(fault.BadInputCode, fmt.Sprintf("invalid value type: %T", v))
	}
}
