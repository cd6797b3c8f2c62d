package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// wireNode is the JSON form of a Node. Exactly one of the groups below must be set:
//
//	{"and": [...]} | {"or": [...]} | {"not": {...}}
//	{"field": "user", "modifier": "equal", "value": ["alice", "bob"]}
//	{"keyword": "mimikatz"}
//	{"function": {"name": "count", "args": []}}
type wireNode struct {
	And       []json.RawMessage `json:"and"`
	Or        []json.RawMessage `json:"or"`
	Not       json.RawMessage   `json:"not"`
	Field     string            `json:"field"`
	Overrides map[string]string `json:"overrides"`
	Modifier  string            `json:"modifier"`
	Value     json.RawMessage   `json:"value"`
	Keyword   json.RawMessage   `json:"keyword"`
	Function  *wireFunction     `json:"function"`
}

type wireFunction struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

type wireQuery struct {
	Detection json.RawMessage `json:"detection"`
	Functions []wireFunction  `json:"functions"`
	LogSource LogSource       `json:"logsource"`
	Meta      MetaInfo        `json:"meta"`
}

// UnmarshalJSON decodes a query in its wire form.
func (q *Query) UnmarshalJSON(data []byte) error {
	var w wireQuery
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var node Node
	if len(w.Detection) > 0 && !bytes.Equal(bytes.TrimSpace(w.Detection), []byte("null")) {
		n, err := DecodeNode(w.Detection)
		if err != nil {
			return fmt.Errorf("detection: %w", err)
		}
		node = n
	}

	functions := make([]FunctionNode, len(w.Functions))
	for i, f := range w.Functions {
		functions[i] = FunctionNode{Name: FunctionName(f.Name), Args: f.Args}
	}

	*q = Query{
		Node:      node,
		Functions: functions,
		LogSource: w.LogSource,
		Meta:      w.Meta,
	}

	return nil
}

// DecodeNode decodes a single expression node from its wire form.
func DecodeNode(data []byte) (Node, error) {
	var w wireNode
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return nil, err
	}

	kinds := 0
	for _, set := range []bool{w.And != nil, w.Or != nil, len(w.Not) > 0, w.Field != "" || w.Modifier != "", len(w.Keyword) > 0, w.Function != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, errors.New("node must have exactly one of and, or, not, field, keyword, function")
	}

	switch {
	case w.And != nil:
		children, err := decodeChildren(w.And)
		if err != nil {
			return nil, err
		}
		return AndNode{Children: children}, nil

	case w.Or != nil:
		children, err := decodeChildren(w.Or)
		if err != nil {
			return nil, err
		}
		return OrNode{Children: children}, nil

	case len(w.Not) > 0:
		child, err := DecodeNode(w.Not)
		if err != nil {
			return nil, err
		}
		return NotNode{Child: child}, nil

	case len(w.Keyword) > 0:
		v, err := decodeValue(w.Keyword)
		if err != nil {
			return nil, fmt.Errorf("keyword: %w", err)
		}
		return KeywordNode{Value: v}, nil

	case w.Function != nil:
		return FunctionNode{Name: FunctionName(w.Function.Name), Args: w.Function.Args}, nil

	default:
		mod := ModifierEqual
		if w.Modifier != "" {
			m, err := ParseModifier(w.Modifier)
			if err != nil {
				return nil, err
			}
			mod = m
		}
		v, err := decodeValue(w.Value)
		if err != nil {
			return nil, fmt.Errorf("field `%s`: %w", w.Field, err)
		}
		return ComparisonNode{
			Field:    FieldRef{Name: w.Field, Overrides: w.Overrides},
			Modifier: mod,
			Value:    v,
		}, nil
	}
}

func decodeChildren(raw []json.RawMessage) ([]Node, error) {
	children := make([]Node, 0, len(raw))
	for i, r := range raw {
		n, err := DecodeNode(r)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		children = append(children, n)
	}
	return children, nil
}

func decodeValue(raw json.RawMessage) (Value, error) {
	if len(raw) == 0 {
		return nil, errors.New("value is required")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	if list, ok := v.([]any); ok {
		values := make(ListValue, 0, len(list))
		for _, item := range list {
			lit, err := toLiteral(item)
			if err != nil {
				return nil, err
			}
			values = append(values, lit)
		}
		return values, nil
	}

	return toLiteral(v)
}

func toLiteral(v any) (Literal, error) {
	switch val := v.(type) {
	case string:
		return StrLiteral(val), nil
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("only integral numbers are supported, got %s", val)
		}
		return IntLiteral(i), nil
	default:
		return nil, fmt.Errorf("unsupported literal type %T", v)
	}
}
