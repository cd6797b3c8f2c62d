package decompose

import (
	"fmt"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
)

// TreeDecomposer builds filter groups straight from the query tree. And and
// Or become groups with the matching operator and Not excludes its operand,
// so nesting survives.
//
// Substring modifiers are written as `*` wildcard values. Ordering and
// regex comparisons have no filter form and are dropped with a diagnostic.
type TreeDecomposer struct{}

func (TreeDecomposer) Decompose(in Input) (*FilterGroup, []error) {
	st := &treeState{field: in.Field}

	el := st.node(in.Node)
	if el == nil {
		return NewGroup(OperatorAnd), st.diags
	}

	if g, ok := el.(*FilterGroup); ok && g.FilterMode == FilterModeInclude {
		return g, st.diags
	}

	return NewGroup(OperatorAnd, el), st.diags
}

type treeState struct {
	field func(ast.FieldRef) string
	diags []error
}

func (st *treeState) node(node ast.Node) Element {
	switch n := node.(type) {
	case ast.AndNode:
		return st.group(OperatorAnd, n.Children)

	case ast.OrNode:
		return st.group(OperatorOr, n.Children)

	case ast.NotNode:
		el := st.node(n.Child)
		if el == nil {
			return nil
		}
		return negate(el)

	case ast.ComparisonNode:
		if n.Modifier == ast.ModifierKeywords {
			return st.item(RawMessageField, ast.ModifierContains, n.Value)
		}
		return st.item(st.resolve(n.Field), n.Modifier, n.Value)

	case ast.KeywordNode:
		return st.item(RawMessageField, ast.ModifierContains, n.Value)

	default:
		// Functions have no filter form.
		return nil
	}
}

func (st *treeState) resolve(f ast.FieldRef) string {
	if st.field == nil {
		return f.Name
	}
	return st.field(f)
}

func (st *treeState) group(op Operator, children []ast.Node) Element {
	var items []Element
	for _, c := range children {
		if el := st.node(c); el != nil {
			items = append(items, el)
		}
	}

	switch len(items) {
	case 0:
		return nil
	case 1:
		return items[0]
	default:
		return NewGroup(op, items...)
	}
}

func (st *treeState) item(field string, mod ast.Modifier, value ast.Value) Element {
	ft, err := LookupField(field)
	if err != nil {
		st.diags = append(st.diags, err)
		return nil
	}

	match := mod
	negated := mod == ast.ModifierNotEqual
	if negated {
		match = ast.ModifierEqual
	}
	// The query matches the raw message as a substring even under equal.
	if field == RawMessageField && match == ast.ModifierEqual {
		match = ast.ModifierContains
	}

	var lits []ast.Literal
	switch v := value.(type) {
	case ast.ListValue:
		lits = v
	case ast.Literal:
		lits = []ast.Literal{v}
	}

	values := make([]any, 0, len(lits))
	for _, lit := range lits {
		v, ok := filterValue(match, lit)
		if !ok {
			st.diags = append(st.diags, fault.New(fault.UnsupportedShapeCode,
				fmt.Sprintf("modifier `%s` has no filter form", mod)).WithMetadata(map[string]any{
				"field":    field,
				"modifier": mod.String(),
			}))
			return nil
		}
		values = append(values, v)
	}

	switch {
	case len(values) == 0:
		return nil
	case !negated:
		return newItem(ft, values...)
	case len(values) == 1:
		return negate(newItem(ft, values[0]))
	}

	// A negated list fans out like the query does: one exclusion per value,
	// OR-ed together.
	items := make([]Element, len(values))
	for i, v := range values {
		items[i] = negate(newItem(ft, v))
	}
	return NewGroup(OperatorOr, items...)
}

func filterValue(mod ast.Modifier, lit ast.Literal) (any, bool) {
	if n, ok := lit.(ast.IntLiteral); ok && mod == ast.ModifierEqual {
		return int64(n), true
	}

	s := lit.String()
	switch mod {
	case ast.ModifierEqual:
		return s, true
	case ast.ModifierContains:
		return "*" + s + "*", true
	case ast.ModifierStartsWith:
		return s + "*", true
	case ast.ModifierEndsWith:
		return "*" + s, true
	default:
		return nil, false
	}
}
