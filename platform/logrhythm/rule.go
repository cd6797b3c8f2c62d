package logrhythm

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/decompose"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/render"
)

const autogeneratedTitle = "Autogenerated LogRhythm Siem Rule"

const (
	// Rule timestamps fall within this window before now.
	timestampWindow = 24 * time.Hour

	createdLayout = "2006-01-02T15:04:05.000000Z"
	usedLayout    = "2006-01-02T15:04:05Z"
)

//go:embed rule.json
var ruleTemplate []byte

func defaultRule() (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(ruleTemplate, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse rule template: %w", err)
	}
	return doc, nil
}

var severities = map[ast.Severity]string{
	ast.SeverityCritical:      "critical",
	ast.SeverityHigh:          "high",
	ast.SeverityMedium:        "medium",
	ast.SeverityLow:           "low",
	ast.SeverityInformational: "low",
}

type options struct {
	text  bool
	clock func() time.Time
	rand  render.RandomSource
}

// Option customizes NewRule.
type Option func(*options)

// WithTextDecomposition builds the rule filter by reverse parsing the
// rendered query instead of walking the query tree. The filter is then a
// single OR group.
func WithTextDecomposition() Option {
	return func(o *options) {
		o.text = true
	}
}

func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func WithRandomSource(r render.RandomSource) Option {
	return func(o *options) {
		o.rand = r
	}
}

type ruleFiller struct {
	decomposer decompose.Decomposer
	text       bool
}

func (f ruleFiller) populate(doc map[string]any, c render.RuleContent) []error {
	doc["title"] = c.Title
	doc["description"] = c.Description
	doc["severity"] = c.Severity

	if !c.Timestamp.IsZero() {
		doc["dateCreated"] = c.Timestamp.Format(createdLayout)
		doc["dateSaved"] = c.Timestamp.Format(createdLayout)
		doc["dateUsed"] = c.Timestamp.Format(usedLayout)
	}

	group, diags := f.decomposer.Decompose(decompose.Input{
		Query: c.Query,
		Node:  c.Tree.Node,
		Field: c.Field,
	})

	// The rendered query already carries the log-source condition; the tree
	// does not.
	if !f.text && c.Source.ExtraCondition != "" {
		extra, extraDiags := decompose.TextDecomposer{}.Decompose(decompose.Input{Query: c.Source.ExtraCondition})
		diags = append(extraDiags, diags...)
		group = withCondition(extra, group)
	}

	render.Path(doc, "queryFilter")["filterGroup"] = group

	return diags
}

// withCondition ANDs the items of cond in front of group.
func withCondition(cond, group *decompose.FilterGroup) *decompose.FilterGroup {
	if len(cond.FilterItems) == 0 {
		return group
	}
	if len(group.FilterItems) == 0 {
		return decompose.NewGroup(decompose.OperatorAnd, cond.FilterItems...)
	}

	items := append([]decompose.Element{}, cond.FilterItems...)
	if group.FieldOperator == decompose.OperatorAnd {
		items = append(items, group.FilterItems...)
	} else {
		items = append(items, group)
	}
	return decompose.NewGroup(decompose.OperatorAnd, items...)
}

// NewRule builds the rule renderer. By default the rule filter keeps the
// nesting of the query tree.
func NewRule(opts ...Option) (*render.QueryRender, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := queryConfig(RuleDetails)
	if err != nil {
		return nil, err
	}

	template, err := defaultRule()
	if err != nil {
		return nil, err
	}

	filler := ruleFiller{decomposer: decompose.TreeDecomposer{}, text: o.text}
	if o.text {
		filler.decomposer = decompose.TextDecomposer{}
	}

	rule, err := render.NewRuleRender(render.RuleConfig{
		Template:           template,
		Severities:         severities,
		AutogeneratedTitle: autogeneratedTitle,
		Populate:           filler.populate,
		TimestampWindow:    timestampWindow,
		Clock:              o.clock,
		Rand:               o.rand,
	})
	if err != nil {
		return nil, err
	}
	cfg.Finalizer = rule

	return render.NewQueryRender(cfg)
}
