package render

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/mapping"
)

// RandomSource is the subset of *rand.Rand used for synthetic timestamps.
// The package level math/rand/v2 functions back the default, so a shared
// renderer stays safe for concurrent use.
type RandomSource interface {
	Int64N(n int64) int64
}

type globalRand struct{}

func (globalRand) Int64N(n int64) int64 {
	return rand.Int64N(n)
}

// RuleContent is what a platform places into its rule document.
type RuleContent struct {
	Title       string
	Description string

	// Severity is already translated to the platform vocabulary.
	Severity string

	// Query is the rendered query without the unsupported functions block.
	Query string

	// Timestamp is a synthetic recent time.
	Timestamp time.Time

	Meta   ast.MetaInfo
	Tree   ast.Query
	Source mapping.SourceMapping
	Field  FieldResolver
}

// RuleConfig configures a RuleRender.
type RuleConfig struct {
	// Template is the default rule document. It is deep-copied for every rule.
	Template map[string]any

	// Severities maps every generic severity to the platform vocabulary.
	Severities map[ast.Severity]string

	// AutogeneratedTitle is used as title and description when none is given.
	AutogeneratedTitle string

	// Populate places the content into the copied document and may report
	// soft diagnostics.
	Populate func(doc map[string]any, c RuleContent) []error

	// TimestampWindow bounds how far in the past synthetic timestamps go.
	// Zero disables them.
	TimestampWindow time.Duration

	Clock func() time.Time
	Rand  RandomSource
}

// RuleRender is the finalize phase of rule-document platforms.
type RuleRender struct {
	cfg RuleConfig
}

// NewRuleRender checks that the severity map is total.
func NewRuleRender(cfg RuleConfig) (*RuleRender, error) {
	for _, s := range ast.Severities() {
		if cfg.Severities[s] == "" {
			return nil, fmt.Errorf("severity `%s` is not mapped", s)
		}
	}

	if cfg.Template == nil {
		return nil, fmt.Errorf("rule template is required")
	}
	if cfg.Populate == nil {
		return nil, fmt.Errorf("populate function is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = globalRand{}
	}

	return &RuleRender{cfg: cfg}, nil
}

// Severity translates a generic severity. An empty severity is treated as medium.
func (r *RuleRender) Severity(s ast.Severity) string {
	if s == "" {
		s = ast.SeverityMedium
	}
	return r.cfg.Severities[s]
}

// Finalize builds and serializes the rule document. Unsupported functions are
// appended as a comment after the document.
func (r *RuleRender) Finalize(in FinalizeInput) (string, []error, error) {
	meta := in.Tree.Meta

	title := meta.Title
	if title == "" {
		title = r.cfg.AutogeneratedTitle
	}

	content := RuleContent{
		Title:       title,
		Description: Description(meta, r.cfg.AutogeneratedTitle),
		Severity:    r.Severity(meta.Severity),
		Query:       in.Output,
		Meta:        meta,
		Tree:        in.Tree,
		Source:      in.Source,
		Field:       in.Field,
	}
	if r.cfg.TimestampWindow > 0 {
		content.Timestamp = r.recent()
	}

	doc, ok := deepCopy(r.cfg.Template).(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("rule template is not an object")
	}

	diags := r.cfg.Populate(doc, content)

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return "", nil, fmt.Errorf("cannot serialize rule: %w", err)
	}

	return string(data) + in.Warning, diags, nil
}

func (r *RuleRender) recent() time.Time {
	back := time.Duration(r.cfg.Rand.Int64N(int64(r.cfg.TimestampWindow)))
	return r.cfg.Clock().UTC().Add(-back)
}

// Description composes the rule description with its attribution.
func Description(meta ast.MetaInfo, fallback string) string {
	d := meta.Description
	if d == "" {
		d = fallback
	}
	if meta.Author != "" {
		d += " Author: " + meta.Author + "."
	}
	if meta.ID != "" {
		d += " Rule ID: " + meta.ID + "."
	}
	if meta.License != "" {
		d += " License: " + meta.License + "."
	}
	if len(meta.References) > 0 {
		d += " Reference: " + meta.References[0] + "."
	}
	return d
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = deepCopy(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = deepCopy(e)
		}
		return s
	default:
		return v
	}
}

// Path returns the nested object at keys, creating missing levels.
func Path(doc map[string]any, keys ...string) map[string]any {
	cur := doc
	for _, k := range keys {
		next, ok := cur[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[k] = next
		}
		cur = next
	}
	return cur
}
