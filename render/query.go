package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/escape"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/mapping"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform"
)

// Renderer translates a query tree into the syntax of one platform.
// Implementations are immutable and safe for concurrent use.
type Renderer interface {
	Details() platform.Details
	Render(q ast.Query) (Result, error)
}

// Result is the outcome of one render.
type Result struct {
	Output string

	// NotSupportedFunctions lists the functions left out of Output.
	NotSupportedFunctions []string

	// Diagnostics holds soft faults. A result with diagnostics is still usable.
	Diagnostics []error
}

// FieldResolver maps a generic field to the platform field of the current
// source mapping.
type FieldResolver func(ast.FieldRef) string

// Tokens are the boolean keywords of a platform.
type Tokens struct {
	And string
	Or  string
	Not string

	// NotParens wraps the negated operand in parentheses even when it is a
	// single comparison.
	NotParens bool
}

// Comment describes how a platform writes comments. Either Line or both Open
// and Close are set.
type Comment struct {
	Open  string
	Close string
	Line  string
}

func (c Comment) Wrap(text string) string {
	if c.Line != "" {
		lines := strings.Split(text, "\n")
		for i, l := range lines {
			lines[i] = c.Line + " " + l
		}
		return strings.Join(lines, "\n")
	}
	return c.Open + " " + text + " " + c.Close
}

// FunctionRenderer renders the function phase. It returns the rendered block
// and the functions it could not express.
type FunctionRenderer interface {
	RenderFunctions(fns []ast.FunctionNode, field FieldResolver) (string, []ast.FunctionNode)
}

// Pipeline is a FunctionRenderer for platforms that chain functions one after
// the other, like `query | f1 | f2`.
type Pipeline struct {
	// Prefix is written once before the first rendered function.
	Prefix    string
	Separator string

	// Render returns false when fn has no rendering on the platform.
	Render func(fn ast.FunctionNode, field FieldResolver) (string, bool)
}

func (p Pipeline) RenderFunctions(fns []ast.FunctionNode, field FieldResolver) (string, []ast.FunctionNode) {
	var (
		parts        []string
		notSupported []ast.FunctionNode
	)

	for _, fn := range fns {
		if p.Render == nil {
			notSupported = append(notSupported, fn)
			continue
		}
		s, ok := p.Render(fn, field)
		if !ok {
			notSupported = append(notSupported, fn)
			continue
		}
		parts = append(parts, s)
	}

	if len(parts) == 0 {
		return "", notSupported
	}

	return p.Prefix + strings.Join(parts, p.Separator), notSupported
}

// FinalizeInput is everything the finalize phase can work with.
type FinalizeInput struct {
	Prefix    string
	Query     string
	Functions string

	// Output is the pattern-assembled query without the warning block.
	Output string

	// Warning is the comment block listing unsupported functions, or empty.
	Warning string

	FunctionNodes []ast.FunctionNode
	Source        mapping.SourceMapping
	Field         FieldResolver
	Tree          ast.Query
}

// Finalizer turns the assembled parts into the final output. Rule renderers
// implement it to wrap the query into a document.
type Finalizer interface {
	Finalize(in FinalizeInput) (string, []error, error)
}

type concatFinalizer struct{}

func (concatFinalizer) Finalize(in FinalizeInput) (string, []error, error) {
	return in.Output + in.Warning, nil, nil
}

// QueryConfig configures a QueryRender.
type QueryConfig struct {
	Details  platform.Details
	Mappings *mapping.Mappings
	Tokens   Tokens
	Scalars  Scalars
	Escape   *escape.Manager

	// Prefix builds the source selection clause. Optional.
	Prefix func(sm mapping.SourceMapping) string

	// Pattern assembles {prefix}, {query} and {functions}.
	Pattern string

	// EmptyPattern is used when there is no filter at all.
	// Defaults to "{prefix}{functions}".
	EmptyPattern string

	// Functions is optional. Without it every function is reported as
	// unsupported.
	Functions FunctionRenderer

	Comment Comment

	// Finalizer defaults to plain concatenation.
	Finalizer Finalizer
}

func (c QueryConfig) validate() error {
	var errs []error

	if c.Details.ID == "" {
		errs = append(errs, errors.New("details id is required"))
	}
	if c.Mappings == nil {
		errs = append(errs, errors.New("mappings are required"))
	}
	if c.Scalars == nil {
		errs = append(errs, errors.New("scalars are required"))
	}
	if c.Tokens.And == "" || c.Tokens.Or == "" || c.Tokens.Not == "" {
		errs = append(errs, errors.New("and, or and not tokens are required"))
	}
	if !strings.Contains(c.Pattern, "{query}") {
		errs = append(errs, errors.New("pattern must contain {query}"))
	}
	if c.Comment.Line == "" && (c.Comment.Open == "" || c.Comment.Close == "") {
		errs = append(errs, errors.New("comment style is required"))
	}

	return errors.Join(errs...)
}

// QueryRender is the generic query renderer. Platforms configure it rather
// than extend it.
type QueryRender struct {
	cfg        QueryConfig
	fieldValue FieldValue
}

// NewQueryRender validates cfg and builds a renderer.
func NewQueryRender(cfg QueryConfig) (*QueryRender, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid renderer config for `%s`: %w", cfg.Details.ID, err)
	}

	if cfg.EmptyPattern == "" {
		cfg.EmptyPattern = "{prefix}{functions}"
	}
	if cfg.Finalizer == nil {
		cfg.Finalizer = concatFinalizer{}
	}

	return &QueryRender{
		cfg: cfg,
		fieldValue: FieldValue{
			Scalars: cfg.Scalars,
			Escape:  cfg.Escape,
			OrToken: cfg.Tokens.Or,
		},
	}, nil
}

func (r *QueryRender) Details() platform.Details {
	return r.cfg.Details
}

// Render runs the prefix, body, function and finalize phases.
func (r *QueryRender) Render(q ast.Query) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}

	sm, err := r.cfg.Mappings.ResolveSource(q.LogSource)
	if err != nil {
		return Result{}, err
	}

	field := func(f ast.FieldRef) string {
		return r.cfg.Mappings.ResolveField(f, sm)
	}

	st := &bodyState{field: field}
	body, err := r.renderNode(st, q.Node, sm.ExtraCondition != "")
	if err != nil {
		return Result{}, err
	}

	query := body
	if sm.ExtraCondition != "" {
		query = sm.ExtraCondition
		if body != "" {
			query += " " + r.cfg.Tokens.And + " " + body
		}
	}

	fns := append(slices.Clone(q.Functions), st.functions...)

	var (
		functions    string
		notSupported []ast.FunctionNode
	)
	if r.cfg.Functions != nil {
		functions, notSupported = r.cfg.Functions.RenderFunctions(fns, field)
	} else {
		notSupported = fns
	}

	var res Result
	for _, fn := range notSupported {
		res.NotSupportedFunctions = append(res.NotSupportedFunctions, fn.String())
		res.Diagnostics = append(res.Diagnostics,
			fault.New(fault.UnsupportedFunctionCode, "function is not supported by the target platform").WithMetadata(map[string]any{
				"platform": r.cfg.Details.ID,
				"function": fn.String(),
			}),
		)
	}

	prefix := ""
	if r.cfg.Prefix != nil {
		prefix = r.cfg.Prefix(sm)
	}

	out, diags, err := r.cfg.Finalizer.Finalize(FinalizeInput{
		Prefix:        prefix,
		Query:         query,
		Functions:     functions,
		Output:        r.assemble(prefix, query, functions),
		Warning:       r.warning(res.NotSupportedFunctions),
		FunctionNodes: fns,
		Source:        sm,
		Field:         field,
		Tree:          q,
	})
	if err != nil {
		return Result{}, err
	}

	res.Output = out
	res.Diagnostics = append(res.Diagnostics, diags...)

	return res, nil
}

func (r *QueryRender) assemble(prefix, query, functions string) string {
	pattern := r.cfg.Pattern
	if query == "" {
		pattern = r.cfg.EmptyPattern
	}

	return strings.TrimSpace(strings.NewReplacer(
		"{prefix}", prefix,
		"{query}", query,
		"{functions}", functions,
	).Replace(pattern))
}

func (r *QueryRender) warning(notSupported []string) string {
	if len(notSupported) == 0 {
		return ""
	}
	text := "Functions that are not supported by the target platform:\n" + strings.Join(notSupported, "\n")
	return "\n\n" + r.cfg.Comment.Wrap(text)
}

type bodyState struct {
	field     FieldResolver
	functions []ast.FunctionNode
}

// renderNode renders the body recursively. Groups are parenthesized when
// nested so the platform's operator precedence never matters.
func (r *QueryRender) renderNode(st *bodyState, node ast.Node, nested bool) (string, error) {
	switch n := node.(type) {
	case nil:
		return "", nil

	case ast.AndNode:
		return r.joinNodes(st, n.Children, r.cfg.Tokens.And, nested)

	case ast.OrNode:
		return r.joinNodes(st, n.Children, r.cfg.Tokens.Or, nested)

	case ast.NotNode:
		child, err := r.renderNode(st, n.Child, true)
		if err != nil {
			return "", err
		}
		if child == "" {
			return "", nil
		}
		if r.cfg.Tokens.NotParens && !strings.HasPrefix(child, "(") {
			child = "(" + child + ")"
		}
		return r.cfg.Tokens.Not + " " + child, nil

	case ast.ComparisonNode:
		if n.Modifier == ast.ModifierKeywords {
			return r.fieldValue.Render("", ast.ModifierKeywords, n.Value)
		}
		return r.fieldValue.Render(st.field(n.Field), n.Modifier, n.Value)

	case ast.KeywordNode:
		return r.fieldValue.Render("", ast.ModifierKeywords, n.Value)

	case ast.FunctionNode:
		st.functions = append(st.functions, n)
		return "", nil

	default:
		return "", fault.New(fault.BadInputCode, fmt.Sprintf("unknown query node type: %T", node))
	}
}

func (r *QueryRender) joinNodes(st *bodyState, children []ast.Node, operator string, nested bool) (string, error) {
	var parts []string
	for _, child := range children {
		s, err := r.renderNode(st, child, true)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}

	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], nil
	}

	joined := strings.Join(parts, " "+operator+" ")
	if nested {
		return "(" + joined + ")", nil
	}
	return joined, nil
}
