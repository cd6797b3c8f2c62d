package clickhouse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/render"
)

// identifierRegex matches plain columns and JSON sub-column paths such as
// metadata.user_id.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// sqlOptions holds configuration for the SQL clause builder.
type sqlOptions struct {
	// AllowedFieldsRegex validates column names. Names that do not match are
	// backtick quoted.
	AllowedFieldsRegex *regexp.Regexp

	// SelectColumns is used when no function picks the columns.
	// If empty, defaults to SELECT *.
	SelectColumns []string
}

// sqlBuilder turns query functions into the SELECT list and the
// GROUP BY, ORDER BY and LIMIT clauses.
type sqlBuilder struct {
	opts sqlOptions
}

func newSQLBuilder(opts sqlOptions) *sqlBuilder {
	if opts.AllowedFieldsRegex == nil {
		opts.AllowedFieldsRegex = identifierRegex
	}
	return &sqlBuilder{opts: opts}
}

// column returns name as a safe SQL identifier.
func (b *sqlBuilder) column(name string) string {
	if b.opts.AllowedFieldsRegex.MatchString(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (b *sqlBuilder) columns(args []string, field render.FieldResolver) []string {
	cols := make([]string, len(args))
	for i, a := range args {
		cols[i] = b.column(field(ast.Field(a)))
	}
	return cols
}

// plan is the SQL shape of a function list.
type plan struct {
	selectCols   []string
	groupBy      []string
	orderBy      []string
	limit        int
	hasLimit     bool
	notSupported []ast.FunctionNode
}

func (b *sqlBuilder) plan(fns []ast.FunctionNode, field render.FieldResolver) plan {
	var (
		p     plan
		count bool
		table []string
	)

	for _, fn := range fns {
		switch fn.Name {
		case ast.FunctionCount:
			if count {
				p.notSupported = append(p.notSupported, fn)
				continue
			}
			count = true

		case ast.FunctionGroupBy:
			if len(fn.Args) == 0 {
				p.notSupported = append(p.notSupported, fn)
				continue
			}
			p.groupBy = append(p.groupBy, b.columns(fn.Args, field)...)

		case ast.FunctionOrderBy:
			if len(fn.Args) == 0 || len(fn.Args) > 2 {
				p.notSupported = append(p.notSupported, fn)
				continue
			}
			direction := "ASC"
			if len(fn.Args) == 2 && strings.EqualFold(fn.Args[1], "desc") {
				direction = "DESC"
			}
			p.orderBy = append(p.orderBy, b.column(field(ast.Field(fn.Args[0])))+" "+direction)

		case ast.FunctionLimit:
			if p.hasLimit || len(fn.Args) != 1 {
				p.notSupported = append(p.notSupported, fn)
				continue
			}
			n, err := strconv.Atoi(fn.Args[0])
			if err != nil || n < 0 {
				p.notSupported = append(p.notSupported, fn)
				continue
			}
			p.limit, p.hasLimit = n, true

		case ast.FunctionTable:
			if len(fn.Args) == 0 {
				p.notSupported = append(p.notSupported, fn)
				continue
			}
			table = append(table, b.columns(fn.Args, field)...)

		default:
			p.notSupported = append(p.notSupported, fn)
		}
	}

	switch {
	case len(p.groupBy) > 0:
		p.selectCols = append(p.selectCols, p.groupBy...)
		if count {
			p.selectCols = append(p.selectCols, "count() AS count")
		}
	case count:
		p.selectCols = []string{"count() AS count"}
	case len(table) > 0:
		p.selectCols = table
	case len(b.opts.SelectColumns) > 0:
		p.selectCols = b.opts.SelectColumns
	default:
		p.selectCols = []string{"*"}
	}

	return p
}

func (p plan) tail() string {
	var sb strings.Builder
	if len(p.groupBy) > 0 {
		sb.WriteString(" GROUP BY " + strings.Join(p.groupBy, ", "))
	}
	if len(p.orderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(p.orderBy, ", "))
	}
	if p.hasLimit {
		sb.WriteString(" LIMIT " + strconv.Itoa(p.limit))
	}
	return sb.String()
}

// RenderFunctions returns the clauses that follow WHERE.
func (b *sqlBuilder) RenderFunctions(fns []ast.FunctionNode, field render.FieldResolver) (string, []ast.FunctionNode) {
	p := b.plan(fns, field)
	return p.tail(), p.notSupported
}

// Finalize assembles the full SELECT statement. Functions decide the SELECT
// list, so the generic pattern output is not used.
func (b *sqlBuilder) Finalize(in render.FinalizeInput) (string, []error, error) {
	p := b.plan(in.FunctionNodes, in.Field)

	var sb strings.Builder
	sb.WriteString("SELECT " + strings.Join(p.selectCols, ", ") + " FROM " + in.Prefix)
	if in.Query != "" {
		sb.WriteString(" WHERE " + in.Query)
	}
	sb.WriteString(in.Functions)
	sb.WriteString(in.Warning)

	return sb.String(), nil, nil
}
