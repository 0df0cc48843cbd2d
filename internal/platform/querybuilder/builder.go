package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// stmt accumulates SQL text and its positional ($n) arguments.
type stmt struct {
	sql  strings.Builder
	args []any
}

func (s *stmt) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

// bind appends value and returns its placeholder.
func (s *stmt) bind(value any) string {
	s.args = append(s.args, value)
	return "$" + strconv.Itoa(len(s.args))
}

// expand replaces each ? in expr with the next bound arg. Extra ? marks are
// left alone.
func (s *stmt) expand(expr string, args []any) string {
	if len(args) == 0 {
		return expr
	}
	var out strings.Builder
	for _, r := range expr {
		if r == '?' && len(args) > 0 {
			out.WriteString(s.bind(args[0]))
			args = args[1:]
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

func (s *stmt) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			s.write(" WHERE ")
		} else {
			s.write(" AND ")
		}
		s.write(c.column, " = ", s.bind(c.value))
	}
}

func (s *stmt) finish(suffix string) (string, []any, error) {
	if suffix != "" {
		s.write(" ", suffix)
	}
	return s.sql.String(), s.args, nil
}

// Condition is one equality predicate; conditions are joined with AND.
type Condition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return Condition{column: column, value: value}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	suffix  string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = strings.TrimSpace(table)
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

// Suffix appends trailing SQL such as FOR UPDATE.
func (b *SelectBuilder) Suffix(sql string) *SelectBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, errors.New("select: no columns")
	case b.table == "":
		return "", nil, errors.New("select: no table")
	}

	var s stmt
	s.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	s.where(b.where)
	return s.finish(b.suffix)
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: strings.TrimSpace(table)}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = columns
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = values
	return b
}

// Suffix appends trailing SQL such as ON CONFLICT or RETURNING clauses.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case b.table == "":
		return "", nil, errors.New("insert: no table")
	case len(b.columns) == 0:
		return "", nil, errors.New("insert: no columns")
	case len(b.values) != len(b.columns):
		return "", nil, fmt.Errorf("insert: %d values for %d columns", len(b.values), len(b.columns))
	}

	var s stmt
	marks := make([]string, len(b.values))
	for i, v := range b.values {
		marks[i] = s.bind(v)
	}
	s.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES (", strings.Join(marks, ", "), ")")
	return s.finish(b.suffix)
}

type assignment struct {
	column string
	expr   string
	args   []any
}

type UpdateBuilder struct {
	table  string
	sets   []assignment
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: strings.TrimSpace(table)}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	return b.SetExpr(column, "?", value)
}

// SetExpr assigns a SQL expression; each ? binds the next arg, e.g.
// SetExpr("version", "version + ?", 1).
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, expr: expr, args: args})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

// ToSQL refuses an UPDATE without a WHERE clause.
func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case b.table == "":
		return "", nil, errors.New("update: no table")
	case len(b.sets) == 0:
		return "", nil, errors.New("update: nothing to set")
	case len(b.where) == 0:
		return "", nil, fmt.Errorf("update: %s without where clause", b.table)
	}

	var s stmt
	s.write("UPDATE ", b.table, " SET ")
	for i, a := range b.sets {
		if i > 0 {
			s.write(", ")
		}
		s.write(a.column, " = ", s.expand(a.expr, a.args))
	}
	s.where(b.where)
	return s.finish(b.suffix)
}
