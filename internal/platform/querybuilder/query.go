// Package querybuilder renders the small set of postgres statements the
// repositories need. Conditions are written with ? markers and numbered as
// $1..$n when the statement is rendered.
package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

var errNoTable = errors.New("querybuilder: table is required")

// Condition is one AND-ed predicate of a WHERE clause.
type Condition struct {
	text string
	args []any
}

func Eq(column string, value any) Condition {
	return Condition{text: column + " = ?", args: []any{value}}
}

func IsNull(column string) Condition {
	return Condition{text: column + " IS NULL"}
}

// Expr is a raw predicate. Every ? in text consumes one arg.
func Expr(text string, args ...any) Condition {
	return Condition{text: text, args: args}
}

// Query is a single-table SELECT.
type Query struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *Query {
	return &Query{columns: columns}
}

func (q *Query) From(table string) *Query {
	q.table = strings.TrimSpace(table)
	return q
}

func (q *Query) Where(conds ...Condition) *Query {
	q.where = append(q.where, conds...)
	return q
}

func (q *Query) OrderBy(terms ...string) *Query {
	q.orderBy = append(q.orderBy, terms...)
	return q
}

// Limit caps the row count. Values below one remove the cap.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) ToSQL() (string, []any, error) {
	if q.table == "" {
		return "", nil, errNoTable
	}

	var s statement
	s.sql.WriteString("SELECT ")
	if len(q.columns) == 0 {
		s.sql.WriteString("*")
	} else {
		s.sql.WriteString(strings.Join(q.columns, ", "))
	}
	s.sql.WriteString(" FROM ")
	s.sql.WriteString(q.table)

	for i, cond := range q.where {
		if i == 0 {
			s.sql.WriteString(" WHERE ")
		} else {
			s.sql.WriteString(" AND ")
		}
		s.write(cond.text, cond.args...)
	}
	if len(q.orderBy) > 0 {
		s.sql.WriteString(" ORDER BY ")
		s.sql.WriteString(strings.Join(q.orderBy, ", "))
	}
	if q.limit > 0 {
		s.sql.WriteString(" LIMIT ")
		s.sql.WriteString(strconv.Itoa(q.limit))
	}
	return s.sql.String(), s.args, nil
}

// statement accumulates SQL text and the args bound to its placeholders.
type statement struct {
	sql  strings.Builder
	args []any
}

// write appends text, replacing each ? with the next $n. Surplus ? markers
// are left as they are.
func (s *statement) write(text string, args ...any) {
	next := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '?' || next >= len(args) {
			s.sql.WriteByte(text[i])
			continue
		}
		s.args = append(s.args, args[next])
		next++
		s.sql.WriteByte('$')
		s.sql.WriteString(strconv.Itoa(len(s.args)))
	}
}
