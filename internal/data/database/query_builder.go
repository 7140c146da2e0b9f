// Package database builds parameterized list queries from typed options so
// repositories never concatenate user input into SQL.
package database

import (
	"fmt"
	"strconv"
	"strings"
)

// ConditionType is the SQL comparison operator applied to a condition.
type ConditionType string

const (
	Equal ConditionType = "="
	ILike ConditionType = "ILIKE"
	In    ConditionType = "IN"
	Gte   ConditionType = ">="
)

// Condition is one WHERE clause predicate.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

// WhereCond constructs a condition for BuildListQuery.
func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// ListQueryOptions describes a paged, filtered SELECT (or COUNT) over a table.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

// BuildListQuery renders opts into a SQL string plus positional args.
// Field and order identifiers come from repository code, never from callers,
// so they are interpolated directly; all values go through placeholders.
func BuildListQuery(opts ListQueryOptions) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(opts.Conditions)+2)

	if opts.CountOnly {
		b.WriteString("SELECT COUNT(*) FROM ")
	} else {
		b.WriteString("SELECT ")
		b.WriteString(strings.Join(opts.Columns, ", "))
		b.WriteString(" FROM ")
	}
	b.WriteString(opts.Table)

	for i, cond := range opts.Conditions {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, cond.Value)
		placeholder := "$" + strconv.Itoa(len(args))
		if cond.Type == In {
			fmt.Fprintf(&b, "%s = ANY(%s)", cond.Field, placeholder)
		} else {
			fmt.Fprintf(&b, "%s %s %s", cond.Field, cond.Type, placeholder)
		}
	}

	if !opts.CountOnly {
		if opts.OrderBy != "" {
			b.WriteString(" ORDER BY ")
			b.WriteString(opts.OrderBy)
			if NormalizeDir(opts.OrderDir) == "asc" {
				b.WriteString(" ASC")
			} else {
				b.WriteString(" DESC")
			}
		}
		if opts.Limit > 0 {
			args = append(args, opts.Limit)
			b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
		}
		if opts.Offset > 0 {
			args = append(args, opts.Offset)
			b.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
		}
	}

	return b.String(), args
}

// NormalizeDir maps any casing of "asc" to "asc" and everything else to "desc".
func NormalizeDir(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "asc"
	}
	return "desc"
}
