package query

import (
	"strings"

	ormerrors "github.com/ayonsaha2011/libsql-orm/pkg/errors"
	"github.com/ayonsaha2011/libsql-orm/pkg/schema"
	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

// FilterOperator is the sealed recursive filter tree. Leaves compare one
// declared column against bound values; And, Or and Not compose sub-trees.
// Lowering is pure: the same tree always produces the same SQL text and the
// same argument order.
type FilterOperator interface {
	filterOperator()
}

// Eq matches rows where Field equals Value.
type Eq struct {
	Field string
	Value value.Value
}

// Neq matches rows where Field differs from Value.
type Neq struct {
	Field string
	Value value.Value
}

// Gt matches rows where Field is greater than Value.
type Gt struct {
	Field string
	Value value.Value
}

// Gte matches rows where Field is greater than or equal to Value.
type Gte struct {
	Field string
	Value value.Value
}

// Lt matches rows where Field is less than Value.
type Lt struct {
	Field string
	Value value.Value
}

// Lte matches rows where Field is less than or equal to Value.
type Lte struct {
	Field string
	Value value.Value
}

// Like matches rows where Field matches the SQL LIKE pattern in Value.
type Like struct {
	Field string
	Value value.Value
}

// In matches rows where Field equals any of Values. An empty list matches
// nothing.
type In struct {
	Field  string
	Values []value.Value
}

// NotIn matches rows where Field equals none of Values. An empty list
// matches everything.
type NotIn struct {
	Field  string
	Values []value.Value
}

// IsNull matches rows where Field is NULL.
type IsNull struct {
	Field string
}

// IsNotNull matches rows where Field is not NULL.
type IsNotNull struct {
	Field string
}

// And matches rows satisfying every sub-filter. Empty And matches everything.
type And []FilterOperator

// Or matches rows satisfying at least one sub-filter. Empty Or matches
// nothing.
type Or []FilterOperator

// Not inverts a sub-filter.
type Not struct {
	Inner FilterOperator
}

func (Eq) filterOperator()        {}
func (Neq) filterOperator()       {}
func (Gt) filterOperator()        {}
func (Gte) filterOperator()       {}
func (Lt) filterOperator()        {}
func (Lte) filterOperator()       {}
func (Like) filterOperator()      {}
func (In) filterOperator()        {}
func (NotIn) filterOperator()     {}
func (IsNull) filterOperator()    {}
func (IsNotNull) filterOperator() {}
func (And) filterOperator()       {}
func (Or) filterOperator()        {}
func (Not) filterOperator()       {}

// compileFilter lowers a filter tree to SQL text plus the bound arguments in
// left-to-right placeholder order. Text and arguments are produced in
// lock-step during a single pre-order traversal, so they cannot
// desynchronize. Field names are checked against the declared column set
// before any text is emitted.
func compileFilter(f FilterOperator, table *schema.Table) (string, []value.Value, error) {
	var sb strings.Builder
	var args []value.Value
	if err := compileNode(f, table, &sb, &args); err != nil {
		return "", nil, err
	}
	return sb.String(), args, nil
}

func checkField(table *schema.Table, field string) error {
	if !table.HasColumn(field) {
		return ormerrors.NewInvalidFieldError(table.Name(), field)
	}
	return nil
}

func compileLeaf(table *schema.Table, sb *strings.Builder, args *[]value.Value, field, op string, v value.Value) error {
	if err := checkField(table, field); err != nil {
		return err
	}
	sb.WriteString("`" + field + "` " + op + " ?")
	*args = append(*args, value.ToStorage(v))
	return nil
}

func compileMembership(table *schema.Table, sb *strings.Builder, args *[]value.Value, field, op string, vals []value.Value, emptyText string) error {
	if err := checkField(table, field); err != nil {
		return err
	}
	if len(vals) == 0 {
		sb.WriteString(emptyText)
		return nil
	}
	sb.WriteString("`" + field + "` " + op + " (")
	for i, v := range vals {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("?")
		*args = append(*args, value.ToStorage(v))
	}
	sb.WriteString(")")
	return nil
}

func compileCombinator(table *schema.Table, sb *strings.Builder, args *[]value.Value, parts []FilterOperator, joiner, emptyText string) error {
	if len(parts) == 0 {
		sb.WriteString(emptyText)
		return nil
	}
	sb.WriteString("(")
	for i, p := range parts {
		if i > 0 {
			sb.WriteString(joiner)
		}
		if err := compileNode(p, table, sb, args); err != nil {
			return err
		}
	}
	sb.WriteString(")")
	return nil
}

func compileNode(f FilterOperator, table *schema.Table, sb *strings.Builder, args *[]value.Value) error {
	switch t := f.(type) {
	case Eq:
		return compileLeaf(table, sb, args, t.Field, "=", t.Value)
	case Neq:
		return compileLeaf(table, sb, args, t.Field, "!=", t.Value)
	case Gt:
		return compileLeaf(table, sb, args, t.Field, ">", t.Value)
	case Gte:
		return compileLeaf(table, sb, args, t.Field, ">=", t.Value)
	case Lt:
		return compileLeaf(table, sb, args, t.Field, "<", t.Value)
	case Lte:
		return compileLeaf(table, sb, args, t.Field, "<=", t.Value)
	case Like:
		return compileLeaf(table, sb, args, t.Field, "LIKE", t.Value)
	case In:
		return compileMembership(table, sb, args, t.Field, "IN", t.Values, "1=0")
	case NotIn:
		return compileMembership(table, sb, args, t.Field, "NOT IN", t.Values, "1=1")
	case IsNull:
		if err := checkField(table, t.Field); err != nil {
			return err
		}
		sb.WriteString("`" + t.Field + "` IS NULL")
		return nil
	case IsNotNull:
		if err := checkField(table, t.Field); err != nil {
			return err
		}
		sb.WriteString("`" + t.Field + "` IS NOT NULL")
		return nil
	case And:
		return compileCombinator(table, sb, args, []FilterOperator(t), " AND ", "1=1")
	case Or:
		return compileCombinator(table, sb, args, []FilterOperator(t), " OR ", "1=0")
	case Not:
		sb.WriteString("NOT (")
		if err := compileNode(t.Inner, table, sb, args); err != nil {
			return err
		}
		sb.WriteString(")")
		return nil
	default:
		// The interface is sealed; this is unreachable for external trees.
		panic("query: unknown filter operator")
	}
}
