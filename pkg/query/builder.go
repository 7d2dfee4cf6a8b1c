// Package query lowers typed filter trees, sorting, pagination, aggregation
// and search into parameterized SQL. Values are always passed as bound
// parameters; only declared identifiers and structural keywords are ever
// concatenated into the statement text.
package query

import (
	"fmt"
	"strings"

	ormerrors "github.com/ayonsaha2011/libsql-orm/pkg/errors"
	"github.com/ayonsaha2011/libsql-orm/pkg/schema"
	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

// queryType represents the type of SQL statement being built.
type queryType string

const (
	queryTypeSelect queryType = "SELECT"
	queryTypeInsert queryType = "INSERT"
	queryTypeUpdate queryType = "UPDATE"
	queryTypeDelete queryType = "DELETE"
)

// Query is the built statement: SQL text plus arguments whose positions
// match the placeholders in left-to-right text order.
type Query struct {
	SQL  string
	Args []value.Value
}

// Builder assembles one statement against a declared table.
type Builder struct {
	queryType  queryType
	table      *schema.Table
	projection []string
	aggregate  string
	filter     FilterOperator
	sorts      []Sort
	limit      *int
	offset     *int
	row        map[string]value.Value
	includePK  bool

	// aggregateField is the aggregate target column, validated in Build.
	// COUNT(*) has no target and leaves it empty.
	aggregateField string
}

// From creates a SELECT builder.
func From(table *schema.Table) *Builder {
	return &Builder{queryType: queryTypeSelect, table: table}
}

// InsertRow creates an INSERT builder. Columns are emitted in declaration
// order; the primary key is skipped unless WithPrimaryKey is set.
func InsertRow(table *schema.Table, row map[string]value.Value) *Builder {
	return &Builder{queryType: queryTypeInsert, table: table, row: row}
}

// UpdateRow creates an UPDATE builder setting the given columns.
func UpdateRow(table *schema.Table, row map[string]value.Value) *Builder {
	return &Builder{queryType: queryTypeUpdate, table: table, row: row}
}

// DeleteFrom creates a DELETE builder.
func DeleteFrom(table *schema.Table) *Builder {
	return &Builder{queryType: queryTypeDelete, table: table}
}

// Select sets an explicit column projection. The default is *.
func (b *Builder) Select(fields ...string) *Builder {
	b.projection = fields
	return b
}

// CountAll replaces the projection with COUNT(*).
func (b *Builder) CountAll() *Builder {
	b.aggregate = "COUNT(*)"
	return b
}

// AggregateSelect replaces the projection with an aggregate over one column.
func (b *Builder) AggregateSelect(fn AggregateFn, field string) *Builder {
	if fn == Count {
		return b.CountAll()
	}
	b.aggregate = string(fn) + "(`" + field + "`)"
	b.projection = nil
	b.aggregateField = field
	return b
}

// WhereFilter sets the filter tree.
func (b *Builder) WhereFilter(f FilterOperator) *Builder {
	b.filter = f
	return b
}

// OrderBy sets the multi-key ordering, first entry highest precedence.
func (b *Builder) OrderBy(sorts ...Sort) *Builder {
	b.sorts = sorts
	return b
}

// Limit caps the number of returned rows.
func (b *Builder) Limit(n int) *Builder {
	b.limit = &n
	return b
}

// Offset skips the first n rows.
func (b *Builder) Offset(n int) *Builder {
	b.offset = &n
	return b
}

// WithPrimaryKey makes an INSERT include the primary-key column when the row
// carries it, for explicit-key insertion.
func (b *Builder) WithPrimaryKey() *Builder {
	b.includePK = true
	return b
}

// Build constructs the final statement, validating every referenced column
// against the declared set before any SQL text is produced.
func (b *Builder) Build() (Query, error) {
	switch b.queryType {
	case queryTypeSelect:
		return b.buildSelect()
	case queryTypeInsert:
		return b.buildInsert()
	case queryTypeUpdate:
		return b.buildUpdate()
	case queryTypeDelete:
		return b.buildDelete()
	default:
		return Query{}, fmt.Errorf("unknown query type %q", b.queryType)
	}
}

func (b *Builder) projectionSQL() (string, error) {
	if b.aggregate != "" {
		if b.aggregateField != "" && !b.table.HasColumn(b.aggregateField) {
			return "", ormerrors.NewInvalidFieldError(b.table.Name(), b.aggregateField)
		}
		return b.aggregate, nil
	}
	if len(b.projection) == 0 {
		return "*", nil
	}
	quoted := make([]string, len(b.projection))
	for i, f := range b.projection {
		if f == "*" {
			quoted[i] = "*"
			continue
		}
		if !b.table.HasColumn(f) {
			return "", ormerrors.NewInvalidFieldError(b.table.Name(), f)
		}
		quoted[i] = "`" + f + "`"
	}
	return strings.Join(quoted, ", "), nil
}

func (b *Builder) whereSQL(args *[]value.Value) (string, error) {
	if b.filter == nil {
		return "", nil
	}
	text, filterArgs, err := compileFilter(b.filter, b.table)
	if err != nil {
		return "", err
	}
	*args = append(*args, filterArgs...)
	return " WHERE " + text, nil
}

func (b *Builder) orderSQL() (string, error) {
	if len(b.sorts) == 0 {
		return "", nil
	}
	parts := make([]string, len(b.sorts))
	for i, s := range b.sorts {
		if !b.table.HasColumn(s.Field) {
			return "", ormerrors.NewInvalidFieldError(b.table.Name(), s.Field)
		}
		dir := s.Direction
		if dir == "" {
			dir = Asc
		}
		parts[i] = "`" + s.Field + "` " + string(dir)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func (b *Builder) limitSQL() string {
	var sb strings.Builder
	if b.limit != nil {
		fmt.Fprintf(&sb, " LIMIT %d", *b.limit)
	} else if b.offset != nil {
		// SQLite requires a LIMIT before OFFSET; -1 means unbounded.
		sb.WriteString(" LIMIT -1")
	}
	if b.offset != nil {
		fmt.Fprintf(&sb, " OFFSET %d", *b.offset)
	}
	return sb.String()
}

func (b *Builder) buildSelect() (Query, error) {
	projection, err := b.projectionSQL()
	if err != nil {
		return Query{}, err
	}

	var args []value.Value
	where, err := b.whereSQL(&args)
	if err != nil {
		return Query{}, err
	}
	order, err := b.orderSQL()
	if err != nil {
		return Query{}, err
	}

	sql := fmt.Sprintf("SELECT %s FROM `%s`%s%s%s", projection, b.table.Name(), where, order, b.limitSQL())
	return Query{SQL: sql, Args: args}, nil
}

// insertColumns returns the columns an INSERT or UPDATE touches, in
// declaration order. Only columns present in the row map are included, so
// partial rows stay valid; map iteration order never leaks into the SQL.
func (b *Builder) statementColumns(skipPK bool) ([]schema.Column, error) {
	for name := range b.row {
		if !b.table.HasColumn(name) {
			return nil, ormerrors.NewInvalidFieldError(b.table.Name(), name)
		}
	}
	var cols []schema.Column
	for _, c := range b.table.Columns() {
		if skipPK && c.PrimaryKey {
			continue
		}
		if _, ok := b.row[c.Name]; ok {
			cols = append(cols, c)
		}
	}
	return cols, nil
}

func (b *Builder) buildInsert() (Query, error) {
	cols, err := b.statementColumns(!b.includePK)
	if err != nil {
		return Query{}, err
	}
	if len(cols) == 0 {
		return Query{}, fmt.Errorf("insert into '%s' has no columns", b.table.Name())
	}

	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]value.Value, len(cols))
	for i, c := range cols {
		names[i] = "`" + c.Name + "`"
		placeholders[i] = "?"
		args[i] = value.ToStorage(b.row[c.Name])
	}

	sql := fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s)",
		b.table.Name(), strings.Join(names, ", "), strings.Join(placeholders, ", "))
	return Query{SQL: sql, Args: args}, nil
}

func (b *Builder) buildUpdate() (Query, error) {
	cols, err := b.statementColumns(true)
	if err != nil {
		return Query{}, err
	}
	if len(cols) == 0 {
		return Query{}, fmt.Errorf("update of '%s' has no columns", b.table.Name())
	}

	sets := make([]string, len(cols))
	args := make([]value.Value, 0, len(cols))
	for i, c := range cols {
		sets[i] = "`" + c.Name + "` = ?"
		args = append(args, value.ToStorage(b.row[c.Name]))
	}

	sql := fmt.Sprintf("UPDATE `%s` SET %s", b.table.Name(), strings.Join(sets, ", "))
	where, err := b.whereSQL(&args)
	if err != nil {
		return Query{}, err
	}
	return Query{SQL: sql + where, Args: args}, nil
}

func (b *Builder) buildDelete() (Query, error) {
	var args []value.Value
	where, err := b.whereSQL(&args)
	if err != nil {
		return Query{}, err
	}
	sql := fmt.Sprintf("DELETE FROM `%s`%s", b.table.Name(), where)
	return Query{SQL: sql, Args: args}, nil
}
