// Package schema holds the record-declaration registry: the static
// description of a persistable type's table that the query builder, the
// record mapper and the migration generator all consume. Declarations are
// built once at startup; the engine performs no reflection or code
// generation of its own.
package schema

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

// Column describes one declared column.
type Column struct {
	Name          string
	Type          value.Type
	Nullable      bool
	Unique        bool
	PrimaryKey    bool
	AutoIncrement bool
	// Default is a verbatim SQL default expression, empty when unset.
	Default string
	// RawType overrides the rendered SQL type text entirely when non-empty.
	RawType string
}

// Table is the validated declaration of a table. Column order is the
// declaration order and is the order every generated statement uses.
type Table struct {
	name    string
	columns []Column
	byName  map[string]int
	pk      int
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the declared columns in declaration order.
func (t *Table) Columns() []Column { return t.columns }

// Column looks up a declared column by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// HasColumn reports whether name is declared.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// PrimaryKey returns the primary-key column.
func (t *Table) PrimaryKey() Column { return t.columns[t.pk] }

// ColumnNames returns the declared column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// ColumnOption mutates a column declaration.
type ColumnOption func(*Column)

// Nullable marks the column as accepting NULL.
func Nullable() ColumnOption { return func(c *Column) { c.Nullable = true } }

// Unique adds a UNIQUE constraint.
func Unique() ColumnOption { return func(c *Column) { c.Unique = true } }

// Default sets a verbatim SQL default expression.
func Default(expr string) ColumnOption { return func(c *Column) { c.Default = expr } }

// Raw overrides the rendered SQL type text entirely.
func Raw(sqlType string) ColumnOption { return func(c *Column) { c.RawType = sqlType } }

// PrimaryKey marks the column as the primary key without auto-increment.
func PrimaryKey() ColumnOption { return func(c *Column) { c.PrimaryKey = true } }

// AutoIncrement marks the column as an auto-incrementing primary key.
func AutoIncrement() ColumnOption {
	return func(c *Column) {
		c.PrimaryKey = true
		c.AutoIncrement = true
	}
}

// TableBuilder assembles a Table declaration.
type TableBuilder struct {
	name    string
	columns []Column
}

// NewTable starts a declaration for the given table name.
func NewTable(name string) *TableBuilder {
	return &TableBuilder{name: name}
}

// Column appends a fully specified column.
func (b *TableBuilder) Column(c Column) *TableBuilder {
	b.columns = append(b.columns, c)
	return b
}

func (b *TableBuilder) typed(name string, t value.Type, opts []ColumnOption) *TableBuilder {
	c := Column{Name: name, Type: t}
	for _, opt := range opts {
		opt(&c)
	}
	return b.Column(c)
}

// Integer declares an INTEGER column.
func (b *TableBuilder) Integer(name string, opts ...ColumnOption) *TableBuilder {
	return b.typed(name, value.TypeInteger, opts)
}

// Real declares a REAL column.
func (b *TableBuilder) Real(name string, opts ...ColumnOption) *TableBuilder {
	return b.typed(name, value.TypeReal, opts)
}

// Text declares a TEXT column.
func (b *TableBuilder) Text(name string, opts ...ColumnOption) *TableBuilder {
	return b.typed(name, value.TypeText, opts)
}

// Blob declares a BLOB column.
func (b *TableBuilder) Blob(name string, opts ...ColumnOption) *TableBuilder {
	return b.typed(name, value.TypeBlob, opts)
}

// Boolean declares a logical boolean column, stored as INTEGER 0/1.
func (b *TableBuilder) Boolean(name string, opts ...ColumnOption) *TableBuilder {
	return b.typed(name, value.TypeBoolean, opts)
}

// Timestamp declares a timestamp column, stored as TEXT.
func (b *TableBuilder) Timestamp(name string, opts ...ColumnOption) *TableBuilder {
	return b.typed(name, value.TypeTimestamp, opts)
}

// Build validates the declaration. When no primary key was declared, an
// `id INTEGER PRIMARY KEY AUTOINCREMENT` column is prepended.
func (b *TableBuilder) Build() (*Table, error) {
	if b.name == "" {
		return nil, fmt.Errorf("table name must not be empty")
	}

	cols := b.columns
	pkCount := 0
	for _, c := range cols {
		if c.PrimaryKey {
			pkCount++
		}
	}
	if pkCount > 1 {
		return nil, fmt.Errorf("table '%s' declares %d primary keys", b.name, pkCount)
	}
	if pkCount == 0 {
		cols = append([]Column{{
			Name:          "id",
			Type:          value.TypeInteger,
			PrimaryKey:    true,
			AutoIncrement: true,
		}}, cols...)
	}

	t := &Table{
		name:    b.name,
		columns: cols,
		byName:  make(map[string]int, len(cols)),
		pk:      -1,
	}
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("table '%s' declares a column with an empty name", b.name)
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("table '%s' declares column '%s' twice", b.name, c.Name)
		}
		t.byName[c.Name] = i
		if c.PrimaryKey {
			t.pk = i
		}
	}
	return t, nil
}

// MustBuild is Build for package-level declarations that cannot fail.
func (b *TableBuilder) MustBuild() *Table {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTableName derives a table name from a type name: "UserProfile"
// becomes "user_profile". Declarations may override it freely.
func DefaultTableName(typeName string) string {
	var sb strings.Builder
	for i, r := range typeName {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
