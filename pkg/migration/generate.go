package migration

import (
	"fmt"
	"strings"

	"github.com/ayonsaha2011/libsql-orm/pkg/schema"
	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

// storageType maps a declared semantic type to the stored SQL type. Boolean
// columns are INTEGER in the store; timestamps are TEXT.
func storageType(t value.Type) string {
	switch t {
	case value.TypeBoolean:
		return "INTEGER"
	case value.TypeTimestamp:
		return "TEXT"
	default:
		return t.String()
	}
}

func columnDDL(c schema.Column) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "`%s` ", c.Name)

	if c.RawType != "" {
		sb.WriteString(c.RawType)
		return sb.String()
	}

	sb.WriteString(storageType(c.Type))
	if c.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")
		if c.AutoIncrement {
			sb.WriteString(" AUTOINCREMENT")
		}
		return sb.String()
	}
	if !c.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if c.Unique {
		sb.WriteString(" UNIQUE")
	}
	if c.Default != "" {
		sb.WriteString(" DEFAULT " + c.Default)
	}
	return sb.String()
}

// Generate derives a CREATE TABLE migration from a table declaration,
// honoring raw type overrides, nullability, uniqueness and defaults.
func Generate(t *schema.Table) Migration {
	cols := t.Columns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = columnDDL(c)
	}

	return Migration{
		Name: "create_table_" + t.Name(),
		Up:   fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` (%s)", t.Name(), strings.Join(defs, ", ")),
		Down: fmt.Sprintf("DROP TABLE IF EXISTS `%s`", t.Name()),
	}
}
