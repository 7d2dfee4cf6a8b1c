package migration

import (
	"fmt"
	"strings"
)

// Common schema-change templates. Each returns a migration with both
// directions filled in, named after what it does.

// ColumnDef pairs a column name with its verbatim SQL type text.
type ColumnDef struct {
	Name string
	Type string
}

// CreateTable builds a CREATE TABLE migration from verbatim column
// definitions.
func CreateTable(table string, cols []ColumnDef) Migration {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%s %s", c.Name, c.Type)
	}
	return Migration{
		Name: "create_table_" + table,
		Up:   fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", ")),
		Down: fmt.Sprintf("DROP TABLE %s", table),
	}
}

// DropTable builds a DROP TABLE migration. The down direction cannot restore
// the table and is left empty.
func DropTable(table string) Migration {
	return Migration{
		Name: "drop_table_" + table,
		Up:   fmt.Sprintf("DROP TABLE %s", table),
	}
}

// AddColumn builds an ALTER TABLE ... ADD COLUMN migration.
func AddColumn(table, column, sqlType string) Migration {
	return Migration{
		Name: fmt.Sprintf("add_column_%s_%s", table, column),
		Up:   fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, sqlType),
		Down: fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", table, column),
	}
}

// DropColumn builds an ALTER TABLE ... DROP COLUMN migration, restorable
// with the given type text.
func DropColumn(table, column, sqlType string) Migration {
	return Migration{
		Name: fmt.Sprintf("drop_column_%s_%s", table, column),
		Up:   fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", table, column),
		Down: fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, sqlType),
	}
}

// CreateIndex builds a CREATE INDEX migration over the given columns.
func CreateIndex(name, table string, columns []string, unique bool) Migration {
	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}
	return Migration{
		Name: "create_index_" + name,
		Up:   fmt.Sprintf("CREATE %s %s ON %s(%s)", kind, name, table, strings.Join(columns, ", ")),
		Down: fmt.Sprintf("DROP INDEX %s", name),
	}
}

// DropIndex builds a DROP INDEX migration.
func DropIndex(name string) Migration {
	return Migration{
		Name: "drop_index_" + name,
		Up:   fmt.Sprintf("DROP INDEX %s", name),
	}
}
