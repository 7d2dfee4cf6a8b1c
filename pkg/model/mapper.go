// Package model implements the record-mapping operations: typed CRUD,
// filtered queries, pagination, aggregation, search and bulk writes over a
// declared table. Request-handling code uses this package and never writes
// raw SQL.
package model

import (
	"github.com/ayonsaha2011/libsql-orm/pkg/database"
	"github.com/ayonsaha2011/libsql-orm/pkg/schema"
	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

// Mapper is the record-declaration collaborator for one persistable type:
// the table declaration plus bidirectional conversion between the native
// record and a column-name to Value mapping. Implementations are plain
// hand-written (or generated) glue; the engine only consumes them.
type Mapper[T any] interface {
	// Table returns the declaration the type maps to.
	Table() *schema.Table

	// ToRow converts a record to column values. The primary-key column may be
	// present or absent; callers decide whether it participates.
	ToRow(rec *T) (map[string]value.Value, error)

	// FromRow builds a record from decoded column values.
	FromRow(row database.Row) (*T, error)

	// PrimaryKey reports the record's primary key and whether it is set.
	PrimaryKey(rec *T) (int64, bool)

	// SetPrimaryKey assigns the primary key after a successful insert.
	SetPrimaryKey(rec *T, id int64)
}
