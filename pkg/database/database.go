// Package database is the collaborator that carries statements to the store.
// It binds arguments positionally, exactly as supplied, and returns rows as
// column-name to Value mappings.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	ormerrors "github.com/ayonsaha2011/libsql-orm/pkg/errors"
	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

// Row is one result row keyed by column name.
type Row map[string]value.Value

// Result reports the outcome of a write statement.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Database executes parameterized statements. Implementations must preserve
// the argument order exactly as supplied.
type Database interface {
	Query(ctx context.Context, query string, args []value.Value) ([]Row, error)
	Exec(ctx context.Context, query string, args []value.Value) (Result, error)
}

// SQL is the database/sql backed implementation.
// Note: sql.DB is already thread-safe and manages its own connection pool;
// no additional locking is layered on top.
type SQL struct {
	db *sql.DB
}

// Open connects with the named driver and verifies the connection.
func Open(driver, dsn string) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, ormerrors.NewConnectionError(err)
	}

	// MaxIdleConns matches MaxOpenConns so connections stay alive instead of
	// being churned under load.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, ormerrors.NewConnectionError(err)
	}
	return &SQL{db: db}, nil
}

// NewSQL wraps an existing connection handle.
func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

// DB returns the underlying handle.
func (s *SQL) DB() *sql.DB { return s.db }

// Close closes the underlying handle.
func (s *SQL) Close() error { return s.db.Close() }

// Query executes a read statement and scans every row.
func (s *SQL) Query(ctx context.Context, query string, args []value.Value) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, driverArgs(args)...)
	if err != nil {
		return nil, fmt.Errorf("query execution error: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Exec executes a write statement.
func (s *SQL) Exec(ctx context.Context, query string, args []value.Value) (Result, error) {
	res, err := s.db.ExecContext(ctx, query, driverArgs(args)...)
	if err != nil {
		return Result{}, fmt.Errorf("exec error: %w", err)
	}

	// Not every driver supports both; absent values read as zero.
	lastID, _ := res.LastInsertId()
	affected, _ := res.RowsAffected()
	return Result{LastInsertID: lastID, RowsAffected: affected}, nil
}

func driverArgs(args []value.Value) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = value.ToDriverArg(a)
	}
	return out
}

// scanRows converts sql rows into Value-typed rows.
func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make(Row, len(columns))
		for i, col := range columns {
			record[col] = value.FromDriverValue(values[i])
		}
		results = append(results, record)
	}

	return results, rows.Err()
}
