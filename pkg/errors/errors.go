// Package errors defines the typed failures surfaced by the engine. Every
// error carries enough structure (field, id, migration name) to act on
// without re-deriving it from logs.
package errors

import (
	"fmt"
)

// ConnectionError indicates the transport to the store is unavailable. The
// engine never retries it.
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// NewConnectionError creates a new ConnectionError
func NewConnectionError(cause error) *ConnectionError {
	return &ConnectionError{Cause: cause}
}

// InvalidFieldError indicates a filter, sort or projection referenced a
// column that is not declared on the table. Raised before any SQL is built.
type InvalidFieldError struct {
	Table string
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("field '%s' is not declared on table '%s'", e.Field, e.Table)
}

// NewInvalidFieldError creates a new InvalidFieldError
func NewInvalidFieldError(table, field string) *InvalidFieldError {
	return &InvalidFieldError{Table: table, Field: field}
}

// CoercionError indicates a stored value cannot be converted to the declared
// column type. Column is filled in by the layer that knows which column was
// being decoded.
type CoercionError struct {
	Column   string
	Expected string
	Got      string
}

func (e *CoercionError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("cannot coerce %s value to %s for column '%s'", e.Got, e.Expected, e.Column)
	}
	return fmt.Sprintf("cannot coerce %s value to %s", e.Got, e.Expected)
}

// NewCoercionError creates a new CoercionError
func NewCoercionError(expected, got string) *CoercionError {
	return &CoercionError{Expected: expected, Got: got}
}

// NotPersistedError indicates an operation that requires a primary key was
// called on a transient record.
type NotPersistedError struct {
	Table string
}

func (e *NotPersistedError) Error() string {
	return fmt.Sprintf("record of table '%s' has no primary key; persist it with create first", e.Table)
}

// NewNotPersistedError creates a new NotPersistedError
func NewNotPersistedError(table string) *NotPersistedError {
	return &NotPersistedError{Table: table}
}

// AlreadyPersistedError indicates create was called on a record that already
// carries a primary key.
type AlreadyPersistedError struct {
	Table string
	ID    int64
}

func (e *AlreadyPersistedError) Error() string {
	return fmt.Sprintf("record of table '%s' is already persisted with id %d", e.Table, e.ID)
}

// NewAlreadyPersistedError creates a new AlreadyPersistedError
func NewAlreadyPersistedError(table string, id int64) *AlreadyPersistedError {
	return &AlreadyPersistedError{Table: table, ID: id}
}

// NotFoundError indicates an update touched zero rows or an expected-present
// read matched nothing.
type NotFoundError struct {
	Table string
	ID    int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record with id %d not found in table '%s'", e.ID, e.Table)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(table string, id int64) *NotFoundError {
	return &NotFoundError{Table: table, ID: id}
}

// AlreadyAppliedError indicates a migration name is already recorded as
// applied.
type AlreadyAppliedError struct {
	Name string
}

func (e *AlreadyAppliedError) Error() string {
	return fmt.Sprintf("migration '%s' is already applied", e.Name)
}

// NewAlreadyAppliedError creates a new AlreadyAppliedError
func NewAlreadyAppliedError(name string) *AlreadyAppliedError {
	return &AlreadyAppliedError{Name: name}
}

// NotAppliedError indicates a rollback was requested for a migration that is
// not recorded as applied.
type NotAppliedError struct {
	Name string
}

func (e *NotAppliedError) Error() string {
	return fmt.Sprintf("migration '%s' is not applied; nothing to roll back", e.Name)
}

// NewNotAppliedError creates a new NotAppliedError
func NewNotAppliedError(name string) *NotAppliedError {
	return &NotAppliedError{Name: name}
}

// ScriptFailedError indicates a migration script failed while executing.
// Direction is "up" or "down".
type ScriptFailedError struct {
	Name      string
	Direction string
	Cause     error
}

func (e *ScriptFailedError) Error() string {
	return fmt.Sprintf("migration '%s' %s script failed: %v", e.Name, e.Direction, e.Cause)
}

func (e *ScriptFailedError) Unwrap() error { return e.Cause }

// NewScriptFailedError creates a new ScriptFailedError
func NewScriptFailedError(name, direction string, cause error) *ScriptFailedError {
	return &ScriptFailedError{Name: name, Direction: direction, Cause: cause}
}

// BulkItemFailure records one failed element of a bulk operation.
type BulkItemFailure struct {
	Index int
	Err   error
}

// PartialBulkError reports a bulk operation where some elements failed.
// Successful elements are still written; the caller inspects Failures.
type PartialBulkError struct {
	Op       string
	Failures []BulkItemFailure
}

func (e *PartialBulkError) Error() string {
	return fmt.Sprintf("%s: %d item(s) failed", e.Op, len(e.Failures))
}

// NewPartialBulkError creates a new PartialBulkError
func NewPartialBulkError(op string, failures []BulkItemFailure) *PartialBulkError {
	return &PartialBulkError{Op: op, Failures: failures}
}
