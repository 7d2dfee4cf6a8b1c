package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayonsaha2011/libsql-orm/pkg/database"
	ormerrors "github.com/ayonsaha2011/libsql-orm/pkg/errors"
	"github.com/ayonsaha2011/libsql-orm/pkg/logging"
	"github.com/ayonsaha2011/libsql-orm/pkg/query"
	"github.com/ayonsaha2011/libsql-orm/pkg/schema"
	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

// Repository executes the record-mapping operations for one persistable
// type. It holds no state beyond its collaborators and is safe for
// concurrent use to the extent the underlying Database is.
type Repository[T any] struct {
	db     database.Database
	mapper Mapper[T]
	table  *schema.Table
	log    logging.Sink
}

// Option configures a Repository.
type Option[T any] func(*Repository[T])

// WithSink sets the logging sink. The default discards events.
func WithSink[T any](s logging.Sink) Option[T] {
	return func(r *Repository[T]) { r.log = s }
}

// NewRepository creates a repository for the mapper's table.
func NewRepository[T any](db database.Database, mapper Mapper[T], opts ...Option[T]) *Repository[T] {
	r := &Repository[T]{
		db:     db,
		mapper: mapper,
		table:  mapper.Table(),
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the declaration the repository operates on.
func (r *Repository[T]) Table() *schema.Table { return r.table }

func (r *Repository[T]) infof(format string, args ...any) {
	logging.Emitf(r.log, logging.LevelInfo, r.table.Name(), format, args...)
}

// decodeRow applies declared-type coercion to every declared column of a raw
// storage row before handing it to the mapper. Columns the row does not
// carry are left absent; undeclared columns are dropped.
func (r *Repository[T]) decodeRow(raw database.Row) (*T, error) {
	decoded := make(database.Row, len(raw))
	for _, col := range r.table.Columns() {
		v, ok := raw[col.Name]
		if !ok {
			continue
		}
		converted, err := value.FromStorage(v, col.Type)
		if err != nil {
			var ce *ormerrors.CoercionError
			if errors.As(err, &ce) {
				ce.Column = col.Name
			}
			return nil, err
		}
		decoded[col.Name] = converted
	}
	return r.mapper.FromRow(decoded)
}

func (r *Repository[T]) decodeRows(raw []database.Row) ([]*T, error) {
	out := make([]*T, 0, len(raw))
	for _, row := range raw {
		rec, err := r.decodeRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// writeRow converts a record to column values, dropping the primary key.
func (r *Repository[T]) writeRow(rec *T) (map[string]value.Value, error) {
	row, err := r.mapper.ToRow(rec)
	if err != nil {
		return nil, fmt.Errorf("record conversion failed: %w", err)
	}
	delete(row, r.table.PrimaryKey().Name)
	return row, nil
}

// Create persists a transient record and assigns its primary key from the
// store's last insert id.
func (r *Repository[T]) Create(ctx context.Context, rec *T) error {
	if id, ok := r.mapper.PrimaryKey(rec); ok {
		return ormerrors.NewAlreadyPersistedError(r.table.Name(), id)
	}

	row, err := r.writeRow(rec)
	if err != nil {
		return err
	}

	q, err := query.InsertRow(r.table, row).Build()
	if err != nil {
		return err
	}
	res, err := r.db.Exec(ctx, q.SQL, q.Args)
	if err != nil {
		return err
	}

	r.mapper.SetPrimaryKey(rec, res.LastInsertID)
	r.infof("created record id=%d", res.LastInsertID)
	return nil
}

// createWithKey inserts a record keeping its existing primary key, for the
// CreateOrUpdate fallback on stores that allow explicit key insertion.
func (r *Repository[T]) createWithKey(ctx context.Context, rec *T, id int64) error {
	row, err := r.mapper.ToRow(rec)
	if err != nil {
		return fmt.Errorf("record conversion failed: %w", err)
	}
	row[r.table.PrimaryKey().Name] = value.Integer(id)

	q, err := query.InsertRow(r.table, row).WithPrimaryKey().Build()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, q.SQL, q.Args); err != nil {
		return err
	}
	r.infof("created record with explicit id=%d", id)
	return nil
}

func (r *Repository[T]) pkFilter(id int64) query.FilterOperator {
	return query.Eq{Field: r.table.PrimaryKey().Name, Value: value.Integer(id)}
}

func (r *Repository[T]) deleteByID(id int64) (query.Query, error) {
	return query.DeleteFrom(r.table).WhereFilter(r.pkFilter(id)).Build()
}

// Update rewrites every non-key column of a persisted record.
func (r *Repository[T]) Update(ctx context.Context, rec *T) error {
	id, ok := r.mapper.PrimaryKey(rec)
	if !ok {
		return ormerrors.NewNotPersistedError(r.table.Name())
	}

	row, err := r.writeRow(rec)
	if err != nil {
		return err
	}

	q, err := query.UpdateRow(r.table, row).WhereFilter(r.pkFilter(id)).Build()
	if err != nil {
		return err
	}
	res, err := r.db.Exec(ctx, q.SQL, q.Args)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ormerrors.NewNotFoundError(r.table.Name(), id)
	}

	r.infof("updated record id=%d", id)
	return nil
}

// Delete removes a persisted record. A row that is already gone is not an
// error; the call only requires that the record was persisted.
func (r *Repository[T]) Delete(ctx context.Context, rec *T) error {
	id, ok := r.mapper.PrimaryKey(rec)
	if !ok {
		return ormerrors.NewNotPersistedError(r.table.Name())
	}

	q, err := query.DeleteFrom(r.table).WhereFilter(r.pkFilter(id)).Build()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, q.SQL, q.Args); err != nil {
		return err
	}

	r.infof("deleted record id=%d", id)
	return nil
}

// CreateOrUpdate updates when the record carries a primary key and the row
// still exists, falls back to explicit-key insertion when it does not, and
// behaves as Create for transient records.
func (r *Repository[T]) CreateOrUpdate(ctx context.Context, rec *T) error {
	id, ok := r.mapper.PrimaryKey(rec)
	if !ok {
		return r.Create(ctx, rec)
	}

	err := r.Update(ctx, rec)
	var notFound *ormerrors.NotFoundError
	if errors.As(err, &notFound) {
		return r.createWithKey(ctx, rec, id)
	}
	return err
}

// Upsert finds a row matching the record on the given unique fields. On a
// match the matched row's primary key is adopted and the record updates it;
// otherwise the record is created. uniqueFields must be non-empty and every
// field must be declared.
func (r *Repository[T]) Upsert(ctx context.Context, uniqueFields []string, rec *T) error {
	if len(uniqueFields) == 0 {
		return fmt.Errorf("upsert into '%s' requires at least one unique field", r.table.Name())
	}

	row, err := r.mapper.ToRow(rec)
	if err != nil {
		return fmt.Errorf("record conversion failed: %w", err)
	}

	match := make(query.And, len(uniqueFields))
	for i, f := range uniqueFields {
		if !r.table.HasColumn(f) {
			return ormerrors.NewInvalidFieldError(r.table.Name(), f)
		}
		v, ok := row[f]
		if !ok {
			v = value.Null{}
		}
		match[i] = query.Eq{Field: f, Value: v}
	}

	pkName := r.table.PrimaryKey().Name
	q, err := query.From(r.table).Select(pkName).WhereFilter(match).Limit(1).Build()
	if err != nil {
		return err
	}
	rows, err := r.db.Query(ctx, q.SQL, q.Args)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		if _, ok := r.mapper.PrimaryKey(rec); ok {
			return r.CreateOrUpdate(ctx, rec)
		}
		return r.Create(ctx, rec)
	}

	id, ok := value.AsInt64(rows[0][pkName])
	if !ok {
		return ormerrors.NewCoercionError("INTEGER", rows[0][pkName].Kind())
	}
	r.mapper.SetPrimaryKey(rec, id)
	return r.Update(ctx, rec)
}
