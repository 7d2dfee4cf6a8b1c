package model

import (
	"context"

	ormerrors "github.com/ayonsaha2011/libsql-orm/pkg/errors"
	"github.com/ayonsaha2011/libsql-orm/pkg/query"
	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

// FindByID returns the record with the given primary key, or nil when no row
// matches.
func (r *Repository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	q, err := query.From(r.table).WhereFilter(r.pkFilter(id)).Limit(1).Build()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, q.SQL, q.Args)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return r.decodeRow(rows[0])
}

// FindAll returns every record, optionally ordered.
func (r *Repository[T]) FindAll(ctx context.Context, sorts ...query.Sort) ([]*T, error) {
	return r.FindWhere(ctx, nil, sorts...)
}

// FindWhere returns the records matching the filter tree, optionally
// ordered. No match yields an empty slice, not an error.
func (r *Repository[T]) FindWhere(ctx context.Context, filter query.FilterOperator, sorts ...query.Sort) ([]*T, error) {
	b := query.From(r.table).OrderBy(sorts...)
	if filter != nil {
		b = b.WhereFilter(filter)
	}
	q, err := b.Build()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, q.SQL, q.Args)
	if err != nil {
		return nil, err
	}
	return r.decodeRows(rows)
}

// FindPaginated returns one page of records matching the filter, plus totals.
// The count and the page come from two independent statements and may observe
// different snapshots under concurrent writes.
func (r *Repository[T]) FindPaginated(ctx context.Context, filter query.FilterOperator, p query.Pagination, sorts ...query.Sort) (*query.PaginatedResult[*T], error) {
	if _, err := query.NewPagination(p.Page, p.PerPage); err != nil {
		return nil, err
	}

	total, err := r.CountWhere(ctx, filter)
	if err != nil {
		return nil, err
	}

	b := query.From(r.table).OrderBy(sorts...).Limit(p.Limit()).Offset(p.Offset())
	if filter != nil {
		b = b.WhereFilter(filter)
	}
	q, err := b.Build()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, q.SQL, q.Args)
	if err != nil {
		return nil, err
	}
	data, err := r.decodeRows(rows)
	if err != nil {
		return nil, err
	}

	return query.NewPaginatedResult(data, total, p), nil
}

// Count returns the number of rows in the table.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	return r.CountWhere(ctx, nil)
}

// CountWhere returns the number of rows matching the filter.
func (r *Repository[T]) CountWhere(ctx context.Context, filter query.FilterOperator) (int64, error) {
	v, err := r.AggregateValue(ctx, query.Aggregate{Fn: query.Count, Filter: filter})
	if err != nil {
		return 0, err
	}
	n, ok := value.AsInt64(v)
	if !ok {
		return 0, ormerrors.NewCoercionError("INTEGER", v.Kind())
	}
	return n, nil
}

// AggregateValue runs one aggregation and returns its single value. An
// undefined aggregate (AVG over zero rows) returns Null.
func (r *Repository[T]) AggregateValue(ctx context.Context, agg query.Aggregate) (value.Value, error) {
	b := query.From(r.table).AggregateSelect(agg.Fn, agg.Field)
	if agg.Filter != nil {
		b = b.WhereFilter(agg.Filter)
	}
	q, err := b.Build()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, q.SQL, q.Args)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return value.Null{}, nil
	}
	for _, v := range rows[0] {
		return v, nil
	}
	return value.Null{}, nil
}

// Search returns the records whose listed fields contain the term, in
// storage order unless sorts are given.
func (r *Repository[T]) Search(ctx context.Context, s query.SearchFilter, sorts ...query.Sort) ([]*T, error) {
	return r.FindWhere(ctx, s.Filter(), sorts...)
}

// SearchPaginated composes Search with pagination.
func (r *Repository[T]) SearchPaginated(ctx context.Context, s query.SearchFilter, p query.Pagination, sorts ...query.Sort) (*query.PaginatedResult[*T], error) {
	return r.FindPaginated(ctx, s.Filter(), p, sorts...)
}
