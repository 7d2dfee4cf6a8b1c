package model

import (
	"context"

	ormerrors "github.com/ayonsaha2011/libsql-orm/pkg/errors"
)

// BulkResult reports a bulk write: the records that succeeded, the per-item
// failures, and the success count. Items execute sequentially in input
// order, so failures always refer to a prefix-consistent state.
type BulkResult[T any] struct {
	Succeeded []*T
	Failures  []ormerrors.BulkItemFailure
	Count     int
}

// BulkDeleteResult reports a bulk delete. Missing rows are not failures;
// they simply do not count.
type BulkDeleteResult struct {
	DeletedIDs   []int64
	DeletedCount int
	Failures     []ormerrors.BulkItemFailure
}

func (r *Repository[T]) bulkWrite(ctx context.Context, op string, recs []*T, one func(context.Context, *T) error) (*BulkResult[T], error) {
	res := &BulkResult[T]{}
	for i, rec := range recs {
		if err := one(ctx, rec); err != nil {
			res.Failures = append(res.Failures, ormerrors.BulkItemFailure{Index: i, Err: err})
			continue
		}
		res.Succeeded = append(res.Succeeded, rec)
		res.Count++
	}

	r.infof("%s: %d succeeded, %d failed", op, res.Count, len(res.Failures))
	if len(res.Failures) > 0 {
		return res, ormerrors.NewPartialBulkError(op, res.Failures)
	}
	return res, nil
}

// BulkCreate creates each record in order. Partial failure is reported per
// item through the returned PartialBulkError; successfully created records
// keep their assigned keys.
func (r *Repository[T]) BulkCreate(ctx context.Context, recs []*T) (*BulkResult[T], error) {
	return r.bulkWrite(ctx, "bulk_create", recs, r.Create)
}

// BulkUpdate updates each record in order with per-item failure reporting.
func (r *Repository[T]) BulkUpdate(ctx context.Context, recs []*T) (*BulkResult[T], error) {
	return r.bulkWrite(ctx, "bulk_update", recs, r.Update)
}

// BulkDelete deletes rows by primary key in order. Ids with no matching row
// are skipped without error.
func (r *Repository[T]) BulkDelete(ctx context.Context, ids []int64) (*BulkDeleteResult, error) {
	res := &BulkDeleteResult{}
	for i, id := range ids {
		q, err := r.deleteByID(id)
		if err != nil {
			res.Failures = append(res.Failures, ormerrors.BulkItemFailure{Index: i, Err: err})
			continue
		}
		out, err := r.db.Exec(ctx, q.SQL, q.Args)
		if err != nil {
			res.Failures = append(res.Failures, ormerrors.BulkItemFailure{Index: i, Err: err})
			continue
		}
		if out.RowsAffected > 0 {
			res.DeletedIDs = append(res.DeletedIDs, id)
			res.DeletedCount++
		}
	}

	r.infof("bulk_delete: %d deleted, %d failed", res.DeletedCount, len(res.Failures))
	if len(res.Failures) > 0 {
		return res, ormerrors.NewPartialBulkError("bulk_delete", res.Failures)
	}
	return res, nil
}
