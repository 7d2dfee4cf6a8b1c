package query

import (
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ormerrors "github.com/ayonsaha2011/libsql-orm/pkg/errors"
	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

func fullRow() map[string]value.Value {
	return map[string]value.Value{
		"name":       value.Text("John"),
		"email":      value.Text("john@example.com"),
		"age":        value.Integer(30),
		"is_active":  value.Boolean(true),
		"score":      value.Real(9.5),
		"created_at": value.Text("2024-05-01T12:30:00Z"),
	}
}

func TestBuildSelect_Golden(t *testing.T) {
	g := goldie.New(t)
	tbl := usersTable(t)

	q, err := From(tbl).
		WhereFilter(And{
			Eq{Field: "is_active", Value: value.Boolean(true)},
			Gte{Field: "age", Value: value.Integer(18)},
		}).
		OrderBy(Sort{Field: "name", Direction: Asc}, Sort{Field: "age", Direction: Desc}).
		Limit(10).
		Offset(20).
		Build()
	require.NoError(t, err)
	g.Assert(t, "select_filtered", []byte(q.SQL))
	assert.Equal(t, []value.Value{value.Integer(1), value.Integer(18)}, q.Args)

	q, err = From(tbl).Select("name", "email").Build()
	require.NoError(t, err)
	g.Assert(t, "select_projection", []byte(q.SQL))

	q, err = From(tbl).CountAll().WhereFilter(Gt{Field: "age", Value: value.Integer(30)}).Build()
	require.NoError(t, err)
	g.Assert(t, "count_filtered", []byte(q.SQL))
	assert.Equal(t, []value.Value{value.Integer(30)}, q.Args)

	q, err = From(tbl).AggregateSelect(Avg, "score").Build()
	require.NoError(t, err)
	g.Assert(t, "aggregate_avg", []byte(q.SQL))

	q, err = From(tbl).WhereFilter(SearchFilter{Fields: []string{"name", "email"}, Term: "john"}.Filter()).Build()
	require.NoError(t, err)
	g.Assert(t, "search", []byte(q.SQL))
	assert.Equal(t, []value.Value{value.Text("%john%"), value.Text("%john%")}, q.Args)
}

func TestBuildInsert_DeclarationOrder(t *testing.T) {
	tbl := usersTable(t)

	q, err := InsertRow(tbl, fullRow()).Build()
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO `users` (`name`, `email`, `age`, `is_active`, `score`, `created_at`) VALUES (?, ?, ?, ?, ?, ?)",
		q.SQL)
	assert.Equal(t, []value.Value{
		value.Text("John"),
		value.Text("john@example.com"),
		value.Integer(30),
		value.Integer(1), // Boolean lowered to storage form
		value.Real(9.5),
		value.Text("2024-05-01T12:30:00Z"),
	}, q.Args)
}

func TestBuildInsert_PrimaryKeyHandling(t *testing.T) {
	tbl := usersTable(t)

	row := map[string]value.Value{
		"id":   value.Integer(7),
		"name": value.Text("John"),
	}

	// The primary key is skipped by default even when present.
	q, err := InsertRow(tbl, row).Build()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `users` (`name`) VALUES (?)", q.SQL)

	// Explicit-key insertion includes it, in declaration order.
	q, err = InsertRow(tbl, row).WithPrimaryKey().Build()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `users` (`id`, `name`) VALUES (?, ?)", q.SQL)
	assert.Equal(t, []value.Value{value.Integer(7), value.Text("John")}, q.Args)
}

func TestBuildUpdate(t *testing.T) {
	tbl := usersTable(t)

	row := map[string]value.Value{
		"name":  value.Text("Jane"),
		"email": value.Text("jane@example.com"),
	}
	q, err := UpdateRow(tbl, row).
		WhereFilter(Eq{Field: "id", Value: value.Integer(7)}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE `users` SET `name` = ?, `email` = ? WHERE `id` = ?", q.SQL)
	assert.Equal(t, []value.Value{
		value.Text("Jane"), value.Text("jane@example.com"), value.Integer(7),
	}, q.Args)
}

func TestBuildDelete(t *testing.T) {
	tbl := usersTable(t)

	q, err := DeleteFrom(tbl).WhereFilter(Eq{Field: "id", Value: value.Integer(7)}).Build()
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM `users` WHERE `id` = ?", q.SQL)
	assert.Equal(t, []value.Value{value.Integer(7)}, q.Args)
}

func TestBuild_UndeclaredColumnsFail(t *testing.T) {
	tbl := usersTable(t)

	var fe *ormerrors.InvalidFieldError

	_, err := From(tbl).Select("nope").Build()
	require.True(t, errors.As(err, &fe))

	_, err = From(tbl).OrderBy(Sort{Field: "nope"}).Build()
	require.True(t, errors.As(err, &fe))

	_, err = From(tbl).AggregateSelect(Sum, "nope").Build()
	require.True(t, errors.As(err, &fe))

	_, err = InsertRow(tbl, map[string]value.Value{"nope": value.Integer(1)}).Build()
	require.True(t, errors.As(err, &fe))
}

func TestBuild_OffsetWithoutLimit(t *testing.T) {
	q, err := From(usersTable(t)).Offset(5).Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` LIMIT -1 OFFSET 5", q.SQL)
}

func TestPagination(t *testing.T) {
	_, err := NewPagination(0, 10)
	assert.Error(t, err)
	_, err = NewPagination(1, 0)
	assert.Error(t, err)

	p, err := NewPagination(3, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, p.Limit())
	assert.Equal(t, 50, p.Offset())
}

func TestPaginatedResult_TotalPages(t *testing.T) {
	cases := []struct {
		total    int64
		perPage  int
		expected int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{30, 10, 3},
		{7, 1, 7},
	}
	for _, c := range cases {
		res := NewPaginatedResult[int](nil, c.total, Pagination{Page: 1, PerPage: c.perPage})
		assert.Equal(t, c.expected, res.TotalPages, "total=%d per_page=%d", c.total, c.perPage)
		assert.Equal(t, c.total == 0, res.TotalPages == 0)
	}
}
