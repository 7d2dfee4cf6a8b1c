package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ormerrors "github.com/ayonsaha2011/libsql-orm/pkg/errors"
	"github.com/ayonsaha2011/libsql-orm/pkg/schema"
	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

func usersTable(t *testing.T) *schema.Table {
	t.Helper()
	tbl, err := schema.NewTable("users").
		Text("name").
		Text("email", schema.Unique()).
		Integer("age", schema.Nullable()).
		Boolean("is_active").
		Real("score").
		Timestamp("created_at").
		Build()
	require.NoError(t, err)
	return tbl
}

func TestCompileFilter_PlaceholderArgumentCorrespondence(t *testing.T) {
	tree := And{
		Eq{Field: "name", Value: value.Text("John")},
		Or{
			Gt{Field: "age", Value: value.Integer(21)},
			In{Field: "email", Values: []value.Value{
				value.Text("a@x.com"), value.Text("b@x.com"), value.Text("c@x.com"),
			}},
		},
		Not{Inner: IsNull{Field: "age"}},
	}

	sql, args, err := compileFilter(tree, usersTable(t))
	require.NoError(t, err)

	assert.Equal(t,
		"(`name` = ? AND (`age` > ? OR `email` IN (?, ?, ?)) AND NOT (`age` IS NULL))",
		sql)

	// One argument per placeholder, in left-to-right text order.
	assert.Equal(t, strings.Count(sql, "?"), len(args))
	assert.Equal(t, []value.Value{
		value.Text("John"),
		value.Integer(21),
		value.Text("a@x.com"), value.Text("b@x.com"), value.Text("c@x.com"),
	}, args)
}

func TestCompileFilter_HostileValuesStayBound(t *testing.T) {
	hostile := "'; DROP TABLE users; --"
	sql, args, err := compileFilter(Eq{Field: "name", Value: value.Text(hostile)}, usersTable(t))
	require.NoError(t, err)

	// The value never reaches the statement text, only the argument list.
	assert.Equal(t, "`name` = ?", sql)
	assert.NotContains(t, sql, "DROP")
	assert.Equal(t, []value.Value{value.Text(hostile)}, args)
}

func TestCompileFilter_Deterministic(t *testing.T) {
	tree := Or{
		Lte{Field: "score", Value: value.Real(9.5)},
		And{
			Neq{Field: "name", Value: value.Text("x")},
			NotIn{Field: "age", Values: []value.Value{value.Integer(1), value.Integer(2)}},
		},
	}
	tbl := usersTable(t)

	sql1, args1, err := compileFilter(tree, tbl)
	require.NoError(t, err)
	sql2, args2, err := compileFilter(tree, tbl)
	require.NoError(t, err)

	assert.Equal(t, sql1, sql2)
	assert.Equal(t, args1, args2)
}

func TestCompileFilter_BooleanValuesAreStored(t *testing.T) {
	sql, args, err := compileFilter(Eq{Field: "is_active", Value: value.Boolean(true)}, usersTable(t))
	require.NoError(t, err)

	assert.Equal(t, "`is_active` = ?", sql)
	assert.Equal(t, []value.Value{value.Integer(1)}, args)
}

func TestCompileFilter_UndeclaredFieldFailsBeforeSQL(t *testing.T) {
	sql, args, err := compileFilter(And{
		Eq{Field: "name", Value: value.Text("a")},
		Eq{Field: "no_such_column", Value: value.Text("b")},
	}, usersTable(t))

	require.Error(t, err)
	assert.Empty(t, sql)
	assert.Nil(t, args)

	var fe *ormerrors.InvalidFieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "users", fe.Table)
	assert.Equal(t, "no_such_column", fe.Field)
}

func TestCompileFilter_EmptyMembership(t *testing.T) {
	tbl := usersTable(t)

	sql, args, err := compileFilter(In{Field: "age"}, tbl)
	require.NoError(t, err)
	assert.Equal(t, "1=0", sql)
	assert.Empty(t, args)

	sql, args, err = compileFilter(NotIn{Field: "age"}, tbl)
	require.NoError(t, err)
	assert.Equal(t, "1=1", sql)
	assert.Empty(t, args)
}

func TestCompileFilter_EmptyCombinators(t *testing.T) {
	tbl := usersTable(t)

	sql, _, err := compileFilter(And{}, tbl)
	require.NoError(t, err)
	assert.Equal(t, "1=1", sql)

	sql, _, err = compileFilter(Or{}, tbl)
	require.NoError(t, err)
	assert.Equal(t, "1=0", sql)
}

func TestCompileFilter_NullabilityLeaves(t *testing.T) {
	tbl := usersTable(t)

	sql, args, err := compileFilter(IsNotNull{Field: "age"}, tbl)
	require.NoError(t, err)
	assert.Equal(t, "`age` IS NOT NULL", sql)
	assert.Empty(t, args)
}
