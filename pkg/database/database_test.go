package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

func TestQuery_ScansValueTypes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	query := "SELECT `id`, `name`, `payload`, `age`, `score` FROM `users`"
	mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "payload", "age", "score"}).
			AddRow(int64(1), "John", []byte("raw"), nil, 3.5))

	rows, err := NewSQL(db).Query(context.Background(), query, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, value.Integer(1), rows[0]["id"])
	assert.Equal(t, value.Text("John"), rows[0]["name"])
	assert.Equal(t, value.Blob([]byte("raw")), rows[0]["payload"])
	assert.Equal(t, value.Null{}, rows[0]["age"])
	assert.Equal(t, value.Real(3.5), rows[0]["score"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_BindsArgumentsInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	query := "SELECT * FROM `users` WHERE `age` > ? AND `is_active` = ?"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(30), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewSQL(db).Query(context.Background(), query,
		[]value.Value{value.Integer(30), value.Boolean(true)})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_ReportsResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stmt := "INSERT INTO `users` (`name`) VALUES (?)"
	mock.ExpectExec(regexp.QuoteMeta(stmt)).
		WithArgs("John").
		WillReturnResult(sqlmock.NewResult(5, 1))

	res, err := NewSQL(db).Exec(context.Background(), stmt, []value.Value{value.Text("John")})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.LastInsertID)
	assert.Equal(t, int64(1), res.RowsAffected)

	assert.NoError(t, mock.ExpectationsWereMet())
}
