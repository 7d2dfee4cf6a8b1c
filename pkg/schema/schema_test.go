package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

func TestBuild_InjectsDefaultPrimaryKey(t *testing.T) {
	tbl, err := NewTable("users").Text("name").Build()
	require.NoError(t, err)

	pk := tbl.PrimaryKey()
	assert.Equal(t, "id", pk.Name)
	assert.Equal(t, value.TypeInteger, pk.Type)
	assert.True(t, pk.AutoIncrement)
	assert.Equal(t, []string{"id", "name"}, tbl.ColumnNames())
}

func TestBuild_ExplicitPrimaryKey(t *testing.T) {
	tbl, err := NewTable("events").
		Integer("seq", PrimaryKey()).
		Text("payload").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "seq", tbl.PrimaryKey().Name)
	assert.False(t, tbl.PrimaryKey().AutoIncrement)
	assert.Equal(t, []string{"seq", "payload"}, tbl.ColumnNames())
}

func TestBuild_Validation(t *testing.T) {
	_, err := NewTable("").Text("name").Build()
	assert.Error(t, err)

	_, err = NewTable("users").Text("name").Text("name").Build()
	assert.Error(t, err)

	_, err = NewTable("users").
		Integer("a", PrimaryKey()).
		Integer("b", PrimaryKey()).
		Build()
	assert.Error(t, err)
}

func TestColumnOptions(t *testing.T) {
	tbl, err := NewTable("users").
		Text("email", Unique()).
		Integer("age", Nullable()).
		Text("status", Default("'active'")).
		Text("bio", Raw("TEXT COLLATE NOCASE")).
		Build()
	require.NoError(t, err)

	email, ok := tbl.Column("email")
	require.True(t, ok)
	assert.True(t, email.Unique)
	assert.False(t, email.Nullable)

	age, ok := tbl.Column("age")
	require.True(t, ok)
	assert.True(t, age.Nullable)

	status, ok := tbl.Column("status")
	require.True(t, ok)
	assert.Equal(t, "'active'", status.Default)

	bio, ok := tbl.Column("bio")
	require.True(t, ok)
	assert.Equal(t, "TEXT COLLATE NOCASE", bio.RawType)

	assert.False(t, tbl.HasColumn("missing"))
	_, ok = tbl.Column("missing")
	assert.False(t, ok)
}

func TestDefaultTableName(t *testing.T) {
	assert.Equal(t, "user", DefaultTableName("User"))
	assert.Equal(t, "user_profile", DefaultTableName("UserProfile"))
	assert.Equal(t, "product_catalog", DefaultTableName("ProductCatalog"))
}
