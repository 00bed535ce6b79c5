package database

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLDB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	conn := NewSQLDB(db)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestSQLDBExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)

	create, err := conn.Prepare(ctx, "CREATE TABLE t (a INTEGER, b TEXT)")
	require.NoError(t, err)
	_, err = conn.Exec(ctx, create, nil)
	require.NoError(t, err)
	require.NoError(t, conn.Release(ctx, create))

	insert, err := conn.Prepare(ctx, "INSERT INTO t (a, b) VALUES ($1, $2), ($3, $4)")
	require.NoError(t, err)
	assert.Equal(t, -1, insert.NumInput())
	n, err := conn.Exec(ctx, insert, []any{int64(1), "x", int64(2), "y"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	sel, err := conn.Prepare(ctx, "SELECT t.a, t.b FROM t WHERE t.a > $1 ORDER BY t.a ASC")
	require.NoError(t, err)
	assert.Equal(t, "SELECT t.a, t.b FROM t WHERE t.a > $1 ORDER BY t.a ASC", sel.SQL())

	rows, err := conn.Query(ctx, sel, []any{int64(0)})
	require.NoError(t, err)
	cols, err := rows.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cols)

	var got []string
	for rows.Next() {
		var a int64
		var b string
		require.NoError(t, rows.Scan(&a, &b))
		got = append(got, b)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	assert.Equal(t, []string{"x", "y"}, got)
}

func TestSQLDBPrepareError(t *testing.T) {
	conn := openSQLite(t)
	_, err := conn.Prepare(context.Background(), "SELECT nope FROM missing")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "prepare: "))
}

type otherHandle struct{}

func (otherHandle) SQL() string   { return "" }
func (otherHandle) NumInput() int { return 0 }

func TestSQLDBRejectsForeignHandle(t *testing.T) {
	conn := openSQLite(t)
	_, err := conn.Exec(context.Background(), otherHandle{}, nil)
	assert.ErrorIs(t, err, ErrForeignHandle)
}

func TestSQLDBClosed(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)
	h, err := conn.Prepare(ctx, "SELECT 1")
	require.NoError(t, err)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())

	_, err = conn.Prepare(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = conn.Query(ctx, h, nil)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, conn.Ping(ctx), ErrClosed)
}

func TestStatementNameIsUnique(t *testing.T) {
	a, b := statementName(), statementName()
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "tygres_"))
	assert.Equal(t, strings.ToLower(a), a)
	assert.Len(t, a, len("tygres_")+26)
}
