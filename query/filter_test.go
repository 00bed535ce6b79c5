package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmanoka/tygres/dialect"
)

func renderFilter(f Filter[tRows]) (string, int) {
	w := newWriter(dialect.Default)
	defer w.release()
	next := f.c.pushClause(w, 1)
	return w.String(), next
}

func TestFilterComposition(t *testing.T) {
	a, b, c := A.Eq(), B.Eq(), B.Ne()

	sql, next := renderFilter(a.And(b).Or(c))
	assert.Equal(t, "((t.a = $1) AND (t.b = $2)) OR (t.b <> $3)", sql)
	assert.Equal(t, 4, next)

	f := A.Eq().And(B.Eq()).Or(B.Ne())
	renderFilter(f)
	assert.Equal(t, "t.a int64, t.b string, t.b string", f.c.params().String())
}

func TestFilterPlaceholdersMatchParameters(t *testing.T) {
	filters := []Filter[tRows]{
		A.Eq(),
		A.IsNull(),
		Not(A.Lt().Or(A.Gte())),
		A.Lte().And(C.IsNull()).Or(Not(B.Gt().And(A.EqValue(3)))),
		A.In(U.Select(UID).Where(UName.Eq().Or(UID.Gt()))).And(B.Eq()),
	}

	for _, f := range filters {
		sql, next := renderFilter(f)
		assert.Equal(t, next-1, f.c.params().Placeholders(), sql)
	}
}

func TestNot(t *testing.T) {
	sql, next := renderFilter(Not(A.IsNull()))
	assert.Equal(t, "NOT (t.a IS NULL)", sql)
	assert.Equal(t, 1, next)
}

func TestSubqueryContinuesNumbering(t *testing.T) {
	sub := U.Select(UID).Where(UName.Eq())
	stmt := T.Select(A).Where(B.Eq().And(A.In(sub))).Build()

	assert.Equal(t, "SELECT t.a FROM t WHERE (t.b = $1) AND (t.a IN (SELECT u.id FROM u WHERE u.name = $2))", stmt.SQL())

	bound, err := stmt.Bind("outer", "inner")
	require.NoError(t, err)
	assert.Equal(t, []any{"outer", "inner"}, bound)
}

func TestSubqueryDoesNotLockImplicitly(t *testing.T) {
	stmt := T.Select(A).Where(A.In(U.Select(UID))).Build()
	assert.NotContains(t, stmt.SQL(), "FOR UPDATE")

	locked := T.Select(A).Where(A.In(U.Select(UID).ForUpdate())).Build()
	assert.Equal(t, "SELECT t.a FROM t WHERE t.a IN (SELECT u.id FROM u FOR UPDATE)", locked.SQL())
}

func TestSubqueryMustReadOneMatchingColumn(t *testing.T) {
	assert.PanicsWithValue(t, "query: t.b IN sub-query reading 2 columns, want 1", func() {
		T.Select(A).Where(B.In(T.Select(A, B))).Build()
	})
	assert.PanicsWithValue(t, "query: t.b IN sub-query reading 0 columns, want 1", func() {
		T.Select(A).Where(B.In(U.Select(UName.SelectIf(false)))).Build()
	})
	assert.PanicsWithValue(t, "query: t.b is string, sub-query reads int64", func() {
		T.Select(A).Where(B.In(U.Select(UID))).Build()
	})

	// nullable columns compare by the type they point to
	stmt := T.Select(A).Where(C.In(U.Select(UName))).Build()
	assert.Equal(t, "SELECT t.a FROM t WHERE t.c IN (SELECT u.name FROM u)", stmt.SQL())
}

func TestSubqueryRendersOnce(t *testing.T) {
	f := A.In(U.Select(UID))
	T.Select(A).Where(f).Build()

	assert.PanicsWithValue(t, "query: sub-query rendered twice", func() {
		T.Delete().Where(f).Build()
	})
}

func TestSubqueryBoundBeforeRendering(t *testing.T) {
	f := A.In(U.Select(UID))

	assert.PanicsWithValue(t, "query: sub-query bound before it was rendered", func() {
		f.c.params()
	})
}

func TestEmptyFilter(t *testing.T) {
	var f Filter[tRows]
	assert.PanicsWithValue(t, "query: empty filter", func() { f.And(A.Eq()) })
	assert.Panics(t, func() { T.Select(A).Where(f) })
}
