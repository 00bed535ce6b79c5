package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rmanoka/tygres/shape"
)

func TestCursor(t *testing.T) {
	cur := T.Select(A, B).Where(A.Gt()).OrderBy(A.Asc()).DeclareCursor("batch").Build()

	assert.Equal(t, "batch", cur.Name())
	assert.Equal(t, "DECLARE batch CURSOR FOR SELECT t.a, t.b FROM t WHERE t.a > $1 ORDER BY t.a ASC", cur.Declare().SQL())

	fetch := cur.Fetch(100)
	assert.Equal(t, "FETCH FORWARD 100 FROM batch", fetch.SQL())
	assert.Equal(t, cur.Declare().Result(), fetch.Result())
	assert.Equal(t, shape.Unit, fetch.Params())

	assert.Equal(t, "CLOSE batch", cur.Close().SQL())
	assert.Panics(t, func() { cur.Fetch(0) })
}

func TestCursorQuotesName(t *testing.T) {
	cur := T.Select(A).DeclareCursor("my batch").Build()
	assert.Equal(t, `DECLARE "my batch" CURSOR FOR SELECT t.a FROM t`, cur.Declare().SQL())
	assert.Equal(t, `FETCH FORWARD 1 FROM "my batch"`, cur.Fetch(1).SQL())
}

func TestCursorTakesOverSelect(t *testing.T) {
	sel := T.Select(A)
	cur := sel.DeclareCursor("batch")

	assert.PanicsWithValue(t, "query: builder used after it was finalized", func() {
		sel.Where(A.Eq())
	})
	assert.Panics(t, func() { sel.Build() })
	assert.Equal(t, "DECLARE batch CURSOR FOR SELECT t.a FROM t", cur.Build().Declare().SQL())
}

func TestCursorCannotBeNested(t *testing.T) {
	nested := U.Select(UID).DeclareCursor("inner")

	assert.PanicsWithValue(t, "query: cursor inner declared inside another statement", func() {
		T.Select(A).Where(A.In(nested)).Build()
	})
}

func TestCursorRequiresOutermostIndex(t *testing.T) {
	c := T.Select(A).DeclareCursor("late")
	w := newWriter(nil)
	defer w.release()

	assert.Panics(t, func() { c.render(w, 2, "late") })
}
