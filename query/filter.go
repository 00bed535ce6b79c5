package query

import (
	"fmt"
	"reflect"

	"github.com/rmanoka/tygres/shape"
)

// condition is a boolean fragment of S.
type condition[S any] interface {
	verify(src *Table[S])
	// pushClause renders the expression from idx and returns the next free
	// index.
	pushClause(w *writer, idx int) int
	// params must only be called after pushClause.
	params() shape.Param
}

// Filter is a composable boolean expression over S. Placeholders number
// left to right and the bind arguments follow in the same order.
type Filter[S any] struct {
	c condition[S]
}

// And renders (f) AND (o).
func (f Filter[S]) And(o Filter[S]) Filter[S] {
	return Filter[S]{c: junction[S]{op: opAnd, l: f.must(), r: o.must()}}
}

// Or renders (f) OR (o).
func (f Filter[S]) Or(o Filter[S]) Filter[S] {
	return Filter[S]{c: junction[S]{op: opOr, l: f.must(), r: o.must()}}
}

// Not renders NOT (f).
func Not[S any](f Filter[S]) Filter[S] {
	return Filter[S]{c: negation[S]{inner: f.must()}}
}

func (f Filter[S]) must() condition[S] {
	if f.c == nil {
		panic("query: empty filter")
	}
	return f.c
}

type junction[S any] struct {
	op   string
	l, r condition[S]
}

func (j junction[S]) verify(src *Table[S]) {
	j.l.verify(src)
	j.r.verify(src)
}

func (j junction[S]) pushClause(w *writer, idx int) int {
	w.write("(")
	idx = j.l.pushClause(w, idx)
	w.write(") " + j.op + " (")
	idx = j.r.pushClause(w, idx)
	w.write(")")
	return idx
}

func (j junction[S]) params() shape.Param {
	return shape.Seq(j.l.params(), j.r.params())
}

type negation[S any] struct {
	inner condition[S]
}

func (n negation[S]) verify(src *Table[S]) { n.inner.verify(src) }

func (n negation[S]) pushClause(w *writer, idx int) int {
	w.write(opNot + " (")
	idx = n.inner.pushClause(w, idx)
	w.write(")")
	return idx
}

func (n negation[S]) params() shape.Param { return n.inner.params() }

type comparison[S any] struct {
	col   ColumnRef[S]
	op    string
	value shape.Param
}

func (c comparison[S]) verify(src *Table[S]) { c.col.verify(src) }

func (c comparison[S]) pushClause(w *writer, idx int) int {
	w.write(c.col.Qualified() + " " + c.op + " ")
	return w.placeholder(idx)
}

func (c comparison[S]) params() shape.Param { return c.value }

type nullCheck[S any] struct {
	col ColumnRef[S]
	op  string
}

func (n nullCheck[S]) verify(src *Table[S]) { n.col.verify(src) }

func (n nullCheck[S]) pushClause(w *writer, idx int) int {
	w.write(n.col.Qualified() + " " + n.op)
	return idx
}

func (nullCheck[S]) params() shape.Param { return shape.Unit }

type membership[S any] struct {
	col ColumnRef[S]
	typ reflect.Type
	sub *subquery
}

func (m membership[S]) verify(src *Table[S]) { m.col.verify(src) }

func (m membership[S]) pushClause(w *writer, idx int) int {
	w.write(m.col.Qualified() + " " + opIn + " (")
	idx, result := m.sub.render(w, idx)
	w.write(")")
	m.check(result)
	return idx
}

// check requires the sub-query to read exactly one column of the
// compared type. Pointers compare by their target; interface columns
// accept any type.
func (m membership[S]) check(result shape.Result) {
	if n := result.Columns(); n != 1 {
		panic(fmt.Sprintf("query: %s IN sub-query reading %d columns, want 1", m.col.Qualified(), n))
	}
	if m.typ == nil || m.typ.Kind() == reflect.Interface {
		return
	}
	got := reflect.TypeOf(shape.Targets(result)[0]).Elem()
	if got.Kind() == reflect.Interface {
		return
	}
	if deref(got) != deref(m.typ) {
		panic(fmt.Sprintf("query: %s is %s, sub-query reads %s", m.col.Qualified(), m.typ, got))
	}
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func (m membership[S]) params() shape.Param { return m.sub.params() }

// pushWhere renders " WHERE <c>", or nothing when c is nil. It returns the
// next free index and the clause's parameter shape.
func pushWhere[S any](w *writer, c condition[S], idx int) (int, shape.Param) {
	if c == nil {
		return idx, shape.Unit
	}
	w.write(" WHERE ")
	idx = c.pushClause(w, idx)
	return idx, c.params()
}
