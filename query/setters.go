package query

import (
	"github.com/rmanoka/tygres/shape"
)

// Generator produces a fresh value every time a statement is bound.
type Generator = shape.Generator

// Setter is a write-set fragment of S: the columns an INSERT or UPDATE
// assigns, with the placeholders carrying their values.
type Setter[S any] interface {
	verify(src *Table[S])
	// pushColumns renders bare column names and reports whether it wrote
	// anything.
	pushColumns(w *writer) bool
	// pushValues renders the value placeholders from idx and returns the
	// next free index and whether it wrote anything.
	pushValues(w *writer, idx int) (int, bool)
	params() shape.Param
}

// Set assigns items in order.
func Set[S any](items ...Setter[S]) Setter[S] {
	var out Setter[S] = noSetter[S]{}
	for i := len(items) - 1; i >= 0; i-- {
		if _, ok := out.(noSetter[S]); ok {
			out = items[i]
			continue
		}
		out = setterPair[S]{l: items[i], r: out}
	}
	return out
}

type noSetter[S any] struct{}

func (noSetter[S]) verify(*Table[S])                        {}
func (noSetter[S]) pushColumns(*writer) bool                { return false }
func (noSetter[S]) pushValues(_ *writer, idx int) (int, bool) { return idx, false }
func (noSetter[S]) params() shape.Param                     { return shape.Unit }

type setterPair[S any] struct {
	l, r Setter[S]
}

func (p setterPair[S]) verify(src *Table[S]) {
	p.l.verify(src)
	p.r.verify(src)
}

func (p setterPair[S]) pushColumns(w *writer) bool {
	left := p.l.pushColumns(w)
	mark := w.len()
	if left {
		w.write(", ")
	}
	right := p.r.pushColumns(w)
	if left && !right {
		w.truncate(mark)
	}
	return left || right
}

func (p setterPair[S]) pushValues(w *writer, idx int) (int, bool) {
	idx, left := p.l.pushValues(w, idx)
	mark := w.len()
	if left {
		w.write(", ")
	}
	idx, right := p.r.pushValues(w, idx)
	if left && !right {
		w.truncate(mark)
	}
	return idx, left || right
}

func (p setterPair[S]) params() shape.Param {
	return shape.Seq(p.l.params(), p.r.params())
}

// assignment is one column of a write-set. An absent assignment claims no
// column and no placeholder.
type assignment[S any] struct {
	table   *Table[S]
	name    string
	present bool
	value   shape.Param
}

func (a assignment[S]) verify(src *Table[S]) { a.table.owns(src, a.name) }

func (a assignment[S]) pushColumns(w *writer) bool {
	if !a.present {
		return false
	}
	w.write(a.name)
	return true
}

func (a assignment[S]) pushValues(w *writer, idx int) (int, bool) {
	if !a.present {
		return idx, false
	}
	return w.placeholder(idx), true
}

func (a assignment[S]) params() shape.Param {
	if !a.present {
		return shape.Unit
	}
	return a.value
}
