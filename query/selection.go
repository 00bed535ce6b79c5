package query

import (
	"github.com/rmanoka/tygres/shape"
)

// Selector is a fragment that reads columns of S. Columns, Count and
// the results of Cols and SelectIf are selectors.
type Selector[S any] interface {
	verify(src *Table[S])
	// pushSelection renders the column list and reports whether it wrote
	// anything.
	pushSelection(w *writer) bool
	result() shape.Result
}

// Cols selects items in order.
func Cols[S any](items ...Selector[S]) Selector[S] {
	var out Selector[S] = noSelection[S]{}
	for i := len(items) - 1; i >= 0; i-- {
		if _, ok := out.(noSelection[S]); ok {
			out = items[i]
			continue
		}
		out = selectionPair[S]{l: items[i], r: out}
	}
	return out
}

type noSelection[S any] struct{}

func (noSelection[S]) verify(*Table[S])           {}
func (noSelection[S]) pushSelection(*writer) bool { return false }
func (noSelection[S]) result() shape.Result       { return shape.NoResult }

type selectionPair[S any] struct {
	l, r Selector[S]
}

func (p selectionPair[S]) verify(src *Table[S]) {
	p.l.verify(src)
	p.r.verify(src)
}

func (p selectionPair[S]) pushSelection(w *writer) bool {
	left := p.l.pushSelection(w)
	mark := w.len()
	if left {
		w.write(", ")
	}
	right := p.r.pushSelection(w)
	if left && !right {
		w.truncate(mark)
	}
	return left || right
}

func (p selectionPair[S]) result() shape.Result {
	return shape.Then(p.l.result(), p.r.result())
}

type optionalSelection[S any] struct {
	inner   Selector[S]
	present bool
}

func (o optionalSelection[S]) verify(src *Table[S]) { o.inner.verify(src) }

func (o optionalSelection[S]) pushSelection(w *writer) bool {
	if !o.present {
		return false
	}
	return o.inner.pushSelection(w)
}

func (o optionalSelection[S]) result() shape.Result {
	return shape.Optional(o.present, o.inner.result())
}

// Count selects COUNT(*), decoded as int64.
func Count[S any]() Selector[S] {
	return count[S]{}
}

type count[S any] struct{}

func (count[S]) verify(*Table[S]) {}

func (count[S]) pushSelection(w *writer) bool {
	w.write("COUNT(*)")
	return true
}

func (count[S]) result() shape.Result {
	return shape.ColumnOf[int64]("count")
}

// pushReturning renders " RETURNING <cols>", or nothing for a nil or empty
// selection.
func pushReturning[S any](w *writer, sel Selector[S]) shape.Result {
	if sel == nil {
		return shape.NoResult
	}
	mark := w.len()
	w.write(" RETURNING ")
	if !sel.pushSelection(w) {
		w.truncate(mark)
	}
	return sel.result()
}
