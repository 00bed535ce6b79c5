package query

import (
	"github.com/rmanoka/tygres/shape"
)

// OrderTerm is one "column ASC|DESC" entry of an ORDER BY.
type OrderTerm[S any] struct {
	col  ColumnRef[S]
	desc bool
}

func (o OrderTerm[S]) verify(src *Table[S]) {
	if o.col == nil {
		panic("query: empty order term")
	}
	o.col.verify(src)
}

func (o OrderTerm[S]) push(w *writer) {
	w.write(o.col.Qualified())
	if o.desc {
		w.write(" DESC")
	} else {
		w.write(" ASC")
	}
}

func pushOrderBy[S any](w *writer, terms []OrderTerm[S]) {
	if len(terms) == 0 {
		return
	}
	w.write(" ORDER BY ")
	for i, t := range terms {
		if i > 0 {
			w.write(", ")
		}
		t.push(w)
	}
}

type boundKind uint8

const (
	boundNone boundKind = iota
	boundFixed
	boundParam
)

// rowBound is a LIMIT or OFFSET. A fixed bound is written into the text;
// a parameter bound takes one uint64 argument at bind time.
type rowBound struct {
	kind boundKind
	n    uint64
}

func (b rowBound) push(w *writer, keyword string, idx int) (int, shape.Param) {
	switch b.kind {
	case boundFixed:
		w.write(" " + keyword + " " + w.dialect.RenderValue(b.n))
	case boundParam:
		w.write(" " + keyword + " ")
		return w.placeholder(idx), shape.ValueOf[uint64](keyword)
	}
	return idx, shape.Unit
}
