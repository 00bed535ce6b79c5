package query

import (
	"github.com/rmanoka/tygres/shape"
)

// Subquery is a statement that can render inside another one. Select
// builders are sub-queries; rendering one consumes it.
type Subquery interface {
	// renderNested renders the statement from idx, continuing the outer
	// numbering, and returns the next free index and its shapes.
	renderNested(w *writer, idx int) (int, shape.Param, shape.Result)
}

// subquery moves from unrendered to bound exactly once.
type subquery struct {
	state subqueryState
}

type subqueryState interface {
	subqueryState()
}

type unrendered struct {
	q Subquery
}

type bound struct {
	params shape.Param
}

func (unrendered) subqueryState() {}
func (bound) subqueryState()      {}

// render returns the next free index and the columns the sub-query reads.
func (s *subquery) render(w *writer, idx int) (int, shape.Result) {
	u, ok := s.state.(unrendered)
	if !ok {
		panic("query: sub-query rendered twice")
	}
	s.state = nil
	next, params, result := u.q.renderNested(w, idx)
	s.state = bound{params: params}
	return next, result
}

func (s *subquery) params() shape.Param {
	b, ok := s.state.(bound)
	if !ok {
		panic("query: sub-query bound before it was rendered")
	}
	return b.params
}
