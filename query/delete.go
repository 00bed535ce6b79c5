package query

import (
	"github.com/rmanoka/tygres/dialect"
	"github.com/rmanoka/tygres/shape"
)

// DeleteBuilder accumulates a DELETE from S.
type DeleteBuilder[S any] struct {
	lifecycle
	table     *Table[S]
	where     condition[S]
	returning Selector[S]
}

// Delete starts a DELETE from t. Without Where it deletes every row.
func (t *Table[S]) Delete() *DeleteBuilder[S] {
	return &DeleteBuilder[S]{table: t}
}

func (b *DeleteBuilder[S]) Where(f Filter[S]) *DeleteBuilder[S] {
	b.attach("WHERE")
	b.where = f.must()
	return b
}

func (b *DeleteBuilder[S]) Returning(items ...Selector[S]) *DeleteBuilder[S] {
	b.attach("RETURNING")
	b.returning = Cols(items...)
	return b
}

func (b *DeleteBuilder[S]) Build() *Statement {
	return b.BuildFor(dialect.Default)
}

func (b *DeleteBuilder[S]) BuildFor(d dialect.Dialect) *Statement {
	return finalize(d, b.render)
}

func (b *DeleteBuilder[S]) render(w *writer, idx int) (int, shape.Param, shape.Result) {
	b.finish()
	if b.where != nil {
		b.where.verify(b.table)
	}
	if b.returning != nil {
		b.returning.verify(b.table)
	}

	w.write("DELETE FROM ")
	b.table.render(w)
	idx, where := pushWhere(w, b.where, idx)
	result := pushReturning(w, b.returning)
	return idx, where, result
}
