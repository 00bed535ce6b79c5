package query

import (
	"github.com/rmanoka/tygres/dialect"
	"github.com/rmanoka/tygres/shape"
)

// UpdateBuilder accumulates an UPDATE of S.
type UpdateBuilder[S any] struct {
	lifecycle
	table     *Table[S]
	set       Setter[S]
	where     condition[S]
	returning Selector[S]
}

// Update starts an UPDATE assigning items in t.
func (t *Table[S]) Update(items ...Setter[S]) *UpdateBuilder[S] {
	return &UpdateBuilder[S]{table: t, set: Set(items...)}
}

func (b *UpdateBuilder[S]) Where(f Filter[S]) *UpdateBuilder[S] {
	b.attach("WHERE")
	b.where = f.must()
	return b
}

func (b *UpdateBuilder[S]) Returning(items ...Selector[S]) *UpdateBuilder[S] {
	b.attach("RETURNING")
	b.returning = Cols(items...)
	return b
}

func (b *UpdateBuilder[S]) Build() *Statement {
	return b.BuildFor(dialect.Default)
}

func (b *UpdateBuilder[S]) BuildFor(d dialect.Dialect) *Statement {
	return finalize(d, b.render)
}

func (b *UpdateBuilder[S]) render(w *writer, idx int) (int, shape.Param, shape.Result) {
	b.finish()
	b.verify()

	w.write("UPDATE ")
	b.table.render(w)
	w.write(" SET (")
	if !b.set.pushColumns(w) {
		panic("query: UPDATE with an empty column list")
	}
	w.write(") = " + w.dialect.RowConstructor() + "(")
	idx, _ = b.set.pushValues(w, idx)
	w.write(")")

	idx, where := pushWhere(w, b.where, idx)
	result := pushReturning(w, b.returning)
	return idx, shape.Seq(b.set.params(), where), result
}

func (b *UpdateBuilder[S]) verify() {
	b.set.verify(b.table)
	if b.where != nil {
		b.where.verify(b.table)
	}
	if b.returning != nil {
		b.returning.verify(b.table)
	}
}
