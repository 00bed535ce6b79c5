package query

import (
	"github.com/rmanoka/tygres/dialect"
	"github.com/rmanoka/tygres/shape"
)

// SelectBuilder accumulates a SELECT over S.
type SelectBuilder[S any] struct {
	lifecycle
	table  *Table[S]
	sel    Selector[S]
	where  condition[S]
	order  []OrderTerm[S]
	limit  rowBound
	offset rowBound
	lock   string
}

// Select starts a SELECT of items from t.
func (t *Table[S]) Select(items ...Selector[S]) *SelectBuilder[S] {
	return &SelectBuilder[S]{table: t, sel: Cols(items...)}
}

// Where filters the rows.
func (b *SelectBuilder[S]) Where(f Filter[S]) *SelectBuilder[S] {
	b.attach("WHERE")
	b.where = f.must()
	return b
}

// OrderBy sorts by terms in order.
func (b *SelectBuilder[S]) OrderBy(terms ...OrderTerm[S]) *SelectBuilder[S] {
	b.attach("ORDER BY")
	b.order = terms
	return b
}

// Limit writes a fixed row limit into the statement.
func (b *SelectBuilder[S]) Limit(n uint64) *SelectBuilder[S] {
	b.attach("LIMIT")
	b.limit = rowBound{kind: boundFixed, n: n}
	return b
}

// LimitParam leaves the row limit to a uint64 bind argument.
func (b *SelectBuilder[S]) LimitParam() *SelectBuilder[S] {
	b.attach("LIMIT")
	b.limit = rowBound{kind: boundParam}
	return b
}

// Offset writes a fixed row offset into the statement.
func (b *SelectBuilder[S]) Offset(n uint64) *SelectBuilder[S] {
	b.attach("OFFSET")
	b.offset = rowBound{kind: boundFixed, n: n}
	return b
}

// OffsetParam leaves the row offset to a uint64 bind argument.
func (b *SelectBuilder[S]) OffsetParam() *SelectBuilder[S] {
	b.attach("OFFSET")
	b.offset = rowBound{kind: boundParam}
	return b
}

// ForUpdate locks the selected rows. Row locks are never added implicitly,
// including for sub-queries.
func (b *SelectBuilder[S]) ForUpdate() *SelectBuilder[S] {
	b.attach("locking")
	b.lock = " FOR UPDATE"
	return b
}

// ForShare takes a shared lock on the selected rows.
func (b *SelectBuilder[S]) ForShare() *SelectBuilder[S] {
	b.attach("locking")
	b.lock = " FOR SHARE"
	return b
}

// Build finalizes the statement in the default dialect.
func (b *SelectBuilder[S]) Build() *Statement {
	return b.BuildFor(dialect.Default)
}

// BuildFor finalizes the statement in dialect d.
func (b *SelectBuilder[S]) BuildFor(d dialect.Dialect) *Statement {
	return finalize(d, b.render)
}

func (b *SelectBuilder[S]) renderNested(w *writer, idx int) (int, shape.Param, shape.Result) {
	w.depth++
	defer func() { w.depth-- }()

	return b.render(w, idx)
}

func (b *SelectBuilder[S]) render(w *writer, idx int) (int, shape.Param, shape.Result) {
	b.finish()
	return b.renderBody(w, idx)
}

// renderBody renders an already finished builder.
func (b *SelectBuilder[S]) renderBody(w *writer, idx int) (int, shape.Param, shape.Result) {
	b.verify()

	w.write("SELECT ")
	mark := w.len()
	if !b.sel.pushSelection(w) {
		w.truncate(mark - 1)
	}
	w.write(" FROM ")
	b.table.render(w)

	idx, where := pushWhere(w, b.where, idx)
	pushOrderBy(w, b.order)
	idx, limit := b.limit.push(w, "LIMIT", idx)
	idx, offset := b.offset.push(w, "OFFSET", idx)
	w.write(b.lock)

	return idx, shape.SeqOf(where, limit, offset), b.sel.result()
}

func (b *SelectBuilder[S]) verify() {
	b.sel.verify(b.table)
	if b.where != nil {
		b.where.verify(b.table)
	}
	for _, t := range b.order {
		t.verify(b.table)
	}
}
