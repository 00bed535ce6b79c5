package query

import (
	"strconv"

	"github.com/rmanoka/tygres/dialect"
	"github.com/rmanoka/tygres/shape"
)

// InsertBuilder accumulates an INSERT into S.
type InsertBuilder[S any] struct {
	lifecycle
	table     *Table[S]
	set       Setter[S]
	defaults  bool
	reps      int
	conflict  *onConflict[S]
	pending   bool
	returning Selector[S]
}

// Insert starts an INSERT of items into t. With no items the statement
// must use DefaultValues.
func (t *Table[S]) Insert(items ...Setter[S]) *InsertBuilder[S] {
	b := &InsertBuilder[S]{table: t}
	if len(items) > 0 {
		b.set = Set(items...)
	}
	return b
}

// DefaultValues inserts a single row of column defaults.
func (b *InsertBuilder[S]) DefaultValues() *InsertBuilder[S] {
	b.attach("DEFAULT VALUES")
	if b.set != nil {
		panic("query: DEFAULT VALUES with a write-set")
	}
	b.defaults = true
	return b
}

// Repeat inserts n rows. Each row renders its own tuple of placeholders,
// and Bind takes one slice argument holding exactly n tuples in place of
// the write-set's arguments.
func (b *InsertBuilder[S]) Repeat(n int) *InsertBuilder[S] {
	b.attach("repeat")
	if n < 1 {
		panic("reps must be a positive integer")
	}
	b.reps = n
	return b
}

// OnConflict starts an ON CONFLICT clause for conflicts on targets, or on
// any constraint when no targets are given.
func (b *InsertBuilder[S]) OnConflict(targets ...ColumnRef[S]) *ConflictClause[S] {
	b.attach("ON CONFLICT")
	b.pending = true
	return &ConflictClause[S]{b: b, targets: targets}
}

// Returning selects items from the inserted rows.
func (b *InsertBuilder[S]) Returning(items ...Selector[S]) *InsertBuilder[S] {
	b.attach("RETURNING")
	b.returning = Cols(items...)
	return b
}

func (b *InsertBuilder[S]) Build() *Statement {
	return b.BuildFor(dialect.Default)
}

func (b *InsertBuilder[S]) BuildFor(d dialect.Dialect) *Statement {
	return finalize(d, b.render)
}

func (b *InsertBuilder[S]) render(w *writer, idx int) (int, shape.Param, shape.Result) {
	b.finish()
	if b.pending {
		panic("query: ON CONFLICT without an action")
	}
	b.verify()

	w.write("INSERT INTO ")
	b.table.render(w)

	var params shape.Param
	if b.defaults {
		if b.reps > 1 {
			panic("query: DEFAULT VALUES requires a repeat count of 1, got " + strconv.Itoa(b.reps))
		}
		w.write(" DEFAULT VALUES")
		params = shape.Unit
	} else {
		idx, params = b.pushRows(w, idx)
	}

	if b.conflict != nil {
		b.conflict.push(w)
	}
	result := pushReturning(w, b.returning)
	return idx, params, result
}

func (b *InsertBuilder[S]) pushRows(w *writer, idx int) (int, shape.Param) {
	if b.set == nil {
		panic("query: INSERT needs a write-set or DEFAULT VALUES")
	}

	w.write(" (")
	if !b.set.pushColumns(w) {
		panic("query: INSERT with an empty column list")
	}
	w.write(") VALUES ")

	reps := max(b.reps, 1)
	for i := 0; i < reps; i++ {
		if i > 0 {
			w.write(", ")
		}
		w.write("(")
		idx, _ = b.set.pushValues(w, idx)
		w.write(")")
	}

	if b.reps == 0 {
		return idx, b.set.params()
	}
	return idx, shape.Repeat(b.reps, b.set.params())
}

func (b *InsertBuilder[S]) verify() {
	if b.set != nil {
		b.set.verify(b.table)
	}
	if b.conflict != nil {
		b.conflict.verify(b.table)
	}
	if b.returning != nil {
		b.returning.verify(b.table)
	}
}

// onConflict is an ON CONFLICT action; no updates means DO NOTHING.
type onConflict[S any] struct {
	targets []ColumnRef[S]
	updates []ColumnRef[S]
}

// ConflictClause picks the action of an ON CONFLICT clause.
type ConflictClause[S any] struct {
	b       *InsertBuilder[S]
	targets []ColumnRef[S]
}

// DoNothing skips conflicting rows.
func (c *ConflictClause[S]) DoNothing() *InsertBuilder[S] {
	c.b.conflict = &onConflict[S]{targets: c.targets}
	c.b.pending = false
	return c.b
}

// DoUpdateExcluded overwrites cols of the existing row with the values of
// the row that conflicted.
func (c *ConflictClause[S]) DoUpdateExcluded(cols ...ColumnRef[S]) *InsertBuilder[S] {
	if len(c.targets) == 0 {
		panic("query: DO UPDATE needs conflict target columns")
	}
	if len(cols) == 0 {
		panic("query: DO UPDATE needs columns to update")
	}
	c.b.conflict = &onConflict[S]{targets: c.targets, updates: cols}
	c.b.pending = false
	return c.b
}

func (c *onConflict[S]) verify(src *Table[S]) {
	for _, col := range c.targets {
		col.verify(src)
	}
	for _, col := range c.updates {
		col.verify(src)
	}
}

func (c *onConflict[S]) push(w *writer) {
	w.write(" ON CONFLICT")
	if len(c.targets) > 0 {
		w.write(" (")
		for i, col := range c.targets {
			if i > 0 {
				w.write(", ")
			}
			w.write(col.bare())
		}
		w.write(")")
	}

	if len(c.updates) == 0 {
		w.write(" DO NOTHING")
		return
	}
	w.write(" DO UPDATE SET ")
	for i, col := range c.updates {
		if i > 0 {
			w.write(", ")
		}
		w.write(col.bare() + " = EXCLUDED." + col.bare())
	}
}
