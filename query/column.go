package query

import (
	"reflect"

	"github.com/rmanoka/tygres/shape"
)

// Column is a column of table S holding values of type T.
type Column[S any, T any] struct {
	table *Table[S]
	name  string
}

// NewColumn declares column name of table with value type T.
//
//	var Users = query.NewTable[users]("users")
//	var UserID = query.NewColumn[int64](Users, "id")
func NewColumn[T any, S any](table *Table[S], name string) Column[S, T] {
	if table == nil {
		panic("query: column needs a table")
	}
	if name == "" {
		panic("query: column name must not be empty")
	}
	return Column[S, T]{table: table, name: name}
}

// Name returns the bare column name.
func (c Column[S, T]) Name() string { return c.name }

// Table returns the owning table.
func (c Column[S, T]) Table() *Table[S] { return c.table }

// Qualified returns table.column.
func (c Column[S, T]) Qualified() string { return c.table.name + "." + c.name }

func (c Column[S, T]) String() string { return c.Qualified() }

func (c Column[S, T]) verify(src *Table[S]) { c.table.owns(src, c.name) }
func (c Column[S, T]) bare() string          { return c.name }

// Selection

func (c Column[S, T]) pushSelection(w *writer) bool {
	w.write(c.Qualified())
	return true
}

func (c Column[S, T]) result() shape.Result {
	return shape.ColumnOf[T](c.Qualified())
}

// SelectIf selects c only when present. An absent column renders nothing
// and decodes to nil.
func (c Column[S, T]) SelectIf(present bool) Selector[S] {
	return optionalSelection[S]{inner: c, present: present}
}

// Write-set. A bare column is assigned a value supplied at bind time.

func (c Column[S, T]) pushColumns(w *writer) bool {
	return c.deferred(true).pushColumns(w)
}

func (c Column[S, T]) pushValues(w *writer, idx int) (int, bool) {
	return c.deferred(true).pushValues(w, idx)
}

func (c Column[S, T]) params() shape.Param {
	return c.deferred(true).params()
}

func (c Column[S, T]) deferred(present bool) assignment[S] {
	return assignment[S]{table: c.table, name: c.name, present: present, value: shape.ValueOf[T](c.Qualified())}
}

// To assigns v, fixed when the statement is built.
func (c Column[S, T]) To(v T) Setter[S] {
	return assignment[S]{table: c.table, name: c.name, present: true, value: shape.Fixed(v, c.Qualified())}
}

// IfSome assigns *v when v is non-nil; otherwise c is left out of the
// write-set entirely.
func (c Column[S, T]) IfSome(v *T) Setter[S] {
	a := assignment[S]{table: c.table, name: c.name, present: v != nil}
	if v != nil {
		a.value = shape.Fixed(*v, c.Qualified())
	}
	return a
}

// SetIf assigns a bind-time value only when present.
func (c Column[S, T]) SetIf(present bool) Setter[S] {
	return c.deferred(present)
}

// Generate assigns a value produced by gen each time the statement is bound.
func (c Column[S, T]) Generate(gen Generator) Setter[S] {
	return assignment[S]{table: c.table, name: c.name, present: true, value: shape.Generated(gen, c.Qualified())}
}

// Filters

// Eq compares c to a bind-time value.
func (c Column[S, T]) Eq() Filter[S] { return c.Compare(OpEqual) }

// Ne compares c to a bind-time value with <>.
func (c Column[S, T]) Ne() Filter[S] { return c.Compare(OpNotEqual) }

func (c Column[S, T]) Lt() Filter[S]  { return c.Compare(OpLessThan) }
func (c Column[S, T]) Lte() Filter[S] { return c.Compare(OpLessThanOrEqual) }
func (c Column[S, T]) Gt() Filter[S]  { return c.Compare(OpGreaterThan) }
func (c Column[S, T]) Gte() Filter[S] { return c.Compare(OpGreaterThanOrEqual) }

// Compare compares c to a bind-time value with op.
func (c Column[S, T]) Compare(op string) Filter[S] {
	return Filter[S]{c: comparison[S]{col: c, op: op, value: shape.ValueOf[T](c.Qualified())}}
}

// EqValue compares c to v, fixed when the statement is built. v is still
// sent as a bound value, not spliced into the text.
func (c Column[S, T]) EqValue(v T) Filter[S] {
	return Filter[S]{c: comparison[S]{col: c, op: OpEqual, value: shape.Fixed(v, c.Qualified())}}
}

func (c Column[S, T]) IsNull() Filter[S] {
	return Filter[S]{c: nullCheck[S]{col: c, op: opIsNull}}
}

func (c Column[S, T]) IsNotNull() Filter[S] {
	return Filter[S]{c: nullCheck[S]{col: c, op: opIsNotNull}}
}

// In tests membership in the rows of sub. The sub-query is consumed: it
// renders once, inside the statement the filter is attached to.
func (c Column[S, T]) In(sub Subquery) Filter[S] {
	if sub == nil {
		panic("query: IN needs a sub-query")
	}
	return Filter[S]{c: membership[S]{
		col: c,
		typ: reflect.TypeFor[T](),
		sub: &subquery{state: unrendered{q: sub}},
	}}
}

// Ordering

func (c Column[S, T]) Asc() OrderTerm[S]  { return OrderTerm[S]{col: c} }
func (c Column[S, T]) Desc() OrderTerm[S] { return OrderTerm[S]{col: c, desc: true} }

// ColumnRef is any column of S regardless of its value type.
type ColumnRef[S any] interface {
	Qualified() string
	verify(src *Table[S])
	bare() string
}

var _ ColumnRef[struct{}] = Column[struct{}, int]{}
