package shape

import (
	"fmt"
	"reflect"
)

// Result describes, in column order, how one result row decodes into a
// Record. Every node contributes Slots entries to the record, whether or
// not it reads any columns.
type Result interface {
	// Columns is the number of row columns the node reads.
	Columns() int
	// Slots is the number of record entries the node produces.
	Slots() int
	String() string

	decode(row Row, idx int, out Record) (Record, int, error)
	targets(dst []any) []any
}

// NoResult decodes nothing.
var NoResult Result = noResult{}

type noResult struct{}

func (noResult) Columns() int   { return 0 }
func (noResult) Slots() int     { return 0 }
func (noResult) String() string { return "" }

func (noResult) decode(_ Row, idx int, out Record) (Record, int, error) { return out, idx, nil }
func (noResult) targets(dst []any) []any                                { return dst }

// Column reads one column as typ.
func Column(typ reflect.Type, label string) Result {
	return column{typ: typ, label: label}
}

// ColumnOf is Column for a static type.
func ColumnOf[T any](label string) Result {
	return Column(reflect.TypeFor[T](), label)
}

type column struct {
	typ   reflect.Type
	label string
}

func (column) Columns() int { return 1 }
func (column) Slots() int   { return 1 }

func (c column) String() string {
	return describe(c.label, typeName(c.typ))
}

func (c column) decode(row Row, idx int, out Record) (Record, int, error) {
	if idx >= row.Len() {
		return nil, idx, fmt.Errorf("%w: %s at %d of %d", ErrColumnOutOfRange, c.label, idx, row.Len())
	}
	ptr := reflect.New(c.typ)
	if err := row.ScanAt(idx, ptr.Interface()); err != nil {
		return nil, idx, fmt.Errorf("%s: %w", c.label, err)
	}
	return append(out, ptr.Elem().Interface()), idx + 1, nil
}

func (c column) targets(dst []any) []any {
	return append(dst, reflect.New(c.typ).Interface())
}

// Optional decodes inner when present. When absent it reads no column and
// fills its slots with nil.
func Optional(present bool, inner Result) Result {
	return optional{present: present, inner: inner}
}

type optional struct {
	present bool
	inner   Result
}

func (o optional) Columns() int {
	if !o.present {
		return 0
	}
	return o.inner.Columns()
}

func (o optional) Slots() int { return o.inner.Slots() }

func (o optional) String() string {
	if !o.present {
		return "absent"
	}
	return "optional " + o.inner.String()
}

func (o optional) decode(row Row, idx int, out Record) (Record, int, error) {
	if o.present {
		return o.inner.decode(row, idx, out)
	}
	for i := 0; i < o.inner.Slots(); i++ {
		out = append(out, nil)
	}
	return out, idx, nil
}

func (o optional) targets(dst []any) []any {
	if !o.present {
		return dst
	}
	return o.inner.targets(dst)
}

// Then pairs two result shapes; l decodes first.
func Then(l, r Result) Result {
	if _, ok := l.(noResult); ok {
		return r
	}
	if _, ok := r.(noResult); ok {
		return l
	}
	return then{l: l, r: r}
}

// ThenOf folds rs into right-nested pairs.
func ThenOf(rs ...Result) Result {
	out := NoResult
	for i := len(rs) - 1; i >= 0; i-- {
		out = Then(rs[i], out)
	}
	return out
}

type then struct {
	l, r Result
}

func (t then) Columns() int { return t.l.Columns() + t.r.Columns() }
func (t then) Slots() int   { return t.l.Slots() + t.r.Slots() }

func (t then) String() string {
	l, r := t.l.String(), t.r.String()
	switch {
	case l == "":
		return r
	case r == "":
		return l
	}
	return l + ", " + r
}

func (t then) decode(row Row, idx int, out Record) (Record, int, error) {
	out, idx, err := t.l.decode(row, idx, out)
	if err != nil {
		return nil, idx, err
	}
	return t.r.decode(row, idx, out)
}

func (t then) targets(dst []any) []any {
	return t.r.targets(t.l.targets(dst))
}

// Decode walks r over row starting at column idx. It returns the decoded
// record and the next unread column.
func Decode(r Result, row Row, idx int) (Record, int, error) {
	return r.decode(row, idx, make(Record, 0, r.Slots()))
}

// Targets allocates one typed scan destination per column r reads.
func Targets(r Result) []any {
	return r.targets(make([]any, 0, r.Columns()))
}
