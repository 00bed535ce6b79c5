package query

import "fmt"

// Table is a queryable source. S is a marker type tying columns, filters
// and builders to this source, so fragments of another source do not
// compile where a fragment of S is expected.
type Table[S any] struct {
	name string
}

// NewTable creates the source for table name.
func NewTable[S any](name string) *Table[S] {
	if name == "" {
		panic("query: table name must not be empty")
	}
	return &Table[S]{name: name}
}

// Name returns the table name.
func (t *Table[S]) Name() string {
	return t.name
}

func (t *Table[S]) String() string {
	return t.name
}

func (t *Table[S]) render(w *writer) {
	w.write(t.name)
}

// owns panics unless src is t. Two tables may share a marker type, so the
// compiler alone cannot tell them apart.
func (t *Table[S]) owns(src *Table[S], column string) {
	if t != src {
		panic(fmt.Sprintf("query: column %s.%s used against table %s", t.name, column, src.name))
	}
}
