package query

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/rmanoka/tygres/dialect"
	"github.com/rmanoka/tygres/shape"
)

var plainIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CursorBuilder turns a SELECT into a named cursor declaration.
type CursorBuilder[S any] struct {
	lifecycle
	sel  *SelectBuilder[S]
	name string
}

// DeclareCursor finalizes b as the query of cursor name instead of a plain
// SELECT. The declaration must be the outermost statement. b takes no
// further clauses.
func (b *SelectBuilder[S]) DeclareCursor(name string) *CursorBuilder[S] {
	b.finish()
	if name == "" {
		panic("query: cursor name must not be empty")
	}
	return &CursorBuilder[S]{sel: b, name: name}
}

func (c *CursorBuilder[S]) Build() *Cursor {
	return c.BuildFor(dialect.Default)
}

func (c *CursorBuilder[S]) BuildFor(d dialect.Dialect) *Cursor {
	name := c.name
	if !plainIdentifier.MatchString(name) {
		name = d.QuoteIdentifier(name)
	}
	declare := finalize(d, func(w *writer, idx int) (int, shape.Param, shape.Result) {
		return c.render(w, idx, name)
	})
	return &Cursor{name: name, declare: declare}
}

func (c *CursorBuilder[S]) renderNested(w *writer, idx int) (int, shape.Param, shape.Result) {
	w.depth++
	defer func() { w.depth-- }()

	return c.render(w, idx, c.name)
}

func (c *CursorBuilder[S]) render(w *writer, idx int, name string) (int, shape.Param, shape.Result) {
	c.finish()
	if idx != 1 || w.depth > 0 {
		panic(fmt.Sprintf("query: cursor %s declared inside another statement", c.name))
	}
	w.write("DECLARE " + name + " CURSOR FOR ")
	return c.sel.renderBody(w, idx)
}

// Cursor is a declared cursor with the statements that drive it. Fetch and
// Close statements reuse the declaration's result shape and take no
// arguments.
type Cursor struct {
	name    string
	declare *Statement
}

func (c *Cursor) Name() string { return c.name }

// Declare is the DECLARE ... CURSOR FOR statement.
func (c *Cursor) Declare() *Statement { return c.declare }

// Fetch returns the statement reading the next n rows.
func (c *Cursor) Fetch(n int) *Statement {
	if n < 1 {
		panic("query: fetch count must be positive")
	}
	sql := "FETCH FORWARD " + strconv.Itoa(n) + " FROM " + c.name
	return newStatement(sql, 1, shape.Unit, c.declare.result)
}

// Close returns the CLOSE statement.
func (c *Cursor) Close() *Statement {
	return newStatement("CLOSE "+c.name, 1, shape.Unit, shape.NoResult)
}
