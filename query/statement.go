package query

import (
	"fmt"

	"github.com/rmanoka/tygres/dialect"
	"github.com/rmanoka/tygres/shape"
)

// Builder is a statement builder that can be finalized for a dialect.
// Finalizing consumes the builder.
type Builder interface {
	BuildFor(d dialect.Dialect) *Statement
}

// Statement is a finalized statement: its text, the values it needs and
// the shape of the rows it returns. It is immutable and safe to share.
type Statement struct {
	sql          string
	placeholders int
	params       shape.Param
	result       shape.Result
}

func newStatement(sql string, next int, params shape.Param, result shape.Result) *Statement {
	if got, want := next-1, params.Placeholders(); got != want {
		panic(fmt.Sprintf("query: rendered %d placeholders but the parameters describe %d", got, want))
	}
	return &Statement{sql: sql, placeholders: next - 1, params: params, result: result}
}

func (s *Statement) SQL() string          { return s.sql }
func (s *Statement) String() string       { return s.sql }
func (s *Statement) Placeholders() int    { return s.placeholders }
func (s *Statement) Params() shape.Param  { return s.params }
func (s *Statement) Result() shape.Result { return s.result }

// Bind checks args against the parameter shape and returns the values to
// send, one per placeholder, in placeholder order.
func (s *Statement) Bind(args ...any) ([]any, error) {
	values, err := shape.Bind(s.params, args...)
	if err != nil {
		return nil, err
	}
	if len(values) != s.placeholders {
		return nil, fmt.Errorf("%w: bound %d values for %d placeholders", shape.ErrColumnCount, len(values), s.placeholders)
	}
	return values, nil
}

// Decode decodes one result row from its leading columns. Columns past the
// ones the result shape reads are ignored; engine rows reject them before
// decoding.
func (s *Statement) Decode(row shape.Row) (shape.Record, error) {
	if row.Len() < s.result.Columns() {
		return nil, fmt.Errorf("%w: row has %d columns, statement reads %d", shape.ErrColumnCount, row.Len(), s.result.Columns())
	}
	rec, _, err := shape.Decode(s.result, row, 0)
	return rec, err
}

// finalize renders a top-level statement in dialect d, numbering from 1.
func finalize(d dialect.Dialect, fn func(w *writer, idx int) (int, shape.Param, shape.Result)) *Statement {
	w := newWriter(d)
	defer w.release()

	next, params, result := fn(w, 1)
	return newStatement(w.String(), next, params, result)
}

// lifecycle guards the single use of a builder.
type lifecycle struct {
	done    bool
	clauses map[string]bool
}

func (l *lifecycle) open() {
	if l.done {
		panic("query: builder used after it was finalized")
	}
}

func (l *lifecycle) attach(clause string) {
	l.open()
	if l.clauses == nil {
		l.clauses = make(map[string]bool)
	}
	if l.clauses[clause] {
		panic("query: " + clause + " attached twice")
	}
	l.clauses[clause] = true
}

func (l *lifecycle) finish() {
	l.open()
	l.done = true
}
