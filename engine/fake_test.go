package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"

	"github.com/rmanoka/tygres/database"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeHandle struct {
	sql    string
	inputs int
}

func (h *fakeHandle) SQL() string   { return h.sql }
func (h *fakeHandle) NumInput() int { return h.inputs }

// fakeConn records every call. query returns canned rows per statement.
type fakeConn struct {
	mu       sync.Mutex
	inputs   int
	prepared []string
	released []string
	execs    []string
	args     [][]any
	query    func(sql string, args []any) (*fakeRows, error)
	execErr  error
}

func newFakeConn() *fakeConn {
	return &fakeConn{inputs: -1}
}

func (c *fakeConn) Prepare(_ context.Context, sql string) (database.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prepared = append(c.prepared, sql)
	return &fakeHandle{sql: sql, inputs: c.inputs}, nil
}

func (c *fakeConn) Exec(_ context.Context, h database.Handle, args []any) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execs = append(c.execs, h.SQL())
	c.args = append(c.args, args)
	if c.execErr != nil {
		return 0, c.execErr
	}
	return 1, nil
}

func (c *fakeConn) Query(_ context.Context, h database.Handle, args []any) (database.Rows, error) {
	c.mu.Lock()
	c.execs = append(c.execs, h.SQL())
	c.args = append(c.args, args)
	q := c.query
	c.mu.Unlock()
	if q == nil {
		return nil, errors.New("fake: no rows configured")
	}
	return q(h.SQL(), args)
}

func (c *fakeConn) Release(_ context.Context, h database.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = append(c.released, h.SQL())
	return nil
}

func (c *fakeConn) Ping(context.Context) error { return nil }
func (c *fakeConn) Close() error               { return nil }

func (c *fakeConn) snapshot() (prepared, released, execs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prepared...),
		append([]string(nil), c.released...),
		append([]string(nil), c.execs...)
}

type fakeRows struct {
	cols []string
	data [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("fake: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func (r *fakeRows) Columns() ([]string, error) { return r.cols, nil }
func (r *fakeRows) Err() error                 { return nil }
func (r *fakeRows) Close() error               { return nil }

var _ database.Conn = (*fakeConn)(nil)
