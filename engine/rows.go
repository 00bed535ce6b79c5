package engine

import (
	"fmt"

	"github.com/rmanoka/tygres/database"
	"github.com/rmanoka/tygres/query"
	"github.com/rmanoka/tygres/shape"
)

// Rows iterates over decoded result rows.
type Rows struct {
	rows    database.Rows
	stmt    *query.Statement
	checked bool
	rec     shape.Record
	err     error
	closed  bool
}

func (r *Rows) Next() bool {
	if r.err != nil || r.closed {
		return false
	}
	if !r.checked {
		r.checked = true
		if err := r.checkColumns(); err != nil {
			r.err = err
			return false
		}
	}
	if !r.rows.Next() {
		return false
	}

	row, err := shape.ScanRow(r.rows, r.stmt.Result())
	if err != nil {
		r.err = fmt.Errorf("scan: %w", err)
		return false
	}
	rec, err := r.stmt.Decode(row)
	if err != nil {
		r.err = fmt.Errorf("decode: %w", err)
		return false
	}
	r.rec = rec
	return true
}

func (r *Rows) checkColumns() error {
	cols, err := r.rows.Columns()
	if err != nil {
		return err
	}
	if want := r.stmt.Result().Columns(); len(cols) != want {
		return fmt.Errorf("%w: backend returned %d columns, statement reads %d", shape.ErrColumnCount, len(cols), want)
	}
	return nil
}

// Record returns the current row. Each row gets a fresh record.
func (r *Rows) Record() shape.Record { return r.rec }

// Scan copies the current row into dest, one pointer per selected item.
func (r *Rows) Scan(dest ...any) error { return r.rec.Scan(dest...) }

func (r *Rows) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.rows.Close()
}
