package engine

import (
	"context"
	"fmt"
	"iter"

	"github.com/rmanoka/tygres/database"
	"github.com/rmanoka/tygres/query"
	"github.com/rmanoka/tygres/shape"
)

// Prepared is a statement ready to run. It holds its server-side handle
// until Close.
type Prepared struct {
	engine *Engine
	stmt   *query.Statement
	handle database.Handle
	done   func()
}

func (p *Prepared) Statement() *query.Statement { return p.stmt }

// Close gives the handle back to the engine's cache. It is safe to call more
// than once.
func (p *Prepared) Close() error {
	p.done()
	return nil
}

// Exec runs the statement and reports the affected row count.
func (p *Prepared) Exec(ctx context.Context, args ...any) (int64, error) {
	values, err := p.stmt.Bind(args...)
	if err != nil {
		return 0, err
	}
	n, err := p.engine.conn.Exec(ctx, p.handle, values)
	if err != nil {
		p.engine.logger.Warn("exec failed", "sql", p.stmt.SQL(), "error", err)
		return 0, fmt.Errorf("exec: %w", err)
	}
	return n, nil
}

// Query runs the statement and returns its rows, decoded through the
// statement's result shape.
func (p *Prepared) Query(ctx context.Context, args ...any) (*Rows, error) {
	values, err := p.stmt.Bind(args...)
	if err != nil {
		return nil, err
	}
	rows, err := p.engine.conn.Query(ctx, p.handle, values)
	if err != nil {
		p.engine.logger.Warn("query failed", "sql", p.stmt.SQL(), "error", err)
		return nil, fmt.Errorf("query: %w", err)
	}
	return &Rows{rows: rows, stmt: p.stmt}, nil
}

// All collects every row.
func (p *Prepared) All(ctx context.Context, args ...any) ([]shape.Record, error) {
	rows, err := p.Query(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []shape.Record
	for rows.Next() {
		out = append(out, rows.Record())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, rows.Close()
}

// One returns the first row, or ErrNoRows.
func (p *Prepared) One(ctx context.Context, args ...any) (shape.Record, error) {
	rows, err := p.Query(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoRows
	}
	return rows.Record(), rows.Close()
}

// Stream returns the rows as a forward-only sequence. Nothing runs until the
// sequence is ranged over, and each range runs the statement again.
func (p *Prepared) Stream(ctx context.Context, args ...any) iter.Seq2[shape.Record, error] {
	return func(yield func(shape.Record, error) bool) {
		rows, err := p.Query(ctx, args...)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(rows.Record(), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// ExecAsync runs Exec in the background.
func (p *Prepared) ExecAsync(ctx context.Context, args ...any) *Future[int64] {
	return Go(ctx, func(ctx context.Context) (int64, error) {
		return p.Exec(ctx, args...)
	})
}

// AllAsync runs All in the background.
func (p *Prepared) AllAsync(ctx context.Context, args ...any) *Future[[]shape.Record] {
	return Go(ctx, func(ctx context.Context) ([]shape.Record, error) {
		return p.All(ctx, args...)
	})
}
