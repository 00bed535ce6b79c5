package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rmanoka/tygres/query"
	"github.com/rmanoka/tygres/shape"
)

// Cursor reads a declared cursor in fixed size batches. The connection must
// stay on one session, inside a transaction, for the cursor's lifetime.
type Cursor struct {
	engine    *Engine
	cursor    *query.Cursor
	fetch     *Prepared
	batch     int
	exhausted bool
	closed    bool
}

// OpenCursor declares c with args and prepares its FETCH for batch rows.
func (e *Engine) OpenCursor(ctx context.Context, c *query.Cursor, batch int, args ...any) (*Cursor, error) {
	declare, err := e.PrepareStatement(ctx, c.Declare())
	if err != nil {
		return nil, err
	}
	defer declare.Close()

	if _, err := declare.Exec(ctx, args...); err != nil {
		return nil, fmt.Errorf("declare cursor %s: %w", c.Name(), err)
	}
	fetch, err := e.PrepareStatement(ctx, c.Fetch(batch))
	if err != nil {
		return nil, errors.Join(err, e.closeCursor(ctx, c))
	}
	e.logger.Debug("cursor opened", "cursor", c.Name(), "batch", batch)
	return &Cursor{engine: e, cursor: c, fetch: fetch, batch: batch}, nil
}

func (c *Cursor) Name() string { return c.cursor.Name() }

// Fetch returns the next batch. An empty batch means the cursor is drained.
func (c *Cursor) Fetch(ctx context.Context) ([]shape.Record, error) {
	if c.closed {
		return nil, fmt.Errorf("fetch from cursor %s: closed", c.cursor.Name())
	}
	if c.exhausted {
		return nil, nil
	}
	recs, err := c.fetch.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch from cursor %s: %w", c.cursor.Name(), err)
	}
	if len(recs) < c.batch {
		c.exhausted = true
	}
	return recs, nil
}

// Close closes the server-side cursor and releases its statements.
func (c *Cursor) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	_ = c.fetch.Close()
	return c.engine.closeCursor(ctx, c.cursor)
}

func (e *Engine) closeCursor(ctx context.Context, c *query.Cursor) error {
	p, err := e.PrepareStatement(ctx, c.Close())
	if err != nil {
		return err
	}
	defer p.Close()

	if _, err := p.Exec(ctx); err != nil {
		return fmt.Errorf("close cursor %s: %w", c.Name(), err)
	}
	e.logger.Debug("cursor closed", "cursor", c.Name())
	return nil
}
