package database

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// PgxPool implements Conn for a pgxpool.Pool.
//
// Prepare validates the statement on one pooled connection. Execution goes
// through the pool, where pgx prepares and caches the statement per
// connection on first use.
type PgxPool struct {
	pool   *pgxpool.Pool
	closed atomic.Bool
}

func NewPgxPool(pool *pgxpool.Pool) *PgxPool {
	return &PgxPool{pool: pool}
}

// Pool returns the underlying pool.
func (p *PgxPool) Pool() *pgxpool.Pool { return p.pool }

func (p *PgxPool) Prepare(ctx context.Context, sql string) (Handle, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	sd, err := conn.Conn().Prepare(ctx, sql, sql)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	return &pgxHandle{sql: sql, name: sql, params: len(sd.ParamOIDs)}, nil
}

func (p *PgxPool) Exec(ctx context.Context, h Handle, args []any) (int64, error) {
	ph, err := handleOf[*pgxHandle](h)
	if err != nil {
		return 0, err
	}
	if p.closed.Load() {
		return 0, ErrClosed
	}
	tag, err := p.pool.Exec(ctx, ph.name, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p *PgxPool) Query(ctx context.Context, h Handle, args []any) (Rows, error) {
	ph, err := handleOf[*pgxHandle](h)
	if err != nil {
		return nil, err
	}
	if p.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := p.pool.Query(ctx, ph.name, args...)
	if err != nil {
		return nil, err
	}
	return &PgxRows{rows: rows}, nil
}

// Release is a no-op: pooled connections own their statement caches.
func (p *PgxPool) Release(_ context.Context, h Handle) error {
	_, err := handleOf[*pgxHandle](h)
	return err
}

func (p *PgxPool) Ping(ctx context.Context) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return p.pool.Ping(ctx)
}

func (p *PgxPool) Close() error {
	if p.closed.CompareAndSwap(false, true) {
		p.pool.Close()
	}
	return nil
}

// PgxConn implements Conn for a single pgx connection using named
// server-side statements. Like pgx.Conn it is not safe for concurrent use.
type PgxConn struct {
	conn   *pgx.Conn
	closed atomic.Bool
}

func NewPgxConn(conn *pgx.Conn) *PgxConn {
	return &PgxConn{conn: conn}
}

func (c *PgxConn) Prepare(ctx context.Context, sql string) (Handle, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	name := statementName()
	sd, err := c.conn.Prepare(ctx, name, sql)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	return &pgxHandle{sql: sql, name: name, params: len(sd.ParamOIDs)}, nil
}

func (c *PgxConn) Exec(ctx context.Context, h Handle, args []any) (int64, error) {
	ph, err := handleOf[*pgxHandle](h)
	if err != nil {
		return 0, err
	}
	if c.closed.Load() {
		return 0, ErrClosed
	}
	tag, err := c.conn.Exec(ctx, ph.name, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *PgxConn) Query(ctx context.Context, h Handle, args []any) (Rows, error) {
	ph, err := handleOf[*pgxHandle](h)
	if err != nil {
		return nil, err
	}
	if c.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := c.conn.Query(ctx, ph.name, args...)
	if err != nil {
		return nil, err
	}
	return &PgxRows{rows: rows}, nil
}

func (c *PgxConn) Release(ctx context.Context, h Handle) error {
	ph, err := handleOf[*pgxHandle](h)
	if err != nil {
		return err
	}
	if c.closed.Load() {
		return nil
	}
	return c.conn.Deallocate(ctx, ph.name)
}

func (c *PgxConn) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.conn.Ping(ctx)
}

func (c *PgxConn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.conn.Close(context.Background())
}

// statementName returns a fresh name for a server-side statement. ULIDs sort
// by creation time, which keeps pg_prepared_statements readable.
func statementName() string {
	return "tygres_" + strings.ToLower(ulid.Make().String())
}

type pgxHandle struct {
	sql    string
	name   string
	params int
}

func (h *pgxHandle) SQL() string   { return h.sql }
func (h *pgxHandle) NumInput() int { return h.params }

// PgxRows implements Rows for pgx.Rows.
type PgxRows struct {
	rows              pgx.Rows
	fieldDescriptions []pgconn.FieldDescription
}

func (p *PgxRows) Next() bool             { return p.rows.Next() }
func (p *PgxRows) Scan(dest ...any) error { return p.rows.Scan(dest...) }
func (p *PgxRows) Err() error             { return p.rows.Err() }

func (p *PgxRows) Close() error {
	p.rows.Close()
	return p.rows.Err()
}

// Columns returns the column names.
func (p *PgxRows) Columns() ([]string, error) {
	if p.fieldDescriptions == nil {
		p.fieldDescriptions = p.rows.FieldDescriptions()
	}
	columns := make([]string, len(p.fieldDescriptions))
	for i, fd := range p.fieldDescriptions {
		columns[i] = fd.Name
	}
	return columns, nil
}

var (
	_ Conn = (*PgxPool)(nil)
	_ Conn = (*PgxConn)(nil)
	_ Rows = (*PgxRows)(nil)
)
