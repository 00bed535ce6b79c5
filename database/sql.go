package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
)

// SQLDB implements Conn for *sql.DB, backed by *sql.Stmt handles.
type SQLDB struct {
	db     *sql.DB
	closed atomic.Bool
}

func NewSQLDB(db *sql.DB) *SQLDB {
	return &SQLDB{db: db}
}

// DB returns the underlying pool.
func (s *SQLDB) DB() *sql.DB { return s.db }

func (s *SQLDB) Prepare(ctx context.Context, query string) (Handle, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	return &sqlHandle{sql: query, stmt: stmt}, nil
}

func (s *SQLDB) Exec(ctx context.Context, h Handle, args []any) (int64, error) {
	sh, err := handleOf[*sqlHandle](h)
	if err != nil {
		return 0, err
	}
	if s.closed.Load() {
		return 0, ErrClosed
	}
	res, err := sh.stmt.ExecContext(ctx, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLDB) Query(ctx context.Context, h Handle, args []any) (Rows, error) {
	sh, err := handleOf[*sqlHandle](h)
	if err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := sh.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	return &SQLRows{rows: rows}, nil
}

func (s *SQLDB) Release(_ context.Context, h Handle) error {
	sh, err := handleOf[*sqlHandle](h)
	if err != nil {
		return err
	}
	return sh.stmt.Close()
}

func (s *SQLDB) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.PingContext(ctx)
}

func (s *SQLDB) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

type sqlHandle struct {
	sql  string
	stmt *sql.Stmt
}

func (h *sqlHandle) SQL() string { return h.sql }

// NumInput is unknown: database/sql keeps the driver's count to itself.
func (h *sqlHandle) NumInput() int { return -1 }

// SQLRows implements Rows for *sql.Rows.
type SQLRows struct {
	rows *sql.Rows
}

func (s *SQLRows) Next() bool                 { return s.rows.Next() }
func (s *SQLRows) Scan(dest ...any) error     { return s.rows.Scan(dest...) }
func (s *SQLRows) Columns() ([]string, error) { return s.rows.Columns() }
func (s *SQLRows) Err() error                 { return s.rows.Err() }
func (s *SQLRows) Close() error               { return s.rows.Close() }

var (
	_ Conn = (*SQLDB)(nil)
	_ Rows = (*SQLRows)(nil)
)
