package database

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrClosed        = errors.New("database: connection closed")
	ErrForeignHandle = errors.New("database: handle prepared by another connection")
)

// Conn runs prepared statements against one backend. Implementations are
// safe for concurrent use unless stated otherwise.
type Conn interface {
	Prepare(ctx context.Context, sql string) (Handle, error)
	Exec(ctx context.Context, h Handle, args []any) (int64, error)
	Query(ctx context.Context, h Handle, args []any) (Rows, error)
	// Release frees the server-side resources of h. h must not be used after.
	Release(ctx context.Context, h Handle) error
	Ping(ctx context.Context) error
	Close() error
}

// Handle is a statement prepared by a Conn.
type Handle interface {
	SQL() string
	// NumInput is the parameter count reported by the server, or -1 when
	// the driver does not report it.
	NumInput() int
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

func handleOf[H Handle](h Handle) (H, error) {
	typed, ok := h.(H)
	if !ok {
		var zero H
		return zero, fmt.Errorf("%w: %T", ErrForeignHandle, h)
	}
	return typed, nil
}
