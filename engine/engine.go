package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rmanoka/tygres/cache"
	"github.com/rmanoka/tygres/database"
	"github.com/rmanoka/tygres/dialect"
	"github.com/rmanoka/tygres/query"
	"github.com/rmanoka/tygres/utils"
)

const DefaultCacheSize = 256

var (
	ErrParamCount = errors.New("engine: server parameter count differs from statement")
	ErrNoRows     = errors.New("engine: no rows in result")
)

// Engine prepares finalized statements against a connection and runs them,
// binding arguments and decoding rows through the statement's shapes.
// It does not own the connection.
type Engine struct {
	conn      database.Conn
	dialect   dialect.Dialect
	logger    *slog.Logger
	cacheSize int
	cache     *cache.StatementCache[database.Handle]
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDialect sets the dialect builders are finalized in. Default: Postgres.
func WithDialect(d dialect.Dialect) Option {
	return func(e *Engine) { e.dialect = d }
}

// WithCacheSize bounds the number of prepared statements kept.
// Default: DefaultCacheSize.
func WithCacheSize(n int) Option {
	return func(e *Engine) { e.cacheSize = n }
}

func New(conn database.Conn, opts ...Option) (*Engine, error) {
	e := &Engine{
		conn:      conn,
		dialect:   dialect.Default,
		logger:    slog.Default(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}

	c, err := cache.NewStatementCache(e.cacheSize, e.release)
	if err != nil {
		return nil, fmt.Errorf("statement cache: %w", err)
	}
	e.cache = c
	return e, nil
}

func (e *Engine) Dialect() dialect.Dialect { return e.dialect }

// Close releases every cached statement. Prepared values still held are
// released when they are closed.
func (e *Engine) Close() error {
	return e.cache.Close()
}

// Prepare finalizes b in the engine's dialect and prepares it.
func (e *Engine) Prepare(ctx context.Context, b query.Builder) (*Prepared, error) {
	return e.PrepareStatement(ctx, b.BuildFor(e.dialect))
}

// PrepareStatement prepares an already finalized statement. Statements with
// the same text share one server-side handle.
func (e *Engine) PrepareStatement(ctx context.Context, stmt *query.Statement) (*Prepared, error) {
	key := utils.StatementKey(e.dialect.Name(), stmt.SQL())
	h, done, err := e.cache.Acquire(key, func() (database.Handle, error) {
		return e.prepare(ctx, stmt)
	})
	if err != nil {
		e.logger.Warn("prepare failed", "sql", stmt.SQL(), "error", err)
		return nil, err
	}
	return &Prepared{engine: e, stmt: stmt, handle: h, done: done}, nil
}

// PrepareAsync prepares b in the background.
func (e *Engine) PrepareAsync(ctx context.Context, b query.Builder) *Future[*Prepared] {
	stmt := b.BuildFor(e.dialect)
	return Go(ctx, func(ctx context.Context) (*Prepared, error) {
		return e.PrepareStatement(ctx, stmt)
	})
}

func (e *Engine) prepare(ctx context.Context, stmt *query.Statement) (database.Handle, error) {
	e.logger.Debug("preparing statement", "sql", stmt.SQL(), "placeholders", stmt.Placeholders())
	h, err := e.conn.Prepare(ctx, stmt.SQL())
	if err != nil {
		return nil, fmt.Errorf("prepare %q: %w", stmt.SQL(), err)
	}
	if n := h.NumInput(); n >= 0 && n != stmt.Placeholders() {
		e.release(h)
		return nil, fmt.Errorf("%w: server reports %d, statement has %d", ErrParamCount, n, stmt.Placeholders())
	}
	return h, nil
}

func (e *Engine) release(h database.Handle) {
	if err := e.conn.Release(context.Background(), h); err != nil {
		e.logger.Warn("release failed", "sql", h.SQL(), "error", err)
		return
	}
	e.logger.Debug("released statement", "sql", h.SQL())
}
