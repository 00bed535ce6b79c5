// Package tygres builds typed SQL statements and runs them through a cached
// statement engine.
//
// Statements are described with the query package and finalized for a
// dialect; Open wires a configured backend to an engine that prepares them:
//
//	db, err := tygres.Open(ctx, cfg)
//	...
//	p, err := db.Prepare(ctx, users.Select(userName).Where(userID.Eq()))
//	rec, err := p.One(ctx, 42)
package tygres

import (
	"context"
	"errors"
	"fmt"

	"github.com/rmanoka/tygres/connector"
	"github.com/rmanoka/tygres/engine"

	_ "github.com/rmanoka/tygres/providers/postgres"
	_ "github.com/rmanoka/tygres/providers/sqlite"
)

// DB is an engine bound to the connection it was opened on. Closing it
// releases the cached statements and then the connection.
type DB struct {
	*engine.Engine
	conn connector.Connection
}

// Open connects to the backend named by cfg.Driver and starts an engine
// rendering in that backend's dialect. opts are applied after the dialect
// and cache size taken from cfg.
func Open(ctx context.Context, cfg connector.Config, opts ...engine.Option) (*DB, error) {
	conn, err := connector.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	base := []engine.Option{engine.WithDialect(conn.Dialect())}
	if cfg.CacheSize > 0 {
		base = append(base, engine.WithCacheSize(cfg.CacheSize))
	}
	e, err := engine.New(conn.Conn(), append(base, opts...)...)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}
	return &DB{Engine: e, conn: conn}, nil
}

// OpenFile loads a YAML config from path and opens it.
func OpenFile(ctx context.Context, path string, opts ...engine.Option) (*DB, error) {
	cfg, err := connector.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return Open(ctx, cfg, opts...)
}

func (db *DB) Connection() connector.Connection { return db.conn }

func (db *DB) Close() error {
	return errors.Join(db.Engine.Close(), db.conn.Close())
}
