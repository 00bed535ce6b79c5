package sqlite

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rmanoka/tygres/connector"
	"github.com/rmanoka/tygres/database"
	"github.com/rmanoka/tygres/dialect"
)

// Provider opens SQLite files through mattn/go-sqlite3. Config.Database is
// the file path; empty means a private in-memory database.
type Provider struct{}

func init() {
	connector.Register("sqlite", &Provider{})
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	path := cfg.Database
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// an in-memory database lives and dies with its connection
	maxOpen := cfg.Pool.MaxOpen
	if maxOpen <= 0 || path == ":memory:" {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	db.SetConnMaxIdleTime(cfg.Pool.MaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &connection{db: db, conn: database.NewSQLDB(db)}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.SQLite{}
}

func (p *Provider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}

type connection struct {
	db   *sql.DB
	conn *database.SQLDB
}

func (c *connection) Conn() database.Conn { return c.conn }

func (c *connection) Dialect() dialect.Dialect {
	return dialect.SQLite{}
}

func (c *connection) Health(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	s := c.db.Stats()
	return connector.ConnectionStats{
		MaxOpen:         s.MaxOpenConnections,
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
	}
}

func (c *connection) Close() error {
	return c.conn.Close()
}
