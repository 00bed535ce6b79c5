package postgres

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/rmanoka/tygres/connector"
	"github.com/rmanoka/tygres/database"
	"github.com/rmanoka/tygres/dialect"
)

// SQLProvider serves Postgres through database/sql on top of a pgx pool.
// Statements become *sql.Stmt handles, so the server's parameter count is not
// checked at prepare time.
type SQLProvider struct {
	Provider
}

func init() {
	connector.Register("postgres-sql", &SQLProvider{})
}

func (p *SQLProvider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	poolCfg, err := p.poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	db := stdlib.OpenDBFromPool(pool)
	return &sqlConnection{pool: pool, db: db, conn: database.NewSQLDB(db)}, nil
}

type sqlConnection struct {
	pool *pgxpool.Pool
	db   *sql.DB
	conn *database.SQLDB
}

func (c *sqlConnection) Conn() database.Conn { return c.conn }

func (c *sqlConnection) Dialect() dialect.Dialect {
	return dialect.Postgres{}
}

func (c *sqlConnection) Health(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Stats reports the pool, since database/sql keeps no idle connections of
// its own here.
func (c *sqlConnection) Stats() connector.ConnectionStats {
	s := c.pool.Stat()
	return connector.ConnectionStats{
		MaxOpen:         int(s.MaxConns()),
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

func (c *sqlConnection) Close() error {
	err := c.conn.Close()
	c.pool.Close()
	return err
}
