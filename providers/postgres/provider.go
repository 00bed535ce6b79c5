package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmanoka/tygres/connector"
	"github.com/rmanoka/tygres/database"
	"github.com/rmanoka/tygres/dialect"
)

type Provider struct{}

func init() {
	connector.Register("postgres", &Provider{})
}

// poolConfig applies the pool defaults and parses the DSN.
func (p *Provider) poolConfig(cfg connector.Config) (*pgxpool.Config, error) {
	dsn := connector.DSNFromConfig("postgres", cfg).WithPostgresDefaults()
	if err := dsn.Validate(); err != nil {
		return nil, err
	}

	if cfg.Pool.MaxOpen <= 0 {
		cfg.Pool.MaxOpen = 10
	}
	if cfg.Pool.MaxIdle < 0 {
		cfg.Pool.MaxIdle = 5
	}
	if cfg.Pool.MaxLifetime == 0 {
		cfg.Pool.MaxLifetime = time.Hour
	}
	if cfg.Pool.MaxIdleTime == 0 {
		cfg.Pool.MaxIdleTime = 30 * time.Minute
	}

	poolCfg, err := pgxpool.ParseConfig(dsn.Build())
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(min(cfg.Pool.MaxIdle, cfg.Pool.MaxOpen))
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime
	if cfg.Pool.HealthCheckFreq > 0 {
		poolCfg.HealthCheckPeriod = cfg.Pool.HealthCheckFreq
	}
	return poolCfg, nil
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	poolCfg, err := p.poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	return &connection{pool: pool, conn: database.NewPgxPool(pool)}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.Postgres{}
}

func (p *Provider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}

type connection struct {
	pool *pgxpool.Pool
	conn *database.PgxPool
}

func (c *connection) Conn() database.Conn { return c.conn }

func (c *connection) Dialect() dialect.Dialect {
	return dialect.Postgres{}
}

func (c *connection) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	s := c.pool.Stat()
	return connector.ConnectionStats{
		MaxOpen:         int(s.MaxConns()),
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

func (c *connection) Close() error {
	return c.conn.Close()
}

// Dial opens one dedicated session with named server-side statements.
// Cursors need this: they live in a single session and transaction, which a
// pool does not guarantee.
func Dial(ctx context.Context, cfg connector.Config) (*database.PgxConn, error) {
	dsn := connector.DSNFromConfig("postgres", cfg).WithPostgresDefaults()
	if err := dsn.Validate(); err != nil {
		return nil, err
	}
	connCfg, err := pgx.ParseConfig(dsn.Build())
	if err != nil {
		return nil, err
	}
	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", connCfg.Host, err)
	}
	return database.NewPgxConn(conn), nil
}
