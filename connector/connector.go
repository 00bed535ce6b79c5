package connector

import (
	"context"

	"github.com/rmanoka/tygres/database"
	"github.com/rmanoka/tygres/dialect"
)

// Connection is an open backend: the statement runner plus the dialect its
// statements must be rendered in.
type Connection interface {
	Conn() database.Conn
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

type Connector interface {
	Connect(ctx context.Context) (Connection, error)
	Close() error
}
