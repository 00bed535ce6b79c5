package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The pgx adapters check handle ownership before touching the connection,
// so a nil connection is enough here.
func TestPgxAdaptersRejectForeignHandles(t *testing.T) {
	ctx := context.Background()
	for name, conn := range map[string]Conn{
		"pool": NewPgxPool(nil),
		"conn": NewPgxConn(nil),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := conn.Exec(ctx, otherHandle{}, nil)
			assert.ErrorIs(t, err, ErrForeignHandle)
			_, err = conn.Query(ctx, &sqlHandle{sql: "SELECT 1"}, nil)
			assert.ErrorIs(t, err, ErrForeignHandle)
			assert.ErrorIs(t, conn.Release(ctx, otherHandle{}), ErrForeignHandle)
		})
	}
}

func TestPgxHandle(t *testing.T) {
	h := &pgxHandle{sql: "SELECT $1", name: "tygres_x", params: 1}
	assert.Equal(t, "SELECT $1", h.SQL())
	assert.Equal(t, 1, h.NumInput())
}
