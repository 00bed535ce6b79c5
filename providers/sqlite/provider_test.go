package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmanoka/tygres/connector"
	"github.com/rmanoka/tygres/database"
	"github.com/rmanoka/tygres/dialect"
	"github.com/rmanoka/tygres/engine"
	"github.com/rmanoka/tygres/query"
	"github.com/rmanoka/tygres/shape"
)

type notes struct{}

var (
	note     = query.NewTable[notes]("notes")
	noteID   = query.NewColumn[int64](note, "id")
	noteBody = query.NewColumn[string](note, "body")
)

func TestOpenInMemory(t *testing.T) {
	ctx := context.Background()
	conn, err := connector.Open(ctx, connector.Config{Driver: "sqlite"})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, dialect.SQLite{}, conn.Dialect())
	require.NoError(t, conn.Health(ctx))
	assert.Equal(t, 1, conn.Stats().MaxOpen)
}

func TestEngineOverFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")
	conn, err := connector.Open(ctx, connector.Config{
		Driver:   "sqlite",
		Database: path,
		Pool:     connector.PoolConfig{MaxOpen: 2},
	})
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Conn().(*database.SQLDB).DB().ExecContext(ctx, "CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL)")
	require.NoError(t, err)

	e, err := engine.New(conn.Conn(),
		engine.WithDialect(conn.Dialect()),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	defer e.Close()

	ins, err := e.Prepare(ctx, note.Insert(noteBody).Returning(noteID))
	require.NoError(t, err)
	defer ins.Close()

	rec, err := ins.One(ctx, "first")
	require.NoError(t, err)
	id, err := shape.Get[int64](rec, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	sel, err := e.Prepare(ctx, note.Select(noteBody).Where(noteID.Eq()))
	require.NoError(t, err)
	defer sel.Close()

	rec, err = sel.One(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, shape.Record{"first"}, rec)
	assert.Equal(t, 2, conn.Stats().MaxOpen)
}
