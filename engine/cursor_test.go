package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmanoka/tygres/shape"
)

func TestCursorFetchesInBatches(t *testing.T) {
	conn := newFakeConn()
	remaining := 5
	conn.query = func(sql string, _ []any) (*fakeRows, error) {
		require.True(t, strings.HasPrefix(sql, "FETCH FORWARD 2 FROM "), sql)
		rows := &fakeRows{cols: []string{"id", "owner"}}
		for i := 0; i < 2 && remaining > 0; i++ {
			rows.data = append(rows.data, []any{int64(remaining), "o"})
			remaining--
		}
		return rows, nil
	}
	e := newEngine(t, conn)
	ctx := context.Background()

	decl := acct.Select(acctID, acctOwner).Where(acctOwner.Eq()).DeclareCursor("owned").Build()
	cur, err := e.OpenCursor(ctx, decl, 2, "o")
	require.NoError(t, err)
	assert.Equal(t, "owned", cur.Name())

	var batches [][]shape.Record
	for {
		batch, err := cur.Fetch(ctx)
		require.NoError(t, err)
		if len(batch) == 0 {
			break
		}
		batches = append(batches, batch)
	}
	require.Len(t, batches, 3)
	assert.Len(t, batches[2], 1)

	require.NoError(t, cur.Close(ctx))
	require.NoError(t, cur.Close(ctx))

	_, _, execs := conn.snapshot()
	assert.Equal(t, []string{
		"DECLARE owned CURSOR FOR SELECT accounts.id, accounts.owner FROM accounts WHERE accounts.owner = $1",
		"FETCH FORWARD 2 FROM owned",
		"FETCH FORWARD 2 FROM owned",
		"FETCH FORWARD 2 FROM owned",
		"CLOSE owned",
	}, execs)
	assert.Equal(t, []any{"o"}, conn.args[0])

	_, err = cur.Fetch(ctx)
	assert.Error(t, err)
}
