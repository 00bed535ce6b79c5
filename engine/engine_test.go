package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmanoka/tygres/query"
	"github.com/rmanoka/tygres/shape"
)

type accounts struct{}

var (
	acct      = query.NewTable[accounts]("accounts")
	acctID    = query.NewColumn[int64](acct, "id")
	acctOwner = query.NewColumn[string](acct, "owner")
)

func newEngine(t *testing.T, conn *fakeConn, opts ...Option) *Engine {
	t.Helper()
	e, err := New(conn, append([]Option{WithLogger(discard)}, opts...)...)
	require.NoError(t, err)
	return e
}

func TestPrepareSharesHandles(t *testing.T) {
	conn := newFakeConn()
	e := newEngine(t, conn)
	ctx := context.Background()

	p1, err := e.Prepare(ctx, acct.Select(acctID).Where(acctOwner.Eq()))
	require.NoError(t, err)
	p2, err := e.Prepare(ctx, acct.Select(acctID).Where(acctOwner.Eq()))
	require.NoError(t, err)

	prepared, _, _ := conn.snapshot()
	assert.Equal(t, []string{"SELECT accounts.id FROM accounts WHERE accounts.owner = $1"}, prepared)

	require.NoError(t, p1.Close())
	require.NoError(t, p2.Close())
	require.NoError(t, e.Close())

	_, released, _ := conn.snapshot()
	assert.Equal(t, prepared, released)
}

func TestPrepareEvictionReleasesAfterClose(t *testing.T) {
	conn := newFakeConn()
	e := newEngine(t, conn, WithCacheSize(1))
	ctx := context.Background()

	first, err := e.Prepare(ctx, acct.Select(acctID))
	require.NoError(t, err)
	second, err := e.Prepare(ctx, acct.Select(acctOwner))
	require.NoError(t, err)
	defer second.Close()

	_, released, _ := conn.snapshot()
	assert.Empty(t, released, "evicted statement is still held")

	require.NoError(t, first.Close())
	_, released, _ = conn.snapshot()
	assert.Equal(t, []string{"SELECT accounts.id FROM accounts"}, released)
}

func TestPrepareParamCountMismatch(t *testing.T) {
	conn := newFakeConn()
	conn.inputs = 3
	e := newEngine(t, conn)

	_, err := e.Prepare(context.Background(), acct.Delete().Where(acctID.Eq()))
	assert.ErrorIs(t, err, ErrParamCount)

	_, released, _ := conn.snapshot()
	assert.Equal(t, []string{"DELETE FROM accounts WHERE accounts.id = $1"}, released)
}

func TestNewRejectsBadCacheSize(t *testing.T) {
	_, err := New(newFakeConn(), WithCacheSize(0), WithLogger(discard))
	assert.Error(t, err)
}

func TestExecBindsThroughShape(t *testing.T) {
	conn := newFakeConn()
	e := newEngine(t, conn)
	ctx := context.Background()

	p, err := e.Prepare(ctx, acct.Update(acctOwner).Where(acctID.Eq()))
	require.NoError(t, err)
	defer p.Close()

	n, err := p.Exec(ctx, "ann", 7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, [][]any{{"ann", int64(7)}}, conn.args)

	_, err = p.Exec(ctx, 7, "ann")
	assert.ErrorIs(t, err, shape.ErrTypeMismatch)

	_, err = p.Exec(ctx, "ann")
	assert.ErrorIs(t, err, shape.ErrMissingArgument)

	_, _, execs := conn.snapshot()
	assert.Len(t, execs, 1, "bind failures never reach the connection")
}

func TestExecWrapsTransportError(t *testing.T) {
	conn := newFakeConn()
	conn.execErr = errors.New("connection reset")
	e := newEngine(t, conn)

	p, err := e.Prepare(context.Background(), acct.Delete())
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Exec(context.Background())
	require.ErrorIs(t, err, conn.execErr)
	assert.Equal(t, "exec: connection reset", err.Error())
}

func accountRows(n int) func(string, []any) (*fakeRows, error) {
	return func(string, []any) (*fakeRows, error) {
		rows := &fakeRows{cols: []string{"id", "owner"}}
		for i := 1; i <= n; i++ {
			rows.data = append(rows.data, []any{int64(i), strings.Repeat("x", i)})
		}
		return rows, nil
	}
}

func TestQueryDecodesRecords(t *testing.T) {
	conn := newFakeConn()
	conn.query = accountRows(2)
	e := newEngine(t, conn)
	ctx := context.Background()

	p, err := e.Prepare(ctx, acct.Select(acctID, acctOwner))
	require.NoError(t, err)
	defer p.Close()

	recs, err := p.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []shape.Record{{int64(1), "x"}, {int64(2), "xx"}}, recs)

	rec, err := p.One(ctx)
	require.NoError(t, err)
	var id int64
	var owner string
	require.NoError(t, rec.Scan(&id, &owner))
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "x", owner)
}

func TestOneWithoutRows(t *testing.T) {
	conn := newFakeConn()
	conn.query = accountRows(0)
	e := newEngine(t, conn)

	p, err := e.Prepare(context.Background(), acct.Select(acctID, acctOwner))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.One(context.Background())
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestQueryColumnCountMismatch(t *testing.T) {
	conn := newFakeConn()
	conn.query = accountRows(1)
	e := newEngine(t, conn)

	p, err := e.Prepare(context.Background(), acct.Select(acctID))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.All(context.Background())
	assert.ErrorIs(t, err, shape.ErrColumnCount)
}

func TestQueryOptionalSelection(t *testing.T) {
	conn := newFakeConn()
	conn.query = func(string, []any) (*fakeRows, error) {
		return &fakeRows{cols: []string{"id"}, data: [][]any{{int64(4)}}}, nil
	}
	e := newEngine(t, conn)

	p, err := e.Prepare(context.Background(), acct.Select(acctID, acctOwner.SelectIf(false)))
	require.NoError(t, err)
	defer p.Close()

	rec, err := p.One(context.Background())
	require.NoError(t, err)
	assert.Equal(t, shape.Record{int64(4), nil}, rec)

	_, ok, err := shape.Lookup[string](rec, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStream(t *testing.T) {
	conn := newFakeConn()
	conn.query = accountRows(3)
	e := newEngine(t, conn)
	ctx := context.Background()

	p, err := e.Prepare(ctx, acct.Select(acctID, acctOwner))
	require.NoError(t, err)
	defer p.Close()

	seq := p.Stream(ctx)
	_, _, execs := conn.snapshot()
	assert.Empty(t, execs, "stream is lazy")

	var ids []int64
	for rec, err := range seq {
		require.NoError(t, err)
		id, err := shape.Get[int64](rec, 0)
		require.NoError(t, err)
		ids = append(ids, id)
		if id == 2 {
			break
		}
	}
	assert.Equal(t, []int64{1, 2}, ids)

	// ranging again runs the statement again
	count := 0
	for _, err := range seq {
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestStreamReportsQueryError(t *testing.T) {
	conn := newFakeConn()
	e := newEngine(t, conn)

	p, err := e.Prepare(context.Background(), acct.Select(acctID))
	require.NoError(t, err)
	defer p.Close()

	var errs []error
	for rec, err := range p.Stream(context.Background()) {
		assert.Nil(t, rec)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "query: fake: no rows configured")
}

func TestAsync(t *testing.T) {
	conn := newFakeConn()
	conn.query = accountRows(2)
	e := newEngine(t, conn)
	ctx := context.Background()

	fp := e.PrepareAsync(ctx, acct.Select(acctID, acctOwner))
	p, err := fp.Wait(ctx)
	require.NoError(t, err)
	defer p.Close()

	fr := p.AllAsync(ctx)
	<-fr.Done()
	recs, ready, err := fr.Poll()
	require.True(t, ready)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	fe := p.ExecAsync(ctx)
	n, err := fe.Wait(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestFuturePollAndCancel(t *testing.T) {
	release := make(chan struct{})
	f := Go(context.Background(), func(context.Context) (int, error) {
		<-release
		return 42, nil
	})

	_, ready, err := f.Poll()
	assert.False(t, ready)
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}
