package cache

import (
	"errors"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

var ErrClosed = errors.New("cache: statement cache closed")

// StatementCache keeps prepared handles keyed by statement fingerprint.
//
// A handle leaves the cache on eviction but is only released once every
// caller that acquired it has called its done func. Concurrent misses on the
// same key share a single prepare call.
type StatementCache[H any] struct {
	mu      sync.Mutex
	cache   *lru.Cache[uint64, *entry[H]]
	group   singleflight.Group
	release func(H)
	closed  bool
}

type entry[H any] struct {
	handle   H
	refs     int
	evicted  bool
	released bool
}

// NewStatementCache builds a cache holding at most size handles. release is
// called exactly once per handle, after it is evicted and no longer in use.
func NewStatementCache[H any](size int, release func(H)) (*StatementCache[H], error) {
	if release == nil {
		release = func(H) {}
	}
	c := &StatementCache[H]{release: release}
	cache, err := lru.NewWithEvict(size, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.cache = cache
	return c, nil
}

// Acquire returns the handle cached under key, calling prepare on a miss.
// done must be called once the handle is no longer used; it is safe to call
// more than once.
func (c *StatementCache[H]) Acquire(key uint64, prepare func() (H, error)) (H, func(), error) {
	var zero H
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return zero, nil, ErrClosed
		}
		if e, ok := c.cache.Get(key); ok {
			e.refs++
			c.mu.Unlock()
			return e.handle, c.done(e), nil
		}
		c.mu.Unlock()

		v, err, _ := c.group.Do(strconv.FormatUint(key, 16), func() (any, error) {
			// a flight that finished after our miss may have filled the slot;
			// Add on a present key would drop the old entry without eviction
			c.mu.Lock()
			if e, ok := c.cache.Peek(key); ok {
				c.mu.Unlock()
				return e, nil
			}
			c.mu.Unlock()

			h, err := prepare()
			if err != nil {
				return nil, err
			}
			e := &entry[H]{handle: h}
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.closed {
				e.evicted, e.released = true, true
				c.release(h)
				return nil, ErrClosed
			}
			if prev, ok := c.cache.Peek(key); ok {
				c.release(h)
				return prev, nil
			}
			c.cache.Add(key, e)
			return e, nil
		})
		if err != nil {
			return zero, nil, err
		}

		e := v.(*entry[H])
		c.mu.Lock()
		if e.released {
			// evicted between insertion and our reference; prepare again
			c.mu.Unlock()
			continue
		}
		e.refs++
		c.mu.Unlock()
		return e.handle, c.done(e), nil
	}
}

// Len reports the number of cached handles.
func (c *StatementCache[H]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Purge evicts every handle. Handles still in use are released when their
// last holder is done.
func (c *StatementCache[H]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
}

// Close purges the cache and rejects further acquisitions.
func (c *StatementCache[H]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cache.Purge()
	return nil
}

// onEvict runs under c.mu since every cache mutation happens with it held.
func (c *StatementCache[H]) onEvict(_ uint64, e *entry[H]) {
	e.evicted = true
	if e.refs == 0 && !e.released {
		e.released = true
		c.release(e.handle)
	}
}

func (c *StatementCache[H]) done(e *entry[H]) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			e.refs--
			if e.evicted && e.refs == 0 && !e.released {
				e.released = true
				c.release(e.handle)
			}
		})
	}
}
