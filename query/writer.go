package query

import (
	"sync"

	"github.com/rmanoka/tygres/dialect"
)

var writerPool = sync.Pool{
	New: func() any {
		return &writer{buf: make([]byte, 0, 256)}
	},
}

// writer accumulates statement text. It holds no placeholder counter:
// every rendering call takes the next free index and returns the new one.
type writer struct {
	buf     []byte
	dialect dialect.Dialect
	// depth counts the nested statements currently being rendered.
	depth int
}

func newWriter(d dialect.Dialect) *writer {
	w := writerPool.Get().(*writer)
	w.buf = w.buf[:0]
	w.dialect = d
	w.depth = 0
	return w
}

func (w *writer) release() {
	w.dialect = nil
	writerPool.Put(w)
}

func (w *writer) write(s string) {
	w.buf = append(w.buf, s...)
}

// placeholder writes the marker for idx and returns the next free index.
func (w *writer) placeholder(idx int) int {
	w.write(w.dialect.Placeholder(idx))
	return idx + 1
}

func (w *writer) len() int {
	return len(w.buf)
}

func (w *writer) truncate(n int) {
	w.buf = w.buf[:n]
}

func (w *writer) String() string {
	return string(w.buf)
}
