package dialect

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// SQLite accepts "$N" parameters and binds them in order of first
// appearance, which matches the numbering the builders emit.
type SQLite struct{}

func (SQLite) Name() string {
	return "sqlite3"
}

func (SQLite) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (SQLite) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (SQLite) RenderValue(v any) string {
	return renderLiteral(v, func(b []byte) string {
		return "X'" + hex.EncodeToString(b) + "'"
	})
}

// SQLite has no ROW keyword; a parenthesized tuple is a row value.
func (SQLite) RowConstructor() string {
	return ""
}
