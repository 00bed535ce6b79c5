package dialect

import (
	"encoding/hex"
	"strconv"
	"strings"
)

type Postgres struct{}

func (Postgres) Name() string {
	return "postgres"
}

func (p Postgres) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (p Postgres) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (Postgres) RenderValue(v any) string {
	return renderLiteral(v, func(b []byte) string {
		return `'\x` + hex.EncodeToString(b) + "'::bytea"
	})
}

func (Postgres) RowConstructor() string {
	return "ROW "
}
