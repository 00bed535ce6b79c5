package dialect

import "fmt"

// Dialect covers the few places where rendered statements differ between
// servers. Every supported dialect uses positional placeholders numbered in
// ascending first-use order.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	Placeholder(n int) string
	// RenderValue renders a literal baked into the statement text.
	RenderValue(v any) string
	// RowConstructor is the keyword, if any, written before the value tuple
	// of a multi-column UPDATE assignment.
	RowConstructor() string
}

// Default is the dialect statements are rendered in unless another is chosen.
var Default Dialect = Postgres{}

// ByName returns the dialect for a name as used in configs and flags:
// "postgres", or "sqlite" / "sqlite3".
func ByName(name string) (Dialect, error) {
	switch name {
	case Postgres{}.Name():
		return Postgres{}, nil
	case "sqlite", SQLite{}.Name():
		return SQLite{}, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}
