package connector

import "fmt"

// ConnectionStats represents database connection pool statistics.
type ConnectionStats struct {
	MaxOpen         int
	OpenConnections int
	InUse           int
	Idle            int
}

func (s ConnectionStats) String() string {
	return fmt.Sprintf("open=%d/%d in_use=%d idle=%d", s.OpenConnections, s.MaxOpen, s.InUse, s.Idle)
}
