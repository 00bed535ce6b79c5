package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatementKeyStable(t *testing.T) {
	assert.Equal(t, StatementKey("postgres", "SELECT 1"), StatementKey("postgres", "SELECT 1"))
	assert.NotEqual(t, StatementKey("postgres", "SELECT 1"), StatementKey("postgres", "SELECT 2"))
}

func TestStatementKeySeparatesDialects(t *testing.T) {
	sql := "SELECT t.a FROM t"
	assert.NotEqual(t, StatementKey("postgres", sql), StatementKey("sqlite", sql))
	// the separator keeps ("ab", "c") and ("a", "bc") apart
	assert.NotEqual(t, StatementKey("ab", "c"), StatementKey("a", "bc"))
}
