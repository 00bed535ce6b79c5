package utils

import "hash/fnv"

// StatementKey fingerprints a rendered statement for a given dialect, so the
// same text prepared against two backends never shares a cache slot.
func StatementKey(dialect, sql string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(dialect))
	h.Write([]byte{0})
	h.Write([]byte(sql))
	return h.Sum64()
}
