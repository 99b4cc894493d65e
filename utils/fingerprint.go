package utils

import "hash/fnv"

func U64ToBytes(u uint64) []byte {
	return []byte{
		byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
		byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u),
	}
}

// FingerprintString hashes a call text into a statement cache key.
func FingerprintString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// StatementKey mixes the dialect name into the call text fingerprint so the
// same body rendered for two drivers never shares a prepared statement.
func StatementKey(dialect, callText string) uint64 {
	return Mix64(U64(dialect), FingerprintString(callText))
}
