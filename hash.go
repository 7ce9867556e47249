package main

import (
	"github.com/cespare/xxhash/v2"
)

// Generates a 64 bit fingerprint of a key/value pair
func GeneratePairHash(key, value string) uint64 {
	d := xxhash.New()
	d.WriteString(key)
	d.Write([]byte{0})
	d.WriteString(value)
	return d.Sum64()
}

// Combines pair fingerprints so the result does not depend on visiting order
func CombinePairHashes(acc, h uint64) uint64 {
	return acc ^ h
}
