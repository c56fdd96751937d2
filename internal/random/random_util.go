// Package random provides small randomness helpers for building test
// fixtures: random byte blobs, hashes and headers for scenarios that don't
// care about specific values.
package random

import (
	"math/rand"
	"time"

	"github.com/lumichain/lumichain-go/pkg/block"
)

// String returns a random uppercase string of length n.
func String(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(Int(65, 90))
	}
	return string(b)
}

// Bytes returns a random byte slice of length n.
func Bytes(n int) []byte {
	b := make([]byte, n)
	Fill(b)
	return b
}

// Fill fills buf with random bytes.
func Fill(buf []byte) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	// Rand reader returns no errors.
	r.Read(buf)
}

// Int returns a random integer in [min,max).
func Int(min, max int) int {
	return min + rand.Intn(max-min)
}

// Hash32 returns a random block hash, useful for fixtures that need a
// distinct, non-zero hash without caring about its provenance.
func Hash32() block.Hash32 {
	var h block.Hash32
	Fill(h[:])
	return h
}

func init() {
	//nolint:staticcheck
	rand.Seed(time.Now().UTC().UnixNano())
}
