package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandSource provides random number generation for automated-bidder
// hesitation. This interface enables dependency injection so tests can force
// deterministic behavior; *math/rand.Rand satisfies it directly.
type RandSource interface {
	// Intn returns a random integer in [0, n). Panics if n <= 0.
	Intn(n int) int
}

// cryptoRandSource wraps crypto/rand for production use
type cryptoRandSource struct{}

// Intn returns a cryptographically secure random integer in [0, n).
// Panics if n <= 0 (programmer error).
func (cryptoRandSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("cryptoRandSource.Intn: n must be positive, got %d", n))
	}
	// rand.Int does not error when using rand.Reader
	// https://pkg.go.dev/crypto/rand#Int
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(nBig.Int64())
}

// DefaultRandSource is the crypto-backed random source used when callers do
// not supply their own.
var DefaultRandSource RandSource = cryptoRandSource{}
