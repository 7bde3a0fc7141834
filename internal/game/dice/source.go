package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// cryptoSource draws from the operating system's CSPRNG via crypto/rand.
type cryptoSource struct {
	rng *rand.Rand
}

// NewCryptoSource returns a Source backed by crypto/rand. It is the source
// used for real play.
//
// Postcondition: Every value returned by Intn is in [0, n); Float64 is in [0, 1).
func NewCryptoSource() Source {
	return &cryptoSource{rng: rand.New(cryptoUint64{})}
}

// Intn returns a uniformly distributed int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" otherwise.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return c.rng.IntN(n)
}

// Float64 returns a uniformly distributed float in [0.0, 1.0).
func (c *cryptoSource) Float64() float64 { return c.rng.Float64() }

// cryptoUint64 adapts crypto/rand to rand.Source. crypto/rand.Read never
// returns an error on supported platforms.
type cryptoUint64 struct{}

func (cryptoUint64) Uint64() uint64 {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// seededSource is a deterministic PCG stream guarded by a mutex.
type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a deterministic Source: two sources with the same
// seed produce the same draws in the same order. Used to replay simulations.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a value in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" otherwise.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Float64 returns a value in [0.0, 1.0).
func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
