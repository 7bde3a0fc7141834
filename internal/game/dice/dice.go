// Package dice provides the randomness abstraction and the draw helpers used
// by the Solace battle engine.
package dice

// Source is the randomness provider for every battle draw.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// Chance draws once from src and reports whether the draw landed under p.
// A probability <= 0 never succeeds and a probability >= 1 always succeeds,
// but the draw is consumed either way so scripted sources stay aligned.
//
// Precondition: src must be non-nil.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Uniform returns a value in [lo, hi) drawn from src.
//
// Precondition: src must be non-nil; lo <= hi.
// Postcondition: lo <= result < hi, or result == lo when lo == hi.
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Pick returns a uniformly drawn index in [0, n).
//
// Precondition: src must be non-nil; n > 0.
func Pick(src Source, n int) int {
	return src.Intn(n)
}
