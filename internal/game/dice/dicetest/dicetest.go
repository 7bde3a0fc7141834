// Package dicetest provides scripted dice.Source implementations for tests.
package dicetest

import "sync"

// Fixed returns the same values for every draw.
// Intn clamps Int into [0, n) so it is always a legal index.
type Fixed struct {
	Int   int
	Float float64
}

// Intn returns f.Int clamped to [0, n).
func (f Fixed) Intn(n int) int {
	if f.Int < 0 {
		return 0
	}
	if f.Int >= n {
		return n - 1
	}
	return f.Int
}

// Float64 returns f.Float.
func (f Fixed) Float64() float64 { return f.Float }

// Script replays queued draws in order. When a queue runs dry the last value
// of that queue is repeated; an empty queue yields zero.
//
// Script is safe for concurrent use.
type Script struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	lastF  float64
	lastI  int
}

// NewScript creates a Script that replays floats for Float64 and ints for Intn.
func NewScript(floats []float64, ints ...int) *Script {
	return &Script{floats: floats, ints: ints}
}

// Float64 returns the next queued float.
func (s *Script) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) > 0 {
		s.lastF = s.floats[0]
		s.floats = s.floats[1:]
	}
	return s.lastF
}

// Intn returns the next queued int, clamped to [0, n).
func (s *Script) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) > 0 {
		s.lastI = s.ints[0]
		s.ints = s.ints[1:]
	}
	v := s.lastI
	if v < 0 {
		v = 0
	}
	if v >= n {
		v = n - 1
	}
	return v
}
