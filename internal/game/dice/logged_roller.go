package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every battle draw leaves an audit trail.
// All draws are logged at debug level with the reason, the probability or
// bounds, and the value drawn.
//
// Roller itself satisfies Source, so it can be handed to code that only
// needs raw draws.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn forwards to the wrapped Source without logging.
func (r *Roller) Intn(n int) int { return r.src.Intn(n) }

// Float64 forwards to the wrapped Source without logging.
func (r *Roller) Float64() float64 { return r.src.Float64() }

// Chance draws against probability p and logs the outcome.
//
// Postcondition: Returns the same result as Chance(src, p) for the same draw.
func (r *Roller) Chance(reason string, p float64) bool {
	roll := r.src.Float64()
	ok := roll < p
	r.logger.Debug("chance draw",
		zap.String("reason", reason),
		zap.Float64("probability", p),
		zap.Float64("roll", roll),
		zap.Bool("success", ok),
	)
	return ok
}

// Uniform draws a value in [lo, hi) and logs it.
//
// Precondition: lo <= hi.
func (r *Roller) Uniform(reason string, lo, hi float64) float64 {
	v := Uniform(r.src, lo, hi)
	r.logger.Debug("uniform draw",
		zap.String("reason", reason),
		zap.Float64("lo", lo),
		zap.Float64("hi", hi),
		zap.Float64("value", v),
	)
	return v
}

// Pick draws an index in [0, n) and logs it.
//
// Precondition: n > 0.
func (r *Roller) Pick(reason string, n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("pick draw",
		zap.String("reason", reason),
		zap.Int("n", n),
		zap.Int("index", v),
	)
	return v
}
