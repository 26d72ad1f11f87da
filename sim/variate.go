package sim

import "math/rand"

// RandomVariateSource draws the sojourn times of a two-state continuous-time
// Markov traffic process. Both draws are Exponential with mean 1/λ.
type RandomVariateSource struct {
	lambdaOn  float64
	lambdaOff float64
	rng       *rand.Rand
}

// NewRandomVariateSource binds the ON and OFF rates to an RNG stream.
func NewRandomVariateSource(lambdaOn, lambdaOff float64, rng *rand.Rand) *RandomVariateSource {
	return &RandomVariateSource{lambdaOn: lambdaOn, lambdaOff: lambdaOff, rng: rng}
}

// DrawOn returns the length of the next ON period.
func (s *RandomVariateSource) DrawOn() float64 {
	return s.rng.ExpFloat64() / s.lambdaOn
}

// DrawOff returns the length of the next OFF period.
func (s *RandomVariateSource) DrawOff() float64 {
	return s.rng.ExpFloat64() / s.lambdaOff
}
