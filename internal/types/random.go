package types

import "math/rand/v2"

// RandFactory hands out a fresh random source per computation so no generator
// is ever shared between concurrent requests.
type RandFactory func() *rand.Rand

// NewRandFactory pins every generator to seed when seed is non-zero, making
// projections reproducible. A zero seed draws from runtime entropy.
func NewRandFactory(seed uint64) RandFactory {
	if seed != 0 {
		return func() *rand.Rand {
			return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		}
	}
	return func() *rand.Rand {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}
