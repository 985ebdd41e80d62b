package generator

import "math/rand/v2"

// Uniform draws integers uniformly from the closed interval [min, max].
// Not safe for concurrent use; owned by a single workload.State alongside
// its *rand.Rand (spec.md §5: "RNGs are thread-local and never contend").
type Uniform struct {
	rng      *rand.Rand
	min, max uint64
	last     uint64
}

// NewUniform returns a Uniform generator over the closed interval
// [min, max]. Panics if max < min, a configuration error the caller
// should have rejected earlier.
func NewUniform(rng *rand.Rand, min, max uint64) *Uniform {
	if max < min {
		panic("generator: NewUniform requires max >= min")
	}
	return &Uniform{rng: rng, min: min, max: max}
}

func (u *Uniform) Next() uint64 {
	span := u.max - u.min + 1
	u.last = u.min + u.rng.Uint64N(span)
	return u.last
}

func (u *Uniform) Last() uint64 { return u.last }
