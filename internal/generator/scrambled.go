package generator

import (
	"math/rand/v2"

	"github.com/dreamware/ycsbgen/internal/keyfmt"
)

// scrambledDomain is the fixed, oversized domain the inner Zipfian draws
// from before hashing. It is large enough relative to any realistic
// record count that Hash64's modulo reduction does not introduce visible
// periodicity.
const scrambledDomain = 10_000_000_000

// scrambledZetaN is zeta(scrambledDomain, DefaultZipfianConstant),
// precomputed so that construction does not sum ten billion terms.
const scrambledZetaN = 26.46902820178302

// ScrambledZipfian produces a Zipf-skewed draw over [min, max] whose hot
// keynums are scattered across the space (via keyfmt.Hash64) rather than
// clustered at the low end. Used when the key space is stored in ordered
// form but access skew should not correlate with key locality (spec.md
// §4.3). Not safe for concurrent use.
type ScrambledZipfian struct {
	inner      *Zipfian
	min, items uint64
	last       uint64
}

// NewScrambledZipfian returns a ScrambledZipfian over the closed interval
// [min, max] with skew parameter theta. For theta ==
// DefaultZipfianConstant the inner zeta is the precomputed scrambledZetaN;
// any other theta sums it term by term over scrambledDomain.
func NewScrambledZipfian(rng *rand.Rand, min, max uint64, theta float64) *ScrambledZipfian {
	var inner *Zipfian
	if theta == DefaultZipfianConstant {
		inner = &Zipfian{rng: rng, theta: theta, zeta2: zeta(0, 2, theta, 0), zetaN: scrambledZetaN, countForZeta: scrambledDomain}
		inner.recompute(scrambledDomain)
	} else {
		inner = NewZipfian(rng, 0, scrambledDomain-1, theta)
	}
	return &ScrambledZipfian{
		inner: inner,
		min:   min,
		items: max - min + 1,
	}
}

func (s *ScrambledZipfian) Next() uint64 {
	draw := s.inner.Next()
	s.last = s.min + keyfmt.Hash64(draw)%s.items
	return s.last
}

func (s *ScrambledZipfian) Last() uint64 { return s.last }
