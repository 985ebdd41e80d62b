package generator

import "math/rand/v2"

// FrontierReader is the minimal capability Latest and AcknowledgedLatest
// need from the key allocator: a lock-free, atomically-read current
// frontier, plus the fixed offset the key space starts at (insertstart,
// spec.md §6). keyspace.Allocator implements this.
type FrontierReader interface {
	LastCompletedKeynum() uint64
	Start() uint64
}

// Latest draws a Zipf-skewed offset back from the allocator's current
// frontier, so recently completed keynums are hot (spec.md §4.3). The
// frontier is re-read on every draw via FrontierReader, which is an
// atomic acquire-load on the allocator side — never cached here.
//
// Draws lie in [start, frontier], the frontier value included. window
// bounds how far back the hot region extends: 0 means the whole range is
// eligible (plain "latest"); a positive window restricts the draw to
// [frontier-window+1, frontier], which is what AcknowledgedLatest uses.
type Latest struct {
	zipfian  *Zipfian
	frontier FrontierReader
	window   uint64
	last     uint64
}

// NewLatest returns a Latest generator reading frontier on every draw,
// with an unrestricted (whole-prefix) hot window.
func NewLatest(rng *rand.Rand, frontier FrontierReader, theta float64) *Latest {
	return &Latest{
		zipfian:  NewZipfian(rng, 0, 1, theta),
		frontier: frontier,
	}
}

// NewAcknowledgedLatest returns a Latest generator whose hot window is
// restricted to the window keynums ending at the frontier, inclusive. Per
// spec.md §4.3, window is conventionally the allocator's batch size. The
// frontier keynum itself starts the next batch, whose insert may still be
// outstanding; this generator does not exclude it, and
// workload.State.NextTransactionKey rejects it.
func NewAcknowledgedLatest(rng *rand.Rand, frontier FrontierReader, window uint64, theta float64) *Latest {
	l := NewLatest(rng, frontier, theta)
	l.window = window
	return l
}

func (l *Latest) Next() uint64 {
	f := l.frontier.LastCompletedKeynum()
	offset := l.frontier.Start()

	// domain is the number of completed keynums relative to the key
	// space floor, not the raw frontier value (spec.md §4.3: "draws
	// zipf(frontier - offset)"). Using f+1 directly here would let draw
	// exceed f-offset whenever offset > 0, underflowing l.last below
	// the key space floor.
	domain := f - offset + 1
	if l.window > 0 && l.window < domain {
		domain = l.window
	}

	draw := l.zipfian.NextFromRange(domain)
	l.last = f - draw
	return l.last
}

func (l *Latest) Last() uint64 { return l.last }
