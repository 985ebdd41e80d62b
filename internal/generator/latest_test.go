package generator

import "testing"

type fixedFrontier uint64

func (f fixedFrontier) LastCompletedKeynum() uint64 { return uint64(f) }
func (f fixedFrontier) Start() uint64               { return 0 }

func TestLatestNeverExceedsFrontier(t *testing.T) {
	rng := newTestRand(5)
	l := NewLatest(rng, fixedFrontier(999), DefaultZipfianConstant)
	for i := 0; i < 5000; i++ {
		v := l.Next()
		if v > 999 {
			t.Fatalf("draw %d exceeds frontier 999", v)
		}
	}
}

func TestLatestIsHotNearFrontier(t *testing.T) {
	rng := newTestRand(6)
	l := NewLatest(rng, fixedFrontier(999), DefaultZipfianConstant)

	near, far := 0, 0
	for i := 0; i < 50000; i++ {
		v := l.Next()
		if v >= 900 {
			near++
		} else if v < 100 {
			far++
		}
	}
	if near < far*5 {
		t.Fatalf("expected latest draws concentrated near the frontier: near=%d far=%d", near, far)
	}
}

func TestAcknowledgedLatestRespectsWindow(t *testing.T) {
	rng := newTestRand(7)
	const window = 50
	l := NewAcknowledgedLatest(rng, fixedFrontier(1000), window, DefaultZipfianConstant)
	for i := 0; i < 5000; i++ {
		v := l.Next()
		if v < 1000-window+1 || v > 1000 {
			t.Fatalf("draw %d outside acknowledged window [%d, 1000]", v, 1000-window+1)
		}
	}
}

func TestLatestTracksMovingFrontier(t *testing.T) {
	rng := newTestRand(8)
	frontier := new(movingFrontier)
	l := NewLatest(rng, frontier, DefaultZipfianConstant)

	for f := uint64(0); f < 2000; f += 100 {
		frontier.set(f)
		for i := 0; i < 20; i++ {
			if v := l.Next(); v > f {
				t.Fatalf("draw %d exceeds current frontier %d", v, f)
			}
		}
	}
}

type movingFrontier struct {
	v uint64
}

func (m *movingFrontier) set(v uint64)                { m.v = v }
func (m *movingFrontier) LastCompletedKeynum() uint64 { return m.v }
func (m *movingFrontier) Start() uint64               { return 0 }

// offsetFrontier is a FrontierReader with a nonzero insertstart, exercising
// the case fixedFrontier/movingFrontier never do.
type offsetFrontier struct {
	start, frontier uint64
}

func (o offsetFrontier) LastCompletedKeynum() uint64 { return o.frontier }
func (o offsetFrontier) Start() uint64               { return o.start }

// TestLatestRespectsNonzeroStart is the regression case for draws
// underflowing below the key space floor when insertstart > 0: every draw
// must stay within [start, frontier], never wrapping below start.
func TestLatestRespectsNonzeroStart(t *testing.T) {
	rng := newTestRand(9)
	const start = 1_000_000
	l := NewLatest(rng, offsetFrontier{start: start, frontier: start + 10}, DefaultZipfianConstant)
	for i := 0; i < 5000; i++ {
		v := l.Next()
		if v < start || v > start+10 {
			t.Fatalf("draw %d outside key space [%d, %d]", v, start, start+10)
		}
	}
}

// TestAcknowledgedLatestRespectsNonzeroStartAndWindow combines both: a
// positive insertstart and a restricted window, right after enough of the
// phase has run to fill the window but not much more.
func TestAcknowledgedLatestRespectsNonzeroStartAndWindow(t *testing.T) {
	rng := newTestRand(10)
	const start = 500_000
	const window = 50
	l := NewAcknowledgedLatest(rng, offsetFrontier{start: start, frontier: start + 60}, window, DefaultZipfianConstant)
	for i := 0; i < 5000; i++ {
		v := l.Next()
		if v < start || v > start+60 {
			t.Fatalf("draw %d outside key space [%d, %d]", v, start, start+60)
		}
	}
}
