package keyspace

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Batch is a contiguous, disjoint range of keynums handed to one caller by
// NextBatch: (Index, FirstKeynum, Size) with
// FirstKeynum = start + Index*Size (spec.md §3).
type Batch struct {
	Index       uint64
	FirstKeynum uint64
	Size        uint64
}

// Allocator is the batched counter allocator: it hands out disjoint
// batches of insert keynums to worker goroutines and maintains a
// monotone completion frontier — the largest keynum below which every
// batch is completed — without requiring batches to complete in the
// order they were issued. See doc.go for the full model.
//
// An Allocator is created once per load phase and shared (read-write) by
// every load worker for that phase's lifetime; it holds no reference to
// the phase's total record count, since that bound is the workload
// layer's concern (internal/workload), not the allocator's.
type Allocator struct {
	start     uint64
	batchSize uint64

	mu          sync.Mutex
	issued      uint64
	completed   uint64
	outstanding map[uint64]struct{}

	frontier atomic.Uint64

	// log receives an event immediately before any invariant violation
	// aborts the process, so tests and operators can see what precondition
	// was broken. Nil-safe: the zero value is zerolog's disabled logger.
	log zerolog.Logger
}

// New returns an Allocator over keynums starting at start, issuing
// batches of batchSize keynums at a time. Panics if batchSize is zero.
func New(start, batchSize uint64) *Allocator {
	if batchSize == 0 {
		panic("keyspace: batchSize must be > 0")
	}
	a := &Allocator{
		start:       start,
		batchSize:   batchSize,
		outstanding: make(map[uint64]struct{}),
	}
	a.frontier.Store(start)
	return a
}

// WithLogger attaches a logger used to record the event immediately
// preceding a precondition-violation abort. Returns the receiver for
// chaining.
func (a *Allocator) WithLogger(log zerolog.Logger) *Allocator {
	a.log = log
	return a
}

// Start returns the first keynum in the allocator's key space.
func (a *Allocator) Start() uint64 { return a.start }

// BatchSize returns the fixed batch size this allocator issues.
func (a *Allocator) BatchSize() uint64 { return a.batchSize }

// NextBatch hands out the next sequential batch under lock: records the
// next unissued index, marks it outstanding, and returns its keynum
// range. Batches are always issued in ascending index order, but the
// caller is free to complete them in any order (spec.md §5).
func (a *Allocator) NextBatch() Batch {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.issued
	if _, dup := a.outstanding[i]; dup {
		a.abortLocked("double-issue of batch %d", i)
	}
	a.outstanding[i] = struct{}{}
	a.issued++

	return Batch{Index: i, FirstKeynum: a.start + i*a.batchSize, Size: a.batchSize}
}

// MarkCompleted announces that the batch starting at firstKeynum (as
// returned by a prior NextBatch) has been fully produced. It removes the
// batch from the outstanding set, then advances completed across any
// run of now-non-outstanding indices, and publishes the new frontier to
// the atomic mirror with release-equivalent ordering (atomic.Uint64.Store
// provides sequentially consistent ordering in Go, which subsumes the
// release ordering the spec calls for).
//
// Preconditions — violating any of these is a programmer error and
// aborts the process (spec.md §7 point 1):
//   - firstKeynum must be aligned to start + k*batchSize for some k
//   - the corresponding batch index must currently be outstanding
//     (i.e. issued, and not already completed)
func (a *Allocator) MarkCompleted(firstKeynum uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if firstKeynum < a.start || (firstKeynum-a.start)%a.batchSize != 0 {
		a.abortLocked("misaligned firstKeynum %d (start=%d batchSize=%d)", firstKeynum, a.start, a.batchSize)
	}
	i := (firstKeynum - a.start) / a.batchSize

	if _, ok := a.outstanding[i]; !ok {
		a.abortLocked("batch %d completed but not outstanding (double completion, or never issued)", i)
	}
	delete(a.outstanding, i)

	for a.completed < a.issued {
		if _, stillOutstanding := a.outstanding[a.completed]; stillOutstanding {
			break
		}
		a.completed++
	}

	newFrontier := a.start + a.completed*a.batchSize
	if newFrontier < a.frontier.Load() {
		a.abortLocked("frontier would decrease from %d to %d", a.frontier.Load(), newFrontier)
	}
	a.frontier.Store(newFrontier)

	a.assertInvariantsLocked()
}

// LastCompletedKeynum returns the current frontier: the largest keynum
// below which every batch is completed. Lock-free acquire-equivalent
// atomic read, safe to call concurrently from any number of goroutines
// without contending with NextBatch/MarkCompleted's mutex.
func (a *Allocator) LastCompletedKeynum() uint64 {
	return a.frontier.Load()
}

// IssuedBatchCount and CompletedBatchCount expose the allocator's raw
// counters for tests and diagnostics; they take the lock like any other
// mutation-adjacent read, so treat them as a snapshot, not authoritative
// for concurrent decision-making (use LastCompletedKeynum for that).
func (a *Allocator) IssuedBatchCount() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.issued
}

func (a *Allocator) CompletedBatchCount() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.completed
}

// OutstandingCount returns the number of issued-but-not-completed
// batches at the time of the call.
func (a *Allocator) OutstandingCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.outstanding)
}

// OutstandingIndices returns the issued-but-not-completed batch indices,
// sorted ascending, for operators diagnosing a stalled phase (which
// worker is holding up the frontier). Map iteration order is otherwise
// unspecified, so this sorts with golang.org/x/exp/slices over the keys
// golang.org/x/exp/maps extracts — the same golang.org/x/exp package the
// teacher's coordinator imports for working with slices of its own
// request data (cmd/coordinator/main.go's slices.IndexFunc).
func (a *Allocator) OutstandingIndices() []uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := maps.Keys(a.outstanding)
	slices.Sort(idx)
	return idx
}

// assertInvariantsLocked checks I1-I3 from doc.go (I4 is checked in
// MarkCompleted before the new frontier is published). I1 and I2 are O(1);
// I3 walks the outstanding set, which holds at most one batch per worker.
// Unlike the source's debug-build-only assertions, these always run.
func (a *Allocator) assertInvariantsLocked() {
	if a.completed > a.issued {
		a.abortLocked("I1 violated: completed=%d > issued=%d", a.completed, a.issued)
	}
	if uint64(len(a.outstanding)) > a.issued-a.completed {
		a.abortLocked("I2 violated: |outstanding|=%d > issued-completed=%d", len(a.outstanding), a.issued-a.completed)
	}
	for i := range a.outstanding {
		if i < a.completed || i >= a.issued {
			a.abortLocked("I3 violated: outstanding index %d outside [completed=%d, issued=%d)", i, a.completed, a.issued)
		}
	}
}

// abortLocked logs the violated precondition and panics, matching the
// "programmer error -> abort" failure model of spec.md §7. Must be
// called with a.mu held, mirroring the teacher's pattern of aborting
// from inside the locked section rather than unwinding first
// (cmd/node/main.go's logFatal is called the same way, from deep inside
// request handling).
//
// The log event is Error, not Fatal: zerolog's Fatal level calls
// os.Exit(1) after writing, which would bypass the panic entirely and
// make the violation untestable via recover. The panic is what actually
// aborts the process here; the log line exists so an operator watching
// structured logs sees why before the process dies.
func (a *Allocator) abortLocked(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.log.Error().Msg("keyspace: allocator precondition violated: " + msg)
	panic("keyspace: " + msg)
}
