// Package keyspace implements the batched counter allocator: the
// coordinator that partitions a contiguous insert key space across
// worker goroutines so that every keynum is produced exactly once, with
// high parallelism, while never exposing a keynum to a transaction
// thread before its insert has begun.
//
// # Overview
//
// The key space is the half-open interval [start, start+recordCount).
// The Allocator divides it into fixed-size batches and hands batches
// (not individual keynums) to callers via NextBatch, which amortizes
// lock acquisition to once per batchSize inserts per worker instead of
// once per insert.
//
// # Model
//
//	Key space:  [start ────────────────────── start+recordCount)
//	Batches:    [ batch 0 ][ batch 1 ][ batch 2 ][ batch 3 ] ...
//	Issued:     ───────────────────────►  (ascending batch_index)
//	Completed:  ──────────►                (arbitrary order, tracked via
//	                                         an outstanding set + prefix scan)
//	Frontier:   the largest keynum below which every batch is completed
//
// # Concurrency model
//
// A single sync.Mutex protects the two counters (issued, completed) and
// the outstanding set; NextBatch and MarkCompleted both take it.
// MarkCompleted holds it for a prefix scan over the batches it passes and
// an invariant check over the outstanding set. A separate atomic.Uint64 mirrors
// start + completed*batchSize, published with release ordering in
// MarkCompleted and read with acquire ordering by LastCompletedKeynum, so
// transaction-key distributions never contend with insert workers for the
// frontier (spec.md §5).
//
// # Invariants
//
// Checked as assertions (which panic, matching the "programmer error ->
// abort" failure model of spec.md §7):
//
//	I1: completed <= issued
//	I2: len(outstanding) <= issued - completed (batches completed out of
//	    order are removed from outstanding immediately, ahead of the
//	    contiguous "completed" prefix catching up to them)
//	I3: every i in outstanding satisfies completed <= i < issued
//	I4: the published frontier mirror never decreases
//
// # Failure model
//
// Every precondition violation here — double-issuing a batch index,
// completing an unissued or already-completed batch, a misaligned
// firstKeynum — is a programmer error in the harness, not a runtime
// condition the allocator can recover from. These abort the process via
// panic, exactly as spec.md §7 point 1 requires.
package keyspace
