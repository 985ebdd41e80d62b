// Package generator implements the family of stateful u64 producers the
// workload layer composes to pick keynums, field lengths, and scan
// lengths.
//
// Every generator in this package satisfies the two-method Generator
// interface: Next, which advances and returns a new value, and Last, which
// returns the value most recently returned by Next without advancing.
// Counter is the one generator meant to be shared across goroutines (it is
// lock-free via sync/atomic); every other generator is owned by a single
// workload.State and its embedded *rand.Rand, and is not safe for
// concurrent use — see spec.md §5, "RNGs are thread-local and never
// contend."
//
// Zipfian and ScrambledZipfian implement the classic YCSB Zipfian
// algorithm: a precomputed zeta(n, theta) that is extended incrementally
// (tail terms added) when the active domain grows, rather than
// recomputed from scratch, per spec.md §4.3.
package generator
