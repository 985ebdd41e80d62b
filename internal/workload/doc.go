// Package workload implements per-thread workload state: the composition
// of the op chooser, key/field/scan-length distributions, and the
// allocator-backed sequence cursor into one object that can render a
// fully materialized operation (spec.md §4.6).
//
// One State is created per worker goroutine. It owns its RNG and chosen
// generators outright, and holds a non-owning reference to the shared
// keyspace.Allocator for the phase (spec.md §3, "Lifecycles"). The same
// State serves both the load phase (via NextSequenceKey) and the run
// phase (via NextOperation/NextTransactionKey), since a run phase may
// itself issue INSERT operations that need a fresh keynum through the
// same batching discipline (spec.md §4.7).
package workload
