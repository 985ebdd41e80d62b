// Package driver runs a phase (load or transactions) of a workload against
// a store.Adapter: it spawns threadcount worker goroutines, each owning
// its own workload.State, drives them to completion or to an operation
// count budget, and aggregates throughput into a Report.
//
// A phase owns no store connection of its own; the Adapter is shared
// across every worker for the phase's lifetime, matching the teacher's
// "shards handle their own synchronization" division of ownership
// (cmd/node/main.go's Node/shard split).
package driver
