package generator

import "sync/atomic"

// Counter is an atomic, monotone sequence generator: Next post-increments
// a shared counter and returns the pre-increment value, the same fetch-
// and-add discipline the teacher uses for its lock-free operation counters
// (internal/shard.OperationStats, updated via atomic.AddUint64). Counter
// is safe for concurrent use by multiple goroutines without additional
// locking.
type Counter struct {
	counter atomic.Uint64
}

// NewCounter returns a Counter whose first Next() call yields start.
func NewCounter(start uint64) *Counter {
	c := &Counter{}
	c.counter.Store(start)
	return c
}

// Next returns the current counter value and post-increments it by one.
func (c *Counter) Next() uint64 {
	return c.counter.Add(1) - 1
}

// NextN fetch-adds n to the counter and returns the pre-addition value,
// for callers that need to reserve a contiguous run of values in one
// atomic step (e.g. handing out a batch of keynums).
func (c *Counter) NextN(n uint64) uint64 {
	return c.counter.Add(n) - n
}

// Last returns the most recently issued value. Undefined if Next has
// never been called and the counter was constructed with start == 0.
func (c *Counter) Last() uint64 {
	return c.counter.Load() - 1
}

// Set stores v as the counter's current value; the next Next() call
// returns v.
func (c *Counter) Set(v uint64) {
	c.counter.Store(v)
}
