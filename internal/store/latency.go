package store

import (
	"context"
	"time"
)

// LatencyAdapter wraps another Adapter and sleeps for a configurable
// duration before delegating each call, so tests and the example binary
// can exercise the driver's concurrency model under realistic contention
// without a real external store. It generalizes the "pick a storage
// engine by name" idea in the original C++ source's db_factory (which
// chose between RocksDB/SplinterDB) into a decorator, since real
// persistence engines are out of scope here (spec.md §1).
type LatencyAdapter struct {
	inner Adapter
	delay time.Duration
}

// NewLatencyAdapter wraps inner, adding delay before every operation.
func NewLatencyAdapter(inner Adapter, delay time.Duration) *LatencyAdapter {
	return &LatencyAdapter{inner: inner, delay: delay}
}

func (l *LatencyAdapter) sleep(ctx context.Context) {
	if l.delay <= 0 {
		return
	}
	t := time.NewTimer(l.delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (l *LatencyAdapter) Init(ctx context.Context) error  { return l.inner.Init(ctx) }
func (l *LatencyAdapter) Close(ctx context.Context) error { return l.inner.Close(ctx) }

func (l *LatencyAdapter) Read(ctx context.Context, table, key string, fields []string) (Status, []Field) {
	l.sleep(ctx)
	return l.inner.Read(ctx, table, key, fields)
}

func (l *LatencyAdapter) Scan(ctx context.Context, table, startKey string, length int, fields []string) (Status, [][]Field) {
	l.sleep(ctx)
	return l.inner.Scan(ctx, table, startKey, length, fields)
}

func (l *LatencyAdapter) Update(ctx context.Context, table, key string, values []Field) Status {
	l.sleep(ctx)
	return l.inner.Update(ctx, table, key, values)
}

func (l *LatencyAdapter) Insert(ctx context.Context, table, key string, values []Field) Status {
	l.sleep(ctx)
	return l.inner.Insert(ctx, table, key, values)
}

func (l *LatencyAdapter) Delete(ctx context.Context, table, key string) Status {
	l.sleep(ctx)
	return l.inner.Delete(ctx, table, key)
}

func (l *LatencyAdapter) Rmw(ctx context.Context, table, key string, readFields []string, writeValues []Field) Status {
	l.sleep(ctx)
	return l.inner.Rmw(ctx, table, key, readFields, writeValues)
}
