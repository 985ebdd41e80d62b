package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLatencyAdapterDelaysAndDelegates(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryAdapter()
	l := NewLatencyAdapter(inner, 5*time.Millisecond)

	start := time.Now()
	status := l.Insert(ctx, "usertable", "user001", []Field{{Name: "field0", Value: []byte("a")}})
	elapsed := time.Since(start)

	require.Equal(t, OK, status)
	require.GreaterOrEqual(t, elapsed, 5*time.Millisecond)
	require.Equal(t, 1, inner.Len())
}

func TestLatencyAdapterRespectsContextCancellation(t *testing.T) {
	inner := NewMemoryAdapter()
	l := NewLatencyAdapter(inner, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	l.Read(ctx, "usertable", "nope", nil)
	require.Less(t, time.Since(start), time.Second)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "OK", OK.String())
	require.Equal(t, "ERROR", ErrorStatus.String())
	require.Equal(t, "NOT_FOUND", NotFound.String())
}
