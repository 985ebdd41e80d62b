package workload

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dreamware/ycsbgen/internal/config"
	"github.com/dreamware/ycsbgen/internal/keyspace"
)

func baseConfig() *config.Workload {
	return &config.Workload{
		RecordCount:               1000,
		ThreadCount:               1,
		FieldCount:                3,
		FieldLength:               10,
		FieldLengthDistribution:   "constant",
		ReadProportion:            0.5,
		UpdateProportion:          0.5,
		RequestDistribution:       "uniform",
		MaxScanLength:             100,
		ScanLengthDistribution:    "uniform",
		InsertOrder:               "ordered",
		ZeroPadding:               1,
		Table:                     "usertable",
		BatchSize:                 10,
	}
}

// TestSequenceKeysAreContiguousAndFrontierAdvances covers S1/P8: a
// worker draining NextSequenceKey across several batches produces a
// gapless, duplicate-free run of keynums, and the shared allocator's
// frontier only advances as batches are marked completed by
// CloseSequence/batch rollover.
func TestSequenceKeysAreContiguousAndFrontierAdvances(t *testing.T) {
	alloc := keyspace.New(0, 10)
	cfg := baseConfig()
	s := New(cfg, alloc, 0)

	seen := make(map[uint64]bool)
	var buf []byte
	for i := 0; i < 25; i++ {
		var keynum uint64
		buf, keynum = s.NextSequenceKey(buf)
		require.False(t, seen[keynum], "duplicate keynum %d", keynum)
		seen[keynum] = true
		require.Equal(t, uint64(i), keynum)
	}

	// Two full batches (20 keys) have rolled over and been marked
	// completed; the third batch (keynums 20-24 so far) is still open.
	require.Equal(t, uint64(20), alloc.LastCompletedKeynum())

	s.CloseSequence()
	require.Equal(t, uint64(30), alloc.LastCompletedKeynum())

	// Closing again is a no-op, not a double-completion abort.
	require.NotPanics(t, func() { s.CloseSequence() })
}

// TestNextTransactionKeyNeverExceedsFrontier covers P8: a run-phase key
// draw must reject any sample above the allocator's current frontier and
// redraw rather than returning it.
func TestNextTransactionKeyNeverExceedsFrontier(t *testing.T) {
	alloc := keyspace.New(0, 10)
	alloc.NextBatch()
	alloc.MarkCompleted(0) // frontier now 10: keynums 0..9 are loaded

	cfg := baseConfig()
	cfg.RequestDistribution = "uniform"
	s := New(cfg, alloc, 0)

	for i := 0; i < 500; i++ {
		_, k := s.NextTransactionKey()
		require.Less(t, k, alloc.LastCompletedKeynum())
	}
}

// TestOperationMixRespectsZeroWeights covers S3: an operation with zero
// configured proportion is never drawn.
func TestOperationMixRespectsZeroWeights(t *testing.T) {
	alloc := keyspace.New(0, 10)
	alloc.NextBatch()
	alloc.MarkCompleted(0)

	cfg := baseConfig()
	cfg.ReadProportion = 1
	cfg.UpdateProportion = 0
	cfg.InsertProportion = 0
	cfg.ScanProportion = 0
	cfg.ReadModifyWriteProportion = 0
	s := New(cfg, alloc, 0)

	for i := 0; i < 200; i++ {
		require.Equal(t, OpRead, s.NextOperation())
	}
}

// TestBuildValuesProducesConfiguredFieldCount covers S5: INSERT/read-all
// value construction yields exactly fieldcount fields, each within the
// configured length.
func TestBuildValuesProducesConfiguredFieldCount(t *testing.T) {
	alloc := keyspace.New(0, 10)
	cfg := baseConfig()
	s := New(cfg, alloc, 0)

	fields := s.BuildValues()
	require.Len(t, fields, cfg.FieldCount)
	for i, f := range fields {
		require.Equal(t, "field"+itoaHelper(i), f.Name)
		require.Len(t, f.Value, cfg.FieldLength)
	}
}

// TestUpdateValuesSingleFieldByDefault covers the non-writeallfields
// branch: exactly one field is touched per UPDATE.
func TestUpdateValuesSingleFieldByDefault(t *testing.T) {
	alloc := keyspace.New(0, 10)
	cfg := baseConfig()
	s := New(cfg, alloc, 0)

	fields := s.UpdateValues()
	require.Len(t, fields, 1)
}

// TestUpdateValuesAllFieldsWhenConfigured covers the writeallfields
// branch.
func TestUpdateValuesAllFieldsWhenConfigured(t *testing.T) {
	alloc := keyspace.New(0, 10)
	cfg := baseConfig()
	cfg.WriteAllFields = true
	s := New(cfg, alloc, 0)

	fields := s.UpdateValues()
	require.Len(t, fields, cfg.FieldCount)
}

// TestReadFieldsHonorsReadAllFields covers the readallfields toggle.
func TestReadFieldsHonorsReadAllFields(t *testing.T) {
	alloc := keyspace.New(0, 10)
	cfg := baseConfig()

	s := New(cfg, alloc, 0)
	require.Len(t, s.ReadFields(), 1)

	cfg.ReadAllFields = true
	s2 := New(cfg, alloc, 1)
	require.Nil(t, s2.ReadFields())
}

// TestDistinctWorkerIndicesDecorrelateRNG is a light sanity check that
// two workers built from the same seed but different indices do not draw
// identical sequences.
func TestDistinctWorkerIndicesDecorrelateRNG(t *testing.T) {
	alloc := keyspace.New(0, 10)
	alloc.NextBatch()
	alloc.MarkCompleted(0)

	cfg := baseConfig()
	a := New(cfg, alloc, 0)
	b := New(cfg, alloc, 1)

	same := true
	for i := 0; i < 20; i++ {
		_, ka := a.NextTransactionKey()
		_, kb := b.NextTransactionKey()
		if ka != kb {
			same = false
			break
		}
	}
	require.False(t, same, "workers 0 and 1 drew identical key sequences")
}

// TestNextTransactionKeyRespectsNonzeroInsertStart is the regression case
// for buildKeyChooser silently drawing from [0, RecordCount) instead of
// [alloc.Start(), alloc.Start()+RecordCount) whenever insertstart is
// nonzero (spec.md §6): every distribution must only ever produce keynums
// that were actually loaded.
func TestNextTransactionKeyRespectsNonzeroInsertStart(t *testing.T) {
	const start = 1_000_000
	for _, dist := range []string{"uniform", "zipfian", "latest"} {
		for _, order := range []string{"ordered", "hashed"} {
			alloc := keyspace.New(start, 10)
			for i := 0; i < 100; i++ {
				alloc.NextBatch()
			}
			for i := 0; i < 100; i++ {
				alloc.MarkCompleted(start + uint64(i)*10)
			}

			cfg := baseConfig()
			cfg.RecordCount = 1000
			cfg.RequestDistribution = dist
			cfg.InsertOrder = order
			cfg.InsertStart = start
			s := New(cfg, alloc, 0)

			for i := 0; i < 500; i++ {
				_, k := s.NextTransactionKey()
				require.GreaterOrEqual(t, k, uint64(start), "dist=%s order=%s", dist, order)
				require.Less(t, k, uint64(start)+uint64(cfg.RecordCount), "dist=%s order=%s", dist, order)
			}
		}
	}
}

func itoaHelper(i int) string {
	digits := "0123456789"
	if i == 0 {
		return "0"
	}
	out := ""
	for i > 0 {
		out = string(digits[i%10]) + out
		i /= 10
	}
	return out
}
