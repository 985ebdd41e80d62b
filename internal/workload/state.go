package workload

import (
	"math/rand/v2"
	"strconv"

	"github.com/dreamware/ycsbgen/internal/chooser"
	"github.com/dreamware/ycsbgen/internal/config"
	"github.com/dreamware/ycsbgen/internal/generator"
	"github.com/dreamware/ycsbgen/internal/keyfmt"
	"github.com/dreamware/ycsbgen/internal/keyspace"
	"github.com/dreamware/ycsbgen/internal/store"
)

// State is one worker goroutine's view of a workload: its own RNG and
// chosen distributions, plus a non-owning reference to the allocator
// shared across the phase.
type State struct {
	alloc *keyspace.Allocator
	rng   *rand.Rand

	table       string
	fieldCount  int
	ordered     bool
	zeroPad     int
	readAll     bool
	writeAll    bool

	fieldLenGen generator.Generator
	scanLenGen  generator.Generator
	keyChooser  generator.Generator
	opChooser   *chooser.Discrete[Op]

	seqBatch   keyspace.Batch
	seqOffset  uint64
	seqStarted bool
}

// New builds a per-thread workload state for worker index idx (0-based),
// composing generators from the resolved configuration. idx is XOR'd
// into the configured seed so each worker's RNG is independent (spec.md
// §9, "RNG").
func New(cfg *config.Workload, alloc *keyspace.Allocator, idx int) *State {
	seedLo := cfg.Seed ^ uint64(idx)
	seedHi := seedLo ^ 0x9e3779b97f4a7c15 // golden-ratio constant, just to decorrelate the two PCG seed halves
	rng := rand.New(rand.NewPCG(seedHi, seedLo))

	s := &State{
		alloc:      alloc,
		rng:        rng,
		table:      cfg.Table,
		fieldCount: cfg.FieldCount,
		ordered:    cfg.InsertOrder == "ordered",
		zeroPad:    cfg.ZeroPadding,
		readAll:    cfg.ReadAllFields,
		writeAll:   cfg.WriteAllFields,
	}

	s.fieldLenGen = buildLengthGenerator(rng, cfg.FieldLengthDistribution, cfg.FieldLength)
	s.scanLenGen = buildLengthGenerator(rng, cfg.ScanLengthDistribution, cfg.MaxScanLength)
	s.keyChooser = buildKeyChooser(rng, alloc, cfg)

	s.opChooser = chooser.New[Op](rng)
	s.opChooser.Add(OpRead, cfg.ReadProportion)
	s.opChooser.Add(OpUpdate, cfg.UpdateProportion)
	s.opChooser.Add(OpInsert, cfg.InsertProportion)
	s.opChooser.Add(OpScan, cfg.ScanProportion)
	s.opChooser.Add(OpRmw, cfg.ReadModifyWriteProportion)

	return s
}

func buildLengthGenerator(rng *rand.Rand, dist string, n int) generator.Generator {
	switch dist {
	case "uniform":
		return generator.NewUniform(rng, 1, uint64(n))
	case "zipfian":
		return generator.NewZipfian(rng, 1, uint64(n), generator.DefaultZipfianConstant)
	default: // "constant"
		return generator.NewConstant(uint64(n))
	}
}

func buildKeyChooser(rng *rand.Rand, alloc *keyspace.Allocator, cfg *config.Workload) generator.Generator {
	if cfg.RecordCount == 0 {
		return generator.NewConstant(alloc.Start())
	}
	// The loaded key range is [alloc.Start(), alloc.Start()+RecordCount),
	// not [0, RecordCount): insertstart (spec.md §6) shifts the whole key
	// space, and every chooser here must draw from the same range the
	// allocator actually issued, or it produces keynums nothing ever
	// inserted.
	min := alloc.Start()
	max := min + cfg.RecordCount - 1
	switch cfg.RequestDistribution {
	case "zipfian":
		// An ordered key space would otherwise correlate Zipfian's
		// low-rank hotspot with low keynums (and thus with lexically
		// adjacent, recently-formatted keys); scramble it when ordered
		// (spec.md §4.6: "zipfian (scrambled for ordered inserts)").
		if cfg.InsertOrder == "ordered" {
			return generator.NewScrambledZipfian(rng, min, max, generator.DefaultZipfianConstant)
		}
		return generator.NewZipfian(rng, min, max, generator.DefaultZipfianConstant)
	case "latest":
		return generator.NewAcknowledgedLatest(rng, alloc, alloc.BatchSize(), generator.DefaultZipfianConstant)
	default: // "uniform"
		return generator.NewUniform(rng, min, max)
	}
}

// NextSequenceKey returns the rendered key and keynum for the next insert
// in the caller's sequence, pulling a fresh batch from the shared
// allocator whenever the current one is exhausted, and marking the
// previous batch completed at that point (spec.md §4.6). buf, if
// non-nil and previously produced by this call for an earlier keynum
// with the same (ordered, zeroPad), is reused in place.
func (s *State) NextSequenceKey(buf []byte) ([]byte, uint64) {
	if s.seqOffset >= s.seqBatch.Size {
		if s.seqStarted {
			s.alloc.MarkCompleted(s.seqBatch.FirstKeynum)
		}
		s.seqBatch = s.alloc.NextBatch()
		s.seqOffset = 0
		s.seqStarted = true
	}

	keynum := s.seqBatch.FirstKeynum + s.seqOffset
	s.seqOffset++
	buf = keyfmt.UpdateInPlace(buf, keynum, s.ordered, s.zeroPad)
	return buf, keynum
}

// CloseSequence marks the current in-flight batch completed if one is
// outstanding. Callers must invoke this once at phase exit so the
// allocator's frontier reaches the full key space even though the last
// batch may be only partially consumed (spec.md §9, Open Question 1 —
// resolved in favor of always completing on exit; see DESIGN.md).
// Idempotent: a second call after the sequence has already been closed,
// or before any batch was ever issued, does nothing.
func (s *State) CloseSequence() {
	if s.seqStarted {
		s.alloc.MarkCompleted(s.seqBatch.FirstKeynum)
		s.seqStarted = false
	}
}

// NextTransactionKey draws a keynum from the configured key distribution,
// rejecting and redrawing while it lies at or above the allocator's
// current frontier (spec.md §4.6, §7 point 2), then renders it to a key
// string. The frontier itself is the first keynum of the next batch, which
// may not be inserted yet, so only keynums strictly below it are returned.
func (s *State) NextTransactionKey() (string, uint64) {
	for {
		k := s.keyChooser.Next()
		if k < s.alloc.LastCompletedKeynum() {
			return keyfmt.Format(k, s.ordered, s.zeroPad), k
		}
	}
}

// NextOperation draws the next operation kind from the configured
// weighted mixture.
func (s *State) NextOperation() Op {
	return s.opChooser.Next()
}

// NextScanLength draws a scan length in [1, maxscanlength].
func (s *State) NextScanLength() int {
	n := int(s.scanLenGen.Next())
	if n < 1 {
		n = 1
	}
	return n
}

// Table returns the configured table name.
func (s *State) Table() string { return s.table }

// ReadFields returns nil (read-all-fields semantics) or a single
// randomly chosen field name, per the readallfields configuration.
func (s *State) ReadFields() []string {
	if s.readAll {
		return nil
	}
	return []string{fieldName(s.rng.IntN(s.fieldCount))}
}

// BuildValues renders all F configured fields with freshly generated
// payloads, for INSERT and read-all/write-all UPDATE operations.
func (s *State) BuildValues() []store.Field {
	out := make([]store.Field, s.fieldCount)
	for i := range out {
		out[i] = store.Field{Name: fieldName(i), Value: s.randomFieldValue()}
	}
	return out
}

// UpdateValues renders the fields an UPDATE operation should write: all
// of them if writeallfields is set, otherwise a single randomly chosen
// field.
func (s *State) UpdateValues() []store.Field {
	if s.writeAll {
		return s.BuildValues()
	}
	i := s.rng.IntN(s.fieldCount)
	return []store.Field{{Name: fieldName(i), Value: s.randomFieldValue()}}
}

func (s *State) randomFieldValue() []byte {
	n := int(s.fieldLenGen.Next())
	if n < 0 {
		n = 0
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte('a' + s.rng.IntN(26))
	}
	return buf
}

func fieldName(i int) string {
	return "field" + strconv.Itoa(i)
}
