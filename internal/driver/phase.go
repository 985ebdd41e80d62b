package driver

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dreamware/ycsbgen/internal/config"
	"github.com/dreamware/ycsbgen/internal/keyspace"
	"github.com/dreamware/ycsbgen/internal/store"
	"github.com/dreamware/ycsbgen/internal/workload"
)

// RunLoad drives the load phase: threadcount workers each pull
// sequential keys from a shared keyspace.Allocator and Insert them,
// until the allocator's cursor reaches cfg.InsertStart+cfg.RecordCount
// (spec.md §4.7, "Load phase"). Returns the allocator so RunTransactions
// can reuse its frontier for the run phase that follows.
func RunLoad(ctx context.Context, cfg *config.Workload, adapter store.Adapter, log zerolog.Logger) (*Report, *keyspace.Allocator) {
	alloc := keyspace.New(cfg.InsertStart, cfg.BatchSize).WithLogger(log)
	limit := cfg.InsertStart + cfg.RecordCount

	report := &Report{}
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < cfg.ThreadCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			runLoadWorker(ctx, cfg, alloc, adapter, limit, report, log, idx)
		}(i)
	}
	wg.Wait()

	report.Elapsed = time.Since(start)
	log.Info().
		Uint64("ops", report.Ops.Load()).
		Uint64("failed", report.Failed.Load()).
		Dur("elapsed", report.Elapsed).
		Msg("load phase complete")
	return report, alloc
}

func runLoadWorker(ctx context.Context, cfg *config.Workload, alloc *keyspace.Allocator, adapter store.Adapter, limit uint64, report *Report, log zerolog.Logger, idx int) {
	if err := adapter.Init(ctx); err != nil {
		log.Error().Err(err).Int("worker", idx).Msg("load worker init failed")
		return
	}
	defer adapter.Close(ctx)

	s := workload.New(cfg, alloc, idx)
	var buf []byte
	for {
		select {
		case <-ctx.Done():
			s.CloseSequence()
			return
		default:
		}

		var keynum uint64
		buf, keynum = s.NextSequenceKey(buf)
		if keynum >= limit {
			s.CloseSequence()
			return
		}

		key := string(buf)
		status := adapter.Insert(ctx, s.Table(), key, s.BuildValues())
		report.Ops.Add(1)
		if status != store.OK {
			report.Failed.Add(1)
			log.Warn().Str("key", key).Str("status", status.String()).Msg("load insert failed")
		}
	}
}

// RunTransactions drives the run phase against an already-loaded key
// space: threadcount workers each draw cfg.OperationCount/threadcount
// operations (spec.md §4.7, "Run phase"), dispatching READ/UPDATE/
// INSERT/SCAN/RMW per the configured op mix. alloc is the same allocator
// RunLoad returned, so run-phase INSERTs continue the load phase's
// sequence rather than restarting it (spec.md §4.7: "same batching
// discipline").
func RunTransactions(ctx context.Context, cfg *config.Workload, adapter store.Adapter, alloc *keyspace.Allocator, log zerolog.Logger) *Report {
	report := &Report{}
	start := time.Now()

	perWorker, remainder := divideOps(cfg.OperationCount, cfg.ThreadCount)

	var wg sync.WaitGroup
	for i := 0; i < cfg.ThreadCount; i++ {
		n := perWorker
		if uint64(i) < remainder {
			n++
		}
		wg.Add(1)
		go func(idx int, ops uint64) {
			defer wg.Done()
			runTxWorker(ctx, cfg, alloc, adapter, ops, report, log, idx)
		}(i, n)
	}
	wg.Wait()

	report.Elapsed = time.Since(start)
	log.Info().
		Uint64("ops", report.Ops.Load()).
		Uint64("failed", report.Failed.Load()).
		Dur("elapsed", report.Elapsed).
		Msg("run phase complete")
	return report
}

func divideOps(total uint64, threads int) (perWorker uint64, remainder uint64) {
	if threads <= 0 {
		return 0, 0
	}
	return total / uint64(threads), total % uint64(threads)
}

func runTxWorker(ctx context.Context, cfg *config.Workload, alloc *keyspace.Allocator, adapter store.Adapter, ops uint64, report *Report, log zerolog.Logger, idx int) {
	if err := adapter.Init(ctx); err != nil {
		log.Error().Err(err).Int("worker", idx).Msg("run worker init failed")
		return
	}
	defer adapter.Close(ctx)

	s := workload.New(cfg, alloc, idx)
	var buf []byte

	for i := uint64(0); i < ops; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		status := dispatch(ctx, s, adapter, &buf)
		report.Ops.Add(1)
		if status != store.OK {
			report.Failed.Add(1)
		}
	}
	s.CloseSequence()
}

func dispatch(ctx context.Context, s *workload.State, adapter store.Adapter, buf *[]byte) store.Status {
	switch s.NextOperation() {
	case workload.OpRead:
		key, _ := s.NextTransactionKey()
		status, _ := adapter.Read(ctx, s.Table(), key, s.ReadFields())
		return status
	case workload.OpUpdate:
		key, _ := s.NextTransactionKey()
		return adapter.Update(ctx, s.Table(), key, s.UpdateValues())
	case workload.OpScan:
		key, _ := s.NextTransactionKey()
		status, _ := adapter.Scan(ctx, s.Table(), key, s.NextScanLength(), s.ReadFields())
		return status
	case workload.OpRmw:
		key, _ := s.NextTransactionKey()
		return adapter.Rmw(ctx, s.Table(), key, s.ReadFields(), s.UpdateValues())
	case workload.OpInsert:
		var keynum uint64
		*buf, keynum = s.NextSequenceKey(*buf)
		key := string(*buf)
		_ = keynum
		return adapter.Insert(ctx, s.Table(), key, s.BuildValues())
	default:
		return store.ErrorStatus
	}
}
