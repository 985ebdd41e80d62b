// Command ycsbgen runs a YCSB-style load phase followed by a run phase
// against a pluggable store.Adapter, driven by a property-file workload
// description (spec.md §1, §6).
//
// Configuration:
//   - YCSBGEN_WORKLOAD: path to a workload property file (required)
//   - YCSBGEN_LATENCY: optional artificial per-call delay (Go duration
//     string, e.g. "2ms") applied via store.LatencyAdapter
//   - Any YCSBGEN_<OPTION> variable overrides the matching workload
//     property (internal/config)
//
// Example usage:
//
//	YCSBGEN_WORKLOAD=workloads/workloada.properties ./ycsbgen
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dreamware/ycsbgen/internal/config"
	"github.com/dreamware/ycsbgen/internal/driver"
	"github.com/dreamware/ycsbgen/internal/store"
)

// logFatal is a variable to allow mocking log.Fatal in tests, mirroring
// the indirection the node binary uses for the same reason.
var logFatal = log.Fatalf

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustGetenv(k string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	logFatal("missing env %s", k)
	return ""
}

func main() {
	workloadPath := mustGetenv("YCSBGEN_WORKLOAD")

	cfg, err := config.Load(workloadPath)
	if err != nil {
		logFatal("config: %v", err)
		return
	}

	logger := newLogger(cfg.LogFormat)
	logger.Info().Str("workload", workloadPath).Msg("ycsbgen starting")

	adapter := newAdapter(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loadReport, alloc := driver.RunLoad(ctx, cfg, adapter, logger)
	printReport("load", loadReport)

	if cfg.OperationCount > 0 {
		runReport := driver.RunTransactions(ctx, cfg, adapter, alloc, logger)
		printReport("run", runReport)
	}

	logger.Info().Msg("ycsbgen done")
}

// newLogger builds a zerolog.Logger in either console (human-readable,
// colorized) or JSON form, per ycsbgen.logformat (SPEC_FULL.md §6), the
// same format toggle idea the retrieved agilira-iris comparison
// benchmarks exercise directly against zerolog.
func newLogger(format string) zerolog.Logger {
	if format == "json" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(writer).With().Timestamp().Logger()
}

// newAdapter constructs the store.Adapter the phases run against. The
// reference binary only ships the in-memory adapter; YCSBGEN_LATENCY
// wraps it in store.LatencyAdapter so operators can sanity-check
// throughput math against a known, fixed per-call cost.
func newAdapter(logger zerolog.Logger) store.Adapter {
	base := store.NewMemoryAdapter()

	delayStr := getenv("YCSBGEN_LATENCY", "")
	if delayStr == "" {
		return base
	}
	delay, err := time.ParseDuration(delayStr)
	if err != nil {
		logger.Warn().Str("latency", delayStr).Msg("ignoring unparseable YCSBGEN_LATENCY")
		return base
	}
	return store.NewLatencyAdapter(base, delay)
}

func printReport(phase string, r *driver.Report) {
	fmt.Printf("%s: ops=%d failed=%d elapsed=%s throughput=%.1f ops/s\n",
		phase, r.Ops.Load(), r.Failed.Load(), r.Elapsed, r.Throughput())
}
