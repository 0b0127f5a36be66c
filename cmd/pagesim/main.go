package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sibexico/PageSim/sim"
)

// sweepStep is the frame-count increment used by data mode
const sweepStep = 50

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  pagesim <nframes> <lru|fifo|random|clock> <quiet|debug> <tracefile>
  pagesim memory <tracefile>...
  pagesim data [policy] <tracefile>...
  pagesim pack <snappy|lz4> <tracefile>

Environment overrides: PAGESIM_SEED, PAGESIM_WORKERS, PAGESIM_OUTPUT_DIR,
PAGESIM_USE_MMAP, PAGESIM_ENABLE_METRICS, PAGESIM_LOG_LEVEL.`)
	os.Exit(2)
}

func main() {
	cfg := sim.LoadConfigFromEnv()

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "memory":
		runMemoryMode(cfg, os.Args[2:])
	case "data":
		runDataMode(cfg, os.Args[2:])
	case "pack":
		runPackMode(os.Args[2:])
	default:
		runSingle(cfg, os.Args[1:])
	}
}

// newLogger builds the process logger at the given level
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// loadTraces loads every trace path, skipping unreadable ones so a bad
// trace cannot abort a whole batch
func loadTraces(cfg *sim.Config, paths []string, logger *slog.Logger) []*sim.Trace {
	traces := make([]*sim.Trace, 0, len(paths))
	for _, path := range paths {
		var trace *sim.Trace
		var err error
		if cfg.UseMmap {
			trace, err = sim.LoadTraceMmap(path)
		} else {
			trace, err = sim.LoadTrace(path)
		}
		if err != nil {
			logger.Error("skipping trace", slog.String("path", path), slog.Any("error", err))
			continue
		}
		traces = append(traces, trace)
	}
	return traces
}

// runSingle simulates one (policy, trace, frames) combination and prints
// the summary block
func runSingle(cfg *sim.Config, args []string) {
	if len(args) != 4 {
		usage()
	}

	frames, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || frames == 0 {
		fmt.Fprintf(os.Stderr, "pagesim: bad frame count %q\n", args[0])
		os.Exit(2)
	}

	kind, err := sim.ParsePolicyKind(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagesim: %v\n", err)
		os.Exit(2)
	}

	var logger *slog.Logger
	switch args[2] {
	case "quiet":
		logger = newLogger(cfg.LogLevel)
	case "debug":
		logger = newLogger("debug")
	default:
		usage()
	}

	var metrics *sim.Metrics
	if cfg.EnableMetrics {
		metrics = sim.NewMetrics()
	}

	traces := loadTraces(cfg, args[3:], logger)
	if len(traces) == 0 {
		os.Exit(1)
	}

	result, err := sim.SimulateOnce(kind, uint32(frames), traces[0], cfg.Seed, logger, metrics)
	if err != nil {
		logger.Error("simulation failed", slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Printf("total memory frames: %d\nevents in trace:     %d\ntotal disk reads:    %d\ntotal disk writes:   %d\n",
		result.Frames, result.References, result.Faults, result.Writebacks)

	if metrics != nil {
		metrics.LogMetrics(logger)
	}
}

// runMemoryMode finds the minimum frame count for every policy x trace pair
func runMemoryMode(cfg *sim.Config, paths []string) {
	if len(paths) == 0 {
		usage()
	}

	logger := newLogger(cfg.LogLevel)
	traces := loadTraces(cfg, paths, logger)
	if len(traces) == 0 {
		os.Exit(1)
	}

	batch := sim.NewBatch(cfg.Frames, cfg.Seed, cfg.Workers)
	batch.Logger = logger
	if cfg.EnableMetrics {
		batch.Metrics = sim.NewMetrics()
	}

	failed := false
	for _, rec := range batch.FindMinima(traces) {
		if rec.Err != nil {
			failed = true
			logger.Error("minimum-memory search failed",
				slog.String("trace", rec.TraceID),
				slog.String("policy", rec.Policy.String()),
				slog.Any("error", rec.Err))
			continue
		}
		fmt.Printf("optimal memory for %s trace with %s algorithm is %d pages\n",
			rec.TraceID, rec.Policy, rec.Frames)
	}

	if batch.Metrics != nil {
		batch.Metrics.LogMetrics(logger)
	}
	if failed {
		os.Exit(1)
	}
}

// runDataMode sweeps frame counts for each policy x trace pair and stores
// one CSV curve per pair
func runDataMode(cfg *sim.Config, args []string) {
	policies := sim.AllPolicyKinds()

	// A leading policy name restricts the sweep to that policy
	if len(args) > 0 {
		if kind, err := sim.ParsePolicyKind(args[0]); err == nil {
			policies = []sim.PolicyKind{kind}
			args = args[1:]
		}
	}
	if len(args) == 0 {
		usage()
	}

	logger := newLogger(cfg.LogLevel)
	traces := loadTraces(cfg, args, logger)
	if len(traces) == 0 {
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		logger.Error("cannot create output directory", slog.Any("error", err))
		os.Exit(1)
	}

	var metrics *sim.Metrics
	if cfg.EnableMetrics {
		metrics = sim.NewMetrics()
	}

	// Per-combination results at the configured frame count
	batch := sim.NewBatch(cfg.Frames, cfg.Seed, cfg.Workers)
	batch.Policies = policies
	batch.Logger = logger
	batch.Metrics = metrics

	failed := false
	for _, rec := range batch.RunMatrix(traces) {
		if rec.Err != nil {
			failed = true
			logger.Error("run failed",
				slog.String("trace", rec.TraceID),
				slog.String("policy", rec.Policy.String()),
				slog.Any("error", rec.Err))
			continue
		}
		logger.Info("run result",
			slog.String("trace", rec.Result.TraceID),
			slog.String("policy", rec.Result.Policy),
			slog.Uint64("frames", uint64(rec.Result.Frames)),
			slog.Uint64("references", rec.Result.References),
			slog.Uint64("hits", rec.Result.Hits),
			slog.Uint64("faults", rec.Result.Faults),
			slog.Float64("fault_rate", rec.Result.FaultRate))
	}

	for _, trace := range traces {
		for _, kind := range policies {
			logger.Info("running sweep",
				slog.String("trace", trace.ID),
				slog.String("policy", kind.String()))

			points, err := sim.SweepFrames(kind, trace, sweepStep, cfg.Seed, logger, metrics)
			if err != nil {
				failed = true
				logger.Error("sweep failed",
					slog.String("trace", trace.ID),
					slog.String("policy", kind.String()),
					slog.Any("error", err))
				continue
			}

			out := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s-%s.csv", trace.ID, kind))
			if err := writeSweepCSV(out, points); err != nil {
				failed = true
				logger.Error("cannot write csv", slog.String("path", out), slog.Any("error", err))
				continue
			}
			logger.Info("stored sweep data", slog.String("path", out))
		}
	}

	if metrics != nil {
		metrics.LogMetrics(logger)
	}
	if failed {
		os.Exit(1)
	}
}

// writeSweepCSV stores a frame-count curve as "pages","writes" rows
func writeSweepCSV(path string, points []sim.SweepPoint) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"pages", "writes"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			strconv.FormatUint(uint64(p.Frames), 10),
			strconv.FormatUint(p.Writebacks, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// runPackMode rewrites a trace file in compressed form
func runPackMode(args []string) {
	if len(args) != 2 {
		usage()
	}

	var codec sim.TraceCodec
	switch args[0] {
	case "snappy":
		codec = sim.TraceCodecSnappy
	case "lz4":
		codec = sim.TraceCodecLZ4
	default:
		usage()
	}

	src := args[1]
	dst := src + codec.Extension()
	if err := sim.CompressTraceFile(src, dst, codec); err != nil {
		fmt.Fprintf(os.Stderr, "pagesim: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("packed %s -> %s\n", src, dst)
}
