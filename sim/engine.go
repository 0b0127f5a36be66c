package sim

import (
	"io"
	"log/slog"
	"math/rand"
	"time"
)

// RunState tracks the engine lifecycle. Engines are single-shot: a run moves
// Ready -> Running -> Done and the instance is never reused.
type RunState int

const (
	StateReady RunState = iota
	StateRunning
	StateDone
)

// Result is the immutable outcome of one simulation run
type Result struct {
	Policy     string  `json:"policy"`
	TraceID    string  `json:"trace_id"`
	Frames     uint32  `json:"frames"`
	References uint64  `json:"references"`
	Hits       uint64  `json:"hits"`
	Faults     uint64  `json:"faults"`
	Writebacks uint64  `json:"writebacks"` // dirty pages written back on eviction
	FaultRate  float64 `json:"fault_rate"`
}

// Engine drives one trace through one policy instance over a fixed frame
// count: on each reference it updates the frame table, invokes the policy
// when a fault needs an eviction, and accumulates hit/fault counters.
//
// A run is purely sequential with no internal non-determinism: LRU and FIFO
// results depend only on the trace and frame count, random results only on
// those plus the injected seed.
type Engine struct {
	policy  Policy
	table   *FrameTable
	state   RunState
	logger  *slog.Logger
	metrics *Metrics // optional shared collector, may be nil

	step       uint64
	hits       uint64
	faults     uint64
	writebacks uint64
}

// NewEngine creates an engine for a single run. The generator feeds the
// random policy only; logger and metrics may be nil.
func NewEngine(kind PolicyKind, frames uint32, rng *rand.Rand, logger *slog.Logger, metrics *Metrics) (*Engine, error) {
	if frames == 0 {
		return nil, ErrBadFrameCount("NewEngine", int(frames))
	}

	policy, err := NewPolicy(kind, rng)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Engine{
		policy:  policy,
		table:   NewFrameTable(frames),
		state:   StateReady,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// State returns the current lifecycle state
func (e *Engine) State() RunState {
	return e.state
}

// Run processes the whole trace and produces the run result. The trace is
// consumed forward-only, one reference per step. Any error aborts the run;
// invariant violations indicate a core bug and are never recovered.
func (e *Engine) Run(trace *Trace) (*Result, error) {
	if e.state != StateReady {
		return nil, NewSimError(ErrCodeInternal, "Run",
			"engine instances are single-shot and cannot be rerun", nil)
	}
	if trace == nil || trace.Len() == 0 {
		id := ""
		if trace != nil {
			id = trace.ID
		}
		return nil, ErrTraceEmpty("Run", id)
	}

	e.state = StateRunning
	start := time.Now()

	for _, ref := range trace.Refs {
		if err := e.stepRef(ref); err != nil {
			e.state = StateDone
			if e.metrics != nil {
				e.metrics.RecordRunFailed()
			}
			return nil, err
		}
		e.step++
	}

	e.state = StateDone
	if e.metrics != nil {
		e.metrics.RecordRunCompleted(time.Since(start))
	}

	total := uint64(trace.Len())
	return &Result{
		Policy:     e.policy.Kind().String(),
		TraceID:    trace.ID,
		Frames:     e.table.Capacity(),
		References: total,
		Hits:       e.hits,
		Faults:     e.faults,
		Writebacks: e.writebacks,
		FaultRate:  float64(e.faults) / float64(total),
	}, nil
}

// stepRef processes one page reference at the current step index
func (e *Engine) stepRef(ref PageReference) error {
	page := ref.PageNumber

	if e.table.Lookup(page) {
		e.hits++
		if e.metrics != nil {
			e.metrics.RecordHit()
		}
		e.logger.Debug("hit",
			slog.Uint64("step", e.step),
			slog.Uint64("page", uint64(page)),
			slog.String("mode", ref.Mode.String()),
		)
		return e.table.Touch(page, e.step, ref.Mode)
	}

	// Fault: cold and capacity faults count uniformly
	e.faults++
	if e.metrics != nil {
		e.metrics.RecordFault()
	}

	if e.table.IsFull() {
		victim, ok := e.policy.Victim(e.table)
		if !ok {
			return ErrNoVictim("stepRef")
		}
		if !e.table.Lookup(victim) {
			return ErrVictimNotResident("stepRef", victim)
		}

		dirty, err := e.table.Evict(victim)
		if err != nil {
			return err
		}
		if dirty {
			e.writebacks++
			if e.metrics != nil {
				e.metrics.RecordWriteback()
			}
		}
		if e.metrics != nil {
			e.metrics.RecordEviction()
		}
		e.logger.Debug("evict",
			slog.Uint64("step", e.step),
			slog.Uint64("victim", uint64(victim)),
			slog.Bool("dirty", dirty),
			slog.Uint64("loading", uint64(page)),
		)
	}

	if err := e.table.Install(page, e.step); err != nil {
		return err
	}

	e.logger.Debug("fault",
		slog.Uint64("step", e.step),
		slog.Uint64("page", uint64(page)),
		slog.String("mode", ref.Mode.String()),
	)

	return e.table.Touch(page, e.step, ref.Mode)
}

// SimulateOnce builds a fresh engine and runs one (policy, trace, frames)
// combination. Batch modes call this per combination so no engine or policy
// state leaks between runs.
func SimulateOnce(kind PolicyKind, frames uint32, trace *Trace, seed int64, logger *slog.Logger, metrics *Metrics) (*Result, error) {
	var rng *rand.Rand
	if kind == PolicyRandom {
		rng = rand.New(rand.NewSource(seed))
	}

	engine, err := NewEngine(kind, frames, rng, logger, metrics)
	if err != nil {
		return nil, err
	}
	return engine.Run(trace)
}
