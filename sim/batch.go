package sim

import (
	"log/slog"
	"sync"
)

// RunRecord pairs one batch combination with its outcome. Err is set and
// Result nil when the run failed; a failed run never aborts its batch.
type RunRecord struct {
	Policy  PolicyKind
	TraceID string
	Result  *Result
	Err     error
}

// MinimumRecord is the outcome of one minimum-memory search
type MinimumRecord struct {
	Policy  PolicyKind
	TraceID string
	Frames  uint32
	Err     error
}

// Batch orchestrates the all-combinations modes: an explicit iteration over
// the Cartesian product of policies and traces, each combination simulated
// by an independent fresh engine. Runs share no mutable state beyond the
// optional metrics collector, so they can execute on parallel workers with
// results merged afterward.
type Batch struct {
	Policies []PolicyKind
	Frames   uint32
	Seed     int64
	Workers  int // 1 = serial
	Logger   *slog.Logger
	Metrics  *Metrics
}

// NewBatch creates a batch over all policy variants
func NewBatch(frames uint32, seed int64, workers int) *Batch {
	if workers < 1 {
		workers = 1
	}
	return &Batch{
		Policies: AllPolicyKinds(),
		Frames:   frames,
		Seed:     seed,
		Workers:  workers,
	}
}

// batchJob is one (policy, trace) combination with its slot in the merged
// record slice
type batchJob struct {
	idx    int
	policy PolicyKind
	trace  *Trace
}

// RunMatrix simulates every policy x trace combination at the batch's frame
// count. Record order is deterministic regardless of worker count: each
// worker writes only its own slots.
func (b *Batch) RunMatrix(traces []*Trace) []RunRecord {
	jobs := make([]batchJob, 0, len(b.Policies)*len(traces))
	for _, policy := range b.Policies {
		for _, trace := range traces {
			jobs = append(jobs, batchJob{idx: len(jobs), policy: policy, trace: trace})
		}
	}

	records := make([]RunRecord, len(jobs))
	b.forEachJob(jobs, func(job batchJob) {
		result, err := SimulateOnce(job.policy, b.Frames, job.trace, b.Seed, b.Logger, b.Metrics)
		records[job.idx] = RunRecord{
			Policy:  job.policy,
			TraceID: job.trace.ID,
			Result:  result,
			Err:     err,
		}
	})
	return records
}

// FindMinima runs the minimum-memory finder over every policy x trace pair
func (b *Batch) FindMinima(traces []*Trace) []MinimumRecord {
	jobs := make([]batchJob, 0, len(b.Policies)*len(traces))
	for _, policy := range b.Policies {
		for _, trace := range traces {
			jobs = append(jobs, batchJob{idx: len(jobs), policy: policy, trace: trace})
		}
	}

	records := make([]MinimumRecord, len(jobs))
	b.forEachJob(jobs, func(job batchJob) {
		finder := NewFinder(job.policy, b.Seed)
		finder.Logger = b.Logger
		finder.Metrics = b.Metrics

		frames, err := finder.FindMinimum(job.trace)
		records[job.idx] = MinimumRecord{
			Policy:  job.policy,
			TraceID: job.trace.ID,
			Frames:  frames,
			Err:     err,
		}
	})
	return records
}

// forEachJob executes fn over the jobs, serially or on a worker pool
func (b *Batch) forEachJob(jobs []batchJob, fn func(batchJob)) {
	if b.Workers <= 1 || len(jobs) <= 1 {
		for _, job := range jobs {
			fn(job)
		}
		return
	}

	jobChan := make(chan batchJob, len(jobs))
	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)

	var wg sync.WaitGroup
	for w := 0; w < b.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				fn(job)
			}
		}()
	}
	wg.Wait()
}

// SweepPoint is one sample of the frame-count curve for a (policy, trace)
// pair
type SweepPoint struct {
	Frames     uint32
	Faults     uint64
	Writebacks uint64
}

// SweepFrames runs one (policy, trace) pair across increasing frame counts,
// in the given increments, until a run completes without any write-back.
// Termination is guaranteed: with at least as many frames as distinct pages
// nothing is ever evicted.
func SweepFrames(kind PolicyKind, trace *Trace, step uint32, seed int64, logger *slog.Logger, metrics *Metrics) ([]SweepPoint, error) {
	if step == 0 {
		return nil, NewSimError(ErrCodeBadConfig, "SweepFrames",
			"sweep increment must be positive", nil)
	}
	if trace == nil || trace.Len() == 0 {
		id := ""
		if trace != nil {
			id = trace.ID
		}
		return nil, ErrTraceEmpty("SweepFrames", id)
	}

	var points []SweepPoint
	for frames := step; ; frames += step {
		result, err := SimulateOnce(kind, frames, trace, seed, logger, metrics)
		if err != nil {
			return nil, err
		}

		points = append(points, SweepPoint{
			Frames:     frames,
			Faults:     result.Faults,
			Writebacks: result.Writebacks,
		})

		if result.Writebacks == 0 {
			return points, nil
		}
	}
}
