package sim

import (
	"log/slog"
)

// Predicate decides whether a run at a candidate frame count meets the
// search baseline. The minimum-memory semantics live entirely here: swapping
// the predicate changes what "minimum memory" means without touching the
// search.
type Predicate func(result *Result, trace *Trace) bool

// ColdFaultsOnly holds when every page faulted exactly once: the fault count
// equals the distinct-page count, so no capacity faults occurred. The
// smallest such frame count is the trace's working-set size.
func ColdFaultsOnly(result *Result, trace *Trace) bool {
	return result.Faults == uint64(trace.DistinctPages())
}

// NoWritebacks holds when no dirty page was evicted during the run
func NoWritebacks(result *Result, trace *Trace) bool {
	return result.Writebacks == 0
}

// Finder searches frame counts for the smallest one whose run satisfies the
// predicate, for a fixed (policy, trace) pair. Each candidate runs a full
// simulation from fresh state.
type Finder struct {
	Kind      PolicyKind
	Seed      int64
	Predicate Predicate

	// Monotone permits binary search over the frame count. Valid only when
	// the predicate outcome is monotone in the frame count, which the
	// default predicate is for stack policies (LRU, FIFO). Clear it when
	// installing a custom predicate unless monotonicity is known.
	Monotone bool

	Logger  *slog.Logger
	Metrics *Metrics
}

// NewFinder creates a finder with the working-set predicate. Binary search
// is enabled for stack policies and disabled for Random and Clock, which
// may fault non-monotonically in the frame count.
func NewFinder(kind PolicyKind, seed int64) *Finder {
	return &Finder{
		Kind:      kind,
		Seed:      seed,
		Predicate: ColdFaultsOnly,
		Monotone:  kind.HasStackProperty(),
	}
}

// FindMinimum returns the smallest frame count k, 1 <= k <= distinct pages,
// whose simulation satisfies the predicate. The distinct-page count is a
// hard upper bound for both stock predicates: with that many frames nothing
// is ever evicted, so only cold faults and no write-backs occur. A search
// that exhausts the bound signals a core bug.
func (f *Finder) FindMinimum(trace *Trace) (uint32, error) {
	if trace == nil || trace.Len() == 0 {
		id := ""
		if trace != nil {
			id = trace.ID
		}
		return 0, ErrTraceEmpty("FindMinimum", id)
	}

	bound := trace.DistinctPages()

	if f.Monotone {
		return f.bisect(trace, bound)
	}
	return f.scan(trace, bound)
}

// bisect binary-searches the smallest satisfying frame count
func (f *Finder) bisect(trace *Trace, bound uint32) (uint32, error) {
	lo, hi := uint32(1), bound
	for lo < hi {
		mid := lo + (hi-lo)/2
		ok, err := f.satisfies(trace, mid)
		if err != nil {
			return 0, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	ok, err := f.satisfies(trace, lo)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrSearchInfeasible("FindMinimum", bound)
	}
	return lo, nil
}

// scan walks frame counts from 1 upward, for policies without the stack
// property
func (f *Finder) scan(trace *Trace, bound uint32) (uint32, error) {
	for k := uint32(1); k <= bound; k++ {
		ok, err := f.satisfies(trace, k)
		if err != nil {
			return 0, err
		}
		if ok {
			return k, nil
		}
	}
	return 0, ErrSearchInfeasible("FindMinimum", bound)
}

// satisfies runs one full simulation at the candidate frame count
func (f *Finder) satisfies(trace *Trace, frames uint32) (bool, error) {
	result, err := SimulateOnce(f.Kind, frames, trace, f.Seed, f.Logger, f.Metrics)
	if err != nil {
		return false, err
	}
	return f.Predicate(result, trace), nil
}
