package sim

import (
	"math/rand"
)

// PolicyKind identifies a replacement policy variant. The set is closed:
// adding a policy means adding a kind plus one arm in NewPolicy.
type PolicyKind uint8

const (
	PolicyLRU PolicyKind = iota
	PolicyFIFO
	PolicyRandom
	PolicyClock
)

// String returns the policy identifier used in configuration and output
func (k PolicyKind) String() string {
	switch k {
	case PolicyLRU:
		return "lru"
	case PolicyFIFO:
		return "fifo"
	case PolicyRandom:
		return "random"
	case PolicyClock:
		return "clock"
	default:
		return "unknown"
	}
}

// ParsePolicyKind resolves a policy identifier
func ParsePolicyKind(name string) (PolicyKind, error) {
	switch name {
	case "lru":
		return PolicyLRU, nil
	case "fifo":
		return PolicyFIFO, nil
	case "random":
		return PolicyRandom, nil
	case "clock":
		return PolicyClock, nil
	default:
		return PolicyLRU, ErrUnknownPolicy("ParsePolicyKind", name)
	}
}

// AllPolicyKinds lists every variant, in the order batch modes iterate them
func AllPolicyKinds() []PolicyKind {
	return []PolicyKind{PolicyLRU, PolicyFIFO, PolicyRandom, PolicyClock}
}

// HasStackProperty reports whether the working-set search may bisect over
// the frame count for this policy. LRU keeps the stack property outright.
// FIFO faults can rise with more frames (Belady's anomaly), but a FIFO run
// with only cold faults stays cold-fault-only at every larger frame count,
// which is all the finder's default predicate needs. Random and Clock give
// no such guarantee, so searches over their frame counts must scan.
func (k PolicyKind) HasStackProperty() bool {
	return k == PolicyLRU || k == PolicyFIFO
}

// Policy chooses a victim among currently resident pages
// Allows different algorithms (LRU, FIFO, Random, Clock)
type Policy interface {
	// Victim selects the resident page to evict. Callable only when the
	// frame table is full and a fault occurred for a non-resident page.
	// Must return a currently resident page.
	Victim(ft *FrameTable) (uint32, bool)

	// Kind returns the policy variant
	Kind() PolicyKind
}

// NewPolicy creates a fresh policy instance for a single run. The generator
// is injected so random runs are reproducible under a fixed seed; only the
// random policy consumes it. No policy instance is reused across runs.
func NewPolicy(kind PolicyKind, rng *rand.Rand) (Policy, error) {
	switch kind {
	case PolicyLRU:
		return &LRUPolicy{}, nil
	case PolicyFIFO:
		return &FIFOPolicy{}, nil
	case PolicyRandom:
		if rng == nil {
			return nil, NewSimError(ErrCodeBadConfig, "NewPolicy",
				"random policy requires a seeded generator", nil)
		}
		return &RandomPolicy{rng: rng}, nil
	case PolicyClock:
		return &ClockPolicy{}, nil
	default:
		return nil, ErrUnknownPolicy("NewPolicy", kind.String())
	}
}
