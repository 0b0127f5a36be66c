package sim

import (
	"math/rand"
)

// RandomPolicy implements random replacement: the victim is chosen uniformly
// among resident pages. The generator is injected at construction, never a
// process-wide source, so a run with a fixed seed reproduces the same fault
// sequence and parallel batch runs stay independent.
type RandomPolicy struct {
	rng *rand.Rand
}

// Victim selects a uniformly random resident page
func (rp *RandomPolicy) Victim(ft *FrameTable) (uint32, bool) {
	occupied := make([]int, 0, len(ft.frames))
	for i := range ft.frames {
		if ft.frames[i].occupied {
			occupied = append(occupied, i)
		}
	}

	if len(occupied) == 0 {
		return 0, false
	}

	idx := occupied[rp.rng.Intn(len(occupied))]
	return ft.frames[idx].page, true
}

// Kind returns the policy variant
func (rp *RandomPolicy) Kind() PolicyKind {
	return PolicyRandom
}
