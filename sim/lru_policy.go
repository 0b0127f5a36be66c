package sim

// LRUPolicy implements LRU (Least Recently Used) replacement: the victim is
// the resident page with the smallest last-used step index. Step indices are
// unique, but ties break toward the smaller page number so victim selection
// stays deterministic under any driving.
type LRUPolicy struct{}

// Victim selects the least-recently-used resident page
func (lru *LRUPolicy) Victim(ft *FrameTable) (uint32, bool) {
	found := false
	var victim uint32
	var oldest uint64

	for i := range ft.frames {
		f := &ft.frames[i]
		if !f.occupied {
			continue
		}
		if !found || f.lastUsed < oldest || (f.lastUsed == oldest && f.page < victim) {
			found = true
			victim = f.page
			oldest = f.lastUsed
		}
	}

	return victim, found
}

// Kind returns the policy variant
func (lru *LRUPolicy) Kind() PolicyKind {
	return PolicyLRU
}
