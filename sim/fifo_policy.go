package sim

// FIFOPolicy implements FIFO (First In First Out) replacement: the victim is
// the resident page with the smallest load-order step index, ignoring any
// hits after installation. Ties break toward the smaller page number.
type FIFOPolicy struct{}

// Victim selects the earliest-installed resident page
func (fifo *FIFOPolicy) Victim(ft *FrameTable) (uint32, bool) {
	found := false
	var victim uint32
	var earliest uint64

	for i := range ft.frames {
		f := &ft.frames[i]
		if !f.occupied {
			continue
		}
		if !found || f.loadOrder < earliest || (f.loadOrder == earliest && f.page < victim) {
			found = true
			victim = f.page
			earliest = f.loadOrder
		}
	}

	return victim, found
}

// Kind returns the policy variant
func (fifo *FIFOPolicy) Kind() PolicyKind {
	return PolicyFIFO
}
