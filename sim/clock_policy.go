package sim

// ClockPolicy implements second-chance (Clock) replacement. A hand sweeps
// the frames in a circle: a frame whose reference bit is set gets the bit
// cleared and is passed over; the first frame found with a clear bit is the
// victim. The table sets the bit on every touch, so recently used pages
// survive one full sweep.
//
// The hand position is the only policy state and persists across faults
// within a run.
type ClockPolicy struct {
	hand int
}

// Victim sweeps the clock hand to the first unreferenced resident page
func (cp *ClockPolicy) Victim(ft *FrameTable) (uint32, bool) {
	n := len(ft.frames)
	if n == 0 || ft.Resident() == 0 {
		return 0, false
	}

	// Two full sweeps suffice: the first clears every set bit in the worst
	// case, the second must then find a victim.
	for i := 0; i < 2*n; i++ {
		f := &ft.frames[cp.hand%n]
		if !f.occupied {
			cp.hand = (cp.hand + 1) % n
			continue
		}
		if f.referenced {
			f.referenced = false
			cp.hand = (cp.hand + 1) % n
			continue
		}

		victim := f.page
		cp.hand = (cp.hand + 1) % n
		return victim, true
	}

	return 0, false
}

// Kind returns the policy variant
func (cp *ClockPolicy) Kind() PolicyKind {
	return PolicyClock
}
