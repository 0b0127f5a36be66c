package sim

// Frame represents one physical memory slot and the per-slot metadata the
// replacement policies read
type Frame struct {
	page       uint32
	occupied   bool
	loadOrder  uint64 // step index at install time (FIFO order)
	lastUsed   uint64 // step index of the most recent access (LRU order)
	referenced bool   // second-chance bit (Clock)
	dirty      bool   // modified since install, costs a write-back on eviction
}

// Page returns the occupant page number. Only meaningful while occupied.
func (f *Frame) Page() uint32 { return f.page }

// Occupied reports whether the frame holds a page
func (f *Frame) Occupied() bool { return f.occupied }

// FrameTable is the resident-page state for one simulation run: a fixed
// number of frames plus a page-to-frame index. At most Capacity() frames are
// occupied and a page is resident in at most one frame.
//
// The table is created empty, mutated on every reference, and discarded when
// the run ends. It is not safe for concurrent use; each run owns its own.
type FrameTable struct {
	frames   []Frame
	resident map[uint32]int // page number -> frame index
}

// NewFrameTable creates an empty frame table with the given capacity
func NewFrameTable(capacity uint32) *FrameTable {
	return &FrameTable{
		frames:   make([]Frame, capacity),
		resident: make(map[uint32]int, capacity),
	}
}

// Capacity returns the configured frame count
func (ft *FrameTable) Capacity() uint32 {
	return uint32(len(ft.frames))
}

// Resident returns the number of occupied frames
func (ft *FrameTable) Resident() int {
	return len(ft.resident)
}

// Lookup reports whether the page currently occupies a frame. No side effects.
func (ft *FrameTable) Lookup(page uint32) bool {
	_, ok := ft.resident[page]
	return ok
}

// IsFull reports whether all frames are occupied
func (ft *FrameTable) IsFull() bool {
	return len(ft.resident) == len(ft.frames)
}

// Install records the page as occupant of an empty frame with both order
// indices set to the current step. The caller must evict first when the
// table is full; violating that is a core bug, not a recoverable condition.
func (ft *FrameTable) Install(page uint32, step uint64) error {
	if ft.Lookup(page) {
		return ErrPageResident("Install", page)
	}

	for i := range ft.frames {
		if ft.frames[i].occupied {
			continue
		}
		ft.frames[i] = Frame{
			page:      page,
			occupied:  true,
			loadOrder: step,
			lastUsed:  step,
		}
		ft.resident[page] = i
		return nil
	}

	return ErrTableFull("Install", page)
}

// Touch updates the recency metadata for a resident page: last-used index,
// the reference bit, and the dirty bit on a write. FIFO and Random ignore
// recency but the update is harmless, so the engine always performs it.
func (ft *FrameTable) Touch(page uint32, step uint64, mode AccessMode) error {
	idx, ok := ft.resident[page]
	if !ok {
		return ErrPageNotResident("Touch", page)
	}

	ft.frames[idx].lastUsed = step
	ft.frames[idx].referenced = true
	if mode == Write {
		ft.frames[idx].dirty = true
	}
	return nil
}

// Evict marks the frame holding the page empty and reports whether the
// evicted page was dirty (a simulated disk write-back)
func (ft *FrameTable) Evict(page uint32) (bool, error) {
	idx, ok := ft.resident[page]
	if !ok {
		return false, ErrPageNotResident("Evict", page)
	}

	dirty := ft.frames[idx].dirty
	ft.frames[idx] = Frame{}
	delete(ft.resident, page)
	return dirty, nil
}

// ResidentPages returns the currently resident page numbers in frame order
func (ft *FrameTable) ResidentPages() []uint32 {
	pages := make([]uint32, 0, len(ft.resident))
	for i := range ft.frames {
		if ft.frames[i].occupied {
			pages = append(pages, ft.frames[i].page)
		}
	}
	return pages
}
