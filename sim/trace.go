package sim

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// AccessMode represents the kind of memory access in a trace record
type AccessMode uint8

const (
	Read AccessMode = iota
	Write
)

// String returns a human-readable access mode name
func (m AccessMode) String() string {
	if m == Write {
		return "Write"
	}
	return "Read"
}

const (
	// PageShift is the number of offset bits in a 32-bit virtual address.
	// Pages are 4KB: the upper 20 bits select the page.
	PageShift = 12

	// OffsetMask extracts the in-page offset from a virtual address
	OffsetMask = 0x00000FFF
)

// PageReference is one decoded trace record: a virtual address access
type PageReference struct {
	VirtualAddress uint32
	PageNumber     uint32
	Offset         uint32
	Mode           AccessMode
}

// ParseReference decodes one trace line of the form "<hex address> <R|W>"
func ParseReference(line string) (PageReference, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return PageReference{}, NewSimError(ErrCodeTraceParse, "ParseReference",
			"expected \"<hex address> <R|W>\"", nil)
	}

	addr, err := strconv.ParseUint(fields[0], 16, 32)
	if err != nil {
		return PageReference{}, NewSimError(ErrCodeTraceParse, "ParseReference",
			"bad virtual address", err)
	}

	var mode AccessMode
	switch fields[1] {
	case "R":
		mode = Read
	case "W":
		mode = Write
	default:
		return PageReference{}, NewSimError(ErrCodeTraceParse, "ParseReference",
			"access mode must be R or W", nil)
	}

	va := uint32(addr)
	return PageReference{
		VirtualAddress: va,
		PageNumber:     va >> PageShift,
		Offset:         va & OffsetMask,
		Mode:           mode,
	}, nil
}

// Trace is a finite, fully materialized sequence of page references.
// A trace is immutable after construction, so one instance can be shared
// across parallel batch runs.
type Trace struct {
	ID   string
	Refs []PageReference

	distinct uint32 // computed at construction
}

// NewTrace creates a trace from already-decoded references. The distinct-page
// count is computed up front so later reads never mutate the trace.
func NewTrace(id string, refs []PageReference) *Trace {
	seen := make(map[uint32]struct{}, len(refs))
	for _, ref := range refs {
		seen[ref.PageNumber] = struct{}{}
	}
	return &Trace{ID: id, Refs: refs, distinct: uint32(len(seen))}
}

// Len returns the number of references in the trace
func (t *Trace) Len() int {
	return len(t.Refs)
}

// DistinctPages returns the number of distinct page numbers referenced.
// This is the working-set size: the smallest frame count that avoids all
// capacity faults.
func (t *Trace) DistinctPages() uint32 {
	return t.distinct
}

// ParseTrace decodes a whole trace from a reader. Blank lines are skipped;
// any malformed line aborts the parse. An empty trace is an error.
func ParseTrace(r io.Reader, id string) (*Trace, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var refs []PageReference
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ref, err := ParseReference(line)
		if err != nil {
			return nil, ErrTraceParse("ParseTrace", lineNo, line, err)
		}
		refs = append(refs, ref)
	}

	if err := scanner.Err(); err != nil {
		return nil, ErrTraceRead("ParseTrace", id, err)
	}

	if len(refs) == 0 {
		return nil, ErrTraceEmpty("ParseTrace", id)
	}

	return NewTrace(id, refs), nil
}

// TraceID derives a trace identifier from a file path: the base name with
// any extension (including a compression suffix) stripped
func TraceID(path string) string {
	base := filepath.Base(path)
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// LoadTrace reads and decodes a trace file. Files ending in ".sz" or ".lz4"
// are transparently decompressed (snappy framing and lz4 frame format)
func LoadTrace(path string) (*Trace, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ErrTraceNotFound("LoadTrace", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	switch DetectTraceCodec(path) {
	case TraceCodecSnappy:
		r = snappy.NewReader(file)
	case TraceCodecLZ4:
		r = lz4.NewReader(file)
	}

	return ParseTrace(r, TraceID(path))
}
