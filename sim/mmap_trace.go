//go:build unix

package sim

import (
	"bytes"
	"os"

	"golang.org/x/sys/unix"
)

// LoadTraceMmap provides zero-copy trace loading using memory-mapped files.
// Large traces are parsed straight out of the page cache instead of being
// read through a heap buffer first. Compressed traces need a streaming
// decode and fall back to LoadTrace.
func LoadTraceMmap(path string) (*Trace, error) {
	if DetectTraceCodec(path) != TraceCodecNone {
		return LoadTrace(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrTraceNotFound("LoadTraceMmap", path, err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, ErrTraceNotFound("LoadTraceMmap", path, err)
	}

	size := fileInfo.Size()
	if size == 0 {
		return nil, ErrTraceEmpty("LoadTraceMmap", TraceID(path))
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, NewSimError(ErrCodeTraceNotFound, "LoadTraceMmap",
			"failed to map trace file", err)
	}
	defer unix.Munmap(data)

	// The trace is fully materialized by ParseTrace, so the mapping can be
	// dropped before returning.
	return ParseTrace(bytes.NewReader(data), TraceID(path))
}
