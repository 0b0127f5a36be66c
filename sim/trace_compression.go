package sim

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// TraceCodec represents the compression algorithm used for a trace file
type TraceCodec uint8

const (
	TraceCodecNone   TraceCodec = 0
	TraceCodecSnappy TraceCodec = 1
	TraceCodecLZ4    TraceCodec = 2
)

// String returns the codec name
func (c TraceCodec) String() string {
	switch c {
	case TraceCodecSnappy:
		return "snappy"
	case TraceCodecLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// Extension returns the file suffix appended to compressed trace files
func (c TraceCodec) Extension() string {
	switch c {
	case TraceCodecSnappy:
		return ".sz"
	case TraceCodecLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// DetectTraceCodec identifies the compression codec from a file path
func DetectTraceCodec(path string) TraceCodec {
	switch filepath.Ext(path) {
	case ".sz":
		return TraceCodecSnappy
	case ".lz4":
		return TraceCodecLZ4
	default:
		return TraceCodecNone
	}
}

// nopWriteCloser wraps a plain writer with a no-op Close
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewTraceWriter wraps w with the given codec's framing writer.
// The returned writer must be closed to flush the final frame.
func NewTraceWriter(w io.Writer, codec TraceCodec) (io.WriteCloser, error) {
	switch codec {
	case TraceCodecNone:
		return nopWriteCloser{w}, nil
	case TraceCodecSnappy:
		return snappy.NewBufferedWriter(w), nil
	case TraceCodecLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported trace codec: %d", codec)
	}
}

// CompressTraceFile rewrites a plain trace file in compressed form at dst.
// The source is validated as a parseable trace before compression so a
// corrupt input is rejected instead of archived.
func CompressTraceFile(src, dst string, codec TraceCodec) error {
	if _, err := LoadTrace(src); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open trace %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	cw, err := NewTraceWriter(out, codec)
	if err != nil {
		out.Close()
		return err
	}

	if _, err := io.Copy(cw, in); err != nil {
		cw.Close()
		out.Close()
		return fmt.Errorf("failed to compress trace: %w", err)
	}

	if err := cw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to flush compressed trace: %w", err)
	}

	return out.Close()
}
