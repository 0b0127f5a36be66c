//go:build !unix

package sim

// LoadTraceMmap falls back to a plain buffered read on platforms without
// unix mmap support.
func LoadTraceMmap(path string) (*Trace, error) {
	return LoadTrace(path)
}
