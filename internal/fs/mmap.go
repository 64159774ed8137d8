package fs

import (
	"io"

	"golang.org/x/exp/mmap"
)

// mappedFile exposes a read-only memory mapping as an io.ReadSeekCloser.
type mappedFile struct {
	*io.SectionReader
	m *mmap.ReaderAt
}

func (f *mappedFile) Close() error { return f.m.Close() }

func openMapped(path string) (io.ReadSeekCloser, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &mappedFile{SectionReader: io.NewSectionReader(m, 0, int64(m.Len())), m: m}, nil
}
