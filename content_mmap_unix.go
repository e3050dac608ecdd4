//go:build unix

package tac

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MmapContent serves ranges straight out of a read-only shared mapping of
// the file, so Slice never copies.
type MmapContent struct {
	file *os.File
	data []byte
}

func newMmapContent(f *os.File, size int64) (Content, error) {
	if size == 0 {
		// mmap(2) rejects zero-length mappings.
		return &MmapContent{file: f}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("file too large to map: %d bytes", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return &MmapContent{file: f, data: data}, nil
}

func (m *MmapContent) backing() string {
	return string(StrategyMmap)
}

func (m *MmapContent) Size() int64 {
	return int64(len(m.data))
}

func (m *MmapContent) Slice(start, end int64) ([]byte, error) {
	if start < 0 || start > end || end > int64(len(m.data)) {
		return nil, fmt.Errorf("%w: [%d, %d) outside %d mapped bytes", ErrRead, start, end, len(m.data))
	}
	return m.data[start:end], nil
}

func (m *MmapContent) Close() error {
	var err error
	if m.data != nil {
		err = unix.Munmap(m.data)
		m.data = nil
	}
	if cerr := m.file.Close(); err == nil {
		err = cerr
	}
	return err
}
