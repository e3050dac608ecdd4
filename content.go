package tac

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Content is random access to the bytes of one input. Slices returned by
// Slice are only valid until the next call to Slice or Close.
type Content interface {
	Size() int64
	Slice(start, end int64) ([]byte, error)
	Close() error
}

// backing names how a Content gets its bytes, for logging.
func backing(c Content) string {
	if b, ok := c.(interface{ backing() string }); ok {
		return b.backing()
	}
	return fmt.Sprintf("%T", c)
}

// Strategy selects how a file's bytes are accessed.
type Strategy string

const (
	StrategyRead Strategy = "read"
	StrategyMmap Strategy = "mmap"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyRead:
		return StrategyRead, nil
	case StrategyMmap:
		return StrategyMmap, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrStrategy, s)
	}
}

// openContent opens filename for backward reading. Anything that is not a
// regular file is rejected up front, since its size is not meaningful.
func openContent(filename string, strategy Strategy) (Content, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, ErrNotRegular)
	}

	switch strategy {
	case StrategyMmap:
		c, err := newMmapContent(f, fi.Size())
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %w", ErrOpen, err)
		}
		return c, nil
	case StrategyRead, "":
		return newFileContent(f, fi.Size()), nil
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %q", ErrStrategy, strategy)
	}
}

// FileContent serves ranges with positioned reads into a single buffer that
// is reused across calls.
type FileContent struct {
	file *os.File
	size int64
	buf  []byte
	kind string

	// onClose runs after the file is closed. Used to remove spool files.
	onClose func() error
}

func newFileContent(f *os.File, size int64) *FileContent {
	return &FileContent{file: f, size: size, kind: string(StrategyRead)}
}

func (f *FileContent) backing() string {
	return f.kind
}

func (f *FileContent) Size() int64 {
	return f.size
}

func (f *FileContent) Slice(start, end int64) ([]byte, error) {
	assert(0 <= start && start <= end && end <= f.size)
	n := int(end - start)
	if cap(f.buf) < n {
		f.buf = make([]byte, n)
	}
	buf := f.buf[:n]
	got, err := f.file.ReadAt(buf, start)
	if got == n {
		return buf, nil
	}
	if err == nil || err == io.EOF {
		// The file shrank after it was opened.
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("%w: [%d, %d): %w", ErrRead, start, end, err)
}

func (f *FileContent) Close() error {
	err := f.file.Close()
	if f.onClose != nil {
		if cerr := f.onClose(); err == nil {
			err = cerr
		}
	}
	return err
}

// BufferContent holds the whole input in memory.
type BufferContent struct {
	buf bytes.Buffer
}

func NewBufferContent() *BufferContent {
	return &BufferContent{}
}

// ReadFrom appends everything r produces until EOF.
func (b *BufferContent) ReadFrom(r io.Reader) (int64, error) {
	return b.buf.ReadFrom(r)
}

func (b *BufferContent) Size() int64 {
	return int64(b.buf.Len())
}

func (b *BufferContent) Slice(start, end int64) ([]byte, error) {
	data := b.buf.Bytes()
	if start < 0 || start > end || end > int64(len(data)) {
		return nil, fmt.Errorf("%w: [%d, %d) outside %d bytes", ErrRead, start, end, len(data))
	}
	return data[start:end], nil
}

func (b *BufferContent) backing() string {
	return "memory"
}

func (b *BufferContent) Close() error {
	b.buf.Reset()
	return nil
}
