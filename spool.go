package tac

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// A stream has no backward access, so compressed inputs and stdin are
// copied into a temporary spool file first and read from there.

type decompressor func(io.Reader) (io.ReadCloser, error)

func zstdReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

func gzipReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// decompressorFor picks a decompressor from the file extension.
func decompressorFor(filename string) (decompressor, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zst", ".zstd":
		return zstdReader, true
	case ".gz":
		return gzipReader, true
	default:
		return nil, false
	}
}

func openCompressed(filename, tmpDir string, dec decompressor) (Content, error) {
	src, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer src.Close()

	fi, err := src.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %w", ErrOpen, ErrNotRegular)
	}

	rc, err := dec(src)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrOpen, err)
	}
	defer rc.Close()

	c, err := spoolContent(rc, tmpDir)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrOpen, err)
	}
	log.Debug("Spooled compressed file: filename=%q size=%d", filename, c.Size())
	return c, nil
}

// spoolContent copies r to a temporary file in tmpDir and reads it from
// there. The file is removed when the content is closed.
func spoolContent(r io.Reader, tmpDir string) (*FileContent, error) {
	f, size, err := spool(r, tmpDir)
	if err != nil {
		return nil, err
	}
	c := newFileContent(f, size)
	c.kind = "spool"
	name := f.Name()
	c.onClose = func() error { return os.Remove(name) }
	return c, nil
}

// spool copies r into a new temporary file in dir and returns it together
// with the number of bytes written. The caller owns removing the file.
func spool(r io.Reader, dir string) (*os.File, int64, error) {
	f, err := os.CreateTemp(dir, "tac-spool-*")
	if err != nil {
		return nil, 0, err
	}
	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, 0, err
	}
	return f, n, nil
}
