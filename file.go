package tac

import (
	"fmt"
	"io"
)

// File is one input being read last line first. It owns its Content until
// Close.
type File struct {
	Name    string
	content Content
	reader  *BackwardLineReader
}

// Open opens filename for reverse reading. Failures wrap ErrOpen, or the
// option error that caused them.
func Open(filename string, opts Options) (*File, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var (
		c   Content
		err error
	)
	if dec, ok := decompressorFor(filename); ok && opts.Decompress {
		c, err = openCompressed(filename, opts.TmpDir, dec)
	} else {
		c, err = openContent(filename, opts.Strategy)
	}
	if err != nil {
		return nil, err
	}
	return newFile(filename, c, opts), nil
}

// OpenReader copies everything r produces into a spool file in
// opts.TmpDir and reads it backward. Memory use stays bounded by the chunk
// size and the longest line, however much r produces.
func OpenReader(name string, r io.Reader, opts Options) (*File, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c, err := spoolContent(r, opts.TmpDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return newFile(name, c, opts), nil
}

func newFile(name string, c Content, opts Options) *File {
	bufSize, _ := opts.bufSize()
	sep, _ := opts.separator()
	log.Info("Opened file: filename=%q size=%d bufsize=%d backing=%s", name, c.Size(), bufSize, backing(c))
	return &File{
		Name:    name,
		content: c,
		reader:  NewBackwardLineReader(c, bufSize, sep),
	}
}

// Size is the number of bytes being read, after any decompression.
func (f *File) Size() int64 {
	return f.content.Size()
}

// Next returns the next decoded line going backward, or io.EOF.
func (f *File) Next() (TextLine, error) {
	line, err := f.reader.ReadLine()
	if err != nil {
		return TextLine{}, err
	}
	return decodeLine(line), nil
}

func (f *File) Close() error {
	log.Info("Closing file: filename=%q", f.Name)
	return f.content.Close()
}
