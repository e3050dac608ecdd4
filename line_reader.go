package tac

import "io"

// BackwardLineReader yields the lines of a Content from last to first.
type BackwardLineReader struct {
	scanner *chunkScanner
	sep     byte
	size    int64

	tail    Tail
	pending []Line // completed lines from the current chunk, next one first
	started bool   // the first chunk has been read
	emitted bool   // at least one line has been returned
	endsSep bool   // the content ends with sep
	done    bool
	err     error
}

func NewBackwardLineReader(c Content, bufSize int, sep byte) *BackwardLineReader {
	return &BackwardLineReader{
		scanner: newChunkScanner(c, bufSize),
		sep:     sep,
		size:    c.Size(),
	}
}

// ReadLine returns the next line going backward, or io.EOF once the start of
// the content has been passed. The returned bytes are only valid until the
// next call. A read error is final: every later call returns it again.
func (b *BackwardLineReader) ReadLine() (Line, error) {
	for len(b.pending) == 0 {
		if b.err != nil {
			return Line{}, b.err
		}
		if b.done {
			return Line{}, io.EOF
		}
		b.err = b.fill()
	}
	line := b.pending[0]
	b.pending = b.pending[1:]
	if !b.emitted {
		line.Terminated = b.endsSep
		b.emitted = true
	}
	return line, nil
}

func (b *BackwardLineReader) fill() error {
	chunk, data, err := b.scanner.Next()
	if err == io.EOF {
		b.done = true
		if line, ok := finish(b.tail, b.size); ok {
			b.pending = append(b.pending[:0], line)
		}
		b.tail = Tail{}
		return nil
	}
	if err != nil {
		return err
	}
	if !b.started {
		b.started = true
		// A separator at the very end closes the last line rather than
		// opening an empty one after it.
		if n := len(data); n > 0 && data[n-1] == b.sep {
			b.endsSep = true
			data = data[:n-1]
			chunk.End--
		}
	}
	b.pending, b.tail = assemble(chunk, data, b.tail, b.sep)
	return nil
}
