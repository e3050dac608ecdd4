package tac

import "bytes"

// Line is one logical line, without its terminator.
type Line struct {
	// Offset is the position of the line's first byte in the file.
	Offset int64
	Bytes  []byte
	// Terminated is false only for a last physical line that has no
	// terminator after it.
	Terminated bool
}

// Tail is the pending end of a line whose start has not been read yet. Its
// bytes live at the back of buf, so prepending the next (earlier) piece
// only copies that piece. A Tail value must be prepended to at most once;
// continue with the returned value.
type Tail struct {
	buf []byte
	off int
}

func (t Tail) Len() int {
	return len(t.buf) - t.off
}

// Bytes returns the pending bytes in file order.
func (t Tail) Bytes() []byte {
	return t.buf[t.off:]
}

// prepend returns the tail with a copy of p placed in front of it.
func (t Tail) prepend(p []byte) Tail {
	if len(p) == 0 {
		return t
	}
	if t.off < len(p) {
		n := t.Len()
		size := 2*len(t.buf) + len(p)
		buf := make([]byte, size)
		copy(buf[size-n:], t.Bytes())
		t = Tail{buf: buf, off: size - n}
	}
	t.off -= len(p)
	copy(t.buf[t.off:], p)
	return t
}

// join returns head followed by the tail's bytes. head is returned as is
// when the tail is empty.
func (t Tail) join(head []byte) []byte {
	switch {
	case t.Len() == 0:
		return head
	case len(head) == 0:
		return t.Bytes()
	}
	out := make([]byte, 0, len(head)+t.Len())
	out = append(out, head...)
	return append(out, t.Bytes()...)
}

// assemble splits one chunk into the lines it completes, physically last
// line first. tail holds the bytes already read after the chunk that are
// still waiting for their start. The chunk's bytes before its first
// separator are returned as the new tail.
//
// Lines may alias data, so they are only valid while data is.
func assemble(chunk Chunk, data []byte, tail Tail, sep byte) ([]Line, Tail) {
	var lines []Line
	rest := data
	for {
		i := bytes.LastIndexByte(rest, sep)
		if i < 0 {
			break
		}
		lines = append(lines, Line{
			Offset:     chunk.Start + int64(i) + 1,
			Bytes:      tail.join(rest[i+1:]),
			Terminated: true,
		})
		tail = Tail{}
		rest = rest[:i]
	}
	return lines, tail.prepend(rest)
}

// finish resolves the tail left over once the start of the file is reached.
// A non-empty file always has a first line, even an empty one.
func finish(tail Tail, size int64) (Line, bool) {
	if size == 0 {
		assert(tail.Len() == 0)
		return Line{}, false
	}
	return Line{Offset: 0, Bytes: tail.join(nil), Terminated: true}, true
}
