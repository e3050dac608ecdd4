package tac

import "io"

// DefaultBufSize is the chunk size used when none is configured.
const DefaultBufSize = 8192

// Chunk is the byte range [Start, End) of one backward read.
type Chunk struct {
	Start, End int64
}

func (c Chunk) Len() int {
	return int(c.End - c.Start)
}

// chunkScanner walks a Content from its end to its start in windows of at
// most bufSize bytes. The windows partition the content exactly.
type chunkScanner struct {
	content Content
	bufSize int64
	cursor  int64
}

func newChunkScanner(c Content, bufSize int) *chunkScanner {
	assert(bufSize >= 1)
	return &chunkScanner{content: c, bufSize: int64(bufSize), cursor: c.Size()}
}

// Next returns the chunk ending at the cursor and moves the cursor to its
// start. It returns io.EOF once the cursor has reached 0.
func (s *chunkScanner) Next() (Chunk, []byte, error) {
	if s.cursor == 0 {
		return Chunk{}, nil, io.EOF
	}
	chunk := Chunk{Start: max(0, s.cursor-s.bufSize), End: s.cursor}
	data, err := s.content.Slice(chunk.Start, chunk.End)
	if err != nil {
		return Chunk{}, nil, err
	}
	assert(len(data) == chunk.Len())
	log.Debug("Read chunk: start=%d end=%d", chunk.Start, chunk.End)
	s.cursor = chunk.Start
	return chunk, data, nil
}

// Cursor is the offset the next chunk will end at.
func (s *chunkScanner) Cursor() int64 {
	return s.cursor
}
