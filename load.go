package tac

import (
	"fmt"
	"io"
)

// LastLines returns up to count lines from the end of filename, last line
// first. Only the chunks holding those lines are read.
func LastLines(filename string, count int, opts Options) ([]TextLine, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrLimit, count)
	}
	f, err := Open(filename, opts)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := make([]TextLine, 0, count)
	for len(lines) < count {
		line, err := f.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
