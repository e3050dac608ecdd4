//go:build !unix

package tac

import "os"

// Without mmap support the mapping strategy degrades to positioned reads.
func newMmapContent(f *os.File, size int64) (Content, error) {
	return newFileContent(f, size), nil
}
