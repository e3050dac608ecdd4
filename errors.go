package tac

import "errors"

// Sentinel errors. Opening and reading failures wrap their cause, so both the
// sentinel and the underlying error match with errors.Is.
var (
	ErrOpen       = errors.New("cannot open file")
	ErrRead       = errors.New("cannot read file range")
	ErrNotRegular = errors.New("not a regular file")
	ErrBufSize    = errors.New("buffer size must be at least 1")
	ErrStrategy   = errors.New("unknown backing strategy")
	ErrFormat     = errors.New("unknown output format")
	ErrHash       = errors.New("unknown hash algorithm")
	ErrSeparator  = errors.New("separator must be exactly one byte")
	ErrLimit      = errors.New("line limit must not be negative")
	ErrPattern    = errors.New("invalid match pattern")
	ErrCancelled  = errors.New("cancelled")
)

// FileError scopes a failure to a single input file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}
