package tac

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// StdinPath names standard input in a path list.
const StdinPath = "-"

// Run writes the lines of each path to sink, last line first, one file after
// the other in the order given. A file that cannot be opened or read is
// recorded in failed and the run moves on to the next path. An error from
// the sink, or cancellation through opts.Cancel, ends the run and is
// returned as err.
func Run(paths []string, opts Options, sink Sink) (failed []*FileError, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	defer func() {
		if ferr := sink.Flush(); err == nil {
			err = ferr
		}
		log.Flush()
	}()

	for _, path := range paths {
		if opts.Cancel.Cancelled() {
			return failed, ErrCancelled
		}
		ferr, serr := reverseFile(path, opts, sink)
		if serr != nil {
			return failed, serr
		}
		if ferr != nil {
			log.Warn("Could not reverse file: filename=%q reason=%q", path, ferr)
			failed = append(failed, &FileError{Path: path, Err: ferr})
		}
		if err := sink.Flush(); err != nil {
			return failed, err
		}
		log.Flush()
	}
	return failed, nil
}

// fatalError marks failures that end the whole run rather than one file:
// output errors and cancellation.
type fatalError struct {
	err error
}

func (e fatalError) Error() string { return e.err.Error() }
func (e fatalError) Unwrap() error { return e.err }

// reverseFile drains one file into sink. It returns the file's own failure
// and, separately, any failure that ends the run.
func reverseFile(path string, opts Options, sink Sink) (fileErr, runErr error) {
	var (
		f   *File
		err error
	)
	if path == StdinPath {
		stdin := opts.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		f, err = OpenReader("stdin", stdin, opts)
	} else {
		f, err = Open(path, opts)
	}
	if err != nil {
		return err, nil
	}

	err = drain(f, path, newLineFilter(opts), opts, sink)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close: %w", cerr)
	}
	var fe fatalError
	if errors.As(err, &fe) {
		return nil, fe.err
	}
	return err, nil
}

// drain stops early once opts.Limit lines have been written, leaving the
// rest of the file unread.
func drain(f *File, path string, filter *lineFilter, opts Options, sink Sink) error {
	if err := sink.File(path); err != nil {
		return fatalError{err}
	}
	var read, written int
	for opts.Limit == 0 || written < opts.Limit {
		if opts.Cancel.Cancelled() {
			log.Warn("Cancelled: filename=%q read=%d written=%d", path, read, written)
			return fatalError{ErrCancelled}
		}
		line, err := f.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		read++
		if !filter.keep(line) {
			continue
		}
		if err := sink.Line(path, line); err != nil {
			return fatalError{err}
		}
		written++
	}
	log.Info("Reversed file: filename=%q read=%d written=%d", path, read, written)
	return nil
}
