package tac

import (
	"fmt"
	"io"
	"regexp"
)

// Options configures how files are opened, read and filtered.
type Options struct {
	// BufSize is the chunk size in bytes. Zero selects DefaultBufSize.
	BufSize  int
	Strategy Strategy
	// Separator is the single line terminator byte. Empty means "\n".
	Separator string

	SkipBlank bool
	Unique    bool
	Hash      HashAlg
	// Match keeps only lines matching this regular expression (RE2 syntax).
	Match string
	// Limit stops each file after that many lines have been written. Zero
	// means no limit.
	Limit int

	// Decompress spools .zst and .gz inputs through a temporary file in
	// TmpDir (the system default when empty).
	Decompress bool
	TmpDir     string

	// Stdin is read for the path "-".
	Stdin io.Reader
	// Cancel ends the run with ErrCancelled once set. May be nil.
	Cancel *Cancellable
}

func DefaultOptions() Options {
	return Options{
		BufSize:    DefaultBufSize,
		Strategy:   StrategyRead,
		Separator:  "\n",
		Hash:       HashXXH3,
		Decompress: true,
	}
}

func (o Options) bufSize() (int, error) {
	switch {
	case o.BufSize == 0:
		return DefaultBufSize, nil
	case o.BufSize < 1:
		return 0, fmt.Errorf("%w: %d", ErrBufSize, o.BufSize)
	}
	return o.BufSize, nil
}

func (o Options) separator() (byte, error) {
	switch len(o.Separator) {
	case 0:
		return '\n', nil
	case 1:
		return o.Separator[0], nil
	}
	return 0, fmt.Errorf("%w: %q", ErrSeparator, o.Separator)
}

func (o Options) matcher() (*regexp.Regexp, error) {
	if o.Match == "" {
		return nil, nil
	}
	re, err := regexp.Compile(o.Match)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPattern, err)
	}
	return re, nil
}

// Sep is the terminator byte, '\n' when Separator is empty. Only meaningful
// for validated options.
func (o Options) Sep() byte {
	sep, _ := o.separator()
	return sep
}

// Validate reports the first invalid setting.
func (o Options) Validate() error {
	if _, err := o.bufSize(); err != nil {
		return err
	}
	if _, err := o.separator(); err != nil {
		return err
	}
	if _, err := o.matcher(); err != nil {
		return err
	}
	if o.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrLimit, o.Limit)
	}
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	if o.Unique {
		if _, err := ParseHash(string(o.Hash)); err != nil {
			return err
		}
	}
	return nil
}
