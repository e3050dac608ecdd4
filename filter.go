package tac

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// HashAlg names the digest used to remember lines for Unique.
type HashAlg string

const (
	HashXXH3    HashAlg = "xxh3"    // Default, fastest
	HashFNV     HashAlg = "fnv"     // Exact, text is kept and compared
	HashBlake2b HashAlg = "blake2b" // Best distribution
)

func ParseHash(s string) (HashAlg, error) {
	switch HashAlg(s) {
	case "", HashXXH3:
		return HashXXH3, nil
	case HashFNV:
		return HashFNV, nil
	case HashBlake2b:
		return HashBlake2b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrHash, s)
	}
}

func digest(alg HashAlg, s string) uint64 {
	switch alg {
	case HashFNV:
		h := fnv.New64a()
		h.Write([]byte(s))
		return h.Sum64()
	case HashBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write([]byte(s))
		return binary.BigEndian.Uint64(h.Sum(nil))
	default:
		return xxh3.HashString(s)
	}
}

// lineFilter drops lines from one file's output. It is created per file.
type lineFilter struct {
	skipBlank bool
	re        *regexp.Regexp
	unique    bool
	sum       func(string) uint64
	// exact keeps the text of each line so a digest match is confirmed
	// before a line is dropped.
	exact bool
	seen  map[uint64][]string
}

func newLineFilter(opts Options) *lineFilter {
	f := &lineFilter{skipBlank: opts.SkipBlank, unique: opts.Unique}
	f.re, _ = opts.matcher() // checked by Validate
	if f.unique {
		alg := opts.Hash
		f.sum = func(s string) uint64 { return digest(alg, s) }
		f.exact = alg == HashFNV
		f.seen = make(map[uint64][]string)
	}
	return f
}

// keep reports whether l should be written. Unique keeps the first
// occurrence seen, which is the last one in the file. With xxh3 and blake2b
// only a digest of each line is remembered, so two distinct lines with
// colliding digests count as duplicates. With fnv the text is compared too.
func (f *lineFilter) keep(l TextLine) bool {
	if f.skipBlank && strings.TrimSpace(l.Text) == "" {
		return false
	}
	if f.re != nil && !f.re.MatchString(l.Text) {
		return false
	}
	if f.unique {
		return f.first(l.Text)
	}
	return true
}

// first records s and reports whether it had not been seen before.
func (f *lineFilter) first(s string) bool {
	d := f.sum(s)
	texts, ok := f.seen[d]
	if !f.exact {
		if !ok {
			f.seen[d] = nil
		}
		return !ok
	}
	for _, t := range texts {
		if t == s {
			return false
		}
	}
	f.seen[d] = append(texts, s)
	return true
}
