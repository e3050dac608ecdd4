// Package config assembles the tac settings from defaults, an optional JSON
// file and TAC_* environment variables. Command line flags are applied on
// top by the caller with Merge.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/peterstace/tac"
)

// Config is read once at startup. JSON keys are snake_case and unknown keys
// are rejected.
type Config struct {
	BufSize      int    `json:"bufsize"`
	Strategy     string `json:"strategy"`
	Separator    string `json:"separator"`
	Format       string `json:"format"`
	Headers      bool   `json:"headers"`
	SkipBlank    bool   `json:"skip_blank"`
	Match        string `json:"match"`
	Unique       bool   `json:"unique"`
	Hash         string `json:"hash"`
	Lines        int    `json:"lines"`
	NoDecompress bool   `json:"no_decompress"`
	TmpDir       string `json:"tmpdir"`
	DebugLogfile string `json:"debug_logfile"`
}

func Defaults() Config {
	return Config{
		BufSize:   tac.DefaultBufSize,
		Strategy:  string(tac.StrategyRead),
		Separator: "\n",
		Format:    string(tac.FormatText),
		Hash:      string(tac.HashXXH3),
	}
}

// LoadJSON parses a Config from raw when given, otherwise from the file at
// path.
func LoadJSON(path string, raw []byte) (Config, error) {
	var cfg Config
	var r io.Reader
	switch {
	case len(raw) > 0:
		r = bytes.NewReader(raw)
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		r = f
	default:
		return cfg, errors.New("no config source provided")
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

const envPrefix = "TAC_"

// EnvOverlay builds an override from TAC_* entries of environ. Unknown keys
// are ignored.
func EnvOverlay(environ []string) (Config, error) {
	var over Config
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		key, val, ok := strings.Cut(strings.TrimPrefix(kv, envPrefix), "=")
		if !ok {
			continue
		}
		switch key {
		case "BUFSIZE":
			n, err := strconv.Atoi(strings.TrimSpace(val))
			if err != nil {
				return over, fmt.Errorf("%sBUFSIZE: %w", envPrefix, err)
			}
			over.BufSize = n
		case "STRATEGY":
			over.Strategy = strings.TrimSpace(val)
		case "SEPARATOR":
			// Not trimmed: the separator may itself be whitespace.
			over.Separator = val
		case "FORMAT":
			over.Format = strings.TrimSpace(val)
		case "MATCH":
			over.Match = val
		case "HASH":
			over.Hash = strings.TrimSpace(val)
		case "LINES":
			n, err := strconv.Atoi(strings.TrimSpace(val))
			if err != nil {
				return over, fmt.Errorf("%sLINES: %w", envPrefix, err)
			}
			over.Lines = n
		case "TMPDIR":
			over.TmpDir = val
		case "DEBUG_LOGFILE":
			over.DebugLogfile = val
		}
	}
	return over, nil
}

// Merge returns base with every non-zero field of over applied.
func Merge(base, over Config) Config {
	out := base
	if over.BufSize != 0 {
		out.BufSize = over.BufSize
	}
	if over.Strategy != "" {
		out.Strategy = over.Strategy
	}
	if over.Separator != "" {
		out.Separator = over.Separator
	}
	if over.Format != "" {
		out.Format = over.Format
	}
	if over.Match != "" {
		out.Match = over.Match
	}
	if over.Hash != "" {
		out.Hash = over.Hash
	}
	if over.Lines != 0 {
		out.Lines = over.Lines
	}
	if over.TmpDir != "" {
		out.TmpDir = over.TmpDir
	}
	if over.DebugLogfile != "" {
		out.DebugLogfile = over.DebugLogfile
	}
	out.Headers = out.Headers || over.Headers
	out.SkipBlank = out.SkipBlank || over.SkipBlank
	out.Unique = out.Unique || over.Unique
	out.NoDecompress = out.NoDecompress || over.NoDecompress
	return out
}

// Load applies the JSON file at path (if any) and the environment on top of
// the defaults.
func Load(path string, environ []string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		file, err := LoadJSON(path, nil)
		if err != nil {
			return cfg, err
		}
		cfg = Merge(cfg, file)
	}
	env, err := EnvOverlay(environ)
	if err != nil {
		return cfg, err
	}
	return Merge(cfg, env), nil
}

// Options validates the reading settings and converts them.
func (c Config) Options() (tac.Options, error) {
	if c.BufSize < 1 {
		return tac.Options{}, fmt.Errorf("%w: %d", tac.ErrBufSize, c.BufSize)
	}
	strategy, err := tac.ParseStrategy(c.Strategy)
	if err != nil {
		return tac.Options{}, err
	}
	hash, err := tac.ParseHash(c.Hash)
	if err != nil {
		return tac.Options{}, err
	}
	opts := tac.Options{
		BufSize:    c.BufSize,
		Strategy:   strategy,
		Separator:  unescape(c.Separator),
		SkipBlank:  c.SkipBlank,
		Match:      c.Match,
		Unique:     c.Unique,
		Hash:       hash,
		Limit:      c.Lines,
		Decompress: !c.NoDecompress,
		TmpDir:     c.TmpDir,
	}
	return opts, opts.Validate()
}

// unescape lets a separator be given as a Go escape such as \x00 or \t.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	u, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return u
}

// OutputFormat validates the output format.
func (c Config) OutputFormat() (tac.Format, error) {
	return tac.ParseFormat(c.Format)
}
