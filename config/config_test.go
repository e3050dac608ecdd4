package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/peterstace/tac"
)

func TestLoadJSON(t *testing.T) {
	cfg, err := LoadJSON("", []byte(`{"bufsize": 512, "strategy": "mmap", "unique": true, "hash": "fnv"}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{BufSize: 512, Strategy: "mmap", Unique: true, Hash: "fnv"}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Got=%+v Want=%+v", cfg, want)
	}
}

func TestLoadJSONRejectsUnknownFields(t *testing.T) {
	if _, err := LoadJSON("", []byte(`{"buffer_size": 512}`)); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tac.json")
	if err := os.WriteFile(path, []byte(`{"format": "json", "headers": true}`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Defaults()
	want.Format = "json"
	want.Headers = true
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Got=%+v Want=%+v", cfg, want)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json"), nil); err == nil {
		t.Error("missing config file accepted")
	}
}

func TestEnvOverlay(t *testing.T) {
	over, err := EnvOverlay([]string{
		"HOME=/root",
		"TAC_BUFSIZE= 64",
		"TAC_STRATEGY=mmap",
		"TAC_SEPARATOR= ",
		"TAC_FORMAT=quoted",
		"TAC_LINES=10",
		"TAC_UNKNOWN=1",
	})
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	want := Config{BufSize: 64, Strategy: "mmap", Separator: " ", Format: "quoted", Lines: 10}
	if !reflect.DeepEqual(over, want) {
		t.Errorf("Got=%+v Want=%+v", over, want)
	}
	if _, err := EnvOverlay([]string{"TAC_BUFSIZE=big"}); err == nil {
		t.Error("non-numeric TAC_BUFSIZE accepted")
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tac.json")
	if err := os.WriteFile(path, []byte(`{"bufsize": 100, "format": "json"}`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path, []string{"TAC_BUFSIZE=200"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BufSize != 200 || cfg.Format != "json" || cfg.Strategy != "read" {
		t.Errorf("Got=%+v", cfg)
	}
}

func TestOptions(t *testing.T) {
	cfg := Defaults()
	cfg.BufSize = 16
	cfg.Separator = `\x00`
	cfg.NoDecompress = true
	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.BufSize != 16 || opts.Separator != "\x00" || opts.Decompress || opts.Strategy != tac.StrategyRead || opts.Hash != tac.HashXXH3 {
		t.Errorf("Got=%+v", opts)
	}

	for _, test := range []struct {
		mutate func(*Config)
		want   error
	}{
		{func(c *Config) { c.BufSize = 0 }, tac.ErrBufSize},
		{func(c *Config) { c.Strategy = "bogus" }, tac.ErrStrategy},
		{func(c *Config) { c.Hash = "md5" }, tac.ErrHash},
		{func(c *Config) { c.Separator = "ab" }, tac.ErrSeparator},
		{func(c *Config) { c.Lines = -3 }, tac.ErrLimit},
	} {
		cfg := Defaults()
		test.mutate(&cfg)
		if _, err := cfg.Options(); !errors.Is(err, test.want) {
			t.Errorf("Got=%v Want=%v", err, test.want)
		}
	}
}

func TestUnescape(t *testing.T) {
	for _, test := range []struct {
		in, want string
	}{
		{"\n", "\n"},
		{`\n`, "\n"},
		{`\x00`, "\x00"},
		{`\t`, "\t"},
		{`\`, `\`},
		{`"`, `"`},
	} {
		if got := unescape(test.in); got != test.want {
			t.Errorf("in=%q Got=%q Want=%q", test.in, got, test.want)
		}
	}
}
