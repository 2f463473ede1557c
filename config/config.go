// Package config handles termheap.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/termheap/term"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "termheap.toml"

// Config represents a termheap.toml configuration.
type Config struct {
	Arena   ArenaConfig   `toml:"arena"`
	Symbols SymbolsConfig `toml:"symbols"`
	Binary  BinaryConfig  `toml:"binary"`
	Log     LogConfig     `toml:"log"`

	// Dir is the directory containing the termheap.toml file (set at load time).
	Dir string `toml:"-"`
}

// ArenaConfig sizes arena fragments.
type ArenaConfig struct {
	FragmentWords int `toml:"fragment-words"`
}

// SymbolsConfig tunes the atom table.
type SymbolsConfig struct {
	Threshold int `toml:"threshold"`
}

// BinaryConfig chooses between heap and reference-counted binaries.
type BinaryConfig struct {
	RefcThreshold int `toml:"refc-threshold"`
}

// LogConfig sets the log verbosity passed to commonlog.
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Arena:   ArenaConfig{FragmentWords: term.DefaultFragmentWords},
		Symbols: SymbolsConfig{Threshold: term.DefaultSymbolThreshold},
		Binary:  BinaryConfig{RefcThreshold: term.DefaultRefcThreshold},
	}
}

// Load parses a termheap.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a termheap.toml file,
// then loads and returns the configuration. Returns nil if none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	if c.Arena.FragmentWords <= 0 {
		return fmt.Errorf("arena.fragment-words must be positive, got %d", c.Arena.FragmentWords)
	}
	if c.Symbols.Threshold <= 0 {
		return fmt.Errorf("symbols.threshold must be positive, got %d", c.Symbols.Threshold)
	}
	if c.Binary.RefcThreshold < 0 {
		return fmt.Errorf("binary.refc-threshold must not be negative, got %d", c.Binary.RefcThreshold)
	}
	return nil
}

// SymbolTable returns a new atom table sized by the configuration.
func (c *Config) SymbolTable() *term.SymbolTable {
	return term.NewSymbolTable(c.Symbols.Threshold)
}

// ArenaOptions returns the arena options the configuration describes.
// Atoms go to st; a nil st keeps the process-wide default table.
func (c *Config) ArenaOptions(st *term.SymbolTable) []term.Option {
	opts := []term.Option{
		term.WithFragmentWords(c.Arena.FragmentWords),
		term.WithRefcThreshold(c.Binary.RefcThreshold),
	}
	if st != nil {
		opts = append(opts, term.WithSymbolTable(st))
	}
	return opts
}
