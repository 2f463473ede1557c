// termheap CLI - builds sample terms, copies them between arenas and prints
// what happened.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/termheap/config"
	"github.com/chazu/termheap/term"
)

func main() {
	verbosity := flag.Int("v", -1, "Log verbosity (overrides [log] verbosity)")
	configDir := flag.String("config", "", "Directory containing termheap.toml (default: search upward from .)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: termheap [options] [atoms...]\n\n")
		fmt.Fprintf(os.Stderr, "Builds a sample value, copies it with every strategy and prints the results.\n")
		fmt.Fprintf(os.Stderr, "Extra arguments are interned as atoms and included in the sample.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  termheap                    # Run with termheap.toml or defaults\n")
		fmt.Fprintf(os.Stderr, "  termheap -v 2 hello world   # Debug logging, extra atoms\n")
		fmt.Fprintf(os.Stderr, "  termheap -config ./etc      # Load ./etc/termheap.toml\n")
	}
	flag.Parse()

	cfg, err := loadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verbosity >= 0 {
		cfg.Log.Verbosity = *verbosity
	}
	commonlog.Configure(cfg.Log.Verbosity, nil)

	if err := run(os.Stdout, cfg, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads dir/termheap.toml, or searches upward from the working
// directory when dir is empty. No file means defaults.
func loadConfig(dir string) (*config.Config, error) {
	if dir != "" {
		return config.Load(dir)
	}
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, nil
}

// strategy names a copy function for the report.
type strategy struct {
	name string
	copy func(a *term.Arena, t term.Term) (term.Term, error)
	size func(t term.Term) (int, error)
}

var strategies = []strategy{
	{"copy", (*term.Arena).Copy, term.FlatSize},
	{"flat", (*term.Arena).FlatCopy, term.FlatSize},
	{"struct", (*term.Arena).StructCopy, term.StructSize},
}
