// Package config resolves the runtime configuration from a YAML file or
// command-line flags and offers an interactive wizard for generating one.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Input is the path of the transactions CSV. Required.
	Input string
	// Output is where the final snapshot CSV goes; empty means stdout.
	Output string
	// JournalDir enables the WAL outcome journal when non-empty.
	JournalDir string
	// Shards selects the per-client sharded run when greater than one.
	Shards int
	// LogOutcomes reports every accepted/rejected event on stderr.
	LogOutcomes bool
	// Verbose enables diagnostic logging.
	Verbose bool
}

type configYaml struct {
	Input       string `yaml:"input"`
	Output      string `yaml:"output,omitempty"`
	JournalDir  string `yaml:"journal_dir,omitempty"`
	Shards      int    `yaml:"shards,omitempty"`
	LogOutcomes bool   `yaml:"log_outcomes,omitempty"`
	Verbose     bool   `yaml:"verbose,omitempty"`
}

// Get resolves configuration from the given arguments. A --config flag
// loads a YAML file; otherwise flags apply, and a bare positional argument
// is taken as the input path (txproc transactions.csv).
func Get(args []string) (Config, error) {
	flags := pflag.NewFlagSet("txproc", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to yaml config")
	input := flags.String("input", "", "path to transactions csv")
	output := flags.String("output", "", "path for the snapshot csv (default stdout)")
	journalDir := flags.String("journal-dir", "", "directory for the outcome WAL journal (disabled when empty)")
	shards := flags.Int("shards", 1, "number of per-client shards (1 = sequential)")
	logOutcomes := flags.Bool("log-outcomes", false, "log every accepted/rejected event")
	verbose := flags.Bool("verbose", false, "enable diagnostic logging")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		return getYaml(*configPath)
	}

	cfg := Config{
		Input:       *input,
		Output:      *output,
		JournalDir:  *journalDir,
		Shards:      *shards,
		LogOutcomes: *logOutcomes,
		Verbose:     *verbose,
	}

	if cfg.Input == "" && flags.NArg() > 0 {
		cfg.Input = flags.Arg(0)
	}

	return cfg, validate(cfg)
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configYaml
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, fmt.Errorf("parse yaml config: %w", err)
	}

	cfg := Config{
		Input:       tmp.Input,
		Output:      tmp.Output,
		JournalDir:  tmp.JournalDir,
		Shards:      tmp.Shards,
		LogOutcomes: tmp.LogOutcomes,
		Verbose:     tmp.Verbose,
	}
	if cfg.Shards == 0 {
		cfg.Shards = 1
	}

	return cfg, validate(cfg)
}

func validate(cfg Config) error {
	if cfg.Input == "" {
		return fmt.Errorf("input file is required: txproc <transactions.csv> or --input")
	}
	if cfg.Shards < 1 {
		return fmt.Errorf("invalid shards value %d, must be at least 1", cfg.Shards)
	}
	return nil
}
