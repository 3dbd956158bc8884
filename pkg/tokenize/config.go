// SPDX-License-Identifier: AGPL-3.0-only

package tokenize

import (
	"flag"

	"github.com/pkg/errors"

	"github.com/grafana/asciidoc-scanner/pkg/scanner"
)

type Config struct {
	Scanner scanner.Config `yaml:"scanner"`

	CheckpointCacheSize int `yaml:"checkpoint_cache_size"`
	MaxTokens           int `yaml:"max_tokens"`
	// RestoreWarningSampleRate logs one in every N scanner state restore warnings. 0 logs all of them.
	RestoreWarningSampleRate int64 `yaml:"restore_warning_sample_rate"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.Scanner.RegisterFlags(f)

	f.IntVar(&cfg.CheckpointCacheSize, "tokenize.checkpoint-cache-size", 4096, "Number of line-start scanner states kept for incremental re-lexing.")
	f.IntVar(&cfg.MaxTokens, "tokenize.max-tokens", 1_000_000, "Maximum number of tokens produced for a single document. 0 to disable.")
	f.Int64Var(&cfg.RestoreWarningSampleRate, "tokenize.restore-warning-sample-rate", 10, "Log one in every N warnings about dropped scanner state. 0 to log all of them.")
}

// DefaultConfig returns a Config with the flag defaults applied.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.RegisterFlags(flag.NewFlagSet("", flag.PanicOnError))
	return cfg
}

func (cfg *Config) Validate() error {
	if err := cfg.Scanner.Validate(); err != nil {
		return errors.Wrap(err, "scanner")
	}
	if cfg.CheckpointCacheSize < 1 {
		return errors.New("checkpoint cache size must be positive")
	}
	if cfg.MaxTokens < 0 {
		return errors.New("max tokens must not be negative")
	}
	if cfg.RestoreWarningSampleRate < 0 {
		return errors.New("restore warning sample rate must not be negative")
	}
	return nil
}
