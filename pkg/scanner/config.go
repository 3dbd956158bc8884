// SPDX-License-Identifier: AGPL-3.0-only

package scanner

import (
	"flag"
	"strings"

	"github.com/pkg/errors"
)

// Config holds the scanner limits and the token kinds the grammar supports.
type Config struct {
	// MaxLineLength bounds every scan that walks to the end of a line.
	MaxLineLength int `yaml:"max_line_length"`
	// MaxMarkerRun bounds fence marker runs. Break runs are bounded by MaxLineLength.
	MaxMarkerRun int `yaml:"max_marker_run"`
	// MaxDigits bounds the digit run of an ordered list marker or callout.
	MaxDigits int `yaml:"max_digits"`
	// MaxBracketContent bounds directive names and bracket contents.
	MaxBracketContent int `yaml:"max_bracket_content"`
	// MaxIndent bounds leading indentation skipped before list markers.
	MaxIndent int `yaml:"max_indent"`

	// FencedCode enables backtick and tilde fences.
	FencedCode bool `yaml:"fenced_code"`

	// DisabledKinds lists token kinds the grammar does not declare. They are
	// never emitted even when requested.
	DisabledKinds []string `yaml:"disabled_kinds"`
}

// RegisterFlags registers the scanner flags.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("scanner.", f)
}

func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.IntVar(&cfg.MaxLineLength, prefix+"max-line-length", 4096, "Maximum number of characters examined on a single line.")
	f.IntVar(&cfg.MaxMarkerRun, prefix+"max-marker-run", 255, "Maximum length of a fence marker run. A line with a longer run is never a fence.")
	f.IntVar(&cfg.MaxDigits, prefix+"max-digits", 9, "Maximum number of digits in an ordered list marker or callout.")
	f.IntVar(&cfg.MaxBracketContent, prefix+"max-bracket-content", 1024, "Maximum length of directive attribute names and bracket contents.")
	f.IntVar(&cfg.MaxIndent, prefix+"max-indent", 64, "Maximum indentation skipped before a list marker.")
	f.BoolVar(&cfg.FencedCode, prefix+"fenced-code", true, "Recognize backtick and tilde fenced code blocks.")
	f.Func(prefix+"disabled-kinds", "Comma separated list of token kinds never emitted by the scanner.", func(s string) error {
		cfg.DisabledKinds = nil
		for _, name := range strings.Split(s, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.DisabledKinds = append(cfg.DisabledKinds, name)
			}
		}
		return nil
	})
}

// DefaultConfig returns a Config with the flag defaults applied.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.RegisterFlags(flag.NewFlagSet("", flag.PanicOnError))
	return cfg
}

func (cfg *Config) Validate() error {
	if cfg.MaxLineLength < 1 {
		return errors.New("max line length must be positive")
	}
	if cfg.MaxMarkerRun < 4 || cfg.MaxMarkerRun > 255 {
		return errors.New("max marker run must be between 4 and 255")
	}
	if cfg.MaxDigits < 1 {
		return errors.New("max digits must be positive")
	}
	if cfg.MaxBracketContent < 1 {
		return errors.New("max bracket content must be positive")
	}
	if cfg.MaxIndent < 0 {
		return errors.New("max indent must not be negative")
	}
	if _, err := cfg.supported(); err != nil {
		return err
	}
	return nil
}

func (cfg *Config) supported() (KindSet, error) {
	supported := AllKinds
	for _, name := range cfg.DisabledKinds {
		k, err := ParseKind(name)
		if err != nil {
			return 0, errors.Wrap(err, "invalid disabled kind")
		}
		supported = supported.Without(k)
	}
	if !cfg.FencedCode {
		supported = supported.Without(FencedCodeStart).Without(FencedCodeEnd)
	}
	return supported, nil
}
