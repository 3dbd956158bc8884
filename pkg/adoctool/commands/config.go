// SPDX-License-Identifier: AGPL-3.0-only

package commands

import (
	"bytes"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/grafana/asciidoc-scanner/pkg/tokenize"
)

// configFlags loads the tokenizer configuration from an optional YAML file.
// Flags given on the command line take precedence over the file.
type configFlags struct {
	file string

	maxTokens    int
	maxTokensSet bool

	disabledKinds []string

	noFencedCode bool
}

func (f *configFlags) register(cmd *kingpin.CmdClause) {
	cmd.Flag("config.file", "YAML file with the tokenizer configuration.").StringVar(&f.file)
	cmd.Flag("max-tokens", "Maximum number of tokens per document. 0 to disable.").IsSetByUser(&f.maxTokensSet).IntVar(&f.maxTokens)
	cmd.Flag("disable-kind", "Token kind the scanner must never emit. May be repeated.").StringsVar(&f.disabledKinds)
	cmd.Flag("no-fenced-code", "Do not recognize backtick and tilde fences.").BoolVar(&f.noFencedCode)
}

func (f *configFlags) load() (tokenize.Config, error) {
	cfg := tokenize.DefaultConfig()

	if f.file != "" {
		buf, err := os.ReadFile(f.file)
		if err != nil {
			return tokenize.Config{}, errors.Wrap(err, "read config file")
		}
		if err := decodeConfig(buf, &cfg); err != nil {
			return tokenize.Config{}, errors.Wrapf(err, "parse config file %s", f.file)
		}
	}

	if f.maxTokensSet {
		cfg.MaxTokens = f.maxTokens
	}
	cfg.Scanner.DisabledKinds = append(cfg.Scanner.DisabledKinds, f.disabledKinds...)
	if f.noFencedCode {
		cfg.Scanner.FencedCode = false
	}

	if err := cfg.Validate(); err != nil {
		return tokenize.Config{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func decodeConfig(buf []byte, cfg *tokenize.Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
