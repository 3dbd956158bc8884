// SPDX-License-Identifier: AGPL-3.0-only

package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/concurrency"
	"github.com/grafana/dskit/multierror"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/colorstring"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/grafana/asciidoc-scanner/pkg/tokenize"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokensCommand prints the token streams of AsciiDoc documents.
type TokensCommand struct {
	logConfig *LoggerConfig
	printer   Printer
	reg       prometheus.Registerer

	config       configFlags
	files        []string
	format       string
	color        bool
	externalOnly bool
	concurrency  int
}

// Register is used to register the command to a parent command.
func (c *TokensCommand) Register(app *kingpin.Application, logConfig *LoggerConfig, printer Printer, reg prometheus.Registerer) {
	c.logConfig = logConfig
	c.printer = printer
	c.reg = reg

	cmd := app.Command("tokens", "Print the token stream of one or more AsciiDoc documents.").Action(c.run)
	c.config.register(cmd)
	cmd.Flag("output", "Output format.").Short('o').Default(formatText).EnumVar(&c.format, formatText, formatJSON, formatYAML)
	cmd.Flag("color", "Colorize token kinds in text output.").BoolVar(&c.color)
	cmd.Flag("external-only", "Only print tokens produced by the external scanner.").BoolVar(&c.externalOnly)
	cmd.Flag("concurrency", "Number of documents tokenized in parallel.").Default("8").IntVar(&c.concurrency)
	cmd.Arg("files", "Documents to tokenize.").Required().StringsVar(&c.files)
}

func (c *TokensCommand) run(_ *kingpin.ParseContext) error {
	cfg, err := c.config.load()
	if err != nil {
		return err
	}

	logger := c.logConfig.Logger()
	docs, err := tokenizeFiles(context.Background(), c.files, cfg, c.concurrency, logger, tokenize.NewMetrics(c.reg))

	ok := docs[:0:0]
	for _, doc := range docs {
		if doc.err == nil {
			if c.externalOnly {
				doc.Tokens = externalOnly(doc.Tokens)
			}
			ok = append(ok, doc)
		}
	}
	if printErr := printDocuments(c.printer, c.format, c.color, ok); printErr != nil {
		return printErr
	}
	return err
}

// document is the tokenization result of one file.
type document struct {
	Path       string        `json:"path" yaml:"path"`
	Tokens     []tokenOutput `json:"tokens" yaml:"tokens"`
	FinalState string        `json:"final_state" yaml:"final_state"`

	err error
}

type tokenOutput struct {
	tokenize.Token `yaml:",inline"`
	Text           string `json:"text" yaml:"text"`
}

func newTokenOutputs(src []byte, tokens []tokenize.Token) []tokenOutput {
	out := make([]tokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tokenOutput{Token: tok, Text: tok.Text(src)})
	}
	return out
}

func externalOnly(tokens []tokenOutput) []tokenOutput {
	out := tokens[:0:0]
	for _, tok := range tokens {
		if tok.External {
			out = append(out, tok)
		}
	}
	return out
}

// tokenizeFiles tokenizes every file with its own session. A file that fails
// does not stop the others; all failures are returned together.
func tokenizeFiles(ctx context.Context, paths []string, cfg tokenize.Config, concurrencyLimit int, logger log.Logger, metrics *tokenize.Metrics) ([]*document, error) {
	docs := make([]*document, len(paths))

	err := concurrency.ForEachJob(ctx, len(paths), concurrencyLimit, func(_ context.Context, idx int) error {
		docs[idx] = tokenizeFile(paths[idx], cfg, logger, metrics)
		return nil
	})

	errs := multierror.New(err)
	out := make([]*document, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		errs.Add(doc.err)
		out = append(out, doc)
	}
	return out, errs.Err()
}

func tokenizeFile(path string, cfg tokenize.Config, logger log.Logger, metrics *tokenize.Metrics) *document {
	doc := &document{Path: path}
	logger = log.With(logger, "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		doc.err = errors.Wrap(err, "read document")
		return doc
	}

	session, err := tokenize.NewSession(cfg, logger, metrics)
	if err != nil {
		doc.err = err
		return doc
	}

	start := time.Now()
	tokens, err := session.Tokenize(src)
	if err != nil {
		doc.err = errors.Wrapf(err, "tokenize %s", path)
		return doc
	}
	level.Debug(logger).Log("msg", "tokenized document", "bytes", len(src), "tokens", len(tokens), "duration", time.Since(start))

	doc.Tokens = newTokenOutputs(src, tokens)
	doc.FinalState = session.State().String()
	if session.State().Inside() {
		level.Warn(logger).Log("msg", "document ends inside a delimited block", "state", doc.FinalState)
	}
	return doc
}

func printDocuments(printer Printer, format string, color bool, docs []*document) error {
	switch format {
	case formatJSON:
		out, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode json")
		}
		printer.PrintLine(string(out))
	case formatYAML:
		out, err := yaml.Marshal(docs)
		if err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		printer.PrintLine(strings.TrimSuffix(string(out), "\n"))
	default:
		for _, doc := range docs {
			if len(docs) > 1 {
				printer.PrintLine(fmt.Sprintf("==> %s <==", doc.Path))
			}
			for _, tok := range doc.Tokens {
				printer.PrintLine(formatToken(tok, color))
			}
		}
	}
	return nil
}

// formatToken renders a token as "line:start-end KIND text".
func formatToken(tok tokenOutput, color bool) string {
	name := tok.Name
	if color {
		c := "[dark_gray]"
		if tok.External {
			c = "[cyan]"
		}
		name = colorstring.Color(c + name)
	}
	return fmt.Sprintf("%d:%d-%d\t%s\t%q", tok.Line+1, tok.Start, tok.End, name, tok.Text)
}
