// SPDX-License-Identifier: AGPL-3.0-only

package commands

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/grafana/asciidoc-scanner/pkg/tokenize"
)

// RelexCommand applies an edit to a document and prints the tokens from the
// edited line on, as re-lexed incrementally from the session's checkpoints.
type RelexCommand struct {
	logConfig *LoggerConfig
	printer   Printer
	reg       prometheus.Registerer

	config configFlags
	file   string
	offset int
	insert string
	remove int
	verify bool
	color  bool
}

// Register is used to register the command to a parent command.
func (c *RelexCommand) Register(app *kingpin.Application, logConfig *LoggerConfig, printer Printer, reg prometheus.Registerer) {
	c.logConfig = logConfig
	c.printer = printer
	c.reg = reg

	cmd := app.Command("relex", "Edit a document and re-tokenize it incrementally.").Action(c.run)
	c.config.register(cmd)
	cmd.Flag("offset", "Byte offset of the edit.").Required().IntVar(&c.offset)
	cmd.Flag("insert", "Text inserted at the offset.").StringVar(&c.insert)
	cmd.Flag("delete", "Number of bytes deleted at the offset.").IntVar(&c.remove)
	cmd.Flag("verify", "Fail if the incremental result differs from tokenizing the edited document from scratch.").BoolVar(&c.verify)
	cmd.Flag("color", "Colorize token kinds.").BoolVar(&c.color)
	cmd.Arg("file", "Document to edit.").Required().StringVar(&c.file)
}

func (c *RelexCommand) run(_ *kingpin.ParseContext) error {
	cfg, err := c.config.load()
	if err != nil {
		return err
	}
	src, err := os.ReadFile(c.file)
	if err != nil {
		return errors.Wrap(err, "read document")
	}
	edited, err := applyEdit(src, c.offset, c.remove, c.insert)
	if err != nil {
		return err
	}

	logger := c.logConfig.Logger()
	metrics := tokenize.NewMetrics(c.reg)
	session, err := tokenize.NewSession(cfg, logger, metrics)
	if err != nil {
		return err
	}
	if _, err := session.Tokenize(src); err != nil {
		return errors.Wrap(err, "tokenize unedited document")
	}
	tokens, err := session.Relex(edited, c.offset)
	if err != nil {
		return errors.Wrap(err, "relex edited document")
	}

	if c.verify {
		fresh, err := tokenize.NewSession(cfg, logger, nil)
		if err != nil {
			return err
		}
		want, err := fresh.Tokenize(edited)
		if err != nil {
			return errors.Wrap(err, "tokenize edited document")
		}
		if diff := cmp.Diff(want, tokens); diff != "" {
			return fmt.Errorf("incremental tokens differ from a full tokenization (-want +got):\n%s", diff)
		}
		level.Info(logger).Log("msg", "incremental tokens match a full tokenization", "tokens", len(tokens))
	}

	editLine := tokenize.LineOf(edited, c.offset)
	for _, tok := range newTokenOutputs(edited, tokens) {
		if tok.Line >= editLine {
			c.printer.PrintLine(formatToken(tok, c.color))
		}
	}
	return nil
}

func applyEdit(src []byte, offset, remove int, insert string) ([]byte, error) {
	if offset < 0 || offset > len(src) {
		return nil, errors.Errorf("offset %d is outside the document (%d bytes)", offset, len(src))
	}
	if remove < 0 || offset+remove > len(src) {
		return nil, errors.Errorf("cannot delete %d bytes at offset %d", remove, offset)
	}
	out := make([]byte, 0, len(src)-remove+len(insert))
	out = append(out, src[:offset]...)
	out = append(out, insert...)
	return append(out, src[offset+remove:]...), nil
}
