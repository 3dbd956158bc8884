// SPDX-License-Identifier: AGPL-3.0-only

package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/grafana/asciidoc-scanner/pkg/scanner"
)

// StateCommand inspects serialized scanner states.
type StateCommand struct {
	logConfig *LoggerConfig
	printer   Printer

	encoded string

	depth  uint8
	block  string
	marker string
	count  uint8
}

// Register is used to register the command to a parent command.
func (c *StateCommand) Register(app *kingpin.Application, logConfig *LoggerConfig, printer Printer) {
	c.logConfig = logConfig
	c.printer = printer

	cmd := app.Command("state", "Encode and decode serialized scanner states.")

	decodeCmd := cmd.Command("decode", "Decode a hex encoded scanner state.").Action(c.decode)
	decodeCmd.Arg("state", "Hex encoded state, as stored by the host parser.").Required().StringVar(&c.encoded)

	encodeCmd := cmd.Command("encode", "Encode a scanner state.").Action(c.encode)
	encodeCmd.Flag("depth", "Number of open delimited blocks.").Default("0").Uint8Var(&c.depth)
	encodeCmd.Flag("block", "Kind of the open block, if any.").StringVar(&c.block)
	encodeCmd.Flag("marker", "Fence marker character of the open block.").StringVar(&c.marker)
	encodeCmd.Flag("count", "Number of marker characters of the opening fence.").Uint8Var(&c.count)
}

func (c *StateCommand) decode(_ *kingpin.ParseContext) error {
	buf, err := hex.DecodeString(c.encoded)
	if err != nil {
		return errors.Wrap(err, "state is not hex encoded")
	}

	st, err := scanner.DecodeState(buf)
	if err != nil {
		level.Warn(c.logConfig.Logger()).Log("msg", "state was only partially restored", "err", err)
	}
	c.printState(st)
	return nil
}

func (c *StateCommand) encode(_ *kingpin.ParseContext) error {
	buf := []byte{c.depth, 0, 0, 0}

	if c.block != "" {
		kind, err := scanner.ParseBlockKind(c.block)
		if err != nil {
			return err
		}
		if len(c.marker) != 1 {
			return errors.New("--marker must be a single character when --block is set")
		}
		buf[1], buf[2], buf[3] = c.marker[0], c.count, byte(kind)
	}

	st, err := scanner.DecodeState(buf)
	if err != nil {
		return errors.Wrap(err, "cannot encode state")
	}
	c.printer.PrintLine(hex.EncodeToString(st.Bytes()))
	return nil
}

func (c *StateCommand) printState(st scanner.State) {
	c.printer.PrintLine(fmt.Sprintf("depth: %d", st.Depth()))
	fence, ok := st.OpenFence()
	if !ok {
		c.printer.PrintLine("fence: none")
		return
	}
	c.printer.PrintLine(fmt.Sprintf("fence: %s", fence))
}
