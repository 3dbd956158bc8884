// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/grafana/asciidoc-scanner/pkg/adoctool/commands"
	"github.com/grafana/asciidoc-scanner/pkg/scanner"
	"github.com/grafana/asciidoc-scanner/pkg/util/version"
)

var (
	logConfig     commands.LoggerConfig
	tokensCommand commands.TokensCommand
	stateCommand  commands.StateCommand
	relexCommand  commands.RelexCommand
)

func main() {
	app := kingpin.New("adoctool", "A command-line tool to inspect the AsciiDoc external scanner.")
	printer := &commands.StdoutPrinter{Out: os.Stdout}

	prometheus.MustRegister(version.NewCollector(scanner.NumKinds))

	// Register logger first so its PreAction runs before others
	logConfig.Register(app)

	tokensCommand.Register(app, &logConfig, printer, prometheus.DefaultRegisterer)
	stateCommand.Register(app, &logConfig, printer)
	relexCommand.Register(app, &logConfig, printer, prometheus.DefaultRegisterer)

	app.Command("version", "Get the version of the adoctool CLI").Action(func(*kingpin.ParseContext) error {
		fmt.Fprintln(os.Stdout, version.Print("adoctool", scanner.NumKinds))
		return nil
	})

	kingpin.MustParse(app.Parse(os.Args[1:]))
}
