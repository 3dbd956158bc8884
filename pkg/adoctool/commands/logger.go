// SPDX-License-Identifier: AGPL-3.0-only

package commands

import (
	"io"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	dslog "github.com/grafana/dskit/log"
)

// LoggerConfig is the logging configuration shared by every command.
type LoggerConfig struct {
	level  dslog.Level
	format string

	// out defaults to stderr.
	out    io.Writer
	logger log.Logger
}

// Register adds the logging flags. It must be called before registering the
// commands so that the logger is ready when their actions run.
func (l *LoggerConfig) Register(app *kingpin.Application) {
	app.Flag("log.level", "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error]").Default("info").SetValue(&l.level)
	app.Flag("log.format", "Output log messages in the given format. Valid formats: [logfmt, json]").Default(dslog.LogfmtFormat).EnumVar(&l.format, dslog.LogfmtFormat, dslog.JSONFormat)

	app.PreAction(func(*kingpin.ParseContext) error {
		l.setup()
		return nil
	})
}

func (l *LoggerConfig) setup() {
	logger := dslog.NewGoKitWithLevel(l.level, l.format)
	if l.out != nil {
		logger = level.NewFilter(dslog.NewGoKitWithWriter(l.format, log.NewSyncWriter(l.out)), l.level.Option)
	}
	l.logger = log.With(logger, "ts", log.DefaultTimestampUTC)
}

// Logger returns the configured logger, or a no-op logger before flags are parsed.
func (l *LoggerConfig) Logger() log.Logger {
	if l.logger == nil {
		return log.NewNopLogger()
	}
	return l.logger
}
