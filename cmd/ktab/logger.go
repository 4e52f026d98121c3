package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	var lvl zerolog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = zerolog.DebugLevel
	case "INFO":
		lvl = zerolog.InfoLevel
	case "WARN":
		lvl = zerolog.WarnLevel
	case "ERROR":
		lvl = zerolog.ErrorLevel
	case "DISABLED":
		lvl = zerolog.Disabled
	default:
		return zerolog.Logger{}, fmt.Errorf("incorrect log level %s", level)
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: "15:04:05.000",
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("%-6s", i))
		},
	}).Level(lvl).With().Timestamp().Str("app", AppName).Logger(), nil
}
