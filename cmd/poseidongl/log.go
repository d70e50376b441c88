package main

import (
	"io"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
)

// newLogger builds the CLI logger on w: a console writer by default, JSON
// lines when cfg.JSON is set.
func newLogger(w io.Writer, cfg LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	out := w
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// useLogger makes l the process logger, including for circuit compilation.
func useLogger(l zerolog.Logger) {
	logger.Set(l)
}
