// Command poseidongl hashes Goldilocks field elements with Poseidon and prints
// reference vectors and circuit sizes.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const (
	configFlag   = "config"
	formatFlag   = "format"
	workersFlag  = "workers"
	logLevelFlag = "log.level"
	logJSONFlag  = "log.json"
)

// globalFlags returns fresh flag values. urfave/cli records environment
// lookups on the flag itself, so flags are not shared between apps.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Usage:   "TOML configuration file",
			EnvVars: []string{"POSEIDONGL_CONFIG"},
		},
		&cli.StringFlag{
			Name:    formatFlag,
			Usage:   "output encoding of field elements (dec or hex)",
			Value:   formatDec,
			EnvVars: []string{"POSEIDONGL_FORMAT"},
		},
		&cli.IntFlag{
			Name:    workersFlag,
			Usage:   "concurrent hashes when reading lines (0 uses one per CPU)",
			EnvVars: []string{"POSEIDONGL_WORKERS"},
		},
		&cli.StringFlag{
			Name:    logLevelFlag,
			Usage:   "log level (trace, debug, info, warn, error, disabled)",
			Value:   zerolog.InfoLevel.String(),
			EnvVars: []string{"POSEIDONGL_LOG_LEVEL"},
		},
		&cli.BoolFlag{
			Name:    logJSONFlag,
			Usage:   "log JSON lines instead of console output",
			EnvVars: []string{"POSEIDONGL_LOG_JSON"},
		},
	}
}

// cmd carries the resolved configuration into the command actions.
type cmd struct {
	cfg Config
	log zerolog.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	c := &cmd{
		cfg: defaultConfig(),
		log: zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger(),
	}
	return &cli.App{
		Name:      "poseidongl",
		Usage:     "Poseidon hash over the Goldilocks field",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Before:    c.setup,
		Commands: []*cli.Command{
			hashCommand(c),
			hashCapacityCommand(c),
			permuteCommand(c),
			vectorsCommand(c),
			constraintsCommand(c),
		},
	}
}

func (c *cmd) setup(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log, err := newLogger(ctx.App.ErrWriter, cfg.Log)
	if err != nil {
		return err
	}
	c.cfg, c.log = cfg, log
	useLogger(log)
	c.log.Debug().
		Str("format", cfg.Format).
		Int("workers", cfg.Workers).
		Msg("configuration loaded")
	return nil
}

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
