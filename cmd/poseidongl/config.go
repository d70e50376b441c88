package main

import (
	"fmt"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const (
	formatDec = "dec"
	formatHex = "hex"
)

// Config holds the CLI settings. Values come from the defaults, then the
// optional TOML file, then flags and their environment variables.
type Config struct {
	Format  string    `toml:"format"`
	Workers int       `toml:"workers"`
	Log     LogConfig `toml:"log"`
}

type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

func defaultConfig() Config {
	return Config{
		Format:  formatDec,
		Workers: runtime.NumCPU(),
		Log:     LogConfig{Level: zerolog.InfoLevel.String()},
	}
}

// loadConfig resolves the effective configuration for ctx.
func loadConfig(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()
	if path := ctx.String(configFlag); path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("read config %s: unknown key %q", path, undecoded[0].String())
		}
	}
	if ctx.IsSet(formatFlag) {
		cfg.Format = ctx.String(formatFlag)
	}
	if ctx.IsSet(workersFlag) {
		cfg.Workers = ctx.Int(workersFlag)
	}
	if ctx.IsSet(logLevelFlag) {
		cfg.Log.Level = ctx.String(logLevelFlag)
	}
	if ctx.IsSet(logJSONFlag) {
		cfg.Log.JSON = ctx.Bool(logJSONFlag)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Format {
	case formatDec, formatHex:
	default:
		return fmt.Errorf("invalid format %q, want %s or %s", c.Format, formatDec, formatHex)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers %d", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}
