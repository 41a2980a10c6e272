package app

import (
	"errors"
	"flag"
	"log/slog"
)

// Config holds the converter settings.
type Config struct {
	Input   string // Raw export file, or a directory of them
	OutDir  string // Destination directory for converted workbooks
	Verbose bool
}

func NewConfig() *Config {
	return &Config{}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	flag.StringVar(&c.Input, "in", "", "Raw sensor export file or directory of exports")
	flag.StringVar(&c.OutDir, "out", "", "Destination directory for converted .xlsx files")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	var err error
	if c.Input == "" {
		err = errors.New("input path is required")
	} else if c.OutDir == "" {
		err = errors.New("output directory is required")
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}
	return c, nil
}

func (c *Config) LogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
