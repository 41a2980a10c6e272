package app

import (
	"errors"
	"flag"
	"log/slog"
)

// Config holds the aggregator settings. One run processes exactly one
// campaign directory; campaigns are never mixed.
type Config struct {
	InDir    string // Directory of converted path workbooks for one campaign
	OutDir   string // Destination directory for the inventory workbook
	Campaign string // Campaign label (e.g. season1, season3, indoor, train)
	BandFile string // Optional band table YAML overriding the built-in one
	Verbose  bool
}

func NewConfig() *Config {
	return &Config{}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	flag.StringVar(&c.InDir, "in", "", "Directory of converted path workbooks (one campaign)")
	flag.StringVar(&c.OutDir, "out", "", "Destination directory for the inventory workbook")
	flag.StringVar(&c.Campaign, "campaign", "", "Campaign label (e.g. season1, season3, indoor, train)")
	flag.StringVar(&c.BandFile, "bands", "", "Band table YAML file (defaults to the built-in table)")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	var err error
	if c.InDir == "" {
		err = errors.New("input directory is required")
	} else if c.OutDir == "" {
		err = errors.New("output directory is required")
	} else if c.Campaign == "" {
		err = errors.New("campaign label is required")
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
