package app

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"
)

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"
)

type ImageFormat string

const (
	ModeTrack RenderMode = "track" // samples plotted at their geographic position
	ModeGrid  RenderMode = "grid"  // record-by-band matrix raster
)

type RenderMode string

// Config holds the renderer settings. Identical input and configuration
// must produce an identical image.
type Config struct {
	Input    string
	OutDir   string
	Column   string // Band header, category name, or "categories" (grid only)
	Mode     RenderMode
	Scale    ScaleKind
	MinValue *float64 // Fixed scale minimum; data-derived when nil
	MaxValue *float64 // Fixed scale maximum; data-derived when nil
	Theme    ColorTheme
	Format   ImageFormat
	FontFile string // TTF for annotations; annotations are skipped without it
	BandFile string
	Verbose  bool
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

var validModes = map[RenderMode]struct{}{
	ModeTrack: {},
	ModeGrid:  {},
}

func NewConfig() *Config {
	return &Config{
		Column: "Total",
		Mode:   ModeTrack,
		Scale:  ScaleLog,
		Theme:  ViridisTheme,
		Format: ImagePNG,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var mode, scale, theme, imageFormat string
	var minValue, maxValue float64
	flag.StringVar(&c.Input, "in", "", "Converted path workbook (.xlsx)")
	flag.StringVar(&c.OutDir, "out", "", "Destination directory for rendered images")
	flag.StringVar(&c.Column, "column", c.Column, "Value column: band header, category name, or 'categories' (grid mode)")
	flag.StringVar(&mode, "mode", string(c.Mode), "Render mode. [track, grid]")
	flag.StringVar(&scale, "scale", string(c.Scale), "Color scale. [linear, log]")
	flag.Float64Var(&minValue, "min", 0, "Fixed scale minimum (data-derived when omitted)")
	flag.Float64Var(&maxValue, "max", 0, "Fixed scale maximum (data-derived when omitted)")
	flag.StringVar(&theme, "theme", string(c.Theme), "Color theme. [viridis, classic, grayscale, thermal]")
	flag.StringVar(&imageFormat, "f", string(c.Format), "Output image format. [png, jpeg]")
	flag.StringVar(&c.FontFile, "font", "", "TTF font for annotations (annotations are skipped without it)")
	flag.StringVar(&c.BandFile, "bands", "", "Band table YAML file (defaults to the built-in table)")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "min" {
			c.MinValue = &minValue
		}
		if f.Name == "max" {
			c.MaxValue = &maxValue
		}
	})

	imageFormat = strings.ToLower(imageFormat)

	var err error
	if c.Input == "" {
		err = errors.New("input workbook is required")
	} else if c.OutDir == "" {
		err = errors.New("output directory is required")
	} else if _, ok := validModes[RenderMode(mode)]; !ok {
		err = fmt.Errorf("invalid render mode: %s", mode)
	} else if _, ok := validScaleKinds[ScaleKind(scale)]; !ok {
		err = fmt.Errorf("invalid color scale: %s", scale)
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if c.MinValue != nil && c.MaxValue != nil && *c.MinValue >= *c.MaxValue {
		err = errors.New("scale minimum must be below maximum")
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Mode = RenderMode(mode)
	c.Scale = ScaleKind(scale)
	c.Theme = ColorTheme(theme)
	c.Format = ImageFormat(imageFormat)
	return c, nil
}

func (c *Config) LogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
