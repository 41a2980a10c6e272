package app

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorTheme represents a predefined color scheme for exposure visualization.
// - ViridisTheme: perceptually uniform dark-purple to yellow ramp
// - ClassicTheme: traditional spectrum display (blue to red)
// - GrayscaleTheme: monochrome visualization
// - ThermalTheme: black to red to yellow to white heat map
type ColorTheme string

const (
	ViridisTheme   ColorTheme = "viridis"
	ClassicTheme   ColorTheme = "classic"
	GrayscaleTheme ColorTheme = "grayscale"
	ThermalTheme   ColorTheme = "thermal"

	DefaultColorMapSize = 256 // Default number of colors in the map
)

// noDataColor marks pixels with no usable sample: missing reading, or a
// non-positive value on a log scale.
var noDataColor = color.RGBA{R: 0xd9, G: 0xd9, B: 0xd9, A: 0xff}

// ColorMapper provides normalized-value-to-color mapping through a
// precomputed lookup table.
type ColorMapper struct {
	colorMap  []color.Color
	themeName ColorTheme
	size      int
}

// NewColorMapper creates a color mapper with the default map size.
func NewColorMapper(theme ColorTheme) *ColorMapper {
	return NewColorMapperWithSize(theme, DefaultColorMapSize)
}

// NewColorMapperWithSize creates a color mapper with the given number of
// precomputed colors.
func NewColorMapperWithSize(theme ColorTheme, size int) *ColorMapper {
	if size <= 0 {
		size = DefaultColorMapSize
	}

	cm := &ColorMapper{
		colorMap:  make([]color.Color, size),
		themeName: theme,
		size:      size,
	}

	themeFn := getColorTheme(theme)
	for i := 0; i < size; i++ {
		cm.colorMap[i] = themeFn(float64(i) / float64(size-1))
	}
	return cm
}

// GetColor returns the color for a normalized value in [0, 1]. A nil value
// renders as no-data.
func (cm *ColorMapper) GetColor(normalized *float64) color.Color {
	if normalized == nil {
		return noDataColor
	}

	index := int(*normalized * float64(cm.size-1))
	if index < 0 {
		return cm.colorMap[0]
	}
	if index >= cm.size {
		return cm.colorMap[cm.size-1]
	}
	return cm.colorMap[index]
}

// ThemeName returns the current color theme name.
func (cm *ColorMapper) ThemeName() ColorTheme {
	return cm.themeName
}

// Size returns the color map size.
func (cm *ColorMapper) Size() int {
	return cm.size
}

// viridisAnchors are blended in Luv space to approximate the matplotlib
// viridis ramp used by the survey's published figures.
var viridisAnchors = []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}

func getColorTheme(theme ColorTheme) func(float64) color.Color {
	switch theme {
	case ClassicTheme:
		return func(v float64) color.Color {
			// Blue (240) to red (0), brightness gamma-corrected
			c := colorful.Hsv(240-(v*240), 0.9+(v*0.1), math.Pow(v, 0.7))
			return c.Clamped()
		}

	case GrayscaleTheme:
		return func(v float64) color.Color {
			g := uint8(math.Pow(v, 0.7) * 255)
			return color.RGBA{R: g, G: g, B: g, A: 255}
		}

	case ThermalTheme:
		return func(v float64) color.Color {
			if v < 0.33 {
				return color.RGBA{
					R: uint8((v * 3) * 255),
					A: 255,
				}
			}
			if v < 0.66 {
				return color.RGBA{
					R: 255,
					G: uint8(((v - 0.33) * 3) * 255),
					A: 255,
				}
			}
			return color.RGBA{
				R: 255,
				G: 255,
				B: uint8(math.Min((v-0.66)*3, 1) * 255),
				A: 255,
			}
		}

	default: // ViridisTheme
		anchors := make([]colorful.Color, len(viridisAnchors))
		for i, hex := range viridisAnchors {
			anchors[i], _ = colorful.Hex(hex)
		}

		return func(v float64) color.Color {
			v = math.Max(0, math.Min(1, v))
			pos := v * float64(len(anchors)-1)
			lo := int(math.Floor(pos))
			if lo >= len(anchors)-1 {
				return anchors[len(anchors)-1].Clamped()
			}
			return anchors[lo].BlendLuv(anchors[lo+1], pos-float64(lo)).Clamped()
		}
	}
}
