package app

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	annotationDPI      = 96.0
	annotationFontSize = 11.0
)

// Annotator draws the info bar under a rendered heatmap. It needs a TTF
// font supplied at runtime; without one, images are produced bare.
type Annotator struct {
	context  *freetype.Context
	fontFace font.Face
}

// NewAnnotator loads a TTF font from disk and prepares a drawing context.
func NewAnnotator(fontPath string) (*Annotator, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(annotationDPI)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(annotationFontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &Annotator{
		context: ctx,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    annotationFontSize,
			DPI:     annotationDPI,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *Annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

// Attach returns a copy of img extended by a white info bar at the bottom,
// with the info string drawn into it.
func (a *Annotator) Attach(img *image.RGBA, info string) (*image.RGBA, error) {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()+defaultBottomSpace))

	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	a.context.SetClip(out.Bounds())
	a.context.SetDst(out)

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := out.Bounds().Max.Y - (defaultBottomSpace-fontHeight)/2 - metrics.Descent.Round()

	pt := freetype.Pt(5, textY)
	if _, err := a.context.DrawString(info, pt); err != nil {
		return nil, fmt.Errorf("drawing info text: %w", err)
	}

	return out, nil
}
