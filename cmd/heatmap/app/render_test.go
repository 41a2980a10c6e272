package app

import (
	"bytes"
	"image/color"
	"testing"
)

func TestTrackRenderer_Render(t *testing.T) {
	scale := Scale{Kind: ScaleLinear, Min: 0, Max: 1}
	r := NewTrackRenderer(NewColorMapper(ViridisTheme), scale)

	points := []TrackPoint{
		{Lat: 40.70, Lon: -74.02, Value: f(0.2)},
		{Lat: 40.71, Lon: -74.01, Value: f(0.8)},
		{Lat: 40.72, Lon: -74.00, Value: nil}, // no reading, still plotted
	}

	img, err := r.Render(points)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != defaultTrackWidth {
		t.Errorf("Expected image width %d, got %d", defaultTrackWidth, bounds.Dx())
	}
	if bounds.Dy() < minTrackHeight || bounds.Dy() > maxTrackHeight {
		t.Errorf("Image height %d outside [%d, %d]", bounds.Dy(), minTrackHeight, maxTrackHeight)
	}

	// The last point has no reading: its marker sits in the top-right corner
	// (northernmost, easternmost) and carries the no-data color.
	margin := defaultMarkerSize
	if got := img.RGBAAt(bounds.Dx()-margin-1, margin); got != noDataColor {
		t.Errorf("Expected no-data marker in the top-right corner, got %v", got)
	}

	// The first point is the southwest corner; it must not be background.
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := img.RGBAAt(margin, bounds.Dy()-margin-1); got == white {
		t.Error("Expected a colored marker in the bottom-left corner, got background")
	}
}

func TestTrackRenderer_Empty(t *testing.T) {
	r := NewTrackRenderer(NewColorMapper(ViridisTheme), Scale{Kind: ScaleLinear, Min: 0, Max: 1})
	if _, err := r.Render(nil); err == nil {
		t.Fatal("Expected error for empty track")
	}
}

func TestGridRenderer_Render(t *testing.T) {
	scale := Scale{Kind: ScaleLinear, Min: 0, Max: 1}
	r := NewGridRenderer(NewColorMapper(GrayscaleTheme), scale)

	rows := [][]*float64{
		{f(0), f(1)},
		{nil, f(0.5)},
	}

	img, err := r.Render(rows)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 2*defaultGridCell || bounds.Dy() != 2*defaultGridCell {
		t.Fatalf("Expected %dx%d image, got %dx%d",
			2*defaultGridCell, 2*defaultGridCell, bounds.Dx(), bounds.Dy())
	}

	// Cell (0, 1) holds a missing reading.
	if got := img.RGBAAt(0, defaultGridCell); got != noDataColor {
		t.Errorf("Expected no-data cell color, got %v", got)
	}

	// Grayscale maps 0 to black and 1 to white.
	if got := img.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("Expected black cell for value 0, got %v", got)
	}
	if got := img.RGBAAt(defaultGridCell, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Expected white cell for value 1, got %v", got)
	}
}

func TestGridRenderer_RaggedRows(t *testing.T) {
	r := NewGridRenderer(NewColorMapper(GrayscaleTheme), Scale{Kind: ScaleLinear, Min: 0, Max: 1})

	img, err := r.Render([][]*float64{
		{f(0.5)},
		{f(0.5), f(0.5), f(0.5)},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := img.Bounds().Dx(); got != 3*defaultGridCell {
		t.Errorf("Expected width from the widest row, got %d", got)
	}

	// Cells past the end of a short row are no-data.
	if got := img.RGBAAt(2*defaultGridCell, 0); got != noDataColor {
		t.Errorf("Expected no-data padding cell, got %v", got)
	}
}

func TestTrackRenderer_Deterministic(t *testing.T) {
	points := []TrackPoint{
		{Lat: 40.70, Lon: -74.02, Value: f(0.2)},
		{Lat: 40.71, Lon: -74.01, Value: f(0.8)},
	}
	scale := Scale{Kind: ScaleLog, Min: 0.1, Max: 1}

	a, err := NewTrackRenderer(NewColorMapper(ViridisTheme), scale).Render(points)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b, err := NewTrackRenderer(NewColorMapper(ViridisTheme), scale).Render(points)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("Identical input and configuration should produce identical pixels")
	}
}

func TestNormalize(t *testing.T) {
	s := Scale{Kind: ScaleLog, Min: 0.01, Max: 1}

	if got := normalize(s, nil); got != nil {
		t.Errorf("Expected nil for a missing value, got %v", *got)
	}
	if got := normalize(s, f(0)); got != nil {
		t.Errorf("Expected nil for an unmappable value, got %v", *got)
	}
	if got := normalize(s, f(1)); got == nil || *got != 1 {
		t.Errorf("Expected 1 for the scale maximum, got %v", got)
	}
}
