package app

import (
	"fmt"
	"image"
	"image/draw"
	"math"
)

const (
	defaultTrackWidth  = 800
	defaultMarkerSize  = 3
	minTrackHeight     = 100
	maxTrackHeight     = 4000
	defaultGridCell    = 4
	defaultBottomSpace = 28 // info bar height when annotating
)

// TrackPoint is one record placed on the map: a position fix and the value
// of the selected column, nil when the reading was missing.
type TrackPoint struct {
	Lat, Lon float64
	Value    *float64
}

// TrackRenderer plots samples at their geographic position using an
// equirectangular projection over the path's bounding box.
type TrackRenderer struct {
	mapper *ColorMapper
	scale  Scale
	width  int
	marker int
}

func NewTrackRenderer(mapper *ColorMapper, scale Scale) *TrackRenderer {
	return &TrackRenderer{
		mapper: mapper,
		scale:  scale,
		width:  defaultTrackWidth,
		marker: defaultMarkerSize,
	}
}

// Render draws the track. Points are drawn in record order, so later
// samples overwrite earlier ones where the path crosses itself.
func (r *TrackRenderer) Render(points []TrackPoint) (*image.RGBA, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no samples with coordinates to plot")
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLon, maxLon := points[0].Lon, points[0].Lon
	for _, p := range points {
		minLat, maxLat = math.Min(minLat, p.Lat), math.Max(maxLat, p.Lat)
		minLon, maxLon = math.Min(minLon, p.Lon), math.Max(maxLon, p.Lon)
	}

	// Longitude degrees shrink with latitude; correct the aspect ratio so
	// city blocks keep their shape.
	midLat := (minLat + maxLat) / 2
	lonSpan := (maxLon - minLon) * math.Cos(midLat*math.Pi/180)
	latSpan := maxLat - minLat

	height := r.width
	if lonSpan > 0 {
		height = int(float64(r.width) * latSpan / lonSpan)
	}
	height = min(max(height, minTrackHeight), maxTrackHeight)

	img := image.NewRGBA(image.Rect(0, 0, r.width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	margin := r.marker
	plotW := float64(r.width - 2*margin)
	plotH := float64(height - 2*margin)

	for _, p := range points {
		var x, y int
		if maxLon > minLon {
			x = margin + int((p.Lon-minLon)/(maxLon-minLon)*plotW)
		} else {
			x = r.width / 2
		}
		if maxLat > minLat {
			// Latitude grows north, image Y grows down.
			y = margin + int((maxLat-p.Lat)/(maxLat-minLat)*plotH)
		} else {
			y = height / 2
		}

		r.drawMarker(img, x, y, p.Value)
	}

	return img, nil
}

func (r *TrackRenderer) drawMarker(img *image.RGBA, cx, cy int, value *float64) {
	c := r.mapper.GetColor(normalize(r.scale, value))

	half := r.marker / 2
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			img.Set(cx+dx, cy+dy, c)
		}
	}
}

// GridRenderer draws the record-by-band matrix: one cell per reading, rows
// in record order from top to bottom.
type GridRenderer struct {
	mapper *ColorMapper
	scale  Scale
	cell   int
}

func NewGridRenderer(mapper *ColorMapper, scale Scale) *GridRenderer {
	return &GridRenderer{
		mapper: mapper,
		scale:  scale,
		cell:   defaultGridCell,
	}
}

func (r *GridRenderer) Render(rows [][]*float64) (*image.RGBA, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to plot")
	}

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil, fmt.Errorf("no columns to plot")
	}

	img := image.NewRGBA(image.Rect(0, 0, cols*r.cell, len(rows)*r.cell))

	for y, row := range rows {
		for x := 0; x < cols; x++ {
			var value *float64
			if x < len(row) {
				value = row[x]
			}
			c := r.mapper.GetColor(normalize(r.scale, value))

			for dy := 0; dy < r.cell; dy++ {
				for dx := 0; dx < r.cell; dx++ {
					img.Set(x*r.cell+dx, y*r.cell+dy, c)
				}
			}
		}
	}

	return img, nil
}

// normalize places a raw value on the scale, collapsing missing and
// unmappable values into the nil no-data marker.
func normalize(s Scale, value *float64) *float64 {
	if value == nil {
		return nil
	}
	n, ok := s.Normalize(*value)
	if !ok {
		return nil
	}
	return &n
}
