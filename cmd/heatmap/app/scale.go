package app

import (
	"math"
)

const (
	ScaleLinear ScaleKind = "linear"
	ScaleLog    ScaleKind = "log"
)

type ScaleKind string

var validScaleKinds = map[ScaleKind]struct{}{
	ScaleLinear: {},
	ScaleLog:    {},
}

// Scale maps exposure values onto [0, 1] for color lookup. Bounds are
// either fixed by configuration or derived from the data; either way the
// mapping is deterministic for a given input.
type Scale struct {
	Kind ScaleKind
	Min  float64
	Max  float64
}

// NewScale builds a scale over the observed values, honoring fixed bounds
// where given. On a log scale non-positive observations are ignored for
// bounds derivation, matching their unmappable rendering.
func NewScale(kind ScaleKind, values []float64, fixedMin, fixedMax *float64) Scale {
	s := Scale{Kind: kind, Min: math.Inf(1), Max: math.Inf(-1)}

	for _, v := range values {
		if kind == ScaleLog && v <= 0 {
			continue
		}
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	if fixedMin != nil {
		s.Min = *fixedMin
	}
	if fixedMax != nil {
		s.Max = *fixedMax
	}

	if math.IsInf(s.Min, 1) || math.IsInf(s.Max, -1) || s.Min > s.Max {
		s.Min, s.Max = 0, 1
	}
	return s
}

// Normalize maps a value into [0, 1]. The second return is false when the
// value cannot be placed on the scale (non-positive on a log scale); such
// samples render as no-data.
func (s Scale) Normalize(v float64) (float64, bool) {
	switch s.Kind {
	case ScaleLog:
		if v <= 0 || s.Min <= 0 {
			return 0, false
		}
		span := math.Log(s.Max) - math.Log(s.Min)
		if span == 0 {
			return 0.5, true
		}
		return clamp((math.Log(v) - math.Log(s.Min)) / span), true

	default:
		span := s.Max - s.Min
		if span == 0 {
			return 0.5, true
		}
		return clamp((v - s.Min) / span), true
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
