package app

import (
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestNewScale_DerivedBounds(t *testing.T) {
	s := NewScale(ScaleLinear, []float64{0.5, 0.1, 0.9}, nil, nil)
	if s.Min != 0.1 || s.Max != 0.9 {
		t.Errorf("Expected bounds [0.1, 0.9], got [%v, %v]", s.Min, s.Max)
	}

	// Fixed bounds win over observed ones.
	s = NewScale(ScaleLinear, []float64{0.5, 0.1, 0.9}, f(0), f(1))
	if s.Min != 0 || s.Max != 1 {
		t.Errorf("Expected fixed bounds [0, 1], got [%v, %v]", s.Min, s.Max)
	}

	// Log bounds ignore non-positive observations.
	s = NewScale(ScaleLog, []float64{0, -1, 0.01, 1}, nil, nil)
	if s.Min != 0.01 || s.Max != 1 {
		t.Errorf("Expected log bounds [0.01, 1], got [%v, %v]", s.Min, s.Max)
	}

	// No usable observations falls back to the unit range.
	s = NewScale(ScaleLog, []float64{0, -1}, nil, nil)
	if s.Min != 0 || s.Max != 1 {
		t.Errorf("Expected fallback bounds [0, 1], got [%v, %v]", s.Min, s.Max)
	}
}

func TestScale_NormalizeLinear(t *testing.T) {
	s := Scale{Kind: ScaleLinear, Min: 0, Max: 2}

	testCases := []struct {
		v    float64
		want float64
	}{
		{0, 0},
		{1, 0.5},
		{2, 1},
		{-1, 0}, // out of range clamps
		{5, 1},
	}

	for _, tc := range testCases {
		got, ok := s.Normalize(tc.v)
		if !ok {
			t.Errorf("Normalize(%v) should be mappable", tc.v)
		}
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Normalize(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestScale_NormalizeLog(t *testing.T) {
	s := Scale{Kind: ScaleLog, Min: 0.01, Max: 1}

	if got, ok := s.Normalize(0.1); !ok || math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Normalize(0.1) = %v (%v), want 0.5 on a two-decade scale", got, ok)
	}
	if got, ok := s.Normalize(1); !ok || got != 1 {
		t.Errorf("Normalize(1) = %v (%v), want 1", got, ok)
	}

	// Zero and negative field strengths have no log-scale position.
	if _, ok := s.Normalize(0); ok {
		t.Error("Normalize(0) should not be mappable on a log scale")
	}
	if _, ok := s.Normalize(-0.5); ok {
		t.Error("Normalize(-0.5) should not be mappable on a log scale")
	}
}

func TestScale_NormalizeDegenerate(t *testing.T) {
	s := Scale{Kind: ScaleLinear, Min: 0.3, Max: 0.3}
	if got, ok := s.Normalize(0.3); !ok || got != 0.5 {
		t.Errorf("Degenerate scale should map to midpoint, got %v (%v)", got, ok)
	}

	s = Scale{Kind: ScaleLog, Min: 0.3, Max: 0.3}
	if got, ok := s.Normalize(0.3); !ok || got != 0.5 {
		t.Errorf("Degenerate log scale should map to midpoint, got %v (%v)", got, ok)
	}
}
