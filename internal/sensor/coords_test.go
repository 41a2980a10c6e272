package sensor

import (
	"math"
	"testing"
)

func TestParseLatitude(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want *float64 // nil means "no fix"
	}{
		{"compact north", "4012.3456N", f(40.0 + 12.3456/60)},
		{"compact south", "3356.7890S", f(-(33.0 + 56.789/60))},
		{"decimal degrees string", "40.7128", f(40.7128)},
		{"decimal degrees float", 40.7128, f(40.7128)},
		{"integer degrees", int64(41), f(41)},
		{"internal spaces stripped", " 4012.3456 N ", f(40.0 + 12.3456/60)},
		{"zero placeholder", "0", nil},
		{"zero float placeholder", 0.0, nil},
		{"empty string", "", nil},
		{"nil cell", nil, nil},
		{"garbage", "no fix", nil},
		{"truncated compact form", "4N", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseLatitude(tc.in)
			checkCoord(t, got, tc.want)
		})
	}
}

func TestParseLongitude(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want *float64
	}{
		{"compact east", "01323.4567E", f(13.0 + 23.4567/60)},
		{"compact west", "07401.2345W", f(-(74.0 + 1.2345/60))},
		{"decimal degrees", "-73.9857", f(-73.9857)},
		{"zero placeholder", "0000.0000E", nil},
		{"garbage", "W", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseLongitude(tc.in)
			checkCoord(t, got, tc.want)
		})
	}
}

func f(v float64) *float64 { return &v }

func checkCoord(t *testing.T, got, want *float64) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("Expected no fix, got %v", *got)
	case want != nil && got == nil:
		t.Errorf("Expected %v, got no fix", *want)
	case want != nil && math.Abs(*got-*want) > 1e-9:
		t.Errorf("Expected %v, got %v", *want, *got)
	}
}
