package bands

import (
	"errors"
	"testing"

	"github.com/citysense/rf-exposure/internal/survey"
)

func TestDefault(t *testing.T) {
	table := Default()

	if table.Version() != 1 {
		t.Errorf("Expected embedded table version 1, got %d", table.Version())
	}

	// The ExpoM-4 exposes 36 classified band columns.
	if got := len(table.Known()); got != 36 {
		t.Errorf("Expected 36 classified bands, got %d", got)
	}

	wantSizes := map[Category]int{
		Broadcast: 5,
		Downlink:  5,
		Uplink:    5,
		WLAN:      12,
		TDD:       9,
	}
	for cat, want := range wantSizes {
		if got := len(table.Bands(cat)); got != want {
			t.Errorf("Category %s: expected %d bands, got %d", cat, want, got)
		}
	}

	if got := len(table.Bands(Total)); got != 36 {
		t.Errorf("Total should be the union of all base categories, expected 36 bands, got %d", got)
	}
}

func TestTable_Category(t *testing.T) {
	table := Default()

	testCases := []struct {
		band string
		want Category
	}{
		{"FM Radio (RMS)", Broadcast},
		{"Mobile DL (RMS).2", Downlink},
		{"Mobile UL (RMS).5", Uplink},
		{"ISM (RMS)", WLAN},
		{"WLAN (RMS).10", WLAN},
		{"TDD (RMS).8", TDD},
		{"5G mmWave (RMS)", Unclassified},
	}

	for _, tc := range testCases {
		if got := table.Category(tc.band); got != tc.want {
			t.Errorf("Category(%q) = %s, want %s", tc.band, got, tc.want)
		}
	}
}

func TestTable_Lookup_UnknownBand(t *testing.T) {
	table := Default()

	cat, err := table.Lookup("5G mmWave (RMS)")
	if cat != Unclassified {
		t.Errorf("Expected Unclassified for unknown band, got %s", cat)
	}

	var unknownErr *survey.UnknownBandError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Expected *survey.UnknownBandError, got %T: %v", err, err)
	}
	if unknownErr.Band != "5G mmWave (RMS)" {
		t.Errorf("Expected band name in error, got %q", unknownErr.Band)
	}

	if _, err := table.Lookup("FM Radio (RMS)"); err != nil {
		t.Errorf("Lookup of a classified band should not fail: %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{
			"missing version",
			`categories:
  Broadcast: [FM]
  Downlink: [DL]
  Uplink: [UL]
  WLAN: [WL]
  TDD: [TD]`,
		},
		{
			"missing category",
			`version: 1
categories:
  Broadcast: [FM]
  Downlink: [DL]
  Uplink: [UL]
  WLAN: [WL]`,
		},
		{
			"empty category",
			`version: 1
categories:
  Broadcast: []
  Downlink: [DL]
  Uplink: [UL]
  WLAN: [WL]
  TDD: [TD]`,
		},
		{
			"band in two categories",
			`version: 1
categories:
  Broadcast: [FM]
  Downlink: [FM]
  Uplink: [UL]
  WLAN: [WL]
  TDD: [TD]`,
		},
		{
			"total listed explicitly",
			`version: 1
categories:
  Broadcast: [FM]
  Downlink: [DL]
  Uplink: [UL]
  WLAN: [WL]
  TDD: [TD]
  Total: [FM, DL]`,
		},
		{
			"unknown category name",
			`version: 1
categories:
  Broadcast: [FM]
  Downlink: [DL]
  Uplink: [UL]
  WLAN: [WL]
  TDD: [TD]
  Satellite: [GPS L1]`,
		},
		{
			"not yaml",
			`{{{`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load([]byte(tc.yaml)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoad_Valid(t *testing.T) {
	table, err := Load([]byte(`version: 2
categories:
  Broadcast: [FM]
  Downlink: [DL]
  Uplink: [UL]
  WLAN: [WL]
  TDD: [TD]`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if table.Version() != 2 {
		t.Errorf("Expected version 2, got %d", table.Version())
	}
	if got := table.Category("WL"); got != WLAN {
		t.Errorf("Category(WL) = %s, want %s", got, WLAN)
	}
	if got := len(table.Bands(Total)); got != 5 {
		t.Errorf("Expected 5 bands in Total, got %d", got)
	}
}
