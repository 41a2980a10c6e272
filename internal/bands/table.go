// Package bands defines the fixed mapping from frequency band column
// headers to technology categories. The mapping is configuration, not data:
// it ships as versioned YAML so its definition can be audited and replaced
// without touching the aggregation logic.
package bands

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/citysense/rf-exposure/internal/survey"
)

// Category names a technology grouping of frequency bands.
type Category string

const (
	Broadcast Category = "Broadcast"
	Downlink  Category = "Downlink"
	Uplink    Category = "Uplink"
	WLAN      Category = "WLAN"
	TDD       Category = "TDD"

	// Total is derived as the union of the five base categories.
	Total Category = "Total"

	// Unclassified collects readings whose band header is not in the table.
	Unclassified Category = "Unclassified"
)

// Base lists the five disjoint categories in report order.
var Base = []Category{Broadcast, Downlink, Uplink, WLAN, TDD}

// Reported lists every category emitted by the inventory, in report order.
var Reported = []Category{Broadcast, Downlink, Uplink, WLAN, TDD, Total, Unclassified}

//go:embed table.yaml
var defaultTable []byte

type tableFile struct {
	Version    int                   `yaml:"version"`
	Categories map[Category][]string `yaml:"categories"`
}

// Table is an immutable band-to-category mapping.
type Table struct {
	version    int
	categories map[Category][]string
	byBand     map[string]Category
}

// Default returns the table embedded in the binary. It is validated at
// build-test time, so failure here indicates a broken build.
func Default() *Table {
	t, err := Load(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded band table is invalid: %v", err))
	}
	return t
}

// Load parses and validates a YAML band table.
func Load(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing band table: %w", err)
	}
	if f.Version < 1 {
		return nil, fmt.Errorf("band table: missing or invalid version")
	}

	t := &Table{
		version:    f.Version,
		categories: make(map[Category][]string, len(Base)),
		byBand:     make(map[string]Category),
	}

	for _, cat := range Base {
		bandList, ok := f.Categories[cat]
		if !ok || len(bandList) == 0 {
			return nil, fmt.Errorf("band table: category %q is missing or empty", cat)
		}
		for _, band := range bandList {
			if prev, dup := t.byBand[band]; dup {
				return nil, fmt.Errorf("band table: band %q appears in both %q and %q", band, prev, cat)
			}
			t.byBand[band] = cat
		}
		t.categories[cat] = bandList
	}

	for cat := range f.Categories {
		switch cat {
		case Broadcast, Downlink, Uplink, WLAN, TDD:
		default:
			return nil, fmt.Errorf("band table: unknown category %q", cat)
		}
	}

	return t, nil
}

// LoadFile reads and validates a YAML band table from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading band table: %w", err)
	}
	return Load(data)
}

// Version returns the table's declared version.
func (t *Table) Version() int {
	return t.version
}

// Category returns the category for a band header, falling back to
// Unclassified for headers not in the table.
func (t *Table) Category(band string) Category {
	if cat, ok := t.byBand[band]; ok {
		return cat
	}
	return Unclassified
}

// Lookup returns the category for a band header, or Unclassified together
// with a *survey.UnknownBandError when the header is not in the table.
func (t *Table) Lookup(band string) (Category, error) {
	if cat, ok := t.byBand[band]; ok {
		return cat, nil
	}
	return Unclassified, &survey.UnknownBandError{Band: band}
}

// Bands returns the band headers belonging to a category. Total yields the
// union of the five base categories. Unclassified has no fixed band list.
func (t *Table) Bands(cat Category) []string {
	if cat == Total {
		var all []string
		for _, base := range Base {
			all = append(all, t.categories[base]...)
		}
		return all
	}
	return t.categories[cat]
}

// Known returns every classified band header, sorted.
func (t *Table) Known() []string {
	known := make([]string, 0, len(t.byBand))
	for band := range t.byBand {
		known = append(known, band)
	}
	sort.Strings(known)
	return known
}
