// Package inventory reduces converted path files into campaign inventories:
// per-record category exposure, per-file summaries, and per-group totals
// over the full (environment, borough, category) cross-product.
package inventory

import (
	"math"
	"sort"

	"github.com/citysense/rf-exposure/internal/bands"
	"github.com/citysense/rf-exposure/internal/survey"
)

// Key identifies one inventory group.
type Key struct {
	Environment survey.Environment
	Borough     survey.Borough
	Category    bands.Category
}

// Row is one line of the inventory cross-product. Groups that received no
// data are emitted with HasData false, never omitted.
type Row struct {
	Key
	Total float64
	Count int
	Mean  float64
	Stats Stats
}

// HasData reports whether any record contributed to the group.
func (r Row) HasData() bool {
	return r.Count > 0
}

// FileSummary is the per-path-file line of the inventory (Sheet1 in the
// workbook): tag, time span, sample count and per-category statistics.
type FileSummary struct {
	Tag        survey.Tag
	Start, End string
	N          int
	Stats      map[bands.Category]Stats
}

// LabelTable is one aggregate statistics table (Totals, one borough, or one
// environment) computed over all raw per-record RSS values under that label.
type LabelTable struct {
	Label string
	Stats map[bands.Category]Stats
}

type group struct {
	total  float64
	count  int
	values []float64
}

type pair struct {
	env     survey.Environment
	borough survey.Borough
}

// Accumulator folds path files into inventory groups. It is not safe for
// concurrent use; the pipeline is single-threaded by design.
type Accumulator struct {
	table  *bands.Table
	groups map[Key]*group
	pairs  map[pair]struct{}

	// Raw RSS values per aggregate label, in insertion order of labels.
	labels     map[string]map[bands.Category][]float64
	sawUnknown map[string]struct{}
}

// New creates an Accumulator over the given band table.
func New(table *bands.Table) *Accumulator {
	return &Accumulator{
		table:      table,
		groups:     make(map[Key]*group),
		pairs:      make(map[pair]struct{}),
		labels:     make(map[string]map[bands.Category][]float64),
		sawUnknown: make(map[string]struct{}),
	}
}

// UnknownBands returns the band headers that were encountered but missing
// from the band table, sorted. Their readings were counted as Unclassified.
func (a *Accumulator) UnknownBands() []string {
	unknown := make([]string, 0, len(a.sawUnknown))
	for band := range a.sawUnknown {
		unknown = append(unknown, band)
	}
	sort.Strings(unknown)
	return unknown
}

// AddPath folds a whole path file into the inventory and returns its
// per-file summary.
func (a *Accumulator) AddPath(p *survey.Path) *FileSummary {
	perFile := make(map[bands.Category][]float64, len(bands.Reported))

	for i := range p.Records {
		for cat, v := range a.addRecord(p.Tag, &p.Records[i]) {
			perFile[cat] = append(perFile[cat], v)
		}
	}

	summary := FileSummary{
		Tag:   p.Tag,
		N:     len(p.Records),
		Stats: make(map[bands.Category]Stats, len(bands.Reported)),
	}
	if start, end := p.TimeSpan(); !start.IsZero() {
		summary.Start = start.Format("15:04:05")
		summary.End = end.Format("15:04:05")
	}
	for _, cat := range bands.Reported {
		summary.Stats[cat] = Describe(perFile[cat])
	}
	return &summary
}

// addRecord computes the per-category RSS of one record and folds it into
// every group and aggregate label the record belongs to. Returns the RSS
// value per category; categories with no valid readings are absent.
func (a *Accumulator) addRecord(tag survey.Tag, rec *survey.Record) map[bands.Category]float64 {
	sumSq := make(map[bands.Category]float64, len(bands.Reported))
	seen := make(map[bands.Category]bool, len(bands.Reported))

	for i := range rec.Readings {
		reading := &rec.Readings[i]
		if reading.Value == nil {
			continue
		}
		v := *reading.Value

		cat := a.table.Category(reading.Band)
		if cat == bands.Unclassified {
			a.sawUnknown[reading.Band] = struct{}{}
		} else {
			// Classified bands also contribute to the Total category.
			sumSq[bands.Total] += v * v
			seen[bands.Total] = true
		}
		sumSq[cat] += v * v
		seen[cat] = true
	}

	rss := make(map[bands.Category]float64, len(seen))
	for cat := range seen {
		rss[cat] = math.Sqrt(sumSq[cat])
	}

	a.pairs[pair{tag.Environment, tag.Borough}] = struct{}{}
	for cat, v := range rss {
		a.fold(Key{tag.Environment, tag.Borough, cat}, v)
		a.label("Totals", cat, v)
		a.label(tag.Borough.Name(), cat, v)
		a.label(tag.Environment.Name(), cat, v)
	}
	return rss
}

func (a *Accumulator) fold(k Key, v float64) {
	g, ok := a.groups[k]
	if !ok {
		g = &group{}
		a.groups[k] = g
	}
	g.total += v
	g.count++
	g.values = append(g.values, v)
}

func (a *Accumulator) label(name string, cat bands.Category, v float64) {
	t, ok := a.labels[name]
	if !ok {
		t = make(map[bands.Category][]float64, len(bands.Reported))
		a.labels[name] = t
	}
	t[cat] = append(t[cat], v)
}

// Rows emits the full cross-product of observed (environment, borough)
// pairs and all reported categories, in deterministic order: environments
// and boroughs in display order, categories in report order.
func (a *Accumulator) Rows() []Row {
	observed := make([]pair, 0, len(a.pairs))
	for p := range a.pairs {
		observed = append(observed, p)
	}
	sort.Slice(observed, func(i, j int) bool {
		if observed[i].env != observed[j].env {
			return orderOf(survey.Environments, observed[i].env) < orderOf(survey.Environments, observed[j].env)
		}
		return orderOf(survey.Boroughs, observed[i].borough) < orderOf(survey.Boroughs, observed[j].borough)
	})

	rows := make([]Row, 0, len(observed)*len(bands.Reported))
	for _, p := range observed {
		for _, cat := range bands.Reported {
			k := Key{p.env, p.borough, cat}
			row := Row{Key: k}
			if g, ok := a.groups[k]; ok {
				row.Total = g.total
				row.Count = g.count
				row.Mean = g.total / float64(g.count)
				row.Stats = Describe(g.values)
			} else {
				row.Stats = Describe(nil)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Totals returns one grand-total row per category, computed over every
// record in the campaign regardless of environment or borough.
func (a *Accumulator) Totals() []Row {
	values := a.labels["Totals"]
	rows := make([]Row, 0, len(bands.Reported))
	for _, cat := range bands.Reported {
		row := Row{Key: Key{Category: cat}, Stats: Describe(values[cat])}
		for _, v := range values[cat] {
			row.Total += v
		}
		row.Count = len(values[cat])
		if row.Count > 0 {
			row.Mean = row.Total / float64(row.Count)
		}
		rows = append(rows, row)
	}
	return rows
}

// LabelTables returns the aggregate tables in workbook order: Totals first,
// then boroughs, then environments, skipping labels with no data.
func (a *Accumulator) LabelTables() []LabelTable {
	var tables []LabelTable

	add := func(name string) {
		values, ok := a.labels[name]
		if !ok {
			return
		}
		t := LabelTable{Label: name, Stats: make(map[bands.Category]Stats, len(bands.Reported))}
		for _, cat := range bands.Reported {
			t.Stats[cat] = Describe(values[cat])
		}
		tables = append(tables, t)
	}

	add("Totals")
	for _, b := range survey.Boroughs {
		add(b.Name())
	}
	for _, e := range survey.Environments {
		add(e.Name())
	}
	return tables
}

func orderOf[T comparable](order []T, v T) int {
	for i, o := range order {
		if o == v {
			return i
		}
	}
	return len(order)
}
