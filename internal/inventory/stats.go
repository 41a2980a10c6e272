package inventory

import (
	"math"
	"sort"
)

// StatNames lists the summary statistics in inventory column order.
var StatNames = []string{"MIN", "P25", "MEAN", "GEOMEAN", "MEDIAN", "P75", "P90", "MAX", "STDEV"}

// Stats holds the descriptive statistics of one group of RSS values.
// Fields are NaN when the statistic is undefined for the sample.
type Stats struct {
	N       int
	Min     float64
	P25     float64
	Mean    float64
	GeoMean float64
	Median  float64
	P75     float64
	P90     float64
	Max     float64
	StDev   float64
}

// Values returns the statistics in StatNames order.
func (s Stats) Values() []float64 {
	return []float64{s.Min, s.P25, s.Mean, s.GeoMean, s.Median, s.P75, s.P90, s.Max, s.StDev}
}

// Describe computes the summary statistics over a sample. An empty sample
// yields all-NaN statistics.
func Describe(values []float64) Stats {
	if len(values) == 0 {
		nan := math.NaN()
		return Stats{Min: nan, P25: nan, Mean: nan, GeoMean: nan, Median: nan, P75: nan, P90: nan, Max: nan, StDev: nan}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Stats{
		N:       len(sorted),
		Min:     sorted[0],
		P25:     quantile(sorted, 0.25),
		Mean:    mean(sorted),
		GeoMean: geoMean(sorted),
		Median:  quantile(sorted, 0.5),
		P75:     quantile(sorted, 0.75),
		P90:     quantile(sorted, 0.9),
		Max:     sorted[len(sorted)-1],
		StDev:   sampleStdev(sorted),
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// geoMean is computed over positive values only; it is NaN when the sample
// has none.
func geoMean(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v > 0 {
			sum += math.Log(v)
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return math.Exp(sum / float64(n))
}

// quantile uses linear interpolation between closest ranks over an already
// sorted sample.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// sampleStdev is the n-1 form; NaN for samples of one.
func sampleStdev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
