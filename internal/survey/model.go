package survey

import (
	"time"
)

// Environment classifies the surroundings of a measurement walk.
type Environment string

const (
	EnvCommercial     Environment = "C"
	EnvResidential    Environment = "R"
	EnvGreenery       Environment = "G"
	EnvIndoors        Environment = "I"
	EnvTransportation Environment = "T"
)

// Environments lists all environment codes in display order.
var Environments = []Environment{
	EnvCommercial,
	EnvResidential,
	EnvGreenery,
	EnvTransportation,
	EnvIndoors,
}

var environmentNames = map[Environment]string{
	EnvCommercial:     "Commercial",
	EnvResidential:    "Residential",
	EnvGreenery:       "Greenery",
	EnvTransportation: "Transportation",
	EnvIndoors:        "Indoors",
}

// Valid reports whether e is one of the defined environment codes.
func (e Environment) Valid() bool {
	_, ok := environmentNames[e]
	return ok
}

// Name returns the full display name of the environment, or the raw code
// when the code is unknown.
func (e Environment) Name() string {
	if name, ok := environmentNames[e]; ok {
		return name
	}
	return string(e)
}

// Borough identifies the NYC borough (or ferry crossing) of a measurement walk.
type Borough string

const (
	BoroughManhattan    Borough = "M"
	BoroughBrooklyn     Borough = "BK"
	BoroughQueens       Borough = "Q"
	BoroughBronx        Borough = "BX"
	BoroughStatenIsland Borough = "SI"
	BoroughFerry        Borough = "FERRY"
)

// Boroughs lists all borough codes in display order.
var Boroughs = []Borough{
	BoroughManhattan,
	BoroughBrooklyn,
	BoroughQueens,
	BoroughBronx,
	BoroughStatenIsland,
	BoroughFerry,
}

var boroughNames = map[Borough]string{
	BoroughManhattan:    "Manhattan",
	BoroughBrooklyn:     "Brooklyn",
	BoroughQueens:       "Queens",
	BoroughBronx:        "Bronx",
	BoroughStatenIsland: "Staten Island",
	BoroughFerry:        "Ferry",
}

// Valid reports whether b is one of the defined borough codes.
func (b Borough) Valid() bool {
	_, ok := boroughNames[b]
	return ok
}

// Name returns the full display name of the borough, or the raw code when
// the code is unknown.
func (b Borough) Name() string {
	if name, ok := boroughNames[b]; ok {
		return name
	}
	return string(b)
}

// Campaign labels one measurement round. Campaigns are processed
// independently and never mixed within a single inventory.
type Campaign string

// Tag carries the metadata of one measurement walk, recovered from the
// path file name.
type Tag struct {
	Date        string      `json:"date"`        // Measurement date, YYYY-MM-DD
	Environment Environment `json:"environment"` // Environment code (C, R, G, I, T)
	Borough     Borough     `json:"borough"`     // Borough code (M, BK, Q, BX, SI, FERRY)
	Location    string      `json:"location"`    // Free-text location label
}

// Reading is a single band measurement within a record.
type Reading struct {
	Band  string   `json:"band"`            // Band column header (e.g. "Mobile DL (RMS).2")
	Value *float64 `json:"value,omitempty"` // Field strength in V/m (nil if missing or invalid)
}

// Record represents one timestamped sensor sample: a position fix and one
// reading per frequency band. Records are immutable once captured.
type Record struct {
	Timestamp time.Time `json:"timestamp"`           // When the sample was taken
	Latitude  *float64  `json:"latitude,omitempty"`  // GPS latitude in decimal degrees (nil if no fix)
	Longitude *float64  `json:"longitude,omitempty"` // GPS longitude in decimal degrees (nil if no fix)
	Readings  []Reading `json:"readings,omitempty"`  // Ordered band readings
}

// HasPosition reports whether the record carries a usable coordinate pair.
func (r *Record) HasPosition() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Reading returns the value measured for the given band header, or nil when
// the band is absent or the reading was invalid.
func (r *Record) Reading(band string) *float64 {
	for i := range r.Readings {
		if r.Readings[i].Band == band {
			return r.Readings[i].Value
		}
	}
	return nil
}

// Path is one contiguous measurement walk or ride: an ordered sequence of
// records plus the tag recovered from the file name.
type Path struct {
	Tag     Tag      `json:"tag"`
	Records []Record `json:"records,omitempty"`
}

// TimeSpan returns the timestamps of the first and last record. Both are
// zero when the path is empty.
func (p *Path) TimeSpan() (start, end time.Time) {
	if len(p.Records) == 0 {
		return
	}
	return p.Records[0].Timestamp, p.Records[len(p.Records)-1].Timestamp
}
