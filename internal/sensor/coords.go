package sensor

import (
	"strconv"
	"strings"
)

// ExpoM exports carry GPS fixes either as decimal degrees or in the compact
// NMEA form DDMM.mmmmN/S (latitude) and DDDMM.mmmmE/W (longitude). A fix of
// exactly zero is the sensor's placeholder for "no fix" and is discarded.

// ParseLatitude converts a cleaned cell value to signed decimal degrees.
// South is negative. Returns nil for blank, corrupt or zero values.
func ParseLatitude(v any) *float64 {
	return parseCoordinate(v, 2, "N", "S")
}

// ParseLongitude converts a cleaned cell value to signed decimal degrees.
// West is negative. Returns nil for blank, corrupt or zero values.
func ParseLongitude(v any) *float64 {
	return parseCoordinate(v, 3, "E", "W")
}

func parseCoordinate(v any, degDigits int, positive, negative string) *float64 {
	var deg float64

	switch value := v.(type) {
	case nil:
		return nil
	case float64:
		deg = value
	case int64:
		deg = float64(value)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(value), " ", "")
		if s == "" {
			return nil
		}

		last := strings.ToUpper(s[len(s)-1:])
		if (last == positive || last == negative) && len(s) >= degDigits+2 {
			body := s[:len(s)-1]
			d, errDeg := strconv.Atoi(body[:degDigits])
			mins, errMin := strconv.ParseFloat(body[degDigits:], 64)
			if errDeg == nil && errMin == nil {
				deg = float64(d) + mins/60.0
				if last == negative {
					deg = -deg
				}
				break
			}
		}

		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		deg = parsed
	default:
		return nil
	}

	if deg > -1e-9 && deg < 1e-9 { // placeholder coordinate
		return nil
	}
	return &deg
}
