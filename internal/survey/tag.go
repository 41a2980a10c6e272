package survey

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Path files are named 'YYYY-MM-DD_hh.mm.ss <env> <borough> <location>'.
// The time part is optional and may be separated by '_' or 'T'.
var tagPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:[_T]\d{2}\.\d{2}\.\d{2})?\s+([CRGTI])\s+(M|BK|Q|BX|SI|FERRY)\s+(.+)$`)

// ParseTag recovers the measurement tag from a path file name. The argument
// may be a full path; only the base name without extension is considered.
// A non-conforming name yields a *TaggingError.
func ParseTag(filename string) (Tag, error) {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	m := tagPattern.FindStringSubmatch(name)
	if m == nil {
		return Tag{}, &TaggingError{Filename: filepath.Base(filename)}
	}

	return Tag{
		Date:        m[1],
		Environment: Environment(m[2]),
		Borough:     Borough(m[3]),
		Location:    strings.TrimSpace(m[4]),
	}, nil
}
