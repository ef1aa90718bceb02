package pricing

import (
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateSet is a deduplicated set of calendar dates.
type DateSet map[string]struct{}

// NewDateSet builds a DateSet from the date parts of the given instants.
func NewDateSet(dates ...time.Time) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s[d.Format(dateLayout)] = struct{}{}
	}
	return s
}

// ParseDateList parses a raw list of YYYY-MM-DD dates separated by commas or
// newlines. Lines that do not look like a date are dropped silently.
func ParseDateList(raw string) DateSet {
	s := make(DateSet)
	if raw == "" {
		return s
	}
	for _, line := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	}) {
		line = strings.TrimSpace(line)
		if datePattern.MatchString(line) {
			s[line] = struct{}{}
		}
	}
	return s
}

// Contains reports whether the date part of t is in the set.
func (s DateSet) Contains(t time.Time) bool {
	_, ok := s[t.Format(dateLayout)]
	return ok
}
