package nmea

import (
	"strconv"
	"strings"
)

// Line reads comma separated fields of one sentence in order.
// The checksum suffix is not part of any field.
type Line struct {
	rest string
	done bool
}

// NewLine creates a Line, the first field read is the sentence type.
func NewLine(s string) *Line {
	s = strings.TrimRight(s, "\r\n ")
	if pos := strings.LastIndexByte(s, '*'); pos >= 0 {
		s = s[:pos]
	}
	return &Line{rest: s}
}

// Read returns the next field, or "" when the line is exhausted.
func (l *Line) Read() string {
	if l.done {
		return ""
	}
	pos := strings.IndexByte(l.rest, ',')
	if pos < 0 {
		field := l.rest
		l.rest, l.done = "", true
		return field
	}
	field := l.rest[:pos]
	l.rest = l.rest[pos+1:]
	return field
}

// Skip discards n fields.
func (l *Line) Skip(n int) {
	for i := 0; i < n; i++ {
		l.Read()
	}
}

// ReadFloat parses the next field. An empty or malformed field
// reports false; the field is consumed either way.
func (l *Line) ReadFloat() (float64, bool) {
	field := strings.TrimSpace(l.Read())
	if field == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
