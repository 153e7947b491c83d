package parser

import (
	"regexp"
	"strings"
	"time"
)

// BracketedLayout is the Go layout of a bracketed 12-hour marker,
// e.g. "[10:15 am, 01/02/2023] ".
const BracketedLayout = "[3:04 pm, 2/1/2006] "

var bracketedPattern = regexp.MustCompile(
	`\[\d{1,2}:\d{2}` + space + `(?:am|pm),` + space + `\d{1,2}/\d{1,2}/\d{4}\]` + space,
)

// Bracketed parses exports whose lines start with "[hh:mm am/pm, dd/mm/yyyy] ".
type Bracketed struct{}

// NewBracketed returns the bracketed 12-hour format.
func NewBracketed() Bracketed {
	return Bracketed{}
}

// Name returns the format name.
func (Bracketed) Name() string {
	return "bracketed"
}

// Pattern returns the marker pattern.
func (Bracketed) Pattern() *regexp.Regexp {
	return bracketedPattern
}

// Marker renders t as a bracketed marker with zero-padded fields.
func (Bracketed) Marker(t time.Time) string {
	return t.Format("[03:04 pm, 02/01/2006] ")
}

// Parse returns the messages in text.
func (b Bracketed) Parse(text string) []Message {
	messages, _ := b.ParseWithStats(text)
	return messages
}

// ParseWithStats returns the messages in text and the drop counts.
func (b Bracketed) ParseWithStats(text string) ([]Message, Stats) {
	return run(text, bracketedPattern, b.parseMarkers)
}

func (Bracketed) parseMarkers(markers []string) ([]time.Time, []bool, string) {
	times, ok, _ := parseEach(markers, BracketedLayout, zeroHour)
	return times, ok, BracketedLayout
}

// zeroHour reports a 12-hour clock reading of 0, which time.Parse accepts
// but is not a valid am/pm hour.
func zeroHour(marker string) bool {
	return strings.HasPrefix(marker, "[0:") || strings.HasPrefix(marker, "[00:")
}
