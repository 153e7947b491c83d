package parser

import (
	"regexp"
	"time"
)

// Layouts of a dashed 24-hour marker, e.g. "01/02/2023, 22:05 - ".
const (
	DashedLayout      = "2/1/2006, 15:04 - "
	DashedShortLayout = "2/1/06, 15:04 - "
)

var dashedPattern = regexp.MustCompile(
	`\d{1,2}/\d{1,2}/(?:\d{4}|\d{2}),` + space + `\d{1,2}:\d{2}` + space + `-` + space,
)

// Dashed parses exports whose lines start with "dd/mm/yyyy, hh:mm - " or the
// two-digit-year form "dd/mm/yy, hh:mm - ".
type Dashed struct {
	layouts []string
}

// NewDashed returns the dashed 24-hour format. The four-digit-year layout is
// tried first; the two-digit one is used only if no marker parses under it.
func NewDashed() Dashed {
	return Dashed{layouts: []string{DashedLayout, DashedShortLayout}}
}

// Name returns the format name.
func (Dashed) Name() string {
	return "dashed"
}

// Pattern returns the marker pattern.
func (Dashed) Pattern() *regexp.Regexp {
	return dashedPattern
}

// Marker renders t as a dashed marker with a four-digit year.
func (Dashed) Marker(t time.Time) string {
	return t.Format("02/01/2006, 15:04 - ")
}

// Parse returns the messages in text.
func (d Dashed) Parse(text string) []Message {
	messages, _ := d.ParseWithStats(text)
	return messages
}

// ParseWithStats returns the messages in text and the drop counts.
func (d Dashed) ParseWithStats(text string) ([]Message, Stats) {
	return run(text, dashedPattern, d.parseMarkers)
}

// parseMarkers picks one layout for the whole export rather than per row.
func (d Dashed) parseMarkers(markers []string) ([]time.Time, []bool, string) {
	layouts := d.layouts
	if len(layouts) == 0 {
		layouts = NewDashed().layouts
	}

	var (
		times []time.Time
		ok    []bool
	)
	for _, layout := range layouts {
		var parsed int
		times, ok, parsed = parseEach(markers, layout, nil)
		if parsed > 0 {
			return times, ok, layout
		}
	}
	return times, ok, layouts[len(layouts)-1]
}
