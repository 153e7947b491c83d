package parser

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Parser splits raw chat text into messages for one export format.
// Implementations hold no mutable state and are safe for concurrent use.
type Parser interface {
	// Name returns the format name.
	Name() string

	// Pattern returns the compiled timestamp-marker pattern.
	Pattern() *regexp.Regexp

	// Marker renders t the way this format writes it at the start of a message.
	Marker(t time.Time) string

	// Parse returns the messages found in text, in order of appearance.
	// Malformed entries are dropped; the result is never nil.
	Parse(text string) []Message

	// ParseWithStats is Parse plus a report of what was dropped.
	ParseWithStats(text string) ([]Message, Stats)
}

// space matches the separators seen inside markers. Exports from some phones
// use U+202F or U+00A0 between the time and the am/pm suffix.
const space = `[\s\x{00A0}\x{202F}]`

// markerParser converts located markers into timestamps. ok[i] is false when
// markers[i] could not be parsed. layout is the time layout that was applied.
type markerParser func(markers []string) (times []time.Time, ok []bool, layout string)

// run is the pipeline shared by every format: locate markers, pair them with
// the segments that follow, parse timestamps, classify bodies, derive fields.
func run(text string, pattern *regexp.Regexp, parseMarkers markerParser) ([]Message, Stats) {
	var stats Stats

	locs := pattern.FindAllStringIndex(text, -1)
	markers := make([]string, len(locs))
	for i, loc := range locs {
		markers[i] = text[loc[0]:loc[1]]
	}
	bodies := splitBodies(text, locs)

	stats.Markers = len(markers)
	stats.Segments = len(bodies)

	markers, bodies = pair(markers, bodies)
	stats.Paired = len(markers)

	messages := make([]Message, 0, len(markers))
	if len(markers) == 0 {
		return messages, stats
	}

	times, ok, layout := parseMarkers(markers)
	stats.Layout = layout

	for i := range markers {
		if !ok[i] {
			stats.BadTimestamps++
			continue
		}

		user, msg := classify(bodies[i])
		if msg == "" {
			stats.EmptyMessages++
			continue
		}
		if user == GroupNotification {
			stats.Notifications++
		}

		messages = append(messages, newMessage(times[i], user, msg))
	}

	stats.Records = len(messages)
	return messages, stats
}

// splitBodies returns the text between consecutive markers. Text before the
// first marker is header noise and is not returned.
func splitBodies(text string, locs [][]int) []string {
	bodies := make([]string, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		bodies[i] = text[loc[1]:end]
	}
	return bodies
}

// pair truncates markers and bodies to the shorter of the two.
func pair(markers, bodies []string) ([]string, []string) {
	n := min(len(markers), len(bodies))
	return markers[:n], bodies[:n]
}

// classify splits a body at the first ": " into author and message. Bodies
// without a separator are system entries.
func classify(body string) (user, msg string) {
	body = strings.TrimSpace(body)
	if author, rest, found := strings.Cut(body, ": "); found {
		return strings.TrimSpace(author), strings.TrimSpace(rest)
	}
	return GroupNotification, body
}

// parseEach parses every marker with layout after normalising its whitespace.
// reject, when non-nil, vetoes markers the layout would accept.
func parseEach(markers []string, layout string, reject func(string) bool) ([]time.Time, []bool, int) {
	times := make([]time.Time, len(markers))
	ok := make([]bool, len(markers))
	parsed := 0

	for i, m := range markers {
		m = normalizeSpace(m)
		if reject != nil && reject(m) {
			continue
		}
		ts, err := time.Parse(layout, m)
		if err != nil {
			continue
		}
		times[i] = ts
		ok[i] = true
		parsed++
	}

	return times, ok, parsed
}

func normalizeSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}
