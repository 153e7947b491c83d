// Package detector picks which chat export format applies to a text.
package detector

import (
	"github.com/ccollicutt/chatlens/pkg/parser"
)

// DetectionResult holds the outcome of inspecting a text.
type DetectionResult struct {
	Format       parser.Parser // Selected format, nil if no marker was found
	Counts       []FormatCount // Marker counts per format, in check order
	SampleMarker string        // First marker of the selected format
}

// FormatCount is the number of markers one format found.
type FormatCount struct {
	Name    string `json:"name"`
	Markers int    `json:"markers"`
}

// Detector selects a parser for raw chat text.
type Detector struct {
	formats []parser.Parser
}

// Option configures the Detector.
type Option func(*Detector)

// WithFormats replaces the ordered list of candidate formats.
func WithFormats(formats ...parser.Parser) Option {
	return func(d *Detector) {
		if len(formats) > 0 {
			d.formats = formats
		}
	}
}

// New creates a Detector with the default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats: DefaultFormats(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the first format, in check order, whose marker occurs
// anywhere in text. Unrecognised text yields a result with a nil Format.
func (d *Detector) Detect(text string) *DetectionResult {
	result := &DetectionResult{
		Counts: make([]FormatCount, 0, len(d.formats)),
	}

	for _, f := range d.formats {
		locs := f.Pattern().FindAllStringIndex(text, -1)
		result.Counts = append(result.Counts, FormatCount{Name: f.Name(), Markers: len(locs)})

		if result.Format == nil && len(locs) > 0 {
			result.Format = f
			result.SampleMarker = text[locs[0][0]:locs[0][1]]
		}
	}

	return result
}

// Parse detects the format of text and parses it. Unrecognised text yields
// an empty message slice.
func (d *Detector) Parse(text string) ([]parser.Message, parser.Stats, *DetectionResult) {
	result := d.Detect(text)
	if !result.HasMatch() {
		return []parser.Message{}, parser.Stats{}, result
	}
	msgs, stats := result.Format.ParseWithStats(text)
	return msgs, stats, result
}

// Parse detects and parses text with the default formats.
func Parse(text string) []parser.Message {
	msgs, _, _ := New().Parse(text)
	return msgs
}

// HasMatch returns true if a format was selected.
func (r *DetectionResult) HasMatch() bool {
	return r.Format != nil
}

// FormatName returns the selected format name, or "none".
func (r *DetectionResult) FormatName() string {
	if r.Format == nil {
		return "none"
	}
	return r.Format.Name()
}

// MarkerCount returns how many markers the named format found.
func (r *DetectionResult) MarkerCount(name string) int {
	for _, c := range r.Counts {
		if c.Name == name {
			return c.Markers
		}
	}
	return 0
}
