// Package ingest turns raw chat exports into one chronological message list.
package ingest

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ccollicutt/chatlens/pkg/decode"
	"github.com/ccollicutt/chatlens/pkg/detector"
	"github.com/ccollicutt/chatlens/pkg/parser"
)

// Input is one export to parse.
type Input struct {
	Name string
	Data []byte
}

// Source describes how one input was read.
type Source struct {
	Name      string                    `json:"name"`
	Encoding  string                    `json:"encoding"`
	Detection *detector.DetectionResult `json:"-"`
	Format    string                    `json:"format"`
	Stats     parser.Stats              `json:"stats"`
}

// Chat is the merged result of every input.
type Chat struct {
	Sources  []Source
	Messages []parser.Message
	Stats    parser.Stats
}

// ReadFiles expands paths and reads every resulting file.
func ReadFiles(paths []string) ([]Input, error) {
	files, err := decode.ExpandPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("expanding paths: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no chat exports matched: %v", paths)
	}

	inputs := make([]Input, 0, len(files))
	for _, f := range files {
		data, err := readFile(f)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, Input{Name: f, Data: data})
	}
	return inputs, nil
}

// Parse decodes, detects and parses every input and merges the messages by
// timestamp. Inputs in an unknown format contribute no messages.
func Parse(inputs []Input, d *detector.Detector, logger *slog.Logger) *Chat {
	if d == nil {
		d = detector.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	chat := &Chat{Sources: make([]Source, 0, len(inputs))}
	seqs := make([][]parser.Message, 0, len(inputs))

	for _, in := range inputs {
		decoded := decode.Decode(in.Data)
		msgs, stats, detection := d.Parse(decoded.Text)

		logger.Debug("parsed export",
			"source", in.Name,
			"encoding", decoded.Encoding,
			"format", detection.FormatName(),
			"markers", stats.Markers,
			"records", stats.Records,
			"bad_timestamps", stats.BadTimestamps,
			"empty_messages", stats.EmptyMessages)
		if !detection.HasMatch() {
			logger.Warn("no chat format recognised", "source", in.Name)
		}

		chat.Sources = append(chat.Sources, Source{
			Name:      in.Name,
			Encoding:  decoded.Encoding,
			Detection: detection,
			Format:    detection.FormatName(),
			Stats:     stats,
		})
		chat.Stats = chat.Stats.Add(stats)
		seqs = append(seqs, msgs)
	}

	chat.Messages = parser.Merge(seqs...)
	return chat
}

// Names returns the source names in input order.
func (c *Chat) Names() []string {
	names := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		names[i] = s.Name
	}
	return names
}

// Format returns the detected format, or a comma-separated list when the
// inputs disagree.
func (c *Chat) Format() string {
	return distinct(c.Sources, func(s Source) string { return s.Format })
}

// Encoding returns the decoded encoding, joined like Format.
func (c *Chat) Encoding() string {
	return distinct(c.Sources, func(s Source) string { return s.Encoding })
}

func distinct(sources []Source, field func(Source) string) string {
	if len(sources) == 0 {
		return "none"
	}
	seen := make(map[string]bool)
	var values []string
	for _, s := range sources {
		if v := field(s); !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return strings.Join(values, ",")
}
