// Package output provides formatting and output generation for chat reports.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/parser"
)

// Report is the complete analysis output.
type Report struct {
	// Analysis holds every aggregate for the selected user.
	Analysis *analyzer.AnalysisResult `json:"analysis"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// ID identifies the report; the HTTP API reuses the request ID.
	ID string `json:"id"`

	// Sources lists the exports that were analyzed.
	Sources []string `json:"sources"`

	// Format is the detected export format, or "none".
	Format string `json:"format"`

	// Encoding is the text encoding the input was decoded from.
	Encoding string `json:"encoding,omitempty"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long parsing and analysis took.
	Duration time.Duration `json:"duration_ns"`

	// Parse summarises what the parser kept and dropped.
	Parse parser.Stats `json:"parse"`
}

// Summary is the quiet-mode view of a report.
type Summary struct {
	ID    string         `json:"id"`
	User  string         `json:"user"`
	Stats analyzer.Stats `json:"stats"`
}

// NewReport wraps an analysis result. An empty meta.ID is replaced by a
// fresh UUID.
func NewReport(result *analyzer.AnalysisResult, meta Metadata) *Report {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Sources == nil {
		meta.Sources = []string{}
	}
	if meta.AnalyzedAt.IsZero() {
		meta.AnalyzedAt = time.Now()
	}
	return &Report{Analysis: result, Metadata: meta}
}

// HasData returns true if at least one message was analyzed.
func (r *Report) HasData() bool {
	return r.Analysis != nil && !r.Analysis.Empty()
}

// Summary returns the headline view of the report.
func (r *Report) Summary() Summary {
	s := Summary{ID: r.Metadata.ID, User: analyzer.Overall}
	if r.Analysis != nil {
		s.User = r.Analysis.User
		s.Stats = r.Analysis.Stats
	}
	return s
}
