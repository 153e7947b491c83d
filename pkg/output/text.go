package output

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
)

const (
	insufficientData = "  Insufficient data for this section."
	personalChat     = "  Personal chat: busy users are shown for group chats only."
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text. Headings are styled only when w is a
// terminal.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	s := report.Summary()
	_, err := fmt.Fprintf(w, "chatlens: %d messages, %d words, %d media, %d links (user: %s)\n",
		s.Stats.Messages, s.Stats.Words, s.Stats.Media, s.Stats.Links, s.User)
	return err
}

type sections struct {
	w       io.Writer
	heading lipgloss.Style
}

func (s sections) section(title string) {
	fmt.Fprintln(s.w, s.heading.Render(title))
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	r := lipgloss.NewRenderer(w)
	s := sections{w: w, heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))}

	fmt.Fprintln(w, r.NewStyle().Bold(true).Render("=== chatlens Analysis Report ==="))
	if len(report.Metadata.Sources) > 0 {
		fmt.Fprintf(w, "Sources: %s\n", strings.Join(report.Metadata.Sources, ", "))
	}

	a := report.Analysis
	if a == nil {
		a = &analyzer.AnalysisResult{User: analyzer.Overall}
	}
	fmt.Fprintf(w, "User: %s\n\n", a.User)

	s.section("Top Statistics")
	fmt.Fprintf(w, "  Total Messages: %d\n", a.Stats.Messages)
	fmt.Fprintf(w, "  Total Words:    %d\n", a.Stats.Words)
	fmt.Fprintf(w, "  Media Shared:   %d\n", a.Stats.Media)
	fmt.Fprintf(w, "  Links Shared:   %d\n\n", a.Stats.Links)

	s.section("Monthly Timeline")
	if len(a.MonthlyTimeline) == 0 {
		fmt.Fprintln(w, insufficientData)
	}
	for _, p := range a.MonthlyTimeline {
		fmt.Fprintf(w, "  %-16s %d\n", p.Label, p.Count)
	}
	fmt.Fprintln(w)

	s.section("Daily Timeline")
	if len(a.DailyTimeline) == 0 {
		fmt.Fprintln(w, insufficientData)
	}
	for _, p := range a.DailyTimeline {
		fmt.Fprintf(w, "  %s  %d\n", p.Date.Format("2006-01-02"), p.Count)
	}
	fmt.Fprintln(w)

	s.section("Most Busy Day")
	writeCounts(w, a.WeekActivity)

	s.section("Most Busy Month")
	writeCounts(w, a.MonthActivity)

	s.section("Weekly Activity Heatmap")
	if a.Heatmap.Empty() {
		fmt.Fprintln(w, insufficientData)
	} else {
		fmt.Fprintln(w, heatmapTable(a.Heatmap))
	}
	fmt.Fprintln(w)

	s.section("Most Busy Users")
	switch {
	case a.User != analyzer.Overall:
		fmt.Fprintf(w, "  Shown for %s only.\n", analyzer.Overall)
	case !a.GroupChat:
		fmt.Fprintln(w, personalChat)
	case a.BusyUsers == nil || len(a.BusyUsers.Top) == 0:
		fmt.Fprintln(w, insufficientData)
	default:
		for _, c := range a.BusyUsers.Top {
			fmt.Fprintf(w, "  %-20s %d\n", c.Label, c.Count)
		}
		rows := make([][]string, 0, len(a.BusyUsers.Shares))
		for _, share := range a.BusyUsers.Shares {
			rows = append(rows, []string{share.Name, strconv.FormatFloat(share.Percent, 'f', 2, 64)})
		}
		fmt.Fprintln(w, table.New().Border(lipgloss.NormalBorder()).Headers("name", "percent").Rows(rows...).String())
	}
	fmt.Fprintln(w)

	s.section("Most Common Words")
	writeCounts(w, a.CommonWords)

	s.section("Emoji Analysis")
	writeCounts(w, a.Emojis)

	if f.opts.Verbose {
		f.formatMetadata(report.Metadata, w)
	}

	return nil
}

func (f *TextFormatter) formatMetadata(m Metadata, w io.Writer) {
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Report ID: %s\n", m.ID)
	fmt.Fprintf(w, "Format: %s\n", m.Format)
	if m.Encoding != "" {
		fmt.Fprintf(w, "Encoding: %s\n", m.Encoding)
	}
	fmt.Fprintf(w, "Markers: %d, records: %d, dropped: %d (bad timestamps: %d, empty: %d)\n",
		m.Parse.Markers, m.Parse.Records, m.Parse.Dropped(), m.Parse.BadTimestamps, m.Parse.EmptyMessages)
	fmt.Fprintf(w, "Duration: %s\n", m.Duration.Round(1e6))
}

func writeCounts(w io.Writer, counts []analyzer.Count) {
	if len(counts) == 0 {
		fmt.Fprintln(w, insufficientData)
	}
	for _, c := range counts {
		fmt.Fprintf(w, "  %-20s %d\n", c.Label, c.Count)
	}
	fmt.Fprintln(w)
}

func heatmapTable(h analyzer.Heatmap) string {
	rows := make([][]string, len(h.Days))
	for i, day := range h.Days {
		row := make([]string, 0, len(h.Periods)+1)
		row = append(row, day)
		for _, n := range h.Counts[i] {
			row = append(row, strconv.Itoa(n))
		}
		rows[i] = row
	}
	headers := append([]string{"day"}, h.Periods...)
	return table.New().Border(lipgloss.NormalBorder()).Headers(headers...).Rows(rows...).String()
}
