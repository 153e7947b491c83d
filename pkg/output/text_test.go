package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/parser"
)

const chat = `[10:00 am, 02/01/2023] Alice: hello world 😀
[10:05 am, 02/01/2023] Bob: <Media omitted>
[11:30 pm, 03/01/2023] Carol: hello again https://example.com
[09:01 am, 05/02/2023] Alice added Dave
`

func createTestReport(t *testing.T, user string) *Report {
	t.Helper()
	msgs, stats := parser.NewBracketed().ParseWithStats(chat)
	result, err := analyzer.New().Analyze(context.Background(), user, msgs)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return NewReport(result, Metadata{
		ID:       "report-1",
		Sources:  []string{"chat.txt"},
		Format:   "bracketed",
		Encoding: "utf-8",
		Duration: 3 * time.Millisecond,
		Parse:    stats,
	})
}

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter() returned nil")
	}
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want %q", f.Name(), "text")
	}
}

func TestTextFormatter_Format_Overall(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(t, analyzer.Overall), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"chatlens Analysis Report",
		"Sources: chat.txt",
		"Top Statistics",
		"Total Messages: 4",
		"Media Shared:   1",
		"Links Shared:   1",
		"January-2023",
		"2023-01-02",
		"Most Busy Day",
		"Most Busy Month",
		"Weekly Activity Heatmap",
		"23-00",
		"Most Busy Users",
		"Most Common Words",
		"hello",
		"Emoji Analysis",
		"😀",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q", want)
		}
	}
	if strings.Contains(out, "Report ID") {
		t.Error("Non-verbose output contains metadata")
	}
}

func TestTextFormatter_Format_SingleUser(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(t, "Bob"), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Shown for Overall only.") {
		t.Error("Output missing single-user busy users notice")
	}
	if !strings.Contains(out, insufficientData) {
		t.Error("Output missing insufficient data notice for Bob's words")
	}
}

func TestTextFormatter_Format_PersonalChat(t *testing.T) {
	msgs := parser.NewBracketed().Parse("[10:00 am, 02/01/2023] Alice: hi\n[10:01 am, 02/01/2023] Bob: hey\n")
	result, err := analyzer.New().Analyze(context.Background(), analyzer.Overall, msgs)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewTextFormatter(FormatOptions{}).Format(context.Background(), NewReport(result, Metadata{}), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), personalChat) {
		t.Error("Output missing personal chat notice")
	}
}

func TestTextFormatter_Format_Empty(t *testing.T) {
	result, err := analyzer.New().Analyze(context.Background(), analyzer.Overall, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewTextFormatter(FormatOptions{}).Format(context.Background(), NewReport(result, Metadata{}), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Total Messages: 0") {
		t.Error("Output missing zero statistics")
	}
	if got := strings.Count(out, insufficientData); got < 7 {
		t.Errorf("insufficient data notices = %d, want at least 7", got)
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(t, analyzer.Overall), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	if strings.Count(out, "\n") != 1 {
		t.Errorf("Quiet output should be a single line, got %q", out)
	}
	if !strings.Contains(out, "4 messages") {
		t.Errorf("Quiet output = %q, want message count", out)
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(t, analyzer.Overall), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Report ID: report-1", "Format: bracketed", "Encoding: utf-8", "Markers: 4, records: 4", "Duration: 3ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("Verbose output missing %q", want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"text", "json"} {
		f, err := New(name, FormatOptions{})
		if err != nil {
			t.Fatalf("New(%q) error = %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, f.Name())
		}
	}
	if _, err := New("xml", FormatOptions{}); err == nil {
		t.Error("New(xml) expected error")
	}
}
