package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/decode"
	"github.com/ccollicutt/chatlens/pkg/detector"
	"github.com/ccollicutt/chatlens/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <chat.txt>",
		Short: "Detect the export format of a chat",
		Long: `Inspect an exported chat and report which export format it uses.

Counts timestamp markers for every supported format, shows a sample marker
and the first parsed timestamp, and prints a configuration snippet.

Supports:
  - Bracketed 12-hour exports:  [3:04 pm, 2/1/2006] Name: text
  - Dashed 24-hour exports:     2/1/06, 15:04 - Name: text

Optionally generates a starter config file with --write-config.

Example:
  chatlens detect chat.txt
  chatlens detect -o json chat.txt
  chatlens detect -w chatlens.yaml chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

// detection gathers everything detect reports about one file.
type detection struct {
	File     string
	Encoding string
	Result   *detector.DetectionResult
	Stats    parser.Stats
	First    *parser.Message
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	chatFile := args[0]

	if _, err := os.Stat(chatFile); os.IsNotExist(err) {
		return fmt.Errorf("chat export not found: %s", chatFile)
	}

	decoded, err := decode.ReadFile(chatFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	det := detection{File: chatFile, Encoding: decoded.Encoding}
	msgs, stats, result := detector.New().Parse(decoded.Text)
	det.Result = result
	det.Stats = stats
	if len(msgs) > 0 {
		det.First = &msgs[0]
	}

	w := cmd.OutOrStdout()

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(w, det, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(w, det)
	case "text":
		return outputDetectText(w, det)
	default:
		return fmt.Errorf("unknown output format: %s (use 'text' or 'json')", opts.Output)
	}
}

func outputDetectText(w io.Writer, det detection) error {
	fmt.Fprintln(w, "=== Chat Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", det.File)
	fmt.Fprintf(w, "Encoding: %s\n", det.Encoding)
	for _, c := range det.Result.Counts {
		fmt.Fprintf(w, "Markers (%s): %d\n", c.Name, c.Markers)
	}
	fmt.Fprintln(w)

	if !det.Result.HasMatch() {
		fmt.Fprintln(w, "No chat format detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: Export the chat again \"without media\" and check that message")
		fmt.Fprintln(w, "lines start with a date and time.")
		return nil
	}

	fmt.Fprintf(w, "Detected Format: %s\n", det.Result.FormatName())
	fmt.Fprintf(w, "Messages parsed: %d of %d markers\n", det.Stats.Records, det.Stats.Markers)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample marker:\n  %s\n", det.Result.SampleMarker)
	if det.First != nil {
		fmt.Fprintf(w, "Parsed as: %s\n", det.First.Timestamp.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w)

	if det.Result.MarkerCount("bracketed") > 0 && det.Result.MarkerCount("dashed") > 0 {
		fmt.Fprintln(w, "Note: markers of both formats were found; the bracketed format takes precedence.")
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "analysis:")
	fmt.Fprintf(w, "  format: %s\n", det.Result.FormatName())
	fmt.Fprintln(w)

	return nil
}

// DetectJSON represents the full JSON output.
type DetectJSON struct {
	File         string                 `json:"file"`
	Encoding     string                 `json:"encoding"`
	Format       string                 `json:"format"`
	Counts       []detector.FormatCount `json:"counts"`
	SampleMarker string                 `json:"sample_marker,omitempty"`
	FirstMessage *time.Time             `json:"first_message,omitempty"`
	Stats        parser.Stats           `json:"stats"`
}

func outputDetectJSON(w io.Writer, det detection) error {
	out := DetectJSON{
		File:         det.File,
		Encoding:     det.Encoding,
		Format:       det.Result.FormatName(),
		Counts:       det.Result.Counts,
		SampleMarker: det.Result.SampleMarker,
		Stats:        det.Stats,
	}
	if det.First != nil {
		out.FirstMessage = &det.First.Timestamp
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file with the detected format.
func writeStarterConfig(w io.Writer, det detection, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !det.Result.HasMatch() {
		return fmt.Errorf("cannot generate config: no chat format detected")
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(generateStarterConfig(det)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(det detection) string {
	absFile := det.File
	if abs, err := filepath.Abs(det.File); err == nil {
		absFile = abs
	}

	return fmt.Sprintf(`# chatlens configuration
# Generated by: chatlens detect %s
# Detected format: %s (%d markers)

analysis:
  format: %s
  # user: "Alice"            # restrict statistics to one participant
  top_words: 20
  top_users: 5
  # stopwords_file: stop_words.txt
  media_placeholder: "<Media omitted>"
  ignored_messages:
    - "<Media omitted>"
    - "This message was deleted"

output:
  format: text

logging:
  level: warn
  # file: chatlens.log

server:
  addr: ":8080"
  max_upload_bytes: 33554432

# webhooks:
#   - name: reports
#     url: "https://example.com/hooks/chatlens"
#     token: "${CHATLENS_WEBHOOK_TOKEN}"
#     trigger: on_data
`, absFile, det.Result.FormatName(), det.Result.MarkerCount(det.Result.FormatName()), det.Result.FormatName())
}
