package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/decode"
	"github.com/ccollicutt/chatlens/pkg/detector"
	"github.com/ccollicutt/chatlens/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	ConfigFile string
	Verbose    bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <chat.txt>",
		Short: "Diagnose why a chat export parses poorly",
		Long: `Diagnose common problems with a chat export and configuration.

This command checks:
- Export file existence and size
- Text encoding
- Export format detection
- Entries dropped while parsing (bad timestamps, empty messages)
- Participants found
- Configuration file, stopword list and webhooks (with --config)

Example:
  chatlens diagnose chat.txt
  chatlens diagnose -c chatlens.yaml -v chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(commandContext(cmd), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file to check as well")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, chatFile string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	cfg := config.DefaultConfig()
	if opts.ConfigFile != "" {
		loaded, result := checkConfigParseable(ctx, opts.ConfigFile)
		results = append(results, result)
		if loaded != nil {
			cfg = loaded
			results = append(results, checkStopwords(cfg))
			results = append(results, checkWebhooks(cfg, opts)...)
		}
	}

	result := checkChatFile(chatFile)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	decoded, err := decode.ReadFile(chatFile)
	if err != nil {
		results = append(results, DiagnosticResult{
			Check:   "Encoding",
			Status:  "error",
			Message: fmt.Sprintf("Cannot read export: %v", err),
		})
		printDiagnostics(w, results, opts)
		return nil
	}
	results = append(results, checkEncoding(decoded))

	detection, result := checkFormat(decoded.Text, cfg.Analysis.Format)
	results = append(results, result)
	if detection == nil || !detection.HasMatch() {
		printDiagnostics(w, results, opts)
		return nil
	}

	msgs, stats := detection.Format.ParseWithStats(decoded.Text)
	results = append(results, checkParse(stats, opts))
	results = append(results, checkParticipants(msgs))

	printDiagnostics(w, results, opts)
	return nil
}

func checkChatFile(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Chat Export",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Export not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access export: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Export is empty"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkEncoding(decoded decode.Result) DiagnosticResult {
	result := DiagnosticResult{
		Check:   "Encoding",
		Status:  "ok",
		Message: decoded.Encoding,
	}
	switch decoded.Encoding {
	case decode.Windows1252:
		result.Status = "warning"
		result.Message = "Not valid UTF-8; decoded as Windows-1252"
		result.Suggests = []string{"Re-export the chat from the phone to get UTF-8 text"}
	case decode.UTF8Lossy:
		result.Status = "warning"
		result.Message = "Invalid byte sequences replaced with U+FFFD"
	}
	return result
}

func checkFormat(text, format string) (*detector.DetectionResult, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Format Detection",
	}

	d, err := detector.ForName(format)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		return nil, result
	}

	detection := d.Detect(text)
	for _, c := range detection.Counts {
		result.Details = append(result.Details, fmt.Sprintf("%s markers: %d", c.Name, c.Markers))
	}

	if !detection.HasMatch() {
		result.Status = "error"
		result.Message = "No timestamp markers found"
		result.Suggests = []string{
			"Message lines should start like '[3:04 pm, 2/1/2006] ' or '2/1/06, 15:04 - '",
			"First line: " + truncate(firstLine(text), 60),
		}
		return detection, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Detected: %s (sample %q)", detection.FormatName(), strings.TrimSpace(detection.SampleMarker))

	matched := 0
	for _, c := range detection.Counts {
		if c.Markers > 0 {
			matched++
		}
	}
	if matched > 1 {
		result.Status = "warning"
		result.Suggests = []string{"Markers of several formats found; the first format in detection order is used"}
	}
	return detection, result
}

func checkParse(stats parser.Stats, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check:   "Parse Results",
		Status:  "ok",
		Message: fmt.Sprintf("%d messages from %d markers", stats.Records, stats.Markers),
	}

	if stats.Layout != "" && opts.Verbose {
		result.Details = append(result.Details, fmt.Sprintf("Layout: %s", stats.Layout))
	}
	if stats.Notifications > 0 {
		result.Details = append(result.Details, fmt.Sprintf("System notifications: %d", stats.Notifications))
	}
	if stats.BadTimestamps > 0 {
		result.Details = append(result.Details, fmt.Sprintf("Dropped, timestamp did not parse: %d", stats.BadTimestamps))
	}
	if stats.EmptyMessages > 0 {
		result.Details = append(result.Details, fmt.Sprintf("Dropped, empty message: %d", stats.EmptyMessages))
	}

	switch {
	case stats.Records == 0:
		result.Status = "error"
		result.Suggests = []string{"Every marker was dropped; check the date order (day/month/year) of the export"}
	case stats.BadTimestamps > 0:
		result.Status = "warning"
		result.Suggests = []string{"Some markers matched the pattern but are not valid dates or times"}
	}
	return result
}

func checkParticipants(msgs []parser.Message) DiagnosticResult {
	users := analyzer.Users(msgs)
	result := DiagnosticResult{
		Check:   "Participants",
		Status:  "ok",
		Details: users[1:],
	}

	switch {
	case len(users) == 1:
		result.Status = "warning"
		result.Message = "No participants found, only system notifications"
	case analyzer.IsGroupChat(users):
		result.Message = fmt.Sprintf("Group chat with %d participants", len(users)-1)
	default:
		result.Message = "Personal chat with 1 participant"
	}
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Format: %s", cfg.Analysis.Format),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

func checkStopwords(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Stopwords",
	}

	path := cfg.Analysis.StopwordsFile
	if path == "" {
		result.Status = "ok"
		result.Message = "No stopword list configured (optional)"
		return result
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Stopword list not found: %s", path)
		result.Suggests = []string{"Word counts will include every word"}
		return result
	}

	words, err := analyzer.LoadStopwords(path)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d stopwords loaded from %s", len(words), path)
	return result
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", name),
			Status:  "ok",
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
		}

		if wh.Token == "" && strings.Contains(wh.URL, "token") {
			result.Status = "warning"
			result.Message = "Token looks like it is embedded in the URL"
		}
		if opts.Verbose {
			result.Details = []string{
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
			}
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}
		results = append(results, result)

		if opts.Verbose {
			conn := checkWebhookConnectivity(wh)
			conn.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, conn)
		}
	}

	return results
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may require POST method (will work during actual webhook send)",
		}
	}

	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== chatlens Export Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		if r.Message != "" {
			fmt.Fprintf(w, "    %s\n", r.Message)
		}

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running analysis.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nThe export is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nThe export looks good!")
	}
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
