package commands

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ccollicutt/chatlens/pkg/config"
)

func TestCollectWebhooks(t *testing.T) {
	t.Run("config only", func(t *testing.T) {
		cfg := &config.Config{
			Webhooks: []config.WebhookConfig{
				{Name: "slack", URL: "https://slack.com/webhook"},
				{Name: "archive", URL: "https://archive.example.com/webhook"},
			},
		}

		webhooks := collectWebhooks(cfg, &AnalyzeOptions{})

		if len(webhooks) != 2 {
			t.Errorf("got %d webhooks, want 2", len(webhooks))
		}
	})

	t.Run("cli only", func(t *testing.T) {
		opts := &AnalyzeOptions{
			WebhookURL:     "https://cli.example.com/webhook",
			WebhookToken:   "secret",
			WebhookTrigger: "always",
		}

		webhooks := collectWebhooks(&config.Config{}, opts)

		if len(webhooks) != 1 {
			t.Fatalf("got %d webhooks, want 1", len(webhooks))
		}
		if webhooks[0].Name != "cli" {
			t.Errorf("got name %q, want cli", webhooks[0].Name)
		}
		if webhooks[0].Token != "secret" {
			t.Errorf("got token %q, want secret", webhooks[0].Token)
		}
		if webhooks[0].Trigger != config.WebhookTriggerAlways {
			t.Errorf("got trigger %q, want always", webhooks[0].Trigger)
		}
		if webhooks[0].Timeout != config.DefaultWebhookTimeout {
			t.Errorf("got timeout %v, want %v", webhooks[0].Timeout, config.DefaultWebhookTimeout)
		}
	})

	t.Run("empty cli trigger defaults to on_data", func(t *testing.T) {
		opts := &AnalyzeOptions{WebhookURL: "https://cli.example.com/webhook"}

		webhooks := collectWebhooks(&config.Config{}, opts)

		if webhooks[0].Trigger != config.WebhookTriggerOnData {
			t.Errorf("got trigger %q, want on_data", webhooks[0].Trigger)
		}
	})

	t.Run("config and cli", func(t *testing.T) {
		cfg := &config.Config{
			Webhooks: []config.WebhookConfig{{Name: "slack", URL: "https://slack.com/webhook"}},
		}
		opts := &AnalyzeOptions{WebhookURL: "https://cli.example.com/webhook"}

		webhooks := collectWebhooks(cfg, opts)

		if len(webhooks) != 2 {
			t.Fatalf("got %d webhooks, want 2", len(webhooks))
		}
		if webhooks[1].Name != "cli" {
			t.Errorf("CLI webhook should be last, got %q", webhooks[1].Name)
		}
	})
}

type analyzeJSON struct {
	Analysis struct {
		User      string `json:"user"`
		GroupChat bool   `json:"group_chat"`
		Stats     struct {
			Messages int `json:"messages"`
			Media    int `json:"media"`
			Links    int `json:"links"`
		} `json:"stats"`
		BusyUsers *struct{} `json:"busy_users"`
	} `json:"analysis"`
	Metadata struct {
		ID      string   `json:"id"`
		Sources []string `json:"sources"`
		Format  string   `json:"format"`
		Parse   struct {
			Records int `json:"records"`
		} `json:"parse"`
	} `json:"metadata"`
}

func runAnalyzeJSON(t *testing.T, args ...string) analyzeJSON {
	t.Helper()
	out, err := execute(t, NewAnalyzeCommand(), append([]string{"-o", "json"}, args...)...)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var report analyzeJSON
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Invalid JSON: %v\n%s", err, out)
	}
	return report
}

func TestRunAnalyze_JSON(t *testing.T) {
	resetExitCode(t)
	chat := writeChat(t, "group.txt", groupChat)

	report := runAnalyzeJSON(t, chat)

	a := report.Analysis
	if a.User != "Overall" {
		t.Errorf("User = %q, want Overall", a.User)
	}
	if !a.GroupChat {
		t.Error("GroupChat = false, want true")
	}
	if a.Stats.Messages != 5 || a.Stats.Media != 1 || a.Stats.Links != 1 {
		t.Errorf("Stats = %+v, want 5 messages, 1 media, 1 link", a.Stats)
	}
	if a.BusyUsers == nil {
		t.Error("BusyUsers missing for Overall in a group chat")
	}
	if report.Metadata.Format != "bracketed" {
		t.Errorf("Format = %q, want bracketed", report.Metadata.Format)
	}
	if report.Metadata.ID == "" {
		t.Error("report ID should be set")
	}
	if ExitCode != ExitOK {
		t.Errorf("ExitCode = %d, want %d", ExitCode, ExitOK)
	}
}

func TestRunAnalyze_User(t *testing.T) {
	resetExitCode(t)
	chat := writeChat(t, "group.txt", groupChat)

	report := runAnalyzeJSON(t, "--user", "Alice", chat)

	if report.Analysis.User != "Alice" {
		t.Errorf("User = %q, want Alice", report.Analysis.User)
	}
	if report.Analysis.Stats.Messages != 2 {
		t.Errorf("Messages = %d, want 2", report.Analysis.Stats.Messages)
	}
	if report.Analysis.BusyUsers != nil {
		t.Error("BusyUsers should only be reported for Overall")
	}
}

func TestRunAnalyze_MergesFiles(t *testing.T) {
	resetExitCode(t)
	group := writeChat(t, "group.txt", groupChat)
	personal := writeChat(t, "personal.txt", personalChat)

	report := runAnalyzeJSON(t, personal, group)

	if report.Analysis.Stats.Messages != 7 {
		t.Errorf("Messages = %d, want 7", report.Analysis.Stats.Messages)
	}
	if report.Metadata.Format != "bracketed,dashed" {
		t.Errorf("Format = %q, want bracketed,dashed", report.Metadata.Format)
	}
	if len(report.Metadata.Sources) != 2 {
		t.Errorf("Sources = %v, want 2 entries", report.Metadata.Sources)
	}
}

func TestRunAnalyze_NoData(t *testing.T) {
	resetExitCode(t)
	chat := writeChat(t, "notes.txt", "nothing that looks like a chat\n")

	report := runAnalyzeJSON(t, chat)

	if report.Analysis.Stats.Messages != 0 {
		t.Errorf("Messages = %d, want 0", report.Analysis.Stats.Messages)
	}
	if report.Metadata.Format != "none" {
		t.Errorf("Format = %q, want none", report.Metadata.Format)
	}
	if ExitCode != ExitNoData {
		t.Errorf("ExitCode = %d, want %d", ExitCode, ExitNoData)
	}
}

func TestRunAnalyze_Quiet(t *testing.T) {
	resetExitCode(t)
	chat := writeChat(t, "group.txt", groupChat)

	out, err := execute(t, NewAnalyzeCommand(), "-q", chat)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.HasPrefix(out, "chatlens: 5 messages") {
		t.Errorf("quiet output = %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("quiet output should be one line, got %q", out)
	}
}

func TestRunAnalyze_ConfigFile(t *testing.T) {
	resetExitCode(t)
	dir := t.TempDir()
	chat := writeChat(t, "group.txt", groupChat)
	configPath := filepath.Join(dir, "chatlens.yaml")
	config := "analysis:\n  user: Bob\noutput:\n  format: json\n"
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	out, err := execute(t, NewAnalyzeCommand(), "-c", configPath, chat)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var report analyzeJSON
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("config output format not applied: %v", err)
	}
	if report.Analysis.User != "Bob" {
		t.Errorf("User = %q, want Bob", report.Analysis.User)
	}
}

func TestRunAnalyze_Errors(t *testing.T) {
	chat := writeChat(t, "group.txt", groupChat)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.txt")}, "not found"},
		{"bad format", []string{"-f", "csv", chat}, "analysis.format"},
		{"bad output", []string{"-o", "xml", chat}, "output.format"},
		{"negative top words", []string{"--top-words=-1", chat}, "analysis.top_words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetExitCode(t)
			_, err := execute(t, NewAnalyzeCommand(), tt.args...)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestRunAnalyze_Webhook(t *testing.T) {
	var (
		mu       sync.Mutex
		received []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		received = append(received, r.Header.Get("Authorization"))
		mu.Unlock()

		var report analyzeJSON
		if err := json.Unmarshal(body, &report); err != nil {
			t.Errorf("webhook body is not a report: %v", err)
		}
		if r.Header.Get("X-Chatlens-Report-ID") != report.Metadata.ID {
			t.Errorf("report ID header = %q, want %q", r.Header.Get("X-Chatlens-Report-ID"), report.Metadata.ID)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		text    string
		trigger string
		want    int
	}{
		{"on_data with data", groupChat, "on_data", 1},
		{"on_data without data", "no chat here\n", "on_data", 0},
		{"always without data", "no chat here\n", "always", 1},
		{"never with data", groupChat, "never", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetExitCode(t)
			mu.Lock()
			received = nil
			mu.Unlock()

			chat := writeChat(t, "chat.txt", tt.text)
			_, err := execute(t, NewAnalyzeCommand(),
				"-q",
				"--webhook-url", srv.URL,
				"--webhook-token", "secret",
				"--webhook-trigger", tt.trigger,
				chat,
			)
			if err != nil {
				t.Fatalf("analyze failed: %v", err)
			}

			mu.Lock()
			defer mu.Unlock()
			if len(received) != tt.want {
				t.Fatalf("webhook calls = %d, want %d", len(received), tt.want)
			}
			for _, auth := range received {
				if auth != "Bearer secret" {
					t.Errorf("Authorization = %q, want Bearer secret", auth)
				}
			}
		})
	}
}
