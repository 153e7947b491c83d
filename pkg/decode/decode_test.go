package decode

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name         string
		input        []byte
		wantText     string
		wantEncoding string
	}{
		{
			name:         "utf-8",
			input:        []byte("[10:15 am, 01/02/2023] Zoë: héllo 😀"),
			wantText:     "[10:15 am, 01/02/2023] Zoë: héllo 😀",
			wantEncoding: UTF8,
		},
		{
			name:         "utf-8 with BOM",
			input:        append([]byte{0xEF, 0xBB, 0xBF}, []byte("hi")...),
			wantText:     "hi",
			wantEncoding: UTF8,
		},
		{
			name:         "windows-1252",
			input:        []byte{'c', 'a', 'f', 0xE9, ' ', 0x80, '5'},
			wantText:     "café €5",
			wantEncoding: Windows1252,
		},
		{
			name:         "undefined windows-1252 byte",
			input:        []byte{0x8D, 'h', 'i'},
			wantText:     "\uFFFDhi",
			wantEncoding: UTF8Lossy,
		},
		{
			name:         "undefined byte inside windows-1252 text",
			input:        []byte{'c', 'a', 'f', 0xE9, 0x81},
			wantText:     "caf\uFFFD",
			wantEncoding: UTF8Lossy,
		},
		{
			name:         "crlf",
			input:        []byte("a\r\nb\rc"),
			wantText:     "a\nb\nc",
			wantEncoding: UTF8,
		},
		{
			name:         "empty",
			input:        nil,
			wantText:     "",
			wantEncoding: UTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.input)
			if got.Text != tt.wantText {
				t.Errorf("Decode() text = %q, want %q", got.Text, tt.wantText)
			}
			if got.Encoding != tt.wantEncoding {
				t.Errorf("Decode() encoding = %q, want %q", got.Encoding, tt.wantEncoding)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(path, []byte("01/02/23, 22:05 - Bob: hi\r\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.Text != "01/02/23, 22:05 - Bob: hi\n" {
		t.Errorf("ReadFile() text = %q", got.Text)
	}
}

func TestReadFile_NotFound(t *testing.T) {
	if _, err := ReadFile("/nonexistent/chat.txt"); err == nil {
		t.Error("ReadFile() expected error for missing file")
	}
}
