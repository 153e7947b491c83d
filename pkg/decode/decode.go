// Package decode turns uploaded chat-export bytes into text.
package decode

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported in Result.
const (
	UTF8        = "utf-8"
	Windows1252 = "windows-1252"
	UTF8Lossy   = "utf-8-lossy"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// undefined1252 holds the bytes Windows-1252 leaves unassigned. The charmap
// decoder maps them to U+FFFD without an error, so input containing them is
// not treated as Windows-1252.
var undefined1252 = []byte{0x81, 0x8D, 0x8F, 0x90, 0x9D}

// Result is decoded text plus the encoding that produced it.
type Result struct {
	Text     string
	Encoding string
}

// Decode converts b to text. UTF-8 is tried first, then Windows-1252, and as
// a last resort invalid UTF-8 sequences are replaced with U+FFFD.
// Line endings are normalised to "\n".
func Decode(b []byte) Result {
	b = bytes.TrimPrefix(b, utf8BOM)

	if utf8.Valid(b) {
		return Result{Text: normalizeNewlines(string(b)), Encoding: UTF8}
	}

	if !hasUndefined1252(b) {
		if text, err := charmap.Windows1252.NewDecoder().Bytes(b); err == nil {
			return Result{Text: normalizeNewlines(string(text)), Encoding: Windows1252}
		}
	}

	return Result{
		Text:     normalizeNewlines(strings.ToValidUTF8(string(b), "\uFFFD")),
		Encoding: UTF8Lossy,
	}
}

// ReadFile reads and decodes a chat export.
func ReadFile(path string) (Result, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return Result{}, fmt.Errorf("reading chat file: %w", err)
	}
	return Decode(data), nil
}

func hasUndefined1252(b []byte) bool {
	for _, c := range undefined1252 {
		if bytes.IndexByte(b, c) >= 0 {
			return true
		}
	}
	return false
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
