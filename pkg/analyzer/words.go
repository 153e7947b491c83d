package analyzer

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// Stopwords is a set of lowercase words excluded from word counts.
type Stopwords map[string]struct{}

// NewStopwords builds a set from words, lowercased and trimmed.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// Contains reports whether word is a stopword.
func (s Stopwords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// LoadStopwords reads one stopword per line. A missing file yields an empty
// set and no error.
func LoadStopwords(path string) (Stopwords, error) {
	if path == "" {
		return Stopwords{}, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Stopwords{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open stopwords file: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stopwords file: %w", err)
	}
	return NewStopwords(words...), nil
}

// WordFilter decides which messages and words contribute to word counts.
type WordFilter struct {
	Stopwords Stopwords

	// Ignored lists whole message texts that carry no words of their own,
	// such as media placeholders and deletion notices.
	Ignored []string
}

// DefaultWordFilter ignores the exporter's placeholders and uses stopwords.
func DefaultWordFilter(stopwords Stopwords) WordFilter {
	return WordFilter{
		Stopwords: stopwords,
		Ignored:   []string{DefaultMediaPlaceholder, DefaultDeletedNotice},
	}
}

// Words returns the usable words of the selected messages in order.
func (f WordFilter) Words(user string, msgs []parser.Message) []string {
	var words []string
	for _, m := range ForUser(user, msgs) {
		if m.IsNotification() || lo.Contains(f.Ignored, m.Text) {
			continue
		}
		for _, w := range strings.Fields(strings.ToLower(m.Text)) {
			if !f.Stopwords.Contains(w) {
				words = append(words, w)
			}
		}
	}
	return words
}

// CommonWords returns the n most frequent words, most frequent first.
func CommonWords(user string, msgs []parser.Message, filter WordFilter, n int) []Count {
	words := filter.Words(user, msgs)
	if len(words) == 0 {
		return []Count{}
	}
	return TopN(rank(words), n)
}

// WordCloudWeights returns every word with its frequency, for rendering a
// word cloud.
func WordCloudWeights(user string, msgs []parser.Message, filter WordFilter) map[string]int {
	return lo.CountValues(filter.Words(user, msgs))
}
