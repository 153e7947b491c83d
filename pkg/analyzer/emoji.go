package analyzer

import (
	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
	"github.com/samber/lo"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// EmojiClassifier decides whether a single grapheme cluster is an emoji.
type EmojiClassifier interface {
	IsEmoji(grapheme string) bool
}

// EmojiClassifierFunc adapts a function to EmojiClassifier.
type EmojiClassifierFunc func(grapheme string) bool

// IsEmoji calls f(g).
func (f EmojiClassifierFunc) IsEmoji(g string) bool { return f(g) }

// DefaultEmojiClassifier uses the Unicode emoji table bundled with gomoji.
// Clusters made only of ASCII are never emoji, so plain digits and '#' are
// not counted even though they can start a keycap sequence.
var DefaultEmojiClassifier EmojiClassifier = EmojiClassifierFunc(func(g string) bool {
	if isASCII(g) {
		return false
	}
	return gomoji.ContainsEmoji(g)
})

// Emojis counts emoji across the selected messages, most frequent first.
// Multi-codepoint sequences such as skin-tone variants count as one emoji.
func Emojis(user string, msgs []parser.Message, classifier EmojiClassifier) []Count {
	if classifier == nil {
		classifier = DefaultEmojiClassifier
	}

	var found []string
	for _, m := range ForUser(user, msgs) {
		g := uniseg.NewGraphemes(m.Text)
		for g.Next() {
			if s := g.Str(); classifier.IsEmoji(s) {
				found = append(found, s)
			}
		}
	}
	if len(found) == 0 {
		return []Count{}
	}
	return rank(found)
}

// TopN returns at most n counts. n <= 0 returns all of them.
func TopN(counts []Count, n int) []Count {
	if n <= 0 || len(counts) <= n {
		return counts
	}
	return lo.Subset(counts, 0, uint(n))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
