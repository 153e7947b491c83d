package analyzer

import (
	"regexp"

	"mvdan.cc/xurls/v2"
)

// LinkFinder extracts URLs from message text.
type LinkFinder interface {
	FindLinks(text string) []string
}

type relaxedFinder struct {
	re *regexp.Regexp
}

// NewLinkFinder returns a finder that also accepts bare domains such as
// "example.com" with a known top-level domain.
func NewLinkFinder() LinkFinder {
	return relaxedFinder{re: relaxed}
}

var relaxed = xurls.Relaxed()

func (f relaxedFinder) FindLinks(text string) []string {
	return f.re.FindAllString(text, -1)
}
