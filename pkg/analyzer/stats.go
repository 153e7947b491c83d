package analyzer

import (
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// ForUser returns the messages written by user, or all messages for Overall.
func ForUser(user string, msgs []parser.Message) []parser.Message {
	if user == Overall || user == "" {
		return msgs
	}
	return lo.Filter(msgs, func(m parser.Message, _ int) bool {
		return m.User == user
	})
}

// FetchStats counts messages, words, media placeholders and links.
func FetchStats(user string, msgs []parser.Message, mediaPlaceholder string, links LinkFinder) Stats {
	msgs = ForUser(user, msgs)
	if links == nil {
		links = NewLinkFinder()
	}

	var s Stats
	s.Messages = len(msgs)
	for _, m := range msgs {
		s.Words += len(strings.Fields(m.Text))
		if mediaPlaceholder != "" && strings.Contains(m.Text, mediaPlaceholder) {
			s.Media++
		}
		s.Links += len(links.FindLinks(m.Text))
	}
	return s
}

// MostBusyUsers ranks every author, the notification sentinel included.
// Top is limited to n entries; Shares covers everyone.
func MostBusyUsers(msgs []parser.Message, n int) BusyUsers {
	ranked := rank(lo.Map(msgs, func(m parser.Message, _ int) string { return m.User }))

	shares := make([]UserShare, 0, len(ranked))
	for _, c := range ranked {
		shares = append(shares, UserShare{
			Name:    c.Label,
			Percent: math.Round(float64(c.Count)/float64(len(msgs))*100*100) / 100,
		})
	}

	top := ranked
	if n > 0 && len(top) > n {
		top = top[:n]
	}
	return BusyUsers{Top: top, Shares: shares}
}

// Users returns the sorted author names, without the notification sentinel,
// with Overall first.
func Users(msgs []parser.Message) []string {
	names := lo.Uniq(lo.FilterMap(msgs, func(m parser.Message, _ int) (string, bool) {
		return m.User, !m.IsNotification()
	}))
	sort.Strings(names)
	return append([]string{Overall}, names...)
}

// IsGroupChat reports whether a user list from Users has more than two
// participants' worth of entries.
func IsGroupChat(users []string) bool {
	return len(users) > 2
}

// rank counts keys and orders them by count descending; ties keep the order
// in which keys first appeared.
func rank(keys []string) []Count {
	counts := lo.CountValues(keys)
	result := lo.Map(lo.Uniq(keys), func(k string, _ int) Count {
		return Count{Label: k, Count: counts[k]}
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}
