package analyzer

import (
	"context"
	"log/slog"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// Default limits on ranked lists.
const (
	DefaultTopWords  = 20
	DefaultTopUsers  = 5
	DefaultTopEmojis = 0
)

// Analyzer computes every aggregate for one selected user.
type Analyzer struct {
	topWords         int
	topUsers         int
	topEmojis        int
	mediaPlaceholder string
	filter           WordFilter
	links            LinkFinder
	emoji            EmojiClassifier
	logger           *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTopWords limits CommonWords to n entries.
func WithTopWords(n int) Option {
	return func(a *Analyzer) { a.topWords = n }
}

// WithTopUsers limits the busy-user ranking to n entries.
func WithTopUsers(n int) Option {
	return func(a *Analyzer) { a.topUsers = n }
}

// WithTopEmojis limits the emoji ranking; 0 keeps all.
func WithTopEmojis(n int) Option {
	return func(a *Analyzer) { a.topEmojis = n }
}

// WithMediaPlaceholder sets the text that marks an omitted attachment.
func WithMediaPlaceholder(s string) Option {
	return func(a *Analyzer) { a.mediaPlaceholder = s }
}

// WithStopwords sets the words excluded from word counts.
func WithStopwords(s Stopwords) Option {
	return func(a *Analyzer) { a.filter.Stopwords = s }
}

// WithIgnoredMessages replaces the message texts skipped by word counts.
func WithIgnoredMessages(texts []string) Option {
	return func(a *Analyzer) { a.filter.Ignored = texts }
}

// WithLinkFinder overrides URL extraction.
func WithLinkFinder(f LinkFinder) Option {
	return func(a *Analyzer) { a.links = f }
}

// WithEmojiClassifier overrides emoji detection.
func WithEmojiClassifier(c EmojiClassifier) Option {
	return func(a *Analyzer) { a.emoji = c }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		topWords:         DefaultTopWords,
		topUsers:         DefaultTopUsers,
		topEmojis:        DefaultTopEmojis,
		mediaPlaceholder: DefaultMediaPlaceholder,
		filter:           DefaultWordFilter(Stopwords{}),
		links:            NewLinkFinder(),
		emoji:            DefaultEmojiClassifier,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the aggregates for user, or for everyone when user is
// Overall or empty.
func (a *Analyzer) Analyze(ctx context.Context, user string, msgs []parser.Message) (*AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if user == "" {
		user = Overall
	}

	users := Users(msgs)
	result := &AnalysisResult{
		User:            user,
		Users:           users,
		GroupChat:       IsGroupChat(users),
		Stats:           FetchStats(user, msgs, a.mediaPlaceholder, a.links),
		MonthlyTimeline: MonthlyTimeline(user, msgs),
		DailyTimeline:   DailyTimeline(user, msgs),
		WeekActivity:    WeekActivity(user, msgs),
		MonthActivity:   MonthActivity(user, msgs),
		Heatmap:         ActivityHeatmap(user, msgs),
		CommonWords:     CommonWords(user, msgs, a.filter, a.topWords),
		Emojis:          TopN(Emojis(user, msgs, a.emoji), a.topEmojis),
	}

	if user == Overall && result.GroupChat {
		busy := MostBusyUsers(msgs, a.topUsers)
		result.BusyUsers = &busy
	}

	a.logger.Debug("analysis complete",
		"user", user,
		"messages", result.Stats.Messages,
		"users", len(users)-1,
		"group_chat", result.GroupChat)

	return result, nil
}
