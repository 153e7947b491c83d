// Package analyzer derives chat statistics from parsed messages.
package analyzer

import "time"

// Overall selects every author instead of a single one.
const Overall = "Overall"

// Default placeholders written by the exporter in place of content.
const (
	DefaultMediaPlaceholder = "<Media omitted>"
	DefaultDeletedNotice    = "This message was deleted"
)

// Stats are the headline numbers for a selection of messages.
type Stats struct {
	Messages int `json:"messages"`
	Words    int `json:"words"`
	Media    int `json:"media"`
	Links    int `json:"links"`
}

// Count is a label with its number of occurrences.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// UserShare is one author's share of all messages, in percent.
type UserShare struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// BusyUsers ranks authors by message count.
type BusyUsers struct {
	// Top holds the most active authors, most active first.
	Top []Count `json:"top"`

	// Shares lists every author with their percentage of all messages.
	Shares []UserShare `json:"shares"`
}

// MonthlyPoint is the message count of one calendar month.
type MonthlyPoint struct {
	Year     int    `json:"year"`
	MonthNum int    `json:"month_num"`
	Month    string `json:"month"`
	Label    string `json:"time"`
	Count    int    `json:"count"`
}

// DailyPoint is the message count of one calendar day.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Heatmap counts messages per weekday and hour bucket. Only weekdays and
// periods that occur are present, in calendar and hour order.
type Heatmap struct {
	Days    []string `json:"days"`
	Periods []string `json:"periods"`
	Counts  [][]int  `json:"counts"`
}

// Empty reports whether the heatmap has no cells.
func (h Heatmap) Empty() bool {
	return len(h.Days) == 0 || len(h.Periods) == 0
}

// AnalysisResult is every aggregate for one selected user.
type AnalysisResult struct {
	User            string         `json:"user"`
	Users           []string       `json:"users"`
	GroupChat       bool           `json:"group_chat"`
	Stats           Stats          `json:"stats"`
	MonthlyTimeline []MonthlyPoint `json:"monthly_timeline"`
	DailyTimeline   []DailyPoint   `json:"daily_timeline"`
	WeekActivity    []Count        `json:"week_activity"`
	MonthActivity   []Count        `json:"month_activity"`
	Heatmap         Heatmap        `json:"heatmap"`

	// BusyUsers is set only for Overall in a group chat.
	BusyUsers   *BusyUsers `json:"busy_users,omitempty"`
	CommonWords []Count    `json:"common_words"`
	Emojis      []Count    `json:"emojis"`
}

// Empty reports whether the selection contained no messages.
func (r *AnalysisResult) Empty() bool {
	return r.Stats.Messages == 0
}
