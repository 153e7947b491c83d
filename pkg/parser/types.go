// Package parser turns exported chat-log text into ordered message records.
package parser

import (
	"fmt"
	"time"
)

// GroupNotification is the author assigned to system entries such as
// membership changes, which carry no "Author: " prefix.
const GroupNotification = "group_notification"

// Message is a single parsed chat entry. The calendar fields are derived from
// Timestamp once, at parse time.
type Message struct {
	// Timestamp is the parsed marker time. It is timezone-naive and stored as UTC.
	Timestamp time.Time `json:"date"`

	// User is the author, or GroupNotification for system entries.
	User string `json:"user"`

	// Text is the trimmed, non-empty message body.
	Text string `json:"message"`

	// Date is midnight of the calendar day of Timestamp.
	Date time.Time `json:"only_date"`

	Year     int    `json:"year"`
	MonthNum int    `json:"month_num"`
	Month    string `json:"month"`
	Day      int    `json:"day"`
	DayName  string `json:"day_name"`
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`

	// Period is the one-hour bucket label, e.g. "10-11", "23-00", "00-01".
	Period string `json:"period"`
}

// IsNotification reports whether the message is a system entry.
func (m Message) IsNotification() bool {
	return m.User == GroupNotification
}

// DateKey returns the calendar date as YYYY-MM-DD.
func (m Message) DateKey() string {
	return m.Date.Format("2006-01-02")
}

// Stats reports what a parse kept and dropped. It never affects the records.
type Stats struct {
	// Markers is the number of timestamp markers located.
	Markers int `json:"markers"`

	// Segments is the number of body segments following a marker.
	Segments int `json:"segments"`

	// Paired is min(Markers, Segments).
	Paired int `json:"paired"`

	// BadTimestamps counts pairs dropped because the marker did not parse.
	BadTimestamps int `json:"bad_timestamps"`

	// EmptyMessages counts pairs dropped because the message was empty.
	EmptyMessages int `json:"empty_messages"`

	// Notifications counts records attributed to GroupNotification.
	Notifications int `json:"notifications"`

	// Records is the number of messages returned.
	Records int `json:"records"`

	// Layout is the time layout that was applied to the markers.
	Layout string `json:"layout,omitempty"`
}

// Dropped returns the total number of pairs that did not become records.
func (s Stats) Dropped() int {
	return s.BadTimestamps + s.EmptyMessages
}

// Add returns the field-wise sum of s and o. Layout keeps the first
// non-empty value.
func (s Stats) Add(o Stats) Stats {
	layout := s.Layout
	if layout == "" {
		layout = o.Layout
	}
	return Stats{
		Markers:       s.Markers + o.Markers,
		Segments:      s.Segments + o.Segments,
		Paired:        s.Paired + o.Paired,
		BadTimestamps: s.BadTimestamps + o.BadTimestamps,
		EmptyMessages: s.EmptyMessages + o.EmptyMessages,
		Notifications: s.Notifications + o.Notifications,
		Records:       s.Records + o.Records,
		Layout:        layout,
	}
}

func newMessage(ts time.Time, user, text string) Message {
	return Message{
		Timestamp: ts,
		User:      user,
		Text:      text,
		Date:      time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()),
		Year:      ts.Year(),
		MonthNum:  int(ts.Month()),
		Month:     ts.Month().String(),
		Day:       ts.Day(),
		DayName:   ts.Weekday().String(),
		Hour:      ts.Hour(),
		Minute:    ts.Minute(),
		Period:    PeriodLabel(ts.Hour()),
	}
}

// PeriodLabel returns the hour bucket for hour h (0-23).
func PeriodLabel(h int) string {
	switch h {
	case 23:
		return "23-00"
	case 0:
		return "00-01"
	default:
		return fmt.Sprintf("%d-%d", h, h+1)
	}
}
