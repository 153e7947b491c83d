package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

var (
	weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	months   = []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
)

// MonthlyTimeline counts messages per calendar month, oldest first.
func MonthlyTimeline(user string, msgs []parser.Message) []MonthlyPoint {
	type key struct{ year, month int }

	counts := make(map[key]int)
	for _, m := range ForUser(user, msgs) {
		counts[key{m.Year, m.MonthNum}]++
	}

	keys := lo.Keys(counts)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	points := make([]MonthlyPoint, 0, len(keys))
	for _, k := range keys {
		name := time.Month(k.month).String()
		points = append(points, MonthlyPoint{
			Year:     k.year,
			MonthNum: k.month,
			Month:    name,
			Label:    fmt.Sprintf("%s-%d", name, k.year),
			Count:    counts[k],
		})
	}
	return points
}

// DailyTimeline counts messages per calendar day, oldest first.
func DailyTimeline(user string, msgs []parser.Message) []DailyPoint {
	counts := make(map[time.Time]int)
	for _, m := range ForUser(user, msgs) {
		counts[m.Date]++
	}

	days := lo.Keys(counts)
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	return lo.Map(days, func(d time.Time, _ int) DailyPoint {
		return DailyPoint{Date: d, Count: counts[d]}
	})
}

// WeekActivity counts messages per weekday, busiest first. Ties keep
// calendar order starting on Monday.
func WeekActivity(user string, msgs []parser.Message) []Count {
	return rankIn(weekdays, lo.Map(ForUser(user, msgs), func(m parser.Message, _ int) string {
		return m.DayName
	}))
}

// MonthActivity counts messages per month name across all years, busiest first.
func MonthActivity(user string, msgs []parser.Message) []Count {
	return rankIn(months, lo.Map(ForUser(user, msgs), func(m parser.Message, _ int) string {
		return m.Month
	}))
}

// ActivityHeatmap counts messages per weekday and period.
func ActivityHeatmap(user string, msgs []parser.Message) Heatmap {
	msgs = ForUser(user, msgs)
	if len(msgs) == 0 {
		return Heatmap{Days: []string{}, Periods: []string{}, Counts: [][]int{}}
	}

	seenDays := make(map[string]bool)
	seenHours := make(map[int]bool)
	for _, m := range msgs {
		seenDays[m.DayName] = true
		seenHours[m.Hour] = true
	}

	days := lo.Filter(weekdays, func(d string, _ int) bool { return seenDays[d] })
	hours := lo.Keys(seenHours)
	sort.Ints(hours)

	dayIndex := make(map[string]int, len(days))
	for i, d := range days {
		dayIndex[d] = i
	}
	hourIndex := make(map[int]int, len(hours))
	for i, h := range hours {
		hourIndex[h] = i
	}

	cells := make([][]int, len(days))
	for i := range cells {
		cells[i] = make([]int, len(hours))
	}
	for _, m := range msgs {
		cells[dayIndex[m.DayName]][hourIndex[m.Hour]]++
	}

	return Heatmap{
		Days:    days,
		Periods: lo.Map(hours, func(h int, _ int) string { return parser.PeriodLabel(h) }),
		Counts:  cells,
	}
}

// rankIn counts keys in the fixed order of domain and sorts by count
// descending. Labels that never occur are left out.
func rankIn(domain, keys []string) []Count {
	counts := lo.CountValues(keys)
	result := lo.FilterMap(domain, func(label string, _ int) (Count, bool) {
		return Count{Label: label, Count: counts[label]}, counts[label] > 0
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}
