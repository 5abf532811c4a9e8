// Package usage derives per-participant presence durations from start/end
// interval records, bucketed into calendar day, week and month windows.
package usage

import (
	"fmt"
	"sort"
	"time"
)

// Interval is one presence record in epoch milliseconds. An open interval
// (End nil) is treated as ongoing until the reference "now" at aggregation
// time.
type Interval struct {
	Start int64  `json:"start"`
	End   *int64 `json:"end,omitempty"`
}

// RoomActivity is the fetched activity for one room: per-participant interval
// lists plus the intervals during which the room itself was occupied.
type RoomActivity struct {
	Participants map[string][]Interval `json:"participants"`
	Space        []Interval            `json:"space"`
}

// Window is a half-open time range [Start, End) in epoch milliseconds
type Window struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// ParticipantUsage is one participant's aggregated presence for a window
type ParticipantUsage struct {
	Name     string `json:"name"`
	Total    int64  `json:"total"`    // ms over the participant's whole record
	InWindow int64  `json:"inWindow"` // ms clipped to the window
}

// WindowReport holds the aggregation for one room and one window, with
// participants ranked by descending clipped duration
type WindowReport struct {
	Window        Window             `json:"window"`
	Participants  []ParticipantUsage `json:"participants"`
	SpaceTotal    int64              `json:"spaceTotal"`
	SpaceInWindow int64              `json:"spaceInWindow"`
}

// RoomReport holds the three fixed windows for one room
type RoomReport struct {
	Day   WindowReport `json:"day"`
	Week  WindowReport `json:"week"`
	Month WindowReport `json:"month"`
}

// end resolves the interval's end, clamping open intervals to now
func (iv Interval) end(nowMs int64) int64 {
	if iv.End == nil {
		return nowMs
	}
	return *iv.End
}

// Duration returns the interval's full elapsed time in milliseconds
func (iv Interval) Duration(nowMs int64) int64 {
	d := iv.end(nowMs) - iv.Start
	if d < 0 {
		return 0
	}
	return d
}

// Clip returns the portion of the interval that falls inside the window, in
// milliseconds. A record spanning a window boundary contributes to each
// adjacent window independently, so no explicit session-splitting is needed.
func (iv Interval) Clip(w Window, nowMs int64) int64 {
	start := iv.Start
	end := iv.end(nowMs)

	overlapStart := start
	if w.Start > overlapStart {
		overlapStart = w.Start
	}
	overlapEnd := end
	if w.End < overlapEnd {
		overlapEnd = w.End
	}

	if overlapStart > w.End || overlapEnd < w.Start {
		return 0
	}
	if overlapEnd <= overlapStart {
		return 0
	}
	return overlapEnd - overlapStart
}

// DayWindow returns the calendar-day window containing now
func DayWindow(now time.Time) Window {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return Window{Start: start.UnixMilli(), End: start.AddDate(0, 0, 1).UnixMilli()}
}

// WeekWindow returns the calendar-week window containing now, starting Sunday
func WeekWindow(now time.Time) Window {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	start := midnight.AddDate(0, 0, -int(now.Weekday()))
	return Window{Start: start.UnixMilli(), End: start.AddDate(0, 0, 7).UnixMilli()}
}

// MonthWindow returns the calendar-month window containing now
func MonthWindow(now time.Time) Window {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start.UnixMilli(), End: start.AddDate(0, 1, 0).UnixMilli()}
}

// Aggregate computes the day/week/month reports for every room relative to now
func Aggregate(rooms map[string]RoomActivity, now time.Time) map[string]RoomReport {
	day := DayWindow(now)
	week := WeekWindow(now)
	month := MonthWindow(now)
	nowMs := now.UnixMilli()

	reports := make(map[string]RoomReport, len(rooms))
	for roomID, activity := range rooms {
		reports[roomID] = RoomReport{
			Day:   aggregateWindow(activity, day, nowMs),
			Week:  aggregateWindow(activity, week, nowMs),
			Month: aggregateWindow(activity, month, nowMs),
		}
	}
	return reports
}

// aggregateWindow sums and clips every participant's intervals for one window
func aggregateWindow(activity RoomActivity, w Window, nowMs int64) WindowReport {
	report := WindowReport{Window: w}

	// Sort names first so equal durations rank deterministically
	names := make([]string, 0, len(activity.Participants))
	for name := range activity.Participants {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var total, inWindow int64
		for _, iv := range activity.Participants[name] {
			total += iv.Duration(nowMs)
			inWindow += iv.Clip(w, nowMs)
		}
		report.Participants = append(report.Participants, ParticipantUsage{
			Name:     name,
			Total:    total,
			InWindow: inWindow,
		})
	}

	sort.SliceStable(report.Participants, func(i, j int) bool {
		return report.Participants[i].InWindow > report.Participants[j].InWindow
	})

	for _, iv := range activity.Space {
		report.SpaceTotal += iv.Duration(nowMs)
		report.SpaceInWindow += iv.Clip(w, nowMs)
	}

	return report
}

// FormatDuration renders a millisecond duration as "Hh Mm Ss", truncating
// (never rounding) each unit
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
