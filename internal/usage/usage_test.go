package usage_test

import (
	"testing"
	"time"

	"github.com/conflab/roomsvc/internal/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(t time.Time) int64     { return t.UnixMilli() }
func msptr(t time.Time) *int64 { v := t.UnixMilli(); return &v }

func TestSessionSpanningMidnightSplitsAcrossDays(t *testing.T) {
	loc := time.UTC
	// Monday 23:00 to Tuesday 01:00
	monday := time.Date(2025, 3, 3, 23, 0, 0, 0, loc)
	tuesday := monday.Add(2 * time.Hour)

	iv := usage.Interval{Start: ms(monday), End: msptr(tuesday)}

	mondayWindow := usage.DayWindow(monday)
	tuesdayWindow := usage.DayWindow(tuesday)

	nowMs := ms(tuesday.Add(time.Hour))

	inMonday := iv.Clip(mondayWindow, nowMs)
	inTuesday := iv.Clip(tuesdayWindow, nowMs)

	assert.Equal(t, int64(time.Hour/time.Millisecond), inMonday, "one hour before midnight")
	assert.Equal(t, int64(time.Hour/time.Millisecond), inTuesday, "one hour after midnight")
	assert.Equal(t, iv.Duration(nowMs), inMonday+inTuesday, "clipped parts sum to the full span")
}

func TestOpenIntervalClampsToNow(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 3, 4, 10, 0, 0, 0, loc)
	now := start.Add(90 * time.Minute)

	iv := usage.Interval{Start: ms(start)}

	assert.Equal(t, int64(90*time.Minute/time.Millisecond), iv.Duration(ms(now)))

	// The open interval contributes to the window containing now
	day := usage.DayWindow(now)
	assert.Equal(t, int64(90*time.Minute/time.Millisecond), iv.Clip(day, ms(now)))
}

func TestClipOutsideWindowIsZero(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, loc)
	end := start.Add(time.Hour)
	iv := usage.Interval{Start: ms(start), End: msptr(end)}

	// A window a week later sees nothing of the record
	later := usage.DayWindow(start.AddDate(0, 0, 7))
	assert.Zero(t, iv.Clip(later, ms(end)))
}

func TestWeekWindowStartsSunday(t *testing.T) {
	loc := time.UTC
	// Wednesday
	now := time.Date(2025, 3, 5, 15, 30, 0, 0, loc)
	w := usage.WeekWindow(now)

	start := time.UnixMilli(w.Start).In(loc)
	assert.Equal(t, time.Sunday, start.Weekday())
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, loc), start)

	end := time.UnixMilli(w.End).In(loc)
	assert.Equal(t, start.AddDate(0, 0, 7), end)
}

func TestMonthWindow(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 2, 14, 9, 0, 0, 0, loc)
	w := usage.MonthWindow(now)

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, loc), time.UnixMilli(w.Start).In(loc))
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, loc), time.UnixMilli(w.End).In(loc))
}

func TestAggregateRanksByClippedDuration(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, loc)
	morning := time.Date(2025, 3, 5, 8, 0, 0, 0, loc)

	rooms := map[string]usage.RoomActivity{
		"room1": {
			Participants: map[string][]usage.Interval{
				// 1 hour today
				"Alice": {{Start: ms(morning), End: msptr(morning.Add(time.Hour))}},
				// 3 hours today
				"Bob": {{Start: ms(morning), End: msptr(morning.Add(3 * time.Hour))}},
				// 2 hours, but last week: zero in today's windows beyond the month
				"Carol": {{Start: ms(morning.AddDate(0, 0, -10)), End: msptr(morning.AddDate(0, 0, -10).Add(2 * time.Hour))}},
			},
			Space: []usage.Interval{
				{Start: ms(morning), End: msptr(morning.Add(4 * time.Hour))},
			},
		},
	}

	reports := usage.Aggregate(rooms, now)
	require.Contains(t, reports, "room1")
	day := reports["room1"].Day

	require.Len(t, day.Participants, 3)
	assert.Equal(t, "Bob", day.Participants[0].Name)
	assert.Equal(t, "Alice", day.Participants[1].Name)
	assert.Equal(t, "Carol", day.Participants[2].Name)
	assert.Zero(t, day.Participants[2].InWindow)
	assert.Equal(t, int64(2*time.Hour/time.Millisecond), day.Participants[2].Total,
		"total covers the whole record even outside the window")

	assert.Equal(t, int64(4*time.Hour/time.Millisecond), day.SpaceInWindow)

	// Carol's session falls out of this week's window too, but not the month's
	week := reports["room1"].Week
	assert.Zero(t, week.Participants[2].InWindow)
	month := reports["room1"].Month
	var carolMonth int64
	for _, p := range month.Participants {
		if p.Name == "Carol" {
			carolMonth = p.InWindow
		}
	}
	assert.Equal(t, int64(2*time.Hour/time.Millisecond), carolMonth)
}

func TestFormatDurationTruncates(t *testing.T) {
	tests := []struct {
		name     string
		ms       int64
		expected string
	}{
		{"Zero", 0, "0h 0m 0s"},
		{"SubSecondFloorsToZero", 999, "0h 0m 0s"},
		{"MixedUnits", (1*3600+2*60+3)*1000 + 900, "1h 2m 3s"},
		{"ExactHours", 2 * 3600 * 1000, "2h 0m 0s"},
		{"Negative", -5, "0h 0m 0s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, usage.FormatDuration(tc.ms))
		})
	}
}
