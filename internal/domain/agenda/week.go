package agenda

import (
	"fmt"
	"math"
	"time"
)

// Visible hour range of the weekly grid. Events are rendered between 06:00
// and the 22:00 row (the last full hour), so valid hour fractions live in
// [GridFirstHour, GridLastHour+1).
const (
	GridFirstHour = 6
	GridLastHour  = 22
)

// GridPosition is the view-only coordinate of an event on the weekly grid.
// It is always derived from an absolute timestamp relative to the displayed
// week's Monday and never stored.
type GridPosition struct {
	DayIndex     int     // 0 = Monday .. 6 = Sunday
	HourFraction float64 // hour + minute/60, visible range [6.0, 23.0)
}

// InVisibleRange returns true if the position falls inside the grid's fixed
// visible hour range.
func (p GridPosition) InVisibleRange() bool {
	return p.HourFraction >= GridFirstHour && p.HourFraction < GridLastHour+1
}

// ClampToVisible clamps the hour fraction into the visible range.
// PRE: none
// POST: returned position is in range; second result is true if clamping
// changed the value (the caller should log such rows as data errors)
func (p GridPosition) ClampToVisible() (GridPosition, bool) {
	clamped := p
	if clamped.HourFraction < GridFirstHour {
		clamped.HourFraction = GridFirstHour
	}
	if clamped.HourFraction >= GridLastHour+1 {
		clamped.HourFraction = GridLastHour + 1 - 1.0/60
	}
	return clamped, clamped != p
}

// MondayOf returns the Monday of the week containing date.
// A native Sunday (weekday 0) is treated as day 7 so the week runs
// Monday..Sunday. Only the date component matters downstream; callers must
// not rely on the time-of-day of the result.
// PRE: none
// POST: result is a Monday, on or before date, within 6 days of it
func MondayOf(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return date.AddDate(0, 0, -(weekday - 1))
}

// WeekDates returns the seven day-of-month numbers for Monday..Sunday of the
// week starting at monday. Purely for header display; recomputed fresh each
// call.
// PRE: monday is the Monday returned by MondayOf
// POST: returns exactly 7 entries
func WeekDates(monday time.Time) []int {
	days := make([]int, 7)
	for i := 0; i < 7; i++ {
		days[i] = monday.AddDate(0, 0, i).Day()
	}
	return days
}

// SundayOf returns the Sunday ending the week that starts at monday.
func SundayOf(monday time.Time) time.Time {
	return monday.AddDate(0, 0, 6)
}

// DisplayLabel formats the week header as "D – D Mon YYYY" using the Sunday's
// short month name and year, so a week spanning a month or year boundary
// labels with the end date (e.g. Mon 2024-12-30 .. Sun 2025-01-05 renders
// "30 – 5 Jan 2025").
// PRE: sunday is the Sunday of the week starting at monday
// POST: returns a non-empty label
func DisplayLabel(monday, sunday time.Time) string {
	return fmt.Sprintf("%d – %d %s %d",
		monday.Day(), sunday.Day(), sunday.Format("Jan"), sunday.Year())
}

// ToGridPosition maps an absolute timestamp to its grid coordinate for the
// week anchored at monday. The native weekday numbering (Sunday=0) is
// remapped to a Monday-first day index.
// PRE: ts falls within the week starting at monday
// POST: DayIndex in 0..6; HourFraction carries full minute precision
func ToGridPosition(ts time.Time, monday time.Time) GridPosition {
	dayIndex := (int(ts.Weekday()) - 1 + 7) % 7
	hourFraction := float64(ts.Hour()) + float64(ts.Minute())/60
	return GridPosition{DayIndex: dayIndex, HourFraction: hourFraction}
}

// FromGridPosition is the inverse of ToGridPosition: it resolves a grid
// coordinate back to an absolute timestamp by adding DayIndex days to monday
// and setting hour/minute from HourFraction.
// PRE: pos.DayIndex in 0..6
// POST: round-trips ToGridPosition output to minute precision
func FromGridPosition(pos GridPosition, monday time.Time) time.Time {
	day := monday.AddDate(0, 0, pos.DayIndex)
	hour := int(math.Floor(pos.HourFraction))
	minute := int(math.Round((pos.HourFraction - float64(hour)) * 60))
	if minute == 60 {
		hour++
		minute = 0
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, monday.Location())
}
