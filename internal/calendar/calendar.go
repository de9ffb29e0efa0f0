// Package calendar lays out a month for day selection.
package calendar

import (
	"fmt"
	"time"
)

// WeekdayNames are the column headers of the grid, Sunday first.
var WeekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Month is one calendar month in a location.
type Month struct {
	Year  int
	Month time.Month
	Loc   *time.Location
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month(), Loc: t.Location()}
}

func (m Month) location() *time.Location {
	if m.Loc == nil {
		return time.Local
	}
	return m.Loc
}

// First returns midnight of the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, m.location())
}

// Add moves offset months forward (or back when negative).
func (m Month) Add(offset int) Month {
	return MonthOf(time.Date(m.Year, m.Month+time.Month(offset), 1, 0, 0, 0, 0, m.location()))
}

// DaysIn returns the number of days in the month.
func (m Month) DaysIn() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, m.location()).Day()
}

// Grid returns the month's cells row by row, Sunday first: a zero for every
// blank cell before the 1st, then the day numbers.
func (m Month) Grid() []int {
	lead := int(m.First().Weekday())
	cells := make([]int, lead, lead+m.DaysIn())
	for d := 1; d <= m.DaysIn(); d++ {
		cells = append(cells, d)
	}
	return cells
}

// Day returns midnight of the given day of the month.
func (m Month) Day(day int) (time.Time, error) {
	if day < 1 || day > m.DaysIn() {
		return time.Time{}, fmt.Errorf("day %d is not in %s", day, m.Label())
	}
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, m.location()), nil
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	t = t.In(m.location())
	return t.Year() == m.Year && t.Month() == m.Month
}

// Label formats the month as "October 2026".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// SameDay reports whether a and b fall on the same calendar day, judged in
// a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
