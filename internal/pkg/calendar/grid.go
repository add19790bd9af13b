package calendar

import (
	"strconv"
	"time"
)

// Month is a (year, month) pair. Add normalizes overflow into the year.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d Day) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// CurrentMonth returns the month of now in loc.
func CurrentMonth(now time.Time, loc *time.Location) Month {
	return MonthOf(DayIn(now, loc))
}

// Add moves n months forward (or backward when n is negative), rolling the year.
func (m Month) Add(n int) Month {
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 12, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Days returns the number of days in m.
func (m Month) Days() int {
	// day 0 of the next month is the last day of m
	return time.Date(m.Year, m.Month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the 1st of m.
func (m Month) FirstWeekday() time.Weekday {
	return Day{Year: m.Year, Month: m.Month, Day: 1}.Weekday()
}

// Contains reports whether d falls in m.
func (m Month) Contains(d Day) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// Valid reports whether m has a month in 1..12.
func (m Month) Valid() bool {
	return m.Month >= time.January && m.Month <= time.December
}

func (m Month) String() string {
	return m.Month.String() + " " + strconv.Itoa(m.Year)
}

// Cell is one slot of the display grid. Blank cells pad the week before the 1st.
type Cell struct {
	Blank bool
	Day   Day
}

// Grid returns the Sunday-first display grid for m: one blank cell per weekday
// before the 1st, followed by one cell per day of the month.
func Grid(m Month) []Cell {
	lead := int(m.FirstWeekday())
	days := m.Days()

	cells := make([]Cell, 0, lead+days)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, Cell{Day: Day{Year: m.Year, Month: m.Month, Day: d}})
	}
	return cells
}
