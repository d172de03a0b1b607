package models

import "time"

// Window is a half-open time range [Start, End) used to scope aggregation.
// A reversed or zero-length window matches no records; it is never an error.
type Window struct {
	Start time.Time `json:"inicio"`
	End   time.Time `json:"fim"`
}

// NewWindow builds a window from the given bounds.
func NewWindow(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// DayWindow returns the window covering the calendar day of t in UTC.
func DayWindow(t time.Time) Window {
	day := t.UTC().Truncate(24 * time.Hour)
	return Window{Start: day, End: day.Add(24 * time.Hour)}
}

// DaySoFar returns the window from midnight UTC of t up to t itself.
func DaySoFar(t time.Time) Window {
	utc := t.UTC()
	return Window{Start: utc.Truncate(24 * time.Hour), End: utc}
}

// Contains reports whether t falls inside the half-open range.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Empty reports whether the window can match any instant at all.
func (w Window) Empty() bool {
	return !w.Start.Before(w.End)
}
