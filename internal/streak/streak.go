// Package streak implements the reading-streak state machine.
//
// A streak counts consecutive calendar days with recorded reading
// activity, measured by local wall-clock date only. The whole state is
// the triple (last read date, current streak, longest streak).
package streak

import "time"

// DateLayout is the ISO date format used for persisted read dates.
const DateLayout = "2006-01-02"

// Status describes the outcome of a streak transition.
type Status string

const (
	// StatusUnchanged means activity was already recorded today.
	StatusUnchanged Status = "unchanged"
	// StatusContinued means the streak grew by one day.
	StatusContinued Status = "continued"
	// StatusReset means the streak restarted at one. This covers a first
	// read, a gap of two or more days, and a last-read date in the
	// future (clock skew is deliberately not special-cased).
	StatusReset Status = "reset"
)

// State is the streak triple as read from and written to storage.
type State struct {
	LastReadDate  *time.Time
	CurrentStreak int
	LongestStreak int
}

// Advance applies one day of reading activity on top of prior state and
// returns the new state. It never mutates its input. After any call,
// LongestStreak >= CurrentStreak and LastReadDate equals today.
//
// Advancing twice on the same day is a no-op the second time.
func Advance(prior State, today time.Time) (State, Status) {
	day := Truncate(today)

	var status Status
	next := State{
		CurrentStreak: prior.CurrentStreak,
		LongestStreak: prior.LongestStreak,
	}

	switch {
	case prior.LastReadDate != nil && sameDay(*prior.LastReadDate, day):
		status = StatusUnchanged
	case prior.LastReadDate != nil && sameDay(*prior.LastReadDate, day.AddDate(0, 0, -1)):
		next.CurrentStreak++
		status = StatusContinued
	default:
		next.CurrentStreak = 1
		status = StatusReset
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastReadDate = &day

	return next, status
}

// Truncate strips the time-of-day from t, keeping the local calendar date.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
