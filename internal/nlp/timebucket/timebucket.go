// Package timebucket floors timestamps onto fixed-size minute windows and
// derives the neighboring windows used for retry and hint messages.
package timebucket

import "time"

// Snap floors t to the start of its window. Window sizes of one minute or
// less only truncate seconds; the minute itself is kept.
func Snap(t time.Time, minutes int) time.Time {
	t = t.Truncate(time.Minute)
	if minutes <= 1 {
		return t
	}
	total := t.Hour()*60 + t.Minute()
	snapped := (total / minutes) * minutes
	return time.Date(t.Year(), t.Month(), t.Day(), snapped/60, snapped%60, 0, 0, t.Location())
}

// Prev returns the start of the window before t's window.
func Prev(t time.Time, minutes int) time.Time {
	return Snap(t, minutes).Add(-time.Duration(windowMinutes(minutes)) * time.Minute)
}

// Next returns the start of the window after t's window.
func Next(t time.Time, minutes int) time.Time {
	return Snap(t, minutes).Add(time.Duration(windowMinutes(minutes)) * time.Minute)
}

// TTL is how long a window's fetched rows stay valid: one window length.
func TTL(minutes int) time.Duration {
	return time.Duration(windowMinutes(minutes)) * time.Minute
}

func windowMinutes(minutes int) int {
	if minutes < 1 {
		return 1
	}
	return minutes
}
