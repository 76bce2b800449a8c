// Package temporal deterministically extracts an explicit calendar date and
// time-of-day from text. It never defaults to "today": whether absence becomes
// an error or a default fill is the router's per-intent policy, not the
// extractor's.
package temporal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time with no date attached.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t TimeOfDay) HHMM() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Combine merges an ISO date string and a TimeOfDay into a naive timestamp.
// Callers must gate-keep: both parts have to be present and valid.
func Combine(dateISO string, tod TimeOfDay) (time.Time, error) {
	d, err := time.Parse("2006-01-02", dateISO)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour, tod.Minute, tod.Second, 0, time.UTC), nil
}

var (
	ordinalSuffix = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
	noonWord      = regexp.MustCompile(`(?i)\bnoon\b`)
	midnightWord  = regexp.MustCompile(`(?i)\bmidnight\b`)
)

func preclean(text string) string {
	t := strings.TrimSpace(text)
	t = ordinalSuffix.ReplaceAllString(t, "$1")
	t = noonWord.ReplaceAllString(t, "12:00 pm")
	t = midnightWord.ReplaceAllString(t, "12:00 am")
	return t
}

const monthAlt = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

// Date patterns in fixed priority order; the first structural match decides.
var (
	yearFirstDate = regexp.MustCompile(`\b(20\d{2})[-/](\d{1,2})[-/](\d{1,2})\b`)
	dayFirstDate  = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](20\d{2})\b`)
	monthDayYear  = regexp.MustCompile(`(?i)\b` + monthAlt + `\s+(\d{1,2}),?\s+(20\d{2})\b`)
	dayMonthYear  = regexp.MustCompile(`(?i)\b(\d{1,2})\s+` + monthAlt + `\s+(20\d{2})\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func monthFromName(name string) (time.Month, bool) {
	m, ok := monthsByPrefix[strings.ToLower(name)[:3]]
	return m, ok
}

// validDate confirms year/month/day denote a real calendar date.
func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}

func isoDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// ExtractDate returns an ISO YYYY-MM-DD date only when an explicit date
// substring is present. The priority order is structural: the first pattern
// that matches wins, and an invalid calendar date under that pattern is
// rejected outright rather than reparsed another way.
func ExtractDate(text string) (string, bool) {
	t := preclean(text)

	if m := yearFirstDate.FindStringSubmatch(t); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if !validDate(y, mo, d) {
			return "", false
		}
		return isoDate(y, mo, d), true
	}

	if m := dayFirstDate.FindStringSubmatch(t); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if !validDate(y, mo, d) {
			return "", false
		}
		return isoDate(y, mo, d), true
	}

	// Textual month forms, day-first flavor checked last so "September 30,
	// 2027" and "30 September 2027" land identically. Only years 2000-2099
	// are accepted, which the \b20\d{2}\b shape already enforces.
	if m := monthDayYear.FindStringSubmatch(t); m != nil {
		mo, ok := monthFromName(m[1])
		if !ok {
			return "", false
		}
		d, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if !validDate(y, int(mo), d) {
			return "", false
		}
		return isoDate(y, int(mo), d), true
	}

	if m := dayMonthYear.FindStringSubmatch(t); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, ok := monthFromName(m[2])
		if !ok {
			return "", false
		}
		y, _ := strconv.Atoi(m[3])
		if !validDate(y, int(mo), d) {
			return "", false
		}
		return isoDate(y, int(mo), d), true
	}

	return "", false
}

// Time patterns in fixed priority order. A bare hour requires a meridiem
// marker so plain numbers are never read as times.
var (
	timeHMS  = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2}):(\d{2})(?:\s*([ap])\.?m\.?)?`)
	timeHM   = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})(?:\s*([ap])\.?m\.?)?`)
	timeHour = regexp.MustCompile(`(?i)\b(\d{1,2})\s*([ap])\.?m\.?\b`)
)

func applyMeridiem(hour int, meridiem string) (int, bool) {
	if meridiem == "" {
		if hour > 23 {
			return 0, false
		}
		return hour, true
	}
	if hour < 1 || hour > 12 {
		return 0, false
	}
	switch strings.ToLower(meridiem) {
	case "a":
		if hour == 12 {
			return 0, true
		}
		return hour, true
	default: // "p"
		if hour == 12 {
			return 12, true
		}
		return hour + 12, true
	}
}

// ExtractTime returns the first time-of-day mentioned in the text, or absence.
// Seconds default to 0 when the matched form omits them.
func ExtractTime(text string) (TimeOfDay, bool) {
	t := preclean(text)

	if m := timeHMS.FindStringSubmatch(t); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		s, _ := strconv.Atoi(m[3])
		h, ok := applyMeridiem(h, m[4])
		if ok && mi < 60 && s < 60 {
			return TimeOfDay{Hour: h, Minute: mi, Second: s}, true
		}
		return TimeOfDay{}, false
	}

	if m := timeHM.FindStringSubmatch(t); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		h, ok := applyMeridiem(h, m[3])
		if ok && mi < 60 {
			return TimeOfDay{Hour: h, Minute: mi}, true
		}
		return TimeOfDay{}, false
	}

	if m := timeHour.FindStringSubmatch(t); m != nil {
		h, _ := strconv.Atoi(m[1])
		h, ok := applyMeridiem(h, m[2])
		if ok {
			return TimeOfDay{Hour: h}, true
		}
	}

	return TimeOfDay{}, false
}
