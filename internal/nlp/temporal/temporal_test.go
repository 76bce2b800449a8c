package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDateAcceptedForms(t *testing.T) {
	forms := []string{
		"30 September 2027",
		"September 30, 2027",
		"September 30 2027",
		"2027-09-30",
		"2027/09/30",
		"30-09-2027",
		"30/09/2027",
	}
	for _, form := range forms {
		d, ok := ExtractDate("what is the PLF on " + form + " at 10:00")
		assert.True(t, ok, "expected a date for %q", form)
		assert.Equal(t, "2027-09-30", d, "form %q", form)
	}
}

func TestExtractDateOrdinalSuffix(t *testing.T) {
	d, ok := ExtractDate("demand on 1st September 2027")
	assert.True(t, ok)
	assert.Equal(t, "2027-09-01", d)
}

func TestExtractDateAbsent(t *testing.T) {
	for _, text := range []string{
		"what is the PLF",
		"price at 10:00",     // time only
		"see section 12/345", // not a date shape
		"",
	} {
		_, ok := ExtractDate(text)
		assert.False(t, ok, "expected no date in %q", text)
	}
}

func TestExtractDateInvalidCalendarDateRejected(t *testing.T) {
	// Structurally a date, but not a valid one; no fallback parsing.
	_, ok := ExtractDate("report for 2027-02-30 please")
	assert.False(t, ok)

	_, ok = ExtractDate("report for 31-09-2027 please")
	assert.False(t, ok)
}

func TestExtractDateDayFirstBias(t *testing.T) {
	d, ok := ExtractDate("price on 01-02-2027")
	assert.True(t, ok)
	assert.Equal(t, "2027-02-01", d)
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		text     string
		expected TimeOfDay
		found    bool
	}{
		{"no time here", TimeOfDay{}, false},
		{"price at 2 pm", TimeOfDay{Hour: 14}, true},
		{"price at noon", TimeOfDay{Hour: 12}, true},
		{"price at midnight", TimeOfDay{Hour: 0}, true},
		{"price at 09:05:00", TimeOfDay{Hour: 9, Minute: 5}, true},
		{"price at 10:15", TimeOfDay{Hour: 10, Minute: 15}, true},
		{"price at 10:15 pm", TimeOfDay{Hour: 22, Minute: 15}, true},
		{"price at 12:30 am", TimeOfDay{Minute: 30}, true},
		{"price at 12 pm", TimeOfDay{Hour: 12}, true},
		{"price at 7 a.m.", TimeOfDay{Hour: 7}, true},
		{"there are 42 units", TimeOfDay{}, false}, // bare number, no meridiem
	}
	for _, tt := range tests {
		tod, ok := ExtractTime(tt.text)
		assert.Equal(t, tt.found, ok, "text %q", tt.text)
		if tt.found {
			assert.Equal(t, tt.expected, tod, "text %q", tt.text)
		}
	}
}

func TestCombine(t *testing.T) {
	ts, err := Combine("2027-09-30", TimeOfDay{Hour: 10, Minute: 15})
	assert.NoError(t, err)
	assert.Equal(t, "2027-09-30 10:15:00", ts.Format("2006-01-02 15:04:05"))

	_, err = Combine("not-a-date", TimeOfDay{})
	assert.Error(t, err)
}

func TestTimeOfDayFormatting(t *testing.T) {
	tod := TimeOfDay{Hour: 9, Minute: 5, Second: 7}
	assert.Equal(t, "09:05:07", tod.String())
	assert.Equal(t, "09:05", tod.HHMM())
}
