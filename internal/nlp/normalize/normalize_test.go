package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCanonicalPhrases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plf long form", "What is the Plant Load Factor for Koradi?", "what is the plf for koradi"},
		{"paf long form", "plant availability factor of unit 2", "paf of unit 2"},
		{"aux consumption", "Auxiliary Consumption today", "aux consumption today"},
		{"iex synonyms", "IEX rate at 2 pm", "iex price at 2 pm"},
		{"energy synonyms", "energy generated by Koradi", "generated energy by koradi"},
		{"cost synonyms", "cost generated by Koradi", "generated cost by koradi"},
		{"unit conjunction", "PLF of units 1 & 2", "plf of units 1 and 2"},
		{"curly quotes and dashes", "what’s the “PLF” — now", "whats the plf - now"},
		{"punctuation strip", "hello!!! how are you???", "hello how are you"},
		{"kept characters", "plf on 2027-09-30 at 10:15", "plf on 2027-09-30 at 10:15"},
		{"whitespace collapse", "  plf   of    koradi  ", "plf of koradi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeTypoFixes(t *testing.T) {
	assert.Equal(t, "paf", Normalize("plant availabilty factor"))
	assert.Equal(t, "aux consumption", Normalize("auxilliary consumtion"))
	assert.Equal(t, "procurement price", Normalize("procurment price"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"!!!???...",
		"Plant Load Factor of Koradi on 2027-09-30 at 10:15",
		"plant availabilty factor by NTPC units 3 & 4",
		"energy generated & cost generated",
		"“IEX rate” – right now",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "not idempotent for %q", in)
	}
}

func TestNormalizeTotal(t *testing.T) {
	// Must not panic or error on arbitrary input.
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("@#$%^*()"))
	assert.NotPanics(t, func() { Normalize(string([]byte{0xff, 0xfe, 0x00})) })
}
