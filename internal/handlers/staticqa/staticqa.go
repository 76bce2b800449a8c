// Package staticqa answers greetings and definition questions from a fixed
// knowledge base, ahead of any NLP processing.
package staticqa

import (
	"regexp"
	"sort"
	"strings"
)

const (
	answerGreeting = "Hello! How can I assist you today?"
	answerAbout    = "Hi I am Aradhya, your virtual assistant. I can help you with information about electricity demand, MOD prices, IEX rate. Just ask me anything related to power and energy!"
	answerModPrice = "The Moment of Dispatch (MOD) price refers to the cost of electricity at a specific 15-minute time block when it is dispatched to meet demand. It is used in electricity markets and grid operations to determine the economic value or cost of delivering electricity at a given moment, based on real-time supply and demand conditions."
	answerIexPrice = "The Indian Energy Exchange (IEX) price refers to the market-determined clearing price of electricity traded on the Indian Energy Exchange for specific time blocks during the day."
	answerMod      = "MOD (Moment of Dispatch) refers to the specific point in time when electricity is actually dispatched (sent out) from the generation source to meet the demand on the grid."
	answerIex      = "Indian Energy Exchange (IEX) is India's premier electricity trading platform for physical delivery of electricity, enabling participants to trade power contracts for specific time blocks."
	answerError    = "Sorry, I am unable to understand your requirement."
)

var keywordAnswers = map[string]string{
	"hi":    answerGreeting,
	"hello": answerGreeting,
	"hey":   answerGreeting,

	"fuck you": answerError,
	"love you": answerError,

	"explain about yourself": answerAbout,
	"tell me about yourself": answerAbout,

	"what is mod":                                  answerMod,
	"definition of mod":                            answerMod,
	"what is the definition of mod":                answerMod,
	"definition of moment of dispatch":             answerMod,
	"what is the definition of moment of dispatch": answerMod,

	"what is iex":                                   answerIex,
	"definition of iex":                             answerIex,
	"what is the definition iex":                    answerIex,
	"what is indian energy exchange":                answerIex,
	"what is the definition indian energy exchange": answerIex,

	"what is mod price":                                  answerModPrice,
	"what is mod rate":                                   answerModPrice,
	"what is moment of dispatch price":                   answerModPrice,
	"what is moment of dispatch rate":                    answerModPrice,
	"what is moment of dispatch price definition":        answerModPrice,
	"what is moment of dispatch rate definition":         answerModPrice,
	"what is the definition of mod price":                answerModPrice,
	"what is the definition of mod rate":                 answerModPrice,
	"what is the definition of moment of dispatch price": answerModPrice,
	"what is the definition of moment of dispatch rate":  answerModPrice,

	"what is iex price":                                      answerIexPrice,
	"what is iex rate":                                       answerIexPrice,
	"what is indian energy exchange price":                   answerIexPrice,
	"what is indian energy exchange rate":                    answerIexPrice,
	"what is indian energy exchange price definition":        answerIexPrice,
	"what is indian energy exchange rate definition":         answerIexPrice,
	"what is the definition of iex price":                    answerIexPrice,
	"what is the definition of iex rate":                     answerIexPrice,
	"what is the definition of indian energy exchange price": answerIexPrice,
	"what is the definition of indian energy exchange rate":  answerIexPrice,
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

// orderedKeywords holds the keyword phrases longest-first so the most
// specific phrase wins ("what is iex price" before "what is iex").
var orderedKeywords = func() []string {
	keys := make([]string, 0, len(keywordAnswers))
	for k := range keywordAnswers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Match returns the canned answer for user input, if any keyword phrase is
// contained in the cleaned text.
func Match(userInput string) (string, bool) {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(strings.TrimSpace(userInput)), "")
	for _, kw := range orderedKeywords {
		if strings.Contains(cleaned, kw) {
			return keywordAnswers[kw], true
		}
	}
	return "", false
}
