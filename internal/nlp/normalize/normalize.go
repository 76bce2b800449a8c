// Package normalize canonicalizes raw user text before any other pipeline
// stage looks at it. Normalization is total and idempotent.
package normalize

import (
	"regexp"
	"sort"
	"strings"
)

var punctuationVariants = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-",
)

// Ampersand between plant unit numbers is conjunctive ("units 1 & 2"), not an
// operator.
var unitConjunction = regexp.MustCompile(`\b(\d+)\s*&\s*(\d+)\b`)

// canonicalPhrases folds domain synonyms onto one canonical spelling.
var canonicalPhrases = map[string]string{
	"plant load factor":         "plf",
	"plant availability factor": "paf",
	"auxiliary consumption":     "aux consumption",
	"maximum power":             "max power",
	"minimum power":             "min power",
	"iex cost":                  "iex price",
	"iex rate":                  "iex price",
	"banked unit":               "banking unit",
	"gen energy":                "generated energy",
	"energy generated":          "generated energy",
	"energy generation":         "generated energy",
	"cost generated":            "generated cost",
	"cost generation":           "generated cost",
}

// typoFixes corrects variants seen in real traffic.
var typoFixes = map[string]string{
	"availabilty":  "availability",
	"avalability":  "availability",
	"consumtion":   "consumption",
	"consumpton":   "consumption",
	"procurment":   "procurement",
	"auxilliary":   "auxiliary",
	"auxillary":    "auxiliary",
	"tecnical":     "technical",
	"dispach":      "dispatch",
	"exchnage":     "exchange",
}

type rewriteRule struct {
	pattern *regexp.Regexp
	repl    string
}

// Rule lists are compiled once, longest source phrase first, so short phrases
// never shadow longer overlapping ones ("plant load factor" must win over any
// partial match on "plant").
var (
	canonicalRules = compileRules(canonicalPhrases)
	typoRules      = compileRules(typoFixes)
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9 :/&.-]`)
	whitespace = regexp.MustCompile(`\s+`)
)

func compileRules(table map[string]string) []rewriteRule {
	phrases := make([]string, 0, len(table))
	for k := range table {
		phrases = append(phrases, k)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})

	rules := make([]rewriteRule, 0, len(phrases))
	for _, p := range phrases {
		rules = append(rules, rewriteRule{
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`),
			repl:    table[p],
		})
	}
	return rules
}

func applyRules(text string, rules []rewriteRule) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.repl)
	}
	return text
}

// Normalize canonicalizes text: punctuation variants, case, domain synonyms,
// typo fixes, then an allow-list character strip. It never fails and
// Normalize(Normalize(x)) == Normalize(x) for all x.
func Normalize(text string) string {
	t := strings.TrimSpace(text)
	t = punctuationVariants.Replace(t)
	t = strings.ToLower(t)
	t = unitConjunction.ReplaceAllString(t, "$1 and $2")

	t = applyRules(t, canonicalRules)
	t = applyRules(t, typoRules)
	// A typo fix can reintroduce a canonical source phrase ("plant
	// availabilty factor" -> "plant availability factor"), so canonical
	// rules run once more to keep normalization idempotent.
	t = applyRules(t, canonicalRules)

	t = disallowed.ReplaceAllString(t, "")
	t = whitespace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
