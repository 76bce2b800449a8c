// Package entity resolves free-text mentions of plant names and metric fields
// against known catalogs using containment and fuzzy matching.
package entity

import (
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"urja-assistant/internal/nlp/normalize"
)

// nameMarker anchors the plant-name span: the words after "by", "for" or
// "of". The span runs to the next temporal preposition or sentence-ending
// punctuation, which nameCut locates since the span itself is matched
// greedily.
var (
	nameMarker = regexp.MustCompile(`\b(?:by|for|of)\s+([a-z0-9][a-z0-9\s\-&/]*)`)
	nameCut    = regexp.MustCompile(`\s+(?:on|at)\s+|[?.!]`)
)

// ExtractNameQuery pulls a candidate plant-name span out of normalized text.
func ExtractNameQuery(normalized string) (string, bool) {
	m := nameMarker.FindStringSubmatch(normalized)
	if m == nil {
		return "", false
	}
	span := m[1]
	if loc := nameCut.FindStringIndex(span); loc != nil {
		span = span[:loc[0]]
	}
	span = strings.TrimSpace(span)
	if span == "" {
		return "", false
	}
	return span, true
}

// MatchName reports whether a catalog name and a user-typed query denote the
// same plant: exact after normalization, containment either way, or a
// similarity ratio at or above tolerance (0..1 scale).
func MatchName(name, query string, tolerance float64) bool {
	a := normalize.Normalize(strings.ReplaceAll(name, "/", " "))
	b := normalize.Normalize(strings.ReplaceAll(query, "/", " "))
	if a == "" || b == "" {
		return false
	}
	if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return fuzzy.Ratio(a, b) >= int(tolerance*100)
}
