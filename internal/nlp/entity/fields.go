package entity

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// FieldSpec maps one user-facing phrase to a payload key, a display label
// and a render unit.
type FieldSpec struct {
	Key   string
	Label string
	Unit  UnitType
}

// FieldTable resolves which metric field a message asks for. Exact phrase
// containment is tried longest-phrase-first so "plant load factor" beats
// "load"; only when no phrase is contained does the fuzzy fallback run.
type FieldTable struct {
	specs   map[string]FieldSpec
	phrases []string
}

func NewFieldTable(specs map[string]FieldSpec) *FieldTable {
	phrases := make([]string, 0, len(specs))
	for p := range specs {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	return &FieldTable{specs: specs, phrases: phrases}
}

// Resolve picks the field a normalized message refers to. tolerance is the
// fuzzy fallback's minimum partial-ratio on a 0..1 scale.
func (t *FieldTable) Resolve(normalized string, tolerance float64) (FieldSpec, bool) {
	for _, p := range t.phrases {
		if strings.Contains(normalized, p) {
			return t.specs[p], true
		}
	}

	bestScore := 0
	var best FieldSpec
	found := false
	for _, p := range t.phrases {
		if s := fuzzy.PartialRatio(normalized, p); s > bestScore {
			bestScore, best, found = s, t.specs[p], true
		}
	}
	if found && bestScore >= int(tolerance*100) {
		return best, true
	}
	return FieldSpec{}, false
}
