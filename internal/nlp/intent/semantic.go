package intent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"urja-assistant/internal/common/logger"
)

// referencePhrases seeds the semantic stage with canonical wordings per
// intent. Banking carries its own phrase set rather than riding on
// procurement's.
var referencePhrases = map[Label][]string{
	Procurement: {
		"procurement price", "last price", "power purchase cost",
		"generated energy", "energy generated", "energy generation",
		"generated cost", "generation cost", "cost generated", "cost per plant",
	},
	Banking: {
		"banking unit", "banked unit", "energy banked", "banking contribution",
	},
	PlantInfo: {
		"plf", "plant load factor", "paf", "plant availability factor",
		"variable cost", "aux consumption", "auxiliary consumption",
		"max power", "min power", "rated capacity", "technical minimum", "plant type",
	},
	MOD:    {"mod price", "moment of dispatch price", "dispatch rate"},
	IEX:    {"iex price", "indian energy exchange price", "market clearing price", "exchange rate"},
	Demand: {"demand forecast", "load prediction", "electricity consumption"},
	CostPerBlock: {
		"cost per block", "block rate", "rate per block",
	},
}

// priceWords lower the acceptance threshold when paired with a time-like
// token; short queries like "iex rate at 10:15" score below the base
// threshold despite being unambiguous.
var priceWords = []string{"price", "rate", "cost", "value", "ppc", "mcp"}

const (
	thresholdDiscount = 0.10
	thresholdFloor    = 0.55
)

// SemanticClassifier scores normalized text against precomputed reference
// vectors. Construction encodes every reference phrase up front so a broken
// embedding service fails the process at startup, not per request.
type SemanticClassifier struct {
	encoder       Encoder
	baseThreshold float64
	refs          []labelRefs
	cueTokens     map[string]struct{}
	memo          sync.Map // normalized text -> []float32
	log           logger.Logger
}

type labelRefs struct {
	label   Label
	vectors [][]float32
}

// NewSemanticClassifier builds the reference matrix for the enabled intents.
// enabled lists the labels eligible for semantic classification; an empty
// list enables every label with reference phrases.
func NewSemanticClassifier(ctx context.Context, enc Encoder, enabled []string, baseThreshold float64, log logger.Logger) (*SemanticClassifier, error) {
	want := make(map[Label]bool, len(enabled))
	for _, name := range enabled {
		want[Label(strings.TrimSpace(name))] = true
	}

	sc := &SemanticClassifier{
		encoder:       enc,
		baseThreshold: baseThreshold,
		cueTokens:     map[string]struct{}{},
		log:           log.With(map[string]interface{}{"component": "semantic-classifier"}),
	}

	// Deterministic reference order, matching the lexical rule order.
	for _, rule := range lexicalRules {
		phrases, ok := referencePhrases[rule.label]
		if !ok {
			continue
		}
		if len(enabled) > 0 && !want[rule.label] {
			continue
		}
		vectors, err := enc.Encode(ctx, phrases)
		if err != nil {
			return nil, fmt.Errorf("encode reference phrases for %s: %w", rule.label, err)
		}
		sc.refs = append(sc.refs, labelRefs{label: rule.label, vectors: vectors})
	}

	sc.log.Info("reference vectors ready", map[string]interface{}{
		"intents": len(sc.refs),
	})
	return sc, nil
}

// AddCueTokens registers entity-name tokens whose presence relaxes the
// acceptance threshold. The router feeds these from the plant catalog.
func (sc *SemanticClassifier) AddCueTokens(tokens []string) {
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if len(tok) >= 3 {
			sc.cueTokens[tok] = struct{}{}
		}
	}
}

// Classify returns the best-scoring label when its score clears the adaptive
// threshold, or (None, bestScore) when no label qualifies.
func (sc *SemanticClassifier) Classify(ctx context.Context, normalized string) (Label, float64, error) {
	vec, err := sc.embed(ctx, normalized)
	if err != nil {
		return None, -1, err
	}

	best, bestScore := None, -1.0
	for _, ref := range sc.refs {
		for _, rv := range ref.vectors {
			if s := dot(rv, vec); s > bestScore {
				best, bestScore = ref.label, s
			}
		}
	}

	if bestScore >= sc.thresholdFor(normalized) {
		return best, bestScore, nil
	}
	return None, bestScore, nil
}

func (sc *SemanticClassifier) embed(ctx context.Context, normalized string) ([]float32, error) {
	if v, ok := sc.memo.Load(normalized); ok {
		return v.([]float32), nil
	}
	vectors, err := sc.encoder.Encode(ctx, []string{normalized})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected 1 vector, got %d", ErrEmbeddingFailed, len(vectors))
	}
	// Concurrent misses may each encode; last write wins, same value.
	sc.memo.Store(normalized, vectors[0])
	return vectors[0], nil
}

// thresholdFor lowers the base threshold by a fixed discount, floored at
// base-0.10, when the text pairs a time-like token with a price word or
// mentions a known entity-name cue.
func (sc *SemanticClassifier) thresholdFor(normalized string) float64 {
	timeLike := strings.Contains(normalized, ":") || strings.Contains(normalized, " at ")
	priceLike := false
	for _, w := range priceWords {
		if strings.Contains(normalized, w) {
			priceLike = true
			break
		}
	}
	relaxed := timeLike && priceLike
	if !relaxed {
		for _, tok := range strings.Fields(normalized) {
			if _, ok := sc.cueTokens[tok]; ok {
				relaxed = true
				break
			}
		}
	}
	if relaxed {
		t := sc.baseThreshold - thresholdDiscount
		if t < thresholdFloor {
			t = thresholdFloor
		}
		return t
	}
	return sc.baseThreshold
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
