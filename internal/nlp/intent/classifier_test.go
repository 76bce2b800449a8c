package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urja-assistant/internal/common/logger"
)

// fakeEncoder returns canned unit vectors. Texts without an entry get a
// vector orthogonal to every canned one so they never match anything.
type fakeEncoder struct {
	vectors map[string][]float32
	calls   int
	fail    bool
}

func (f *fakeEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("embedding service down")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0, 0, 1}
		}
	}
	return out, nil
}

func newTestSemantic(t *testing.T, enc Encoder, threshold float64) *SemanticClassifier {
	t.Helper()
	sc, err := NewSemanticClassifier(context.Background(), enc, nil, threshold, logger.NewTestLogger(t))
	require.NoError(t, err)
	return sc
}

func TestSemanticAcceptsAboveThreshold(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{
		"iex price":          {1, 0, 0},
		"how costly was iex": {0.9, 0.436, 0},
	}}
	sc := newTestSemantic(t, enc, 0.65)

	label, score, err := sc.Classify(context.Background(), "how costly was iex")
	require.NoError(t, err)
	assert.Equal(t, IEX, label)
	assert.InDelta(t, 0.9, score, 0.01)
}

func TestSemanticRejectsBelowThreshold(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{
		"iex price":         {1, 0, 0},
		"something oblique": {0.5, 0.866, 0},
	}}
	sc := newTestSemantic(t, enc, 0.65)

	label, score, err := sc.Classify(context.Background(), "something oblique")
	require.NoError(t, err)
	assert.Equal(t, None, label)
	assert.InDelta(t, 0.5, score, 0.01)
}

func TestAdaptiveThresholdTimeAndPriceWord(t *testing.T) {
	// Score 0.60 sits below the 0.65 base but above the relaxed 0.55.
	enc := &fakeEncoder{vectors: map[string][]float32{
		"iex price":          {1, 0, 0},
		"iex price at 10:15": {0.6, 0.8, 0},
		"iex question plain": {0.6, 0.8, 0},
	}}
	sc := newTestSemantic(t, enc, 0.65)

	label, _, err := sc.Classify(context.Background(), "iex price at 10:15")
	require.NoError(t, err)
	assert.Equal(t, IEX, label)

	label, _, err = sc.Classify(context.Background(), "iex question plain")
	require.NoError(t, err)
	assert.Equal(t, None, label)
}

func TestAdaptiveThresholdEntityCue(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{
		"plf":                {1, 0, 0},
		"availability sasan": {0.6, 0.8, 0},
	}}
	sc := newTestSemantic(t, enc, 0.65)
	sc.AddCueTokens([]string{"Sasan"})

	label, _, err := sc.Classify(context.Background(), "availability sasan")
	require.NoError(t, err)
	assert.Equal(t, PlantInfo, label)
}

func TestEmbeddingMemoization(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{
		"iex price":    {1, 0, 0},
		"repeat query": {0.9, 0.436, 0},
	}}
	sc := newTestSemantic(t, enc, 0.65)
	setupCalls := enc.calls

	for i := 0; i < 3; i++ {
		label, _, err := sc.Classify(context.Background(), "repeat query")
		require.NoError(t, err)
		assert.Equal(t, IEX, label)
	}
	assert.Equal(t, setupCalls+1, enc.calls, "repeated input must hit the memo cache")
}

func TestClassifierDegradesToLexicalOnEncoderError(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{}}
	sc := newTestSemantic(t, enc, 0.65)
	enc.fail = true

	c := NewClassifier(sc, logger.NewTestLogger(t))
	res := c.Classify(context.Background(), "what is the banking unit")
	assert.Equal(t, Banking, res.Label)
	assert.Equal(t, StageLexical, res.Stage)
}

func TestClassifierLexicalOnly(t *testing.T) {
	c := NewClassifier(nil, logger.NewTestLogger(t))
	res := c.Classify(context.Background(), "total gibberish here")
	assert.Equal(t, None, res.Label)
	assert.Equal(t, StageNone, res.Stage)
}

func TestLexicalRuleOrder(t *testing.T) {
	tests := []struct {
		text     string
		expected Label
	}{
		{"what is the demand forecast", Demand},
		{"mod rate please", MOD},
		{"iex price now", IEX},
		{"banking unit for the block", Banking},
		{"procurement price today", Procurement},
		{"cost per block please", CostPerBlock},
		{"plf of the station", PlantInfo},
		// Earlier rules shadow later ones.
		{"plant demand right now", Demand},
		{"banked unit of power plant", Banking},
	}
	for _, tt := range tests {
		label, ok := ClassifyLexical(tt.text)
		assert.True(t, ok, "text %q", tt.text)
		assert.Equal(t, tt.expected, label, "text %q", tt.text)
	}

	_, ok := ClassifyLexical("hello there")
	assert.False(t, ok)
}
