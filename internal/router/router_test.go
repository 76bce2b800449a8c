package router

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "urja-assistant/internal/common/errors"
	"urja-assistant/internal/common/logger"
	"urja-assistant/internal/models"
	"urja-assistant/internal/nlp/intent"
	"urja-assistant/internal/nlp/temporal"
)

// capture records the dispatch a collaborator stub received.
type capture struct {
	intent string
	date   string
	tod    temporal.TimeOfDay
}

func stub(name string, c *capture) CollaboratorFunc {
	return func(_ context.Context, date string, tod temporal.TimeOfDay, _ string) models.Envelope {
		if c != nil {
			*c = capture{intent: name, date: date, tod: tod}
		}
		return models.Ok(name, map[string]interface{}{"stub": name}, nil)
	}
}

func newTestRouter(t *testing.T, c *capture) *Router {
	t.Helper()
	classifier := intent.NewClassifier(nil, logger.NewTestLogger(t))
	r := NewRouter(classifier, Collaborators{
		PlantInfo:   stub("plant_info", c),
		Procurement: stub("procurement", c),
		Banking:     stub("banking", c),
		MOD:         stub("mod", c),
		IEX:         stub("iex", c),
		Demand:      stub("demand", c),
	}, "UTC", logger.NewTestLogger(t))
	r.now = func() time.Time {
		return time.Date(2027, 9, 30, 11, 37, 45, 0, time.UTC)
	}
	return r
}

func TestRespondEmptyInput(t *testing.T) {
	r := newTestRouter(t, nil)
	env := r.Respond(context.Background(), "   ")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodeEmptyRequest, env.Error.Code)
}

func TestRespondStaticBeforeEverything(t *testing.T) {
	r := newTestRouter(t, nil)
	env := r.Respond(context.Background(), "What is IEX?")
	require.True(t, env.OK)
	assert.Equal(t, "static", *env.Intent)
	assert.NotEmpty(t, env.Data["text"])
}

func TestRespondPlantGuardDefaultsToNow(t *testing.T) {
	var c capture
	r := newTestRouter(t, &c)

	env := r.Respond(context.Background(), "PLF of Koradi")
	require.True(t, env.OK)
	assert.Equal(t, "plant_info", c.intent)
	assert.Equal(t, "2027-09-30", c.date)
	assert.Equal(t, temporal.TimeOfDay{Hour: 11, Minute: 37}, c.tod)
}

func TestRespondPlantGuardKeepsExplicitTimestamp(t *testing.T) {
	var c capture
	r := newTestRouter(t, &c)

	env := r.Respond(context.Background(), "PLF of Koradi on 2027-01-15 at 08:30")
	require.True(t, env.OK)
	assert.Equal(t, "2027-01-15", c.date)
	assert.Equal(t, temporal.TimeOfDay{Hour: 8, Minute: 30}, c.tod)
}

func TestRespondBankingDefaultsToNow(t *testing.T) {
	var c capture
	r := newTestRouter(t, &c)

	env := r.Respond(context.Background(), "show me the banked units")
	require.True(t, env.OK)
	assert.Equal(t, "banking", c.intent)
	assert.Equal(t, "2027-09-30", c.date)
}

func TestRespondProcurementRequiresBoth(t *testing.T) {
	r := newTestRouter(t, nil)

	env := r.Respond(context.Background(), "procurement price for Koradi")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodeMissingDateOrTime, env.Error.Code)
	assert.Equal(t, "procurement", *env.Intent)
	assert.Contains(t, env.Error.Message, "YYYY-MM-DD")
	assert.Contains(t, env.Error.Message, "HH:MM")
}

func TestRespondProcurementWithBoth(t *testing.T) {
	var c capture
	r := newTestRouter(t, &c)

	env := r.Respond(context.Background(), "procurement price for Koradi on 2027-09-30 at 10:00")
	require.True(t, env.OK)
	assert.Equal(t, "procurement", c.intent)
	assert.Equal(t, "2027-09-30", c.date)
	assert.Equal(t, temporal.TimeOfDay{Hour: 10}, c.tod)
}

func TestRespondMarketIntentsRequireBoth(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, text := range []string{
		"what is the iex price",
		"mod rate please",
		"demand forecast",
	} {
		env := r.Respond(context.Background(), text)
		require.False(t, env.OK, "text %q", text)
		assert.Equal(t, apperrors.CodeMissingDateOrTime, env.Error.Code, "text %q", text)
	}
}

func TestRespondMarketDispatch(t *testing.T) {
	var c capture
	r := newTestRouter(t, &c)

	env := r.Respond(context.Background(), "what is the iex price on 2027-09-30 at 10:15")
	require.True(t, env.OK)
	assert.Equal(t, "iex", c.intent)

	env = r.Respond(context.Background(), "demand forecast for today")
	require.True(t, env.OK)
	assert.Equal(t, "demand", c.intent)
	assert.Equal(t, "2027-09-30", c.date)
}

func TestRespondCostPerBlockUnsupported(t *testing.T) {
	r := newTestRouter(t, nil)

	env := r.Respond(context.Background(), "cost per block on 2027-09-30 at 10:15")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodeUnsupportedIntent, env.Error.Code)
	assert.Equal(t, "cost_per_block", *env.Intent)
}

func TestRespondUnrecognized(t *testing.T) {
	r := newTestRouter(t, nil)

	env := r.Respond(context.Background(), "sing me a song about mountains")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodeUnrecognized, env.Error.Code)
	assert.Nil(t, env.Intent)
}

func TestRespondRecoversFromPanic(t *testing.T) {
	r := newTestRouter(t, nil)
	r.collaborators.Banking = func(_ context.Context, _ string, _ temporal.TimeOfDay, _ string) models.Envelope {
		panic("collaborator exploded")
	}

	env := r.Respond(context.Background(), "banking unit now")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodeInternal, env.Error.Code)
}

func TestRespondNeverFabricatesTimestamp(t *testing.T) {
	var c capture
	r := newTestRouter(t, &c)

	// "at 10:15" with no date and no now-word: market intents must refuse.
	env := r.Respond(context.Background(), "iex price at 10:15")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodeMissingDateOrTime, env.Error.Code)
}
