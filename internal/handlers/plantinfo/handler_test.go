package plantinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urja-assistant/internal/common/config"
	apperrors "urja-assistant/internal/common/errors"
	"urja-assistant/internal/common/logger"
	"urja-assistant/internal/nlp/temporal"
	"urja-assistant/internal/powcast"
)

const catalogBody = `{
	"must_run": [
		{"name": "Koradi", "PLF": 0.82, "PAF": 0.91, "Variable_Cost": 3.5, "Max_Power": 660, "Type": "Thermal"}
	],
	"other": [
		{"name": "Sasan Power", "PLF": 0.76, "Variable_Cost": 2.8, "Max_Power": 3960, "Type": "Thermal"}
	]
}`

func newTestHandler(t *testing.T, srv *httptest.Server) *Handler {
	t.Helper()
	cfg := &Config{NameTolerance: 0.75, FieldTolerance: 0.85, CurrencySymbol: "₹"}
	api := powcast.NewClient(config.PowcastConfig{BaseURL: srv.URL, Timeout: 5}, logger.NewTestLogger(t))
	return NewHandler(cfg, api, logger.NewTestLogger(t))
}

func catalogServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/plant/", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestHandleSinglePlantMetric(t *testing.T) {
	srv := catalogServer(t, catalogBody, http.StatusOK)
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.Handle(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10}, "PLF of Koradi on 2027-09-30 at 10:00")
	require.True(t, env.OK)
	assert.Equal(t, "82%", env.Data["value"])
	assert.Equal(t, "Koradi", env.Data["plant"])
	assert.Equal(t, "The PLF for Koradi at 10:00 on 2027-09-30 is 82%.", env.Data["text"])
}

func TestHandleFuzzyPlantName(t *testing.T) {
	srv := catalogServer(t, catalogBody, http.StatusOK)
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.Handle(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10}, "variable cost of sasan at 10:00")
	require.True(t, env.OK)
	assert.Equal(t, "Sasan Power", env.Data["plant"])
	assert.Equal(t, "₹2.8 per unit", env.Data["value"])
}

func TestHandleOverview(t *testing.T) {
	srv := catalogServer(t, catalogBody, http.StatusOK)
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.Handle(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10}, "list all max power values")
	require.True(t, env.OK)
	rows := env.Data["rows"].([]map[string]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, "660 MW", rows[0]["value"])
	assert.Equal(t, "3960 MW", rows[1]["value"])
}

func TestHandlePlantNameMissing(t *testing.T) {
	srv := catalogServer(t, catalogBody, http.StatusOK)
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.Handle(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10}, "what is the plf")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodePlantNameMissing, env.Error.Code)
}

func TestHandlePlantNotFound(t *testing.T) {
	srv := catalogServer(t, catalogBody, http.StatusOK)
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.Handle(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10}, "plf of mundra at 10:00")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodePlantNotFound, env.Error.Code)
}

func TestHandleMissingParam(t *testing.T) {
	srv := catalogServer(t, catalogBody, http.StatusOK)
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.Handle(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10}, "tell me about koradi plant stuff")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodeMissingParam, env.Error.Code)
}

func TestHandleNoData(t *testing.T) {
	srv := catalogServer(t, "", http.StatusNoContent)
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.Handle(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10}, "plf of koradi at 10:00")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodeNoData, env.Error.Code)
}

func TestHandleFetchFailed(t *testing.T) {
	srv := catalogServer(t, "boom", http.StatusInternalServerError)
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.Handle(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10}, "plf of koradi at 10:00")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodeFetchFailed, env.Error.Code)
}
